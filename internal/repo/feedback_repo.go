// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for satisfaction
// feedback rows.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// CreateFeedback inserts a feedback row. Metric range validation happens in
// the service layer.
func CreateFeedback(ctx context.Context, db *gorm.DB, f *domain.Feedback) (*domain.Feedback, error) {
	f.ID = uuid.NewString()
	f.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// LatestFeedbackByUser returns the user's most recent feedback, or nil when
// they have never submitted any. Uniqueness per user is informal, so "most
// recent wins" is the read rule.
func LatestFeedbackByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.Feedback, error) {
	var f domain.Feedback
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// ListFeedbackSince returns all feedback created at or after the cutoff,
// oldest first. Used by the analytics aggregator.
func ListFeedbackSince(ctx context.Context, db *gorm.DB, since time.Time) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}
