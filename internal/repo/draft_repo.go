// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the funnel
// draft records (request form and feedback form fill sessions).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// CreateRequestDraft opens a new request-form funnel record.
func CreateRequestDraft(ctx context.Context, db *gorm.DB, userID string) (*domain.RequestDraft, error) {
	d := &domain.RequestDraft{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// GetRequestDraft fetches a request draft by ID, or ErrNotFound if missing.
func GetRequestDraft(ctx context.Context, db *gorm.DB, id string) (*domain.RequestDraft, error) {
	var d domain.RequestDraft
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveRequestDraftForm overwrites the auto-saved form content of a draft.
func SaveRequestDraftForm(ctx context.Context, db *gorm.DB, id string, form domain.DraftFormData) error {
	res := db.WithContext(ctx).
		Model(&domain.RequestDraft{}).
		Where("id = ?", id).
		Update("form_data", form)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CompleteRequestDraft marks a draft as submitted, recording the completion
// time and the elapsed duration in seconds.
func CompleteRequestDraft(ctx context.Context, db *gorm.DB, id string, at time.Time, durationSec int) error {
	res := db.WithContext(ctx).
		Model(&domain.RequestDraft{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"completed_at": at,
			"duration":     durationSec,
			"abandoned":    false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AbandonRequestDraft marks a draft as abandoned (client navigated away).
func AbandonRequestDraft(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.RequestDraft{}).
		Where("id = ?", id).
		Update("abandoned", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListRequestDraftsSince returns request drafts started at or after the
// cutoff, oldest first.
func ListRequestDraftsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]domain.RequestDraft, error) {
	var out []domain.RequestDraft
	err := db.WithContext(ctx).
		Where("started_at >= ?", since).
		Order("started_at asc").
		Find(&out).Error
	return out, err
}

// CreateFeedbackDraft opens a new feedback-form funnel record.
func CreateFeedbackDraft(ctx context.Context, db *gorm.DB, userID string) (*domain.FeedbackDraft, error) {
	d := &domain.FeedbackDraft{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// CompleteFeedbackDraft marks a feedback draft as submitted.
func CompleteFeedbackDraft(ctx context.Context, db *gorm.DB, id string, at time.Time, durationSec int) error {
	res := db.WithContext(ctx).
		Model(&domain.FeedbackDraft{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"completed_at": at,
			"duration":     durationSec,
			"abandoned":    false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AbandonFeedbackDraft marks a feedback draft as abandoned.
func AbandonFeedbackDraft(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.FeedbackDraft{}).
		Where("id = ?", id).
		Update("abandoned", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetFeedbackDraft fetches a feedback draft by ID, or ErrNotFound if missing.
func GetFeedbackDraft(ctx context.Context, db *gorm.DB, id string) (*domain.FeedbackDraft, error) {
	var d domain.FeedbackDraft
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListFeedbackDraftsSince returns feedback drafts started at or after the
// cutoff, oldest first.
func ListFeedbackDraftsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]domain.FeedbackDraft, error) {
	var out []domain.FeedbackDraft
	err := db.WithContext(ctx).
		Where("started_at >= ?", since).
		Order("started_at asc").
		Find(&out).Error
	return out, err
}
