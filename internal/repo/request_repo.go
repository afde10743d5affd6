// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Request
// model (the Kanban-tracked modeling requests).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// CreateRequest inserts a new modeling request with status PENDING.
func CreateRequest(ctx context.Context, db *gorm.DB, userID, title, description string, priority domain.Priority, filters domain.RequestFilters) (*domain.Request, error) {
	r := &domain.Request{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      domain.RequestPending,
		Priority:    priority,
		Filters:     filters,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListRequests returns every request, newest first (admin board view).
func ListRequests(ctx context.Context, db *gorm.DB) ([]domain.Request, error) {
	var out []domain.Request
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// ListRequestsByUser returns the requests owned by userID, newest first.
func ListRequestsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Request, error) {
	var out []domain.Request
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetRequest fetches a request by ID, or ErrNotFound if missing.
func GetRequest(ctx context.Context, db *gorm.DB, id string) (*domain.Request, error) {
	var r domain.Request
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRequestStatus overwrites the status of a request. The status value is
// validated in the service layer; transitions are unrestricted by design.
// Returns ErrNotFound when the request does not exist.
func UpdateRequestStatus(ctx context.Context, db *gorm.DB, id string, status domain.RequestStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRequestNotes overwrites the admin notes of a request.
// Returns ErrNotFound when the request does not exist.
func UpdateRequestNotes(ctx context.Context, db *gorm.DB, id, notes string) error {
	res := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("id = ?", id).
		Update("admin_notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountRequestsByUser returns the number of requests owned by userID.
// Used by user segmentation.
func CountRequestsByUser(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}
