// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the activity-log write helper.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// CreateActivity appends an audit row. Callers treat this as fire-and-forget:
// a failed write is logged and never rolls back the primary operation.
func CreateActivity(ctx context.Context, db *gorm.DB, userID, action, detail string) error {
	a := &domain.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(a).Error
}
