// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and first-run seeding.
package repo

import (
	"context"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for every domain model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Request{},
		&domain.Task{},
		&domain.Subtask{},
		&domain.ChatRoom{},
		&domain.ChatAccess{},
		&domain.ChatMessage{},
		&domain.Attachment{},
		&domain.AttachmentComment{},
		&domain.Feedback{},
		&domain.RequestDraft{},
		&domain.FeedbackDraft{},
		&domain.Survey{},
		&domain.SurveyQuestion{},
		&domain.SurveyResponse{},
		&domain.SurveyAnswer{},
		&domain.ActivityLog{},
	)
}

// SeedEmployeeRoom ensures the single staff-wide chat room exists. Safe to
// call on every startup; it inserts only when no EMPLOYEE room is present.
func SeedEmployeeRoom(ctx context.Context, db *gorm.DB, pin string) error {
	var count int64
	if err := db.WithContext(ctx).
		Model(&domain.ChatRoom{}).
		Where("type = ?", domain.RoomEmployee).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	room := &domain.ChatRoom{
		ID:        uuid.NewString(),
		Name:      "Employee chat",
		Type:      domain.RoomEmployee,
		Pin:       pin,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(room).Error
}
