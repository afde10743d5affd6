// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for chat rooms,
// per-user access/lockout state, and messages.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// GetRoom fetches a chat room by ID, or ErrNotFound if missing.
func GetRoom(ctx context.Context, db *gorm.DB, id string) (*domain.ChatRoom, error) {
	var r domain.ChatRoom
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// GetEmployeeRoom fetches the single staff-wide room.
func GetEmployeeRoom(ctx context.Context, db *gorm.DB) (*domain.ChatRoom, error) {
	var r domain.ChatRoom
	err := db.WithContext(ctx).
		Where("type = ?", domain.RoomEmployee).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetOrCreateAdminUserRoom returns the ADMIN_USER room paired with userID,
// creating it with the given name and default PIN when absent. Each USER gets
// their own row; the unique index on user_id keeps concurrent first requests
// from creating two.
func GetOrCreateAdminUserRoom(ctx context.Context, db *gorm.DB, userID, name, pin string) (*domain.ChatRoom, error) {
	var r domain.ChatRoom
	err := db.WithContext(ctx).
		Where("type = ? AND user_id = ?", domain.RoomAdminUser, userID).
		First(&r).Error
	if err == nil {
		return &r, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	r = domain.ChatRoom{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      domain.RoomAdminUser,
		Pin:       pin,
		UserID:    &userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListAdminUserRooms returns every per-user admin room (admin room overview).
func ListAdminUserRooms(ctx context.Context, db *gorm.DB) ([]domain.ChatRoom, error) {
	var out []domain.ChatRoom
	err := db.WithContext(ctx).
		Where("type = ?", domain.RoomAdminUser).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// GetOrCreateAccess loads the lockout row for (userID, roomID), inserting a
// zero-attempts row when none exists yet.
func GetOrCreateAccess(ctx context.Context, db *gorm.DB, userID, roomID string) (*domain.ChatAccess, error) {
	var a domain.ChatAccess
	err := db.WithContext(ctx).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		First(&a).Error
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	a = domain.ChatAccess{
		ID:     uuid.NewString(),
		UserID: userID,
		RoomID: roomID,
	}
	if err := db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveAccess persists the full lockout state of an existing access row.
func SaveAccess(ctx context.Context, db *gorm.DB, a *domain.ChatAccess) error {
	return db.WithContext(ctx).
		Model(&domain.ChatAccess{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"attempts":        a.Attempts,
			"blocked_until":   a.BlockedUntil,
			"last_attempt_at": a.LastAttemptAt,
		}).Error
}

// CreateMessage appends an immutable message to a room.
func CreateMessage(ctx context.Context, db *gorm.DB, userID, roomID, content string) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		UserID:    userID,
		RoomID:    roomID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListRecentMessages returns at most limit of the newest messages in roomID,
// reordered ascending so the client renders them chronologically.
func ListRecentMessages(ctx context.Context, db *gorm.DB, roomID string, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	// Newest-first query for the LIMIT, oldest-first for the caller.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
