// Package services – ChatService
//
// This file implements the PIN-gated internal chat: room visibility by role,
// lazy creation of per-user admin rooms, the persisted PIN lockout state
// machine, and message storage/retrieval.
//
// The lockout is server-persisted per (user, room) so reloading the client
// does not reset it. Three consecutive failures block the pair for a fixed
// window; with a 4-digit keyspace that caps brute force at roughly 432
// attempts per day, a deterrent rather than a guarantee.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

// pinRE matches exactly four ASCII digits.
var pinRE = regexp.MustCompile(`^\d{4}$`)

// ChatService provides room listing, PIN verification, and messaging.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxAttempts is the number of consecutive PIN failures that trips the
	// lockout (policy default 3).
	MaxAttempts int
	// BlockDuration is the fixed lockout window (policy default 10m).
	BlockDuration time.Duration
	// DefaultUserRoomPin seeds lazily created ADMIN_USER rooms.
	DefaultUserRoomPin string
	// HistoryLimit caps message retrieval per room.
	HistoryLimit int

	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

// NewChatService constructs a ChatService with the given lockout policy.
func NewChatService(db *gorm.DB, maxAttempts int, blockDuration time.Duration, defaultUserRoomPin string) *ChatService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if blockDuration <= 0 {
		blockDuration = 10 * time.Minute
	}
	if defaultUserRoomPin == "" {
		defaultUserRoomPin = "5678"
	}
	return &ChatService{
		DB:                 db,
		MaxAttempts:        maxAttempts,
		BlockDuration:      blockDuration,
		DefaultUserRoomPin: defaultUserRoomPin,
		HistoryLimit:       100,
		Now:                time.Now,
	}
}

// ListRooms returns the rooms visible to the caller.
//
//   - USER: only their paired ADMIN_USER room, created on first call with the
//     default PIN. Two users never share a room.
//   - ADMIN: the employee room plus every ADMIN_USER room.
//   - IT_SPECIALIST / QUALITY_EVALUATOR: the employee room only.
func (s *ChatService) ListRooms(ctx context.Context, ident Identity) ([]domain.ChatRoom, error) {
	switch ident.Role {
	case domain.RoleUser:
		name := "Admin chat – " + ident.Name
		room, err := repo.GetOrCreateAdminUserRoom(ctx, s.DB, ident.UserID, name, s.DefaultUserRoomPin)
		if err != nil {
			return nil, err
		}
		return []domain.ChatRoom{*room}, nil

	case domain.RoleAdmin:
		employee, err := repo.GetEmployeeRoom(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		userRooms, err := repo.ListAdminUserRooms(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		return append([]domain.ChatRoom{*employee}, userRooms...), nil

	case domain.RoleITSpecialist, domain.RoleQualityEvaluator:
		employee, err := repo.GetEmployeeRoom(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		return []domain.ChatRoom{*employee}, nil
	}
	return nil, ErrForbidden
}

// canEnter applies the room visibility matrix: the employee room admits every
// staff role but never a USER; an admin-user room admits its paired user and
// any admin.
func canEnter(room *domain.ChatRoom, ident Identity) bool {
	switch room.Type {
	case domain.RoomEmployee:
		return ident.Role == domain.RoleAdmin ||
			ident.Role == domain.RoleITSpecialist ||
			ident.Role == domain.RoleQualityEvaluator
	case domain.RoomAdminUser:
		if ident.Role == domain.RoleAdmin {
			return true
		}
		return ident.Role == domain.RoleUser &&
			room.UserID != nil && *room.UserID == ident.UserID
	}
	return false
}

// VerifyPin runs the lockout state machine for one attempt.
//
// Order matters and is part of the contract:
//  1. the room must exist (ErrNotFound);
//  2. the caller's role must be allowed into it (ErrForbidden);
//  3. an active block rejects the attempt regardless of the candidate PIN,
//     without extending the window (*BlockedError with ceil-minutes);
//  4. a correct PIN resets attempts and clears the block;
//  5. an incorrect PIN increments attempts; reaching MaxAttempts sets
//     blockedUntil = now + BlockDuration, resets the counter, and returns
//     ErrTooManyAttempts; otherwise *InvalidPinError reports what's left.
func (s *ChatService) VerifyPin(ctx context.Context, ident Identity, roomID, candidatePin string) (*domain.ChatRoom, error) {
	if !pinRE.MatchString(candidatePin) {
		return nil, validationf("pin must be exactly 4 digits")
	}

	var room *domain.ChatRoom
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := repo.GetRoom(ctx, tx, roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !canEnter(r, ident) {
			return ErrForbidden
		}

		access, err := repo.GetOrCreateAccess(ctx, tx, ident.UserID, roomID)
		if err != nil {
			return err
		}

		now := s.Now().UTC()
		if access.BlockedUntil != nil && access.BlockedUntil.After(now) {
			remaining := access.BlockedUntil.Sub(now)
			minutes := int((remaining + time.Minute - 1) / time.Minute)
			return &BlockedError{RetryAfterMinutes: minutes}
		}

		access.LastAttemptAt = &now

		if candidatePin == r.Pin {
			access.Attempts = 0
			access.BlockedUntil = nil
			if err := repo.SaveAccess(ctx, tx, access); err != nil {
				return err
			}
			room = r
			return nil
		}

		access.Attempts++
		if access.Attempts >= s.MaxAttempts {
			until := now.Add(s.BlockDuration)
			access.BlockedUntil = &until
			// The counter restarts with the block cycle.
			access.Attempts = 0
			if err := repo.SaveAccess(ctx, tx, access); err != nil {
				return err
			}
			return ErrTooManyAttempts
		}

		remaining := s.MaxAttempts - access.Attempts
		if err := repo.SaveAccess(ctx, tx, access); err != nil {
			return err
		}
		return &InvalidPinError{RemainingAttempts: remaining}
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// PostMessage stores a message in a room the caller may enter. PIN
// verification is a client-session concern; membership is still re-checked
// here so a forged room ID cannot bypass the visibility matrix.
func (s *ChatService) PostMessage(ctx context.Context, ident Identity, roomID, content string) (*domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationf("message content is required")
	}

	r, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canEnter(r, ident) {
		return nil, ErrForbidden
	}
	return repo.CreateMessage(ctx, s.DB, ident.UserID, roomID, content)
}

// ListMessages returns the latest messages of a room in chronological order,
// capped at HistoryLimit.
func (s *ChatService) ListMessages(ctx context.Context, ident Identity, roomID string) ([]domain.ChatMessage, error) {
	r, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canEnter(r, ident) {
		return nil, ErrForbidden
	}
	limit := s.HistoryLimit
	if limit <= 0 {
		limit = 100
	}
	return repo.ListRecentMessages(ctx, s.DB, roomID, limit)
}
