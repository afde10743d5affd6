// Package services – RequestService
//
// This file implements the lifecycle of user-submitted modeling requests:
// creation, board listing, status moves, and admin notes. Status transitions
// are deliberately unrestricted (any status can be set from any other) so the
// Kanban board can move cards freely; only the status value itself is
// validated.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

// RequestService provides the request lifecycle operations.
type RequestService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewRequestService constructs a RequestService.
func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{DB: db}
}

// Create submits a new modeling request for userID with status PENDING.
// Title and description must be non-blank; an unknown priority falls back to
// MEDIUM rather than failing, matching the intake form's default.
func (s *RequestService) Create(ctx context.Context, userID, title, description string, priority domain.Priority, filters domain.RequestFilters) (*domain.Request, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, validationf("title is required")
	}
	if description == "" {
		return nil, validationf("description is required")
	}
	if !domain.ValidPriority(priority) {
		priority = domain.PriorityMedium
	}

	r, err := repo.CreateRequest(ctx, s.DB, userID, title, description, priority, filters)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, userID, "request.create", r.ID)
	return r, nil
}

// List returns the board contents. Admins see every request; everyone else
// sees only their own.
func (s *RequestService) List(ctx context.Context, ident Identity) ([]domain.Request, error) {
	if ident.Role == domain.RoleAdmin {
		return repo.ListRequests(ctx, s.DB)
	}
	return repo.ListRequestsByUser(ctx, s.DB, ident.UserID)
}

// Get fetches one request, enforcing the same visibility rule as List.
func (s *RequestService) Get(ctx context.Context, ident Identity, id string) (*domain.Request, error) {
	r, err := repo.GetRequest(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ident.Role != domain.RoleAdmin && r.UserID != ident.UserID {
		return nil, ErrNotFound
	}
	return r, nil
}

// SetStatus overwrites a request's status. The new value must be one of the
// four enum values; no transition graph is enforced, so PENDING can go
// straight to COMPLETED.
func (s *RequestService) SetStatus(ctx context.Context, ident Identity, id string, status domain.RequestStatus) error {
	if !domain.ValidRequestStatus(status) {
		return ErrInvalidStatus
	}
	if err := repo.UpdateRequestStatus(ctx, s.DB, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logActivity(ctx, ident.UserID, "request.status", id+" -> "+string(status))
	return nil
}

// SetAdminNotes overwrites the notes field. Only the request's existence is
// checked; the handler layer restricts the endpoint to admins.
func (s *RequestService) SetAdminNotes(ctx context.Context, ident Identity, id, notes string) error {
	if err := repo.UpdateRequestNotes(ctx, s.DB, id, notes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logActivity(ctx, ident.UserID, "request.notes", id)
	return nil
}

// logActivity records an audit row best-effort. Failures are logged and
// swallowed; they never fail the primary operation.
func (s *RequestService) logActivity(ctx context.Context, userID, action, detail string) {
	if err := repo.CreateActivity(ctx, s.DB, userID, action, detail); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("activity log write failed")
	}
}
