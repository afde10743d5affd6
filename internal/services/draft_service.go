// Package services – DraftService
//
// This file implements the form-fill funnel tracking. A draft is opened when
// the client opens a form, auto-saved on a client timer, and closed by the
// client reporting either completion or abandonment. The server deliberately
// runs no timeout sweep: a draft whose client vanished stays open forever and
// is simply excluded from conversion denominators.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

// DraftKind selects which funnel a draft belongs to.
type DraftKind string

const (
	DraftRequest  DraftKind = "request"
	DraftFeedback DraftKind = "feedback"
)

// DraftService provides the funnel draft operations.
type DraftService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

// NewDraftService constructs a DraftService.
func NewDraftService(db *gorm.DB) *DraftService {
	return &DraftService{DB: db, Now: time.Now}
}

// StartRequestDraft opens a request-form funnel record for the caller.
func (s *DraftService) StartRequestDraft(ctx context.Context, ident Identity) (*domain.RequestDraft, error) {
	return repo.CreateRequestDraft(ctx, s.DB, ident.UserID)
}

// SaveRequestDraft overwrites the auto-saved form content. Only the draft
// owner may write to it.
func (s *DraftService) SaveRequestDraft(ctx context.Context, ident Identity, id string, form domain.DraftFormData) error {
	d, err := repo.GetRequestDraft(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if d.UserID != ident.UserID {
		return ErrNotFound
	}
	return repo.SaveRequestDraftForm(ctx, s.DB, id, form)
}

// FinishRequestDraft closes a request draft as completed or abandoned.
// Completion stamps the terminal time and the duration in whole seconds
// since the draft started.
func (s *DraftService) FinishRequestDraft(ctx context.Context, ident Identity, id string, completed bool) error {
	d, err := repo.GetRequestDraft(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if d.UserID != ident.UserID {
		return ErrNotFound
	}
	if !completed {
		return repo.AbandonRequestDraft(ctx, s.DB, id)
	}
	now := s.Now().UTC()
	return repo.CompleteRequestDraft(ctx, s.DB, id, now, int(now.Sub(d.StartedAt).Seconds()))
}

// StartFeedbackDraft opens a feedback-form funnel record for the caller.
func (s *DraftService) StartFeedbackDraft(ctx context.Context, ident Identity) (*domain.FeedbackDraft, error) {
	return repo.CreateFeedbackDraft(ctx, s.DB, ident.UserID)
}

// FinishFeedbackDraft closes a feedback draft as completed or abandoned.
func (s *DraftService) FinishFeedbackDraft(ctx context.Context, ident Identity, id string, completed bool) error {
	d, err := repo.GetFeedbackDraft(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if d.UserID != ident.UserID {
		return ErrNotFound
	}
	if !completed {
		return repo.AbandonFeedbackDraft(ctx, s.DB, id)
	}
	now := s.Now().UTC()
	return repo.CompleteFeedbackDraft(ctx, s.DB, id, now, int(now.Sub(d.StartedAt).Seconds()))
}
