package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

func TestRequestDraft_CompleteStampsDuration(t *testing.T) {
	db := newServiceDB(t)
	svc := NewDraftService(db)
	ctx := context.Background()
	ident := Identity{UserID: "u-1", Name: "Jonas", Role: domain.RoleUser}

	d, err := svc.StartRequestDraft(ctx, ident)
	if err != nil {
		t.Fatalf("StartRequestDraft: %v", err)
	}

	if err := svc.SaveRequestDraft(ctx, ident, d.ID, domain.DraftFormData{"title": "CEA"}); err != nil {
		t.Fatalf("SaveRequestDraft: %v", err)
	}

	svc.Now = func() time.Time { return d.StartedAt.Add(90 * time.Second) }
	if err := svc.FinishRequestDraft(ctx, ident, d.ID, true); err != nil {
		t.Fatalf("FinishRequestDraft: %v", err)
	}

	got, err := repo.GetRequestDraft(ctx, db, d.ID)
	if err != nil {
		t.Fatalf("GetRequestDraft: %v", err)
	}
	if got.CompletedAt == nil || got.Duration == nil || *got.Duration != 90 || got.Abandoned {
		t.Fatalf("completed draft row unexpected: %+v", got)
	}
	if got.FormData["title"] != "CEA" {
		t.Fatalf("form data lost: %+v", got.FormData)
	}
}

func TestRequestDraft_Abandon(t *testing.T) {
	db := newServiceDB(t)
	svc := NewDraftService(db)
	ctx := context.Background()
	ident := Identity{UserID: "u-1", Name: "Jonas", Role: domain.RoleUser}

	d, err := svc.StartRequestDraft(ctx, ident)
	if err != nil {
		t.Fatalf("StartRequestDraft: %v", err)
	}
	if err := svc.FinishRequestDraft(ctx, ident, d.ID, false); err != nil {
		t.Fatalf("FinishRequestDraft(abandon): %v", err)
	}

	got, err := repo.GetRequestDraft(ctx, db, d.ID)
	if err != nil {
		t.Fatalf("GetRequestDraft: %v", err)
	}
	if !got.Abandoned || got.CompletedAt != nil || got.Duration != nil {
		t.Fatalf("abandoned draft row unexpected: %+v", got)
	}
}

func TestDraftOwnership(t *testing.T) {
	db := newServiceDB(t)
	svc := NewDraftService(db)
	ctx := context.Background()
	owner := Identity{UserID: "u-1", Name: "Jonas", Role: domain.RoleUser}
	other := Identity{UserID: "u-2", Name: "Ruta", Role: domain.RoleUser}

	d, err := svc.StartRequestDraft(ctx, owner)
	if err != nil {
		t.Fatalf("StartRequestDraft: %v", err)
	}
	if err := svc.SaveRequestDraft(ctx, other, d.ID, domain.DraftFormData{"x": "y"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign save should look like a missing draft, got %v", err)
	}
	if err := svc.FinishRequestDraft(ctx, other, d.ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign finish should look like a missing draft, got %v", err)
	}

	fd, err := svc.StartFeedbackDraft(ctx, owner)
	if err != nil {
		t.Fatalf("StartFeedbackDraft: %v", err)
	}
	if err := svc.FinishFeedbackDraft(ctx, other, fd.ID, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign feedback finish should look like a missing draft, got %v", err)
	}
}

func TestFeedbackDraft_Complete(t *testing.T) {
	db := newServiceDB(t)
	svc := NewDraftService(db)
	ctx := context.Background()
	ident := Identity{UserID: "u-1", Name: "Jonas", Role: domain.RoleUser}

	d, err := svc.StartFeedbackDraft(ctx, ident)
	if err != nil {
		t.Fatalf("StartFeedbackDraft: %v", err)
	}
	svc.Now = func() time.Time { return d.StartedAt.Add(42 * time.Second) }
	if err := svc.FinishFeedbackDraft(ctx, ident, d.ID, true); err != nil {
		t.Fatalf("FinishFeedbackDraft: %v", err)
	}

	got, err := repo.GetFeedbackDraft(ctx, db, d.ID)
	if err != nil {
		t.Fatalf("GetFeedbackDraft: %v", err)
	}
	if got.CompletedAt == nil || got.Duration == nil || *got.Duration != 42 {
		t.Fatalf("completed feedback draft unexpected: %+v", got)
	}
}
