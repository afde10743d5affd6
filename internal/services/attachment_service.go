// Package services – AttachmentService
//
// This file implements subtask file attachments and their comment threads.
// Attachments are opaque base64 payloads capped by size; the server stores
// them as given and never inspects content. Deletion rights are keyed on the
// uploader's *role* rather than identity, and comment edit/delete requires an
// exact (authorRole, authorName) match — both are deployment-inherited rules
// kept as-is.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

// AttachmentService provides attachment upload/list/delete and comments.
type AttachmentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// MaxBytes caps the decoded payload size (policy default 5 MiB).
	MaxBytes int64
}

// NewAttachmentService constructs an AttachmentService.
func NewAttachmentService(db *gorm.DB, maxBytes int64) *AttachmentService {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &AttachmentService{DB: db, MaxBytes: maxBytes}
}

// UploadInput carries the attachment upload fields. FileURL is the opaque
// payload (typically a base64 data URL); FileSize is the decoded size the
// client reports and the cap is enforced against both.
type UploadInput struct {
	SubtaskID string
	FileName  string
	FileURL   string
	FileSize  int64
	FileType  string
}

// Upload attaches a file to a subtask. The uploader's role, not identity, is
// recorded for later permission checks.
func (s *AttachmentService) Upload(ctx context.Context, ident Identity, in UploadInput) (*domain.Attachment, error) {
	in.FileName = strings.TrimSpace(in.FileName)
	if in.FileName == "" {
		return nil, validationf("file name is required")
	}
	if in.FileURL == "" {
		return nil, validationf("file payload is required")
	}
	if in.FileSize > s.MaxBytes || int64(len(in.FileURL)) > s.MaxBytes*2 {
		return nil, validationf("file exceeds %d byte limit", s.MaxBytes)
	}

	if _, err := repo.GetSubtask(ctx, s.DB, in.SubtaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a := &domain.Attachment{
		SubtaskID:  in.SubtaskID,
		FileName:   in.FileName,
		FileURL:    in.FileURL,
		FileSize:   in.FileSize,
		FileType:   in.FileType,
		UploadedBy: ident.Role,
	}
	return repo.CreateAttachment(ctx, s.DB, a)
}

// List returns a subtask's attachments.
func (s *AttachmentService) List(ctx context.Context, subtaskID string) ([]domain.Attachment, error) {
	if _, err := repo.GetSubtask(ctx, s.DB, subtaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return repo.ListAttachmentsBySubtask(ctx, s.DB, subtaskID)
}

// Delete removes an attachment. Allowed when the requester's role matches the
// uploading role, or the requester is an admin.
func (s *AttachmentService) Delete(ctx context.Context, ident Identity, id string) error {
	a, err := repo.GetAttachment(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if ident.Role != domain.RoleAdmin && ident.Role != a.UploadedBy {
		return ErrForbidden
	}
	return repo.DeleteAttachment(ctx, s.DB, id)
}

// Comment adds a comment to an attachment under the caller's (role, name).
func (s *AttachmentService) Comment(ctx context.Context, ident Identity, attachmentID, text string) (*domain.AttachmentComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationf("comment is required")
	}
	if _, err := repo.GetAttachment(ctx, s.DB, attachmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return repo.CreateComment(ctx, s.DB, attachmentID, text, ident.Role, ident.Name)
}

// ListComments returns an attachment's comment thread.
func (s *AttachmentService) ListComments(ctx context.Context, attachmentID string) ([]domain.AttachmentComment, error) {
	if _, err := repo.GetAttachment(ctx, s.DB, attachmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return repo.ListComments(ctx, s.DB, attachmentID)
}

// EditComment updates a comment's text when the caller's (role, name) pair
// matches the recorded author.
func (s *AttachmentService) EditComment(ctx context.Context, ident Identity, commentID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return validationf("comment is required")
	}
	c, err := repo.GetComment(ctx, s.DB, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if c.AuthorRole != ident.Role || c.AuthorName != ident.Name {
		return ErrForbidden
	}
	return repo.UpdateComment(ctx, s.DB, commentID, text)
}

// DeleteComment removes a comment under the same authorship rule as edits.
func (s *AttachmentService) DeleteComment(ctx context.Context, ident Identity, commentID string) error {
	c, err := repo.GetComment(ctx, s.DB, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if c.AuthorRole != ident.Role || c.AuthorName != ident.Name {
		return ErrForbidden
	}
	return repo.DeleteComment(ctx, s.DB, commentID)
}
