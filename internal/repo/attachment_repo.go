// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for subtask
// attachments and their comment threads.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// CreateAttachment inserts an attachment row for a subtask.
func CreateAttachment(ctx context.Context, db *gorm.DB, a *domain.Attachment) (*domain.Attachment, error) {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// ListAttachmentsBySubtask returns the attachments of a subtask, oldest first.
func ListAttachmentsBySubtask(ctx context.Context, db *gorm.DB, subtaskID string) ([]domain.Attachment, error) {
	var out []domain.Attachment
	err := db.WithContext(ctx).
		Where("subtask_id = ?", subtaskID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// GetAttachment fetches an attachment by ID, or ErrNotFound if missing.
func GetAttachment(ctx context.Context, db *gorm.DB, id string) (*domain.Attachment, error) {
	var a domain.Attachment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAttachment removes an attachment; its comments cascade.
func DeleteAttachment(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Attachment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateComment inserts a comment on an attachment.
func CreateComment(ctx context.Context, db *gorm.DB, attachmentID, comment string, authorRole domain.Role, authorName string) (*domain.AttachmentComment, error) {
	now := time.Now().UTC()
	c := &domain.AttachmentComment{
		ID:           uuid.NewString(),
		AttachmentID: attachmentID,
		Comment:      comment,
		AuthorRole:   authorRole,
		AuthorName:   authorName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns an attachment's comments, oldest first.
func ListComments(ctx context.Context, db *gorm.DB, attachmentID string) ([]domain.AttachmentComment, error) {
	var out []domain.AttachmentComment
	err := db.WithContext(ctx).
		Where("attachment_id = ?", attachmentID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// GetComment fetches a comment by ID, or ErrNotFound if missing.
func GetComment(ctx context.Context, db *gorm.DB, id string) (*domain.AttachmentComment, error) {
	var c domain.AttachmentComment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateComment overwrites the comment text and bumps UpdatedAt.
func UpdateComment(ctx context.Context, db *gorm.DB, id, comment string) error {
	res := db.WithContext(ctx).
		Model(&domain.AttachmentComment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"comment":    comment,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteComment removes a comment.
func DeleteComment(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.AttachmentComment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
