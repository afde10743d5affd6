// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Task and
// Subtask models.
//
// The progress recompute helper lives here rather than in the service layer
// so a subtask mutation and the derived task update can share one transaction
// handle; the service wraps both in a single db.Transaction scope.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// CreateTask inserts a new task owned by userID. Progress always starts at 0
// regardless of any value the caller supplied upstream.
func CreateTask(ctx context.Context, db *gorm.DB, t *domain.Task) (*domain.Task, error) {
	t.ID = uuid.NewString()
	t.Progress = 0
	t.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasksByUser returns the tasks owned by userID with their subtasks,
// newest first. Subtasks are ordered by insertion position.
func ListTasksByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Task, error) {
	var out []domain.Task
	err := db.WithContext(ctx).
		Preload("Subtasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position asc")
		}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetTask fetches a task by ID with its subtasks, or ErrNotFound if missing.
func GetTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error) {
	var t domain.Task
	err := db.WithContext(ctx).
		Preload("Subtasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position asc")
		}).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTaskStatus overwrites the task status. Transitions are unrestricted.
// Returns ErrNotFound when the task does not exist.
func UpdateTaskStatus(ctx context.Context, db *gorm.DB, id string, status domain.TaskStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Task{}).
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

// DeleteTask removes a task; subtasks cascade. Returns ErrNotFound when the
// task does not exist.
func DeleteTask(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateSubtask appends a subtask to taskID at position max(existing)+1,
// or 0 when the task has none.
func CreateSubtask(ctx context.Context, db *gorm.DB, taskID, title string) (*domain.Subtask, error) {
	var maxPos struct {
		P *int
	}
	if err := db.WithContext(ctx).
		Model(&domain.Subtask{}).
		Select("MAX(position) AS p").
		Where("task_id = ?", taskID).
		Scan(&maxPos).Error; err != nil {
		return nil, err
	}
	pos := 0
	if maxPos.P != nil {
		pos = *maxPos.P + 1
	}

	s := &domain.Subtask{
		ID:        uuid.NewString(),
		Title:     title,
		TaskID:    taskID,
		Order:     pos,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSubtask fetches a subtask by ID, or ErrNotFound if missing.
func GetSubtask(ctx context.Context, db *gorm.DB, id string) (*domain.Subtask, error) {
	var s domain.Subtask
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSubtaskCompleted sets the completed flag and the matching CompletedAt
// value (a timestamp when completing, NULL when un-completing).
func SetSubtaskCompleted(ctx context.Context, db *gorm.DB, id string, completed bool, at *time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Subtask{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"completed":    completed,
			"completed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteSubtask removes a subtask. Returns ErrNotFound when it does not exist.
func DeleteSubtask(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Subtask{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecomputeTaskProgress re-derives and persists the task's progress from its
// current subtask rows: round(100 * completed / total), 0 with no subtasks.
// Call it on the same transaction handle as the triggering subtask mutation.
func RecomputeTaskProgress(ctx context.Context, db *gorm.DB, taskID string) (int, error) {
	var total, done int64
	if err := db.WithContext(ctx).
		Model(&domain.Subtask{}).
		Where("task_id = ?", taskID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	if total > 0 {
		if err := db.WithContext(ctx).
			Model(&domain.Subtask{}).
			Where("task_id = ? AND completed = ?", taskID, true).
			Count(&done).Error; err != nil {
			return 0, err
		}
	}

	progress := 0
	if total > 0 {
		// Round half away from zero, matching e.g. round(100/3) == 33.
		progress = int((100*done + total/2) / total)
	}

	err := db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", taskID).
		Update("progress", progress).Error
	return progress, err
}
