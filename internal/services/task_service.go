// Package services – TaskService
//
// This file implements IT specialist task tracking and the subtask-driven
// progress percentage. Progress is derived state: it is recomputed and
// persisted inside the same transaction as every subtask mutation, so a task
// row never exposes a stale percentage and concurrent mutations on the same
// task serialize on the store's row locking.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

// TaskService provides the task and subtask operations. All mutating
// operations require the requester to own the task; mismatches surface as
// ErrNotFound so callers cannot probe for other specialists' task IDs.
type TaskService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// CreateTaskInput carries the caller-settable task fields. There is no
// progress field on purpose: progress always starts at 0 and is derived
// afterwards.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	StartDate   time.Time
	EndDate     time.Time
	Color       string
}

// CreateTask inserts a new task owned by the caller.
func (s *TaskService) CreateTask(ctx context.Context, ident Identity, in CreateTaskInput) (*domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, validationf("title is required")
	}
	if !domain.ValidPriority(in.Priority) {
		in.Priority = domain.PriorityMedium
	}
	if !in.EndDate.IsZero() && !in.StartDate.IsZero() && in.EndDate.Before(in.StartDate) {
		return nil, validationf("end date precedes start date")
	}

	t := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.TaskTodo,
		Priority:    in.Priority,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Color:       in.Color,
		UserID:      ident.UserID,
	}
	return repo.CreateTask(ctx, s.DB, t)
}

// ListTasks returns the caller's tasks with subtasks.
func (s *TaskService) ListTasks(ctx context.Context, ident Identity) ([]domain.Task, error) {
	return repo.ListTasksByUser(ctx, s.DB, ident.UserID)
}

// SetTaskStatus overwrites the task status (unrestricted transitions).
func (s *TaskService) SetTaskStatus(ctx context.Context, ident Identity, taskID string, status domain.TaskStatus) error {
	if !domain.ValidTaskStatus(status) {
		return ErrInvalidStatus
	}
	if _, err := s.ownedTask(ctx, s.DB, ident, taskID); err != nil {
		return err
	}
	return repo.UpdateTaskStatus(ctx, s.DB, taskID, status)
}

// DeleteTask removes a task and its subtasks.
func (s *TaskService) DeleteTask(ctx context.Context, ident Identity, taskID string) error {
	if _, err := s.ownedTask(ctx, s.DB, ident, taskID); err != nil {
		return err
	}
	return repo.DeleteTask(ctx, s.DB, taskID)
}

// CreateSubtask appends a subtask and recomputes the parent's progress.
// Adding an uncompleted item can only lower the percentage; the recompute
// still runs so the persisted value is always current.
func (s *TaskService) CreateSubtask(ctx context.Context, ident Identity, taskID, title string) (*domain.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationf("title is required")
	}

	var out *domain.Subtask
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ownedTask(ctx, tx, ident, taskID); err != nil {
			return err
		}
		sub, err := repo.CreateSubtask(ctx, tx, taskID, title)
		if err != nil {
			return err
		}
		if _, err := repo.RecomputeTaskProgress(ctx, tx, taskID); err != nil {
			return err
		}
		out = sub
		return nil
	})
	return out, err
}

// ToggleSubtask sets the completed flag. CompletedAt is stamped when flipping
// to true and cleared when flipping back; the parent's progress is recomputed
// in the same transaction.
func (s *TaskService) ToggleSubtask(ctx context.Context, ident Identity, subtaskID string, completed bool) (*domain.Subtask, error) {
	var out *domain.Subtask
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := repo.GetSubtask(ctx, tx, subtaskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if _, err := s.ownedTask(ctx, tx, ident, sub.TaskID); err != nil {
			return err
		}

		var at *time.Time
		if completed {
			now := time.Now().UTC()
			at = &now
		}
		if err := repo.SetSubtaskCompleted(ctx, tx, subtaskID, completed, at); err != nil {
			return err
		}
		if _, err := repo.RecomputeTaskProgress(ctx, tx, sub.TaskID); err != nil {
			return err
		}
		sub.Completed = completed
		sub.CompletedAt = at
		out = sub
		return nil
	})
	return out, err
}

// DeleteSubtask removes a subtask and recomputes the parent's progress.
func (s *TaskService) DeleteSubtask(ctx context.Context, ident Identity, subtaskID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := repo.GetSubtask(ctx, tx, subtaskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if _, err := s.ownedTask(ctx, tx, ident, sub.TaskID); err != nil {
			return err
		}
		if err := repo.DeleteSubtask(ctx, tx, subtaskID); err != nil {
			return err
		}
		_, err = repo.RecomputeTaskProgress(ctx, tx, sub.TaskID)
		return err
	})
}

// ownedTask loads the task and verifies the caller owns it. An ownership
// mismatch returns ErrNotFound, indistinguishable from a missing task.
func (s *TaskService) ownedTask(ctx context.Context, db *gorm.DB, ident Identity, taskID string) (*domain.Task, error) {
	t, err := repo.GetTask(ctx, db, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.UserID != ident.UserID {
		return nil, ErrNotFound
	}
	return t, nil
}
