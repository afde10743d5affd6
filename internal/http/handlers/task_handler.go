// Task and subtask HTTP handlers (IT specialist dashboard).
//
//   - POST   /tasks                       (create)
//   - GET    /tasks                       (list own, with subtasks)
//   - PATCH  /tasks/:id/status            (move)
//   - DELETE /tasks/:id                   (remove)
//   - POST   /tasks/:id/subtasks          (append)
//   - PATCH  /subtasks/:id                (toggle completed)
//   - DELETE /subtasks/:id                (remove)
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/services"
)

// CreateTaskRequest is the JSON payload for creating a task. A progress
// field, if sent, is ignored: progress is derived from subtasks only.
type CreateTaskRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Color       string    `json:"color"`
}

// CreateSubtaskRequest is the JSON payload for appending a subtask.
type CreateSubtaskRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// ToggleSubtaskRequest is the JSON payload for the completed flag.
type ToggleSubtaskRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// CreateTask handles POST /tasks.
func (h *Handlers) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	t, err := h.tasks.CreateTask(c.Request.Context(), identity(c), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Color:       req.Color,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

// ListTasks handles GET /tasks.
func (h *Handlers) ListTasks(c *gin.Context) {
	items, err := h.tasks.ListTasks(c.Request.Context(), identity(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// UpdateTaskStatus handles PATCH /tasks/:id/status.
func (h *Handlers) UpdateTaskStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.tasks.SetTaskStatus(c.Request.Context(), identity(c),
		c.Param("id"), domain.TaskStatus(req.Status)); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handlers) DeleteTask(c *gin.Context) {
	if err := h.tasks.DeleteTask(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// CreateSubtask handles POST /tasks/:id/subtasks.
func (h *Handlers) CreateSubtask(c *gin.Context) {
	var req CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sub, err := h.tasks.CreateSubtask(c.Request.Context(), identity(c), c.Param("id"), req.Title)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, sub)
}

// ToggleSubtask handles PATCH /subtasks/:id.
func (h *Handlers) ToggleSubtask(c *gin.Context) {
	var req ToggleSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Completed == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sub, err := h.tasks.ToggleSubtask(c.Request.Context(), identity(c), c.Param("id"), *req.Completed)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, sub)
}

// DeleteSubtask handles DELETE /subtasks/:id.
func (h *Handlers) DeleteSubtask(c *gin.Context) {
	if err := h.tasks.DeleteSubtask(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
