// Modeling request HTTP handlers.
//
// This file exposes the Kanban-tracked request endpoints:
//   - POST  /requests                (create, USER)
//   - GET   /requests                (list: admin sees all, user sees own)
//   - GET   /requests/:id            (fetch one, same visibility)
//   - PATCH /requests/:id/status     (move card, ADMIN)
//   - PUT   /requests/:id/notes      (admin notes, ADMIN)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// CreateRequestRequest is the JSON payload for submitting a modeling request.
type CreateRequestRequest struct {
	Title       string                `json:"title" binding:"required,min=1,max=255"`
	Description string                `json:"description" binding:"required"`
	Priority    string                `json:"priority"`
	Filters     domain.RequestFilters `json:"filters"`
}

// UpdateStatusRequest is the JSON payload for a status move.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateNotesRequest is the JSON payload for overwriting admin notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// CreateRequest handles POST /requests.
func (h *Handlers) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	r, err := h.requests.Create(c.Request.Context(), identity(c).UserID,
		req.Title, req.Description, domain.Priority(req.Priority), req.Filters)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, r)
}

// ListRequests handles GET /requests.
func (h *Handlers) ListRequests(c *gin.Context) {
	items, err := h.requests.List(c.Request.Context(), identity(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// GetRequest handles GET /requests/:id.
func (h *Handlers) GetRequest(c *gin.Context) {
	r, err := h.requests.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}

// UpdateRequestStatus handles PATCH /requests/:id/status.
func (h *Handlers) UpdateRequestStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.requests.SetStatus(c.Request.Context(), identity(c),
		c.Param("id"), domain.RequestStatus(req.Status)); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// UpdateRequestNotes handles PATCH /requests/:id/notes.
func (h *Handlers) UpdateRequestNotes(c *gin.Context) {
	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.requests.SetAdminNotes(c.Request.Context(), identity(c),
		c.Param("id"), req.Notes); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
