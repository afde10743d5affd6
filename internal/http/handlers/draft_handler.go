// Draft funnel handlers. Request-form and feedback-form sessions are opened
// when the user enters the form, updated on each change, and closed as either
// completed or abandoned. Analytics reads the closed sessions.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// SaveDraftRequest carries the current form field values.
type SaveDraftRequest struct {
	FormData domain.DraftFormData `json:"form_data" binding:"required"`
}

// FinishDraftRequest closes a draft session.
type FinishDraftRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// StartRequestDraft handles POST /drafts/requests.
func (h *Handlers) StartRequestDraft(c *gin.Context) {
	d, err := h.drafts.StartRequestDraft(c.Request.Context(), identity(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, d)
}

// SaveRequestDraft handles PUT /drafts/requests/:id.
func (h *Handlers) SaveRequestDraft(c *gin.Context) {
	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.drafts.SaveRequestDraft(c.Request.Context(), identity(c), c.Param("id"), req.FormData); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// FinishRequestDraft handles POST /drafts/requests/:id/finish.
func (h *Handlers) FinishRequestDraft(c *gin.Context) {
	var req FinishDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.drafts.FinishRequestDraft(c.Request.Context(), identity(c), c.Param("id"), *req.Completed); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// StartFeedbackDraft handles POST /drafts/feedback.
func (h *Handlers) StartFeedbackDraft(c *gin.Context) {
	d, err := h.drafts.StartFeedbackDraft(c.Request.Context(), identity(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, d)
}

// FinishFeedbackDraft handles POST /drafts/feedback/:id/finish.
func (h *Handlers) FinishFeedbackDraft(c *gin.Context) {
	var req FinishDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.drafts.FinishFeedbackDraft(c.Request.Context(), identity(c), c.Param("id"), *req.Completed); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
