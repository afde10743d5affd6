package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmetrika/workflow-backend/internal/services"
)

// FeedbackRequest carries the ten 1..10 metric scores plus an optional
// free-text comment.
type FeedbackRequest struct {
	Usability      int    `json:"usability" binding:"required,min=1,max=10"`
	Speed          int    `json:"speed" binding:"required,min=1,max=10"`
	Reliability    int    `json:"reliability" binding:"required,min=1,max=10"`
	Design         int    `json:"design" binding:"required,min=1,max=10"`
	Navigation     int    `json:"navigation" binding:"required,min=1,max=10"`
	Functionality  int    `json:"functionality" binding:"required,min=1,max=10"`
	Support        int    `json:"support" binding:"required,min=1,max=10"`
	Communication  int    `json:"communication" binding:"required,min=1,max=10"`
	Satisfaction   int    `json:"satisfaction" binding:"required,min=1,max=10"`
	Recommendation int    `json:"recommendation" binding:"required,min=1,max=10"`
	Comment        string `json:"comment"`
}

// SubmitFeedback handles POST /feedback.
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	fb, err := h.feedback.Submit(c.Request.Context(), identity(c), services.FeedbackInput{
		Usability:      req.Usability,
		Speed:          req.Speed,
		Reliability:    req.Reliability,
		Design:         req.Design,
		Navigation:     req.Navigation,
		Functionality:  req.Functionality,
		Support:        req.Support,
		Communication:  req.Communication,
		Satisfaction:   req.Satisfaction,
		Recommendation: req.Recommendation,
		Comment:        req.Comment,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, fb)
}

// MyFeedback handles GET /feedback/me. Returns 404 when the caller has never
// submitted feedback.
func (h *Handlers) MyFeedback(c *gin.Context) {
	fb, err := h.feedback.Mine(c.Request.Context(), identity(c))
	if err != nil {
		failErr(c, err)
		return
	}
	if fb == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no feedback submitted yet")
		return
	}
	ok(c, http.StatusOK, fb)
}
