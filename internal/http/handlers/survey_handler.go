package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/services"
)

// CreateSurveyRequest is the admin payload for authoring a survey with its
// ordered questions.
type CreateSurveyRequest struct {
	Title       string            `json:"title" binding:"required,min=1,max=255"`
	Description string            `json:"description"`
	Questions   []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// QuestionRequest is one survey question in a create payload.
type QuestionRequest struct {
	Text    string   `json:"text" binding:"required,min=1"`
	Type    string   `json:"type" binding:"required"`
	Options []string `json:"options"`
}

// SetActiveRequest toggles a survey's active flag.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SubmitResponseRequest carries one user's answers.
type SubmitResponseRequest struct {
	Answers []AnswerRequest `json:"answers" binding:"required,min=1,dive"`
}

// AnswerRequest is one answer in a response payload.
type AnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Value      string `json:"value" binding:"required"`
}

// CreateSurvey handles POST /surveys (admin).
func (h *Handlers) CreateSurvey(c *gin.Context) {
	var req CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	qs := make([]services.QuestionInput, 0, len(req.Questions))
	for _, q := range req.Questions {
		qs = append(qs, services.QuestionInput{
			Text:    q.Text,
			Type:    domain.QuestionType(q.Type),
			Options: q.Options,
		})
	}
	sv, err := h.surveys.Create(c.Request.Context(), req.Title, req.Description, qs)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, sv)
}

// ListSurveys handles GET /surveys.
func (h *Handlers) ListSurveys(c *gin.Context) {
	items, err := h.surveys.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// GetSurvey handles GET /surveys/:id.
func (h *Handlers) GetSurvey(c *gin.Context) {
	sv, err := h.surveys.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, sv)
}

// SetSurveyActive handles PATCH /surveys/:id/active (admin).
func (h *Handlers) SetSurveyActive(c *gin.Context) {
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.surveys.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// SubmitSurveyResponse handles POST /surveys/:id/responses.
func (h *Handlers) SubmitSurveyResponse(c *gin.Context) {
	var req SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	answers := make([]services.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, services.AnswerInput{QuestionID: a.QuestionID, Value: a.Value})
	}
	resp, err := h.surveys.SubmitResponse(c.Request.Context(), identity(c), c.Param("id"), answers)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// SurveyResults handles GET /surveys/:id/results (admin).
func (h *Handlers) SurveyResults(c *gin.Context) {
	res, err := h.surveys.ComputeResults(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}
