// Package handlers provides HTTP handler implementations for the public API.
//
// This file wires the handler set to the application services and holds the
// shared plumbing: identity extraction from the Gin context (populated by the
// auth middleware) and the single mapping from service-level errors to HTTP
// responses. Handlers are transport-thin: they validate input, call services,
// and translate results.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/http/middleware"
	"github.com/pharmetrika/workflow-backend/internal/services"
)

// Handlers groups the HTTP endpoints for every API area.
type Handlers struct {
	auth        *services.AuthService
	requests    *services.RequestService
	tasks       *services.TaskService
	chat        *services.ChatService
	attachments *services.AttachmentService
	feedback    *services.FeedbackService
	drafts      *services.DraftService
	analytics   *services.AnalyticsService
	surveys     *services.SurveyService
}

// New constructs a Handlers instance bound to the given services.
func New(
	auth *services.AuthService,
	requests *services.RequestService,
	tasks *services.TaskService,
	chat *services.ChatService,
	attachments *services.AttachmentService,
	feedback *services.FeedbackService,
	drafts *services.DraftService,
	analytics *services.AnalyticsService,
	surveys *services.SurveyService,
) *Handlers {
	return &Handlers{
		auth:        auth,
		requests:    requests,
		tasks:       tasks,
		chat:        chat,
		attachments: attachments,
		feedback:    feedback,
		drafts:      drafts,
		analytics:   analytics,
		surveys:     surveys,
	}
}

// identity reads the caller asserted by the auth middleware.
func identity(c *gin.Context) services.Identity {
	return services.Identity{
		UserID: c.GetString(middleware.CtxUserID),
		Name:   c.GetString(middleware.CtxUserName),
		Role:   domain.Role(c.GetString(middleware.CtxRole)),
	}
}

// failErr maps a service error to the matching HTTP status and stable code.
// Unrecognized errors become an opaque 500 so internals never leak.
func failErr(c *gin.Context, err error) {
	var pinErr *services.InvalidPinError
	var blockedErr *services.BlockedError

	switch {
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "resource not found")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "access denied")
	case errors.Is(err, services.ErrValidation):
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeInvalidStatus, "status must be one of the accepted values")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
	case errors.Is(err, services.ErrTooManyAttempts):
		fail(c, http.StatusTooManyRequests, ErrCodeTooManyAttempts, "too many incorrect pin attempts, chat blocked")
	case errors.Is(err, services.ErrSurveyInactive):
		fail(c, http.StatusConflict, ErrCodeSurveyInactive, "survey is no longer accepting responses")
	case errors.Is(err, services.ErrDuplicateResponse):
		fail(c, http.StatusConflict, ErrCodeDuplicate, "survey already answered")
	case errors.As(err, &pinErr):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"request_id":         c.Writer.Header().Get("X-Request-ID"),
			"code":               ErrCodeInvalidPin,
			"message":            "incorrect pin",
			"remaining_attempts": pinErr.RemainingAttempts,
		})
	case errors.As(err, &blockedErr):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"request_id":          c.Writer.Header().Get("X-Request-ID"),
			"code":                ErrCodeBlocked,
			"message":             blockedErr.Error(),
			"retry_after_minutes": blockedErr.RetryAfterMinutes,
		})
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
