// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Role guards applied per route group, not inside handlers
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/config"
	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/http/handlers"
	"github.com/pharmetrika/workflow-backend/internal/http/middleware"
	"github.com/pharmetrika/workflow-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting, CORS
// and security headers, health and metrics endpoints, and then mounts the
// versioned API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII/PIN scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"Authorization"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit. Attachments ride in JSON as base64, so the
	// request cap must leave headroom above the decoded file cap.
	r.Use(limitBody(cfg.MaxAttachmentBytes*2 + (1 << 20)))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS).
	// Token and PIN responses must never be cached.
	prefix := cfg.APIBasePath
	if prefix == "/" {
		prefix = ""
	}
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		NoStorePrefixes: []string{
			prefix + "/auth",
			prefix + "/chat",
		},
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db + config
	authSvc := services.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	requestSvc := services.NewRequestService(db)
	taskSvc := services.NewTaskService(db)
	chatSvc := services.NewChatService(db, cfg.Chat.MaxAttempts, cfg.Chat.BlockDuration, cfg.Chat.AdminUserPIN)
	attachmentSvc := services.NewAttachmentService(db, cfg.MaxAttachmentBytes)
	feedbackSvc := services.NewFeedbackService(db)
	draftSvc := services.NewDraftService(db)
	analyticsSvc := services.NewAnalyticsService(db)
	surveySvc := services.NewSurveyService(db)

	h := handlers.New(authSvc, requestSvc, taskSvc, chatSvc, attachmentSvc, feedbackSvc, draftSvc, analyticsSvc, surveySvc)

	verify := func(token string) (string, string, domain.Role, error) {
		ident, err := authSvc.Verify(token)
		if err != nil {
			return "", "", "", err
		}
		return ident.UserID, ident.Name, ident.Role, nil
	}

	base := groupWithPrefix(r, cfg.APIBasePath)

	// Public auth endpoints
	base.POST("/auth/register", h.Register)
	base.POST("/auth/login", h.Login)

	// Authenticated API
	api := base.Group("", middleware.Auth(verify))
	{
		api.GET("/auth/me", h.Me)

		// Requests (Kanban tracker). Status and notes are admin-only.
		api.POST("/requests", middleware.RequireRoles(domain.RoleUser), h.CreateRequest)
		api.GET("/requests", h.ListRequests)
		api.GET("/requests/:id", h.GetRequest)
		api.PATCH("/requests/:id/status", middleware.RequireRoles(domain.RoleAdmin), h.UpdateRequestStatus)
		api.PATCH("/requests/:id/notes", middleware.RequireRoles(domain.RoleAdmin), h.UpdateRequestNotes)

		// Tasks and subtasks (IT specialist workspace)
		it := api.Group("", middleware.RequireRoles(domain.RoleITSpecialist))
		{
			it.POST("/tasks", h.CreateTask)
			it.GET("/tasks", h.ListTasks)
			it.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
			it.DELETE("/tasks/:id", h.DeleteTask)
			it.POST("/tasks/:id/subtasks", h.CreateSubtask)
			it.PATCH("/subtasks/:id", h.ToggleSubtask)
			it.DELETE("/subtasks/:id", h.DeleteSubtask)
		}

		// Attachments and comment threads (specialist and evaluator)
		review := api.Group("", middleware.RequireRoles(domain.RoleITSpecialist, domain.RoleQualityEvaluator))
		{
			review.POST("/subtasks/:id/attachments", h.UploadAttachment)
			review.GET("/subtasks/:id/attachments", h.ListAttachments)
			review.DELETE("/attachments/:id", h.DeleteAttachment)
			review.POST("/attachments/:id/comments", h.CreateComment)
			review.GET("/attachments/:id/comments", h.ListComments)
			review.PUT("/comments/:id", h.EditComment)
			review.DELETE("/comments/:id", h.DeleteComment)
		}

		// PIN-gated chat
		api.GET("/chat/rooms", h.ListRooms)
		api.POST("/chat/rooms/:id/verify-pin", h.VerifyPin)
		api.GET("/chat/rooms/:id/messages", h.ListMessages)
		api.POST("/chat/rooms/:id/messages", h.PostMessage)

		// Satisfaction feedback and funnel drafts (end users)
		user := api.Group("", middleware.RequireRoles(domain.RoleUser))
		{
			user.POST("/feedback", h.SubmitFeedback)
			user.GET("/feedback/me", h.MyFeedback)

			user.POST("/drafts/requests", h.StartRequestDraft)
			user.PUT("/drafts/requests/:id", h.SaveRequestDraft)
			user.POST("/drafts/requests/:id/finish", h.FinishRequestDraft)
			user.POST("/drafts/feedback", h.StartFeedbackDraft)
			user.POST("/drafts/feedback/:id/finish", h.FinishFeedbackDraft)
		}

		// Surveys: listing and answering are open to all roles, authoring
		// and results are admin-only.
		api.GET("/surveys", h.ListSurveys)
		api.GET("/surveys/:id", h.GetSurvey)
		api.POST("/surveys/:id/responses", h.SubmitSurveyResponse)

		admin := api.Group("", middleware.RequireRoles(domain.RoleAdmin))
		{
			admin.POST("/surveys", h.CreateSurvey)
			admin.PATCH("/surveys/:id/active", h.SetSurveyActive)
			admin.GET("/surveys/:id/results", h.SurveyResults)

			admin.GET("/analytics/overview", h.AnalyticsOverview)
			admin.GET("/analytics/segments", h.UserSegments)
		}
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
