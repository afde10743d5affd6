// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the bearer-token authentication middleware and the
// per-route role guard. The verifier is injected as a function so the
// middleware stays decoupled from the services package and trivial to fake
// in tests.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

const (
	// CtxUserID is the Gin context key holding the authenticated user id.
	CtxUserID = "userID"
	// CtxUserName is the Gin context key holding the display name.
	CtxUserName = "userName"
	// CtxRole is the Gin context key holding the authenticated role.
	CtxRole = "userRole"
)

// TokenVerifier resolves a bearer token into (userID, name, role).
// Implementations return an error for missing, malformed, expired, or
// forged tokens.
type TokenVerifier func(token string) (userID, name string, role domain.Role, err error)

// Auth returns a middleware that requires a valid "Authorization: Bearer"
// header and stores the asserted identity in the Gin context. Requests
// without a usable token are rejected with 401 and the standard envelope.
func Auth(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "authorization header required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "authorization header must be a bearer token")
			return
		}

		userID, name, role, err := verify(strings.TrimSpace(parts[1]))
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUserName, name)
		c.Set(CtxRole, string(role))
		c.Next()
	}
}

// RequireRoles returns a middleware that rejects authenticated callers whose
// role is not in the allowed set. Must run after Auth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(CtxRole))
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "forbidden",
				"message":    "insufficient role",
			})
			return
		}
		c.Next()
	}
}

// unauthorized aborts with a 401 and the standard error envelope.
func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
