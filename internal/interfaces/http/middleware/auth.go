// Package middleware provides Gin middleware for the HTTP surface.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adbeam/adbeam/internal/infrastructure/auth"
	"github.com/adbeam/adbeam/internal/shared/logger"
	"github.com/adbeam/adbeam/internal/shared/utils"
)

// Context keys set by the auth middleware.
const (
	ContextKeyActorID   = "actor_id"
	ContextKeyActorRole = "actor_role"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth rejects the request unless a valid bearer token is present.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warn("failed to verify token",
				"error", err,
				"client_ip", c.ClientIP(),
			)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != auth.TokenTypeAccess {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token type")
			c.Abort()
			return
		}

		c.Set(ContextKeyActorID, claims.ActorID)
		c.Set(ContextKeyActorRole, string(claims.Role))

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// ActorID returns the actor id stored by RequireAuth, empty when absent.
func ActorID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyActorID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ActorRole returns the actor role stored by RequireAuth, empty when absent.
func ActorRole(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyActorRole); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
