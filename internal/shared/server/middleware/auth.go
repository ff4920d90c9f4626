package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/shared/auth"
	"cozetik-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userRoleKey  = "userRole"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// AdminAuth requires a valid bearer token carrying the ADMIN role.
func AdminAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		if claims.Role != auth.RoleAdmin {
			respond.Error(c, http.StatusForbidden, "forbidden", "admin role required", nil)
			return
		}

		c.Set(userIDKey, claims.Sub)
		c.Set(userEmailKey, claims.Email)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userEmailKey)
}
