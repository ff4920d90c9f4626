package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/shared/server/respond"
	"cozetik-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 JSON error. Nothing is written
// when the handler already started the response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Erreur interne du serveur", nil)
			c.Abort()
		}()
		c.Next()
	}
}
