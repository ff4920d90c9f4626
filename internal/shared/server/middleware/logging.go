package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/shared/metrics"
	"cozetik-backend/internal/shared/telemetry"
)

// Logging emits a structured log and a request counter per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTPRequest(c.Request.Method, route, strconv.Itoa(status/100)+"xx")

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       route,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if userID := c.GetString(userIDKey); userID != "" {
			fields["user_id"] = userID
		}
		if transition := c.GetString("statusTransition"); transition != "" {
			fields["status_transition"] = transition
		}
		telemetry.Info("request.complete", fields)
	}
}
