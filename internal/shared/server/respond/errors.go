package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/shared/telemetry"
)

// ExposeDetailsKey is the gin context key that allows error details in responses.
const ExposeDetailsKey = "exposeErrorDetails"

// ErrorResponse is the standardized error body.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends a standardized error response. Details are dropped unless the
// router enabled them (non-production environments).
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	logError(c, status, code, message, details)
	body := ErrorResponse{Error: message, Code: code}
	if c.GetBool(ExposeDetailsKey) {
		body.Details = details
	}
	c.AbortWithStatusJSON(status, body)
}

// Invalid sends a 400 whose details (field names and messages) are shown
// in every environment.
func Invalid(c *gin.Context, message string, details interface{}) {
	logError(c, http.StatusBadRequest, "validation_error", message, details)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "validation_error", Details: details})
}

func logError(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if details != nil {
		fields["details"] = details
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.error", fields)
	}
}

// ExposeDetails returns middleware toggling error details for every request.
func ExposeDetails(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ExposeDetailsKey, enabled)
		c.Next()
	}
}
