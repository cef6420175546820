package respond

import (
	"github.com/gin-gonic/gin"

	"logit-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response. cause is logged but never sent to the client.
func Error(c *gin.Context, status int, code, message string, details interface{}, cause ...error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if orgID := c.GetString("orgId"); orgID != "" {
		fields["org_id"] = orgID
	}
	if len(cause) > 0 && cause[0] != nil {
		fields["cause"] = cause[0].Error()
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
