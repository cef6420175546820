package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		uploadID, _ := c.Get("uploadId")
		summaryID, _ := c.Get("summaryId")
		employeeID, _ := c.Get("employeeId")
		stage := ""
		if raw, ok := c.Get("pipelineStage"); ok {
			if s, ok := raw.(string); ok {
				stage = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":     RequestIDFromContext(c),
			"org_id":         OrgIDFromContext(c),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"route":          c.FullPath(),
			"status":         c.Writer.Status(),
			"duration_ms":    float64(latency.Microseconds()) / 1000.0,
			"upload_id":      uploadID,
			"summary_id":     summaryID,
			"employee_id":    employeeID,
			"pipeline_stage": stage,
			"client_ip":      c.ClientIP(),
			"user_agent":     c.Request.UserAgent(),
		})
	}
}
