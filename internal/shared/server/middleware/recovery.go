package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/shared/server/respond"
	"logit-backend/internal/shared/telemetry"
)

// Recovery turns a panic into a 500 internal_error response. The panic value and
// stack are logged along with whatever pipeline stage the handler had reached.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"org_id":     OrgIDFromContext(c),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			}
			if v := c.GetString("uploadId"); v != "" {
				fields["upload_id"] = v
			}
			if v := c.GetString("pipelineStage"); v != "" {
				fields["pipeline_stage"] = v
			}
			telemetry.Error("http.panic", fields)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
