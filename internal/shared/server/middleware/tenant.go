package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/shared/server/respond"
	"logit-backend/internal/shared/tenant"
)

const (
	orgIDKey    = "orgId"
	OrgIDHeader = "X-Org-Id"
)

// Tenant requires an organization identifier on every request and scopes the
// request context to it.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		orgID := strings.TrimSpace(c.GetHeader(OrgIDHeader))
		if orgID == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "X-Org-Id header is required", []map[string]string{
				{"field": OrgIDHeader, "issue": "required"},
			})
			return
		}

		c.Set(orgIDKey, orgID)
		c.Request = c.Request.WithContext(tenant.WithOrg(c.Request.Context(), orgID))
		c.Next()
	}
}

// OrgIDFromContext returns the organization set by Tenant.
func OrgIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(orgIDKey)
}

// OrgResolver reports whether an organization id is registered.
type OrgResolver interface {
	Exists(ctx context.Context, orgID string) (bool, error)
}

// KnownOrg rejects requests whose tenant header names no registered organization.
// It must run after Tenant.
func KnownOrg(orgs OrgResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if orgs == nil {
			c.Next()
			return
		}
		orgID := OrgIDFromContext(c)
		if orgID == "" {
			c.Next()
			return
		}
		ok, err := orgs.Exists(c.Request.Context(), orgID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "organization lookup failed", nil, err)
			return
		}
		if !ok {
			respond.Error(c, http.StatusNotFound, "not_found", "organization not found", []map[string]string{
				{"field": OrgIDHeader, "issue": "unknown"},
			})
			return
		}
		c.Next()
	}
}
