// Package tenant carries the organization and request identifiers through
// context so every pipeline call is scoped explicitly.
package tenant

import (
	"context"
	"strings"
)

type orgKey struct{}

type requestIDKey struct{}

// WithOrg returns a context scoped to orgID.
func WithOrg(ctx context.Context, orgID string) context.Context {
	orgID = strings.TrimSpace(orgID)
	if ctx == nil || orgID == "" {
		return ctx
	}
	return context.WithValue(ctx, orgKey{}, orgID)
}

// OrgFromContext returns the organization attached by WithOrg.
func OrgFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(orgKey{}).(string)
	return id, ok && id != ""
}

// WithRequestID attaches a request ID to the context for logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request ID attached by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
