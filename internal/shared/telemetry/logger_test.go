package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"logit-backend/internal/shared/tenant"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("pipeline.stage", map[string]any{"stage": "normalize", "err": errors.New("boom")})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["level"] != "info" || payload["msg"] != "pipeline.stage" {
		t.Fatalf("unexpected envelope: %v", payload)
	}
	if payload["stage"] != "normalize" {
		t.Fatalf("missing field: %v", payload)
	}
	if payload["err"] != "boom" {
		t.Fatalf("errors should be stringified, got %v", payload["err"])
	}
}

func TestWithContextAddsTenantFields(t *testing.T) {
	ctx := tenant.WithRequestID(tenant.WithOrg(context.Background(), "org-7"), "req-1")
	fields := WithContext(ctx, nil)
	if fields["org_id"] != "org-7" || fields["request_id"] != "req-1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}
