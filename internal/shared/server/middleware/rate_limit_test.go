package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitAnalysisGroupStricterThanDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/uploads" {
			return "ANALYSIS"
		}
		return "DEFAULT"
	}

	r := gin.New()
	r.Use(Tenant())
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     groupFor,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT":  {Rate: 5, Burst: 10},
			"ANALYSIS": {Rate: 0.1, Burst: 1},
		},
	}))
	r.GET("/api/v1/summaries", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/v1/uploads", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	send := func(method, path, org string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set(OrgIDHeader, org)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	for i := 0; i < 3; i++ {
		if code := send(http.MethodGet, "/api/v1/summaries", "org-a"); code != http.StatusOK {
			t.Fatalf("read request %d expected 200, got %d", i+1, code)
		}
	}
	if code := send(http.MethodPost, "/api/v1/uploads", "org-a"); code != http.StatusCreated {
		t.Fatalf("first upload expected 201, got %d", code)
	}
	if code := send(http.MethodPost, "/api/v1/uploads", "org-a"); code != http.StatusTooManyRequests {
		t.Fatalf("second upload expected 429, got %d", code)
	}
	if code := send(http.MethodPost, "/api/v1/uploads", "org-b"); code != http.StatusCreated {
		t.Fatalf("other tenant upload expected 201, got %d", code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT": {Rate: 1, Burst: 1},
		},
	}))
	r.GET("/api/v1/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil))
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}

	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil))
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if resp2.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp2.Header().Get("Retry-After"))
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected code=rate_limited, got %q", payload.Error.Code)
	}
	if _, ok := payload.Error.Details["retryAfterMs"]; !ok {
		t.Fatalf("expected retryAfterMs in details")
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("first call should pass")
	}
	ok, wait := limiter.Allow("k", rule)
	if ok || wait <= 0 || wait > time.Second {
		t.Fatalf("expected denial with wait <= 1s, got ok=%v wait=%s", ok, wait)
	}
	now = now.Add(time.Second)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected refill after one second")
	}
}

func TestRateLimitClientScopedGroupSplitsByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(Tenant())
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "ANALYSIS",
		ClientScoped: map[string]bool{"ANALYSIS": true},
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			"ANALYSIS": {Rate: 0.1, Burst: 1},
		},
	}))
	r.POST("/api/v1/uploads", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(org, ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", nil)
		req.Header.Set(OrgIDHeader, org)
		req.RemoteAddr = ip + ":1234"
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := send("org-a", "10.0.0.1"); code != http.StatusCreated {
		t.Fatalf("first upload expected 201, got %d", code)
	}
	if code := send("org-a", "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("repeat from same client expected 429, got %d", code)
	}
	if code := send("org-a", "10.0.0.2"); code != http.StatusCreated {
		t.Fatalf("other client expected 201, got %d", code)
	}
	if got := limiter.Len(); got != 2 {
		t.Fatalf("expected 2 buckets, got %d", got)
	}
}

func TestRateLimiterEvictsIdleBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	limiter.IdleTTL = time.Minute
	rule := RateLimitRule{Rate: 1, Burst: 1}

	for i := 0; i < 100; i++ {
		limiter.Allow(fmt.Sprintf("org-%d|DEFAULT", i), rule)
	}
	if got := limiter.Len(); got != 100 {
		t.Fatalf("expected 100 buckets, got %d", got)
	}

	now = now.Add(30 * time.Second)
	limiter.Allow("org-0|DEFAULT", rule)
	if got := limiter.Len(); got != 100 {
		t.Fatalf("buckets dropped before ttl: %d", got)
	}

	now = now.Add(45 * time.Second)
	if ok, _ := limiter.Allow("fresh|DEFAULT", rule); !ok {
		t.Fatalf("fresh key should pass")
	}
	if got := limiter.Len(); got != 2 {
		t.Fatalf("expected only recently used buckets to remain, got %d", got)
	}
}
