package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit_BurstThenReject(t *testing.T) {
	limiter := NewLimiter(1, 2, time.Minute)
	h := RateLimit(limiter, DefaultRateLimitConfig())(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/quarantine", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		h.ServeHTTP(rec, r)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", rec.Header().Get("Retry-After"))
			assert.Contains(t, rec.Body.String(), "COMMON_007")
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/quarantine", nil)
	r.RemoteAddr = "10.0.0.2:5555"
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code, "other clients have their own bucket")
}

func TestRateLimit_SkipsProbes(t *testing.T) {
	limiter := NewLimiter(0.001, 1, time.Minute)
	h := RateLimit(limiter, DefaultRateLimitConfig())(okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Zero(t, limiter.Len())
}

func TestLimiter_Prune(t *testing.T) {
	limiter := NewLimiter(5, 5, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Reserve("a")
	now = now.Add(30 * time.Second)
	limiter.Reserve("b")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, limiter.Prune())
	assert.Equal(t, 1, limiter.Len())
}

func TestLimiter_SetLimit(t *testing.T) {
	limiter := NewLimiter(0.001, 1, time.Minute)
	ok, _ := limiter.Reserve("a")
	assert.True(t, ok)
	ok, _ = limiter.Reserve("a")
	assert.False(t, ok)

	limiter.SetLimit(1000, 5)
	assert.Equal(t, 5, limiter.Burst())
	time.Sleep(5 * time.Millisecond)
	ok, _ = limiter.Reserve("a")
	assert.True(t, ok, "existing buckets follow the new rate")

	h := RateLimit(limiter, DefaultRateLimitConfig())(okHandler())
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/quarantine", nil)
	r.RemoteAddr = "10.0.0.9:1"
	h.ServeHTTP(rec, r)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
}

func TestTenantKey(t *testing.T) {
	key := TenantKey("X-Tenant-ID", "tenant_id")
	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"no tenant", "/", "", "ip:192.0.2.1"},
		{"header", "/", "acme", "tenant:acme|ip:192.0.2.1"},
		{"query", "/?tenant_id=hangar74", "", "tenant:hangar74|ip:192.0.2.1"},
		{"header wins", "/?tenant_id=hangar74", "acme", "tenant:acme|ip:192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			r.RemoteAddr = "192.0.2.1:1234"
			if tt.header != "" {
				r.Header.Set("X-Tenant-ID", tt.header)
			}
			assert.Equal(t, tt.want, key(r))
		})
	}
}

func TestRateLimit_PerTenantBuckets(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	cfg.KeyFunc = TenantKey("X-Tenant-ID", "tenant_id")
	h := RateLimit(NewLimiter(0.001, 1, time.Minute), cfg)(okHandler())

	send := func(tenant string) int {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/quarantine", nil)
		r.RemoteAddr = "10.0.0.7:1"
		r.Header.Set("X-Tenant-ID", tenant)
		h.ServeHTTP(rec, r)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send("acme"))
	assert.Equal(t, http.StatusTooManyRequests, send("acme"))
	assert.Equal(t, http.StatusOK, send("hangar74"), "other tenant behind the same IP keeps its bucket")
}

//Personal.AI order the ending
