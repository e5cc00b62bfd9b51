package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/interfaces/http/handlers"
	"github.com/turtacn/AeroOps/internal/interfaces/http/middleware"
)

// trace records its name in X-Trace so tests can assert middleware order.
func trace(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Trace", name)
			next.ServeHTTP(w, r)
		})
	}
}

func testRouter(overrides func(*RouterConfig)) http.Handler {
	cfg := RouterConfig{
		SMSHandler:        handlers.NewSMSHandler(nil),
		QuarantineHandler: handlers.NewQuarantineHandler(nil),
		HealthHandler:     handlers.NewHealthHandler("test"),
		Tenant:            middleware.Tenant(middleware.DefaultTenantConfig(), logging.NewNopLogger()),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	}
	if overrides != nil {
		overrides(&cfg)
	}
	return NewRouter(cfg)
}

func do(h http.Handler, method, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewRouter_HealthEndpointsSkipTenant(t *testing.T) {
	r := testRouter(nil)
	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, path).Code, path)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	r := testRouter(func(c *RouterConfig) { c.MetricsPath = "/internal/metrics" })

	w := do(r, http.MethodGet, "/internal/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics", w.Body.String())
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/metrics").Code)
}

func TestNewRouter_APIRequiresTenant(t *testing.T) {
	r := testRouter(nil)
	target := "/api/v1/sms/risk-matrix?probability=3&severity=A"

	w := do(r, http.MethodGet, target)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "COMMON_018")

	w = do(r, http.MethodGet, target, "X-Tenant-ID", "acme")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"band":"high"`)
}

func TestNewRouter_RoutesRegistered(t *testing.T) {
	r := testRouter(nil)

	w := do(r, http.MethodGet, "/api/v1/quarantine/classify", "X-Tenant-ID", "acme")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "QRT_001")

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/unknown", "X-Tenant-ID", "acme").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodDelete, "/api/v1/sms/risk-matrix", "X-Tenant-ID", "acme").Code)
}

func TestNewRouter_NilHandlersNoPanic(t *testing.T) {
	require.NotPanics(t, func() {
		r := NewRouter(RouterConfig{})
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/quarantine").Code)
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/health").Code)
	})
}

func TestNewRouter_MiddlewareOrder(t *testing.T) {
	r := testRouter(func(c *RouterConfig) {
		c.CORS = trace("cors")
		c.Logging = trace("logging")
		c.Metrics = trace("metrics")
		c.RateLimit = trace("ratelimit")
		c.Tenant = trace("tenant")
	})

	w := do(r, http.MethodGet, "/api/v1/sms/risk-matrix?probability=1&severity=E")
	assert.Equal(t, "cors,logging,metrics,ratelimit,tenant", strings.Join(w.Header().Values("X-Trace"), ","))

	w = do(r, http.MethodGet, "/health")
	assert.Equal(t, "cors,logging,metrics,ratelimit", strings.Join(w.Header().Values("X-Trace"), ","))
}

func TestNewRouter_RecoversFromPanics(t *testing.T) {
	r := testRouter(func(c *RouterConfig) {
		c.Tenant = func(http.Handler) http.Handler {
			return http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
		}
	})
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/api/v1/quarantine").Code)
}

//Personal.AI order the ending
