package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
)

// LoggingConfig tunes the access log.
type LoggingConfig struct {
	// SkipPaths are not logged, typically probes and /metrics.
	SkipPaths     []string
	SlowThreshold time.Duration
	// TenantHeader is the response header Tenant echoes the slug in.
	TenantHeader string
}

// DefaultLoggingConfig skips probes and flags requests slower than 3s.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/health", "/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
		TenantHeader:  "X-Tenant-ID",
	}
}

// RequestLogging writes one access-log line per request. The level follows
// the status: 5xx is Error, 4xx and slow requests are Warn.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}
	logger = logger.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			reqID := chimw.GetReqID(r.Context())
			reqLogger := logger.With(logging.RequestID(reqID))
			r = r.WithContext(logging.WithContext(r.Context(), reqLogger))

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", status),
				logging.Duration("duration", elapsed),
				logging.Int("bytes", ww.BytesWritten()),
				logging.String("remote_addr", r.RemoteAddr),
			}
			if tenant := ww.Header().Get(cfg.TenantHeader); cfg.TenantHeader != "" && tenant != "" {
				fields = append(fields, logging.Tenant(tenant))
			}

			switch {
			case status >= 500:
				reqLogger.Error("request failed", fields...)
			case status >= 400:
				reqLogger.Warn("request rejected", fields...)
			case cfg.SlowThreshold > 0 && elapsed >= cfg.SlowThreshold:
				reqLogger.Warn("slow request", fields...)
			default:
				reqLogger.Info("request completed", fields...)
			}
		})
	}
}

//Personal.AI order the ending
