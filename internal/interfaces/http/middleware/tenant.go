package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/errors"
	"github.com/turtacn/AeroOps/pkg/types/common"
)

type tenantContextKey struct{}

// TenantConfig selects where the company slug is read from. The header wins
// over the query parameter.
type TenantConfig struct {
	HeaderName string
	QueryParam string
	// AllowedTenants, when non-empty, rejects every other slug with 403.
	AllowedTenants []string
}

// DefaultTenantConfig reads X-Tenant-ID, then ?tenant_id.
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{HeaderName: "X-Tenant-ID", QueryParam: "tenant_id"}
}

var tenantPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Tenant requires a tenant on every request and stores it in the context.
// Authentication happens upstream; this only reads the identifier.
func Tenant(cfg TenantConfig, logger logging.Logger) func(http.Handler) http.Handler {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Tenant-ID"
	}
	if cfg.QueryParam == "" {
		cfg.QueryParam = "tenant_id"
	}
	var allowed map[string]struct{}
	if len(cfg.AllowedTenants) > 0 {
		allowed = make(map[string]struct{}, len(cfg.AllowedTenants))
		for _, t := range cfg.AllowedTenants {
			allowed[strings.TrimSpace(t)] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := strings.TrimSpace(r.Header.Get(cfg.HeaderName))
			if tenant == "" {
				tenant = strings.TrimSpace(r.URL.Query().Get(cfg.QueryParam))
			}
			switch {
			case tenant == "":
				writeError(w, errors.New(errors.ErrCodeTenantRequired, "tenant is required").
					WithDetail("send "+cfg.HeaderName+" or ?"+cfg.QueryParam))
				return
			case !tenantPattern.MatchString(tenant):
				writeError(w, errors.New(errors.ErrCodeBadRequest, "invalid tenant").WithDetail(tenant))
				return
			}
			if allowed != nil {
				if _, ok := allowed[tenant]; !ok {
					logger.Warn("tenant not allowed", logging.Tenant(tenant), logging.String("path", r.URL.Path))
					writeError(w, errors.New(errors.ErrCodeForbidden, "tenant not allowed").WithDetail(tenant))
					return
				}
			}
			w.Header().Set(cfg.HeaderName, tenant)
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
		})
	}
}

// WithTenant stores tenant in ctx.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenant)
}

// TenantFromContext returns the tenant set by Tenant, or "".
func TenantFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tenantContextKey{}).(string)
	return t
}

// writeError renders err in the API error envelope.
func writeError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err.HTTPStatus())
	_ = json.NewEncoder(w).Encode(common.NewErrorEnvelope(err))
}

//Personal.AI order the ending
