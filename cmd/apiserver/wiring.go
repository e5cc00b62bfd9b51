package main

import (
	"context"
	"time"

	aircraftapp "github.com/turtacn/AeroOps/internal/application/aircraft"
	"github.com/turtacn/AeroOps/internal/application/attachment"
	"github.com/turtacn/AeroOps/internal/application/inventory"
	quarantineapp "github.com/turtacn/AeroOps/internal/application/quarantine"
	smsapp "github.com/turtacn/AeroOps/internal/application/sms"
	"github.com/turtacn/AeroOps/internal/application/statistics"
	"github.com/turtacn/AeroOps/internal/application/workorder"
	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/AeroOps/internal/interfaces/http"
	"github.com/turtacn/AeroOps/internal/interfaces/http/handlers"
	"github.com/turtacn/AeroOps/internal/interfaces/http/middleware"
)

// application holds the use-case services. attachments is nil when object
// storage is disabled.
type application struct {
	quarantine  quarantineapp.Service
	statistics  statistics.Service
	sms         smsapp.Service
	aircraft    aircraftapp.Service
	workOrders  workorder.Service
	inventory   inventory.Service
	attachments attachment.Service
	health      []componentCheck
}

func buildApplication(cfg *config.Config, infra *infrastructure, metrics *prometheus.AppMetrics, logger logging.Logger) (*application, error) {
	cache := infra.cache(cfg.Cache)

	q, err := quarantineapp.NewService(quarantineapp.Deps{
		Source:    infra.gateway,
		Cache:     cache,
		Locks:     infra.locks(),
		Alerts:    repositories.NewPostgresAlertRepo(infra.postgres, logger),
		Publisher: infra.publisher(),
		Metrics:   metrics,
		Logger:    logger,
	}, quarantineapp.Options{
		Policy: quarantine.Policy{
			LegalLimitDays:       cfg.Quarantine.LegalLimitDays,
			WarningThresholdDays: cfg.Quarantine.WarningThresholdDays,
		},
		Location: cfg.Quarantine.Location(),
		CacheTTL: cfg.Cache.ArticlesTTL,
	})
	if err != nil {
		return nil, err
	}

	app := &application{
		quarantine: q,
		statistics: statistics.NewService(infra.gateway, cache, metrics, logger, statistics.Options{CacheTTL: cfg.Cache.StatisticsTTL}),
		sms:        smsapp.NewService(infra.gateway, cache, cfg.Cache.ReportTTL, logger),
		aircraft: aircraftapp.NewService(repositories.NewPostgresDraftRepo(infra.postgres, logger), infra.gateway, metrics, logger, aircraftapp.Options{
			MaxDepth: cfg.Aircraft.MaxTreeDepth,
			DraftTTL: cfg.Aircraft.DraftTTL,
		}),
		workOrders: workorder.NewService(infra.gateway, infra.objects(), metrics, logger),
		inventory:  inventory.NewService(infra.gateway, cache, infra.publisher(), metrics, logger),
		health:     infra.checks(),
	}
	if store := infra.objects(); store != nil {
		app.attachments = attachment.NewService(store, metrics, logger, attachment.Options{URLExpiry: cfg.MinIO.PresignExpiry})
	}
	return app, nil
}

func buildRouterConfig(ctx context.Context, cfg *config.Config, app *application, metrics *prometheus.AppMetrics, logger logging.Logger) (httpserver.RouterConfig, *middleware.Limiter) {
	checkers := make([]handlers.HealthChecker, 0, len(app.health))
	for _, c := range app.health {
		checkers = append(checkers, handlers.CheckFunc{ComponentName: c.name, Fn: c.fn})
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.Server.AllowedOrigins

	tenantCfg := tenantConfig(cfg.Tenant)
	logCfg := middleware.DefaultLoggingConfig()
	logCfg.TenantHeader = tenantCfg.HeaderName

	rc := httpserver.RouterConfig{
		QuarantineHandler: handlers.NewQuarantineHandler(app.quarantine),
		StatisticsHandler: handlers.NewStatisticsHandler(app.statistics, cfg.Quarantine.Location()),
		SMSHandler:        handlers.NewSMSHandler(app.sms),
		AircraftHandler:   handlers.NewAircraftHandler(app.aircraft),
		WorkOrderHandler:  handlers.NewWorkOrderHandler(app.workOrders, cfg.MinIO.PresignExpiry),
		InventoryHandler:  handlers.NewInventoryHandler(app.inventory),
		HealthHandler:     handlers.NewHealthHandler(version, checkers...),

		CORS:    middleware.CORS(cors),
		Logging: middleware.RequestLogging(logger.Named("http"), logCfg),
		Metrics: middleware.Metrics(metrics),
		Tenant:  middleware.Tenant(tenantCfg, logger),
	}
	if app.attachments != nil {
		rc.AttachmentHandler = handlers.NewAttachmentHandler(app.attachments, 0)
	}

	var limiter *middleware.Limiter
	if cfg.RateLimit.Enabled {
		rl := rateLimitConfig(cfg.RateLimit, tenantCfg)
		limiter = middleware.NewLimiter(rl.RequestsPerSecond, rl.Burst, rl.IdleTTL)
		go pruneLimiter(ctx, limiter, rl.IdleTTL)
		rc.RateLimit = middleware.RateLimit(limiter, rl)
	}
	return rc, limiter
}

func tenantConfig(c config.TenantConfig) middleware.TenantConfig {
	tc := middleware.DefaultTenantConfig()
	if c.Header != "" {
		tc.HeaderName = c.Header
	}
	if c.QueryParam != "" {
		tc.QueryParam = c.QueryParam
	}
	tc.AllowedTenants = c.Allowed
	return tc
}

func rateLimitConfig(c config.RateLimitConfig, tenant middleware.TenantConfig) middleware.RateLimitConfig {
	rl := middleware.DefaultRateLimitConfig()
	if c.RequestsPerSecond > 0 {
		rl.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.Burst > 0 {
		rl.Burst = c.Burst
	}
	if c.PerTenant {
		rl.KeyFunc = middleware.TenantKey(tenant.HeaderName, tenant.QueryParam)
	}
	return rl
}

func pruneLimiter(ctx context.Context, limiter *middleware.Limiter, every time.Duration) {
	if every <= 0 {
		every = 10 * time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune()
		}
	}
}

//Personal.AI order the ending
