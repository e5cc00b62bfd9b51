// API server entry point for AeroOps.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	grpcserver "github.com/turtacn/AeroOps/internal/interfaces/grpc"
	httpserver "github.com/turtacn/AeroOps/internal/interfaces/http"
	"github.com/turtacn/AeroOps/internal/interfaces/http/middleware"
)

const (
	defaultConfigPath = "configs/config.yaml"
	version           = "dev"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	grpcPort := flag.Int("grpc-port", 0, "gRPC health port (overrides config, 0 disables)")
	flag.Parse()

	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}
	if *grpcPort > 0 {
		cfg.Server.GRPCPort = *grpcPort
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:   cfg.Monitoring.Log.Level,
		Format:  cfg.Monitoring.Log.Format,
		Service: "aeroops-apiserver",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	logger.Info("starting AeroOps API server",
		logging.String("version", version),
		logging.Int("http_port", cfg.Server.Port),
		logging.Int("grpc_port", cfg.Server.GRPCPort),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfigFrom(cfg.Monitoring.Metrics), logger)
	if err != nil {
		logger.Fatal("failed to create metrics collector", logging.Err(err))
	}
	metrics := prometheus.NewAppMetrics(collector)

	infra, err := initInfrastructure(ctx, cfg, metrics, logger)
	if err != nil {
		logger.Fatal("failed to initialize infrastructure", logging.Err(err))
	}
	defer infra.Close()

	app, err := buildApplication(cfg, infra, metrics, logger)
	if err != nil {
		logger.Fatal("failed to build application services", logging.Err(err))
	}

	routerCfg, limiter := buildRouterConfig(ctx, cfg, app, metrics, logger)
	if *configPath != "" {
		watchConfig(*configPath, limiter, logger)
	}
	if cfg.Monitoring.Metrics.Enabled {
		routerCfg.MetricsHandler = collector.Handler()
		routerCfg.MetricsPath = cfg.Monitoring.Metrics.Path
	}
	httpSrv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", logging.String("addr", httpSrv.Addr()))
		if err := httpSrv.Start(); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcSrv *grpcserver.Server
	if cfg.Server.GRPCPort > 0 {
		grpcSrv, err = grpcserver.NewServer(cfg.Server, grpcserver.WithLogger(logger.Named("grpc")))
		if err != nil {
			logger.Fatal("failed to create gRPC server", logging.Err(err))
		}
		go func() {
			if err := grpcSrv.Start(); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
		go watchHealth(ctx, grpcSrv, app.health, metrics, logger)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server failed", logging.Err(err))
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcSrv != nil {
		if err := grpcSrv.Stop(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", logging.Err(err))
		}
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	logger.Info("servers stopped")
}

// watchHealth mirrors the dependency checks into the gRPC health service
// and the component_up gauge.
// watchConfig applies log level and rate limit changes without a restart.
// Everything else in the file needs one.
func watchConfig(path string, limiter *middleware.Limiter, logger logging.Logger) {
	err := config.Watch(path, func(next *config.Config) {
		logging.SetLevel(logger, next.Monitoring.Log.Level)
		if limiter != nil && next.RateLimit.RequestsPerSecond > 0 && next.RateLimit.Burst > 0 {
			limiter.SetLimit(next.RateLimit.RequestsPerSecond, next.RateLimit.Burst)
		}
		logger.Info("configuration reloaded",
			logging.String("log_level", next.Monitoring.Log.Level),
			logging.Float64("rate_limit_rps", next.RateLimit.RequestsPerSecond),
			logging.Int("rate_limit_burst", next.RateLimit.Burst))
	}, func(err error) {
		logger.Warn("configuration reload rejected", logging.Err(err))
	})
	if err != nil {
		logger.Warn("configuration watch disabled", logging.Err(err))
	}
}

func watchHealth(ctx context.Context, srv *grpcserver.Server, checks []componentCheck, metrics *prometheus.AppMetrics, logger logging.Logger) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		serving := true
		for _, c := range checks {
			cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.fn(cctx)
			cancel()
			prometheus.SetComponentHealth(metrics, c.name, err == nil)
			if err != nil {
				serving = false
				logger.Warn("dependency unhealthy", logging.String("component", c.name), logging.Err(err))
			}
		}
		srv.SetServing(serving)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

//Personal.AI order the ending
