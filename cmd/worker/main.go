// Background worker for AeroOps: the quarantine sweep, stale draft purge
// and cross-instance cache invalidation.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	aircraftapp "github.com/turtacn/AeroOps/internal/application/aircraft"
	"github.com/turtacn/AeroOps/internal/application/inventory"
	quarantineapp "github.com/turtacn/AeroOps/internal/application/quarantine"
	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/postgres"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/redis"
	"github.com/turtacn/AeroOps/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/internal/infrastructure/upstream"
	httpserver "github.com/turtacn/AeroOps/internal/interfaces/http"
	"github.com/turtacn/AeroOps/internal/interfaces/http/handlers"
	"github.com/turtacn/AeroOps/pkg/client"
)

const (
	defaultWorkerConfigPath = "configs/config.yaml"
	version                 = "dev"
)

func main() {
	configPath := flag.String("config", defaultWorkerConfigPath, "path to configuration file")
	once := flag.Bool("once", false, "run one sweep and purge, then exit")
	flag.Parse()

	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:   cfg.Monitoring.Log.Level,
		Format:  cfg.Monitoring.Log.Format,
		Service: "aeroops-worker",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfigFrom(cfg.Monitoring.Metrics), logger)
	if err != nil {
		logger.Fatal("failed to create metrics collector", logging.Err(err))
	}
	metrics := prometheus.NewAppMetrics(collector)

	infra, err := initWorkerInfrastructure(ctx, cfg, metrics, logger)
	if err != nil {
		logger.Fatal("failed to initialize worker infrastructure", logging.Err(err))
	}
	defer infra.Close()

	w, err := newWorker(cfg, infra, metrics, logger)
	if err != nil {
		logger.Fatal("failed to build worker", logging.Err(err))
	}

	if *once {
		w.sweep(ctx)
		w.purge(ctx)
		return
	}

	logger.Info("starting AeroOps worker",
		logging.Int("tenants", len(cfg.Worker.Tenants)),
		logging.Duration("sweep_interval", cfg.Worker.SweepInterval),
		logging.Duration("purge_interval", cfg.Worker.PurgeInterval),
		logging.Int("concurrency", cfg.Worker.Concurrency),
	)

	healthSrv := startHealthServer(cfg, infra, collector, logger)

	if infra.consumer != nil {
		infra.consumer.Subscribe(kafka.TopicResourceChanged, w.handleResourceChanged)
		if err := infra.consumer.Start(ctx); err != nil {
			logger.Fatal("failed to start kafka consumer", logging.Err(err))
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		every(ctx, cfg.Worker.SweepInterval, w.sweep)
	}()
	go func() {
		defer wg.Done()
		every(ctx, cfg.Worker.PurgeInterval, w.purge)
	}()

	<-ctx.Done()
	logger.Info("shutting down worker...")
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}
	logger.Info("worker stopped")
}

// every runs fn immediately and then on each tick until ctx is done.
func every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	fn(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// workerInfrastructure holds the worker's connections. redis and consumer
// are nil when the cache or Kafka is disabled.
type workerInfrastructure struct {
	postgres *postgres.Connection
	redis    *redis.Client
	consumer *kafka.Consumer
	producer *kafka.Producer
	gateway  *upstream.Gateway
	logger   logging.Logger
}

func (i *workerInfrastructure) Close() {
	if i.consumer != nil {
		if err := i.consumer.Close(); err != nil {
			i.logger.Error("failed to close kafka consumer", logging.Err(err))
		}
	}
	if i.producer != nil {
		if err := i.producer.Close(); err != nil {
			i.logger.Error("failed to close kafka producer", logging.Err(err))
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			i.logger.Error("failed to close redis", logging.Err(err))
		}
	}
	if i.postgres != nil {
		if err := i.postgres.Close(); err != nil {
			i.logger.Error("failed to close postgres", logging.Err(err))
		}
	}
}

func initWorkerInfrastructure(ctx context.Context, cfg *config.Config, metrics *prometheus.AppMetrics, logger logging.Logger) (*workerInfrastructure, error) {
	infra := &workerInfrastructure{logger: logger}

	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	infra.postgres = conn

	if cfg.Cache.Enabled {
		rc, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.redis = rc
	}

	if cfg.Kafka.Enabled {
		consumer, err := kafka.NewConsumer(kafka.ConsumerConfigFrom(cfg.Kafka, kafka.TopicResourceChanged), logger.Named("consumer"))
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		infra.consumer = consumer

		producer, err := kafka.NewProducer(kafka.ProducerConfigFrom(cfg.Kafka), logger.Named("producer"))
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		infra.producer = producer
	}

	api, err := client.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.APIKey,
		client.WithTimeout(cfg.Upstream.Timeout),
		client.WithRetryMax(cfg.Upstream.MaxRetries),
		client.WithUserAgent(cfg.Upstream.UserAgent),
		client.WithLogger(logging.Printf(logger.Named("client"))),
	)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("upstream client: %w", err)
	}
	infra.gateway = upstream.NewGateway(api, metrics, logger)
	return infra, nil
}

type worker struct {
	quarantine  quarantineapp.Service
	aircraft    aircraftapp.Service
	inventory   inventory.Service
	tenants     []string
	concurrency int
	logger      logging.Logger
}

func newWorker(cfg *config.Config, infra *workerInfrastructure, metrics *prometheus.AppMetrics, logger logging.Logger) (*worker, error) {
	var (
		cache redis.Cache = redis.NewNopCache()
		locks redis.LockFactory
	)
	if infra.redis != nil {
		cache = redis.NewRedisCache(infra.redis, logger.Named("cache"))
		locks = redis.NewLockFactory(infra.redis, logger)
	}

	deps := quarantineapp.Deps{
		Source:  infra.gateway,
		Cache:   cache,
		Locks:   locks,
		Alerts:  repositories.NewPostgresAlertRepo(infra.postgres, logger),
		Metrics: metrics,
		Logger:  logger,
	}
	if infra.producer != nil {
		deps.Publisher = infra.producer
	}
	q, err := quarantineapp.NewService(deps, quarantineapp.Options{
		Policy: quarantine.Policy{
			LegalLimitDays:       cfg.Quarantine.LegalLimitDays,
			WarningThresholdDays: cfg.Quarantine.WarningThresholdDays,
		},
		Location: cfg.Quarantine.Location(),
		CacheTTL: cfg.Cache.ArticlesTTL,
		LockTTL:  cfg.Worker.SweepInterval,
	})
	if err != nil {
		return nil, err
	}

	concurrency := cfg.Worker.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		quarantine: q,
		aircraft: aircraftapp.NewService(repositories.NewPostgresDraftRepo(infra.postgres, logger), infra.gateway, metrics, logger, aircraftapp.Options{
			MaxDepth: cfg.Aircraft.MaxTreeDepth,
			DraftTTL: cfg.Aircraft.DraftTTL,
		}),
		inventory:   inventory.NewService(infra.gateway, cache, nil, metrics, logger),
		tenants:     cfg.Worker.Tenants,
		concurrency: concurrency,
		logger:      logger.Named("worker"),
	}, nil
}

// sweep classifies every configured tenant, at most concurrency at a time.
// A failing tenant never stops the others.
func (w *worker) sweep(ctx context.Context) {
	if len(w.tenants) == 0 {
		w.logger.Debug("no tenants configured, sweep skipped")
		return
	}
	var (
		mu     sync.Mutex
		alerts int
		failed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, tenant := range w.tenants {
		tenant := tenant
		g.Go(func() error {
			report, err := w.quarantine.Sweep(gctx, []string{tenant})
			mu.Lock()
			defer mu.Unlock()
			if report != nil {
				alerts += report.NewAlerts
				failed += len(report.Failed)
			}
			if err != nil {
				failed++
			}
			return nil
		})
	}
	_ = g.Wait()
	w.logger.Info("quarantine sweep complete",
		logging.Int("tenants", len(w.tenants)),
		logging.Int("new_alerts", alerts),
		logging.Int("failed", failed))
}

func (w *worker) purge(ctx context.Context) {
	if _, err := w.aircraft.PurgeStale(ctx); err != nil {
		w.logger.Error("draft purge failed", logging.Err(err))
	}
}

// handleResourceChanged drops the caches named by a write on another
// instance. Undecodable messages are dropped; failed deletes are retried.
func (w *worker) handleResourceChanged(ctx context.Context, msg *kafka.Message) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		w.logger.Warn("dropping malformed event", logging.String("topic", msg.Topic), logging.Err(err))
		return nil
	}
	if env.EventType != kafka.EventResourceChanged {
		return nil
	}
	var change kafka.ResourceChangedPayload
	if err := env.DecodePayload(&change); err != nil {
		w.logger.Warn("dropping event with invalid payload", logging.String("event_id", env.EventID), logging.Err(err))
		return nil
	}
	return w.inventory.Invalidate(ctx, change)
}

func startHealthServer(cfg *config.Config, infra *workerInfrastructure, collector prometheus.MetricsCollector, logger logging.Logger) *httpserver.Server {
	checkers := []handlers.HealthChecker{
		handlers.CheckFunc{ComponentName: "postgres", Fn: infra.postgres.HealthCheck},
	}
	if infra.redis != nil {
		checkers = append(checkers, handlers.CheckFunc{ComponentName: "redis", Fn: infra.redis.Ping})
	}

	r := chi.NewRouter()
	handlers.NewHealthHandler(version, checkers...).RegisterRoutes(r)
	if cfg.Monitoring.Metrics.Enabled {
		path := cfg.Monitoring.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, collector.Handler())
	}

	srvCfg := cfg.Server
	srvCfg.Port = cfg.Worker.HealthPort
	srv := httpserver.NewServer(srvCfg, r, logger)
	go func() {
		logger.Info("health server listening", logging.String("addr", net.JoinHostPort(srvCfg.Host, strconv.Itoa(srvCfg.Port))))
		if err := srv.Start(); err != nil {
			logger.Error("health server error", logging.Err(err))
		}
	}()
	return srv
}

//Personal.AI order the ending
