package main

import (
	"context"

	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/postgres"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/redis"
	"github.com/turtacn/AeroOps/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/internal/infrastructure/storage/minio"
	"github.com/turtacn/AeroOps/internal/infrastructure/upstream"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// infrastructure holds the connections shared by the services. Redis,
// Kafka and MinIO are optional and stay nil when disabled.
type infrastructure struct {
	postgres *postgres.Connection
	redis    *redis.Client
	producer *kafka.Producer
	minio    *minio.MinIOClient
	gateway  *upstream.Gateway
	logger   logging.Logger
}

func initInfrastructure(ctx context.Context, cfg *config.Config, metrics *prometheus.AppMetrics, logger logging.Logger) (*infrastructure, error) {
	infra := &infrastructure{logger: logger}

	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	infra.postgres = conn
	if cfg.Database.AutoMigrate {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			infra.Close()
			return nil, err
		}
	}

	if cfg.Cache.Enabled {
		rc, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.redis = rc
	}

	if cfg.Kafka.Enabled {
		if tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger); err != nil {
			logger.Warn("kafka topic provisioning skipped", logging.Err(err))
		} else {
			if err := tm.EnsureDefaultTopics(ctx, 1); err != nil {
				logger.Warn("kafka topic provisioning failed", logging.Err(err))
			}
			_ = tm.Close()
		}
		p, err := kafka.NewProducer(kafka.ProducerConfigFrom(cfg.Kafka), logger)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.producer = p
	}

	if cfg.MinIO.Enabled {
		mc, err := minio.NewMinIOClient(ctx, cfg.MinIO, logger)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.minio = mc
	}

	api, err := client.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.APIKey,
		client.WithTimeout(cfg.Upstream.Timeout),
		client.WithRetryMax(cfg.Upstream.MaxRetries),
		client.WithRetryWait(cfg.Upstream.RetryBackoff, 8*cfg.Upstream.RetryBackoff),
		client.WithUserAgent(cfg.Upstream.UserAgent),
		client.WithLogger(logging.Printf(logger.Named("client"))),
	)
	if err != nil {
		infra.Close()
		return nil, err
	}
	infra.gateway = upstream.NewGateway(api, metrics, logger)
	return infra, nil
}

// cache returns the Redis cache, or a pass-through cache when disabled.
func (i *infrastructure) cache(cfg config.CacheConfig) redis.Cache {
	if i.redis == nil {
		return redis.NewNopCache()
	}
	opts := []redis.CacheOption{redis.WithDefaultTTL(cfg.ArticlesTTL)}
	if cfg.NullTTL > 0 {
		opts = append(opts, redis.WithNullCacheTTL(cfg.NullTTL))
	}
	return redis.NewRedisCache(i.redis, i.logger.Named("cache"), opts...)
}

func (i *infrastructure) locks() redis.LockFactory {
	if i.redis == nil {
		return nil
	}
	return redis.NewLockFactory(i.redis, i.logger)
}

type eventPublisher interface {
	PublishEvent(ctx context.Context, topic, key, eventType string, payload interface{}) error
}

func (i *infrastructure) publisher() eventPublisher {
	if i.producer == nil {
		return kafka.NopPublisher{}
	}
	return i.producer
}

func (i *infrastructure) objects() minio.ObjectRepository {
	if i.minio == nil {
		return nil
	}
	return minio.NewMinIORepository(i.minio, i.logger)
}

// Close releases every connection that was opened.
func (i *infrastructure) Close() {
	if i.producer != nil {
		if err := i.producer.Close(); err != nil {
			i.logger.Error("failed to close kafka producer", logging.Err(err))
		}
	}
	if i.minio != nil {
		_ = i.minio.Close()
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

// componentCheck is one named dependency probe.
type componentCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// checks lists the probes for the enabled dependencies.
func (i *infrastructure) checks() []componentCheck {
	out := []componentCheck{
		{name: "postgres", fn: i.postgres.HealthCheck},
		{name: "upstream", fn: i.gateway.Ping},
	}
	if i.redis != nil {
		out = append(out, componentCheck{name: "redis", fn: i.redis.Ping})
	}
	if i.minio != nil {
		out = append(out, componentCheck{name: "minio", fn: i.minio.HealthCheck})
	}
	if i.producer != nil {
		p := i.producer
		out = append(out, componentCheck{name: "kafka", fn: func(context.Context) error {
			if p.Failed() > 0 && p.Sent() == 0 {
				return errors.New(errors.ErrCodeServiceUnavailable, "kafka producer has not delivered any message")
			}
			return nil
		}})
	}
	return out
}

//Personal.AI order the ending
