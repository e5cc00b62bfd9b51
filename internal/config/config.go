// Package config defines the configuration structures for AeroOps.  No I/O
// lives here, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"time"
	// quarantine.timezone must resolve on hosts without zoneinfo.
	_ "time/tzdata"
)

// ServerConfig holds HTTP and gRPC server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// UpstreamConfig points at the external maintenance REST backend.
type UpstreamConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the draft store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"` // directory; empty uses the embedded set
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Mode         string        `mapstructure:"mode"` // "standalone" | "sentinel" | "cluster"
	Addr         string        `mapstructure:"addr"`
	Addrs        []string      `mapstructure:"addrs"`
	MasterName   string        `mapstructure:"master_name"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// CacheConfig controls cache-aside TTLs for upstream reads.
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	ArticlesTTL   time.Duration `mapstructure:"articles_ttl"`
	StatisticsTTL time.Duration `mapstructure:"statistics_ttl"`
	ReportTTL     time.Duration `mapstructure:"report_ttl"`
	NullTTL       time.Duration `mapstructure:"null_ttl"`
}

// KafkaConfig holds producer/consumer parameters.
type KafkaConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	ClientID        string        `mapstructure:"client_id"`
	AutoOffsetReset string        `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	BatchSize       int           `mapstructure:"batch_size"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
}

// MinIOConfig holds S3-compatible object storage parameters.
type MinIOConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	Region        string        `mapstructure:"region"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the Prometheus exporter.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// MonitoringConfig groups logging and metrics.
type MonitoringConfig struct {
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// QuarantineConfig is the regulatory aging policy.
type QuarantineConfig struct {
	LegalLimitDays       int    `mapstructure:"legal_limit_days"`
	WarningThresholdDays int    `mapstructure:"warning_threshold_days"`
	Timezone             string `mapstructure:"timezone"` // IANA name; empty means host local
}

// AircraftConfig bounds the part-tree drafts.
type AircraftConfig struct {
	MaxTreeDepth int           `mapstructure:"max_tree_depth"`
	DraftTTL     time.Duration `mapstructure:"draft_ttl"`
}

// WorkerConfig drives cmd/worker.
type WorkerConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Tenants       []string      `mapstructure:"tenants"`
	Concurrency   int           `mapstructure:"concurrency"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
	HealthPort    int           `mapstructure:"health_port"`
}

// TenantConfig controls tenant extraction at the HTTP boundary.
type TenantConfig struct {
	Header     string `mapstructure:"header"`
	QueryParam string `mapstructure:"query_param"`
	// Allowed, when non-empty, rejects every other tenant with 403.
	Allowed []string `mapstructure:"allowed"`
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	// PerTenant keys buckets by tenant and client IP instead of IP only.
	PerTenant bool `mapstructure:"per_tenant"`
}

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Quarantine QuarantineConfig `mapstructure:"quarantine"`
	Aircraft   AircraftConfig   `mapstructure:"aircraft"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Tenant     TenantConfig     `mapstructure:"tenant"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// Validate performs semantic validation of a fully populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("config: server.grpc_port %d is out of range [0, 65535]", c.Server.GRPCPort)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("config: upstream.base_url is required")
	}
	if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: upstream.base_url %q is not an absolute URL", c.Upstream.BaseURL)
	}
	if c.Upstream.MaxRetries < 0 {
		return fmt.Errorf("config: upstream.max_retries must be >= 0, got %d", c.Upstream.MaxRetries)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("config: database.max_open_conns must be >= 1, got %d", c.Database.MaxOpenConns)
	}

	switch c.Redis.Mode {
	case "standalone":
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required in standalone mode")
		}
	case "sentinel":
		if len(c.Redis.Addrs) == 0 || c.Redis.MasterName == "" {
			return fmt.Errorf("config: redis sentinel mode needs addrs and master_name")
		}
	case "cluster":
		if len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("config: redis.addrs is required in cluster mode")
		}
	default:
		return fmt.Errorf("config: redis.mode %q is invalid; expected standalone|sentinel|cluster", c.Redis.Mode)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
	}

	if c.MinIO.Enabled && (c.MinIO.Endpoint == "" || c.MinIO.Bucket == "") {
		return fmt.Errorf("config: minio.endpoint and minio.bucket are required when minio is enabled")
	}

	q := c.Quarantine
	if q.LegalLimitDays < 1 {
		return fmt.Errorf("config: quarantine.legal_limit_days must be >= 1, got %d", q.LegalLimitDays)
	}
	if q.WarningThresholdDays < 0 || q.WarningThresholdDays >= q.LegalLimitDays {
		return fmt.Errorf("config: quarantine.warning_threshold_days must be in [0, %d), got %d",
			q.LegalLimitDays, q.WarningThresholdDays)
	}
	if q.Timezone != "" {
		if _, err := time.LoadLocation(q.Timezone); err != nil {
			return fmt.Errorf("config: quarantine.timezone %q: %w", q.Timezone, err)
		}
	}

	if c.Aircraft.MaxTreeDepth < 1 {
		return fmt.Errorf("config: aircraft.max_tree_depth must be >= 1, got %d", c.Aircraft.MaxTreeDepth)
	}

	if c.Worker.SweepInterval <= 0 {
		return fmt.Errorf("config: worker.sweep_interval must be positive")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be >= 1, got %d", c.Worker.Concurrency)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("config: rate_limit needs requests_per_second > 0 and burst >= 1")
	}

	switch c.Monitoring.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: monitoring.log.level %q is invalid; expected debug|info|warn|error", c.Monitoring.Log.Level)
	}
	switch c.Monitoring.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: monitoring.log.format %q is invalid; expected json|console", c.Monitoring.Log.Format)
	}

	return nil
}

// Location resolves the quarantine timezone, falling back to time.Local.
func (q QuarantineConfig) Location() *time.Location {
	if q.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DSN renders the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

//Personal.AI order the ending
