// Package config provides configuration loading, defaults, and validation for
// AeroOps.
package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultServerHost     = "0.0.0.0"
	DefaultServerPort     = 8080
	DefaultGRPCPort       = 9090
	DefaultServerMode     = "release"
	DefaultReadTimeout    = 15 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultIdleTimeout    = 120 * time.Second
	DefaultShutdown       = 20 * time.Second
	DefaultMaxBodySize    = 10 << 20
	DefaultUpstreamURL    = "http://localhost:8000/api"
	DefaultUpstreamTO     = 30 * time.Second
	DefaultUpstreamRetry  = 2
	DefaultUpstreamWait   = 200 * time.Millisecond
	DefaultUserAgent      = "aeroops/1.0"
	DefaultDBHost         = "localhost"
	DefaultDBPort         = 5432
	DefaultDBName         = "aeroops"
	DefaultDBUser         = "aeroops"
	DefaultDBMaxOpenConns = 20
	DefaultDBMaxIdleConns = 5
	DefaultRedisMode      = "standalone"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPrefix    = "aeroops"
	DefaultArticlesTTL    = 2 * time.Minute
	DefaultStatisticsTTL  = 10 * time.Minute
	DefaultReportTTL      = time.Minute
	DefaultNullTTL        = 30 * time.Second
	DefaultKafkaBroker    = "localhost:9092"
	DefaultKafkaGroupID   = "aeroops-worker"
	DefaultKafkaClientID  = "aeroops"
	DefaultMinIOEndpoint  = "localhost:9000"
	DefaultMinIOBucket    = "aeroops-documents"
	DefaultPresignExpiry  = 15 * time.Minute
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultMetricsPath    = "/metrics"
	DefaultMetricsNS      = "aeroops"

	// DefaultLegalLimitDays is the regulatory quarantine window.
	DefaultLegalLimitDays = 40
	// DefaultWarningDays starts the warning band.
	DefaultWarningDays = 30

	DefaultMaxTreeDepth  = 8
	DefaultDraftTTL      = 7 * 24 * time.Hour
	DefaultSweepInterval = time.Hour
	DefaultConcurrency   = 4
	DefaultPurgeInterval = 6 * time.Hour
	DefaultHealthPort    = 8081
	DefaultTenantHeader  = "X-Tenant-ID"
	DefaultTenantQuery   = "tenant_id"
	DefaultRPS           = 20
	DefaultBurst         = 40
)

// ApplyDefaults fills zero-value fields in cfg.  Explicit values always win.
// Booleans cannot be told apart from "unset" here; their defaults live in
// registerDefaults so viper sees them.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Server
	setString(&s.Host, DefaultServerHost)
	setInt(&s.Port, DefaultServerPort)
	setString(&s.Mode, DefaultServerMode)
	setDuration(&s.ReadTimeout, DefaultReadTimeout)
	setDuration(&s.WriteTimeout, DefaultWriteTimeout)
	setDuration(&s.IdleTimeout, DefaultIdleTimeout)
	setDuration(&s.ShutdownTimeout, DefaultShutdown)
	if s.MaxBodySize == 0 {
		s.MaxBodySize = DefaultMaxBodySize
	}
	if len(s.AllowedOrigins) == 0 {
		s.AllowedOrigins = []string{"*"}
	}

	u := &cfg.Upstream
	setString(&u.BaseURL, DefaultUpstreamURL)
	setDuration(&u.Timeout, DefaultUpstreamTO)
	setDuration(&u.RetryBackoff, DefaultUpstreamWait)
	setString(&u.UserAgent, DefaultUserAgent)

	d := &cfg.Database
	setString(&d.Host, DefaultDBHost)
	setInt(&d.Port, DefaultDBPort)
	setString(&d.User, DefaultDBUser)
	setString(&d.DBName, DefaultDBName)
	setString(&d.SSLMode, "disable")
	setInt(&d.MaxOpenConns, DefaultDBMaxOpenConns)
	setInt(&d.MaxIdleConns, DefaultDBMaxIdleConns)
	setDuration(&d.ConnMaxLifetime, 30*time.Minute)
	setDuration(&d.ConnMaxIdleTime, 5*time.Minute)

	r := &cfg.Redis
	setString(&r.Mode, DefaultRedisMode)
	if r.Mode == DefaultRedisMode {
		setString(&r.Addr, DefaultRedisAddr)
	}
	setInt(&r.PoolSize, 20)
	setDuration(&r.DialTimeout, 5*time.Second)
	setDuration(&r.ReadTimeout, 3*time.Second)
	setDuration(&r.WriteTimeout, 3*time.Second)
	setString(&r.KeyPrefix, DefaultRedisPrefix)

	c := &cfg.Cache
	setDuration(&c.ArticlesTTL, DefaultArticlesTTL)
	setDuration(&c.StatisticsTTL, DefaultStatisticsTTL)
	setDuration(&c.ReportTTL, DefaultReportTTL)
	setDuration(&c.NullTTL, DefaultNullTTL)

	k := &cfg.Kafka
	if len(k.Brokers) == 0 {
		k.Brokers = []string{DefaultKafkaBroker}
	}
	setString(&k.GroupID, DefaultKafkaGroupID)
	setString(&k.ClientID, DefaultKafkaClientID)
	setString(&k.AutoOffsetReset, "earliest")
	setInt(&k.BatchSize, 100)
	setDuration(&k.BatchTimeout, 50*time.Millisecond)
	setInt(&k.MaxRetries, 3)

	m := &cfg.MinIO
	setString(&m.Endpoint, DefaultMinIOEndpoint)
	setString(&m.Bucket, DefaultMinIOBucket)
	setDuration(&m.PresignExpiry, DefaultPresignExpiry)

	mon := &cfg.Monitoring
	setString(&mon.Log.Level, DefaultLogLevel)
	setString(&mon.Log.Format, DefaultLogFormat)
	setString(&mon.Log.Output, "stdout")
	setString(&mon.Metrics.Path, DefaultMetricsPath)
	setString(&mon.Metrics.Namespace, DefaultMetricsNS)

	setInt(&cfg.Quarantine.LegalLimitDays, DefaultLegalLimitDays)
	setInt(&cfg.Quarantine.WarningThresholdDays, DefaultWarningDays)

	setInt(&cfg.Aircraft.MaxTreeDepth, DefaultMaxTreeDepth)
	setDuration(&cfg.Aircraft.DraftTTL, DefaultDraftTTL)

	setDuration(&cfg.Worker.SweepInterval, DefaultSweepInterval)
	setInt(&cfg.Worker.Concurrency, DefaultConcurrency)
	setDuration(&cfg.Worker.PurgeInterval, DefaultPurgeInterval)
	setInt(&cfg.Worker.HealthPort, DefaultHealthPort)

	setString(&cfg.Tenant.Header, DefaultTenantHeader)
	setString(&cfg.Tenant.QueryParam, DefaultTenantQuery)

	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRPS
	}
	setInt(&cfg.RateLimit.Burst, DefaultBurst)
}

// registerDefaults seeds viper with every key so AutomaticEnv can resolve
// AEROOPS_* variables during Unmarshal, including keys absent from the file.
func registerDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"server.host":                       DefaultServerHost,
		"server.port":                       DefaultServerPort,
		"server.grpc_port":                  DefaultGRPCPort,
		"server.mode":                       DefaultServerMode,
		"upstream.base_url":                 DefaultUpstreamURL,
		"upstream.api_key":                  "",
		"upstream.max_retries":              DefaultUpstreamRetry,
		"database.host":                     DefaultDBHost,
		"database.port":                     DefaultDBPort,
		"database.user":                     DefaultDBUser,
		"database.password":                 "",
		"database.db_name":                  DefaultDBName,
		"database.auto_migrate":             false,
		"redis.mode":                        DefaultRedisMode,
		"redis.addr":                        "",
		"redis.password":                    "",
		"redis.db":                          0,
		"cache.enabled":                     true,
		"kafka.enabled":                     false,
		"kafka.brokers":                     []string{DefaultKafkaBroker},
		"kafka.dead_letter_topic":           "",
		"minio.enabled":                     false,
		"minio.access_key":                  "",
		"minio.secret_key":                  "",
		"minio.use_ssl":                     false,
		"monitoring.log.level":              DefaultLogLevel,
		"monitoring.log.format":             DefaultLogFormat,
		"monitoring.metrics.enabled":        true,
		"quarantine.legal_limit_days":       DefaultLegalLimitDays,
		"quarantine.warning_threshold_days": DefaultWarningDays,
		"quarantine.timezone":               "",
		"worker.tenants":                    []string{},
		"rate_limit.enabled":                true,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func setDuration(dst *time.Duration, def time.Duration) {
	if *dst == 0 {
		*dst = def
	}
}

//Personal.AI order the ending
