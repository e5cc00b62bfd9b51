// Package quarantine is the application service behind the quarantine
// dashboard and the background sweep.
package quarantine

import (
	"context"
	"time"

	domain "github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/redis"
	"github.com/turtacn/AeroOps/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// ArticleSource lists the quarantined articles of a tenant.
type ArticleSource interface {
	ListQuarantined(ctx context.Context, tenant string) ([]domain.Article, error)
}

// EventPublisher emits domain events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key, eventType string, payload interface{}) error
}

// Service defines the quarantine use cases.
type Service interface {
	List(ctx context.Context, tenant string) (*ListResult, error)
	Classify(entryDate string) domain.Aging
	Sweep(ctx context.Context, tenants []string) (*SweepReport, error)
	RecentAlerts(ctx context.Context, tenant string, limit int) ([]domain.Alert, error)
}

// ListResult is the dashboard payload.
type ListResult struct {
	Tenant  string                     `json:"tenant"`
	Items   []domain.ClassifiedArticle `json:"items"`
	Summary domain.Summary             `json:"summary"`
	Soonest *domain.ClassifiedArticle  `json:"soonest,omitempty"`
	Policy  domain.Policy              `json:"policy"`
	AsOf    time.Time                  `json:"as_of"`
}

// SweepReport summarizes one sweep over several tenants.
type SweepReport struct {
	Tenants   int               `json:"tenants"`
	Skipped   []string          `json:"skipped,omitempty"`
	Failed    map[string]string `json:"failed,omitempty"`
	NewAlerts int               `json:"new_alerts"`
	Duration  time.Duration     `json:"duration"`
}

// Options configures the service.
type Options struct {
	Policy   domain.Policy
	Location *time.Location
	CacheTTL time.Duration
	LockTTL  time.Duration
	Now      func() time.Time
}

// Deps groups the collaborators. Locks and Alerts may be nil.
type Deps struct {
	Source    ArticleSource
	Cache     redis.Cache
	Locks     redis.LockFactory
	Alerts    domain.AlertRepository
	Publisher EventPublisher
	Metrics   *prometheus.AppMetrics
	Logger    logging.Logger
}

type serviceImpl struct {
	deps Deps
	opts Options
}

// NewService creates the quarantine service.
func NewService(deps Deps, opts Options) (Service, error) {
	if deps.Source == nil {
		return nil, errors.InvalidParam("article source is required")
	}
	if opts.Policy == (domain.Policy{}) {
		opts.Policy = domain.DefaultPolicy
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePolicyInvalid, "invalid quarantine policy")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 2 * time.Minute
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if deps.Cache == nil {
		deps.Cache = redis.NewNopCache()
	}
	if deps.Publisher == nil {
		deps.Publisher = kafka.NopPublisher{}
	}
	if deps.Metrics == nil {
		deps.Metrics = prometheus.NewNoopAppMetrics()
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	deps.Logger = deps.Logger.Named("quarantine")
	return &serviceImpl{deps: deps, opts: opts}, nil
}

func (s *serviceImpl) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

// articles reads through the cache.
func (s *serviceImpl) articles(ctx context.Context, tenant string) ([]domain.Article, error) {
	var items []domain.Article
	hit := true
	err := s.deps.Cache.GetOrSet(ctx, redis.ArticlesQuarantineKey(tenant), &items, s.opts.CacheTTL,
		func(ctx context.Context) (interface{}, error) {
			hit = false
			return s.deps.Source.ListQuarantined(ctx, tenant)
		})
	prometheus.RecordCacheAccess(s.deps.Metrics, "articles", hit && err == nil)
	if err == redis.ErrCacheMiss {
		return []domain.Article{}, nil
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Article{}
	}
	return items, nil
}

func (s *serviceImpl) classify(ctx context.Context, tenant string) ([]domain.ClassifiedArticle, time.Time, error) {
	if tenant == "" {
		return nil, time.Time{}, errors.New(errors.ErrCodeTenantRequired, "tenant is required")
	}
	articles, err := s.articles(ctx, tenant)
	if err != nil {
		return nil, time.Time{}, err
	}
	now := s.now()
	items := domain.ClassifyAll(articles, s.opts.Policy, now)
	domain.SortByUrgency(items)
	return items, now, nil
}

func (s *serviceImpl) List(ctx context.Context, tenant string) (*ListResult, error) {
	items, now, err := s.classify(ctx, tenant)
	if err != nil {
		return nil, err
	}
	res := &ListResult{
		Tenant:  tenant,
		Items:   items,
		Summary: domain.Summarize(items),
		Policy:  s.opts.Policy,
		AsOf:    now,
	}
	if soonest, ok := domain.SoonestToExpire(items); ok {
		res.Soonest = &soonest
	}
	return res, nil
}

func (s *serviceImpl) Classify(entryDate string) domain.Aging {
	return domain.ClassifyDate(entryDate, s.opts.Policy, s.now())
}

func (s *serviceImpl) RecentAlerts(ctx context.Context, tenant string, limit int) ([]domain.Alert, error) {
	if s.deps.Alerts == nil {
		return []domain.Alert{}, nil
	}
	return s.deps.Alerts.ListRecent(ctx, tenant, limit)
}

// Sweep classifies every tenant and raises an alert for each article that
// newly entered warning or expired. Tenants locked by another instance are
// skipped. One tenant failing does not stop the others.
func (s *serviceImpl) Sweep(ctx context.Context, tenants []string) (*SweepReport, error) {
	start := time.Now()
	report := &SweepReport{Tenants: len(tenants), Failed: map[string]string{}}
	for _, tenant := range tenants {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		n, skipped, err := s.sweepTenant(ctx, tenant)
		prometheus.RecordSweep(s.deps.Metrics, tenant, err)
		switch {
		case err != nil:
			report.Failed[tenant] = err.Error()
			s.deps.Logger.Error("sweep failed", logging.Tenant(tenant), logging.Err(err))
		case skipped:
			report.Skipped = append(report.Skipped, tenant)
		default:
			report.NewAlerts += n
		}
	}
	report.Duration = time.Since(start)
	s.deps.Metrics.QuarantineSweepDuration.WithLabelValues().Observe(report.Duration.Seconds())
	s.deps.Logger.Info("sweep finished",
		logging.Int("tenants", report.Tenants),
		logging.Int("new_alerts", report.NewAlerts),
		logging.Int("failed", len(report.Failed)),
		logging.Duration("duration", report.Duration))
	return report, nil
}

func (s *serviceImpl) sweepTenant(ctx context.Context, tenant string) (int, bool, error) {
	if s.deps.Locks != nil {
		lock := s.deps.Locks.NewMutex("sweep:"+tenant, redis.WithLockTTL(s.opts.LockTTL))
		ok, err := lock.TryLock(ctx)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			s.deps.Logger.Debug("sweep already running elsewhere", logging.Tenant(tenant))
			return 0, true, nil
		}
		defer func() {
			if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
				s.deps.Logger.Warn("failed to release sweep lock", logging.Tenant(tenant), logging.Err(err))
			}
		}()
	}

	items, now, err := s.classify(ctx, tenant)
	if err != nil {
		return 0, false, err
	}
	summary := domain.Summarize(items)
	gauge := s.deps.Metrics.QuarantineArticles
	gauge.WithLabelValues(tenant, string(domain.BandOK)).Set(float64(summary.OK))
	gauge.WithLabelValues(tenant, string(domain.BandWarning)).Set(float64(summary.Warning))
	gauge.WithLabelValues(tenant, string(domain.BandExpired)).Set(float64(summary.Expired))
	gauge.WithLabelValues(tenant, string(domain.BandUnknown)).Set(float64(summary.Unknown))

	raised := 0
	for _, it := range items {
		alert, ok := domain.AlertFor(tenant, it, now)
		if !ok {
			continue
		}
		fresh, err := s.record(ctx, alert)
		if err != nil {
			return raised, false, err
		}
		if !fresh {
			continue
		}
		raised++
		s.deps.Metrics.QuarantineAlertsTotal.WithLabelValues(tenant, string(alert.State)).Inc()
		s.publish(ctx, alert, it.Serial)
	}
	return raised, false, nil
}

// record reports whether the alert is new. Without an alert log every
// alert counts as new.
func (s *serviceImpl) record(ctx context.Context, a domain.Alert) (bool, error) {
	if s.deps.Alerts == nil {
		return true, nil
	}
	return s.deps.Alerts.Record(ctx, a)
}

func (s *serviceImpl) publish(ctx context.Context, a domain.Alert, serial string) {
	payload := kafka.QuarantineAlertPayload{
		Tenant:      a.Tenant,
		ArticleID:   a.ArticleID,
		PartNumber:  a.PartNumber,
		Serial:      serial,
		State:       string(a.State),
		DaysElapsed: a.Days,
		Remaining:   a.Remaining,
		DetectedAt:  a.RaisedAt,
	}
	err := s.deps.Publisher.PublishEvent(ctx, kafka.TopicQuarantineAlert, a.Tenant, kafka.EventQuarantineAlert, payload)
	prometheus.RecordEvent(s.deps.Metrics, true, kafka.TopicQuarantineAlert, err)
	if err != nil {
		s.deps.Logger.Warn("failed to publish quarantine alert",
			logging.Tenant(a.Tenant), logging.Int64("article_id", a.ArticleID), logging.Err(err))
	}
}

//Personal.AI order the ending
