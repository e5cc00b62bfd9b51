// Package statistics serves the periodic purchase-order and safety report
// statistics, their drilldown and the workbook export.
package statistics

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/turtacn/AeroOps/internal/domain/statistics"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/redis"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// Source fetches the raw statistics payloads.
type Source interface {
	PurchaseOrders(ctx context.Context, tenant string, r domain.DateRange) (*client.PurchaseOrderStatistics, error)
	SMSReports(ctx context.Context, tenant string, r domain.DateRange) (*client.SMSReportStatistics, error)
}

// Service defines the statistics use cases.
type Service interface {
	PurchaseOrders(ctx context.Context, q Query) (*PurchaseOrderReport, error)
	Drilldown(ctx context.Context, q Query, month string) ([]client.PurchaseOrderRecord, error)
	SMSReports(ctx context.Context, q Query) (*SMSReportSummary, error)
	SMSDrilldown(ctx context.Context, q Query, month string) ([]client.SMSReportRecord, error)
	ExportXLSX(ctx context.Context, q Query) ([]byte, error)
}

// Query selects a tenant, the fetched range and the year shown.
type Query struct {
	Tenant string
	Range  domain.DateRange
	// Year defaults to the year of Range.To.
	Year string
}

// PurchaseOrderReport is the purchase-order dashboard payload.
type PurchaseOrderReport struct {
	Year        string                    `json:"year"`
	From        string                    `json:"from"`
	To          string                    `json:"to"`
	Years       []string                  `json:"years"`
	Series      []domain.MonthlyStatistic `json:"series"`
	Counts      []domain.ValuePoint       `json:"counts"`
	TotalAnnual decimal.Decimal           `json:"total_annual"`
	SeriesTotal decimal.Decimal           `json:"series_total"`
	Highest     *domain.MonthlyStatistic  `json:"highest_month,omitempty"`
}

// SMSReportSummary is the safety report dashboard payload.
type SMSReportSummary struct {
	Year              string              `json:"year"`
	From              string              `json:"from"`
	To                string              `json:"to"`
	Years             []string            `json:"years"`
	Voluntary         []domain.ValuePoint `json:"voluntary"`
	Obligatory        []domain.ValuePoint `json:"obligatory"`
	TotalAnnual       decimal.Decimal     `json:"total_annual"`
	HighestVoluntary  *domain.ValuePoint  `json:"highest_voluntary,omitempty"`
	HighestObligatory *domain.ValuePoint  `json:"highest_obligatory,omitempty"`
}

// Options configures the service.
type Options struct {
	CacheTTL   time.Duration
	MonthOrder []string
}

type serviceImpl struct {
	source  Source
	cache   redis.Cache
	metrics *prometheus.AppMetrics
	logger  logging.Logger
	opts    Options
}

// NewService creates the statistics service. cache and metrics may be nil.
func NewService(source Source, cache redis.Cache, metrics *prometheus.AppMetrics, log logging.Logger, opts Options) Service {
	if cache == nil {
		cache = redis.NewNopCache()
	}
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if len(opts.MonthOrder) == 0 {
		opts.MonthOrder = domain.SpanishMonths
	}
	return &serviceImpl{source: source, cache: cache, metrics: metrics, logger: log.Named("statistics"), opts: opts}
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)

func (q Query) validate() (Query, error) {
	if q.Tenant == "" {
		return q, errors.New(errors.ErrCodeTenantRequired, "tenant is required")
	}
	if q.Range.From.IsZero() || q.Range.To.IsZero() {
		return q, errors.New(errors.ErrCodeDateRangeInvalid, "from and to are required")
	}
	if err := q.Range.Validate(); err != nil {
		return q, errors.Wrap(err, errors.ErrCodeDateRangeInvalid, "invalid date range")
	}
	if q.Year == "" {
		q.Year = q.Range.To.Format("2006")
	}
	if !yearPattern.MatchString(q.Year) {
		return q, errors.Newf(errors.ErrCodeYearInvalid, "invalid year %q", q.Year)
	}
	return q, nil
}

func (s *serviceImpl) purchaseOrders(ctx context.Context, q Query) (*client.PurchaseOrderStatistics, error) {
	var out client.PurchaseOrderStatistics
	if err := s.cached(ctx, redis.StatisticsKey(q.Tenant, "purchase_orders", q.Range.CacheKey()), &out, func(ctx context.Context) (interface{}, error) {
		return s.source.PurchaseOrders(ctx, q.Tenant, q.Range)
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *serviceImpl) smsReports(ctx context.Context, q Query) (*client.SMSReportStatistics, error) {
	var out client.SMSReportStatistics
	if err := s.cached(ctx, redis.StatisticsKey(q.Tenant, "sms_reports", q.Range.CacheKey()), &out, func(ctx context.Context) (interface{}, error) {
		return s.source.SMSReports(ctx, q.Tenant, q.Range)
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *serviceImpl) cached(ctx context.Context, key string, dest interface{}, loader func(ctx context.Context) (interface{}, error)) error {
	hit := true
	err := s.cache.GetOrSet(ctx, key, dest, s.opts.CacheTTL, func(ctx context.Context) (interface{}, error) {
		hit = false
		return loader(ctx)
	})
	prometheus.RecordCacheAccess(s.metrics, "statistics", hit && err == nil)
	if err == redis.ErrCacheMiss {
		return errors.New(errors.ErrCodeUpstreamBadPayload, "empty statistics payload")
	}
	return err
}

func toMetrics(p *client.PurchaseOrderStatistics) domain.Metrics {
	return domain.Metrics{
		Total:              domain.NestedMap(p.Total),
		TransportVenezuela: domain.NestedMap(p.TransportVenezuela),
		TransportUSA:       domain.NestedMap(p.TransportUSA),
		Taxes:              domain.NestedMap(p.Taxes),
		WireFee:            domain.NestedMap(p.WireFee),
		HandlingFee:        domain.NestedMap(p.HandlingFee),
	}
}

func (s *serviceImpl) PurchaseOrders(ctx context.Context, q Query) (*PurchaseOrderReport, error) {
	q, err := q.validate()
	if err != nil {
		return nil, err
	}
	raw, err := s.purchaseOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	series := domain.BuildMonthlySeries(toMetrics(raw), q.Year, s.opts.MonthOrder)
	return &PurchaseOrderReport{
		Year:        q.Year,
		From:        q.Range.FromParam(),
		To:          q.Range.ToParam(),
		Years:       q.Range.Years(),
		Series:      series,
		Counts:      domain.BuildValueSeries(raw.Count, q.Year, s.opts.MonthOrder),
		TotalAnnual: domain.TotalAnnual(raw.TotalAnnual, q.Year),
		SeriesTotal: domain.SumSeries(series),
		Highest:     domain.HighestMonth(series),
	}, nil
}

func (s *serviceImpl) Drilldown(ctx context.Context, q Query, month string) ([]client.PurchaseOrderRecord, error) {
	q, err := q.validate()
	if err != nil {
		return nil, err
	}
	raw, err := s.purchaseOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	return domain.Drilldown(raw.Records, q.Year, month), nil
}

func (s *serviceImpl) SMSReports(ctx context.Context, q Query) (*SMSReportSummary, error) {
	q, err := q.validate()
	if err != nil {
		return nil, err
	}
	raw, err := s.smsReports(ctx, q)
	if err != nil {
		return nil, err
	}
	voluntary := domain.BuildValueSeries(raw.Voluntary, q.Year, s.opts.MonthOrder)
	obligatory := domain.BuildValueSeries(raw.Obligatory, q.Year, s.opts.MonthOrder)
	return &SMSReportSummary{
		Year:              q.Year,
		From:              q.Range.FromParam(),
		To:                q.Range.ToParam(),
		Years:             q.Range.Years(),
		Voluntary:         voluntary,
		Obligatory:        obligatory,
		TotalAnnual:       domain.TotalAnnual(raw.TotalAnnual, q.Year),
		HighestVoluntary:  domain.HighestValue(voluntary),
		HighestObligatory: domain.HighestValue(obligatory),
	}, nil
}

func (s *serviceImpl) SMSDrilldown(ctx context.Context, q Query, month string) ([]client.SMSReportRecord, error) {
	q, err := q.validate()
	if err != nil {
		return nil, err
	}
	raw, err := s.smsReports(ctx, q)
	if err != nil {
		return nil, err
	}
	return domain.Drilldown(raw.Records, q.Year, month), nil
}

//Personal.AI order the ending
