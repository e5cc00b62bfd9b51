package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric AeroOps exports.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Upstream backend
	UpstreamRequestsTotal   CounterVec
	UpstreamRequestDuration HistogramVec

	// Cache
	CacheHitsTotal          CounterVec
	CacheMissesTotal        CounterVec
	CacheInvalidationsTotal CounterVec

	// Quarantine
	QuarantineArticles      GaugeVec
	QuarantineSweepsTotal   CounterVec
	QuarantineSweepDuration HistogramVec
	QuarantineAlertsTotal   CounterVec

	// Messaging
	EventsPublishedTotal CounterVec
	EventsConsumedTotal  CounterVec

	// Storage and drafts
	ObjectsStoredTotal     CounterVec
	DraftOperationsTotal   CounterVec
	StatisticsExportsTotal CounterVec

	// Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultSweepDurationBuckets = []float64{.1, .5, 1, 5, 10, 30, 60, 120}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.UpstreamRequestsTotal = collector.RegisterCounter("upstream_requests_total", "Calls to the backend API", "operation", "outcome")
	m.UpstreamRequestDuration = collector.RegisterHistogram("upstream_request_duration_seconds", "Backend API call duration", DefaultHTTPDurationBuckets, "operation")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.CacheInvalidationsTotal = collector.RegisterCounter("cache_invalidations_total", "Cache scope invalidations", "scope", "origin")

	m.QuarantineArticles = collector.RegisterGauge("quarantine_articles", "Quarantined articles per band at the last sweep", "tenant", "state")
	m.QuarantineSweepsTotal = collector.RegisterCounter("quarantine_sweeps_total", "Quarantine sweeps per tenant", "tenant", "status")
	m.QuarantineSweepDuration = collector.RegisterHistogram("quarantine_sweep_duration_seconds", "Duration of a full sweep", DefaultSweepDurationBuckets)
	m.QuarantineAlertsTotal = collector.RegisterCounter("quarantine_alerts_total", "New quarantine alerts raised", "tenant", "state")

	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Events published", "topic", "status")
	m.EventsConsumedTotal = collector.RegisterCounter("events_consumed_total", "Events consumed", "topic", "status")

	m.ObjectsStoredTotal = collector.RegisterCounter("objects_stored_total", "Objects written to object storage", "kind", "status")
	m.DraftOperationsTotal = collector.RegisterCounter("draft_operations_total", "Aircraft draft operations", "operation", "status")
	m.StatisticsExportsTotal = collector.RegisterCounter("statistics_exports_total", "Statistics workbook exports", "status")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")
	return m
}

// NewNoopAppMetrics returns metrics that record nothing.
func NewNoopAppMetrics() *AppMetrics {
	return NewAppMetrics(NewNoopCollector())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func RecordHTTPRequest(m *AppMetrics, method, route string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordUpstreamCall(m *AppMetrics, operation string, duration time.Duration, err error) {
	m.UpstreamRequestsTotal.WithLabelValues(operation, status(err)).Inc()
	m.UpstreamRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordInvalidation counts a scope drop. origin is "local" or "event".
func RecordInvalidation(m *AppMetrics, scope, origin string) {
	m.CacheInvalidationsTotal.WithLabelValues(scope, origin).Inc()
}

func RecordSweep(m *AppMetrics, tenant string, err error) {
	m.QuarantineSweepsTotal.WithLabelValues(tenant, status(err)).Inc()
}

func RecordEvent(m *AppMetrics, published bool, topic string, err error) {
	if published {
		m.EventsPublishedTotal.WithLabelValues(topic, status(err)).Inc()
		return
	}
	m.EventsConsumedTotal.WithLabelValues(topic, status(err)).Inc()
}

func RecordObjectStored(m *AppMetrics, kind string, err error) {
	m.ObjectsStoredTotal.WithLabelValues(kind, status(err)).Inc()
}

func RecordDraftOperation(m *AppMetrics, operation string, err error) {
	m.DraftOperationsTotal.WithLabelValues(operation, status(err)).Inc()
}

func RecordStatisticsExport(m *AppMetrics, err error) {
	m.StatisticsExportsTotal.WithLabelValues(status(err)).Inc()
}

func RecordError(m *AppMetrics, component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

func SetComponentHealth(m *AppMetrics, component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

//Personal.AI order the ending
