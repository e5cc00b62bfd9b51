// Package upstream adapts the maintenance backend REST client to the
// application services: it maps DTOs to domain types, translates errors into
// AppErrors and records call metrics.
package upstream

import (
	"context"
	"time"

	"github.com/turtacn/AeroOps/internal/domain/aircraft"
	"github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/internal/domain/sms"
	"github.com/turtacn/AeroOps/internal/domain/statistics"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// Gateway is the single entry point to the backend.
type Gateway struct {
	api     *client.Client
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewGateway wraps api. A nil metrics records nothing.
func NewGateway(api *client.Client, metrics *prometheus.AppMetrics, log logging.Logger) *Gateway {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	return &Gateway{api: api, metrics: metrics, logger: log.Named("upstream")}
}

// observe records the call and converts err. notFound is the code used for 404.
func (g *Gateway) observe(op, tenant string, start time.Time, err error, notFound errors.ErrorCode) error {
	prometheus.RecordUpstreamCall(g.metrics, op, time.Since(start), err)
	if err == nil {
		return nil
	}
	appErr := client.ToAppError(err, notFound, op)
	g.logger.Warn("upstream call failed",
		logging.String("operation", op),
		logging.Tenant(tenant),
		logging.String("code", errors.GetCode(appErr).String()),
		logging.Err(err))
	return appErr
}

// Ping checks that the backend answers.
func (g *Gateway) Ping(ctx context.Context) error {
	start := time.Now()
	return g.observe("ping", "", start, g.api.Ping(ctx), errors.ErrCodeUpstreamUnavailable)
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// ListQuarantined returns the tenant's articles in quarantine status.
func (g *Gateway) ListQuarantined(ctx context.Context, tenant string) ([]quarantine.Article, error) {
	start := time.Now()
	items, err := g.api.Articles(tenant).ListQuarantined(ctx)
	if err := g.observe("articles.list_quarantined", tenant, start, err, errors.ErrCodeNotFound); err != nil {
		return nil, err
	}
	return toArticles(items), nil
}

// CreateArticle registers a new article.
func (g *Gateway) CreateArticle(ctx context.Context, tenant string, req client.CreateArticleRequest) (*client.Article, error) {
	start := time.Now()
	a, err := g.api.Articles(tenant).Create(ctx, req)
	if err := g.observe("articles.create", tenant, start, err, errors.ErrCodeNotFound); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteArticle removes an article.
func (g *Gateway) DeleteArticle(ctx context.Context, tenant string, id int64) error {
	start := time.Now()
	err := g.api.Articles(tenant).Delete(ctx, id)
	return g.observe("articles.delete", tenant, start, err, errors.ErrCodeArticleNotFound)
}

func toArticles(items []client.Article) []quarantine.Article {
	out := make([]quarantine.Article, 0, len(items))
	for _, it := range items {
		a := quarantine.Article{
			ID:          it.ID,
			PartNumber:  it.PartNumber,
			Serial:      it.Serial,
			Description: it.Description,
		}
		if it.Batch != nil {
			a.Batch = &quarantine.BatchRef{ID: it.Batch.ID, Name: it.Batch.Name, Category: it.Batch.Category}
		}
		for _, r := range it.Quarantine {
			a.Quarantine = append(a.Quarantine, quarantine.Record{
				Reason:    r.Reason,
				Inspector: r.Inspector,
				EntryDate: r.EntryDate,
				ExitDate:  r.ExitDate,
			})
		}
		out = append(out, a)
	}
	return out
}

// ---------------------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------------------

func clientRange(r statistics.DateRange) client.DateRange {
	return client.DateRange{From: r.From, To: r.To}
}

// PurchaseOrders fetches the purchase-order statistics for r.
func (g *Gateway) PurchaseOrders(ctx context.Context, tenant string, r statistics.DateRange) (*client.PurchaseOrderStatistics, error) {
	start := time.Now()
	out, err := g.api.Statistics(tenant).PurchaseOrders(ctx, clientRange(r))
	if err := g.observe("statistics.purchase_orders", tenant, start, err, errors.ErrCodeNotFound); err != nil {
		return nil, err
	}
	return out, nil
}

// SMSReports fetches the safety report statistics for r.
func (g *Gateway) SMSReports(ctx context.Context, tenant string, r statistics.DateRange) (*client.SMSReportStatistics, error) {
	start := time.Now()
	out, err := g.api.Statistics(tenant).SMSReports(ctx, clientRange(r))
	if err := g.observe("statistics.sms_reports", tenant, start, err, errors.ErrCodeNotFound); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Safety management
// ---------------------------------------------------------------------------

// GetReport fetches one safety report.
func (g *Gateway) GetReport(ctx context.Context, tenant string, id int64) (sms.Report, error) {
	start := time.Now()
	r, err := g.api.SMS(tenant).GetReport(ctx, id)
	if err := g.observe("sms.get_report", tenant, start, err, errors.ErrCodeReportNotFound); err != nil {
		return sms.Report{}, err
	}
	return toReport(*r)
}

// GetIncidents fetches the raw incident list of a report.
func (g *Gateway) GetIncidents(ctx context.Context, tenant string, id int64) (string, error) {
	start := time.Now()
	raw, err := g.api.SMS(tenant).GetIncidents(ctx, id)
	if err := g.observe("sms.get_incidents", tenant, start, err, errors.ErrCodeReportNotFound); err != nil {
		return "", err
	}
	return raw, nil
}

// CreatePlan opens the mitigation plan of a report.
func (g *Gateway) CreatePlan(ctx context.Context, tenant string, reportID int64, req client.CreatePlanRequest) (*sms.MitigationPlan, error) {
	start := time.Now()
	p, err := g.api.SMS(tenant).CreatePlan(ctx, reportID, req)
	if err := g.observe("sms.create_plan", tenant, start, err, errors.ErrCodeReportNotFound); err != nil {
		return nil, err
	}
	plan := toPlan(*p)
	return &plan, nil
}

// CreateMeasure adds a measure to a plan.
func (g *Gateway) CreateMeasure(ctx context.Context, tenant string, planID int64, req client.CreateMeasureRequest) (*sms.Measure, error) {
	start := time.Now()
	m, err := g.api.SMS(tenant).CreateMeasure(ctx, planID, req)
	if err := g.observe("sms.create_measure", tenant, start, err, errors.ErrCodeNotFound); err != nil {
		return nil, err
	}
	measure := sms.Measure(*m)
	return &measure, nil
}

// SubmitAnalysis attaches a risk analysis to a report.
func (g *Gateway) SubmitAnalysis(ctx context.Context, tenant string, reportID int64, res sms.AnalysisResult) (*sms.Analysis, error) {
	start := time.Now()
	a, err := g.api.SMS(tenant).SubmitAnalysis(ctx, reportID, analysisRequest(res))
	if err := g.observe("sms.submit_analysis", tenant, start, err, errors.ErrCodeReportNotFound); err != nil {
		return nil, err
	}
	return toAnalysis(*a)
}

// UpdateAnalysis replaces an existing analysis.
func (g *Gateway) UpdateAnalysis(ctx context.Context, tenant string, analysisID int64, res sms.AnalysisResult) (*sms.Analysis, error) {
	start := time.Now()
	a, err := g.api.SMS(tenant).UpdateAnalysis(ctx, analysisID, analysisRequest(res))
	if err := g.observe("sms.update_analysis", tenant, start, err, errors.ErrCodeNotFound); err != nil {
		return nil, err
	}
	return toAnalysis(*a)
}

// CloseReport closes a report upstream.
func (g *Gateway) CloseReport(ctx context.Context, tenant string, reportID int64) (sms.Report, error) {
	start := time.Now()
	r, err := g.api.SMS(tenant).CloseReport(ctx, reportID)
	if err := g.observe("sms.close_report", tenant, start, err, errors.ErrCodeReportNotFound); err != nil {
		return sms.Report{}, err
	}
	return toReport(*r)
}

// ReopenReport reopens a closed report upstream.
func (g *Gateway) ReopenReport(ctx context.Context, tenant string, reportID int64) (sms.Report, error) {
	start := time.Now()
	r, err := g.api.SMS(tenant).ReopenReport(ctx, reportID)
	if err := g.observe("sms.reopen_report", tenant, start, err, errors.ErrCodeReportNotFound); err != nil {
		return sms.Report{}, err
	}
	return toReport(*r)
}

func analysisRequest(res sms.AnalysisResult) client.AnalysisRequest {
	return client.AnalysisRequest{Probability: res.Probability, Severity: res.Severity, Result: res.Result}
}

func toPlan(p client.MitigationPlan) sms.MitigationPlan {
	out := sms.MitigationPlan{ID: p.ID, Description: p.Description, Area: p.Area, Measures: make([]sms.Measure, 0, len(p.Measures))}
	for _, m := range p.Measures {
		out.Measures = append(out.Measures, sms.Measure(m))
	}
	return out
}

func toAnalysis(a client.Analysis) (*sms.Analysis, error) {
	p, err := sms.ParseProbability(a.Probability)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamBadPayload, "analysis probability")
	}
	s, err := sms.ParseSeverity(a.Severity)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamBadPayload, "analysis severity")
	}
	return &sms.Analysis{ID: a.ID, Probability: p, Severity: s, Result: a.Result}, nil
}

func toReport(r client.Report) (sms.Report, error) {
	out := sms.Report{
		ID:        r.ID,
		Kind:      r.Kind,
		Number:    r.Number,
		Status:    sms.ReportStatus(r.Status),
		Incidents: r.Incidents,
	}
	if r.Plan != nil {
		p := toPlan(*r.Plan)
		out.Plan = &p
	}
	if r.Analysis != nil {
		a, err := toAnalysis(*r.Analysis)
		if err != nil {
			return sms.Report{}, err
		}
		out.Analysis = a
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Aircraft and work orders
// ---------------------------------------------------------------------------

// SubmitParts posts the whole part tree of an aircraft.
func (g *Gateway) SubmitParts(ctx context.Context, tenant string, aircraftID int64, parts []aircraft.APIPart) (int, error) {
	start := time.Now()
	resp, err := g.api.Aircraft(tenant).SubmitParts(ctx, aircraftID, toClientParts(parts))
	if err := g.observe("aircraft.submit_parts", tenant, start, err, errors.ErrCodeNotFound); err != nil {
		return 0, err
	}
	return resp.Created, nil
}

func toClientParts(parts []aircraft.APIPart) []client.AircraftPart {
	if len(parts) == 0 {
		return nil
	}
	out := make([]client.AircraftPart, 0, len(parts))
	for _, p := range parts {
		out = append(out, client.AircraftPart{
			PartName:            p.PartName,
			PartNumber:          p.PartNumber,
			ConditionType:       p.ConditionType,
			IsFather:            p.IsFather,
			TimeSinceNew:        p.TimeSinceNew,
			TimeSinceOverhaul:   p.TimeSinceOverhaul,
			CyclesSinceNew:      p.CyclesSinceNew,
			CyclesSinceOverhaul: p.CyclesSinceOverhaul,
			SubParts:            toClientParts(p.SubParts),
		})
	}
	return out
}

// PrelimInspectionPDF downloads the preliminary inspection PDF of a work order.
func (g *Gateway) PrelimInspectionPDF(ctx context.Context, tenant, order string, mode client.HoursMode, hours float64) ([]byte, error) {
	start := time.Now()
	pdf, err := g.api.WorkOrders(tenant).PrelimInspectionPDF(ctx, order, mode, hours)
	if err := g.observe("work_orders.prelim_inspection", tenant, start, err, errors.ErrCodeWorkOrderNotFound); err != nil {
		return nil, err
	}
	return pdf, nil
}

//Personal.AI order the ending
