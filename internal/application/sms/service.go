// Package sms is the application service of the safety management workflow:
// report views with their action gating, mitigation plans, risk analyses and
// the close/reopen transitions.
package sms

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/turtacn/AeroOps/internal/domain/sms"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/redis"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// Backend is the upstream side of the workflow.
type Backend interface {
	GetReport(ctx context.Context, tenant string, id int64) (domain.Report, error)
	GetIncidents(ctx context.Context, tenant string, id int64) (string, error)
	CreatePlan(ctx context.Context, tenant string, reportID int64, req client.CreatePlanRequest) (*domain.MitigationPlan, error)
	CreateMeasure(ctx context.Context, tenant string, planID int64, req client.CreateMeasureRequest) (*domain.Measure, error)
	SubmitAnalysis(ctx context.Context, tenant string, reportID int64, res domain.AnalysisResult) (*domain.Analysis, error)
	UpdateAnalysis(ctx context.Context, tenant string, analysisID int64, res domain.AnalysisResult) (*domain.Analysis, error)
	CloseReport(ctx context.Context, tenant string, reportID int64) (domain.Report, error)
	ReopenReport(ctx context.Context, tenant string, reportID int64) (domain.Report, error)
}

// Service defines the SMS use cases.
type Service interface {
	GetReport(ctx context.Context, tenant string, id int64) (*ReportView, error)
	CreatePlan(ctx context.Context, tenant string, reportID int64, req client.CreatePlanRequest) (*domain.MitigationPlan, error)
	CreateMeasure(ctx context.Context, tenant string, reportID int64, req client.CreateMeasureRequest) (*domain.Measure, error)
	SubmitAnalysis(ctx context.Context, tenant string, reportID int64, in AnalysisInput) (*domain.Analysis, error)
	UpdateAnalysis(ctx context.Context, tenant string, reportID int64, in AnalysisInput) (*domain.Analysis, error)
	Close(ctx context.Context, tenant string, reportID int64) (*ReportView, error)
	Reopen(ctx context.Context, tenant string, reportID int64) (*ReportView, error)
	RiskMatrix() [][]domain.Cell
}

// AnalysisInput carries the form fields. Empty fields keep the existing
// analysis value on update.
type AnalysisInput struct {
	Probability string `json:"probability"`
	Severity    string `json:"severity"`
}

// ReportView is a report with everything the UI needs to render it.
type ReportView struct {
	Report         domain.Report          `json:"report"`
	Incidents      []string               `json:"incidents"`
	IncidentsValid bool                   `json:"incidents_valid"`
	Actions        map[domain.Action]bool `json:"actions"`
	Risk           *domain.Cell           `json:"risk,omitempty"`
}

type serviceImpl struct {
	backend  Backend
	cache    redis.Cache
	cacheTTL time.Duration
	logger   logging.Logger
}

// NewService creates the SMS service. cache may be nil.
func NewService(backend Backend, cache redis.Cache, cacheTTL time.Duration, log logging.Logger) Service {
	if cache == nil {
		cache = redis.NewNopCache()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &serviceImpl{backend: backend, cache: cache, cacheTTL: cacheTTL, logger: log.Named("sms")}
}

func requireTenant(tenant string) error {
	if tenant == "" {
		return errors.New(errors.ErrCodeTenantRequired, "tenant is required")
	}
	return nil
}

func newView(r domain.Report, rawIncidents string) *ReportView {
	incidents, ok := domain.ParseIncidents(rawIncidents)
	v := &ReportView{Report: r, Incidents: incidents, IncidentsValid: ok, Actions: domain.Actions(r)}
	if r.Analysis != nil {
		sel := domain.NewSelection(r.Analysis)
		if cell, ok := sel.Highlighted(); ok {
			v.Risk = &cell
		}
	}
	return v
}

// GetReport loads the report and its incidents concurrently.
func (s *serviceImpl) GetReport(ctx context.Context, tenant string, id int64) (*ReportView, error) {
	if err := requireTenant(tenant); err != nil {
		return nil, err
	}
	var view ReportView
	err := s.cache.GetOrSet(ctx, redis.ReportKey(tenant, id), &view, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.load(ctx, tenant, id)
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *serviceImpl) load(ctx context.Context, tenant string, id int64) (*ReportView, error) {
	var (
		report domain.Report
		raw    string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report, err = s.backend.GetReport(gctx, tenant, id)
		return err
	})
	g.Go(func() error {
		var err error
		raw, err = s.backend.GetIncidents(gctx, tenant, id)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}
		if err != nil {
			s.logger.Debug("report has no incidents", logging.Tenant(tenant), logging.Int64("report_id", id))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if raw == "" {
		raw = report.Incidents
	}
	return newView(report, raw), nil
}

// current fetches the report uncached so gating never sees stale state.
func (s *serviceImpl) current(ctx context.Context, tenant string, id int64, action domain.Action) (domain.Report, error) {
	if err := requireTenant(tenant); err != nil {
		return domain.Report{}, err
	}
	r, err := s.backend.GetReport(ctx, tenant, id)
	if err != nil {
		return domain.Report{}, err
	}
	if err := domain.Require(r, action); err != nil {
		return domain.Report{}, err
	}
	return r, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, tenant string, id int64) {
	if err := s.cache.Delete(ctx, redis.ReportKey(tenant, id)); err != nil {
		s.logger.Warn("failed to invalidate report cache", logging.Tenant(tenant), logging.Int64("report_id", id), logging.Err(err))
	}
}

func (s *serviceImpl) CreatePlan(ctx context.Context, tenant string, reportID int64, req client.CreatePlanRequest) (*domain.MitigationPlan, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, errors.Validation("plan description is required")
	}
	if _, err := s.current(ctx, tenant, reportID, domain.ActionCreatePlan); err != nil {
		return nil, err
	}
	plan, err := s.backend.CreatePlan(ctx, tenant, reportID, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenant, reportID)
	return plan, nil
}

func (s *serviceImpl) CreateMeasure(ctx context.Context, tenant string, reportID int64, req client.CreateMeasureRequest) (*domain.Measure, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, errors.Validation("measure description is required")
	}
	r, err := s.current(ctx, tenant, reportID, domain.ActionCreateMeasure)
	if err != nil {
		return nil, err
	}
	m, err := s.backend.CreateMeasure(ctx, tenant, r.Plan.ID, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenant, reportID)
	return m, nil
}

// apply feeds the form fields into sel the way the form does: each field
// moves one axis of the highlighted cell.
func (in AnalysisInput) apply(sel *domain.Selection) error {
	if in.Probability != "" {
		p, err := domain.ParseProbability(in.Probability)
		if err != nil {
			return err
		}
		if err := sel.SetProbability(p); err != nil {
			return err
		}
	}
	if in.Severity != "" {
		sv, err := domain.ParseSeverity(in.Severity)
		if err != nil {
			return err
		}
		if err := sel.SetSeverity(sv); err != nil {
			return err
		}
	}
	return nil
}

func (s *serviceImpl) SubmitAnalysis(ctx context.Context, tenant string, reportID int64, in AnalysisInput) (*domain.Analysis, error) {
	sel := domain.NewSelection(nil)
	if err := in.apply(&sel); err != nil {
		return nil, err
	}
	res, err := sel.Submit()
	if err != nil {
		return nil, err
	}
	if _, err := s.current(ctx, tenant, reportID, domain.ActionCreateAnalysis); err != nil {
		return nil, err
	}
	a, err := s.backend.SubmitAnalysis(ctx, tenant, reportID, res)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenant, reportID)
	return a, nil
}

func (s *serviceImpl) UpdateAnalysis(ctx context.Context, tenant string, reportID int64, in AnalysisInput) (*domain.Analysis, error) {
	r, err := s.current(ctx, tenant, reportID, domain.ActionEditAnalysis)
	if err != nil {
		return nil, err
	}
	sel := domain.NewSelection(r.Analysis)
	if err := in.apply(&sel); err != nil {
		return nil, err
	}
	res, err := sel.Submit()
	if err != nil {
		return nil, err
	}
	a, err := s.backend.UpdateAnalysis(ctx, tenant, r.Analysis.ID, res)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenant, reportID)
	return a, nil
}

func (s *serviceImpl) Close(ctx context.Context, tenant string, reportID int64) (*ReportView, error) {
	r, err := s.current(ctx, tenant, reportID, domain.ActionClose)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Close(r); err != nil {
		return nil, err
	}
	updated, err := s.backend.CloseReport(ctx, tenant, reportID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenant, reportID)
	s.logger.Info("report closed", logging.Tenant(tenant), logging.Int64("report_id", reportID))
	return newView(updated, updated.Incidents), nil
}

func (s *serviceImpl) Reopen(ctx context.Context, tenant string, reportID int64) (*ReportView, error) {
	r, err := s.current(ctx, tenant, reportID, domain.ActionReopen)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Reopen(r); err != nil {
		return nil, err
	}
	updated, err := s.backend.ReopenReport(ctx, tenant, reportID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenant, reportID)
	s.logger.Info("report reopened", logging.Tenant(tenant), logging.Int64("report_id", reportID))
	return newView(updated, updated.Incidents), nil
}

func (s *serviceImpl) RiskMatrix() [][]domain.Cell {
	return domain.Matrix()
}

//Personal.AI order the ending
