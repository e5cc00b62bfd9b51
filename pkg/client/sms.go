package client

import (
	"context"
	"strconv"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Measure is one mitigation measure.
type Measure struct {
	ID          int64  `json:"id" validate:"gt=0"`
	Description string `json:"description"`
	Responsible string `json:"responsible,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// MitigationPlan is the remediation plan of a report.
type MitigationPlan struct {
	ID          int64     `json:"id" validate:"gt=0"`
	Description string    `json:"description"`
	Area        string    `json:"area,omitempty"`
	Measures    []Measure `json:"measures" validate:"dive"`
}

// Analysis is the risk analysis of a report.  Probability travels as a
// string ("1".."5").
type Analysis struct {
	ID          int64  `json:"id" validate:"gt=0"`
	Probability string `json:"probability" validate:"oneof=1 2 3 4 5"`
	Severity    string `json:"severity" validate:"oneof=A B C D E"`
	Result      string `json:"result"`
}

// Report is a voluntary or obligatory safety report.
type Report struct {
	ID        int64           `json:"id" validate:"gt=0"`
	Kind      string          `json:"kind,omitempty"`
	Number    string          `json:"report_number,omitempty"`
	Status    string          `json:"status" validate:"required"`
	Incidents string          `json:"incidents,omitempty"`
	Plan      *MitigationPlan `json:"mitigation_plan" validate:"omitempty"`
	Analysis  *Analysis       `json:"analysis" validate:"omitempty"`
}

// Incidents carries the JSON-encoded incident list of a report.
type Incidents struct {
	Raw string `json:"incidents"`
}

// CreatePlanRequest opens a mitigation plan.
type CreatePlanRequest struct {
	Description string `json:"description" validate:"required"`
	Area        string `json:"area,omitempty"`
}

// CreateMeasureRequest adds a measure to a plan.
type CreateMeasureRequest struct {
	Description string `json:"description" validate:"required"`
	Responsible string `json:"responsible,omitempty"`
	DueDate     string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AnalysisRequest submits or replaces a risk analysis.
type AnalysisRequest struct {
	Probability string `json:"probability" validate:"oneof=1 2 3 4 5"`
	Severity    string `json:"severity" validate:"oneof=A B C D E"`
	Result      string `json:"result" validate:"required,len=2"`
}

// ---------------------------------------------------------------------------
// SMSClient
// ---------------------------------------------------------------------------

// SMSClient wraps the safety-management endpoints of one company.
type SMSClient struct {
	client  *Client
	company string
}

func (s *SMSClient) reportPath(id int64, rest ...string) string {
	return tenantPath(s.company, append([]string{"sms", "reports", strconv.FormatInt(id, 10)}, rest...)...)
}

func (s *SMSClient) checkRequest(req interface{}) error {
	if err := s.client.validate.Struct(req); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid request")
	}
	return nil
}

// GetReport fetches one report with its plan and analysis.
func (s *SMSClient) GetReport(ctx context.Context, id int64) (*Report, error) {
	var out Report
	if err := s.client.get(ctx, s.reportPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetIncidents fetches the raw incident list of a report.
func (s *SMSClient) GetIncidents(ctx context.Context, id int64) (string, error) {
	var out Incidents
	if err := s.client.get(ctx, s.reportPath(id, "incidents"), nil, &out); err != nil {
		return "", err
	}
	return out.Raw, nil
}

// CreatePlan opens the mitigation plan of a report.
func (s *SMSClient) CreatePlan(ctx context.Context, reportID int64, req CreatePlanRequest) (*MitigationPlan, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	var out MitigationPlan
	if err := s.client.post(ctx, s.reportPath(reportID, "mitigation-plan"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMeasure adds a measure to a plan.
func (s *SMSClient) CreateMeasure(ctx context.Context, planID int64, req CreateMeasureRequest) (*Measure, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	var out Measure
	path := tenantPath(s.company, "sms", "mitigation-plans", strconv.FormatInt(planID, 10), "measures")
	if err := s.client.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAnalysis attaches the first risk analysis to a report.
func (s *SMSClient) SubmitAnalysis(ctx context.Context, reportID int64, req AnalysisRequest) (*Analysis, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	var out Analysis
	if err := s.client.post(ctx, s.reportPath(reportID, "analysis"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAnalysis replaces an existing analysis.
func (s *SMSClient) UpdateAnalysis(ctx context.Context, analysisID int64, req AnalysisRequest) (*Analysis, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	var out Analysis
	path := tenantPath(s.company, "sms", "analysis", strconv.FormatInt(analysisID, 10))
	if err := s.client.put(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CloseReport moves a report to CERRADO.
func (s *SMSClient) CloseReport(ctx context.Context, reportID int64) (*Report, error) {
	var out Report
	if err := s.client.patch(ctx, s.reportPath(reportID, "close"), struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReopenReport moves a report back to ABIERTO.
func (s *SMSClient) ReopenReport(ctx context.Context, reportID int64) (*Report, error) {
	var out Report
	if err := s.client.patch(ctx, s.reportPath(reportID, "reopen"), struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
