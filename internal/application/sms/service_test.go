package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	domain "github.com/turtacn/AeroOps/internal/domain/sms"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

type MockBackend struct{ mock.Mock }

func (m *MockBackend) GetReport(ctx context.Context, tenant string, id int64) (domain.Report, error) {
	args := m.Called(ctx, tenant, id)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *MockBackend) GetIncidents(ctx context.Context, tenant string, id int64) (string, error) {
	args := m.Called(ctx, tenant, id)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) CreatePlan(ctx context.Context, tenant string, reportID int64, req client.CreatePlanRequest) (*domain.MitigationPlan, error) {
	args := m.Called(ctx, tenant, reportID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MitigationPlan), args.Error(1)
}

func (m *MockBackend) CreateMeasure(ctx context.Context, tenant string, planID int64, req client.CreateMeasureRequest) (*domain.Measure, error) {
	args := m.Called(ctx, tenant, planID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Measure), args.Error(1)
}

func (m *MockBackend) SubmitAnalysis(ctx context.Context, tenant string, reportID int64, res domain.AnalysisResult) (*domain.Analysis, error) {
	args := m.Called(ctx, tenant, reportID, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockBackend) UpdateAnalysis(ctx context.Context, tenant string, analysisID int64, res domain.AnalysisResult) (*domain.Analysis, error) {
	args := m.Called(ctx, tenant, analysisID, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockBackend) CloseReport(ctx context.Context, tenant string, reportID int64) (domain.Report, error) {
	args := m.Called(ctx, tenant, reportID)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *MockBackend) ReopenReport(ctx context.Context, tenant string, reportID int64) (domain.Report, error) {
	args := m.Called(ctx, tenant, reportID)
	return args.Get(0).(domain.Report), args.Error(1)
}

func openReport() domain.Report {
	return domain.Report{ID: 7, Status: domain.StatusOpen}
}

func closableReport() domain.Report {
	r := openReport()
	r.Plan = &domain.MitigationPlan{ID: 2, Measures: []domain.Measure{{ID: 5}}}
	r.Analysis = &domain.Analysis{ID: 3, Probability: 4, Severity: "B", Result: "4B"}
	return r
}

type ServiceTestSuite struct {
	suite.Suite
	backend *MockBackend
	svc     Service
	ctx     context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.backend = &MockBackend{}
	s.svc = NewService(s.backend, nil, 0, logging.NewNopLogger())
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.backend.AssertExpectations(s.T())
}

func (s *ServiceTestSuite) TestGetReport_ViewWithActionsAndRisk() {
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(closableReport(), nil)
	s.backend.On("GetIncidents", mock.Anything, "acme", int64(7)).Return(`["bird strike","hard landing"]`, nil)

	v, err := s.svc.GetReport(s.ctx, "acme", 7)
	s.Require().NoError(err)
	s.Equal([]string{"bird strike", "hard landing"}, v.Incidents)
	s.True(v.IncidentsValid)
	s.True(v.Actions[domain.ActionClose])
	s.False(v.Actions[domain.ActionCreatePlan])
	s.Require().NotNil(v.Risk)
	s.Equal("4B", v.Risk.Code)
	s.Equal(domain.BandHigh, v.Risk.Band)
}

func (s *ServiceTestSuite) TestGetReport_MalformedIncidentsFallBack() {
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(openReport(), nil)
	s.backend.On("GetIncidents", mock.Anything, "acme", int64(7)).Return(`not json`, nil)

	v, err := s.svc.GetReport(s.ctx, "acme", 7)
	s.Require().NoError(err)
	s.False(v.IncidentsValid)
	s.Equal([]string{domain.IncidentsFallback}, v.Incidents)
	s.Nil(v.Risk)
}

func (s *ServiceTestSuite) TestGetReport_MissingIncidentsUseEmbeddedField() {
	r := openReport()
	r.Incidents = `["embedded"]`
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(r, nil)
	s.backend.On("GetIncidents", mock.Anything, "acme", int64(7)).Return("", errors.New(errors.ErrCodeReportNotFound, "none"))

	v, err := s.svc.GetReport(s.ctx, "acme", 7)
	s.Require().NoError(err)
	s.Equal([]string{"embedded"}, v.Incidents)
}

func (s *ServiceTestSuite) TestGetReport_NotFound() {
	s.backend.On("GetReport", mock.Anything, "acme", int64(9)).Return(domain.Report{}, errors.New(errors.ErrCodeReportNotFound, "gone"))
	s.backend.On("GetIncidents", mock.Anything, "acme", int64(9)).Return("", nil).Maybe()

	_, err := s.svc.GetReport(s.ctx, "acme", 9)
	s.True(errors.IsCode(err, errors.ErrCodeReportNotFound))
}

func (s *ServiceTestSuite) TestCreatePlan_GatedLocally() {
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(closableReport(), nil)

	_, err := s.svc.CreatePlan(s.ctx, "acme", 7, client.CreatePlanRequest{Description: "p"})
	s.True(errors.IsCode(err, errors.ErrCodeActionNotAllowed))
	s.backend.AssertNotCalled(s.T(), "CreatePlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceTestSuite) TestCreatePlan() {
	req := client.CreatePlanRequest{Description: "ground handling review"}
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(openReport(), nil)
	s.backend.On("CreatePlan", mock.Anything, "acme", int64(7), req).Return(&domain.MitigationPlan{ID: 2}, nil)

	p, err := s.svc.CreatePlan(s.ctx, "acme", 7, req)
	s.Require().NoError(err)
	s.Equal(int64(2), p.ID)
}

func (s *ServiceTestSuite) TestCreateMeasure_UsesPlanID() {
	r := openReport()
	r.Plan = &domain.MitigationPlan{ID: 22}
	req := client.CreateMeasureRequest{Description: "retrain crew"}
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(r, nil)
	s.backend.On("CreateMeasure", mock.Anything, "acme", int64(22), req).Return(&domain.Measure{ID: 1}, nil)

	_, err := s.svc.CreateMeasure(s.ctx, "acme", 7, req)
	s.NoError(err)
}

func (s *ServiceTestSuite) TestCreateMeasure_NeedsPlan() {
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(openReport(), nil)
	_, err := s.svc.CreateMeasure(s.ctx, "acme", 7, client.CreateMeasureRequest{Description: "x"})
	s.True(errors.IsCode(err, errors.ErrCodeActionNotAllowed))
}

func (s *ServiceTestSuite) TestSubmitAnalysis_ComputesResult() {
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(openReport(), nil)
	want := domain.AnalysisResult{Probability: "3", Severity: "C", Result: "3C"}
	s.backend.On("SubmitAnalysis", mock.Anything, "acme", int64(7), want).Return(&domain.Analysis{ID: 3, Result: "3C"}, nil)

	a, err := s.svc.SubmitAnalysis(s.ctx, "acme", 7, AnalysisInput{Probability: "3", Severity: "c"})
	s.Require().NoError(err)
	s.Equal("3C", a.Result)
}

func (s *ServiceTestSuite) TestSubmitAnalysis_IncompleteSelection() {
	_, err := s.svc.SubmitAnalysis(s.ctx, "acme", 7, AnalysisInput{Probability: "3"})
	s.True(errors.IsCode(err, errors.ErrCodeSelectionIncomplete))

	_, err = s.svc.SubmitAnalysis(s.ctx, "acme", 7, AnalysisInput{Probability: "9", Severity: "A"})
	s.True(errors.IsCode(err, errors.ErrCodeProbabilityInvalid))
}

func (s *ServiceTestSuite) TestUpdateAnalysis_KeepsUntouchedAxis() {
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(closableReport(), nil)
	want := domain.AnalysisResult{Probability: "4", Severity: "E", Result: "4E"}
	s.backend.On("UpdateAnalysis", mock.Anything, "acme", int64(3), want).Return(&domain.Analysis{ID: 3, Result: "4E"}, nil)

	a, err := s.svc.UpdateAnalysis(s.ctx, "acme", 7, AnalysisInput{Severity: "E"})
	s.Require().NoError(err)
	s.Equal("4E", a.Result)
}

func (s *ServiceTestSuite) TestClose() {
	closed := closableReport()
	closed.Status = domain.StatusClosed
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(closableReport(), nil)
	s.backend.On("CloseReport", mock.Anything, "acme", int64(7)).Return(closed, nil)

	v, err := s.svc.Close(s.ctx, "acme", 7)
	s.Require().NoError(err)
	s.True(v.Report.IsClosed())
	s.True(v.Actions[domain.ActionReopen])
}

func (s *ServiceTestSuite) TestClose_RefusedWithoutMeasures() {
	r := closableReport()
	r.Plan.Measures = nil
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(r, nil)

	_, err := s.svc.Close(s.ctx, "acme", 7)
	s.True(errors.IsCode(err, errors.ErrCodeActionNotAllowed))
}

func (s *ServiceTestSuite) TestReopen() {
	closed := closableReport()
	closed.Status = domain.StatusClosed
	s.backend.On("GetReport", mock.Anything, "acme", int64(7)).Return(closed, nil)
	s.backend.On("ReopenReport", mock.Anything, "acme", int64(7)).Return(closableReport(), nil)

	v, err := s.svc.Reopen(s.ctx, "acme", 7)
	s.Require().NoError(err)
	s.True(v.Report.IsOpen())
}

func (s *ServiceTestSuite) TestTenantRequired() {
	_, err := s.svc.GetReport(s.ctx, "", 7)
	s.True(errors.IsCode(err, errors.ErrCodeTenantRequired))
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestRiskMatrix(t *testing.T) {
	grid := NewService(&MockBackend{}, nil, 0, logging.NewNopLogger()).RiskMatrix()
	require.Len(t, grid, 5)
	assert.Equal(t, "5A", grid[0][0].Code)
	assert.Equal(t, domain.BandHigh, grid[0][0].Band)
	assert.Equal(t, "1E", grid[4][4].Code)
}

//Personal.AI order the ending
