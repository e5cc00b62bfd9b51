package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AeroOps/internal/application/quarantine"
	domain "github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/pkg/errors"
)

type MockQuarantineService struct {
	mock.Mock
}

func (m *MockQuarantineService) List(ctx context.Context, tenant string) (*quarantine.ListResult, error) {
	args := m.Called(ctx, tenant)
	res, _ := args.Get(0).(*quarantine.ListResult)
	return res, args.Error(1)
}

func (m *MockQuarantineService) Classify(entryDate string) domain.Aging {
	return m.Called(entryDate).Get(0).(domain.Aging)
}

func (m *MockQuarantineService) Sweep(ctx context.Context, tenants []string) (*quarantine.SweepReport, error) {
	args := m.Called(ctx, tenants)
	res, _ := args.Get(0).(*quarantine.SweepReport)
	return res, args.Error(1)
}

func (m *MockQuarantineService) RecentAlerts(ctx context.Context, tenant string, limit int) ([]domain.Alert, error) {
	args := m.Called(ctx, tenant, limit)
	res, _ := args.Get(0).([]domain.Alert)
	return res, args.Error(1)
}

func TestQuarantineHandler_List(t *testing.T) {
	svc := new(MockQuarantineService)
	svc.On("List", mock.Anything, testTenant).Return(&quarantine.ListResult{
		Tenant:  testTenant,
		Summary: domain.Summary{Total: 3, OK: 1, Warning: 1, Expired: 1},
	}, nil)
	h := NewQuarantineHandler(svc)

	w := serve(t, http.MethodGet, "/quarantine", "/quarantine", nil, h.List)

	require.Equal(t, http.StatusOK, w.Code)
	var res quarantine.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Summary.Total)
}

func TestQuarantineHandler_ListUpstreamDown(t *testing.T) {
	svc := new(MockQuarantineService)
	svc.On("List", mock.Anything, testTenant).Return(nil, errors.New(errors.ErrCodeUpstreamUnavailable, "backend unavailable"))
	h := NewQuarantineHandler(svc)

	w := serve(t, http.MethodGet, "/quarantine", "/quarantine", nil, h.List)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestQuarantineHandler_Classify(t *testing.T) {
	days, remaining := 100, 80
	svc := new(MockQuarantineService)
	svc.On("Classify", "2026-01-01").Return(domain.Aging{Days: &days, Remaining: &remaining, State: domain.BandOK})
	h := NewQuarantineHandler(svc)

	w := serve(t, http.MethodGet, "/quarantine/classify", "/quarantine/classify?entry_date=2026-01-01", nil, h.Classify)
	require.Equal(t, http.StatusOK, w.Code)
	var aging domain.Aging
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aging))
	assert.Equal(t, domain.BandOK, aging.State)
	assert.Equal(t, 80, *aging.Remaining)

	w = serve(t, http.MethodGet, "/quarantine/classify", "/quarantine/classify", nil, h.Classify)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(errors.ErrCodeEntryDateInvalid), decodeError(t, w).Code)
}

func TestQuarantineHandler_ClassifyRejectsMalformedDate(t *testing.T) {
	for _, q := range []string{"garbage", "2026-13-01", "2026-02-30", "26-01-01"} {
		t.Run(q, func(t *testing.T) {
			svc := new(MockQuarantineService)
			h := NewQuarantineHandler(svc)

			w := serve(t, http.MethodGet, "/quarantine/classify", "/quarantine/classify?entry_date="+q, nil, h.Classify)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, string(errors.ErrCodeEntryDateInvalid), decodeError(t, w).Code)
			svc.AssertNotCalled(t, "Classify", mock.Anything)
		})
	}
}

func TestQuarantineHandler_AlertsLimit(t *testing.T) {
	tests := []struct {
		query  string
		limit  int
		status int
	}{
		{"", 50, http.StatusOK},
		{"?limit=10", 10, http.StatusOK},
		{"?limit=0", 0, http.StatusBadRequest},
		{"?limit=501", 0, http.StatusBadRequest},
		{"?limit=ten", 0, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := new(MockQuarantineService)
			svc.On("RecentAlerts", mock.Anything, testTenant, tt.limit).Return([]domain.Alert{{ArticleID: 1, State: domain.BandExpired}}, nil).Maybe()
			h := NewQuarantineHandler(svc)

			w := serve(t, http.MethodGet, "/quarantine/alerts", "/quarantine/alerts"+tt.query, nil, h.Alerts)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"items"`)
			}
		})
	}
}

//Personal.AI order the ending
