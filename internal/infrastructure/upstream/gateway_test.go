package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AeroOps/internal/domain/aircraft"
	"github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/internal/domain/sms"
	"github.com/turtacn/AeroOps/internal/domain/statistics"
	"github.com/turtacn/AeroOps/internal/testutil"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*Gateway, *testutil.MockLogger) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api, err := client.NewClient(srv.URL, "", client.WithRetryMax(0))
	require.NoError(t, err)
	log := testutil.NewMockLogger()
	return NewGateway(api, nil, log), log
}

func TestGateway_ListQuarantinedMapsToDomain(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/articles/quarantine", r.URL.Path)
		w.Write([]byte(`[{"id": 1, "part_number": "PN-1", "serial": "S1", "batch": {"id": 3, "name": "Rotables"},
		  "quarantine": [{"reason": "damaged", "inspector": "ana", "quarantine_entry_date": "2026-01-05"}]},
		  {"id": 2, "part_number": "PN-2", "batch": null, "quarantine": []}]`))
	})

	items, err := g.ListQuarantined(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Rotables", items[0].BatchName())
	rec, ok := items[0].Current()
	require.True(t, ok)
	assert.Equal(t, "2026-01-05", rec.EntryDate)
	assert.Equal(t, quarantine.Placeholder, items[1].BatchName())
}

func TestGateway_ErrorsAreTranslatedAndLogged(t *testing.T) {
	g, log := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code": "not_found", "message": "no such article"}`))
	})

	err := g.DeleteArticle(context.Background(), "acme", 9)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeArticleNotFound))
	assert.True(t, log.HasMessage("warn", "upstream call failed"))
}

func TestGateway_ServerErrorIsUnavailable(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := g.PurchaseOrders(context.Background(), "acme", statistics.YearRange(2026, time.UTC))
	assert.True(t, errors.IsCode(err, errors.ErrCodeUpstreamUnavailable))
}

func TestGateway_GetReportParsesAnalysis(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/sms/reports/7", r.URL.Path)
		w.Write([]byte(`{"id": 7, "status": "ABIERTO",
		  "mitigation_plan": {"id": 2, "description": "p", "measures": [{"id": 5, "description": "m"}]},
		  "analysis": {"id": 3, "probability": "4", "severity": "B", "result": "4B"}}`))
	})

	r, err := g.GetReport(context.Background(), "acme", 7)
	require.NoError(t, err)
	assert.True(t, r.IsOpen())
	require.NotNil(t, r.Analysis)
	assert.Equal(t, sms.Probability(4), r.Analysis.Probability)
	assert.Equal(t, sms.Severity("B"), r.Analysis.Severity)
	require.NotNil(t, r.Plan)
	assert.Len(t, r.Plan.Measures, 1)
}

func TestGateway_SubmitAnalysisSendsResult(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/acme/sms/reports/7/analysis", r.URL.Path)
		w.Write([]byte(`{"id": 3, "probability": "5", "severity": "A", "result": "5A"}`))
	})

	a, err := g.SubmitAnalysis(context.Background(), "acme", 7, sms.AnalysisResult{Probability: "5", Severity: "A", Result: "5A"})
	require.NoError(t, err)
	assert.Equal(t, "5A", a.Result)
}

func TestToClientParts(t *testing.T) {
	parts := []aircraft.APIPart{{
		PartName: "Engine", PartNumber: "E-1", ConditionType: "NEW", IsFather: true, TimeSinceNew: 12,
		SubParts: []aircraft.APIPart{{PartName: "Fan", PartNumber: "F-1", ConditionType: "NEW"}},
	}}

	out := toClientParts(parts)
	require.Len(t, out, 1)
	assert.Equal(t, 12.0, out[0].TimeSinceNew)
	require.Len(t, out[0].SubParts, 1)
	assert.Equal(t, "Fan", out[0].SubParts[0].PartName)
	assert.Nil(t, out[0].SubParts[0].SubParts)
}

func TestGateway_PrelimInspectionPDF(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/work-order-prelim-inspection/WO-9", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	})

	pdf, err := g.PrelimInspectionPDF(context.Background(), "acme", "WO-9", client.HoursAuto, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
}

//Personal.AI order the ending
