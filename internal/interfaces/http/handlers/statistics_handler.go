package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/AeroOps/internal/application/statistics"
	domain "github.com/turtacn/AeroOps/internal/domain/statistics"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// StatisticsHandler serves the purchase-order and SMS report dashboards.
type StatisticsHandler struct {
	svc statistics.Service
	loc *time.Location
}

// NewStatisticsHandler creates the handler. Dates are read in loc.
func NewStatisticsHandler(svc statistics.Service, loc *time.Location) *StatisticsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &StatisticsHandler{svc: svc, loc: loc}
}

func (h *StatisticsHandler) query(r *http.Request) (statistics.Query, error) {
	q := r.URL.Query()
	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from == "" || to == "" {
		return statistics.Query{}, errors.New(errors.ErrCodeDateRangeInvalid, "from and to are required").WithDetail("yyyy-MM-dd")
	}
	rng, err := domain.ParseDateRange(from, to, h.loc)
	if err != nil {
		return statistics.Query{}, errors.Wrap(err, errors.ErrCodeDateRangeInvalid, "invalid date range").WithDetail(err.Error())
	}
	return statistics.Query{Tenant: tenantOf(r), Range: rng, Year: strings.TrimSpace(q.Get("year"))}, nil
}

func monthParam(r *http.Request) (string, error) {
	m := strings.TrimSpace(r.URL.Query().Get("month"))
	if m == "" {
		return "", errors.InvalidParam("month is required")
	}
	return m, nil
}

// PurchaseOrders handles GET /api/v1/statistics/purchase-orders.
func (h *StatisticsHandler) PurchaseOrders(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.PurchaseOrders(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Drilldown handles GET /api/v1/statistics/purchase-orders/drilldown.
func (h *StatisticsHandler) Drilldown(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := monthParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	records, err := h.svc.Drilldown(r.Context(), q, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"month": month, "items": records})
}

// Export handles GET /api/v1/statistics/purchase-orders/export.
func (h *StatisticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := h.svc.ExportXLSX(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	year := q.Year
	if year == "" {
		year = q.Range.To.Format("2006")
	}
	attachment(w, statistics.XLSXContentType, statistics.ExportFilename(q.Tenant, year), data)
}

// SMSReports handles GET /api/v1/statistics/sms-reports.
func (h *StatisticsHandler) SMSReports(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.SMSReports(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SMSDrilldown handles GET /api/v1/statistics/sms-reports/drilldown.
func (h *StatisticsHandler) SMSDrilldown(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := monthParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	records, err := h.svc.SMSDrilldown(r.Context(), q, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"month": month, "items": records})
}

//Personal.AI order the ending
