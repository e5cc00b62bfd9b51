package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/AeroOps/internal/application/workorder"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// WorkOrderHandler serves work-order documents.
type WorkOrderHandler struct {
	svc       workorder.Service
	urlExpiry time.Duration
}

func NewWorkOrderHandler(svc workorder.Service, urlExpiry time.Duration) *WorkOrderHandler {
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &WorkOrderHandler{svc: svc, urlExpiry: urlExpiry}
}

// PrelimInspection handles
// GET /api/v1/work-orders/{order}/prelim-inspection?aircraft_hours_mode=manual&aircraft_hours=1234.5.
func (h *WorkOrderHandler) PrelimInspection(w http.ResponseWriter, r *http.Request) {
	req := workorder.PrelimRequest{
		Tenant: tenantOf(r),
		Order:  chi.URLParam(r, "order"),
		Mode:   client.HoursMode(strings.TrimSpace(r.URL.Query().Get("aircraft_hours_mode"))),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("aircraft_hours")); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, errors.InvalidParam("aircraft_hours must be a number").WithDetail(raw))
			return
		}
		req.Hours = hours
	}

	doc, err := h.svc.PrelimInspection(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if doc.ArchiveKey != "" {
		w.Header().Set("X-Archive-Key", doc.ArchiveKey)
	}
	attachment(w, doc.ContentType, doc.Filename, doc.Data)
}

// ArchivedURL handles GET /api/v1/work-orders/{order}/prelim-inspection/url.
func (h *WorkOrderHandler) ArchivedURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.ArchivedURL(r.Context(), tenantOf(r), chi.URLParam(r, "order"), h.urlExpiry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"url":        url,
		"expires_in": int(h.urlExpiry.Seconds()),
	})
}

//Personal.AI order the ending
