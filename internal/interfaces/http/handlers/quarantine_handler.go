package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/AeroOps/internal/application/quarantine"
	domain "github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// QuarantineHandler serves the quarantine dashboard.
type QuarantineHandler struct {
	svc quarantine.Service
}

func NewQuarantineHandler(svc quarantine.Service) *QuarantineHandler {
	return &QuarantineHandler{svc: svc}
}

// List handles GET /api/v1/quarantine.
func (h *QuarantineHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.List(r.Context(), tenantOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Classify handles GET /api/v1/quarantine/classify?entry_date=.
func (h *QuarantineHandler) Classify(w http.ResponseWriter, r *http.Request) {
	entry := strings.TrimSpace(r.URL.Query().Get("entry_date"))
	if entry == "" {
		writeError(w, r, errors.New(errors.ErrCodeEntryDateInvalid, "entry_date is required"))
		return
	}
	if _, err := domain.ParseLocalDateIn(entry, time.UTC); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Classify(entry))
}

// Alerts handles GET /api/v1/quarantine/alerts?limit=.
func (h *QuarantineHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if limit <= 0 || limit > 500 {
		writeError(w, r, errors.InvalidParam("limit must be between 1 and 500"))
		return
	}
	alerts, err := h.svc.RecentAlerts(r.Context(), tenantOf(r), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": alerts})
}

//Personal.AI order the ending
