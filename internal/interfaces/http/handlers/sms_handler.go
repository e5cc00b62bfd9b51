package handlers

import (
	"context"
	"net/http"

	"github.com/turtacn/AeroOps/internal/application/sms"
	domain "github.com/turtacn/AeroOps/internal/domain/sms"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// SMSHandler serves safety reports and the risk matrix.
type SMSHandler struct {
	svc sms.Service
}

func NewSMSHandler(svc sms.Service) *SMSHandler {
	return &SMSHandler{svc: svc}
}

// RiskMatrixResponse is the rendered 5x5 grid plus its axes.
type RiskMatrixResponse struct {
	Probabilities []domain.Probability `json:"probabilities"`
	Severities    []domain.Severity    `json:"severities"`
	Cells         [][]domain.Cell      `json:"cells"`
}

// RiskMatrix handles GET /api/v1/sms/risk-matrix. With probability and
// severity query parameters it classifies one cell instead.
func (h *SMSHandler) RiskMatrix(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("probability") || q.Has("severity") {
		p, err := domain.ParseProbability(q.Get("probability"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		s, err := domain.ParseSeverity(q.Get("severity"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.Cell{Probability: p, Severity: s, Code: domain.Code(p, s), Band: domain.RiskColor(p, s)})
		return
	}
	writeJSON(w, http.StatusOK, RiskMatrixResponse{
		Probabilities: domain.Probabilities,
		Severities:    domain.Severities,
		Cells:         h.svc.RiskMatrix(),
	})
}

// GetReport handles GET /api/v1/sms/reports/{id}.
func (h *SMSHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.svc.GetReport(r.Context(), tenantOf(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreatePlan handles POST /api/v1/sms/reports/{id}/plan.
func (h *SMSHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req client.CreatePlanRequest
	if err := decodeJSON(w, r, &req, 0); err != nil {
		writeError(w, r, err)
		return
	}
	plan, err := h.svc.CreatePlan(r.Context(), tenantOf(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// CreateMeasure handles POST /api/v1/sms/reports/{id}/plan/measures.
func (h *SMSHandler) CreateMeasure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req client.CreateMeasureRequest
	if err := decodeJSON(w, r, &req, 0); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.svc.CreateMeasure(r.Context(), tenantOf(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *SMSHandler) analysis(w http.ResponseWriter, r *http.Request, update bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in sms.AnalysisInput
	if err := decodeJSON(w, r, &in, 0); err != nil {
		writeError(w, r, err)
		return
	}
	if !update && (in.Probability == "" || in.Severity == "") {
		writeError(w, r, errors.New(errors.ErrCodeSelectionIncomplete, "select both probability and severity"))
		return
	}
	var a *domain.Analysis
	status := http.StatusCreated
	if update {
		a, err = h.svc.UpdateAnalysis(r.Context(), tenantOf(r), id, in)
		status = http.StatusOK
	} else {
		a, err = h.svc.SubmitAnalysis(r.Context(), tenantOf(r), id, in)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, a)
}

// SubmitAnalysis handles POST /api/v1/sms/reports/{id}/analysis.
func (h *SMSHandler) SubmitAnalysis(w http.ResponseWriter, r *http.Request) { h.analysis(w, r, false) }

// UpdateAnalysis handles PUT /api/v1/sms/reports/{id}/analysis.
func (h *SMSHandler) UpdateAnalysis(w http.ResponseWriter, r *http.Request) { h.analysis(w, r, true) }

// Close handles POST /api/v1/sms/reports/{id}/close.
func (h *SMSHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Close)
}

// Reopen handles POST /api/v1/sms/reports/{id}/reopen.
func (h *SMSHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Reopen)
}

func (h *SMSHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, int64) (*sms.ReportView, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := fn(r.Context(), tenantOf(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

//Personal.AI order the ending
