package sms

import (
	"encoding/json"
	"strings"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// ReportStatus is the lifecycle state of a safety report.
type ReportStatus string

const (
	StatusOpen   ReportStatus = "ABIERTO"
	StatusClosed ReportStatus = "CERRADO"
)

// Measure is one mitigation measure of a plan.
type Measure struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Responsible string `json:"responsible,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// MitigationPlan is the remediation workflow attached to a report.
type MitigationPlan struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Area        string    `json:"area,omitempty"`
	Measures    []Measure `json:"measures"`
}

// Analysis is the risk analysis attached to a report.
type Analysis struct {
	ID          int64       `json:"id"`
	Probability Probability `json:"probability,string"`
	Severity    Severity    `json:"severity"`
	Result      string      `json:"result"`
}

// Report is a voluntary or obligatory safety report.
type Report struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"kind,omitempty"` // "voluntary" | "obligatory"
	Number    string          `json:"report_number,omitempty"`
	Status    ReportStatus    `json:"status"`
	Incidents string          `json:"incidents,omitempty"`
	Plan      *MitigationPlan `json:"mitigation_plan"`
	Analysis  *Analysis       `json:"analysis"`
}

// IsOpen reports whether the report accepts changes.
func (r Report) IsOpen() bool {
	return strings.EqualFold(string(r.Status), string(StatusOpen))
}

// IsClosed reports whether the report is closed.
func (r Report) IsClosed() bool {
	return strings.EqualFold(string(r.Status), string(StatusClosed))
}

// CanCreatePlan: an open report without a plan.
func CanCreatePlan(r Report) bool { return r.IsOpen() && r.Plan == nil }

// CanEditPlan: an open report with a plan.
func CanEditPlan(r Report) bool { return r.IsOpen() && r.Plan != nil }

// CanCreateMeasure: measures hang off an existing plan of an open report.
func CanCreateMeasure(r Report) bool { return r.IsOpen() && r.Plan != nil }

// CanEditMeasure mirrors CanCreateMeasure.
func CanEditMeasure(r Report) bool { return CanCreateMeasure(r) }

// CanCreateAnalysis: an open report without an analysis.
func CanCreateAnalysis(r Report) bool { return r.IsOpen() && r.Analysis == nil }

// CanEditAnalysis: an open report with an analysis.
func CanEditAnalysis(r Report) bool { return r.IsOpen() && r.Analysis != nil }

// CanCloseReport: open, with a plan holding at least one measure, and analysed.
func CanCloseReport(r Report) bool {
	return r.IsOpen() && r.Plan != nil && len(r.Plan.Measures) > 0 && r.Analysis != nil
}

// CanReopen: only closed reports reopen.
func CanReopen(r Report) bool { return r.IsClosed() }

// Action names the gated operations.
type Action string

const (
	ActionCreatePlan     Action = "create_plan"
	ActionEditPlan       Action = "edit_plan"
	ActionCreateMeasure  Action = "create_measure"
	ActionEditMeasure    Action = "edit_measure"
	ActionCreateAnalysis Action = "create_analysis"
	ActionEditAnalysis   Action = "edit_analysis"
	ActionClose          Action = "close"
	ActionReopen         Action = "reopen"
)

var predicates = map[Action]func(Report) bool{
	ActionCreatePlan:     CanCreatePlan,
	ActionEditPlan:       CanEditPlan,
	ActionCreateMeasure:  CanCreateMeasure,
	ActionEditMeasure:    CanEditMeasure,
	ActionCreateAnalysis: CanCreateAnalysis,
	ActionEditAnalysis:   CanEditAnalysis,
	ActionClose:          CanCloseReport,
	ActionReopen:         CanReopen,
}

// Actions evaluates every predicate for r.
func Actions(r Report) map[Action]bool {
	out := make(map[Action]bool, len(predicates))
	for a, fn := range predicates {
		out[a] = fn(r)
	}
	return out
}

// Allowed reports whether action is permitted on r.
func Allowed(r Report, action Action) bool {
	fn, ok := predicates[action]
	return ok && fn(r)
}

// Require returns an ActionNotAllowed error when action is not permitted.
func Require(r Report, action Action) error {
	if Allowed(r, action) {
		return nil
	}
	return errors.New(errors.ErrCodeActionNotAllowed, "action not allowed in current report state").
		WithDetail(string(action) + " on " + string(r.Status))
}

// Close moves an eligible report to CERRADO.
func Close(r Report) (Report, error) {
	if err := Require(r, ActionClose); err != nil {
		return r, err
	}
	r.Status = StatusClosed
	return r, nil
}

// Reopen moves a closed report back to ABIERTO.
func Reopen(r Report) (Report, error) {
	if err := Require(r, ActionReopen); err != nil {
		return r, err
	}
	r.Status = StatusOpen
	return r, nil
}

// IncidentsFallback is shown when the embedded incidents list is unreadable.
const IncidentsFallback = "No se pudieron cargar los incidentes"

// ParseIncidents decodes the JSON-encoded string array stored in a report's
// incidents field.  Malformed input yields the fallback line and ok=false.
func ParseIncidents(raw string) (incidents []string, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, true
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{IncidentsFallback}, false
	}
	if out == nil {
		out = []string{}
	}
	return out, true
}

//Personal.AI order the ending
