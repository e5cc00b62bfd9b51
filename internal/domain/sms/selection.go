package sms

import (
	"github.com/turtacn/AeroOps/pkg/errors"
)

// Selection is the two-way binding between the analysis form fields and the
// matrix.  Picking a cell sets both fields; editing one field moves the
// highlight.  The combined result is only produced by Submit.
type Selection struct {
	probability *Probability
	severity    *Severity
}

// NewSelection starts from an optional existing analysis.
func NewSelection(existing *Analysis) Selection {
	var sel Selection
	if existing != nil {
		if existing.Probability.Valid() {
			p := existing.Probability
			sel.probability = &p
		}
		if existing.Severity.Valid() {
			s := existing.Severity
			sel.severity = &s
		}
	}
	return sel
}

// SelectCell sets both axes from a grid click.
func (s *Selection) SelectCell(p Probability, sv Severity) error {
	if err := s.SetProbability(p); err != nil {
		return err
	}
	return s.SetSeverity(sv)
}

// SetProbability changes only the probability field.
func (s *Selection) SetProbability(p Probability) error {
	if !p.Valid() {
		return errors.New(errors.ErrCodeProbabilityInvalid, "probability must be 1..5").WithDetail(p.String())
	}
	s.probability = &p
	return nil
}

// SetSeverity changes only the severity field.
func (s *Selection) SetSeverity(sv Severity) error {
	if !sv.Valid() {
		return errors.New(errors.ErrCodeSeverityInvalid, "severity must be A..E").WithDetail(string(sv))
	}
	s.severity = &sv
	return nil
}

// Probability returns the selected probability, if any.
func (s Selection) Probability() (Probability, bool) {
	if s.probability == nil {
		return 0, false
	}
	return *s.probability, true
}

// Severity returns the selected severity, if any.
func (s Selection) Severity() (Severity, bool) {
	if s.severity == nil {
		return "", false
	}
	return *s.severity, true
}

// Highlighted returns the cell to highlight; ok is false until both axes are set.
func (s Selection) Highlighted() (Cell, bool) {
	if s.probability == nil || s.severity == nil {
		return Cell{}, false
	}
	p, sv := *s.probability, *s.severity
	return Cell{Probability: p, Severity: sv, Code: Code(p, sv), Band: RiskColor(p, sv)}, true
}

// AnalysisResult is the submit payload.  Result is always Probability+Severity.
type AnalysisResult struct {
	Probability string `json:"probability"`
	Severity    string `json:"severity"`
	Result      string `json:"result"`
}

// Submit freezes the selection into the payload sent upstream.
func (s Selection) Submit() (AnalysisResult, error) {
	cell, ok := s.Highlighted()
	if !ok {
		return AnalysisResult{}, errors.New(errors.ErrCodeSelectionIncomplete, "select both probability and severity")
	}
	return AnalysisResult{
		Probability: cell.Probability.String(),
		Severity:    string(cell.Severity),
		Result:      cell.Code,
	}, nil
}

//Personal.AI order the ending
