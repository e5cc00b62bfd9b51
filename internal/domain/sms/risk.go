// Package sms holds the safety-management rules mirrored from the backend:
// the 5×5 probability/severity risk matrix, bidirectional matrix selection,
// and the report/mitigation-plan workflow gating.
package sms

import (
	"strconv"
	"strings"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Probability / Severity codes
// ─────────────────────────────────────────────────────────────────────────────

// Probability is the likelihood axis, 1 (extremely improbable) to 5 (frequent).
type Probability int

// Severity is the consequence axis, A (catastrophic) to E (negligible).
type Severity string

// Probabilities lists the rows top to bottom as rendered.
var Probabilities = []Probability{5, 4, 3, 2, 1}

// Severities lists the columns left to right as rendered.
var Severities = []Severity{"A", "B", "C", "D", "E"}

// Valid reports whether p is in 1..5.
func (p Probability) Valid() bool { return p >= 1 && p <= 5 }

// Valid reports whether s is one of A..E.
func (s Severity) Valid() bool {
	switch s {
	case "A", "B", "C", "D", "E":
		return true
	}
	return false
}

// String renders the probability as its digit.
func (p Probability) String() string { return strconv.Itoa(int(p)) }

// ParseProbability accepts "1".."5".
func ParseProbability(raw string) (Probability, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !Probability(n).Valid() {
		return 0, errors.New(errors.ErrCodeProbabilityInvalid, "probability must be 1..5").WithDetail(raw)
	}
	return Probability(n), nil
}

// ParseSeverity accepts "A".."E", case-insensitive.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", errors.New(errors.ErrCodeSeverityInvalid, "severity must be A..E").WithDetail(raw)
	}
	return s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Risk bands
// ─────────────────────────────────────────────────────────────────────────────

// Band is the qualitative risk of a matrix cell.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// The band boundary is not a function of p×s, so membership is tabulated.
var (
	highCells = map[string]struct{}{
		"5A": {}, "5B": {}, "5C": {}, "4A": {}, "4B": {}, "3A": {},
	}
	mediumCells = map[string]struct{}{
		"5D": {}, "5E": {}, "4C": {}, "4D": {}, "4E": {},
		"3B": {}, "3C": {}, "3D": {}, "2A": {}, "2B": {}, "2C": {},
	}
)

// Code concatenates probability and severity, e.g. "4B".
func Code(p Probability, s Severity) string {
	return p.String() + string(s)
}

// RiskColor maps a cell to its band.  Anything outside the high and medium
// tables, including out-of-range input, is low.
func RiskColor(p Probability, s Severity) Band {
	return BandForCode(Code(p, s))
}

// BandForCode classifies a combined code such as "3A".
func BandForCode(code string) Band {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := highCells[code]; ok {
		return BandHigh
	}
	if _, ok := mediumCells[code]; ok {
		return BandMedium
	}
	return BandLow
}

// Cell is one rendered matrix cell.
type Cell struct {
	Probability Probability `json:"probability"`
	Severity    Severity    `json:"severity"`
	Code        string      `json:"code"`
	Band        Band        `json:"band"`
}

// Matrix returns the 5×5 grid, probability 5 in the first row, severity A in
// the first column.
func Matrix() [][]Cell {
	grid := make([][]Cell, 0, len(Probabilities))
	for _, p := range Probabilities {
		row := make([]Cell, 0, len(Severities))
		for _, s := range Severities {
			row = append(row, Cell{Probability: p, Severity: s, Code: Code(p, s), Band: RiskColor(p, s)})
		}
		grid = append(grid, row)
	}
	return grid
}

//Personal.AI order the ending
