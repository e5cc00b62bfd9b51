package quarantine

import (
	"fmt"
	"strings"
	"time"
)

// RiskBand is the derived aging state of a quarantined article.
type RiskBand string

const (
	BandOK      RiskBand = "ok"
	BandWarning RiskBand = "warning"
	BandExpired RiskBand = "expired"
	BandUnknown RiskBand = "unknown"
)

// Policy is the regulatory window and the point at which the warning band
// starts.  Both are in whole days.
type Policy struct {
	LegalLimitDays       int `json:"legal_limit_days"`
	WarningThresholdDays int `json:"warning_threshold_days"`
}

// DefaultPolicy is the 40-day legal window with a 30-day warning threshold.
var DefaultPolicy = Policy{LegalLimitDays: 40, WarningThresholdDays: 30}

// Validate rejects windows where the warning band would never trigger.
func (p Policy) Validate() error {
	if p.LegalLimitDays < 1 {
		return fmt.Errorf("legal limit must be positive, got %d", p.LegalLimitDays)
	}
	if p.WarningThresholdDays < 0 || p.WarningThresholdDays >= p.LegalLimitDays {
		return fmt.Errorf("warning threshold must be in [0, %d), got %d", p.LegalLimitDays, p.WarningThresholdDays)
	}
	return nil
}

// Aging is the classifier output.  Days and Remaining are nil when the entry
// date is unknown.
type Aging struct {
	Days      *int     `json:"days"`
	Remaining *int     `json:"remaining"`
	State     RiskBand `json:"state"`
}

// Known reports whether the counters are populated.
func (a Aging) Known() bool {
	return a.State != BandUnknown && a.Days != nil && a.Remaining != nil
}

// Overdue returns how many days past the legal limit the article is; zero when
// it is still inside the window or unknown.
func (a Aging) Overdue() int {
	if a.Remaining == nil || *a.Remaining >= 0 {
		return 0
	}
	return -*a.Remaining
}

// Classify computes the elapsed days since entry, the days left in the legal
// window and the risk band.  A nil, blank or unparseable entry date yields
// BandUnknown with nil counters; absent data degrades, it never fails.
// The entry date is interpreted in now's location.
func Classify(entry *string, p Policy, now time.Time) Aging {
	if entry == nil || strings.TrimSpace(*entry) == "" {
		return Aging{State: BandUnknown}
	}
	start, err := ParseLocalDateIn(*entry, now.Location())
	if err != nil {
		return Aging{State: BandUnknown}
	}

	days := ElapsedDays(start, now)
	remaining := p.LegalLimitDays - days

	state := BandOK
	switch {
	case days >= p.LegalLimitDays:
		state = BandExpired
	case days >= p.WarningThresholdDays:
		state = BandWarning
	}
	return Aging{Days: &days, Remaining: &remaining, State: state}
}

// ClassifyDate is Classify for a plain string, where "" means unknown.
func ClassifyDate(entry string, p Policy, now time.Time) Aging {
	return Classify(&entry, p, now)
}

//Personal.AI order the ending
