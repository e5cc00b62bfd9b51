// Package quarantine implements the quarantine aging model: local calendar
// date parsing, the elapsed/remaining day counters against the regulatory
// window, and the risk bands used for badges and urgency ordering.
package quarantine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// DateLayout is the wire format of every calendar date exchanged with the backend.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// ParseLocalDate parses "YYYY-MM-DD" as midnight in time.Local.
func ParseLocalDate(s string) (time.Time, error) {
	return ParseLocalDateIn(s, time.Local)
}

// ParseLocalDateIn parses "YYYY-MM-DD" as midnight in loc.  The string is split
// on "-" and the components are handed to time.Date directly, so the result's
// Year/Month/Day always equal the string components.  time.Parse is avoided on
// purpose: it would interpret the date as UTC and shift the calendar day for
// hosts west of Greenwich.
func ParseLocalDateIn(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, errors.New(errors.ErrCodeEntryDateInvalid, "date must be YYYY-MM-DD").WithDetail(s)
	}

	y, errY := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	d, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil || len(parts[0]) != 4 {
		return time.Time{}, errors.New(errors.ErrCodeEntryDateInvalid, "date must be YYYY-MM-DD").WithDetail(s)
	}
	if m < 1 || m > 12 || d < 1 || d > daysIn(time.Month(m), y) {
		return time.Time{}, errors.New(errors.ErrCodeEntryDateInvalid, "date out of range").WithDetail(s)
	}

	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), nil
}

// FormatDate renders t as "YYYY-MM-DD" in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ElapsedDays returns floor((now - from) / 24h), clamped at zero.
func ElapsedDays(from, now time.Time) int {
	days := int(math.Floor(float64(now.Sub(from)) / float64(day)))
	if days < 0 {
		return 0
	}
	return days
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

//Personal.AI order the ending
