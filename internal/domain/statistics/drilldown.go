package statistics

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Drilldown resolves a clicked bucket back to its raw records.  Missing year or
// month buckets yield an empty slice, not an error.
func Drilldown[T any](records map[string]map[string][]T, year, month string) []T {
	months, ok := records[year]
	if !ok {
		return []T{}
	}
	items, ok := months[monthKey(months, month)]
	if !ok || items == nil {
		return []T{}
	}
	return items
}

// monthKey picks the bucket key for month: an exact match, then the calendar
// spelling from SpanishMonths, then the lexically first case-insensitive match.
func monthKey[V any](months map[string]V, month string) string {
	if _, ok := months[month]; ok {
		return month
	}
	if i := MonthIndex(SpanishMonths, month); i >= 0 {
		if _, ok := months[SpanishMonths[i]]; ok {
			return SpanishMonths[i]
		}
	}
	keys := keysOf(months)
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, month) {
			return k
		}
	}
	return month
}

// rangeLayout is the backend's yyyy-MM-dd query format.
const rangeLayout = "2006-01-02"

// DateRange is the inclusive from/to filter of the statistics endpoints.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange parses "yyyy-MM-dd" bounds in loc.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	f, err := time.ParseInLocation(rangeLayout, from, loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("from: %w", err)
	}
	t, err := time.ParseInLocation(rangeLayout, to, loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("to: %w", err)
	}
	r := DateRange{From: f, To: t}
	return r, r.Validate()
}

// YearRange returns January 1st to December 31st of year.
func YearRange(year int, loc *time.Location) DateRange {
	if loc == nil {
		loc = time.Local
	}
	return DateRange{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, loc),
	}
}

// Validate rejects ranges whose from is after to.
func (r DateRange) Validate() error {
	if r.From.After(r.To) {
		return fmt.Errorf("invalid date range: from %s is after to %s", r.FromParam(), r.ToParam())
	}
	return nil
}

// FromParam renders From as yyyy-MM-dd.
func (r DateRange) FromParam() string { return r.From.Format(rangeLayout) }

// ToParam renders To as yyyy-MM-dd.
func (r DateRange) ToParam() string { return r.To.Format(rangeLayout) }

// Years lists the calendar years the range touches, ascending.
func (r DateRange) Years() []string {
	if r.From.After(r.To) {
		return nil
	}
	var out []string
	for y := r.From.Year(); y <= r.To.Year(); y++ {
		out = append(out, fmt.Sprintf("%d", y))
	}
	return out
}

// CacheKey is a stable key fragment for the range.
func (r DateRange) CacheKey() string {
	return r.FromParam() + "_" + r.ToParam()
}

//Personal.AI order the ending
