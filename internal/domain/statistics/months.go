// Package statistics reduces the backend's nested year → month → value maps
// into ordered, chart-ready series, annual totals and peak-month extraction.
package statistics

import (
	"sort"
	"strings"
)

// SpanishMonths is the calendar order the backend keys its months by.
var SpanishMonths = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthIndex returns the position of name in order (case-insensitive), or -1.
func MonthIndex(order []string, name string) int {
	for i, m := range order {
		if strings.EqualFold(m, name) {
			return i
		}
	}
	return -1
}

// SortMonths returns the month keys ordered by their position in order, never
// alphabetically.  Names missing from order go last, sorted lexically.
func SortMonths(keys []string, order []string) []string {
	out := append([]string(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool {
		ii, jj := MonthIndex(order, out[i]), MonthIndex(order, out[j])
		switch {
		case ii >= 0 && jj >= 0:
			return ii < jj
		case ii >= 0:
			return true
		case jj >= 0:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

//Personal.AI order the ending
