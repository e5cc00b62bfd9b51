package statistics

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// NestedMap is year → month → amount.
type NestedMap map[string]map[string]decimal.Decimal

// Metrics holds the parallel nested maps of the purchase-order statistics
// payload.  Total drives which months exist; the rest default to zero.
type Metrics struct {
	Total              NestedMap `json:"total"`
	TransportVenezuela NestedMap `json:"transport_venezuela"`
	TransportUSA       NestedMap `json:"transport_usa"`
	Taxes              NestedMap `json:"taxes"`
	WireFee            NestedMap `json:"wire_fee"`
	HandlingFee        NestedMap `json:"handling_fee"`
}

// MonthlyStatistic is one point of the merged monthly series.
type MonthlyStatistic struct {
	Year               string          `json:"year"`
	Month              string          `json:"month"`
	Total              decimal.Decimal `json:"total"`
	TransportVenezuela decimal.Decimal `json:"transport_venezuela"`
	TransportUSA       decimal.Decimal `json:"transport_usa"`
	Taxes              decimal.Decimal `json:"taxes"`
	WireFee            decimal.Decimal `json:"wire_fee"`
	HandlingFee        decimal.Decimal `json:"handling_fee"`
}

func (n NestedMap) leaf(year, month string) decimal.Decimal {
	if n == nil {
		return decimal.Zero
	}
	months, ok := n[year]
	if !ok {
		return decimal.Zero
	}
	v, ok := months[month]
	if !ok {
		return decimal.Zero
	}
	return v
}

// BuildMonthlySeries merges the parallel maps for year into one series ordered
// by order.  An absent year yields an empty, non-nil slice.
func BuildMonthlySeries(m Metrics, year string, order []string) []MonthlyStatistic {
	months, ok := m.Total[year]
	if !ok {
		return []MonthlyStatistic{}
	}

	out := make([]MonthlyStatistic, 0, len(months))
	for _, month := range SortMonths(keysOf(months), order) {
		out = append(out, MonthlyStatistic{
			Year:               year,
			Month:              month,
			Total:              months[month],
			TransportVenezuela: m.TransportVenezuela.leaf(year, month),
			TransportUSA:       m.TransportUSA.leaf(year, month),
			Taxes:              m.Taxes.leaf(year, month),
			WireFee:            m.WireFee.leaf(year, month),
			HandlingFee:        m.HandlingFee.leaf(year, month),
		})
	}
	return out
}

// ValuePoint is one point of a single-metric series (counts, not money).
type ValuePoint struct {
	Year  string  `json:"year"`
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// BuildValueSeries flattens a single nested count map for year.
func BuildValueSeries(nested map[string]map[string]float64, year string, order []string) []ValuePoint {
	months, ok := nested[year]
	if !ok {
		return []ValuePoint{}
	}
	out := make([]ValuePoint, 0, len(months))
	for _, month := range SortMonths(keysOf(months), order) {
		out = append(out, ValuePoint{Year: year, Month: month, Value: months[month]})
	}
	return out
}

// TotalAnnual reads a flat year → amount map.  Absent or non-numeric entries
// yield zero.
func TotalAnnual(flat map[string]any, year string) decimal.Decimal {
	raw, ok := flat[year]
	if !ok || raw == nil {
		return decimal.Zero
	}
	switch v := raw.(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// HighestMonth returns the first point with the strictly greatest Total, or
// nil for an empty series.
func HighestMonth(series []MonthlyStatistic) *MonthlyStatistic {
	if len(series) == 0 {
		return nil
	}
	best := series[0]
	for _, s := range series[1:] {
		if s.Total.GreaterThan(best.Total) {
			best = s
		}
	}
	return &best
}

// HighestValue is HighestMonth for count series.
func HighestValue(series []ValuePoint) *ValuePoint {
	if len(series) == 0 {
		return nil
	}
	best := series[0]
	for _, s := range series[1:] {
		if s.Value > best.Value {
			best = s
		}
	}
	return &best
}

// SumSeries adds up Total over the series.
func SumSeries(series []MonthlyStatistic) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range series {
		sum = sum.Add(s.Total)
	}
	return sum
}

//Personal.AI order the ending
