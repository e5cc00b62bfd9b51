package statistics

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestSortMonths_CalendarOrderNotLexical(t *testing.T) {
	t.Parallel()

	got := SortMonths([]string{"Marzo", "Enero", "Diciembre", "Abril", "Febrero"}, SpanishMonths)
	assert.Equal(t, []string{"Enero", "Febrero", "Marzo", "Abril", "Diciembre"}, got)
}

func TestSortMonths_UnknownNamesGoLast(t *testing.T) {
	t.Parallel()

	got := SortMonths([]string{"Zeta", "Marzo", "Alfa", "enero"}, SpanishMonths)
	assert.Equal(t, []string{"enero", "Marzo", "Alfa", "Zeta"}, got)
}

func TestBuildMonthlySeries_OrdersAndMerges(t *testing.T) {
	t.Parallel()

	m := Metrics{
		Total:              NestedMap{"2024": {"Marzo": d(10), "Enero": d(5)}},
		TransportVenezuela: NestedMap{"2024": {"Enero": d(1.5)}},
		Taxes:              NestedMap{"2024": {"Marzo": d(2)}},
		WireFee:            NestedMap{"2023": {"Marzo": d(99)}},
	}

	series := BuildMonthlySeries(m, "2024", SpanishMonths)

	require.Len(t, series, 2)
	assert.Equal(t, "Enero", series[0].Month)
	assert.Equal(t, "Marzo", series[1].Month)
	assert.True(t, series[0].Total.Equal(d(5)))
	assert.True(t, series[0].TransportVenezuela.Equal(d(1.5)))
	assert.True(t, series[0].Taxes.IsZero(), "missing leaf defaults to zero")
	assert.True(t, series[1].Taxes.Equal(d(2)))
	assert.True(t, series[1].WireFee.IsZero(), "other years never leak in")
	assert.True(t, series[1].HandlingFee.IsZero(), "nil parallel map defaults to zero")
	assert.Equal(t, "2024", series[1].Year)
}

func TestBuildMonthlySeries_AbsentYear(t *testing.T) {
	t.Parallel()

	series := BuildMonthlySeries(Metrics{}, "2030", SpanishMonths)
	require.NotNil(t, series)
	assert.Empty(t, series)
}

func TestBuildValueSeries(t *testing.T) {
	t.Parallel()

	nested := map[string]map[string]float64{"2024": {"Julio": 3, "Junio": 7}}
	got := BuildValueSeries(nested, "2024", SpanishMonths)
	require.Len(t, got, 2)
	assert.Equal(t, "Junio", got[0].Month)
	assert.Equal(t, 3.0, got[1].Value)

	assert.Empty(t, BuildValueSeries(nested, "1999", SpanishMonths))
}

func TestTotalAnnual(t *testing.T) {
	t.Parallel()

	flat := map[string]any{
		"2020": 1200.5,
		"2021": "300.25",
		"2022": json.Number("42"),
		"2023": "n/a",
		"2024": nil,
		"2025": []int{1},
		"2026": 7,
	}
	assert.True(t, TotalAnnual(flat, "2020").Equal(d(1200.5)))
	assert.True(t, TotalAnnual(flat, "2021").Equal(d(300.25)))
	assert.True(t, TotalAnnual(flat, "2022").Equal(d(42)))
	assert.True(t, TotalAnnual(flat, "2023").IsZero())
	assert.True(t, TotalAnnual(flat, "2024").IsZero())
	assert.True(t, TotalAnnual(flat, "2025").IsZero())
	assert.True(t, TotalAnnual(flat, "2026").Equal(d(7)))
	assert.True(t, TotalAnnual(flat, "1990").IsZero())
	assert.True(t, TotalAnnual(nil, "2020").IsZero())
}

func TestHighestMonth(t *testing.T) {
	t.Parallel()

	assert.Nil(t, HighestMonth(nil))
	assert.Nil(t, HighestMonth([]MonthlyStatistic{}))

	tie := []MonthlyStatistic{{Month: "Enero", Total: d(100)}, {Month: "Febrero", Total: d(100)}}
	got := HighestMonth(tie)
	require.NotNil(t, got)
	assert.Equal(t, "Enero", got.Month, "first occurrence wins on ties")

	series := []MonthlyStatistic{{Month: "Enero", Total: d(1)}, {Month: "Febrero", Total: d(9)}, {Month: "Marzo", Total: d(3)}}
	assert.Equal(t, "Febrero", HighestMonth(series).Month)
	assert.True(t, SumSeries(series).Equal(d(13)))
}

func TestHighestValue(t *testing.T) {
	t.Parallel()

	assert.Nil(t, HighestValue(nil))
	got := HighestValue([]ValuePoint{{Month: "Enero", Value: 4}, {Month: "Mayo", Value: 4}})
	assert.Equal(t, "Enero", got.Month)
}

func TestMetrics_UnmarshalFromBackendJSON(t *testing.T) {
	t.Parallel()

	raw := `{"total":{"2024":{"Enero":"150.10","Febrero":20}},"taxes":{"2024":{"Enero":1}}}`
	var m Metrics
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	series := BuildMonthlySeries(m, "2024", SpanishMonths)
	require.Len(t, series, 2)
	assert.Equal(t, "150.1", series[0].Total.String())
	assert.Equal(t, "1", series[0].Taxes.String())
}

//Personal.AI order the ending
