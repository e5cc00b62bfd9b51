package quarantine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

// nowAfter returns a "now" exactly days after 2024-01-01 plus a few hours.
func nowAfter(days int) time.Time {
	return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

func TestClassify_Bands(t *testing.T) {
	t.Parallel()

	cases := []struct {
		days      int
		state     RiskBand
		remaining int
	}{
		{0, BandOK, 40},
		{29, BandOK, 11},
		{30, BandWarning, 10},
		{39, BandWarning, 1},
		{40, BandExpired, 0},
		{55, BandExpired, -15},
	}
	for _, tc := range cases {
		got := Classify(ptr("2024-01-01"), DefaultPolicy, nowAfter(tc.days))
		require.True(t, got.Known())
		assert.Equal(t, tc.days, *got.Days, "days=%d", tc.days)
		assert.Equal(t, tc.remaining, *got.Remaining, "days=%d", tc.days)
		assert.Equal(t, tc.state, got.State, "days=%d", tc.days)
	}
}

func TestClassify_Unknown(t *testing.T) {
	t.Parallel()

	for _, entry := range []*string{nil, ptr(""), ptr("   "), ptr("not-a-date")} {
		got := Classify(entry, DefaultPolicy, nowAfter(10))
		assert.Equal(t, BandUnknown, got.State)
		assert.Nil(t, got.Days)
		assert.Nil(t, got.Remaining)
		assert.False(t, got.Known())
	}
}

func TestClassify_FutureEntryClampsToZero(t *testing.T) {
	t.Parallel()

	got := Classify(ptr("2024-02-01"), DefaultPolicy, nowAfter(0))
	require.NotNil(t, got.Days)
	assert.Equal(t, 0, *got.Days)
	assert.Equal(t, 40, *got.Remaining)
	assert.Equal(t, BandOK, got.State)
}

func TestClassify_UsesNowLocation(t *testing.T) {
	t.Parallel()

	caracas, err := time.LoadLocation("America/Caracas")
	require.NoError(t, err)

	// 23:30 local on the entry date: still day zero even though UTC has rolled over.
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, caracas)
	got := ClassifyDate("2024-03-10", DefaultPolicy, now)
	assert.Equal(t, 0, *got.Days)
}

func TestClassify_CustomPolicy(t *testing.T) {
	t.Parallel()

	p := Policy{LegalLimitDays: 10, WarningThresholdDays: 5}
	assert.Equal(t, BandOK, ClassifyDate("2024-01-01", p, nowAfter(4)).State)
	assert.Equal(t, BandWarning, ClassifyDate("2024-01-01", p, nowAfter(5)).State)
	assert.Equal(t, BandExpired, ClassifyDate("2024-01-01", p, nowAfter(10)).State)
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultPolicy.Validate())
	assert.Error(t, Policy{LegalLimitDays: 0}.Validate())
	assert.Error(t, Policy{LegalLimitDays: 40, WarningThresholdDays: 40}.Validate())
	assert.Error(t, Policy{LegalLimitDays: 40, WarningThresholdDays: -1}.Validate())
}

func TestAging_Overdue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Aging{State: BandUnknown}.Overdue())
	assert.Equal(t, 0, ClassifyDate("2024-01-01", DefaultPolicy, nowAfter(40)).Overdue())
	assert.Equal(t, 5, ClassifyDate("2024-01-01", DefaultPolicy, nowAfter(45)).Overdue())
}

//Personal.AI order the ending
