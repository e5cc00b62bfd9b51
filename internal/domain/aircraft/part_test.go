package aircraft

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestTransform_DefaultsAndDropsCategory(t *testing.T) {
	t.Parallel()

	parts := []Part{{
		PartName:       "Engine",
		PartNumber:     "PN-1",
		ConditionType:  "OVERHAULED",
		Category:       "powerplant",
		IsFather:       true,
		TimeSinceNew:   f(1200.5),
		CyclesSinceNew: f(300),
		SubParts: []Part{{
			PartName:      "Fan blade",
			ConditionType: ConditionNew,
		}},
	}}

	out := Transform(parts)
	require.Len(t, out, 1)
	assert.Equal(t, 1200.5, out[0].TimeSinceNew)
	assert.Equal(t, 0.0, out[0].TimeSinceOverhaul)
	assert.Equal(t, 300.0, out[0].CyclesSinceNew)
	assert.Equal(t, 0.0, out[0].CyclesSinceOverhaul)
	assert.True(t, out[0].IsFather)
	require.Len(t, out[0].SubParts, 1)
	assert.Equal(t, "Fan blade", out[0].SubParts[0].PartName)
	assert.Nil(t, out[0].SubParts[0].SubParts)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "category")
	assert.Contains(t, string(raw), `"time_since_overhaul":0`)
}

func TestTransform_KeepsIsFatherAsGiven(t *testing.T) {
	t.Parallel()

	out := Transform([]Part{
		{PartName: "orphan father", IsFather: true},
		{PartName: "silent parent", IsFather: false, SubParts: []Part{{PartName: "child"}}},
	})
	assert.True(t, out[0].IsFather)
	assert.False(t, out[1].IsFather)
	assert.Len(t, out[1].SubParts, 1)
}

func TestTransform_Empty(t *testing.T) {
	t.Parallel()
	out := Transform(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestInconsistencies(t *testing.T) {
	t.Parallel()

	parts := []Part{
		{PartName: "ok leaf"},
		{PartName: "flagged leaf", IsFather: true},
		{PartName: "ok parent", IsFather: true, SubParts: []Part{
			{PartName: "deep unflagged", SubParts: []Part{{PartName: "x"}}},
		}},
	}
	got := Inconsistencies(parts)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Path)
	assert.True(t, got[0].IsFather)
	assert.Equal(t, "2.0", got[1].Path)
	assert.Equal(t, 1, got[1].SubParts)
}

func TestPath(t *testing.T) {
	t.Parallel()

	p := Path{0, 2, 1}
	assert.Equal(t, "0.2.1", p.Key())
	assert.Equal(t, Path{0, 2}, p.Parent())
	assert.Equal(t, Path{0, 2, 1, 4}, p.Child(4))
	assert.Equal(t, "", Path{}.Key())

	parsed, err := ParsePath("0.2.1")
	require.NoError(t, err)
	assert.Equal(t, p, parsed)

	for _, bad := range []string{"", "a", "1..2", "-1"} {
		_, err := ParsePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestDepthAndCount(t *testing.T) {
	t.Parallel()

	parts := []Part{
		{SubParts: []Part{{SubParts: []Part{{}}}, {}}},
		{},
	}
	assert.Equal(t, 3, Depth(parts))
	assert.Equal(t, 5, Count(parts))
	assert.Equal(t, 0, Depth(nil))
}

//Personal.AI order the ending
