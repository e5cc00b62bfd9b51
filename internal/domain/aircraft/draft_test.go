package aircraft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d := NewDraft("acme", 12, 4, now)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "acme", d.Tenant)
	assert.Equal(t, int64(12), d.AircraftID)
	assert.Equal(t, 1, d.Version)
	assert.Equal(t, now, d.CreatedAt)
	require.NotNil(t, d.Editor)
	assert.Len(t, d.Editor.Parts, 1)
	assert.Equal(t, 4, d.Editor.MaxDepth)

	other := NewDraft("acme", 12, 4, now)
	assert.NotEqual(t, d.ID, other.ID)
}

//Personal.AI order the ending
