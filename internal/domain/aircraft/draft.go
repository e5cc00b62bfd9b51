package aircraft

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Draft is a parts editor persisted between requests. Version increments on
// every save and guards concurrent edits.
type Draft struct {
	ID         string    `json:"id"`
	Tenant     string    `json:"tenant"`
	AircraftID int64     `json:"aircraft_id"`
	Editor     *Editor   `json:"editor"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewDraft starts a draft with one empty top-level part.
func NewDraft(tenant string, aircraftID int64, maxDepth int, now time.Time) *Draft {
	return &Draft{
		ID:         uuid.New().String(),
		Tenant:     tenant,
		AircraftID: aircraftID,
		Editor:     NewEditor(maxDepth),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// DraftRepository persists drafts keyed by (tenant, aircraft, id).
type DraftRepository interface {
	Create(ctx context.Context, d *Draft) error
	Get(ctx context.Context, tenant string, aircraftID int64, id string) (*Draft, error)
	// Update writes d if the stored version equals d.Version, then bumps d.Version.
	Update(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, tenant string, aircraftID int64, id string) error
	DeleteStale(ctx context.Context, olderThan time.Time) (int64, error)
}

//Personal.AI order the ending
