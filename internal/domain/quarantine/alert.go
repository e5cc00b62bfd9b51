package quarantine

import (
	"context"
	"time"
)

// Alert is a recorded transition of an article into a band needing attention.
type Alert struct {
	Tenant     string    `json:"tenant"`
	ArticleID  int64     `json:"article_id"`
	PartNumber string    `json:"part_number"`
	State      RiskBand  `json:"state"`
	EntryDate  string    `json:"entry_date"`
	Days       int       `json:"days"`
	Remaining  int       `json:"remaining"`
	RaisedAt   time.Time `json:"raised_at"`
}

// AlertFor builds the alert for a classified article. ok is false when the
// article does not need attention.
func AlertFor(tenant string, c ClassifiedArticle, now time.Time) (Alert, bool) {
	if !NeedsAttention(c.Aging.State) || !c.Aging.Known() {
		return Alert{}, false
	}
	return Alert{
		Tenant:     tenant,
		ArticleID:  c.ID,
		PartNumber: c.PartNumber,
		State:      c.Aging.State,
		EntryDate:  c.EntryDate,
		Days:       *c.Aging.Days,
		Remaining:  *c.Aging.Remaining,
		RaisedAt:   now,
	}, true
}

// AlertRepository is the alert log. An alert is unique per
// (tenant, article, entry date, state), so each transition is raised once.
type AlertRepository interface {
	// Record inserts a and reports whether it was new.
	Record(ctx context.Context, a Alert) (bool, error)
	ListRecent(ctx context.Context, tenant string, limit int) ([]Alert, error)
}

//Personal.AI order the ending
