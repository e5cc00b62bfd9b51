package quarantine

import (
	"sort"
	"time"
)

// Placeholder is rendered for absent optional data.
const Placeholder = "N/A"

// Record is one quarantine event as returned by the backend.
type Record struct {
	Reason    string  `json:"reason"`
	Inspector string  `json:"inspector"`
	EntryDate string  `json:"quarantine_entry_date"`
	ExitDate  *string `json:"quarantine_exit_date"`
}

// BatchRef is the named grouping an article belongs to.
type BatchRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Article is an inventory article in quarantine status.
type Article struct {
	ID          int64     `json:"id"`
	PartNumber  string    `json:"part_number"`
	Serial      string    `json:"serial"`
	Description string    `json:"description,omitempty"`
	Batch       *BatchRef `json:"batch"`
	Quarantine  []Record  `json:"quarantine"`
}

// Current returns the most recent quarantine event.  Only the first entry is
// read; older history is never reconciled.
func (a Article) Current() (*Record, bool) {
	if len(a.Quarantine) == 0 {
		return nil, false
	}
	r := a.Quarantine[0]
	return &r, true
}

// BatchName returns the batch name or the placeholder.
func (a Article) BatchName() string {
	if a.Batch == nil || a.Batch.Name == "" {
		return Placeholder
	}
	return a.Batch.Name
}

// ClassifiedArticle pairs an article with its aging.
type ClassifiedArticle struct {
	Article
	BatchName string `json:"batch_name"`
	Reason    string `json:"reason"`
	Inspector string `json:"inspector"`
	EntryDate string `json:"entry_date"`
	Aging     Aging  `json:"aging"`
}

// ClassifyArticle classifies the article's current quarantine record.
func ClassifyArticle(a Article, p Policy, now time.Time) ClassifiedArticle {
	out := ClassifiedArticle{
		Article:   a,
		BatchName: a.BatchName(),
		Reason:    Placeholder,
		Inspector: Placeholder,
		EntryDate: Placeholder,
	}
	rec, ok := a.Current()
	if !ok {
		out.Aging = Aging{State: BandUnknown}
		return out
	}
	if rec.Reason != "" {
		out.Reason = rec.Reason
	}
	if rec.Inspector != "" {
		out.Inspector = rec.Inspector
	}
	if rec.EntryDate != "" {
		out.EntryDate = rec.EntryDate
	}
	out.Aging = ClassifyDate(rec.EntryDate, p, now)
	return out
}

// ClassifyAll classifies every article, preserving input order.
func ClassifyAll(articles []Article, p Policy, now time.Time) []ClassifiedArticle {
	out := make([]ClassifiedArticle, 0, len(articles))
	for _, a := range articles {
		out = append(out, ClassifyArticle(a, p, now))
	}
	return out
}

// rank groups items: in-window first, expired next, unknown last.
func rank(a Aging) int {
	switch a.State {
	case BandOK, BandWarning:
		return 0
	case BandExpired:
		return 1
	default:
		return 2
	}
}

// SortByUrgency orders items in place.  In-window items come first with the
// fewest remaining days leading; expired items follow, most overdue first;
// unknown items close the list.  Equal keys keep their input order.
func SortByUrgency(items []ClassifiedArticle) {
	sort.SliceStable(items, func(i, j int) bool {
		ai, aj := items[i].Aging, items[j].Aging
		ri, rj := rank(ai), rank(aj)
		if ri != rj {
			return ri < rj
		}
		switch ri {
		case 0:
			return *ai.Remaining < *aj.Remaining
		case 1:
			return ai.Overdue() > aj.Overdue()
		default:
			return false
		}
	})
}

// SoonestToExpire returns the in-window item with the fewest remaining days.
// The first one wins on ties.  ok is false when nothing is in the window.
func SoonestToExpire(items []ClassifiedArticle) (ClassifiedArticle, bool) {
	var (
		best  ClassifiedArticle
		found bool
	)
	for _, it := range items {
		if rank(it.Aging) != 0 {
			continue
		}
		if !found || *it.Aging.Remaining < *best.Aging.Remaining {
			best, found = it, true
		}
	}
	return best, found
}

// Summary counts items per band.
type Summary struct {
	Total   int `json:"total"`
	OK      int `json:"ok"`
	Warning int `json:"warning"`
	Expired int `json:"expired"`
	Unknown int `json:"unknown"`
}

// Summarize counts items per band.
func Summarize(items []ClassifiedArticle) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch it.Aging.State {
		case BandOK:
			s.OK++
		case BandWarning:
			s.Warning++
		case BandExpired:
			s.Expired++
		default:
			s.Unknown++
		}
	}
	return s
}

// NeedsAttention reports whether the band should raise an alert.
func NeedsAttention(b RiskBand) bool {
	return b == BandWarning || b == BandExpired
}

//Personal.AI order the ending
