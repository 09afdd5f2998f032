// Package dashboard maintains the live report list backing the authority
// map view: seeded from the store, kept current from the change feed.
package dashboard

import (
	"sort"
	"sync"

	"github.com/njordr/coastwatch/internal/broadcast"
	"github.com/njordr/coastwatch/internal/models"
	"github.com/njordr/coastwatch/internal/scoring"
)

// Filter narrows a snapshot. Both conditions AND together; nil means "all".
type Filter struct {
	Urgency *models.Urgency
	Band    *scoring.Band
}

// Matches reports whether the report passes both filter conditions.
func (f Filter) Matches(r *models.HazardReport) bool {
	if f.Urgency != nil && r.Urgency != *f.Urgency {
		return false
	}
	if f.Band != nil && scoring.BandOf(r.CredibilityScore) != *f.Band {
		return false
	}
	return true
}

type Feed struct {
	hub *broadcast.Broadcaster

	mu      sync.RWMutex
	reports []models.HazardReport // newest first

	subID uint64
	done  chan struct{}
}

func NewFeed(hub *broadcast.Broadcaster) *Feed {
	return &Feed{hub: hub}
}

// Start seeds the cache and opens the feed's single hub subscription.
func (f *Feed) Start(seed []models.HazardReport) {
	f.mu.Lock()
	f.reports = append([]models.HazardReport(nil), seed...)
	f.mu.Unlock()

	var ch chan broadcast.Event
	f.subID, ch = f.hub.Subscribe()
	f.done = make(chan struct{})
	go f.run(ch)
}

// Stop tears the subscription down and waits for the apply loop to exit.
func (f *Feed) Stop() {
	f.hub.Unsubscribe(f.subID)
	<-f.done
}

func (f *Feed) run(ch chan broadcast.Event) {
	defer close(f.done)
	for ev := range ch {
		f.apply(ev)
	}
}

func (f *Feed) apply(ev broadcast.Event) {
	if ev.Report == nil {
		return // alert events don't touch the report list
	}
	switch ev.Type {
	case broadcast.EventReportInsert, broadcast.EventReportUpdate:
		f.upsert(ev.Report)
	}
}

// upsert replaces the matching entry by id, or inserts at the row's
// creation-time position when it is not cached yet. Change events can
// outrun the read that seeded the cache, so an update for an unknown row
// is inserted, not dropped — but a stale row resurfacing via a status
// edit must not jump to the top of the newest-first list.
func (f *Feed) upsert(r *models.HazardReport) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.reports {
		if f.reports[i].ID == r.ID {
			f.reports[i] = *r
			return
		}
	}
	i := sort.Search(len(f.reports), func(i int) bool {
		return !f.reports[i].CreatedAt.After(r.CreatedAt)
	})
	f.reports = append(f.reports, models.HazardReport{})
	copy(f.reports[i+1:], f.reports[i:])
	f.reports[i] = *r
}

// Snapshot returns the filtered live list, newest first.
func (f *Feed) Snapshot(filter Filter) []models.HazardReport {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.HazardReport, 0, len(f.reports))
	for i := range f.reports {
		if filter.Matches(&f.reports[i]) {
			out = append(out, f.reports[i])
		}
	}
	return out
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.reports)
}
