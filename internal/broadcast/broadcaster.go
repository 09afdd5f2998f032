// Package broadcast fans change events out to live dashboard subscribers.
package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/njordr/coastwatch/internal/models"
)

type EventType string

const (
	EventReportInsert EventType = "report.insert"
	EventReportUpdate EventType = "report.update"
	EventAlertInsert  EventType = "alert.insert"
)

// Event is one change-feed entry. Exactly one of Report/Alert is set,
// matching the event type.
type Event struct {
	Type   EventType            `json:"type"`
	Report *models.HazardReport `json:"report,omitempty"`
	Alert  *models.Alert        `json:"alert,omitempty"`
}

type Broadcaster struct {
	subscribers map[uint64]chan Event
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan Event),
	}
}

func (b *Broadcaster) Subscribe() (uint64, chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, 100) // Buffer for bursts of submissions

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Broadcast(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			// Skip slow subscribers
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, causing feeds to exit gracefully
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
