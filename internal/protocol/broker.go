package protocol

import (
	"strings"
	"sync"
	"time"
)

const completedRunRetention = 30 * time.Second

// Broker manages per-run event channels between turn execution and the
// transport writing to the client.
type Broker struct {
	mu     sync.RWMutex
	events map[string]chan Event
}

func NewBroker() *Broker {
	return &Broker{events: make(map[string]chan Event)}
}

// Allocate creates and registers a new event channel for a run.
func (b *Broker) Allocate(runID string, size int) chan Event {
	if size <= 0 {
		size = 1
	}
	ch := make(chan Event, size)
	b.mu.Lock()
	b.events[strings.TrimSpace(runID)] = ch
	b.mu.Unlock()
	return ch
}

// Get returns the event channel for a run.
func (b *Broker) Get(runID string) (chan Event, bool) {
	b.mu.RLock()
	ch, ok := b.events[strings.TrimSpace(runID)]
	b.mu.RUnlock()
	return ch, ok
}

// ScheduleCleanup removes a run's event channel after a retention period.
func (b *Broker) ScheduleCleanup(runID string) {
	time.AfterFunc(completedRunRetention, func() {
		b.mu.Lock()
		delete(b.events, strings.TrimSpace(runID))
		b.mu.Unlock()
	})
}
