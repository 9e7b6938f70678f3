// Package events provides the in-process notification bus. A LedgerChanged
// event is published after every successful atomic write so interested
// consumers (dashboards, caches) can refresh without polling; the storage
// layer itself stays synchronous.
package events

import (
	"sync"
	"time"
)

// LedgerChanged announces that a journal write committed.
type LedgerChanged struct {
	JournalID  string
	AccountIDs []string
	Date       time.Time
	Action     string // "create", "update", "delete", "reverse"
}

// Handler consumes ledger change events.
type Handler func(LedgerChanged)

// Bus is a minimal publish/subscribe fan-out. Publish never blocks the write
// path; handlers run on their own goroutine per event.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscriber asynchronously.
func (b *Bus) Publish(ev LedgerChanged) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		go h(ev)
	}
}
