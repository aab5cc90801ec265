// Package feed provides the in-process order change feed backing the
// ports.OrderFeed contract.
package feed

import (
	"sync"

	"dispatch/internal/core/ports"
)

// subscriberBuffer bounds how far a subscriber may lag before it starts
// losing snapshots. Delivery is current-snapshot-only, so dropping is
// acceptable: the next change carries the full state again.
const subscriberBuffer = 64

// Hub is an in-memory publish/subscribe fan-out for order snapshots.
// Publishers never block: a subscriber whose buffer is full misses that
// snapshot.
type Hub struct {
	mu          sync.Mutex
	subscribers map[int]chan ports.OrderSnapshot
	nextID      int
	closed      bool
}

// NewHub creates an empty feed hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int]chan ports.OrderSnapshot),
	}
}

// Publish delivers the snapshot to every subscriber that has buffer room.
func (h *Hub) Publish(snapshot ports.OrderSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	for _, subscriber := range h.subscribers {
		select {
		case subscriber <- snapshot:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel and a cancel
// function. The channel is closed on cancel or hub shutdown.
func (h *Hub) Subscribe() (<-chan ports.OrderSnapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan ports.OrderSnapshot, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subscribers[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if subscriber, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(subscriber)
		}
	}

	return ch, cancel
}

// Close shuts the hub down and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, subscriber := range h.subscribers {
		delete(h.subscribers, id)
		close(subscriber)
	}
}
