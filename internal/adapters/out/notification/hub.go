// Package notification provides the in-process presence hub implementing
// ports.NotificationPublisher. Live endpoints (websocket or SSE sessions)
// subscribe to channel keys like "order:<id>" or "courier:<id>"; publishes
// to channels nobody watches are dropped, which is the desired semantics
// for presence traffic.
package notification

import (
	"context"
	"sync"
)

// subscriberBuffer bounds each subscriber channel. A session that stops
// draining loses intermediate payloads rather than stalling publishers.
const subscriberBuffer = 16

type subscriber struct {
	channel string
	ch      chan any
}

// Hub is a channel-keyed fan-out for presence payloads.
// The zero value is not usable; create hubs with NewHub.
type Hub struct {
	mu          sync.Mutex
	subscribers map[int]*subscriber
	nextID      int
	closed      bool
}

// NewHub creates an empty presence hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[int]*subscriber)}
}

// Publish delivers the payload to every subscriber of the channel key.
// Never blocks and never fails: presence delivery is best effort.
func (h *Hub) Publish(_ context.Context, channel string, payload any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	for _, sub := range h.subscribers {
		if sub.channel != channel {
			continue
		}
		select {
		case sub.ch <- payload:
		default:
		}
	}

	return nil
}

// Subscribe registers a watcher for one channel key and returns its
// payload channel with a cancel function. The channel is closed on
// cancel or hub shutdown.
func (h *Hub) Subscribe(channel string) (<-chan any, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan any, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subscribers[id] = &subscriber{channel: channel, ch: ch}

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub.ch)
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

	for id, sub := range h.subscribers {
		delete(h.subscribers, id)
		close(sub.ch)
	}
}
