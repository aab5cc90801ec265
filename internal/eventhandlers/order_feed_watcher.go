// Package eventhandlers contains long-lived background consumers of the
// in-process order change feed.
package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dispatch/internal/core/ports"
)

// OrderFeedWatcher is the single consumer of the order change feed. For
// every committed order snapshot it fans out to the presence channels of
// the parties that can see the order, and mirrors the snapshot to the
// external order-changed topic.
//
// Delivery is current-snapshot-only: a subscriber that attaches late sees
// future changes, never a replay. If the watcher's own subscription is
// closed underneath it, it resubscribes and carries on.
type OrderFeedWatcher struct {
	feed      ports.OrderFeed
	publisher ports.NotificationPublisher
	mirror    ports.OrderChangePublisher
	logger    *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewOrderFeedWatcher creates a watcher. The mirror may be nil when no
// external broker is configured; fan-out then stays in-process only.
func NewOrderFeedWatcher(
	feed ports.OrderFeed,
	publisher ports.NotificationPublisher,
	mirror ports.OrderChangePublisher,
	logger *slog.Logger,
) *OrderFeedWatcher {
	return &OrderFeedWatcher{
		feed:      feed,
		publisher: publisher,
		mirror:    mirror,
		logger:    logger.With("component", "order_feed_watcher"),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start subscribes to the feed and launches the watcher loop in its own
// goroutine. The subscription is taken before Start returns, so snapshots
// committed from this point on are never dropped.
func (w *OrderFeedWatcher) Start() {
	snapshots, cancel := w.feed.Subscribe()
	go w.run(snapshots, cancel)
	w.logger.Info("order feed watcher started")
}

// Stop terminates the watcher and waits for the loop to drain.
func (w *OrderFeedWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
	<-w.done
	w.logger.Info("order feed watcher stopped")
}

func (w *OrderFeedWatcher) run(snapshots <-chan ports.OrderSnapshot, cancel func()) {
	defer close(w.done)
	defer func() { cancel() }()

	for {
		select {
		case <-w.stop:
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				// Subscription lost; resubscribe unless shutting down.
				select {
				case <-w.stop:
					return
				default:
				}
				snapshots, cancel = w.feed.Subscribe()
				w.logger.Info("order feed watcher resubscribed")
				continue
			}
			w.fanOut(snapshot)
		}
	}
}

func (w *OrderFeedWatcher) fanOut(snapshot ports.OrderSnapshot) {
	ctx := context.Background()

	channels := []string{
		fmt.Sprintf(ports.OrderChannelPattern, snapshot.OrderID),
		fmt.Sprintf(ports.CustomerChannelPattern, snapshot.OwnerID),
	}
	if snapshot.CourierID != nil {
		channels = append(channels, fmt.Sprintf(ports.CourierChannelPattern, *snapshot.CourierID))
	}

	for _, channel := range channels {
		if err := w.publisher.Publish(ctx, channel, snapshot); err != nil {
			w.logger.WarnContext(ctx, "order change fan-out failed",
				"channel", channel, "order_id", snapshot.OrderID, "error", err)
		}
	}

	if w.mirror == nil {
		return
	}
	if err := w.mirror.PublishOrderChanged(ctx, snapshot); err != nil {
		w.logger.WarnContext(ctx, "order change mirror publish failed",
			"order_id", snapshot.OrderID, "error", err)
	}
}
