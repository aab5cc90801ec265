package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
)

// OrderSnapshot is a flattened, immutable view of an order at a point in
// time. Snapshots are what flows through the change feed: consumers never
// see the aggregate itself.
type OrderSnapshot struct {
	OrderID               string     `json:"order_id"`
	OwnerID               string     `json:"owner_id"`
	CourierID             *string    `json:"courier_id,omitempty"`
	Status                string     `json:"status"`
	PickupLongitude       float64    `json:"pickup_longitude"`
	PickupLatitude        float64    `json:"pickup_latitude"`
	DeliveryLongitude     float64    `json:"delivery_longitude"`
	DeliveryLatitude      float64    `json:"delivery_latitude"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time `json:"actual_delivery_time,omitempty"`
	ChangedAt             time.Time  `json:"changed_at"`
}

// NewOrderSnapshot captures the current state of an order aggregate.
func NewOrderSnapshot(aggregate *order.Order) OrderSnapshot {
	snapshot := OrderSnapshot{
		OrderID:               aggregate.ID().String(),
		OwnerID:               aggregate.OwnerID().String(),
		Status:                aggregate.Status().String(),
		PickupLongitude:       aggregate.PickupPoint().Longitude(),
		PickupLatitude:        aggregate.PickupPoint().Latitude(),
		DeliveryLongitude:     aggregate.DeliveryPoint().Longitude(),
		DeliveryLatitude:      aggregate.DeliveryPoint().Latitude(),
		EstimatedDeliveryTime: aggregate.EstimatedDeliveryTime(),
		ActualDeliveryTime:    aggregate.ActualDeliveryTime(),
		ChangedAt:             time.Now().UTC(),
	}

	if courierID := aggregate.Courier(); courierID != nil {
		id := courierID.String()
		snapshot.CourierID = &id
	}

	return snapshot
}

// OrderFeed is the in-process change feed for order snapshots. Producers
// are units of work publishing on commit; the consumer is the feed
// watcher that fans snapshots out to interested parties.
type OrderFeed interface {
	// Publish delivers a snapshot to all current subscribers. Slow
	// subscribers never block the publisher.
	Publish(snapshot OrderSnapshot)

	// Subscribe registers a new subscriber and returns its channel along
	// with a cancel function. The channel is closed on cancel or when the
	// feed shuts down.
	Subscribe() (<-chan OrderSnapshot, func())

	// Close shuts the feed down and closes all subscriber channels.
	Close()
}

// OrderChangePublisher mirrors order snapshots to an external message
// broker for consumers outside this process.
type OrderChangePublisher interface {
	// PublishOrderChanged sends one snapshot, keyed by order ID so a
	// given order's changes stay ordered.
	PublishOrderChanged(ctx context.Context, snapshot OrderSnapshot) error

	// Close flushes and releases broker resources.
	Close() error
}
