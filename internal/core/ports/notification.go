package ports

import (
	"context"
	"time"
)

// Presence channel name patterns. The feed watcher republishes every
// order change to the channels of the parties that can see the order;
// the location broadcaster publishes courier positions to order channels.
const (
	// OrderChannelPattern is the per-order channel: order:{orderID}.
	OrderChannelPattern = "order:%s"

	// CustomerChannelPattern is the owning customer's channel: customer:{userID}.
	CustomerChannelPattern = "customer:%s"

	// CourierChannelPattern is the assigned courier's channel: courier:{courierID}.
	CourierChannelPattern = "courier:%s"
)

// LocationUpdate is the payload broadcast to an order's channel when the
// assigned courier reports a new position.
type LocationUpdate struct {
	OrderID   string    `json:"order_id"`
	CourierID string    `json:"courier_id"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationPublisher delivers payloads to named presence channels,
// behind which sit the live subscriptions of customers, couriers, and
// operators. Delivery is at-most-once; publish failures are advisory and
// never fail the operation that triggered them.
type NotificationPublisher interface {
	// Publish delivers a payload to one channel. Implementations must
	// tolerate channels that currently have no listeners.
	Publish(ctx context.Context, channel string, payload any) error
}
