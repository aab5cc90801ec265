package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrTrackOrderQueryIsNotConstructed = errors.New(
	"TrackOrderQuery must be created via NewTrackOrderQuery constructor",
)

// TrackOrderQuery retrieves the tracking view of one order: current
// status, the full status history, and a summary of the assigned courier.
type TrackOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewTrackOrderQuery creates a tracking query for one order.
func NewTrackOrderQuery(orderID kernel.UUID) (TrackOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return TrackOrderQuery{}, err
	}

	return TrackOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q TrackOrderQuery) Validate() error {
	return q.guard.Validate(ErrTrackOrderQueryIsNotConstructed)
}

// OrderID returns the tracked order.
func (q TrackOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// TrackOrderHistoryEntry is one recorded status transition.
type TrackOrderHistoryEntry struct {
	Status    string
	Timestamp time.Time
	Note      string
}

// TrackOrderCourierSummary describes the assigned courier, if any.
type TrackOrderCourierSummary struct {
	ID            kernel.UUID
	RatingAverage float64
}

// TrackOrderQueryResponse is the tracking view returned to customers.
type TrackOrderQueryResponse struct {
	ID                    kernel.UUID
	Status                string
	Courier               *TrackOrderCourierSummary
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	History               []TrackOrderHistoryEntry
}
