// Package queries contains read-side operations of the CQRS split.
// Queries never mutate state: they either compose repository reads with
// domain services or go straight to the database with raw SQL.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrNearbyOrdersQueryIsNotConstructed = errors.New(
	"NearbyOrdersQuery must be created via NewNearbyOrdersQuery constructor",
)

// NearbyOrdersQuery asks for the orders a courier can currently work on:
// confirmed unassigned orders within the dispatch radius of the courier's
// location, minus the courier's rejections, plus the courier's own
// in-flight deliveries.
type NearbyOrdersQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewNearbyOrdersQuery creates a nearby-orders query for one courier.
func NewNearbyOrdersQuery(courierID kernel.UUID) (NearbyOrdersQuery, error) {
	if err := courierID.Validate(); err != nil {
		return NearbyOrdersQuery{}, err
	}

	return NearbyOrdersQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q NearbyOrdersQuery) Validate() error {
	return q.guard.Validate(ErrNearbyOrdersQueryIsNotConstructed)
}

// CourierID returns the courier requesting work.
func (q NearbyOrdersQuery) CourierID() kernel.UUID {
	return q.courierID
}

// NearbyOrderResponse is one entry of the nearby-orders result: enough
// for the courier app to render the offer and decide to claim or decline.
type NearbyOrderResponse struct {
	ID                    kernel.UUID
	Status                string
	PickupPoint           kernel.GeoPoint
	DeliveryPoint         kernel.GeoPoint
	DistanceMeters        float64
	Mine                  bool
	EstimatedDeliveryTime *time.Time
}
