package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The order store is the single source of truth for courier assignment;
// every projection (courier active sets, feeds) derives from it.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateIfUnassigned persists the aggregate only while the stored row
	// still has no courier. This is the conditional write that decides
	// claim races: when another courier got there first, the write touches
	// no rows and order.ErrAlreadyAssigned is returned.
	UpdateIfUnassigned(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with items and status history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetConfirmedUnassignedNear retrieves confirmed, unassigned orders
	// whose pickup point falls inside a bounding box of radiusMeters
	// around the center. The box is a storage-level prefilter; callers
	// re-check the exact radius in the domain.
	GetConfirmedUnassignedNear(ctx context.Context, center kernel.GeoPoint, radiusMeters float64) ([]*order.Order, error)

	// GetActiveByIDs retrieves the orders with the given IDs that are
	// still in an active status (confirmed, preparing, out_for_delivery).
	// Missing or terminal orders are silently skipped.
	GetActiveByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error)

	// GetOutForDeliveryByCourier retrieves the courier's in-flight orders.
	GetOutForDeliveryByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error)

	// GetActiveOrderIDsByCourier recomputes, from order rows alone, the
	// IDs of non-terminal orders assigned to the courier. Used to rebuild
	// the courier's active-order projection.
	GetActiveOrderIDsByCourier(ctx context.Context, courierID kernel.UUID) ([]kernel.UUID, error)
}
