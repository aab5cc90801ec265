// Package ports defines repository and messaging interfaces for the dispatch domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
// Provides methods for storing, retrieving, and querying courier entities
// with their complete state including order sets and rating.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	// The courier must exist in the repository and be valid.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetByUserID retrieves the courier backed by the given account, if any.
	GetByUserID(ctx context.Context, userID kernel.UUID) (*courier.Courier, error)

	// GetAll retrieves every courier. Used by the active-order
	// reconciliation job to rebuild projections in bulk.
	GetAll(ctx context.Context) ([]*courier.Courier, error)
}
