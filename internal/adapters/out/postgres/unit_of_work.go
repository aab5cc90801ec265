// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. A unit of work spans one business operation: it opens a transaction,
// hands out repositories bound to that transaction, tracks every aggregate the
// operation touches, and on commit publishes a snapshot of each changed order
// to the in-process change feed.
//
// Commit-then-publish is the feed's delivery contract: a snapshot is only
// published after its transaction is durable, so feed consumers never observe
// state that was rolled back. Publishing itself is fire-and-forget.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, feed)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Update(ctx, order); err != nil {
//	    return err
//	}
//	if err := uow.CourierRepository().Update(ctx, courier); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance is single-use and not safe for concurrent use;
// concurrent operations take separate instances from the factory.
package postgres

import (
	"context"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using a shared GORM
// database connection and change feed. The factory ensures each business
// operation gets a fresh unit of work with its own transaction state.
type GormUnitOfWorkFactory struct {
	db   *gorm.DB
	feed ports.OrderFeed
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. The feed receives a snapshot of every order committed through
// units of this factory; a nil feed disables publishing.
func NewGormUnitOfWorkFactory(db *gorm.DB, feed ports.OrderFeed) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, feed: feed}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		feed:              f.feed,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates changed within it. Repositories obtained from the unit of work
// execute inside its transaction and register every aggregate they write;
// Commit makes the changes durable and then feeds the tracked order
// snapshots to subscribers.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	feed              ports.OrderFeed
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Calling Begin again on an instance with an open transaction is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction and
// publishes one snapshot per tracked order to the change feed. When an
// order was written more than once in the transaction, only its final
// state is published. Returns gorm.ErrInvalidTransaction if no
// transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	uow.publishOrderSnapshots()
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards all changes made within the current transaction along
// with the tracked aggregates, so nothing reaches the feed.
// Returns gorm.ErrInvalidTransaction if no transaction is open.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// CourierRepository provides courier persistence bound to the current
// transaction, or to the main connection when no transaction is open.
func (uow *GormUnitOfWork) CourierRepository() ports.CourierRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return courierrepo.NewGormCourierRepository(db, uow)
}

// OrderRepository provides order persistence bound to the current
// transaction, or to the main connection when no transaction is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Repository implementations call this on every successful write;
// tracked orders become feed snapshots after commit.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// publishOrderSnapshots feeds the final state of every tracked order to
// the change feed. Non-order aggregates are tracked but not published.
func (uow *GormUnitOfWork) publishOrderSnapshots() {
	if uow.feed == nil {
		return
	}

	lastIndex := make(map[kernel.UUID]int, len(uow.trackedAggregates))
	for i, tracked := range uow.trackedAggregates {
		if _, ok := tracked.Aggregate.(*order.Order); ok {
			lastIndex[tracked.ID] = i
		}
	}

	for i, tracked := range uow.trackedAggregates {
		if lastIndex[tracked.ID] != i {
			continue
		}
		if aggregate, ok := tracked.Aggregate.(*order.Order); ok {
			uow.feed.Publish(ports.NewOrderSnapshot(aggregate))
		}
	}
}
