package orderrepo

import (
	"context"
	"errors"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// metersPerDegreeLatitude is the approximate ground distance covered by
// one degree of latitude. Used to size the bounding-box prefilter; the
// exact radius check happens in the domain.
const metersPerDegreeLatitude = 111320.0

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database, upserting its lines
// and appending any new history rows.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// Use Session with FullSaveAssociations to properly update nested associations
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateIfUnassigned performs the conditional write that decides claim
// races: the assignment lands only while the stored row still has no
// courier. A lost race touches zero rows and returns order.ErrAlreadyAssigned.
func (r *GormOrderRepository) UpdateIfUnassigned(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND courier_id IS NULL", dto.ID).
		Updates(map[string]any{
			"status":                  dto.Status,
			"courier_id":              dto.CourierID,
			"estimated_delivery_time": dto.EstimatedDeliveryTime,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return order.ErrAlreadyAssigned
	}

	// The claim won; persist the remaining state and the new history rows.
	if err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID with its lines and status history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetConfirmedUnassignedNear retrieves confirmed, unassigned orders whose
// pickup point falls inside a bounding box of radiusMeters around center.
// The box deliberately over-selects; callers re-check the exact radius.
func (r *GormOrderRepository) GetConfirmedUnassignedNear(
	ctx context.Context,
	center kernel.GeoPoint,
	radiusMeters float64,
) ([]*order.Order, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("radiusMeters", radiusMeters, 0, math.MaxFloat64)
	}

	latDelta := radiusMeters / metersPerDegreeLatitude

	// Longitude degrees shrink toward the poles; clamp the scale so the
	// box stays finite at extreme latitudes.
	lonScale := math.Cos(center.Latitude() * math.Pi / 180)
	if lonScale < 0.01 {
		lonScale = 0.01
	}
	lonDelta := radiusMeters / (metersPerDegreeLatitude * lonScale)

	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("status = ? AND courier_id IS NULL", order.Confirmed.String()).
		Where("pickup_latitude BETWEEN ? AND ?", center.Latitude()-latDelta, center.Latitude()+latDelta).
		Where("pickup_longitude BETWEEN ? AND ?", center.Longitude()-lonDelta, center.Longitude()+lonDelta).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetActiveByIDs retrieves the orders with the given IDs that are still
// in an active status. Missing or terminal orders are silently skipped.
func (r *GormOrderRepository) GetActiveByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("id IN ?", raw).
		Where("status IN ?", activeStatuses()).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetOutForDeliveryByCourier retrieves the courier's in-flight orders.
func (r *GormOrderRepository) GetOutForDeliveryByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("courier_id = ? AND status = ?", courierID.Bytes(), order.OutForDelivery.String()).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetActiveOrderIDsByCourier recomputes, from order rows alone, the IDs
// of non-terminal orders assigned to the courier.
func (r *GormOrderRepository) GetActiveOrderIDsByCourier(ctx context.Context, courierID kernel.UUID) ([]kernel.UUID, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("courier_id = ? AND status IN ?", courierID.Bytes(), activeStatuses()).
		Order("id").
		Pluck("id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, idErr := kernel.UUIDFromBytes(r[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// preloaded returns a query with the order's lines and history eagerly
// loaded in a stable order.
func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

// activeStatuses lists the stored status values a courier still has work on.
func activeStatuses() []string {
	return []string{
		order.Confirmed.String(),
		order.Preparing.String(),
		order.OutForDelivery.String(),
	}
}

// toDomainAll maps a result set of DTOs to aggregates.
func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
