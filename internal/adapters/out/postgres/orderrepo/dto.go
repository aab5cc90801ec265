// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by status, courier assignment, and pickup coordinates.
type OrderDTO struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID               uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status                string     `gorm:"type:varchar(32);not null;index"`
	CourierID             *uuid.UUID `gorm:"type:uuid;index"`
	PickupLongitude       float64    `gorm:"type:double precision;not null;index"`
	PickupLatitude        float64    `gorm:"type:double precision;not null;index"`
	DeliveryLongitude     float64    `gorm:"type:double precision;not null"`
	DeliveryLatitude      float64    `gorm:"type:double precision;not null"`
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	Items                 []ItemDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History               []HistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line in the database. Lines are immutable
// after creation and keyed by their position within the order.
type ItemDTO struct {
	OrderID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LineNo         int       `gorm:"primaryKey"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null"`
	Quantity       int       `gorm:"type:int;not null"`
	UnitPriceCents int64     `gorm:"type:bigint;not null"`
}

// TableName specifies the database table name for order line entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// HistoryDTO represents one persisted status transition. Entries are
// append-only and keyed by their sequence within the order, so reads
// ordered by seq reproduce the transition order exactly.
type HistoryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey"`
	Status    string    `gorm:"type:varchar(32);not null"`
	Timestamp time.Time `gorm:"not null"`
	Note      string    `gorm:"type:text"`
	Longitude *float64  `gorm:"type:double precision"`
	Latitude  *float64  `gorm:"type:double precision"`
}

// TableName specifies the database table name for order history entities.
func (HistoryDTO) TableName() string {
	return "order_history"
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including lines, history, and optional courier assignment.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:        orderID,
			LineNo:         i + 1,
			ProductID:      item.ProductID().Bytes(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPriceCents(),
		})
	}

	history := make([]HistoryDTO, 0, len(aggregate.History()))
	for i, entry := range aggregate.History() {
		var longitude, latitude *float64
		if loc := entry.Location(); loc != nil {
			lon, lat := loc.Longitude(), loc.Latitude()
			longitude, latitude = &lon, &lat
		}

		history = append(history, HistoryDTO{
			OrderID:   orderID,
			Seq:       i + 1,
			Status:    entry.Status().String(),
			Timestamp: entry.Timestamp(),
			Note:      entry.Note(),
			Longitude: longitude,
			Latitude:  latitude,
		})
	}

	return OrderDTO{
		ID:                    orderID,
		OwnerID:               aggregate.OwnerID().Bytes(),
		Status:                aggregate.Status().String(),
		CourierID:             courierID,
		PickupLongitude:       aggregate.PickupPoint().Longitude(),
		PickupLatitude:        aggregate.PickupPoint().Latitude(),
		DeliveryLongitude:     aggregate.DeliveryPoint().Longitude(),
		DeliveryLatitude:      aggregate.DeliveryPoint().Latitude(),
		EstimatedDeliveryTime: aggregate.EstimatedDeliveryTime(),
		ActualDeliveryTime:    aggregate.ActualDeliveryTime(),
		Items:                 items,
		History:               history,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including lines, status history,
// and courier assignment using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}

		courierID = &cID
	}

	pickup, err := kernel.NewGeoPoint(dto.PickupLongitude, dto.PickupLatitude)
	if err != nil {
		return nil, err
	}

	delivery, err := kernel.NewGeoPoint(dto.DeliveryLongitude, dto.DeliveryLatitude)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		item, itemErr := itemToDomain(itemDto)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, entryDto := range dto.History {
		entry, entryErr := historyToDomain(entryDto)
		if entryErr != nil {
			return nil, entryErr
		}
		history = append(history, entry)
	}

	return order.RestoreOrder(
		id,
		ownerID,
		items,
		pickup,
		delivery,
		status,
		courierID,
		history,
		dto.EstimatedDeliveryTime,
		dto.ActualDeliveryTime,
	)
}

// itemToDomain converts an order line DTO to its domain value object.
func itemToDomain(dto ItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(productID, dto.Quantity, dto.UnitPriceCents)
}

// historyToDomain converts a history row to its domain value object.
func historyToDomain(dto HistoryDTO) (order.HistoryEntry, error) {
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return order.HistoryEntry{}, err
	}

	var location *kernel.GeoPoint
	if dto.Longitude != nil && dto.Latitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Longitude, *dto.Latitude)
		if pointErr != nil {
			return order.HistoryEntry{}, pointErr
		}
		location = &point
	}

	return order.NewHistoryEntry(status, dto.Timestamp, location, dto.Note)
}
