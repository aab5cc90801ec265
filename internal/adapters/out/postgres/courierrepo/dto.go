// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// The three order ID sets are stored as Postgres text arrays: they are small,
// always read and written with the courier, and never queried independently.
type CourierDTO struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	IsAvailable        bool           `gorm:"not null"`
	IsVerified         bool           `gorm:"not null"`
	Longitude          *float64       `gorm:"type:double precision"`
	Latitude           *float64       `gorm:"type:double precision"`
	ActiveOrderIDs     pq.StringArray `gorm:"type:text[]"`
	RejectedOrderIDs   pq.StringArray `gorm:"type:text[]"`
	DeliveryHistoryIDs pq.StringArray `gorm:"type:text[]"`
	RatingTotalScore   int            `gorm:"type:int;not null"`
	RatingCount        int            `gorm:"type:int;not null"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	var longitude, latitude *float64
	if loc := aggregate.Location(); loc != nil {
		lon, lat := loc.Longitude(), loc.Latitude()
		longitude, latitude = &lon, &lat
	}

	return CourierDTO{
		ID:                 aggregate.ID().Bytes(),
		UserID:             aggregate.UserID().Bytes(),
		IsAvailable:        aggregate.IsAvailable(),
		IsVerified:         aggregate.IsVerified(),
		Longitude:          longitude,
		Latitude:           latitude,
		ActiveOrderIDs:     idsToStrings(aggregate.ActiveOrderIDs()),
		RejectedOrderIDs:   idsToStrings(aggregate.RejectedOrderIDs()),
		DeliveryHistoryIDs: idsToStrings(aggregate.DeliveryHistoryIDs()),
		RatingTotalScore:   aggregate.Rating().TotalScore(),
		RatingCount:        aggregate.Rating().Count(),
	}
}

// toDomain converts a database DTO to a courier domain aggregate.
// Reconstructs the complete aggregate including order sets and rating
// using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Longitude != nil && dto.Latitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Longitude, *dto.Latitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	activeOrderIDs, err := stringsToIDs(dto.ActiveOrderIDs)
	if err != nil {
		return nil, err
	}

	rejectedOrderIDs, err := stringsToIDs(dto.RejectedOrderIDs)
	if err != nil {
		return nil, err
	}

	deliveryHistoryIDs, err := stringsToIDs(dto.DeliveryHistoryIDs)
	if err != nil {
		return nil, err
	}

	rating, err := courier.RestoreRating(dto.RatingTotalScore, dto.RatingCount)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(
		id,
		userID,
		dto.IsAvailable,
		dto.IsVerified,
		location,
		activeOrderIDs,
		rejectedOrderIDs,
		deliveryHistoryIDs,
		rating,
	)
}

// idsToStrings maps domain UUIDs to their text-array representation.
func idsToStrings(ids []kernel.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// stringsToIDs parses a stored text array back into domain UUIDs.
func stringsToIDs(values pq.StringArray) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(values))
	for _, value := range values {
		id, err := kernel.UUIDFromString(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
