package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// TrackOrderQueryHandler builds the tracking view straight from the
// database with raw SQL, bypassing aggregate hydration.
type TrackOrderQueryHandler struct {
	db *gorm.DB
}

// NewTrackOrderQueryHandler creates a handler for order tracking queries.
// Requires a GORM database connection for query execution.
func NewTrackOrderQueryHandler(db *gorm.DB) TrackOrderQueryHandler {
	return TrackOrderQueryHandler{db: db}
}

// Handle returns the tracking view of one order, with the courier summary
// joined in when a courier is assigned. Returns errs.ErrObjectNotFound
// for unknown orders.
func (h TrackOrderQueryHandler) Handle(ctx context.Context, query TrackOrderQuery) (TrackOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return TrackOrderQueryResponse{}, err
	}

	var (
		id                 uuid.UUID
		status             string
		courierID          *uuid.UUID
		estimated          sql.NullTime
		actual             sql.NullTime
		courierRatingTotal sql.NullInt64
		courierRatingCount sql.NullInt64
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.status,
			o.courier_id,
			o.estimated_delivery_time,
			o.actual_delivery_time,
			c.rating_total_score,
			c.rating_count
		FROM orders o
		LEFT JOIN couriers c ON c.id = o.courier_id
		WHERE o.id = ?
	`, query.OrderID().String()).Row()

	err := row.Scan(&id, &status, &courierID, &estimated, &actual, &courierRatingTotal, &courierRatingCount)
	if errors.Is(err, sql.ErrNoRows) {
		return TrackOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}

	response := TrackOrderQueryResponse{
		ID:     orderID,
		Status: status,
	}
	if estimated.Valid {
		t := estimated.Time
		response.EstimatedDeliveryTime = &t
	}
	if actual.Valid {
		t := actual.Time
		response.ActualDeliveryTime = &t
	}

	if courierID != nil {
		summaryID, idErr := kernel.UUIDFromBytes(courierID[:])
		if idErr != nil {
			return TrackOrderQueryResponse{}, idErr
		}

		summary := &TrackOrderCourierSummary{ID: summaryID}
		if courierRatingCount.Valid && courierRatingCount.Int64 > 0 {
			summary.RatingAverage = float64(courierRatingTotal.Int64) / float64(courierRatingCount.Int64)
		}
		response.Courier = summary
	}

	history, err := h.loadHistory(ctx, query)
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}
	response.History = history

	return response, nil
}

func (h TrackOrderQueryHandler) loadHistory(ctx context.Context, query TrackOrderQuery) ([]TrackOrderHistoryEntry, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			timestamp,
			note
		FROM order_history
		WHERE order_id = ?
		ORDER BY seq
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]TrackOrderHistoryEntry, 0)
	for rows.Next() {
		var (
			entryStatus string
			timestamp   time.Time
			note        sql.NullString
		)

		if err = rows.Scan(&entryStatus, &timestamp, &note); err != nil {
			return nil, err
		}

		history = append(history, TrackOrderHistoryEntry{
			Status:    entryStatus,
			Timestamp: timestamp,
			Note:      note.String,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
