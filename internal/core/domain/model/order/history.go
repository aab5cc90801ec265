package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrHistoryEntryIsNotConstructed is returned when using an improperly
// initialized HistoryEntry.
var ErrHistoryEntryIsNotConstructed = errs.NewValueIsRequiredError(
	"history entry must be created via NewHistoryEntry constructor")

// HistoryEntry is an immutable record of one order state transition.
// The status history is append-only: entries are never edited or removed
// once an order has passed through a state.
type HistoryEntry struct {
	status    Status
	timestamp time.Time
	location  *kernel.GeoPoint
	note      string
	guard     guard.ConstructorGuard
}

// NewHistoryEntry creates a history record for a transition into status
// at the given time. Location is optional and captures where the courier
// was when the transition happened; note is free-form operator/courier
// context and may be empty.
func NewHistoryEntry(status Status, timestamp time.Time, location *kernel.GeoPoint, note string) (HistoryEntry, error) {
	if err := status.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if timestamp.IsZero() {
		return HistoryEntry{}, errs.NewValueIsRequiredError("timestamp")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return HistoryEntry{}, err
		}
	}

	return HistoryEntry{
		status:    status,
		timestamp: timestamp,
		location:  location,
		note:      note,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the HistoryEntry was properly constructed.
func (h HistoryEntry) Validate() error {
	return h.guard.Validate(ErrHistoryEntryIsNotConstructed)
}

// Status returns the status the order transitioned into.
func (h HistoryEntry) Status() Status {
	return h.status
}

// Timestamp returns when the transition happened.
func (h HistoryEntry) Timestamp() time.Time {
	return h.timestamp
}

// Location returns where the transition happened, or nil if not captured.
func (h HistoryEntry) Location() *kernel.GeoPoint {
	return h.location
}

// Note returns the free-form context attached to the transition.
func (h HistoryEntry) Note() string {
	return h.note
}
