package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine whose transitions are monotonic along
//
//	Processing ──> Confirmed ──> Preparing ──> OutForDelivery ──> Delivered
//
// with Cancelled reachable from any non-terminal state. Delivered and
// Cancelled are terminal.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Processing is the initial status when an order is first created.
	// The order is awaiting operator confirmation.
	Processing

	// Confirmed indicates the order has been confirmed and is eligible
	// for courier matching.
	Confirmed

	// Preparing indicates the marketplace is preparing the order.
	Preparing

	// OutForDelivery indicates a courier has claimed the order and is
	// delivering it. An order only carries a courier from this status on.
	OutForDelivery

	// Delivered indicates the order has been successfully delivered.
	// This is a terminal state.
	Delivered

	// Cancelled indicates the order was cancelled by its owner or an
	// operator. This is a terminal state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Processing:     "processing",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Processing:     "processing",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// StatusFromString parses a Status from its persisted snake_case name.
// Returns a validation error for unrecognized names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a known status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted snake_case name of the status.
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsActive reports whether an order in this status counts toward a
// courier's active workload: Confirmed, Preparing, or OutForDelivery.
func (s Status) IsActive() bool {
	return s == Confirmed || s == Preparing || s == OutForDelivery
}

// Confirm transitions the status to Confirmed.
//
// Valid transitions:
//   - Processing -> Confirmed
func (s Status) Confirm() (Status, error) {
	if s != Processing {
		return 0, fmt.Errorf("%w: cannot confirm order in status %s", ErrInvalidStatusTransition, s)
	}
	return Confirmed, nil
}

// Prepare transitions the status to Preparing.
//
// Valid transitions:
//   - Confirmed -> Preparing
func (s Status) Prepare() (Status, error) {
	if s != Confirmed {
		return 0, fmt.Errorf("%w: cannot start preparing order in status %s", ErrInvalidStatusTransition, s)
	}
	return Preparing, nil
}

// StartDelivery transitions the status to OutForDelivery.
//
// Valid transitions:
//   - Confirmed -> OutForDelivery (courier claims a matched order)
//   - Preparing -> OutForDelivery (claim after preparation started)
//
// Matching only offers confirmed orders, but a claim may land after an
// operator has already moved the order to Preparing; preparation does
// not withdraw the order from its claimer.
func (s Status) StartDelivery() (Status, error) {
	if s != Confirmed && s != Preparing {
		return 0, fmt.Errorf("%w: cannot start delivery of order in status %s", ErrInvalidStatusTransition, s)
	}
	return OutForDelivery, nil
}

// Deliver transitions the status to Delivered.
//
// Valid transitions:
//   - OutForDelivery -> Delivered
func (s Status) Deliver() (Status, error) {
	if s != OutForDelivery {
		return 0, fmt.Errorf("%w: cannot deliver order in status %s", ErrInvalidStatusTransition, s)
	}
	return Delivered, nil
}

// Cancel transitions the status to Cancelled.
// Cancellation is allowed from any valid non-terminal status.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.IsTerminal() {
		return 0, fmt.Errorf("%w: cannot cancel order in status %s", ErrInvalidStatusTransition, s)
	}
	return Cancelled, nil
}
