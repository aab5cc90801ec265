package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// EstimatedDeliveryWindow is the delivery estimate applied when a
// courier claims an order.
const EstimatedDeliveryWindow = 30 * time.Minute

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrInvalidStatusTransition is returned when an operation would move the
	// order against the monotonic status chain.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// ErrAlreadyAssigned is returned when a courier tries to claim an order
	// that already carries a courier. Callers losing this race must re-query
	// for nearby orders rather than retry the same order.
	ErrAlreadyAssigned = errors.New("order is already assigned to a courier")

	// ErrOrderNotAssignedToCourier is returned when a courier operates on an
	// order that is assigned to somebody else or to nobody.
	ErrOrderNotAssignedToCourier = errors.New("order is not assigned to this courier")

	// ErrItemsAreRequired is returned when attempting to create an order
	// without any items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order represents a marketplace delivery order. It is the aggregate root
// that manages the order lifecycle from creation through courier
// assignment to delivery, and it is the single source of truth for
// courier assignment: Courier.activeOrderIDs is only a projection of it.
//
// Order enforces these invariants:
//   - at most one courier is assigned at a time
//   - a courier is only set on the transition into OutForDelivery
//   - status transitions are monotonic; Cancelled is reachable from any
//     non-terminal status
//   - the status history is append-only and records every transition
type Order struct {
	id                    kernel.UUID
	ownerID               kernel.UUID
	items                 []Item
	pickupPoint           kernel.GeoPoint
	deliveryPoint         kernel.GeoPoint
	status                Status
	courierID             *kernel.UUID
	history               []HistoryEntry
	estimatedDeliveryTime *time.Time
	actualDeliveryTime    *time.Time
	guard                 guard.ConstructorGuard
}

// NewOrder creates a new Order in Processing status with an initial
// history entry. This is the only way to create a fresh order.
//
// Parameters:
//   - id: unique order identifier
//   - ownerID: the customer who placed the order
//   - items: at least one order line
//   - pickupPoint: where the courier collects the order
//   - deliveryPoint: where the order is delivered
func NewOrder(
	id kernel.UUID,
	ownerID kernel.UUID,
	items []Item,
	pickupPoint kernel.GeoPoint,
	deliveryPoint kernel.GeoPoint,
) (*Order, error) {
	o := &Order{
		status: Processing,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOwnerID(ownerID),
		o.setItems(items),
		o.setPickupPoint(pickupPoint),
		o.setDeliveryPoint(deliveryPoint),
	); err != nil {
		return nil, err
	}

	if err := o.appendHistory(Processing, nil, "order created"); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder it accepts the complete persisted state, including the
// status history and delivery timestamps, and performs full validation.
func RestoreOrder(
	id kernel.UUID,
	ownerID kernel.UUID,
	items []Item,
	pickupPoint kernel.GeoPoint,
	deliveryPoint kernel.GeoPoint,
	status Status,
	courierID *kernel.UUID,
	history []HistoryEntry,
	estimatedDeliveryTime *time.Time,
	actualDeliveryTime *time.Time,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOwnerID(ownerID),
		o.setItems(items),
		o.setPickupPoint(pickupPoint),
		o.setDeliveryPoint(deliveryPoint),
		o.setStatus(status),
		o.setCourierID(courierID),
		o.setHistory(history),
	); err != nil {
		return nil, err
	}

	o.estimatedDeliveryTime = estimatedDeliveryTime
	o.actualDeliveryTime = actualDeliveryTime
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OwnerID returns the identifier of the customer who placed the order.
func (o *Order) OwnerID() kernel.UUID {
	return o.ownerID
}

// Items returns the order lines. The returned slice is a copy.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// PickupPoint returns where the courier collects the order.
func (o *Order) PickupPoint() kernel.GeoPoint {
	return o.pickupPoint
}

// DeliveryPoint returns where the order is delivered.
func (o *Order) DeliveryPoint() kernel.GeoPoint {
	return o.deliveryPoint
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Courier returns the assigned courier's ID, or nil if unassigned.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// History returns the append-only status history. The returned slice is a copy.
func (o *Order) History() []HistoryEntry {
	out := make([]HistoryEntry, len(o.history))
	copy(out, o.history)
	return out
}

// EstimatedDeliveryTime returns the delivery estimate set at claim time,
// or nil before a courier has claimed the order.
func (o *Order) EstimatedDeliveryTime() *time.Time {
	return o.estimatedDeliveryTime
}

// ActualDeliveryTime returns when the order was delivered, or nil.
func (o *Order) ActualDeliveryTime() *time.Time {
	return o.actualDeliveryTime
}

// Confirm moves the order from Processing to Confirmed, making it
// eligible for courier matching. Operator path.
func (o *Order) Confirm(note string) error {
	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.status = newStatus
	return o.appendHistory(newStatus, nil, note)
}

// StartPreparing moves the order from Confirmed to Preparing. Operator path.
func (o *Order) StartPreparing(note string) error {
	newStatus, err := o.status.Prepare()
	if err != nil {
		return err
	}

	o.status = newStatus
	return o.appendHistory(newStatus, nil, note)
}

// Assign claims the order for a courier, moving it to OutForDelivery and
// setting the delivery estimate.
//
// Business rules:
//   - the order must not already carry a courier (ErrAlreadyAssigned)
//   - the status must allow starting delivery (ErrInvalidStatusTransition)
//
// Note: this in-memory check does not replace the storage-level
// conditional write; concurrent claimers are decided by the repository's
// claim update, which only succeeds while courier_id is still null.
func (o *Order) Assign(courierID kernel.UUID, location *kernel.GeoPoint) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.courierID != nil {
		return ErrAlreadyAssigned
	}

	newStatus, err := o.status.StartDelivery()
	if err != nil {
		return err
	}

	eta := time.Now().UTC().Add(EstimatedDeliveryWindow)
	o.status = newStatus
	o.courierID = &courierID
	o.estimatedDeliveryTime = &eta
	return o.appendHistory(newStatus, location, "courier accepted order")
}

// Complete marks the order as delivered by the given courier.
//
// Business rules:
//   - the order must be assigned to exactly this courier (ErrOrderNotAssignedToCourier)
//   - the status must be OutForDelivery (ErrInvalidStatusTransition)
func (o *Order) Complete(courierID kernel.UUID, location *kernel.GeoPoint) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.courierID == nil || !o.courierID.IsEqual(courierID) {
		return ErrOrderNotAssignedToCourier
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = newStatus
	o.actualDeliveryTime = &now
	return o.appendHistory(newStatus, location, "order delivered")
}

// Cancel moves the order to Cancelled from any non-terminal status.
// Owner/operator path; inventory restoration is an external concern.
func (o *Order) Cancel(note string) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return o.appendHistory(newStatus, nil, note)
}

// appendHistory records a transition into the append-only history.
func (o *Order) appendHistory(status Status, location *kernel.GeoPoint, note string) error {
	entry, err := NewHistoryEntry(status, time.Now().UTC(), location, note)
	if err != nil {
		return err
	}

	o.history = append(o.history, entry)
	return nil
}

// setID validates and sets the order's unique identifier.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setOwnerID validates and sets the owning customer's identifier.
func (o *Order) setOwnerID(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}
	o.ownerID = ownerID
	return nil
}

// setItems validates and sets the order lines.
func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

// setPickupPoint validates and sets the pickup location.
func (o *Order) setPickupPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	o.pickupPoint = point
	return nil
}

// setDeliveryPoint validates and sets the delivery location.
func (o *Order) setDeliveryPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	o.deliveryPoint = point
	return nil
}

// setStatus validates and sets the status during restoration.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

// setCourierID validates and sets the courier during restoration.
// A courier may only be present from OutForDelivery on.
func (o *Order) setCourierID(courierID *kernel.UUID) error {
	if courierID == nil {
		return nil
	}
	if err := courierID.Validate(); err != nil {
		return err
	}

	id := *courierID
	o.courierID = &id
	return nil
}

// setHistory validates and sets the status history during restoration.
func (o *Order) setHistory(history []HistoryEntry) error {
	for _, entry := range history {
		if err := entry.Validate(); err != nil {
			return err
		}
	}

	o.history = make([]HistoryEntry, len(history))
	copy(o.history, history)
	return nil
}
