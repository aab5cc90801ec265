package courier

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")

	// ErrCourierNotVerified is returned when an unverified courier attempts a
	// dispatch operation. Verification is granted by an external collaborator.
	ErrCourierNotVerified = errors.New("courier is not verified")

	// ErrCourierNotAvailable is returned when a courier who has toggled
	// themselves unavailable attempts a dispatch operation.
	ErrCourierNotAvailable = errors.New("courier is not available")

	// ErrLocationRequired is returned when a dispatch operation needs the
	// courier's location but none has been reported yet.
	ErrLocationRequired = errors.New("courier location is required")

	// ErrOrderNotActive is returned when completing a delivery the courier
	// does not hold in their active set.
	ErrOrderNotActive = errors.New("order is not in the courier's active set")
)

// Courier represents a delivery-agent account, distinct from an ordinary
// customer account. It is an aggregate root that manages the courier's
// dispatch readiness and per-courier order bookkeeping.
//
// Key responsibilities:
//   - Tracking availability and verification state
//   - Holding the last reported location for radius matching
//   - Maintaining the per-courier rejection set (exclusion filter)
//   - Projecting the courier's active orders and delivery history
//
// Business rules:
//   - A courier is created unverified and unavailable
//   - Matching and claiming require verification and availability
//   - rejectedOrderIDs grows monotonically and never filters other couriers
//   - activeOrderIDs mirrors Order-store truth and is rebuildable from it
type Courier struct {
	id                 kernel.UUID
	userID             kernel.UUID
	isAvailable        bool
	isVerified         bool
	location           *kernel.GeoPoint
	activeOrderIDs     []kernel.UUID
	rejectedOrderIDs   []kernel.UUID
	deliveryHistoryIDs []kernel.UUID
	rating             Rating
	guard              guard.ConstructorGuard
}

// NewCourier creates a courier at registration time: unverified,
// unavailable, with no reported location and empty order sets.
func NewCourier(id kernel.UUID, userID kernel.UUID) (*Courier, error) {
	c := &Courier{
		rating: NewRating(),
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setUserID(userID),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage,
// preserving availability, verification, location, order sets, and rating.
func RestoreCourier(
	id kernel.UUID,
	userID kernel.UUID,
	isAvailable bool,
	isVerified bool,
	location *kernel.GeoPoint,
	activeOrderIDs []kernel.UUID,
	rejectedOrderIDs []kernel.UUID,
	deliveryHistoryIDs []kernel.UUID,
	rating Rating,
) (*Courier, error) {
	c := &Courier{
		isAvailable: isAvailable,
		isVerified:  isVerified,
		rating:      rating,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setUserID(userID),
		c.setLocation(location),
		c.setActiveOrderIDs(activeOrderIDs),
		c.setRejectedOrderIDs(rejectedOrderIDs),
		c.setDeliveryHistoryIDs(deliveryHistoryIDs),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks if the Courier was properly constructed.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// UserID returns the identity-provider account backing this courier.
func (c *Courier) UserID() kernel.UUID {
	return c.userID
}

// IsAvailable reports whether the courier is currently taking orders.
func (c *Courier) IsAvailable() bool {
	return c.isAvailable
}

// IsVerified reports whether the external verification collaborator has
// cleared this courier for activity.
func (c *Courier) IsVerified() bool {
	return c.isVerified
}

// Location returns the last reported location, or nil if the courier has
// never reported one.
func (c *Courier) Location() *kernel.GeoPoint {
	return c.location
}

// ActiveOrderIDs returns the projection of orders currently assigned to
// this courier. The returned slice is a copy.
func (c *Courier) ActiveOrderIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(c.activeOrderIDs))
	copy(out, c.activeOrderIDs)
	return out
}

// RejectedOrderIDs returns the courier's exclusion set. The returned
// slice is a copy.
func (c *Courier) RejectedOrderIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(c.rejectedOrderIDs))
	copy(out, c.rejectedOrderIDs)
	return out
}

// DeliveryHistoryIDs returns the completed-delivery log. The returned
// slice is a copy.
func (c *Courier) DeliveryHistoryIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(c.deliveryHistoryIDs))
	copy(out, c.deliveryHistoryIDs)
	return out
}

// Rating returns the courier's score aggregate.
func (c *Courier) Rating() Rating {
	return c.rating
}

// Verify marks the courier as cleared by the verification collaborator.
func (c *Courier) Verify() {
	c.isVerified = true
}

// SetAvailability toggles whether the courier is taking orders.
func (c *Courier) SetAvailability(available bool) {
	c.isAvailable = available
}

// MoveTo records a new reported location.
func (c *Courier) MoveTo(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.location = &point
	return nil
}

// EnsureCanAccept validates the preconditions shared by claim operations:
// the courier must be verified and available.
func (c *Courier) EnsureCanAccept() error {
	if !c.isVerified {
		return ErrCourierNotVerified
	}
	if !c.isAvailable {
		return ErrCourierNotAvailable
	}
	return nil
}

// EnsureCanMatch validates the preconditions for radius matching:
// verified, available, and a reported location.
func (c *Courier) EnsureCanMatch() error {
	if err := c.EnsureCanAccept(); err != nil {
		return err
	}
	if c.location == nil {
		return ErrLocationRequired
	}
	return nil
}

// RejectOrder idempotently adds an order to the courier's exclusion set.
// The set only filters matches for this courier; it is never a global
// signal and entries are never pruned.
func (c *Courier) RejectOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	if c.HasRejected(orderID) {
		return nil
	}

	c.rejectedOrderIDs = append(c.rejectedOrderIDs, orderID)
	return nil
}

// HasRejected reports whether the order is in the courier's exclusion set.
func (c *Courier) HasRejected(orderID kernel.UUID) bool {
	return containsID(c.rejectedOrderIDs, orderID)
}

// HasActiveOrder reports whether the order is in the courier's active set.
func (c *Courier) HasActiveOrder(orderID kernel.UUID) bool {
	return containsID(c.activeOrderIDs, orderID)
}

// AddActiveOrder idempotently records a claimed order in the active set.
func (c *Courier) AddActiveOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	if c.HasActiveOrder(orderID) {
		return nil
	}

	c.activeOrderIDs = append(c.activeOrderIDs, orderID)
	return nil
}

// CompleteDelivery moves an order from the active set to the delivery
// history. Returns ErrOrderNotActive if the courier does not hold the
// order.
func (c *Courier) CompleteDelivery(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	if !c.HasActiveOrder(orderID) {
		return ErrOrderNotActive
	}

	c.activeOrderIDs = removeID(c.activeOrderIDs, orderID)
	c.deliveryHistoryIDs = append(c.deliveryHistoryIDs, orderID)
	return nil
}

// ReplaceActiveOrders overwrites the active-order projection with the set
// recomputed from the Order store. Used by the reconciliation job; the
// Order store remains the source of truth.
func (c *Courier) ReplaceActiveOrders(orderIDs []kernel.UUID) error {
	return c.setActiveOrderIDs(orderIDs)
}

// AddRatingScore records one delivery score.
func (c *Courier) AddRatingScore(score int) error {
	rating, err := c.rating.Add(score)
	if err != nil {
		return err
	}

	c.rating = rating
	return nil
}

// setID sets the courier's unique identifier with validation.
func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.id = id
	return nil
}

// setUserID sets the backing account identifier with validation.
func (c *Courier) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

// setLocation sets the optional reported location with validation.
func (c *Courier) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}

	point := *location
	c.location = &point
	return nil
}

func (c *Courier) setActiveOrderIDs(ids []kernel.UUID) error {
	validated, err := validateIDs(ids)
	if err != nil {
		return err
	}
	c.activeOrderIDs = validated
	return nil
}

func (c *Courier) setRejectedOrderIDs(ids []kernel.UUID) error {
	validated, err := validateIDs(ids)
	if err != nil {
		return err
	}
	c.rejectedOrderIDs = validated
	return nil
}

func (c *Courier) setDeliveryHistoryIDs(ids []kernel.UUID) error {
	validated, err := validateIDs(ids)
	if err != nil {
		return err
	}
	c.deliveryHistoryIDs = validated
	return nil
}

// validateIDs validates every id and returns a defensive copy.
func validateIDs(ids []kernel.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func containsID(ids []kernel.UUID, id kernel.UUID) bool {
	for _, candidate := range ids {
		if candidate.IsEqual(id) {
			return true
		}
	}
	return false
}

func removeID(ids []kernel.UUID, id kernel.UUID) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(ids))
	for _, candidate := range ids {
		if !candidate.IsEqual(id) {
			out = append(out, candidate)
		}
	}
	return out
}
