package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// ItemInput carries one order line as submitted by the customer.
type ItemInput struct {
	ProductID      kernel.UUID
	Quantity       int
	UnitPriceCents int64
}

// CreateOrderCommand represents a customer request to place a new order.
// Encapsulates the order lines and the pickup/delivery points; the order
// is born in processing status and awaits operator confirmation.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(orderID, customerID, items, pickup, delivery)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	ownerID       kernel.UUID
	items         []ItemInput
	pickupPoint   kernel.GeoPoint
	deliveryPoint kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates identifiers, requires at least one item, and checks that both
// geo points were constructed properly.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	ownerID kernel.UUID,
	items []ItemInput,
	pickupPoint kernel.GeoPoint,
	deliveryPoint kernel.GeoPoint,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setOwnerID(ownerID),
		orderCommand.setItems(items),
		orderCommand.setPickupPoint(pickupPoint),
		orderCommand.setDeliveryPoint(deliveryPoint),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OwnerID returns the customer placing the order.
func (c CreateOrderCommand) OwnerID() kernel.UUID {
	return c.ownerID
}

// Items returns the submitted order lines.
func (c CreateOrderCommand) Items() []ItemInput {
	return c.items
}

// PickupPoint returns where the courier collects the order.
func (c CreateOrderCommand) PickupPoint() kernel.GeoPoint {
	return c.pickupPoint
}

// DeliveryPoint returns where the order is delivered.
func (c CreateOrderCommand) DeliveryPoint() kernel.GeoPoint {
	return c.deliveryPoint
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setOwnerID(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}

	c.ownerID = ownerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []ItemInput) error {
	if len(items) == 0 {
		return order.ErrItemsAreRequired
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setPickupPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.pickupPoint = point
	return nil
}

func (c *CreateOrderCommand) setDeliveryPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.deliveryPoint = point
	return nil
}
