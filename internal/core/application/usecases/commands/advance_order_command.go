package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	orderpkg "dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand is the operator path for moving an order forward
// along its lifecycle: confirming it (making it matchable) or marking it
// as being prepared. Courier-driven transitions go through the accept and
// complete commands instead.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  orderpkg.Status
	note    string

	guard guard.ConstructorGuard
}

// NewAdvanceOrderCommand creates a command to advance an order.
// Target must be Confirmed or Preparing; other statuses have dedicated
// commands or are unreachable by operators.
func NewAdvanceOrderCommand(orderID kernel.UUID, target orderpkg.Status, note string) (AdvanceOrderCommand, error) {
	cmd := AdvanceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
	); err != nil {
		return AdvanceOrderCommand{}, err
	}

	cmd.note = note
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

// OrderID returns the order to advance.
func (c AdvanceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c AdvanceOrderCommand) Target() orderpkg.Status {
	return c.target
}

// Note returns the free-form context recorded in the status history.
func (c AdvanceOrderCommand) Note() string {
	return c.note
}

func (c *AdvanceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AdvanceOrderCommand) setTarget(target orderpkg.Status) error {
	if target != orderpkg.Confirmed && target != orderpkg.Preparing {
		return fmt.Errorf("%w: %s is not an operator transition target",
			orderpkg.ErrInvalidStatusTransition, target)
	}

	c.target = target
	return nil
}
