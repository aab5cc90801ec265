package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)

	// ErrNotOrderOwner is returned when a customer tries to cancel an
	// order they do not own.
	ErrNotOrderOwner = errors.New("only the order owner may cancel it")
)

// CancelOrderCommand represents an owner or operator request to cancel an
// order. Cancellation is allowed from any non-terminal status; restoring
// inventory is an external concern.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	callerID   kernel.UUID
	isOperator bool
	note       string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a cancellation command. Operators may
// cancel any order; customers only their own (enforced by the handler).
func NewCancelOrderCommand(orderID, callerID kernel.UUID, isOperator bool, note string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		isOperator: isOperator,
		note:       note,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCallerID(callerID),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CallerID returns who requested the cancellation.
func (c CancelOrderCommand) CallerID() kernel.UUID {
	return c.callerID
}

// IsOperator reports whether the caller acts with operator rights.
func (c CancelOrderCommand) IsOperator() bool {
	return c.isOperator
}

// Note returns the free-form cancellation context.
func (c CancelOrderCommand) Note() string {
	return c.note
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setCallerID(callerID kernel.UUID) error {
	if err := callerID.Validate(); err != nil {
		return err
	}

	c.callerID = callerID
	return nil
}
