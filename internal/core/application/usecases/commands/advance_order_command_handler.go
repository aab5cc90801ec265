package commands

import (
	"context"

	orderpkg "dispatch/internal/core/domain/model/order"
)

// AdvanceOrderCommandHandler applies operator lifecycle transitions.
// The mutation flows through the unit of work, so the change feed
// observes every transition on commit.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAdvanceOrderCommandHandler creates a handler for operator transitions.
func NewAdvanceOrderCommandHandler(uowFactory OrderUoWFactory) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the order, applies the requested transition, and persists
// the result. Invalid transitions surface as order.ErrInvalidStatusTransition.
func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	switch cmd.Target() {
	case orderpkg.Preparing:
		err = aggregate.StartPreparing(cmd.Note())
	default:
		err = aggregate.Confirm(cmd.Note())
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
