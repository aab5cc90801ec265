package commands

import (
	"context"
)

// AcceptOrderCommandHandler orchestrates the claim workflow.
//
// The in-memory Assign check rejects claims the aggregate can already see
// are lost, but the authoritative decision is the repository's
// conditional write: UpdateIfUnassigned only succeeds while the stored
// row has no courier, so of N concurrent claimers exactly one commits.
// The courier's active set and the order row change in one transaction.
type AcceptOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewAcceptOrderCommandHandler creates a handler for courier claim operations.
// Requires a UoWFactory for coordinating transactional updates across repositories.
func NewAcceptOrderCommandHandler(uowFactory UoWFactory) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the claim. Returns courier.ErrCourierNotVerified or
// courier.ErrCourierNotAvailable for couriers that may not claim,
// order.ErrInvalidStatusTransition for unconfirmed orders, and
// order.ErrAlreadyAssigned when another courier won the race.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
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

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()

	claimer, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if err = claimer.EnsureCanAccept(); err != nil {
		return err
	}

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.Assign(claimer.ID(), claimer.Location()); err != nil {
		return err
	}

	if err = orderRepo.UpdateIfUnassigned(ctx, aggregate); err != nil {
		return err
	}

	if err = claimer.AddActiveOrder(aggregate.ID()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, claimer); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
