package commands

import (
	"context"
)

// CompleteDeliveryCommandHandler finishes a delivery: the order becomes
// delivered and the courier's bookkeeping moves the order from the active
// set to the delivery history. Both aggregates change in one transaction.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
// Requires a UoWFactory for coordinating transactional updates across repositories.
func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes delivery completion. Returns
// order.ErrOrderNotAssignedToCourier when a different courier holds the
// order and order.ErrInvalidStatusTransition when it is not in flight.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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

	deliverer, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.Complete(deliverer.ID(), deliverer.Location()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = deliverer.CompleteDelivery(aggregate.ID()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, deliverer); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
