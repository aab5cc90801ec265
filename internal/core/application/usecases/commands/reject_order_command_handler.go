package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// RejectOrderCommandHandler records an order in a courier's exclusion
// set. Rejection is idempotent and entries are never pruned, so a
// rejected order can never bounce back to the same courier.
type RejectOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewRejectOrderCommandHandler creates a handler for rejection operations.
func NewRejectOrderCommandHandler(uowFactory UoWFactory) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle adds the order to the courier's exclusion set. Only unassigned
// orders can be rejected: an unknown id returns not-found and an order
// already carrying a courier returns order.ErrAlreadyAssigned. The order
// itself is never mutated.
func (h RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) error {
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

	rejected, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if rejected.Courier() != nil {
		return order.ErrAlreadyAssigned
	}

	courierRepo := uow.CourierRepository()
	rejecting, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = rejecting.RejectOrder(cmd.OrderID()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, rejecting); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
