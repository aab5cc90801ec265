package commands

import (
	"context"
)

// RebuildActiveOrdersCommandHandler recomputes every courier's
// active-order projection from order rows. Rejected-order sets are left
// untouched: they are owned data, not a projection.
type RebuildActiveOrdersCommandHandler struct {
	uowFactory UoWFactory
}

// NewRebuildActiveOrdersCommandHandler creates a handler for projection reconciliation.
func NewRebuildActiveOrdersCommandHandler(uowFactory UoWFactory) RebuildActiveOrdersCommandHandler {
	return RebuildActiveOrdersCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle rebuilds all courier projections in one transaction.
func (h RebuildActiveOrdersCommandHandler) Handle(ctx context.Context, cmd RebuildActiveOrdersCommand) error {
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

	couriers, err := courierRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, c := range couriers {
		activeIDs, err := orderRepo.GetActiveOrderIDsByCourier(ctx, c.ID())
		if err != nil {
			return err
		}

		if err = c.ReplaceActiveOrders(activeIDs); err != nil {
			return err
		}

		if err = courierRepo.Update(ctx, c); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
