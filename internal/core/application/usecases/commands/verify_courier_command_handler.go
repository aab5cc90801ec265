package commands

import (
	"context"
)

// VerifyCourierCommandHandler applies the verification flag to a courier.
type VerifyCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewVerifyCourierCommandHandler creates a handler for courier verification.
func NewVerifyCourierCommandHandler(uowFactory CourierUoWFactory) VerifyCourierCommandHandler {
	return VerifyCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the courier, marks it verified, and persists the change.
func (h VerifyCourierCommandHandler) Handle(ctx context.Context, cmd VerifyCourierCommand) error {
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
	aggregate, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	aggregate.Verify()

	if err = courierRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
