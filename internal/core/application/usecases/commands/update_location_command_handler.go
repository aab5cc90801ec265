package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
)

// UpdateLocationCommandHandler persists a courier's reported position and
// fans it out to the channels of the courier's in-flight orders.
//
// Broadcasting is fire-and-forget with at-most-once delivery: a publish
// failure is logged and never fails the location update itself.
type UpdateLocationCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

// NewUpdateLocationCommandHandler creates a handler for location reports.
func NewUpdateLocationCommandHandler(
	uowFactory UoWFactory,
	publisher ports.NotificationPublisher,
	logger *slog.Logger,
) UpdateLocationCommandHandler {
	return UpdateLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "update_location"),
	}
}

// Handle persists the new position, then broadcasts it to every order the
// courier is actively working on.
func (h UpdateLocationCommandHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) error {
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
	reporter, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = reporter.MoveTo(cmd.Location()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, reporter); err != nil {
		return err
	}

	activeIDs := reporter.ActiveOrderIDs()
	var activeOrders []string
	if len(activeIDs) > 0 {
		orders, err := uow.OrderRepository().GetActiveByIDs(ctx, activeIDs)
		if err != nil {
			return err
		}
		for _, o := range orders {
			activeOrders = append(activeOrders, o.ID().String())
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.broadcast(ctx, cmd, activeOrders)
	return nil
}

func (h UpdateLocationCommandHandler) broadcast(ctx context.Context, cmd UpdateLocationCommand, orderIDs []string) {
	if len(orderIDs) == 0 {
		return
	}

	timestamp := time.Now().UTC()
	for _, orderID := range orderIDs {
		update := ports.LocationUpdate{
			OrderID:   orderID,
			CourierID: cmd.CourierID().String(),
			Longitude: cmd.Location().Longitude(),
			Latitude:  cmd.Location().Latitude(),
			Timestamp: timestamp,
		}

		channel := fmt.Sprintf(ports.OrderChannelPattern, orderID)
		if err := h.publisher.Publish(ctx, channel, update); err != nil {
			h.logger.WarnContext(ctx, "location broadcast failed",
				"channel", channel, "error", err)
		}
	}
}
