package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"
)

func TestCompleteDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	deliverer := testReadyCourier(t)
	delivered := testConfirmedOrder(t)
	require.NoError(t, delivered.Assign(deliverer.ID(), deliverer.Location()))
	require.NoError(t, deliverer.AddActiveOrder(delivered.ID()))

	cmd, err := commands.NewCompleteDeliveryCommand(deliverer.ID(), delivered.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		courierRepo.On("Get", ctx, deliverer.ID()).Return(deliverer, nil).Once(),
		orderRepo.On("Get", ctx, delivered.ID()).Return(delivered, nil).Once(),
		orderRepo.On("Update", ctx, delivered).Return(nil).Once(),
		courierRepo.On("Update", ctx, deliverer).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, delivered.Status())
	assert.NotNil(t, delivered.ActualDeliveryTime())
	assert.False(t, deliverer.HasActiveOrder(delivered.ID()))
	assert.Contains(t, deliverer.DeliveryHistoryIDs(), delivered.ID())
	uow.AssertExpectations(t)
}

func TestCompleteDeliveryCommandHandler_Handle_WrongCourier(t *testing.T) {
	ctx := t.Context()

	deliverer := testReadyCourier(t)
	impostor := testReadyCourier(t)
	delivered := testConfirmedOrder(t)
	require.NoError(t, delivered.Assign(deliverer.ID(), nil))

	cmd, err := commands.NewCompleteDeliveryCommand(impostor.ID(), delivered.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		courierRepo.On("Get", ctx, impostor.ID()).Return(impostor, nil).Once(),
		orderRepo.On("Get", ctx, delivered.ID()).Return(delivered, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrOrderNotAssignedToCourier)
	assert.Equal(t, order.OutForDelivery, delivered.Status())
	orderRepo.AssertNotCalled(t, "Update", ctx, delivered)
}

func TestCompleteDeliveryCommandHandler_Handle_NotOutForDelivery(t *testing.T) {
	ctx := t.Context()

	deliverer := testReadyCourier(t)
	confirmed := testConfirmedOrder(t)

	cmd, err := commands.NewCompleteDeliveryCommand(deliverer.ID(), confirmed.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		courierRepo.On("Get", ctx, deliverer.ID()).Return(deliverer, nil).Once(),
		orderRepo.On("Get", ctx, confirmed.ID()).Return(confirmed, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrOrderNotAssignedToCourier)
}
