package commands_test

import (
	"context"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignCourierCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	stored := newStoredOrder(t, kernel.NewUUID(), kernel.NewUUID())
	admin := mustActor(t, kernel.NewUUID(), actor.RoleAdmin)
	courierID := kernel.NewUUID()

	cmd, err := commands.NewAssignCourierCommand(stored.ID(), courierID, admin)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		orderRepo.On("Update", mock.Anything, stored).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAssignCourierCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, stored.CourierID())
	assert.True(t, stored.CourierID().IsEqual(courierID))
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAssignCourierCommandHandler_Handle_NonAdminForbidden(t *testing.T) {
	ctx := context.Background()
	vendorID := kernel.NewUUID()
	stored := newStoredOrder(t, kernel.NewUUID(), vendorID)
	vendor := mustActor(t, vendorID, actor.RoleVendor)

	cmd, err := commands.NewAssignCourierCommand(stored.ID(), kernel.NewUUID(), vendor)
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)

	h := commands.NewAssignCourierCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrForbidden)
	factory.AssertNotCalled(t, "Create")
}

func TestAssignCourierCommandHandler_Handle_AlreadyAssigned(t *testing.T) {
	ctx := context.Background()
	stored := newStoredOrder(t, kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, stored.AssignCourier(kernel.NewUUID()))
	admin := mustActor(t, kernel.NewUUID(), actor.RoleAdmin)

	cmd, err := commands.NewAssignCourierCommand(stored.ID(), kernel.NewUUID(), admin)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAssignCourierCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrCourierAlreadyAssigned)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
