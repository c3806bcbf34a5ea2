package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

func TestCancelOrderCommandHandler_Handle(t *testing.T) {
	t.Run("customer cancels own pending order", func(t *testing.T) {
		ctx := t.Context()
		customerID := kernel.NewUUID()
		aggregate := placedOrder(t, customerID, kernel.NewUUID())
		actor := ports.Actor{UserID: customerID, Role: order.RoleCustomer}

		cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), actor, "changed my mind")
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		notifier := new(MockNotifier)
		notifier.On("PublishOrderEvent", ctx, aggregate).Return(nil).Once()

		h := commands.NewCancelOrderCommandHandler(newTransitionHandler(factory, services.NewCourierDirectory(), notifier))
		err = h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, aggregate.Status())

		history := aggregate.History()
		assert.Equal(t, "changed my mind", history[len(history)-1].Note)
	})

	t.Run("cancelling a delivered order is rejected", func(t *testing.T) {
		ctx := t.Context()
		directory := services.NewCourierDirectory()
		courierID := dutyCourier(t, directory, 1)
		aggregate := readyOrder(t, kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, directory.Reserve(courierID))
		require.NoError(t, aggregate.AssignCourier(courierID))
		advanceToDelivered(t, aggregate)

		actor := ports.Actor{UserID: kernel.NewUUID(), Role: order.RoleAdmin}
		cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), actor, "")
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewCancelOrderCommandHandler(newTransitionHandler(factory, directory, new(MockNotifier)))
		err = h.Handle(ctx, cmd)

		assert.ErrorIs(t, err, order.ErrOrderClosed)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		h := commands.NewCancelOrderCommandHandler(commands.TransitionOrderCommandHandler{})
		err := h.Handle(t.Context(), commands.CancelOrderCommand{})
		assert.ErrorIs(t, err, commands.ErrCancelOrderCommandIsNotConstructed)
	})
}

func advanceToDelivered(t *testing.T, aggregate *order.Order) {
	t.Helper()
	now := aggregate.History()[0].At
	require.NoError(t, aggregate.TransitionTo(order.OutForDelivery, order.RoleDispatch, now, ""))
	require.NoError(t, aggregate.TransitionTo(order.Delivered, order.RoleCourier, now, ""))
}
