package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/coupon"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

type MockCatalogClient struct{ mock.Mock }

func (m *MockCatalogClient) GetRestaurant(ctx context.Context, id kernel.UUID) (ports.RestaurantInfo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.RestaurantInfo), args.Error(1)
}

func (m *MockCatalogClient) GetDishes(ctx context.Context, restaurantID kernel.UUID, dishIDs []kernel.UUID) ([]ports.DishInfo, error) {
	args := m.Called(ctx, restaurantID, dishIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.DishInfo), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCouponRepository struct{ mock.Mock }

func (m *MockCouponRepository) Add(ctx context.Context, cpn *coupon.Coupon) error {
	args := m.Called(ctx, cpn)
	return args.Error(0)
}

func (m *MockCouponRepository) Get(ctx context.Context, code string) (*coupon.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponRepository) IncrementRedemption(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) PublishOrderEvent(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockNotifier) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockOrderCouponUoW struct{ mock.Mock }

func (m *MockOrderCouponUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderCouponUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderCouponUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderCouponUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderCouponUoW) CouponRepository() ports.CouponRepository {
	args := m.Called()
	return args.Get(0).(ports.CouponRepository)
}

type MockOrderCouponUoWFactory struct{ mock.Mock }

func (m *MockOrderCouponUoWFactory) Create() commands.OrderCouponUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderCouponUoW)
}

func fixedDish(price int64) ports.DishInfo {
	return ports.DishInfo{
		ID:     kernel.NewUUID(),
		Name:   "Margherita",
		Price:  kernel.MustMoney(price),
		Active: true,
	}
}

func openRestaurant(t *testing.T, id kernel.UUID) ports.RestaurantInfo {
	t.Helper()
	return ports.RestaurantInfo{
		ID:       id,
		Name:     "Pizza Place",
		Location: testLocation(t, 2, 2),
		Open:     true,
	}
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	restaurantID := kernel.NewUUID()
	dish := fixedDish(2500)
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), restaurantID,
		testLocation(t, 8, 8), []commands.OrderLine{{DishID: dish.ID, Quantity: 2}}, "SAVE10",
	)
	require.NoError(t, err)

	cpn, err := coupon.NewFlatCoupon("SAVE10", kernel.MustMoney(1000),
		kernel.MustMoney(2000), time.Now().Add(24*time.Hour), 1)
	require.NoError(t, err)

	catalog := new(MockCatalogClient)
	catalog.On("GetRestaurant", ctx, restaurantID).Return(openRestaurant(t, restaurantID), nil).Once()
	catalog.On("GetDishes", ctx, restaurantID, mock.Anything).Return([]ports.DishInfo{dish}, nil).Once()

	orderRepo := new(MockOrderRepository)
	couponRepo := new(MockCouponRepository)
	uow := new(MockOrderCouponUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CouponRepository").Return(couponRepo).Once(),
		couponRepo.On("Get", ctx, "SAVE10").Return(cpn, nil).Once(),
		uow.On("CouponRepository").Return(couponRepo).Once(),
		couponRepo.On("IncrementRedemption", ctx, "SAVE10").Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderCouponUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("PublishOrderEvent", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	h := commands.NewCreateOrderCommandHandler(factory, catalog, services.NewPricingEngine(), notifier)
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, created.Status())
	assert.Equal(t, kernel.MustMoney(5000), created.Subtotal())
	assert.Equal(t, kernel.MustMoney(1000), created.Discount())
	assert.Equal(t, kernel.MustMoney(4000), created.Total())

	catalog.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	couponRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_NoCoupon(t *testing.T) {
	ctx := t.Context()
	restaurantID := kernel.NewUUID()
	dish := fixedDish(1200)
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), restaurantID,
		testLocation(t, 8, 8), []commands.OrderLine{{DishID: dish.ID, Quantity: 1}}, "",
	)
	require.NoError(t, err)

	catalog := new(MockCatalogClient)
	catalog.On("GetRestaurant", ctx, restaurantID).Return(openRestaurant(t, restaurantID), nil).Once()
	catalog.On("GetDishes", ctx, restaurantID, mock.Anything).Return([]ports.DishInfo{dish}, nil).Once()

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderCouponUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderCouponUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("PublishOrderEvent", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	h := commands.NewCreateOrderCommandHandler(factory, catalog, services.NewPricingEngine(), notifier)
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, created.Discount().IsZero())
	assert.Equal(t, kernel.MustMoney(1200), created.Total())
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ExhaustedCouponRollsBack(t *testing.T) {
	ctx := t.Context()
	restaurantID := kernel.NewUUID()
	dish := fixedDish(5000)
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), restaurantID,
		testLocation(t, 8, 8), []commands.OrderLine{{DishID: dish.ID, Quantity: 1}}, "SAVE10",
	)
	require.NoError(t, err)

	spent, err := coupon.RestoreCoupon("SAVE10", coupon.Flat, kernel.MustMoney(1000),
		0, nil, kernel.MustMoney(2000), time.Now().Add(24*time.Hour), 1, 1)
	require.NoError(t, err)

	catalog := new(MockCatalogClient)
	catalog.On("GetRestaurant", ctx, restaurantID).Return(openRestaurant(t, restaurantID), nil).Once()
	catalog.On("GetDishes", ctx, restaurantID, mock.Anything).Return([]ports.DishInfo{dish}, nil).Once()

	couponRepo := new(MockCouponRepository)
	uow := new(MockOrderCouponUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CouponRepository").Return(couponRepo).Once(),
		couponRepo.On("Get", ctx, "SAVE10").Return(spent, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderCouponUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, catalog, services.NewPricingEngine(), new(MockNotifier))
	_, err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, coupon.ErrExhausted)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_InactiveDish(t *testing.T) {
	ctx := t.Context()
	restaurantID := kernel.NewUUID()
	dish := fixedDish(1200)
	dish.Active = false
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), restaurantID,
		testLocation(t, 8, 8), []commands.OrderLine{{DishID: dish.ID, Quantity: 1}}, "",
	)
	require.NoError(t, err)

	catalog := new(MockCatalogClient)
	catalog.On("GetRestaurant", ctx, restaurantID).Return(openRestaurant(t, restaurantID), nil).Once()
	catalog.On("GetDishes", ctx, restaurantID, mock.Anything).Return([]ports.DishInfo{dish}, nil).Once()

	factory := new(MockOrderCouponUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, catalog, services.NewPricingEngine(), new(MockNotifier))

	_, err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, commands.ErrDishUnavailable)
}

func TestCreateOrderCommandHandler_Handle_ClosedRestaurant(t *testing.T) {
	ctx := t.Context()
	restaurantID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), restaurantID,
		testLocation(t, 8, 8), testLines(t), "",
	)
	require.NoError(t, err)

	closed := openRestaurant(t, restaurantID)
	closed.Open = false

	catalog := new(MockCatalogClient)
	catalog.On("GetRestaurant", ctx, restaurantID).Return(closed, nil).Once()

	h := commands.NewCreateOrderCommandHandler(
		new(MockOrderCouponUoWFactory), catalog, services.NewPricingEngine(), new(MockNotifier))

	_, err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, commands.ErrRestaurantClosed)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	h := commands.NewCreateOrderCommandHandler(
		new(MockOrderCouponUoWFactory), new(MockCatalogClient), services.NewPricingEngine(), new(MockNotifier))

	_, err := h.Handle(ctx, commands.CreateOrderCommand{})

	require.Error(t, err)
}
