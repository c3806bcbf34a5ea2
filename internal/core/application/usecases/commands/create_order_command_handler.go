package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/coupon"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

var (
	// ErrRestaurantClosed is returned when the target restaurant is not
	// accepting orders.
	ErrRestaurantClosed = errors.New("restaurant is not accepting orders")
	// ErrDishUnavailable is returned when a requested dish is not listed
	// or has been deactivated by the restaurant.
	ErrDishUnavailable = errors.New("dish is unavailable")
)

// CreateOrderCommandHandler handles the business logic for placing an order.
//
// The handler resolves the restaurant and dishes from the catalog, snapshots
// dish prices into order lines, prices the order through the pricing engine,
// redeems the coupon (if any) and persists the order, all within one unit of
// work. The coupon redemption and the order commit or roll back together, so
// a redemption is never burned on a failed order.
//
// After a successful commit the restaurant is notified; notification
// failures are logged and never fail the order.
type CreateOrderCommandHandler struct {
	uowFactory OrderCouponUoWFactory
	catalog    ports.CatalogClient
	pricing    services.PricingEngine
	notifier   ports.NotificationPublisher
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	uowFactory OrderCouponUoWFactory,
	catalog ports.CatalogClient,
	pricing services.PricingEngine,
	notifier ports.NotificationPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		pricing:    pricing,
		notifier:   notifier,
	}
}

// Handle processes the order placement command and returns the created order.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	restaurant, err := h.catalog.GetRestaurant(ctx, cmd.RestaurantID())
	if err != nil {
		return nil, err
	}
	if !restaurant.Open {
		return nil, fmt.Errorf("%w: %s", ErrRestaurantClosed, restaurant.Name)
	}

	items, err := h.snapshotLines(ctx, cmd)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()

	var cpn *coupon.Coupon
	if cmd.CouponCode() != "" {
		cpn, err = uow.CouponRepository().Get(ctx, cmd.CouponCode())
		if err != nil {
			return nil, err
		}
	}

	quote, err := h.pricing.Price(items, cpn, now)
	if err != nil {
		return nil, err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.RestaurantID(),
		restaurant.Location,
		cmd.DeliveryLocation(),
		items,
		cmd.CouponCode(),
		quote.Subtotal,
		quote.Discount,
		quote.Total,
		now,
	)
	if err != nil {
		return nil, err
	}

	if cpn != nil {
		if err = uow.CouponRepository().IncrementRedemption(ctx, cmd.CouponCode()); err != nil {
			return nil, err
		}
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if err = h.notifier.PublishOrderEvent(ctx, newOrder); err != nil {
		slog.WarnContext(ctx, "order notification failed",
			"order_id", newOrder.ID().String(), "error", err)
	}

	return newOrder, nil
}

// snapshotLines resolves the requested dishes from the catalog and freezes
// their prices into order items.
func (h *CreateOrderCommandHandler) snapshotLines(ctx context.Context, cmd CreateOrderCommand) ([]order.Item, error) {
	lines := cmd.Lines()
	dishIDs := make([]kernel.UUID, len(lines))
	for i, line := range lines {
		dishIDs[i] = line.DishID
	}

	dishes, err := h.catalog.GetDishes(ctx, cmd.RestaurantID(), dishIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]ports.DishInfo, len(dishes))
	for _, dish := range dishes {
		byID[dish.ID] = dish
	}

	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		dish, ok := byID[line.DishID]
		if !ok || !dish.Active {
			return nil, fmt.Errorf("%w: %s", ErrDishUnavailable, line.DishID)
		}

		item, itemErr := order.NewItem(dish.ID, line.Quantity, dish.Price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return items, nil
}
