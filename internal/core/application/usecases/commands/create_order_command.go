package commands

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderLinesAreRequired = errors.New("at least one order line is required")
	ErrQuantityIsInvalid     = fmt.Errorf("quantity must be between 1 and %d", order.MaxQuantity)
)

// OrderLine is one requested dish and quantity in a create-order request.
// Prices are not part of the request; they are resolved from the catalog
// and snapshotted by the handler.
type OrderLine struct {
	DishID   kernel.UUID
	Quantity int
}

// CreateOrderCommand represents a request to place a new order.
// Encapsulates the customer, the restaurant, the requested lines, the
// delivery destination and an optional coupon code.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), customerID, restaurantID,
//	    deliveryLocation, lines, "SAVE10",
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s totals %s", created.ID(), created.Total())
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	customerID       kernel.UUID
	restaurantID     kernel.UUID
	deliveryLocation kernel.Location
	lines            []OrderLine
	couponCode       string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates identifiers, the delivery location and that every line carries
// a quantity within [1, order.MaxQuantity]. The coupon code is optional; an
// empty string means no coupon. Returns an error if any validation fails.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	deliveryLocation kernel.Location,
	lines []OrderLine,
	couponCode string,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard:      guard.NewConstructorGuard(),
		couponCode: strings.ToUpper(strings.TrimSpace(couponCode)),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setCustomerID(customerID),
		orderCommand.setRestaurantID(restaurantID),
		orderCommand.setDeliveryLocation(deliveryLocation),
		orderCommand.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the customer placing the order.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// RestaurantID returns the restaurant the order is placed with.
func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// DeliveryLocation returns the destination on the delivery grid.
func (c CreateOrderCommand) DeliveryLocation() kernel.Location {
	return c.deliveryLocation
}

// Lines returns the requested dishes and quantities.
func (c CreateOrderCommand) Lines() []OrderLine {
	out := make([]OrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// CouponCode returns the normalized coupon code, empty when none was given.
func (c CreateOrderCommand) CouponCode() string {
	return c.couponCode
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateOrderCommand) setDeliveryLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.deliveryLocation = location
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrOrderLinesAreRequired
	}

	for _, line := range lines {
		if err := line.DishID.Validate(); err != nil {
			return err
		}
		if line.Quantity <= 0 || line.Quantity > order.MaxQuantity {
			return ErrQuantityIsInvalid
		}
	}

	c.lines = make([]OrderLine, len(lines))
	copy(c.lines, lines)
	return nil
}
