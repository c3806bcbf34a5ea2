// Package queries contains read-only operations over the persisted state.
// Implements the Query side of the CQRS architecture: handlers read the
// database directly into response structs, bypassing the aggregates.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its lines and transition history.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//	fmt.Printf("Order %s is %s\n", view.ID, view.Status)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order by its identifier.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		guard:   guard.NewConstructorGuard(),
		orderID: orderID,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderLineResponse is one order line in the order view.
type OrderLineResponse struct {
	DishID    kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
}

// OrderHistoryResponse is one recorded transition in the order view.
type OrderHistoryResponse struct {
	Status string
	At     time.Time
	Note   string
}

// GetOrderQueryResponse is the full read model of one order.
type GetOrderQueryResponse struct {
	ID           kernel.UUID
	CustomerID   kernel.UUID
	RestaurantID kernel.UUID
	Status       string
	CourierID    *kernel.UUID
	CouponCode   string
	Subtotal     kernel.Money
	Discount     kernel.Money
	Total        kernel.Money
	Lines        []OrderLineResponse
	History      []OrderHistoryResponse
}
