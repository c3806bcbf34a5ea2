package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetCompletedOrdersQueryIsNotConstructed = errors.New(
	"GetCompletedOrdersQuery must be created via NewGetCompletedOrdersQuery constructor",
)

// GetCompletedOrdersQuery retrieves all delivered orders for reporting.
//
// Example:
//
//	query := NewGetCompletedOrdersQuery()
//	delivered, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get delivered orders: %w", err)
//	}
//	fmt.Printf("%d orders delivered\n", len(delivered))
type GetCompletedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetCompletedOrdersQuery creates a query for delivered orders.
// This is a parameterless query.
func NewGetCompletedOrdersQuery() GetCompletedOrdersQuery {
	return GetCompletedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetCompletedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCompletedOrdersQueryIsNotConstructed)
}

// GetCompletedOrdersQueryResponse is one delivered order in the report.
type GetCompletedOrdersQueryResponse struct {
	ID        kernel.UUID
	CourierID *kernel.UUID
	Total     kernel.Money
}
