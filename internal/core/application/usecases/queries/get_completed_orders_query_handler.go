package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// GetCompletedOrdersQueryHandler reads delivered orders from the database.
type GetCompletedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetCompletedOrdersQueryHandler creates a handler for delivered-order
// reports. Requires a GORM database connection for query execution.
func NewGetCompletedOrdersQueryHandler(db *gorm.DB) GetCompletedOrdersQueryHandler {
	return GetCompletedOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by order ID for consistent
// output.
func (h GetCompletedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetCompletedOrdersQuery,
) ([]GetCompletedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, courier_id, total
		FROM orders
		WHERE status = ?
		ORDER BY id
	`, order.Delivered.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetCompletedOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			id        uuid.UUID
			courierID *uuid.UUID
			total     int64
		)
		if err = rows.Scan(&id, &courierID, &total); err != nil {
			return nil, err
		}

		var response GetCompletedOrdersQueryResponse
		if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if courierID != nil {
			assigned, idErr := kernel.UUIDFromBytes(courierID[:])
			if idErr != nil {
				return nil, idErr
			}
			response.CourierID = &assigned
		}
		if response.Total, err = kernel.NewMoney(total); err != nil {
			return nil, err
		}

		orders = append(orders, response)
	}

	return orders, rows.Err()
}
