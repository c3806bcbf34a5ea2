package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// GetOrderQueryHandler reads one order with its lines and history straight
// from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. A missing order returns errs.ErrObjectNotFound.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var response GetOrderQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			restaurant_id,
			status,
			courier_id,
			coupon_code,
			subtotal,
			discount,
			total
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id, customerID, restaurantID uuid.UUID
		courierID                    *uuid.UUID
		status, couponCode           string
		subtotal, discount, total    int64
	)
	err := row.Scan(&id, &customerID, &restaurantID, &status, &courierID,
		&couponCode, &subtotal, &discount, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if courierID != nil {
		assigned, idErr := kernel.UUIDFromBytes(courierID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		response.CourierID = &assigned
	}

	response.Status = status
	response.CouponCode = couponCode
	if response.Subtotal, err = kernel.NewMoney(subtotal); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.Discount, err = kernel.NewMoney(discount); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.Total, err = kernel.NewMoney(total); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.Lines, err = h.readLines(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.History, err = h.readHistory(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderQueryHandler) readLines(ctx context.Context, orderID kernel.UUID) ([]OrderLineResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT dish_id, quantity, unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY dish_id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]OrderLineResponse, 0)
	for rows.Next() {
		var (
			dishID    uuid.UUID
			quantity  int
			unitPrice int64
		)
		if err = rows.Scan(&dishID, &quantity, &unitPrice); err != nil {
			return nil, err
		}

		line := OrderLineResponse{Quantity: quantity}
		if line.DishID, err = kernel.UUIDFromBytes(dishID[:]); err != nil {
			return nil, err
		}
		if line.UnitPrice, err = kernel.NewMoney(unitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func (h GetOrderQueryHandler) readHistory(ctx context.Context, orderID kernel.UUID) ([]OrderHistoryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT status, occurred_at, note
		FROM order_history
		WHERE order_id = ?
		ORDER BY seq
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]OrderHistoryResponse, 0)
	for rows.Next() {
		var record OrderHistoryResponse
		if err = rows.Scan(&record.Status, &record.At, &record.Note); err != nil {
			return nil, err
		}
		history = append(history, record)
	}

	return history, rows.Err()
}
