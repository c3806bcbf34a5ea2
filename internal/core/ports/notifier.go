package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// OrderNotification describes an order lifecycle event published to
// interested parties (restaurant displays, customer apps, courier apps).
type OrderNotification struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
	Note       string `json:"note,omitempty"`
}

// NotificationPublisher publishes order lifecycle events after state changes
// are committed. Publishing is best effort: a failed publish must never roll
// back or fail the order operation, implementations log and move on.
type NotificationPublisher interface {
	PublishOrderEvent(ctx context.Context, aggregate *order.Order) error

	// Close releases the underlying connection.
	Close() error
}
