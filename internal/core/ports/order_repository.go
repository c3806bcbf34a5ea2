package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their lifecycle status.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using the
	// aggregate's version as an optimistic concurrency guard. The write
	// succeeds only if the stored version still matches the version the
	// aggregate was loaded with; on success the stored version advances
	// by one. A lost race returns errs.ErrVersionIsInvalid and the caller
	// is expected to reload and retry or surface the conflict.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its status, courier assignment,
	// version and transition history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStatus retrieves all orders currently in the given status.
	// Used by the dispatch job to find orders ready for pickup and by the
	// completed-orders query.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
