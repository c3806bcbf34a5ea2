// Package ports defines the contracts between the application core and
// infrastructure. These interfaces establish boundaries for persistence,
// external collaborators and messaging, enabling dependency inversion
// and testability.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
// The repository is the durable record of the fleet; the in-process courier
// directory is hydrated from it at startup and kept in sync by the courier
// commands.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists profile changes (name, capacity, duty status,
	// location) to an existing courier. It never writes the slot count;
	// slots change only through ReserveSlot and ReleaseSlot.
	Update(ctx context.Context, courier *courier.Courier) error

	// ReserveSlot claims one order slot on the stored courier row. The
	// duty and capacity checks are evaluated against the stored row, so
	// concurrent writers can never push the count past the capacity.
	ReserveSlot(ctx context.Context, id kernel.UUID) error

	// ReleaseSlot frees one order slot on the stored courier row.
	// Fails with courier.ErrNoActiveOrders when no slot is held.
	ReleaseSlot(ctx context.Context, id kernel.UUID) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAll retrieves every registered courier. Used to hydrate the
	// in-process directory at startup.
	GetAll(ctx context.Context) ([]*courier.Courier, error)
}
