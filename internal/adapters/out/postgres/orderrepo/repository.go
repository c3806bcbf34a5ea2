package orderrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database together with its lines and
// initial history record.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists the mutable part of an order (status, courier, history)
// using a compare-and-swap on the version column. The write succeeds only
// if the stored version still matches the version the aggregate was loaded
// with; a lost race surfaces as errs.ErrVersionIsInvalid so the caller can
// reload and retry.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":     dto.Status,
			"courier_id": dto.CourierID,
			"version":    dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("order")
	}

	// History is append-only with a (order_id, seq) key, so re-inserting
	// the full set only adds the rows the transition produced.
	if len(dto.History) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&dto.History).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID, including its lines and history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History").
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInStatus retrieves every order currently in the given status,
// ordered by ID for deterministic processing.
//
// Example:
//
//	ready, err := repo.GetAllInStatus(ctx, order.ReadyForPickup)
//	if err != nil {
//		return fmt.Errorf("failed to load ready orders: %w", err)
//	}
//	for _, o := range ready {
//		dispatch(o)
//	}
func (r *GormOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History").
		Where("status = ?", status.String()).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}
