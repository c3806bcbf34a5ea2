package courierrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
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

// Update saves profile changes of an existing courier to the database.
// The slot count is deliberately absent from the column list: an absolute
// write would overwrite slots claimed by concurrent transactions, so slots
// move only through the guarded ReserveSlot and ReleaseSlot updates.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":       dto.Name,
			"capacity":   dto.Capacity,
			"on_duty":    dto.OnDuty,
			"location_x": dto.Location.X,
			"location_y": dto.Location.Y,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// ReserveSlot claims one order slot with a guarded relative UPDATE. The
// duty and capacity checks live in the WHERE clause, so two transactions
// racing for the courier's last slot resolve at the database: one row
// update succeeds and the loser observes courier.ErrCourierAtCapacity.
func (r *GormCourierRepository) ReserveSlot(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ? AND on_duty AND active_orders < capacity", id.Bytes()).
		Update("active_orders", gorm.Expr("active_orders + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// The guard rejected the update; read the row to report why.
	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("courier", id.String())
		}
		return err
	}
	if !dto.OnDuty {
		return courier.ErrCourierOffDuty
	}
	return courier.ErrCourierAtCapacity
}

// ReleaseSlot frees one order slot with a guarded relative UPDATE so
// concurrent releases never push the stored count below zero.
func (r *GormCourierRepository) ReleaseSlot(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ? AND active_orders > 0", id.Bytes()).
		Update("active_orders", gorm.Expr("active_orders - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", id.Bytes()).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("courier", id.String())
	}
	return courier.ErrNoActiveOrders
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every courier, ordered by ID. Used at startup to
// hydrate the in-process courier directory.
//
// Example:
//
//	couriers, err := repo.GetAll(ctx)
//	if err != nil {
//		return fmt.Errorf("failed to load couriers: %w", err)
//	}
//	for _, c := range couriers {
//		directory.Upsert(c)
//	}
func (r *GormCourierRepository) GetAll(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}

	return couriers, nil
}
