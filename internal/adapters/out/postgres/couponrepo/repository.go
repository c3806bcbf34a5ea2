package couponrepo

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/coupon"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCouponRepository implements CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GORM coupon repository.
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Add saves a new coupon to the database. New coupons start active.
func (r *GormCouponRepository) Add(ctx context.Context, cpn *coupon.Coupon) error {
	if err := cpn.Validate(); err != nil {
		return err
	}

	dto := fromDomain(cpn)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves an active coupon by its code. Lookup is case-insensitive
// because codes are stored uppercase. Missing and deactivated coupons are
// indistinguishable to callers; both report errs.ErrObjectNotFound.
func (r *GormCouponRepository) Get(ctx context.Context, code string) (*coupon.Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}

	var dto CouponDTO
	if err := r.db.WithContext(ctx).
		First(&dto, "code = ? AND active", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("coupon", normalized)
		}
		return nil, err
	}

	return toDomain(dto)
}

// IncrementRedemption consumes one redemption of the coupon with a guarded
// UPDATE. The budget check lives in the WHERE clause, so two orders racing
// for the last redemption resolve at the database: exactly one row update
// succeeds and the loser observes coupon.ErrExhausted.
func (r *GormCouponRepository) IncrementRedemption(ctx context.Context, code string) error {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return errs.NewValueIsRequiredError("code")
	}

	result := r.db.WithContext(ctx).
		Model(&CouponDTO{}).
		Where("code = ? AND active AND redemption_count < max_redemptions", normalized).
		Update("redemption_count", gorm.Expr("redemption_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// The guard rejected the update; distinguish a missing coupon from an
	// exhausted one.
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&CouponDTO{}).
		Where("code = ? AND active", normalized).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("coupon", normalized)
	}
	return coupon.ErrExhausted
}
