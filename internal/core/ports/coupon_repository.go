package ports

import (
	"context"

	"marketplace/internal/core/domain/model/coupon"
)

// CouponRepository defines the persistence contract for coupons.
type CouponRepository interface {
	// Add saves a new coupon. New coupons start active.
	Add(ctx context.Context, cpn *coupon.Coupon) error

	// Get retrieves an active coupon by its code (case-insensitive).
	// A code that does not exist or belongs to a deactivated coupon
	// returns errs.ErrObjectNotFound.
	Get(ctx context.Context, code string) (*coupon.Coupon, error)

	// IncrementRedemption atomically consumes one redemption of the coupon.
	// The increment is guarded against the redemption budget in storage, so
	// concurrent orders racing for a coupon's last redemption observe
	// exactly one success; the losers receive coupon.ErrExhausted.
	IncrementRedemption(ctx context.Context, code string) error
}
