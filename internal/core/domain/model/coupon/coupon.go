package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Validation failures, distinguishable so callers can present a precise
// message. A coupon that does not exist (or is deactivated) is reported by
// the repository as errs.ErrObjectNotFound.
var (
	// ErrExpired is returned when the coupon's validity window has passed.
	ErrExpired = errors.New("coupon expired")

	// ErrExhausted is returned when the coupon reached its maximum
	// number of redemptions.
	ErrExhausted = errors.New("coupon exhausted")

	// ErrBelowMinimum is returned when the order subtotal is below the
	// coupon's minimum order amount.
	ErrBelowMinimum = errors.New("order subtotal below coupon minimum")

	// ErrCouponIsNotConstructed is returned when a Coupon instance was not
	// created through NewCoupon or RestoreCoupon.
	ErrCouponIsNotConstructed = errors.New("Coupon must be created via NewCoupon or RestoreCoupon constructor")
)

// DiscountType distinguishes flat-amount coupons from percentage coupons.
type DiscountType int

const (
	// UnknownDiscount represents an invalid or undefined discount type.
	UnknownDiscount DiscountType = iota

	// Flat discounts subtract a fixed amount, capped at the subtotal.
	Flat

	// Percentage discounts subtract a fraction of the subtotal, optionally
	// capped by a maximum discount amount.
	Percentage
)

// String returns the lowercase name of the discount type.
func (d DiscountType) String() string {
	switch d {
	case Flat:
		return "flat"
	case Percentage:
		return "percentage"
	default:
		return "unknown"
	}
}

// DiscountTypeFromString parses a discount type name as stored in the
// database. Unknown names produce a validation error.
func DiscountTypeFromString(s string) (DiscountType, error) {
	switch s {
	case "flat":
		return Flat, nil
	case "percentage":
		return Percentage, nil
	default:
		return UnknownDiscount, errs.NewValueIsInvalidErrorWithCause(
			"discountType", fmt.Errorf("%q is not a valid discount type", s))
	}
}

// Validate checks that the discount type is one of the defined kinds.
func (d DiscountType) Validate() error {
	if d != Flat && d != Percentage {
		return errs.NewValueIsInvalidErrorWithCause(
			"discountType", fmt.Errorf("%d is not a valid discount type", d))
	}
	return nil
}

// Coupon is a discount code with a validity window, a redemption budget and
// a minimum order amount.
//
// Coupon invariants:
//   - redemption count never exceeds the maximum and is never decremented
//   - percentage values lie in [0, 1]
//   - validation is pure: the redemption count moves only when the engine
//     commits an order that used the code, so retried validation calls
//     never double-count
type Coupon struct {
	// code is the uppercase coupon code customers enter
	code string

	// discountType selects flat or percentage semantics
	discountType DiscountType

	// flatAmount is the discount for Flat coupons
	flatAmount kernel.Money

	// percentValue is the discount fraction for Percentage coupons, in [0, 1]
	percentValue float64

	// maxDiscount optionally caps a percentage discount (nil means uncapped)
	maxDiscount *kernel.Money

	// minOrderAmount is the smallest subtotal the coupon applies to
	minOrderAmount kernel.Money

	// expiresAt ends the validity window
	expiresAt time.Time

	// maxRedemptions is the total redemption budget
	maxRedemptions int

	// redemptions is the current redemption count
	redemptions int

	// isConstructed ensures the coupon was created via a constructor
	isConstructed bool
}

// NewFlatCoupon creates a coupon subtracting a fixed amount.
func NewFlatCoupon(
	code string,
	amount kernel.Money,
	minOrderAmount kernel.Money,
	expiresAt time.Time,
	maxRedemptions int,
) (*Coupon, error) {
	return newCoupon(code, Flat, amount, 0, nil, minOrderAmount, expiresAt, maxRedemptions, 0)
}

// NewPercentageCoupon creates a coupon subtracting a fraction of the
// subtotal. The value must lie in [0, 1]; maxDiscount, when non-nil, caps
// the computed discount.
func NewPercentageCoupon(
	code string,
	value float64,
	maxDiscount *kernel.Money,
	minOrderAmount kernel.Money,
	expiresAt time.Time,
	maxRedemptions int,
) (*Coupon, error) {
	return newCoupon(code, Percentage, kernel.Money{}, value, maxDiscount, minOrderAmount, expiresAt, maxRedemptions, 0)
}

// RestoreCoupon reconstructs a Coupon from persistent storage, including its
// current redemption count.
func RestoreCoupon(
	code string,
	discountType DiscountType,
	flatAmount kernel.Money,
	percentValue float64,
	maxDiscount *kernel.Money,
	minOrderAmount kernel.Money,
	expiresAt time.Time,
	maxRedemptions int,
	redemptions int,
) (*Coupon, error) {
	return newCoupon(code, discountType, flatAmount, percentValue, maxDiscount,
		minOrderAmount, expiresAt, maxRedemptions, redemptions)
}

func newCoupon(
	code string,
	discountType DiscountType,
	flatAmount kernel.Money,
	percentValue float64,
	maxDiscount *kernel.Money,
	minOrderAmount kernel.Money,
	expiresAt time.Time,
	maxRedemptions int,
	redemptions int,
) (*Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	if err := discountType.Validate(); err != nil {
		return nil, err
	}
	if discountType == Percentage && (percentValue < 0 || percentValue > 1) {
		return nil, errs.NewValueIsOutOfRangeError("percentValue", percentValue, 0.0, 1.0)
	}
	if maxRedemptions <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"maxRedemptions", fmt.Errorf("%d is not greater than 0", maxRedemptions))
	}
	if redemptions < 0 || redemptions > maxRedemptions {
		return nil, errs.NewValueIsOutOfRangeError("redemptions", redemptions, 0, maxRedemptions)
	}

	return &Coupon{
		code:           strings.ToUpper(code),
		discountType:   discountType,
		flatAmount:     flatAmount,
		percentValue:   percentValue,
		maxDiscount:    maxDiscount,
		minOrderAmount: minOrderAmount,
		expiresAt:      expiresAt,
		maxRedemptions: maxRedemptions,
		redemptions:    redemptions,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Coupon was created through a constructor.
func (c *Coupon) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCouponIsNotConstructed
	}
	return nil
}

// Code returns the uppercase coupon code.
func (c *Coupon) Code() string {
	return c.code
}

// DiscountType returns the coupon's discount semantics.
func (c *Coupon) DiscountType() DiscountType {
	return c.discountType
}

// FlatAmount returns the fixed discount of a Flat coupon.
func (c *Coupon) FlatAmount() kernel.Money {
	return c.flatAmount
}

// PercentValue returns the discount fraction of a Percentage coupon.
func (c *Coupon) PercentValue() float64 {
	return c.percentValue
}

// MaxDiscount returns the optional percentage-discount cap, nil if uncapped.
func (c *Coupon) MaxDiscount() *kernel.Money {
	return c.maxDiscount
}

// MinOrderAmount returns the smallest subtotal the coupon applies to.
func (c *Coupon) MinOrderAmount() kernel.Money {
	return c.minOrderAmount
}

// ExpiresAt returns the end of the validity window.
func (c *Coupon) ExpiresAt() time.Time {
	return c.expiresAt
}

// MaxRedemptions returns the total redemption budget.
func (c *Coupon) MaxRedemptions() int {
	return c.maxRedemptions
}

// Redemptions returns the current redemption count.
func (c *Coupon) Redemptions() int {
	return c.redemptions
}

// ComputeDiscount validates the coupon against a subtotal at a point in time
// and returns the discount amount.
//
// The constraints are checked in order: expiry, redemption budget, minimum
// order amount. Each failure is a distinguishable error (ErrExpired,
// ErrExhausted, ErrBelowMinimum).
//
// Flat coupons yield min(amount, subtotal); percentage coupons yield
// subtotal × value, capped by the maximum discount when one is set.
// ComputeDiscount has no side effects.
func (c *Coupon) ComputeDiscount(subtotal kernel.Money, now time.Time) (kernel.Money, error) {
	if err := c.Validate(); err != nil {
		return kernel.Money{}, err
	}

	if !now.Before(c.expiresAt) {
		return kernel.Money{}, fmt.Errorf("%w: %s expired at %s", ErrExpired, c.code, c.expiresAt.Format(time.RFC3339))
	}
	if c.redemptions >= c.maxRedemptions {
		return kernel.Money{}, fmt.Errorf("%w: %s", ErrExhausted, c.code)
	}
	if subtotal.LessThan(c.minOrderAmount) {
		return kernel.Money{}, fmt.Errorf("%w: minimum is %s", ErrBelowMinimum, c.minOrderAmount)
	}

	switch c.discountType {
	case Flat:
		return c.flatAmount.Min(subtotal), nil
	case Percentage:
		discount, err := subtotal.Percent(c.percentValue)
		if err != nil {
			return kernel.Money{}, err
		}
		if c.maxDiscount != nil {
			discount = discount.Min(*c.maxDiscount)
		}
		return discount, nil
	default:
		return kernel.Money{}, c.discountType.Validate()
	}
}
