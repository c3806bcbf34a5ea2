package services

import (
	"time"

	"marketplace/internal/core/domain/model/coupon"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// Quote is the priced breakdown of an order computed at creation time.
// The amounts are snapshotted into the order aggregate and never recomputed.
type Quote struct {
	Subtotal kernel.Money
	Discount kernel.Money
	Total    kernel.Money
}

// PricingEngine is a domain service that turns order lines and an optional
// coupon into a final quote.
//
// Business rules:
//   - Subtotal is the sum of quantity times unit price over all lines
//   - The discount comes from the coupon and never exceeds the subtotal
//   - Total is subtotal minus discount, floored at zero
//
// The engine is pure: coupon validation errors pass through unchanged and
// no redemption is recorded here.
type PricingEngine struct{}

// NewPricingEngine creates a new PricingEngine instance.
func NewPricingEngine() PricingEngine {
	return PricingEngine{}
}

// Price computes the quote for the given order lines.
//
// Parameters:
//   - items: order lines with price snapshots (must be non-empty and valid)
//   - cpn: optional coupon, nil when no code was supplied
//   - now: the pricing instant, used for coupon expiry checks
//
// Returns the quote, or a validation error for invalid lines, or the
// coupon's own rejection error (coupon.ErrExpired, coupon.ErrExhausted,
// coupon.ErrBelowMinimum) when the coupon does not apply.
func (p PricingEngine) Price(items []order.Item, cpn *coupon.Coupon, now time.Time) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, errs.NewValueIsRequiredError("items")
	}

	var subtotal kernel.Money
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return Quote{}, err
		}
		subtotal = subtotal.Add(item.Total())
	}

	var discount kernel.Money
	if cpn != nil {
		var err error
		discount, err = cpn.ComputeDiscount(subtotal, now)
		if err != nil {
			return Quote{}, err
		}
	}

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}, nil
}
