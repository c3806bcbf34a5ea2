package kernel

import (
	"fmt"
	"math"

	"marketplace/internal/pkg/errs"
)

// Money represents a non-negative monetary amount in integer cents.
// Integer arithmetic keeps order totals exact; amounts are only rendered
// as decimal strings at the presentation boundary.
//
// The zero value is a valid amount of zero. Money is immutable: all
// operations return a new value.
//
// Example:
//
//	subtotal := kernel.MustMoney(5000) // 50.00
//	discount := kernel.MustMoney(1000) // 10.00
//	total := subtotal.Sub(discount)    // 40.00
type Money struct {
	cents int64
}

// NewMoney creates a Money from an amount of cents.
// Returns an error if cents is negative.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("cents", cents, 0, int64(math.MaxInt64))
	}
	return Money{cents: cents}, nil
}

// MustMoney creates a Money from cents and panics on a negative amount.
// Intended for constants and tests.
func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub returns m - other, floored at zero so the result stays a valid amount.
func (m Money) Sub(other Money) Money {
	if other.cents >= m.cents {
		return Money{}
	}
	return Money{cents: m.cents - other.cents}
}

// MulInt returns m multiplied by a non-negative quantity.
// The product must fit in int64 cents.
func (m Money) MulInt(quantity int) (Money, error) {
	if quantity < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 0, math.MaxInt)
	}
	if quantity > 0 && m.cents > math.MaxInt64/int64(quantity) {
		return Money{}, errs.NewValueIsOutOfRangeError(
			"cents", m.cents, 0, math.MaxInt64/int64(quantity))
	}
	return Money{cents: m.cents * int64(quantity)}, nil
}

// Percent returns the given fraction of m, rounded half up to the nearest
// cent. The fraction must be within [0, 1].
func (m Money) Percent(fraction float64) (Money, error) {
	if fraction < 0 || fraction > 1 {
		return Money{}, errs.NewValueIsOutOfRangeError("fraction", fraction, 0.0, 1.0)
	}
	return Money{cents: int64(math.Round(float64(m.cents) * fraction))}, nil
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if other.cents < m.cents {
		return other
	}
	return m
}

// LessThan reports whether m is strictly smaller than other.
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// IsEqual reports whether the two amounts are equal.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String renders the amount as a decimal with two fraction digits,
// e.g. "40.00". It implements fmt.Stringer.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
