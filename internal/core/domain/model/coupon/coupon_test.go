package coupon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/domain/model/coupon"
	"marketplace/internal/core/domain/model/kernel"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func validUntilTomorrow() time.Time {
	return testNow.Add(24 * time.Hour)
}

func Test_NewFlatCoupon(t *testing.T) {
	t.Run("should create flat coupon", func(t *testing.T) {
		c, err := coupon.NewFlatCoupon("save10", kernel.MustMoney(1000),
			kernel.MustMoney(2000), validUntilTomorrow(), 1)

		require.NoError(t, err)
		assert.NoError(t, c.Validate())
		assert.Equal(t, "SAVE10", c.Code())
		assert.Equal(t, coupon.Flat, c.DiscountType())
		assert.Equal(t, kernel.MustMoney(1000), c.FlatAmount())
		assert.Equal(t, 1, c.MaxRedemptions())
		assert.Equal(t, 0, c.Redemptions())
	})

	t.Run("should reject empty code", func(t *testing.T) {
		_, err := coupon.NewFlatCoupon("  ", kernel.MustMoney(1000),
			kernel.MustMoney(2000), validUntilTomorrow(), 1)
		assert.Error(t, err)
	})

	t.Run("should reject non positive redemption budget", func(t *testing.T) {
		_, err := coupon.NewFlatCoupon("save10", kernel.MustMoney(1000),
			kernel.MustMoney(2000), validUntilTomorrow(), 0)
		assert.Error(t, err)
	})
}

func Test_NewPercentageCoupon(t *testing.T) {
	t.Run("should create percentage coupon", func(t *testing.T) {
		cap := kernel.MustMoney(500)
		c, err := coupon.NewPercentageCoupon("half", 0.5, &cap,
			kernel.MustMoney(0), validUntilTomorrow(), 100)

		require.NoError(t, err)
		assert.Equal(t, coupon.Percentage, c.DiscountType())
		assert.Equal(t, 0.5, c.PercentValue())
		require.NotNil(t, c.MaxDiscount())
		assert.Equal(t, cap, *c.MaxDiscount())
	})

	t.Run("should reject value outside unit interval", func(t *testing.T) {
		_, err := coupon.NewPercentageCoupon("half", 1.5, nil,
			kernel.MustMoney(0), validUntilTomorrow(), 100)
		assert.Error(t, err)

		_, err = coupon.NewPercentageCoupon("half", -0.1, nil,
			kernel.MustMoney(0), validUntilTomorrow(), 100)
		assert.Error(t, err)
	})
}

func Test_RestoreCoupon(t *testing.T) {
	t.Run("should restore redemption count", func(t *testing.T) {
		c, err := coupon.RestoreCoupon("save10", coupon.Flat, kernel.MustMoney(1000),
			0, nil, kernel.MustMoney(2000), validUntilTomorrow(), 5, 3)

		require.NoError(t, err)
		assert.Equal(t, 3, c.Redemptions())
	})

	t.Run("should reject redemption count above budget", func(t *testing.T) {
		_, err := coupon.RestoreCoupon("save10", coupon.Flat, kernel.MustMoney(1000),
			0, nil, kernel.MustMoney(2000), validUntilTomorrow(), 5, 6)
		assert.Error(t, err)
	})
}

func Test_Coupon_ComputeDiscount(t *testing.T) {
	t.Run("flat discount applies when all checks pass", func(t *testing.T) {
		c, err := coupon.NewFlatCoupon("save10", kernel.MustMoney(1000),
			kernel.MustMoney(2000), validUntilTomorrow(), 1)
		require.NoError(t, err)

		discount, err := c.ComputeDiscount(kernel.MustMoney(5000), testNow)

		require.NoError(t, err)
		assert.Equal(t, kernel.MustMoney(1000), discount)
	})

	t.Run("flat discount is capped at the subtotal", func(t *testing.T) {
		c, err := coupon.NewFlatCoupon("big", kernel.MustMoney(10000),
			kernel.MustMoney(0), validUntilTomorrow(), 1)
		require.NoError(t, err)

		discount, err := c.ComputeDiscount(kernel.MustMoney(2500), testNow)

		require.NoError(t, err)
		assert.Equal(t, kernel.MustMoney(2500), discount)
	})

	t.Run("percentage discount is a fraction of the subtotal", func(t *testing.T) {
		c, err := coupon.NewPercentageCoupon("ten", 0.1, nil,
			kernel.MustMoney(0), validUntilTomorrow(), 10)
		require.NoError(t, err)

		discount, err := c.ComputeDiscount(kernel.MustMoney(5000), testNow)

		require.NoError(t, err)
		assert.Equal(t, kernel.MustMoney(500), discount)
	})

	t.Run("percentage discount respects the cap", func(t *testing.T) {
		cap := kernel.MustMoney(300)
		c, err := coupon.NewPercentageCoupon("ten", 0.1, &cap,
			kernel.MustMoney(0), validUntilTomorrow(), 10)
		require.NoError(t, err)

		discount, err := c.ComputeDiscount(kernel.MustMoney(5000), testNow)

		require.NoError(t, err)
		assert.Equal(t, cap, discount)
	})

	t.Run("expired coupon is rejected", func(t *testing.T) {
		c, err := coupon.NewFlatCoupon("old", kernel.MustMoney(1000),
			kernel.MustMoney(0), testNow.Add(-time.Hour), 1)
		require.NoError(t, err)

		_, err = c.ComputeDiscount(kernel.MustMoney(5000), testNow)

		assert.ErrorIs(t, err, coupon.ErrExpired)
	})

	t.Run("exhausted coupon is rejected", func(t *testing.T) {
		c, err := coupon.RestoreCoupon("save10", coupon.Flat, kernel.MustMoney(1000),
			0, nil, kernel.MustMoney(2000), validUntilTomorrow(), 1, 1)
		require.NoError(t, err)

		_, err = c.ComputeDiscount(kernel.MustMoney(5000), testNow)

		assert.ErrorIs(t, err, coupon.ErrExhausted)
	})

	t.Run("subtotal below minimum is rejected", func(t *testing.T) {
		c, err := coupon.NewFlatCoupon("save10", kernel.MustMoney(1000),
			kernel.MustMoney(2000), validUntilTomorrow(), 1)
		require.NoError(t, err)

		_, err = c.ComputeDiscount(kernel.MustMoney(1500), testNow)

		assert.ErrorIs(t, err, coupon.ErrBelowMinimum)
	})

	t.Run("expiry is checked before budget and minimum", func(t *testing.T) {
		c, err := coupon.RestoreCoupon("old", coupon.Flat, kernel.MustMoney(1000),
			0, nil, kernel.MustMoney(2000), testNow.Add(-time.Hour), 1, 1)
		require.NoError(t, err)

		_, err = c.ComputeDiscount(kernel.MustMoney(100), testNow)

		assert.ErrorIs(t, err, coupon.ErrExpired)
	})

	t.Run("budget is checked before minimum", func(t *testing.T) {
		c, err := coupon.RestoreCoupon("save10", coupon.Flat, kernel.MustMoney(1000),
			0, nil, kernel.MustMoney(2000), validUntilTomorrow(), 1, 1)
		require.NoError(t, err)

		_, err = c.ComputeDiscount(kernel.MustMoney(100), testNow)

		assert.ErrorIs(t, err, coupon.ErrExhausted)
	})

	t.Run("validation has no side effects", func(t *testing.T) {
		c, err := coupon.NewFlatCoupon("save10", kernel.MustMoney(1000),
			kernel.MustMoney(2000), validUntilTomorrow(), 1)
		require.NoError(t, err)

		_, err = c.ComputeDiscount(kernel.MustMoney(5000), testNow)
		require.NoError(t, err)
		_, err = c.ComputeDiscount(kernel.MustMoney(5000), testNow)
		require.NoError(t, err)

		assert.Equal(t, 0, c.Redemptions())
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var c coupon.Coupon
		_, err := c.ComputeDiscount(kernel.MustMoney(5000), testNow)
		assert.ErrorIs(t, err, coupon.ErrCouponIsNotConstructed)
	})
}
