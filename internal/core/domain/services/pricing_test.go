package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/domain/model/coupon"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func makeLines(t *testing.T, priced ...int64) []order.Item {
	t.Helper()
	items := make([]order.Item, 0, len(priced))
	for _, cents := range priced {
		item, err := order.NewItem(kernel.NewUUID(), 1, kernel.MustMoney(cents))
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func Test_PricingEngine_Price(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("sums lines without coupon", func(t *testing.T) {
		item, err := order.NewItem(kernel.NewUUID(), 3, kernel.MustMoney(500))
		require.NoError(t, err)

		quote, err := engine.Price([]order.Item{item}, nil, testNow)

		require.NoError(t, err)
		assert.Equal(t, kernel.MustMoney(1500), quote.Subtotal)
		assert.True(t, quote.Discount.IsZero())
		assert.Equal(t, kernel.MustMoney(1500), quote.Total)
	})

	t.Run("applies flat coupon", func(t *testing.T) {
		cpn, err := coupon.NewFlatCoupon("SAVE10", kernel.MustMoney(1000),
			kernel.MustMoney(2000), testNow.Add(24*time.Hour), 1)
		require.NoError(t, err)

		quote, err := engine.Price(makeLines(t, 5000), cpn, testNow)

		require.NoError(t, err)
		assert.Equal(t, kernel.MustMoney(5000), quote.Subtotal)
		assert.Equal(t, kernel.MustMoney(1000), quote.Discount)
		assert.Equal(t, kernel.MustMoney(4000), quote.Total)
	})

	t.Run("total never goes below zero", func(t *testing.T) {
		cpn, err := coupon.NewFlatCoupon("BIG", kernel.MustMoney(10000),
			kernel.MustMoney(0), testNow.Add(24*time.Hour), 1)
		require.NoError(t, err)

		quote, err := engine.Price(makeLines(t, 2500), cpn, testNow)

		require.NoError(t, err)
		assert.Equal(t, kernel.MustMoney(2500), quote.Discount)
		assert.True(t, quote.Total.IsZero())
	})

	t.Run("coupon rejection passes through", func(t *testing.T) {
		cpn, err := coupon.NewFlatCoupon("SAVE10", kernel.MustMoney(1000),
			kernel.MustMoney(2000), testNow.Add(24*time.Hour), 1)
		require.NoError(t, err)

		_, err = engine.Price(makeLines(t, 1500), cpn, testNow)

		assert.ErrorIs(t, err, coupon.ErrBelowMinimum)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := engine.Price(nil, nil, testNow)
		assert.Error(t, err)
	})

	t.Run("rejects unconstructed line", func(t *testing.T) {
		_, err := engine.Price([]order.Item{{}}, nil, testNow)
		assert.ErrorIs(t, err, order.ErrItemIsNotConstructed)
	})
}
