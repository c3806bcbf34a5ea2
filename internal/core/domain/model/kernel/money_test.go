package kernel_test

import (
	"math"
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates_valid_amount", func(t *testing.T) {
		m, err := kernel.NewMoney(5000)

		require.NoError(t, err)
		assert.Equal(t, int64(5000), m.Cents())
	})

	t.Run("zero_is_valid", func(t *testing.T) {
		m, err := kernel.NewMoney(0)

		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("negative_amount_is_rejected", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		sum := kernel.MustMoney(1050).Add(kernel.MustMoney(950))
		assert.Equal(t, int64(2000), sum.Cents())
	})

	t.Run("sub_floors_at_zero", func(t *testing.T) {
		assert.Equal(t, int64(4000), kernel.MustMoney(5000).Sub(kernel.MustMoney(1000)).Cents())
		assert.True(t, kernel.MustMoney(1000).Sub(kernel.MustMoney(5000)).IsZero())
	})

	t.Run("mul_int", func(t *testing.T) {
		m, err := kernel.MustMoney(1250).MulInt(3)

		require.NoError(t, err)
		assert.Equal(t, int64(3750), m.Cents())
	})

	t.Run("mul_negative_quantity_is_rejected", func(t *testing.T) {
		_, err := kernel.MustMoney(100).MulInt(-1)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("mul_overflow_is_rejected", func(t *testing.T) {
		_, err := kernel.MustMoney(math.MaxInt64/2 + 1).MulInt(2)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("percent_rounds_half_up", func(t *testing.T) {
		m, err := kernel.MustMoney(999).Percent(0.5)

		require.NoError(t, err)
		assert.Equal(t, int64(500), m.Cents())
	})

	t.Run("percent_out_of_range_is_rejected", func(t *testing.T) {
		_, err := kernel.MustMoney(100).Percent(1.5)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("min", func(t *testing.T) {
		m := kernel.MustMoney(1000).Min(kernel.MustMoney(5000))
		assert.Equal(t, int64(1000), m.Cents())
	})
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "40.00", kernel.MustMoney(4000).String())
	assert.Equal(t, "0.05", kernel.MustMoney(5).String())
	assert.Equal(t, "12.34", kernel.MustMoney(1234).String())
}
