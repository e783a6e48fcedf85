package inventory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yarnlot/backend/internal/domain/shared"
)

func newTestLot(t *testing.T, available int64) *Lot {
	t.Helper()
	lot, err := NewLot("LOT/2025/07/20/1", 1, 2, 3, 4, 5, decimal.NewFromInt(available), 9)
	require.NoError(t, err)
	return lot
}

func TestNewLot(t *testing.T) {
	t.Run("starts fully available", func(t *testing.T) {
		lot := newTestLot(t, 100)
		assert.True(t, lot.AvailableQuantity.Equal(decimal.NewFromInt(100)))
		assert.True(t, lot.CommittedQuantity.IsZero())
		assert.Equal(t, uint(9), lot.CreatedBy)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := []struct {
			name string
			fn   func() (*Lot, error)
		}{
			{"empty lot number", func() (*Lot, error) {
				return NewLot("", 1, 2, 3, 4, 5, decimal.NewFromInt(1), 9)
			}},
			{"zero product", func() (*Lot, error) {
				return NewLot("LOT/2025/07/20/1", 0, 2, 3, 4, 5, decimal.NewFromInt(1), 9)
			}},
			{"zero location", func() (*Lot, error) {
				return NewLot("LOT/2025/07/20/1", 1, 2, 0, 4, 5, decimal.NewFromInt(1), 9)
			}},
			{"zero grn item", func() (*Lot, error) {
				return NewLot("LOT/2025/07/20/1", 1, 2, 3, 4, 0, decimal.NewFromInt(1), 9)
			}},
			{"non-positive quantity", func() (*Lot, error) {
				return NewLot("LOT/2025/07/20/1", 1, 2, 3, 4, 5, decimal.Zero, 9)
			}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := tc.fn()
				var domainErr *shared.DomainError
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, "INVALID_INPUT", domainErr.Code)
			})
		}
	})
}

func TestLotReserve(t *testing.T) {
	t.Run("moves quantity from available to committed", func(t *testing.T) {
		lot := newTestLot(t, 100)
		require.NoError(t, lot.Reserve(decimal.NewFromInt(40)))

		assert.True(t, lot.AvailableQuantity.Equal(decimal.NewFromInt(60)))
		assert.True(t, lot.CommittedQuantity.Equal(decimal.NewFromInt(40)))
		assert.True(t, lot.TotalQuantity().Equal(decimal.NewFromInt(100)))
	})

	t.Run("fails when available is short", func(t *testing.T) {
		lot := newTestLot(t, 30)
		err := lot.Reserve(decimal.NewFromInt(31))

		var insufficient *shared.InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.True(t, lot.AvailableQuantity.Equal(decimal.NewFromInt(30)))
		assert.True(t, lot.CommittedQuantity.IsZero())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		lot := newTestLot(t, 30)
		require.Error(t, lot.Reserve(decimal.Zero))
	})
}

func TestLotRelease(t *testing.T) {
	t.Run("moves quantity back to available", func(t *testing.T) {
		lot := newTestLot(t, 100)
		require.NoError(t, lot.Reserve(decimal.NewFromInt(40)))
		require.NoError(t, lot.Release(decimal.NewFromInt(40)))

		assert.True(t, lot.AvailableQuantity.Equal(decimal.NewFromInt(100)))
		assert.True(t, lot.CommittedQuantity.IsZero())
	})

	t.Run("cannot release more than committed", func(t *testing.T) {
		lot := newTestLot(t, 100)
		require.NoError(t, lot.Reserve(decimal.NewFromInt(10)))

		err := lot.Release(decimal.NewFromInt(11))
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestLotDeduct(t *testing.T) {
	t.Run("removes available stock permanently", func(t *testing.T) {
		lot := newTestLot(t, 100)
		require.NoError(t, lot.Deduct(decimal.NewFromInt(100)))

		assert.True(t, lot.AvailableQuantity.IsZero())
		assert.False(t, lot.HasAvailableStock())
	})

	t.Run("does not touch committed stock", func(t *testing.T) {
		lot := newTestLot(t, 100)
		require.NoError(t, lot.Reserve(decimal.NewFromInt(60)))

		err := lot.Deduct(decimal.NewFromInt(50))
		var insufficient *shared.InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(40)))
	})
}

func TestLotCanFulfill(t *testing.T) {
	lot := newTestLot(t, 50)
	assert.True(t, lot.CanFulfill(decimal.NewFromInt(50)))
	assert.False(t, lot.CanFulfill(decimal.RequireFromString("50.0001")))
}
