package inventory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yarnlot/backend/internal/domain/shared"
)

func TestTransactionConstructors(t *testing.T) {
	qty := decimal.NewFromInt(25)
	balance := decimal.NewFromInt(75)

	t.Run("inbound references the GRN item", func(t *testing.T) {
		txn, err := NewInboundTransaction(1, qty, 3, 11, balance, 9)
		require.NoError(t, err)

		assert.Equal(t, TransactionTypeInbound, txn.TransactionType)
		assert.Equal(t, ReferenceTypeGRNItem, txn.ReferenceType)
		assert.Equal(t, uint(11), txn.ReferenceID)
		assert.Equal(t, ReservationTypeNone, txn.ReservationType)
		assert.False(t, txn.IsReservation())
	})

	t.Run("outbound references the challan item", func(t *testing.T) {
		txn, err := NewOutboundTransaction(1, qty, 3, 12, balance, 9)
		require.NoError(t, err)

		assert.Equal(t, TransactionTypeOutbound, txn.TransactionType)
		assert.Equal(t, ReferenceTypeSalesChallanItem, txn.ReferenceType)
	})

	t.Run("reserve is an adjustment referencing the order", func(t *testing.T) {
		txn, err := NewReserveTransaction(1, qty, 3, 13, balance, 9)
		require.NoError(t, err)

		assert.Equal(t, TransactionTypeAdjustment, txn.TransactionType)
		assert.Equal(t, ReferenceTypeSalesOrder, txn.ReferenceType)
		assert.Equal(t, ReservationTypeReserve, txn.ReservationType)
		assert.True(t, txn.IsReservation())
	})

	t.Run("unreserve mirrors reserve", func(t *testing.T) {
		txn, err := NewUnreserveTransaction(1, qty, 3, 13, balance, 9)
		require.NoError(t, err)
		assert.Equal(t, ReservationTypeUnreserve, txn.ReservationType)
		assert.True(t, txn.IsReservation())
	})

	t.Run("weight mirrors quantity", func(t *testing.T) {
		txn, err := NewInboundTransaction(1, qty, 3, 11, balance, 9)
		require.NoError(t, err)
		assert.True(t, txn.WeightKg.Equal(qty))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := []struct {
			name string
			fn   func() (*Transaction, error)
			code string
		}{
			{"zero lot", func() (*Transaction, error) {
				return NewInboundTransaction(0, qty, 3, 11, balance, 9)
			}, "INVALID_INPUT"},
			{"non-positive quantity", func() (*Transaction, error) {
				return NewInboundTransaction(1, decimal.Zero, 3, 11, balance, 9)
			}, "INVALID_INPUT"},
			{"zero reference", func() (*Transaction, error) {
				return NewInboundTransaction(1, qty, 3, 0, balance, 9)
			}, "INVALID_INPUT"},
			{"negative balance", func() (*Transaction, error) {
				return NewInboundTransaction(1, qty, 3, 11, decimal.NewFromInt(-1), 9)
			}, "INVALID_STATE"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := tc.fn()
				var domainErr *shared.DomainError
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, tc.code, domainErr.Code)
			})
		}
	})
}

func TestTransactionDeltas(t *testing.T) {
	qty := decimal.NewFromInt(10)
	balance := decimal.NewFromInt(40)

	cases := []struct {
		name      string
		build     func() (*Transaction, error)
		available int64
		committed int64
	}{
		{"inbound adds to available", func() (*Transaction, error) {
			return NewInboundTransaction(1, qty, 3, 11, balance, 9)
		}, 10, 0},
		{"outbound removes from available", func() (*Transaction, error) {
			return NewOutboundTransaction(1, qty, 3, 12, balance, 9)
		}, -10, 0},
		{"reserve shifts available to committed", func() (*Transaction, error) {
			return NewReserveTransaction(1, qty, 3, 13, balance, 9)
		}, -10, 10},
		{"unreserve shifts committed to available", func() (*Transaction, error) {
			return NewUnreserveTransaction(1, qty, 3, 13, balance, 9)
		}, 10, -10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txn, err := tc.build()
			require.NoError(t, err)
			assert.True(t, txn.AvailableDelta().Equal(decimal.NewFromInt(tc.available)))
			assert.True(t, txn.CommittedDelta().Equal(decimal.NewFromInt(tc.committed)))
		})
	}

	t.Run("reservation deltas are zero-sum", func(t *testing.T) {
		txn, err := NewReserveTransaction(1, qty, 3, 13, balance, 9)
		require.NoError(t, err)
		assert.True(t, txn.AvailableDelta().Add(txn.CommittedDelta()).IsZero())
	})
}
