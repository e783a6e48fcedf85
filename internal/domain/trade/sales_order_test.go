package trade

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yarnlot/backend/internal/domain/shared"
)

func newTestOrder(t *testing.T) *SalesOrder {
	t.Helper()
	item, err := NewSalesOrderItem(1, decimal.NewFromInt(4), decimal.NewFromInt(100))
	require.NoError(t, err)
	order, err := NewSalesOrder("SO/2025/JUL/20/1", 5, []SalesOrderItem{*item}, 9)
	require.NoError(t, err)
	return order
}

func TestSalesOrderStatus(t *testing.T) {
	t.Run("valid statuses", func(t *testing.T) {
		assert.True(t, SalesOrderStatusNew.IsValid())
		assert.True(t, SalesOrderStatusDelivered.IsValid())
		assert.True(t, SalesOrderStatusCancelled.IsValid())
	})

	t.Run("legacy statuses are rejected", func(t *testing.T) {
		for _, legacy := range []SalesOrderStatus{"Processing", "Dispatched", "Pending"} {
			assert.False(t, legacy.IsValid(), string(legacy))
		}
	})

	t.Run("transitions", func(t *testing.T) {
		assert.True(t, SalesOrderStatusNew.CanTransitionTo(SalesOrderStatusCancelled))
		assert.True(t, SalesOrderStatusNew.CanTransitionTo(SalesOrderStatusDelivered))
		assert.False(t, SalesOrderStatusDelivered.CanTransitionTo(SalesOrderStatusNew))
		assert.False(t, SalesOrderStatusDelivered.CanTransitionTo(SalesOrderStatusCancelled))
		assert.False(t, SalesOrderStatusCancelled.CanTransitionTo(SalesOrderStatusNew))
		assert.False(t, SalesOrderStatusCancelled.CanTransitionTo(SalesOrderStatusDelivered))
	})
}

func TestSalesOrderCancel(t *testing.T) {
	t.Run("cancels a new order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Cancel(4))
		assert.Equal(t, SalesOrderStatusCancelled, order.Status)
		assert.Equal(t, uint(4), order.UpdatedBy)
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Cancel(4))

		err := order.Cancel(4)
		var violation *shared.LifecycleViolationError
		require.True(t, errors.As(err, &violation))
		assert.Equal(t, "cancel", violation.Action)
	})

	t.Run("deleted order reads as not found", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.SoftDelete(4))
		assert.ErrorIs(t, order.Cancel(4), shared.ErrNotFound)
	})
}

func TestSalesOrderConversion(t *testing.T) {
	t.Run("marks the order delivered", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkConverted(4))
		assert.Equal(t, SalesOrderStatusDelivered, order.Status)
		assert.True(t, order.ConvertedToChallan)
	})

	t.Run("cannot convert twice", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkConverted(4))

		err := order.MarkConverted(4)
		var violation *shared.LifecycleViolationError
		require.True(t, errors.As(err, &violation))
		assert.Contains(t, violation.Reason, "already been converted")
	})

	t.Run("cannot convert a cancelled order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Cancel(4))
		require.Error(t, order.EnsureConvertible())
	})

	t.Run("cannot convert a deleted order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.SoftDelete(4))
		require.Error(t, order.EnsureConvertible())
	})
}

func TestSalesOrderEnsureReservable(t *testing.T) {
	t.Run("new order may reserve", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.EnsureReservable())
	})

	t.Run("cancelled order may not", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Cancel(4))

		err := order.EnsureReservable()
		var violation *shared.LifecycleViolationError
		require.True(t, errors.As(err, &violation))
		assert.Equal(t, "reserve", violation.Action)
	})

	t.Run("delivered order may not", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkConverted(4))
		require.Error(t, order.EnsureReservable())
	})

	t.Run("deleted order reads as not found", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.SoftDelete(4))
		assert.ErrorIs(t, order.EnsureReservable(), shared.ErrNotFound)
	})
}

func TestSalesOrderSoftDelete(t *testing.T) {
	t.Run("flags the order deleted", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.SoftDelete(4))
		assert.True(t, order.IsDeleted)
	})

	t.Run("delivered orders cannot be deleted", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkConverted(4))

		err := order.SoftDelete(4)
		var violation *shared.LifecycleViolationError
		require.True(t, errors.As(err, &violation))
		assert.Equal(t, "delete", violation.Action)
	})
}

func TestNewSalesOrderValidation(t *testing.T) {
	item, err := NewSalesOrderItem(1, decimal.Zero, decimal.NewFromInt(50))
	require.NoError(t, err)

	_, err = NewSalesOrder("", 5, []SalesOrderItem{*item}, 9)
	require.Error(t, err)

	_, err = NewSalesOrder("SO/2025/JUL/20/1", 0, []SalesOrderItem{*item}, 9)
	require.Error(t, err)

	_, err = NewSalesOrder("SO/2025/JUL/20/1", 5, nil, 9)
	require.Error(t, err)

	_, err = NewSalesOrderItem(1, decimal.NewFromInt(1), decimal.Zero)
	require.Error(t, err)

	_, err = NewSalesOrderItem(1, decimal.NewFromInt(-1), decimal.NewFromInt(50))
	require.Error(t, err)
}
