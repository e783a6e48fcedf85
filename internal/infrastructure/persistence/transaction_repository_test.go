package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yarnlot/backend/internal/domain/inventory"
)

func TestGormTransactionRepositoryFindByLot(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormTransactionRepository(db)

	mock.ExpectQuery(`WHERE lot_id = \$1 ORDER BY id ASC`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lot_id", "transaction_type", "quantity", "balance_quantity"}).
			AddRow(1, 5, "INBOUND", "100", "100").
			AddRow(2, 5, "ADJUSTMENT", "40", "60"))

	txns, err := repo.FindByLot(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, inventory.TransactionTypeInbound, txns[0].TransactionType)
	assert.True(t, txns[1].BalanceQuantity.Equal(decimal.NewFromInt(60)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionRepositoryOutstandingReservations(t *testing.T) {
	t.Run("maps aggregated rows to reserved lots", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormTransactionRepository(db)

		mock.ExpectQuery(`SUM\(CASE WHEN t\.reservation_type`).
			WillReturnRows(sqlmock.NewRows([]string{"lot_id", "lot_number", "product_id", "location_id", "quantity", "first_txn_id"}).
				AddRow(1, "LOT/2025/07/19/1", 7, 3, "60", 10).
				AddRow(2, "LOT/2025/07/20/1", 7, 3, "40", 11))

		reserved, err := repo.OutstandingReservations(context.Background(), 42)
		require.NoError(t, err)
		require.Len(t, reserved, 2)

		assert.Equal(t, uint(1), reserved[0].LotID)
		assert.True(t, reserved[0].Quantity.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, "LOT/2025/07/20/1", reserved[1].LotNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fully released orders have no rows", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormTransactionRepository(db)

		mock.ExpectQuery(`SUM\(CASE WHEN t\.reservation_type`).
			WillReturnRows(sqlmock.NewRows([]string{"lot_id", "lot_number", "product_id", "location_id", "quantity", "first_txn_id"}))

		reserved, err := repo.OutstandingReservations(context.Background(), 42)
		require.NoError(t, err)
		assert.Empty(t, reserved)
	})
}
