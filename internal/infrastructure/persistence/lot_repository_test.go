package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yarnlot/backend/internal/domain/inventory"
	"github.com/yarnlot/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGorm opens a GORM handle backed by sqlmock. Default transactions
// are skipped so expectations match single statements.
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return db, mock
}

func lotColumns() []string {
	return []string{"id", "lot_number", "product_id", "category_id", "location_id",
		"supplier_id", "grn_item_id", "available_quantity", "committed_quantity"}
}

func TestGormLotRepositoryReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the conditional update", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormLotRepository(db)

		mock.ExpectExec(`UPDATE "inventory_lots" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Reserve(ctx, 1, decimal.NewFromInt(40), 9)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected reads back the shortfall", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormLotRepository(db)

		mock.ExpectExec(`UPDATE "inventory_lots" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "inventory_lots"`).
			WillReturnRows(sqlmock.NewRows(lotColumns()).
				AddRow(1, "LOT/2025/07/20/1", 7, 2, 3, 4, 5, "40", "0"))

		err := repo.Reserve(ctx, 1, decimal.NewFromInt(100), 9)

		var insufficient *shared.InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, uint(7), insufficient.ProductID)
		assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(40)))
		assert.True(t, insufficient.Required.Equal(decimal.NewFromInt(100)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLotRepositoryRelease(t *testing.T) {
	t.Run("zero rows affected is an invalid state", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormLotRepository(db)

		mock.ExpectExec(`UPDATE "inventory_lots" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Release(context.Background(), 1, decimal.NewFromInt(10), 9)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestGormLotRepositoryDeduct(t *testing.T) {
	t.Run("zero rows affected reads back the shortfall", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormLotRepository(db)

		mock.ExpectExec(`UPDATE "inventory_lots" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "inventory_lots"`).
			WillReturnRows(sqlmock.NewRows(lotColumns()).
				AddRow(1, "LOT/2025/07/20/1", 7, 2, 3, 4, 5, "15", "85"))

		err := repo.Deduct(context.Background(), 1, decimal.NewFromInt(20), 9)

		var insufficient *shared.InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(15)))
	})
}

func TestGormLotRepositoryFindAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("queries in FIFO order", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormLotRepository(db)

		mock.ExpectQuery(`WHERE product_id = \$1 AND available_quantity > 0 ORDER BY created_at ASC, id ASC`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows(lotColumns()).
				AddRow(1, "LOT/2025/07/19/1", 7, 2, 3, 4, 5, "100", "0").
				AddRow(2, "LOT/2025/07/20/1", 7, 2, 3, 4, 6, "50", "0"))

		lots, err := repo.FindAvailable(ctx, 7, nil)
		require.NoError(t, err)
		require.Len(t, lots, 2)
		assert.Equal(t, "LOT/2025/07/19/1", lots[0].LotNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("location filter narrows the scan", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormLotRepository(db)

		mock.ExpectQuery(`\(product_id = \$1 AND available_quantity > 0\) AND location_id = \$2`).
			WithArgs(7, 3).
			WillReturnRows(sqlmock.NewRows(lotColumns()))

		locationID := uint(3)
		lots, err := repo.FindAvailable(ctx, 7, &locationID)
		require.NoError(t, err)
		assert.Empty(t, lots)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLotRepositoryFindByID(t *testing.T) {
	t.Run("missing lot maps to not found", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormLotRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "inventory_lots"`).
			WillReturnRows(sqlmock.NewRows(lotColumns()))

		_, err := repo.FindByID(context.Background(), 404)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("for-update acquires the row lock on postgres", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormLotRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
			WillReturnRows(sqlmock.NewRows(lotColumns()).
				AddRow(1, "LOT/2025/07/20/1", 7, 2, 3, 4, 5, "100", "0"))

		lot, err := repo.FindByIDForUpdate(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, uint(1), lot.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLotRepositoryCreate(t *testing.T) {
	t.Run("duplicate lot number maps to duplicate number", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormLotRepository(db)

		mock.ExpectQuery(`INSERT INTO "inventory_lots"`).
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "idx_inventory_lots_lot_number"`))

		lot, err := inventory.NewLot("LOT/2025/07/20/1", 7, 2, 3, 4, 5, decimal.NewFromInt(100), 9)
		require.NoError(t, err)

		err = repo.Create(context.Background(), lot)
		assert.ErrorIs(t, err, shared.ErrDuplicateNumber)
	})
}
