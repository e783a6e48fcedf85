package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yarnlot/backend/internal/domain/shared"
	"github.com/yarnlot/backend/internal/domain/trade"
)

func TestGormNumberRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("scans the series table by date prefix", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewGormNumberRepository(db)

		mock.ExpectQuery(`SELECT "grn_number" FROM "goods_receipts" WHERE grn_number LIKE \$1`).
			WithArgs("GRN/2025/JUL/20/%").
			WillReturnRows(sqlmock.NewRows([]string{"grn_number"}).
				AddRow("GRN/2025/JUL/20/1").
				AddRow("GRN/2025/JUL/20/2"))

		numbers, err := repo.NumbersWithPrefix(ctx, trade.PrefixGoodsReceipt, "GRN/2025/JUL/20/")
		require.NoError(t, err)
		assert.Equal(t, []string{"GRN/2025/JUL/20/1", "GRN/2025/JUL/20/2"}, numbers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("job orders have no managed series", func(t *testing.T) {
		db, _ := newMockGorm(t)
		repo := NewGormNumberRepository(db)

		_, err := repo.NumbersWithPrefix(ctx, trade.PrefixJobOrder, "JO/2025/JUL/20/")
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}
