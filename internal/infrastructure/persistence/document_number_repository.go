package persistence

import (
	"context"
	"fmt"

	"github.com/yarnlot/backend/internal/domain/shared"
	"github.com/yarnlot/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// numberSeries maps each document prefix to the table and column holding its
// identifiers. Job orders are numbered by the job-order module outside this
// service, so JO has no series here.
var numberSeries = map[trade.DocumentPrefix]struct {
	table  string
	column string
}{
	trade.PrefixLot:           {"inventory_lots", "lot_number"},
	trade.PrefixGoodsReceipt:  {"goods_receipts", "grn_number"},
	trade.PrefixSalesOrder:    {"sales_orders", "so_number"},
	trade.PrefixSalesChallan:  {"sales_challans", "sc_number"},
	trade.PrefixPurchaseOrder: {"purchase_orders", "po_number"},
}

// GormNumberRepository implements trade.NumberScanner. The scan runs on the
// caller's transaction handle, so concurrent mints on the same day see each
// other's rows; the unique index on each number column is the safety net
// that demotes a remaining collision to DUPLICATE_NUMBER.
type GormNumberRepository struct {
	db *gorm.DB
}

// NewGormNumberRepository creates a new GormNumberRepository
func NewGormNumberRepository(db *gorm.DB) *GormNumberRepository {
	return &GormNumberRepository{db: db}
}

// NumbersWithPrefix returns every identifier sharing the date prefix.
func (r *GormNumberRepository) NumbersWithPrefix(ctx context.Context, prefix trade.DocumentPrefix, datePrefix string) ([]string, error) {
	series, ok := numberSeries[prefix]
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("No number series is managed for prefix %q", prefix))
	}

	var numbers []string
	if err := r.db.WithContext(ctx).
		Table(series.table).
		Where(series.column+" LIKE ?", datePrefix+"%").
		Pluck(series.column, &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

// Ensure GormNumberRepository implements NumberScanner
var _ trade.NumberScanner = (*GormNumberRepository)(nil)
