package persistence

import (
	"context"
	"database/sql"

	"github.com/yarnlot/backend/internal/application/ledger"
	"github.com/yarnlot/backend/internal/domain/audit"
	"github.com/yarnlot/backend/internal/domain/inventory"
	"github.com/yarnlot/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements ledger.TransactionScope on a GORM handle.
// Every Execute call opens one database transaction and hands the callback a
// repository set bound to it, so all reads and writes of an operation commit
// or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a transaction. On postgres the transaction runs
// serializable; sqlite ignores the isolation hint and serializes writers
// itself.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos ledger.Repositories) error) error {
	var opts []*sql.TxOptions
	if supportsRowLocks(s.db) {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormRepositories(tx))
	}, opts...)
}

// gormRepositories is the transaction-scoped repository set.
type gormRepositories struct {
	lots           *GormLotRepository
	transactions   *GormTransactionRepository
	numbers        *GormNumberRepository
	salesOrders    *GormSalesOrderRepository
	salesChallans  *GormSalesChallanRepository
	goodsReceipts  *GormGoodsReceiptRepository
	purchaseOrders *GormPurchaseOrderRepository
	audit          *GormAuditRepository
}

func newGormRepositories(tx *gorm.DB) *gormRepositories {
	return &gormRepositories{
		lots:           NewGormLotRepository(tx),
		transactions:   NewGormTransactionRepository(tx),
		numbers:        NewGormNumberRepository(tx),
		salesOrders:    NewGormSalesOrderRepository(tx),
		salesChallans:  NewGormSalesChallanRepository(tx),
		goodsReceipts:  NewGormGoodsReceiptRepository(tx),
		purchaseOrders: NewGormPurchaseOrderRepository(tx),
		audit:          NewGormAuditRepository(tx),
	}
}

func (r *gormRepositories) Lots() inventory.LotRepository { return r.lots }

func (r *gormRepositories) Transactions() inventory.TransactionRepository { return r.transactions }

func (r *gormRepositories) Numbers() trade.NumberScanner { return r.numbers }

func (r *gormRepositories) SalesOrders() trade.SalesOrderRepository { return r.salesOrders }

func (r *gormRepositories) SalesChallans() trade.SalesChallanRepository { return r.salesChallans }

func (r *gormRepositories) GoodsReceipts() trade.GoodsReceiptRepository { return r.goodsReceipts }

func (r *gormRepositories) PurchaseOrders() trade.PurchaseOrderRepository { return r.purchaseOrders }

func (r *gormRepositories) Audit() audit.Repository { return r.audit }

// Ensure GormTransactionScope implements TransactionScope
var _ ledger.TransactionScope = (*GormTransactionScope)(nil)
