package ledger

import (
	"context"

	"github.com/yarnlot/backend/internal/domain/audit"
	"github.com/yarnlot/backend/internal/domain/inventory"
	"github.com/yarnlot/backend/internal/domain/trade"
)

// TransactionScope runs a function inside one serializable database
// transaction. If the function returns an error, the transaction is rolled
// back and no state change is visible; otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories exposes every repository the coordinator needs, all scoped to
// the same underlying transaction.
type Repositories interface {
	// Lots returns the lot store scoped to the current transaction
	Lots() inventory.LotRepository
	// Transactions returns the transaction log scoped to the current transaction
	Transactions() inventory.TransactionRepository
	// Numbers returns the identifier scanner scoped to the current transaction
	Numbers() trade.NumberScanner
	// SalesOrders returns the sales order repository
	SalesOrders() trade.SalesOrderRepository
	// SalesChallans returns the sales challan repository
	SalesChallans() trade.SalesChallanRepository
	// GoodsReceipts returns the goods receipt repository
	GoodsReceipts() trade.GoodsReceiptRepository
	// PurchaseOrders returns the purchase order repository
	PurchaseOrders() trade.PurchaseOrderRepository
	// Audit returns the audit log repository
	Audit() audit.Repository
}
