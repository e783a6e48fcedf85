package inventory

import (
	"context"

	"github.com/shopspring/decimal"
)

// ReservedLot is one row of the outstanding-reservation query: the net
// quantity still reserved on a lot for a sales order (RESERVE minus
// UNRESERVE). Product and location come from the lot so Conversion can pick
// its dispatch location per line.
type ReservedLot struct {
	LotID      uint
	LotNumber  string
	ProductID  uint
	LocationID uint
	Quantity   decimal.Decimal
}

// StockRow is one row of the lot-level stock listing.
type StockRow struct {
	LotID      uint            `json:"lot_id"`
	LotNumber  string          `json:"lot_number"`
	ProductID  uint            `json:"product_id"`
	CategoryID uint            `json:"category_id"`
	LocationID uint            `json:"location_id"`
	Available  decimal.Decimal `json:"available_quantity"`
	Committed  decimal.Decimal `json:"committed_quantity"`
}

// CategoryStockRow is one row of the per-category aggregate with product
// breakdown; the application layer groups rows by category.
type CategoryStockRow struct {
	CategoryID uint            `json:"category_id"`
	ProductID  uint            `json:"product_id"`
	Available  decimal.Decimal `json:"available_quantity"`
	Committed  decimal.Decimal `json:"committed_quantity"`
}

// LotRepository persists lots and mutates their counters. All counter
// mutations are conditional updates that fail with InsufficientStockError
// (or INVALID_STATE for committed underflow) when a counter would go
// negative, so a lost update surfaces at write time.
type LotRepository interface {
	// Create inserts a new lot
	Create(ctx context.Context, lot *Lot) error
	// FindByID fetches a lot without locking
	FindByID(ctx context.Context, id uint) (*Lot, error)
	// FindByIDForUpdate fetches a lot holding its row lock for the enclosing transaction
	FindByIDForUpdate(ctx context.Context, id uint) (*Lot, error)
	// FindAvailable returns lots with available stock for a product, FIFO
	// ordered (created_at ASC, id ASC). locationID narrows to one location.
	FindAvailable(ctx context.Context, productID uint, locationID *uint) ([]Lot, error)
	// Reserve moves quantity from available to committed, predicate available >= quantity
	Reserve(ctx context.Context, lotID uint, quantity decimal.Decimal, userID uint) error
	// Release moves quantity from committed to available, predicate committed >= quantity
	Release(ctx context.Context, lotID uint, quantity decimal.Decimal, userID uint) error
	// Deduct removes quantity from available, predicate available >= quantity
	Deduct(ctx context.Context, lotID uint, quantity decimal.Decimal, userID uint) error
	// ListStock returns lot-level stock rows, optionally filtered
	ListStock(ctx context.Context, locationID, productID *uint) ([]StockRow, error)
	// ListStockByCategory returns per-(category, product) aggregates
	ListStockByCategory(ctx context.Context, locationID *uint) ([]CategoryStockRow, error)
}

// TransactionRepository is the append-only transaction log.
type TransactionRepository interface {
	// Append inserts a transaction record
	Append(ctx context.Context, txn *Transaction) error
	// FindByLot returns all transactions for a lot in creation order
	FindByLot(ctx context.Context, lotID uint) ([]Transaction, error)
	// OutstandingReservations returns the per-lot net reserved quantity for a
	// sales order, ordered by the first RESERVE transaction id so "first
	// reserved location wins" is deterministic. Lots with zero net are omitted.
	OutstandingReservations(ctx context.Context, salesOrderID uint) ([]ReservedLot, error)
}
