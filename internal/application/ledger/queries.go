package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/audit"
	"github.com/yarnlot/backend/internal/domain/inventory"
	"github.com/yarnlot/backend/internal/domain/trade"
)

// ListStock returns lot-level stock rows. Exhausted lots are filtered out
// unless they still carry committed stock.
func (c *Coordinator) ListStock(ctx context.Context, filter StockFilter) ([]inventory.StockRow, error) {
	var rows []inventory.StockRow
	err := c.run(ctx, "list_stock", func(ctx context.Context, repos Repositories) error {
		var err error
		rows, err = repos.Lots().ListStock(ctx, filter.LocationID, filter.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListStockByCategory aggregates stock per category with a per-product
// breakdown, categories and products in ascending id order.
func (c *Coordinator) ListStockByCategory(ctx context.Context, locationID *uint) ([]CategoryStock, error) {
	var flat []inventory.CategoryStockRow
	err := c.run(ctx, "list_stock_by_category", func(ctx context.Context, repos Repositories) error {
		var err error
		flat, err = repos.Lots().ListStockByCategory(ctx, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[uint]*CategoryStock)
	for _, row := range flat {
		category, ok := grouped[row.CategoryID]
		if !ok {
			category = &CategoryStock{CategoryID: row.CategoryID, Available: decimal.Zero, Committed: decimal.Zero}
			grouped[row.CategoryID] = category
		}
		category.Available = category.Available.Add(row.Available)
		category.Committed = category.Committed.Add(row.Committed)
		category.Products = append(category.Products, ProductStock{
			ProductID: row.ProductID,
			Available: row.Available,
			Committed: row.Committed,
		})
	}

	result := make([]CategoryStock, 0, len(grouped))
	for _, category := range grouped {
		sort.Slice(category.Products, func(i, j int) bool {
			return category.Products[i].ProductID < category.Products[j].ProductID
		})
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CategoryID < result[j].CategoryID
	})
	return result, nil
}

// LotTransactions returns a lot's transaction history in creation order.
func (c *Coordinator) LotTransactions(ctx context.Context, lotID uint) ([]inventory.Transaction, error) {
	var txns []inventory.Transaction
	err := c.run(ctx, "lot_transactions", func(ctx context.Context, repos Repositories) error {
		var err error
		txns, err = repos.Transactions().FindByLot(ctx, lotID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// GetSalesOrder loads an order with its items.
func (c *Coordinator) GetSalesOrder(ctx context.Context, soID uint) (*trade.SalesOrder, error) {
	var order *trade.SalesOrder
	err := c.run(ctx, "get_sales_order", func(ctx context.Context, repos Repositories) error {
		var err error
		order, err = repos.SalesOrders().FindByID(ctx, soID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetSalesChallan loads a challan with its items.
func (c *Coordinator) GetSalesChallan(ctx context.Context, scID uint) (*trade.SalesChallan, error) {
	var challan *trade.SalesChallan
	err := c.run(ctx, "get_sales_challan", func(ctx context.Context, repos Repositories) error {
		var err error
		challan, err = repos.SalesChallans().FindByID(ctx, scID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return challan, nil
}

// ListSalesOrders returns orders newest first, hiding soft-deleted ones
// unless asked for.
func (c *Coordinator) ListSalesOrders(ctx context.Context, includeDeleted bool) ([]trade.SalesOrder, error) {
	var orders []trade.SalesOrder
	err := c.run(ctx, "list_sales_orders", func(ctx context.Context, repos Repositories) error {
		var err error
		orders, err = repos.SalesOrders().List(ctx, includeDeleted)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListSalesChallans returns challans newest first.
func (c *Coordinator) ListSalesChallans(ctx context.Context) ([]trade.SalesChallan, error) {
	var challans []trade.SalesChallan
	err := c.run(ctx, "list_sales_challans", func(ctx context.Context, repos Repositories) error {
		var err error
		challans, err = repos.SalesChallans().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return challans, nil
}

// ListGoodsReceipts returns receipts newest first.
func (c *Coordinator) ListGoodsReceipts(ctx context.Context) ([]trade.GoodsReceipt, error) {
	var receipts []trade.GoodsReceipt
	err := c.run(ctx, "list_goods_receipts", func(ctx context.Context, repos Repositories) error {
		var err error
		receipts, err = repos.GoodsReceipts().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// ListPurchaseOrders returns purchase orders newest first.
func (c *Coordinator) ListPurchaseOrders(ctx context.Context) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	err := c.run(ctx, "list_purchase_orders", func(ctx context.Context, repos Repositories) error {
		var err error
		orders, err = repos.PurchaseOrders().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetPurchaseOrder loads a purchase order with its items.
func (c *Coordinator) GetPurchaseOrder(ctx context.Context, poID uint) (*trade.PurchaseOrder, error) {
	var order *trade.PurchaseOrder
	err := c.run(ctx, "get_purchase_order", func(ctx context.Context, repos Repositories) error {
		var err error
		order, err = repos.PurchaseOrders().FindByID(ctx, poID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AuditTrail returns the audit entries of one entity in creation order.
func (c *Coordinator) AuditTrail(ctx context.Context, entityType string, entityID uint) ([]audit.Entry, error) {
	var entries []audit.Entry
	err := c.run(ctx, "audit_trail", func(ctx context.Context, repos Repositories) error {
		var err error
		entries, err = repos.Audit().FindByEntity(ctx, entityType, entityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetGoodsReceipt loads a GRN with its items.
func (c *Coordinator) GetGoodsReceipt(ctx context.Context, grnID uint) (*trade.GoodsReceipt, error) {
	var receipt *trade.GoodsReceipt
	err := c.run(ctx, "get_goods_receipt", func(ctx context.Context, repos Repositories) error {
		var err error
		receipt, err = repos.GoodsReceipts().FindByID(ctx, grnID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}
