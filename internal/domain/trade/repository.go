package trade

import "context"

// SalesOrderRepository persists sales orders with their items.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *SalesOrder) error
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uint) (*SalesOrder, error)
	// FindByIDForUpdate loads an order holding its row lock
	FindByIDForUpdate(ctx context.Context, id uint) (*SalesOrder, error)
	// Save writes header mutations (status, flags)
	Save(ctx context.Context, order *SalesOrder) error
	List(ctx context.Context, includeDeleted bool) ([]SalesOrder, error)
}

// SalesChallanRepository persists sales challans with their items.
type SalesChallanRepository interface {
	Create(ctx context.Context, challan *SalesChallan) error
	FindByID(ctx context.Context, id uint) (*SalesChallan, error)
	// SaveItem writes an item mutation (transaction link)
	SaveItem(ctx context.Context, item *SalesChallanItem) error
	List(ctx context.Context) ([]SalesChallan, error)
}

// GoodsReceiptRepository persists goods receipts with their items.
type GoodsReceiptRepository interface {
	Create(ctx context.Context, receipt *GoodsReceipt) error
	FindByID(ctx context.Context, id uint) (*GoodsReceipt, error)
	// LinkLot records the lot spawned by a GRN item
	LinkLot(ctx context.Context, itemID, lotID uint) error
	List(ctx context.Context) ([]GoodsReceipt, error)
}

// PurchaseOrderRepository persists purchase orders with their items.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *PurchaseOrder) error
	FindByID(ctx context.Context, id uint) (*PurchaseOrder, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*PurchaseOrder, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	List(ctx context.Context) ([]PurchaseOrder, error)
}
