package persistence

import (
	"context"
	"errors"

	"github.com/yarnlot/backend/internal/domain/shared"
	"github.com/yarnlot/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalesOrderRepository implements trade.SalesOrderRepository
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// Create inserts an order with its items
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// FindByID loads an order with its items
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uint) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate loads an order holding its row lock
func (r *GormSalesOrderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*trade.SalesOrder, error) {
	query := r.db.WithContext(ctx)
	if supportsRowLocks(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order trade.SalesOrder
	if err := query.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("sales_order_id = ?", id).Order("id ASC").Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Save writes header mutations (status, conversion and deletion flags)
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	return r.db.WithContext(ctx).Model(order).
		Select("status", "converted_to_challan", "is_deleted", "updated_by", "updated_at").
		Updates(order).Error
}

// List returns orders newest first
func (r *GormSalesOrderRepository) List(ctx context.Context, includeDeleted bool) ([]trade.SalesOrder, error) {
	query := r.db.WithContext(ctx).Preload("Items")
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	var orders []trade.SalesOrder
	if err := query.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GormSalesChallanRepository implements trade.SalesChallanRepository
type GormSalesChallanRepository struct {
	db *gorm.DB
}

// NewGormSalesChallanRepository creates a new GormSalesChallanRepository
func NewGormSalesChallanRepository(db *gorm.DB) *GormSalesChallanRepository {
	return &GormSalesChallanRepository{db: db}
}

// Create inserts a challan with its items
func (r *GormSalesChallanRepository) Create(ctx context.Context, challan *trade.SalesChallan) error {
	if err := r.db.WithContext(ctx).Create(challan).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// FindByID loads a challan with its items
func (r *GormSalesChallanRepository) FindByID(ctx context.Context, id uint) (*trade.SalesChallan, error) {
	var challan trade.SalesChallan
	if err := r.db.WithContext(ctx).Preload("Items").First(&challan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &challan, nil
}

// SaveItem writes an item's transaction link
func (r *GormSalesChallanRepository) SaveItem(ctx context.Context, item *trade.SalesChallanItem) error {
	return r.db.WithContext(ctx).Model(item).
		Select("inventory_transaction_id").
		Updates(item).Error
}

// List returns challans newest first
func (r *GormSalesChallanRepository) List(ctx context.Context) ([]trade.SalesChallan, error) {
	var challans []trade.SalesChallan
	if err := r.db.WithContext(ctx).Preload("Items").Order("id DESC").Find(&challans).Error; err != nil {
		return nil, err
	}
	return challans, nil
}

// GormGoodsReceiptRepository implements trade.GoodsReceiptRepository
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// Create inserts a receipt with its items
func (r *GormGoodsReceiptRepository) Create(ctx context.Context, receipt *trade.GoodsReceipt) error {
	if err := r.db.WithContext(ctx).Create(receipt).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// FindByID loads a receipt with its items
func (r *GormGoodsReceiptRepository) FindByID(ctx context.Context, id uint) (*trade.GoodsReceipt, error) {
	var receipt trade.GoodsReceipt
	if err := r.db.WithContext(ctx).Preload("Items").First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// LinkLot records the lot spawned by a GRN item
func (r *GormGoodsReceiptRepository) LinkLot(ctx context.Context, itemID, lotID uint) error {
	result := r.db.WithContext(ctx).Model(&trade.GoodsReceiptItem{}).
		Where("id = ?", itemID).
		Update("inventory_lot_id", lotID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns receipts newest first
func (r *GormGoodsReceiptRepository) List(ctx context.Context) ([]trade.GoodsReceipt, error) {
	var receipts []trade.GoodsReceipt
	if err := r.db.WithContext(ctx).Preload("Items").Order("id DESC").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Create inserts an order with its items
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// FindByID loads an order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uint) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate loads an order holding its row lock
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*trade.PurchaseOrder, error) {
	query := r.db.WithContext(ctx)
	if supportsRowLocks(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order trade.PurchaseOrder
	if err := query.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Save writes header mutations (status, conversion flag)
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Model(order).
		Select("status", "converted_to_grn", "updated_by", "updated_at").
		Updates(order).Error
}

// List returns orders newest first
func (r *GormPurchaseOrderRepository) List(ctx context.Context) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Interface guards
var (
	_ trade.SalesOrderRepository    = (*GormSalesOrderRepository)(nil)
	_ trade.SalesChallanRepository  = (*GormSalesChallanRepository)(nil)
	_ trade.GoodsReceiptRepository  = (*GormGoodsReceiptRepository)(nil)
	_ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
)
