package trade

import (
	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/shared"
)

// GoodsReceiptItem is one received line of a GRN. Every item spawns exactly
// one inventory lot on creation; InventoryLotID is linked back once the lot
// exists.
type GoodsReceiptItem struct {
	shared.BaseModel
	GoodsReceiptID uint            `gorm:"not null;index" json:"goods_receipt_id"`
	ProductID      uint            `gorm:"not null" json:"product_id"`
	CategoryID     uint            `gorm:"not null" json:"category_id"`
	QuantityBags   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity_bags"`
	WeightKg       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"weight_kg"`
	InventoryLotID *uint           `json:"inventory_lot_id"`
}

// TableName returns the table name for GORM
func (GoodsReceiptItem) TableName() string {
	return "goods_receipt_items"
}

// NewGoodsReceiptItem creates a GRN line
func NewGoodsReceiptItem(productID, categoryID uint, quantityBags, weightKg decimal.Decimal) (*GoodsReceiptItem, error) {
	if productID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product ID cannot be empty")
	}
	if categoryID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category ID cannot be empty")
	}
	if weightKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Weight must be positive")
	}
	if quantityBags.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bag count cannot be negative")
	}
	return &GoodsReceiptItem{
		ProductID:    productID,
		CategoryID:   categoryID,
		QuantityBags: quantityBags,
		WeightKg:     weightKg,
	}, nil
}

// GoodsReceipt is the inbound document. Creation is the only path that
// materializes lots.
type GoodsReceipt struct {
	shared.AuditedModel
	GRNNumber  string             `gorm:"column:grn_number;type:varchar(30);not null;uniqueIndex" json:"grn_number"`
	SupplierID uint               `gorm:"not null;index" json:"supplier_id"`
	LocationID uint               `gorm:"not null" json:"location_id"`
	Items      []GoodsReceiptItem `gorm:"foreignKey:GoodsReceiptID" json:"items"`
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt creates a GRN header with its lines
func NewGoodsReceipt(grnNumber string, supplierID, locationID uint, items []GoodsReceiptItem, userID uint) (*GoodsReceipt, error) {
	if grnNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "GRN number cannot be empty")
	}
	if supplierID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier ID cannot be empty")
	}
	if locationID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Location ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Goods receipt must have at least one item")
	}
	return &GoodsReceipt{
		AuditedModel: shared.AuditedModel{CreatedBy: userID, UpdatedBy: userID},
		GRNNumber:    grnNumber,
		SupplierID:   supplierID,
		LocationID:   locationID,
		Items:        items,
	}, nil
}
