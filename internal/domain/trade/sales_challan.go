package trade

import (
	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/shared"
)

// SalesChallanItem is one dispatched line of a challan.
// InventoryTransactionID links the line to its first OUTBOUND transaction;
// multi-lot dispatches append further transactions referencing this item.
type SalesChallanItem struct {
	shared.BaseModel
	SalesChallanID         uint            `gorm:"not null;index" json:"sales_challan_id"`
	ProductID              uint            `gorm:"not null" json:"product_id"`
	QuantityBags           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity_bags"`
	WeightKg               decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"weight_kg"`
	InventoryTransactionID *uint           `json:"inventory_transaction_id"`
}

// TableName returns the table name for GORM
func (SalesChallanItem) TableName() string {
	return "sales_challan_items"
}

// NewSalesChallanItem creates a challan line
func NewSalesChallanItem(productID uint, quantityBags, weightKg decimal.Decimal) (*SalesChallanItem, error) {
	if productID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product ID cannot be empty")
	}
	if weightKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Weight must be positive")
	}
	if quantityBags.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bag count cannot be negative")
	}
	return &SalesChallanItem{
		ProductID:    productID,
		QuantityBags: quantityBags,
		WeightKg:     weightKg,
	}, nil
}

// SalesChallan is a dispatch document. It is created either standalone
// (direct outbound from a location) or by converting a sales order, in which
// case SourceSOID points back at the order.
type SalesChallan struct {
	shared.AuditedModel
	SCNumber   string             `gorm:"column:sc_number;type:varchar(30);not null;uniqueIndex" json:"sc_number"`
	CustomerID uint               `gorm:"not null;index" json:"customer_id"`
	LocationID uint               `gorm:"not null" json:"location_id"`
	Status     SalesOrderStatus   `gorm:"type:varchar(20);not null;default:'New'" json:"status"`
	SourceSOID *uint              `gorm:"column:source_so_id;index" json:"source_so_id"`
	Items      []SalesChallanItem `gorm:"foreignKey:SalesChallanID" json:"items"`
}

// TableName returns the table name for GORM
func (SalesChallan) TableName() string {
	return "sales_challans"
}

// NewSalesChallan creates a standalone challan
func NewSalesChallan(scNumber string, customerID, locationID uint, items []SalesChallanItem, userID uint) (*SalesChallan, error) {
	if scNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Challan number cannot be empty")
	}
	if customerID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Challan must have at least one item")
	}
	return &SalesChallan{
		AuditedModel: shared.AuditedModel{CreatedBy: userID, UpdatedBy: userID},
		SCNumber:     scNumber,
		CustomerID:   customerID,
		LocationID:   locationID,
		Status:       SalesOrderStatusNew,
		Items:        items,
	}, nil
}

// NewChallanFromOrder creates a challan sourced from a sales order. The item
// lines mirror the order's lines; the location is the order's reserved
// location footprint (first reserved lot's location).
func NewChallanFromOrder(scNumber string, order *SalesOrder, locationID uint, userID uint) (*SalesChallan, error) {
	items := make([]SalesChallanItem, 0, len(order.Items))
	for _, line := range order.Items {
		item, err := NewSalesChallanItem(line.ProductID, line.QuantityBags, line.WeightKg)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	challan, err := NewSalesChallan(scNumber, order.CustomerID, locationID, items, userID)
	if err != nil {
		return nil, err
	}
	challan.SourceSOID = &order.ID
	return challan, nil
}
