package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/shared"
)

// Lot is an immutable physical stock record originated by one GRN item.
// Only the two quantity counters mutate after creation; a lot is never
// deleted, zero-quantity lots remain for history.
type Lot struct {
	shared.AuditedModel
	LotNumber         string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"lot_number"`
	ProductID         uint            `gorm:"not null;index:idx_lot_product_location,priority:1" json:"product_id"`
	CategoryID        uint            `gorm:"not null;index" json:"category_id"`
	LocationID        uint            `gorm:"not null;index:idx_lot_product_location,priority:2" json:"location_id"`
	SupplierID        uint            `gorm:"not null" json:"supplier_id"`
	GRNItemID         uint            `gorm:"column:grn_item_id;not null" json:"grn_item_id"`
	AvailableQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"available_quantity"`
	CommittedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"committed_quantity"`
}

// TableName returns the table name for GORM
func (Lot) TableName() string {
	return "inventory_lots"
}

// NewLot creates a lot for a received GRN item. The full received quantity
// starts available, nothing committed.
func NewLot(lotNumber string, productID, categoryID, locationID, supplierID, grnItemID uint, quantityKg decimal.Decimal, userID uint) (*Lot, error) {
	if lotNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Lot number cannot be empty")
	}
	if productID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product ID cannot be empty")
	}
	if locationID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Location ID cannot be empty")
	}
	if grnItemID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "GRN item ID cannot be empty")
	}
	if quantityKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Received quantity must be positive")
	}

	return &Lot{
		AuditedModel:      shared.AuditedModel{CreatedBy: userID, UpdatedBy: userID},
		LotNumber:         lotNumber,
		ProductID:         productID,
		CategoryID:        categoryID,
		LocationID:        locationID,
		SupplierID:        supplierID,
		GRNItemID:         grnItemID,
		AvailableQuantity: quantityKg,
		CommittedQuantity: decimal.Zero,
	}, nil
}

// TotalQuantity returns available + committed.
func (l *Lot) TotalQuantity() decimal.Decimal {
	return l.AvailableQuantity.Add(l.CommittedQuantity)
}

// HasAvailableStock reports whether anything can still be reserved or
// dispatched from this lot.
func (l *Lot) HasAvailableStock() bool {
	return l.AvailableQuantity.GreaterThan(decimal.Zero)
}

// CanFulfill reports whether the available counter covers quantity.
func (l *Lot) CanFulfill(quantity decimal.Decimal) bool {
	return l.AvailableQuantity.GreaterThanOrEqual(quantity)
}

// Reserve moves quantity from available to committed.
func (l *Lot) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Reserve quantity must be positive")
	}
	if l.AvailableQuantity.LessThan(quantity) {
		return shared.NewInsufficientStockError(l.ProductID, l.AvailableQuantity, quantity)
	}
	l.AvailableQuantity = l.AvailableQuantity.Sub(quantity)
	l.CommittedQuantity = l.CommittedQuantity.Add(quantity)
	return nil
}

// Release moves quantity from committed back to available.
func (l *Lot) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Release quantity must be positive")
	}
	if l.CommittedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_STATE", "Release exceeds committed quantity")
	}
	l.CommittedQuantity = l.CommittedQuantity.Sub(quantity)
	l.AvailableQuantity = l.AvailableQuantity.Add(quantity)
	return nil
}

// Deduct removes quantity from available permanently (dispatch).
func (l *Lot) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Deduct quantity must be positive")
	}
	if l.AvailableQuantity.LessThan(quantity) {
		return shared.NewInsufficientStockError(l.ProductID, l.AvailableQuantity, quantity)
	}
	l.AvailableQuantity = l.AvailableQuantity.Sub(quantity)
	return nil
}
