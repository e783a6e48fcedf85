package trade

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/shared"
)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	// SalesOrderStatusNew is the initial state; stock is reserved
	SalesOrderStatusNew SalesOrderStatus = "New"
	// SalesOrderStatusDelivered is reached only through conversion to a challan
	SalesOrderStatusDelivered SalesOrderStatus = "Delivered"
	// SalesOrderStatusCancelled releases the reservation
	SalesOrderStatusCancelled SalesOrderStatus = "Cancelled"
)

// IsValid checks if the status is a valid SalesOrderStatus. Legacy states
// from the earlier schema (Processing, Dispatched, Pending) are rejected.
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusNew, SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// SalesOrderItem is one line of a sales order. The ledger counts weight in
// kg; bags are descriptive.
type SalesOrderItem struct {
	shared.BaseModel
	SalesOrderID uint            `gorm:"not null;index" json:"sales_order_id"`
	ProductID    uint            `gorm:"not null" json:"product_id"`
	QuantityBags decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity_bags"`
	WeightKg     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"weight_kg"`
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// NewSalesOrderItem creates a sales order line
func NewSalesOrderItem(productID uint, quantityBags, weightKg decimal.Decimal) (*SalesOrderItem, error) {
	if productID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product ID cannot be empty")
	}
	if weightKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Weight must be positive")
	}
	if quantityBags.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bag count cannot be negative")
	}
	return &SalesOrderItem{
		ProductID:    productID,
		QuantityBags: quantityBags,
		WeightKg:     weightKg,
	}, nil
}

// SalesOrder reserves stock on creation and holds it until cancelled or
// converted to a challan. Deletion is a soft flag; the document number stays
// burned either way.
type SalesOrder struct {
	shared.AuditedModel
	SONumber           string           `gorm:"column:so_number;type:varchar(30);not null;uniqueIndex" json:"so_number"`
	CustomerID         uint             `gorm:"not null;index" json:"customer_id"`
	Status             SalesOrderStatus `gorm:"type:varchar(20);not null;default:'New'" json:"status"`
	ConvertedToChallan bool             `gorm:"not null;default:false" json:"converted_to_challan"`
	IsDeleted          bool             `gorm:"not null;default:false" json:"is_deleted"`
	Items              []SalesOrderItem `gorm:"foreignKey:SalesOrderID" json:"items"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a sales order in the New state
func NewSalesOrder(soNumber string, customerID uint, items []SalesOrderItem, userID uint) (*SalesOrder, error) {
	if soNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sales order number cannot be empty")
	}
	if customerID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sales order must have at least one item")
	}
	return &SalesOrder{
		AuditedModel: shared.AuditedModel{CreatedBy: userID, UpdatedBy: userID},
		SONumber:     soNumber,
		CustomerID:   customerID,
		Status:       SalesOrderStatusNew,
		Items:        items,
	}, nil
}

// CanTransitionTo checks the sales order state machine. Delivered is only
// reachable through conversion; both terminal states are final.
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	switch s {
	case SalesOrderStatusNew:
		return target == SalesOrderStatusCancelled || target == SalesOrderStatusDelivered
	case SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return false
	}
	return false
}

// Cancel moves the order to Cancelled. The caller unreserves the stock.
func (o *SalesOrder) Cancel(userID uint) error {
	if o.IsDeleted {
		return shared.ErrNotFound
	}
	if !o.Status.CanTransitionTo(SalesOrderStatusCancelled) {
		return shared.NewLifecycleViolationError("sales_order", o.Status.String(), "cancel",
			fmt.Sprintf("Sales order %s cannot be cancelled in status %s", o.SONumber, o.Status))
	}
	o.Status = SalesOrderStatusCancelled
	o.Touch(userID)
	return nil
}

// EnsureReservable checks the preconditions for reserving stock against the
// order. Only a live order in the New state may hold a reservation.
func (o *SalesOrder) EnsureReservable() error {
	if o.IsDeleted {
		return shared.ErrNotFound
	}
	if o.Status != SalesOrderStatusNew {
		return shared.NewLifecycleViolationError("sales_order", o.Status.String(), "reserve",
			fmt.Sprintf("Sales order %s cannot reserve stock in status %s", o.SONumber, o.Status))
	}
	return nil
}

// EnsureConvertible checks the preconditions for converting to a challan.
func (o *SalesOrder) EnsureConvertible() error {
	if o.IsDeleted {
		return shared.NewLifecycleViolationError("sales_order", o.Status.String(), "convert",
			fmt.Sprintf("Sales order %s has been deleted", o.SONumber))
	}
	if o.ConvertedToChallan {
		return shared.NewLifecycleViolationError("sales_order", o.Status.String(), "convert",
			fmt.Sprintf("Sales order %s has already been converted to a challan", o.SONumber))
	}
	if o.Status != SalesOrderStatusNew {
		return shared.NewLifecycleViolationError("sales_order", o.Status.String(), "convert",
			fmt.Sprintf("Sales order %s cannot be converted in status %s", o.SONumber, o.Status))
	}
	return nil
}

// MarkConverted flips the order to Delivered after a successful conversion.
func (o *SalesOrder) MarkConverted(userID uint) error {
	if err := o.EnsureConvertible(); err != nil {
		return err
	}
	o.Status = SalesOrderStatusDelivered
	o.ConvertedToChallan = true
	o.Touch(userID)
	return nil
}

// SoftDelete flags the order deleted. Its number is not reissued.
func (o *SalesOrder) SoftDelete(userID uint) error {
	if o.Status == SalesOrderStatusDelivered {
		return shared.NewLifecycleViolationError("sales_order", o.Status.String(), "delete",
			fmt.Sprintf("Sales order %s has been delivered and cannot be deleted", o.SONumber))
	}
	o.IsDeleted = true
	o.Touch(userID)
	return nil
}
