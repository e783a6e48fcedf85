package trade

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	// PurchaseOrderStatusPlaced is the initial state
	PurchaseOrderStatusPlaced PurchaseOrderStatus = "Order Placed"
	// PurchaseOrderStatusReceived means the goods arrived
	PurchaseOrderStatusReceived PurchaseOrderStatus = "Order Received"
	// PurchaseOrderStatusCancelled is terminal
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "Order Cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPlaced, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// PurchaseOrderAction is an action guarded by the lifecycle table.
type PurchaseOrderAction string

const (
	// ActionEdit modifies the order's lines or header
	ActionEdit PurchaseOrderAction = "edit"
	// ActionCancel cancels the order
	ActionCancel PurchaseOrderAction = "cancel"
	// ActionMarkReceived marks the goods as arrived
	ActionMarkReceived PurchaseOrderAction = "mark_received"
	// ActionConvertToGRN spawns a goods receipt from the order
	ActionConvertToGRN PurchaseOrderAction = "convert_to_grn"
	// ActionDelete removes the order
	ActionDelete PurchaseOrderAction = "delete"
)

// PurchaseOrderItem is one ordered line.
type PurchaseOrderItem struct {
	shared.BaseModel
	PurchaseOrderID uint            `gorm:"not null;index" json:"purchase_order_id"`
	ProductID       uint            `gorm:"not null" json:"product_id"`
	QuantityBags    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity_bags"`
	WeightKg        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"weight_kg"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// PurchaseOrder does not touch stock itself; its lifecycle table guards
// which actions are editable in which state. Conversion to a GRN is what
// brings the goods onto the ledger.
type PurchaseOrder struct {
	shared.AuditedModel
	PONumber       string              `gorm:"column:po_number;type:varchar(30);not null;uniqueIndex" json:"po_number"`
	SupplierID     uint                `gorm:"not null;index" json:"supplier_id"`
	Status         PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'Order Placed'" json:"status"`
	ConvertedToGRN bool                `gorm:"column:converted_to_grn;not null;default:false" json:"converted_to_grn"`
	Items          []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a purchase order in the placed state
func NewPurchaseOrder(poNumber string, supplierID uint, items []PurchaseOrderItem, userID uint) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase order number cannot be empty")
	}
	if supplierID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase order must have at least one item")
	}
	return &PurchaseOrder{
		AuditedModel: shared.AuditedModel{CreatedBy: userID, UpdatedBy: userID},
		PONumber:     poNumber,
		SupplierID:   supplierID,
		Status:       PurchaseOrderStatusPlaced,
		Items:        items,
	}, nil
}

// allowedActions is the fixed lifecycle table over (status, converted_to_grn).
var allowedActions = map[PurchaseOrderStatus]map[bool]map[PurchaseOrderAction]bool{
	PurchaseOrderStatusPlaced: {
		false: {ActionEdit: true, ActionCancel: true, ActionMarkReceived: true, ActionDelete: true},
		true:  {},
	},
	PurchaseOrderStatusReceived: {
		false: {ActionEdit: true, ActionCancel: true, ActionConvertToGRN: true},
		true:  {},
	},
	PurchaseOrderStatusCancelled: {
		false: {ActionDelete: true},
		true:  {},
	},
}

// Authorize checks the lifecycle table and returns LifecycleViolationError
// with a user-readable reason when the action is disallowed.
func (o *PurchaseOrder) Authorize(action PurchaseOrderAction) error {
	if allowedActions[o.Status][o.ConvertedToGRN][action] {
		return nil
	}

	reason := fmt.Sprintf("Purchase order %s in status '%s' does not allow '%s'", o.PONumber, o.Status, action)
	if o.ConvertedToGRN {
		reason = fmt.Sprintf("Purchase order %s has been converted to a GRN and can no longer be modified", o.PONumber)
	}
	return shared.NewLifecycleViolationError("purchase_order", o.Status.String(), string(action), reason)
}

// Cancel moves the order to the cancelled state.
func (o *PurchaseOrder) Cancel(userID uint) error {
	if err := o.Authorize(ActionCancel); err != nil {
		return err
	}
	o.Status = PurchaseOrderStatusCancelled
	o.Touch(userID)
	return nil
}

// MarkReceived records that the ordered goods arrived.
func (o *PurchaseOrder) MarkReceived(userID uint) error {
	if err := o.Authorize(ActionMarkReceived); err != nil {
		return err
	}
	o.Status = PurchaseOrderStatusReceived
	o.Touch(userID)
	return nil
}

// MarkConvertedToGRN flips the conversion flag after a GRN was spawned.
func (o *PurchaseOrder) MarkConvertedToGRN(userID uint) error {
	if err := o.Authorize(ActionConvertToGRN); err != nil {
		return err
	}
	o.ConvertedToGRN = true
	o.Touch(userID)
	return nil
}
