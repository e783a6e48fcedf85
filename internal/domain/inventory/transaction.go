package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/shared"
)

// TransactionType represents the type of inventory transaction
type TransactionType string

const (
	// TransactionTypeInbound records stock entering a lot (GRN receipt)
	TransactionTypeInbound TransactionType = "INBOUND"
	// TransactionTypeOutbound records stock leaving a lot (challan dispatch)
	TransactionTypeOutbound TransactionType = "OUTBOUND"
	// TransactionTypeAdjustment records a zero-sum move between the available
	// and committed counters; the reservation tag gives the direction
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeInbound, TransactionTypeOutbound, TransactionTypeAdjustment:
		return true
	}
	return false
}

// ReservationType distinguishes the two directions of an ADJUSTMENT
type ReservationType string

const (
	// ReservationTypeNone is carried by INBOUND and OUTBOUND transactions
	ReservationTypeNone ReservationType = ""
	// ReservationTypeReserve moves quantity from available to committed
	ReservationTypeReserve ReservationType = "RESERVE"
	// ReservationTypeUnreserve moves quantity from committed to available
	ReservationTypeUnreserve ReservationType = "UNRESERVE"
)

// ReferenceType identifies the document a transaction was triggered by
type ReferenceType string

const (
	// ReferenceTypeGRNItem points at a goods receipt item
	ReferenceTypeGRNItem ReferenceType = "GRN_ITEM"
	// ReferenceTypeSalesOrder points at a sales order
	ReferenceTypeSalesOrder ReferenceType = "SALES_ORDER"
	// ReferenceTypeSalesChallanItem points at a sales challan item
	ReferenceTypeSalesChallanItem ReferenceType = "SALES_CHALLAN_ITEM"
)

// Transaction is an append-only record of a quantity-moving event on a lot.
// BalanceQuantity carries the lot's available quantity immediately after the
// event, which makes the log self-verifying under replay.
type Transaction struct {
	shared.BaseModel
	LotID           uint            `gorm:"not null;index:idx_txn_lot" json:"lot_id"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null" json:"transaction_type"`
	TransactionDate time.Time       `gorm:"not null" json:"transaction_date"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	WeightKg        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"weight_kg"`
	LocationID      uint            `gorm:"not null" json:"location_id"`
	ReferenceType   ReferenceType   `gorm:"type:varchar(30);not null;index:idx_txn_reference,priority:1" json:"reference_type"`
	ReferenceID     uint            `gorm:"not null;index:idx_txn_reference,priority:2" json:"reference_id"`
	ReservationType ReservationType `gorm:"type:varchar(10)" json:"reservation_type"`
	Description     string          `gorm:"type:varchar(255)" json:"description"`
	BalanceQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"balance_quantity"`
	CreatedBy       uint            `json:"created_by"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "inventory_transactions"
}

func newTransaction(lotID uint, txType TransactionType, quantity decimal.Decimal, locationID uint,
	refType ReferenceType, refID uint, reservation ReservationType, balance decimal.Decimal, userID uint) (*Transaction, error) {
	if lotID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Lot ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid transaction type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction quantity must be positive")
	}
	if refID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Reference ID cannot be empty")
	}
	if balance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_STATE", "Balance after transaction cannot be negative")
	}

	return &Transaction{
		LotID:           lotID,
		TransactionType: txType,
		TransactionDate: time.Now(),
		Quantity:        quantity,
		WeightKg:        quantity,
		LocationID:      locationID,
		ReferenceType:   refType,
		ReferenceID:     refID,
		ReservationType: reservation,
		BalanceQuantity: balance,
		CreatedBy:       userID,
	}, nil
}

// NewInboundTransaction records a GRN item materializing a lot.
func NewInboundTransaction(lotID uint, quantity decimal.Decimal, locationID, grnItemID uint, balance decimal.Decimal, userID uint) (*Transaction, error) {
	return newTransaction(lotID, TransactionTypeInbound, quantity, locationID,
		ReferenceTypeGRNItem, grnItemID, ReservationTypeNone, balance, userID)
}

// NewOutboundTransaction records a dispatch from available stock.
func NewOutboundTransaction(lotID uint, quantity decimal.Decimal, locationID, challanItemID uint, balance decimal.Decimal, userID uint) (*Transaction, error) {
	return newTransaction(lotID, TransactionTypeOutbound, quantity, locationID,
		ReferenceTypeSalesChallanItem, challanItemID, ReservationTypeNone, balance, userID)
}

// NewReserveTransaction records an available-to-committed move for a sales order.
func NewReserveTransaction(lotID uint, quantity decimal.Decimal, locationID, salesOrderID uint, balance decimal.Decimal, userID uint) (*Transaction, error) {
	return newTransaction(lotID, TransactionTypeAdjustment, quantity, locationID,
		ReferenceTypeSalesOrder, salesOrderID, ReservationTypeReserve, balance, userID)
}

// NewUnreserveTransaction records a committed-to-available move for a sales order.
func NewUnreserveTransaction(lotID uint, quantity decimal.Decimal, locationID, salesOrderID uint, balance decimal.Decimal, userID uint) (*Transaction, error) {
	return newTransaction(lotID, TransactionTypeAdjustment, quantity, locationID,
		ReferenceTypeSalesOrder, salesOrderID, ReservationTypeUnreserve, balance, userID)
}

// WithDescription sets the free-text description.
func (t *Transaction) WithDescription(description string) *Transaction {
	t.Description = description
	return t
}

// WithTransactionDate overrides the transaction date.
func (t *Transaction) WithTransactionDate(date time.Time) *Transaction {
	t.TransactionDate = date
	return t
}

// AvailableDelta returns the signed effect of this transaction on the lot's
// available counter. Replaying deltas in creation order reconstructs the
// current available quantity.
func (t *Transaction) AvailableDelta() decimal.Decimal {
	switch {
	case t.TransactionType == TransactionTypeInbound:
		return t.Quantity
	case t.TransactionType == TransactionTypeOutbound:
		return t.Quantity.Neg()
	case t.ReservationType == ReservationTypeReserve:
		return t.Quantity.Neg()
	case t.ReservationType == ReservationTypeUnreserve:
		return t.Quantity
	}
	return decimal.Zero
}

// CommittedDelta returns the signed effect on the lot's committed counter.
func (t *Transaction) CommittedDelta() decimal.Decimal {
	switch t.ReservationType {
	case ReservationTypeReserve:
		return t.Quantity
	case ReservationTypeUnreserve:
		return t.Quantity.Neg()
	}
	return decimal.Zero
}

// IsReservation reports whether this is a RESERVE or UNRESERVE adjustment.
func (t *Transaction) IsReservation() bool {
	return t.TransactionType == TransactionTypeAdjustment && t.ReservationType != ReservationTypeNone
}
