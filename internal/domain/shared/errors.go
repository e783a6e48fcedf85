package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized     = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrDuplicateNumber  = NewDomainError("DUPLICATE_NUMBER", "Document number already in use")
	ErrNothingToRelease = NewDomainError("NOTHING_TO_RELEASE", "No outstanding reservation to release")
)

// InsufficientStockError is returned when an allocation cannot satisfy the
// required quantity. It carries the shortfall numbers so callers can report
// them without re-querying stock.
type InsufficientStockError struct {
	ProductID uint
	Available decimal.Decimal
	Required  decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %s, required %s",
		e.ProductID, e.Available.String(), e.Required.String())
}

// NewInsufficientStockError creates an InsufficientStockError
func NewInsufficientStockError(productID uint, available, required decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Available: available,
		Required:  required,
	}
}

// StockShortfallError aggregates the InsufficientStockError of every failing
// line of a multi-line request. The whole request is rolled back when this is
// returned.
type StockShortfallError struct {
	Shortfalls []InsufficientStockError
}

// Error implements the error interface
func (e *StockShortfallError) Error() string {
	if len(e.Shortfalls) == 1 {
		return e.Shortfalls[0].Error()
	}
	return fmt.Sprintf("insufficient stock for %d products", len(e.Shortfalls))
}

// LifecycleViolationError is returned when an action is not allowed in the
// entity's current state. Reason is user-readable.
type LifecycleViolationError struct {
	Entity string
	Status string
	Action string
	Reason string
}

// Error implements the error interface
func (e *LifecycleViolationError) Error() string {
	return e.Reason
}

// NewLifecycleViolationError creates a LifecycleViolationError
func NewLifecycleViolationError(entity, status, action, reason string) *LifecycleViolationError {
	return &LifecycleViolationError{
		Entity: entity,
		Status: status,
		Action: action,
		Reason: reason,
	}
}
