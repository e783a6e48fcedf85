package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/inventory"
)

// InboundRequest materializes a lot from an existing GRN item.
type InboundRequest struct {
	ProductID  uint            `json:"product_id"`
	CategoryID uint            `json:"category_id"`
	LocationID uint            `json:"location_id"`
	SupplierID uint            `json:"supplier_id"`
	GRNItemID  uint            `json:"grn_item_id"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	UserID     uint            `json:"-"`
}

// InboundResult reports the lot created by an inbound.
type InboundResult struct {
	LotID     uint            `json:"lot_id"`
	LotNumber string          `json:"lot_number"`
	Available decimal.Decimal `json:"available"`
}

// ReceiptItemRequest is one line of a goods receipt to create.
type ReceiptItemRequest struct {
	ProductID    uint            `json:"product_id" binding:"required"`
	CategoryID   uint            `json:"category_id" binding:"required"`
	QuantityBags decimal.Decimal `json:"quantity_bags"`
	WeightKg     decimal.Decimal `json:"weight_kg" binding:"required"`
}

// CreateGoodsReceiptRequest creates a GRN; every item spawns one lot.
type CreateGoodsReceiptRequest struct {
	SupplierID uint                 `json:"supplier_id" binding:"required"`
	LocationID uint                 `json:"location_id" binding:"required"`
	Items      []ReceiptItemRequest `json:"items" binding:"required,min=1,dive"`
	UserID     uint                 `json:"-"`
}

// GoodsReceiptResult reports the created GRN and its lots.
type GoodsReceiptResult struct {
	GRNID     uint            `json:"grn_id"`
	GRNNumber string          `json:"grn_number"`
	Lots      []InboundResult `json:"lots"`
}

// OrderItemRequest is one line of a sales order or challan to create.
type OrderItemRequest struct {
	ProductID    uint            `json:"product_id" binding:"required"`
	QuantityBags decimal.Decimal `json:"quantity_bags"`
	WeightKg     decimal.Decimal `json:"weight_kg" binding:"required"`
}

// CreateSalesOrderRequest creates an order and reserves its stock FIFO.
// LocationID is optional; when absent the allocator spans locations.
type CreateSalesOrderRequest struct {
	CustomerID uint               `json:"customer_id" binding:"required"`
	LocationID *uint              `json:"location_id"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	UserID     uint               `json:"-"`
}

// ItemAllocations reports where one line's quantity was taken from.
type ItemAllocations struct {
	ProductID   uint                   `json:"product_id"`
	Allocations []inventory.Allocation `json:"allocations"`
}

// SalesOrderResult reports a created order and its reservation footprint.
type SalesOrderResult struct {
	SOID          uint              `json:"so_id"`
	SONumber      string            `json:"so_number"`
	ReservedTotal decimal.Decimal   `json:"reserved_total"`
	Items         []ItemAllocations `json:"items"`
}

// ReserveRequest reserves stock for an already-persisted sales order.
type ReserveRequest struct {
	SalesOrderID uint               `json:"so_id"`
	LocationID   *uint              `json:"location_id"`
	Items        []OrderItemRequest `json:"items"`
	UserID       uint               `json:"-"`
}

// ReserveResult reports the reservation outcome.
type ReserveResult struct {
	ReservedTotal decimal.Decimal   `json:"reserved_total"`
	Items         []ItemAllocations `json:"items"`
}

// UnreserveResult reports the released quantity.
type UnreserveResult struct {
	ReleasedTotal decimal.Decimal `json:"released_total"`
}

// CreateSalesChallanRequest dispatches stock directly from a location.
type CreateSalesChallanRequest struct {
	CustomerID uint               `json:"customer_id" binding:"required"`
	LocationID uint               `json:"location_id" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	UserID     uint               `json:"-"`
}

// SalesChallanResult reports a created challan and its allocations.
type SalesChallanResult struct {
	SCID        uint              `json:"sc_id"`
	SCNumber    string            `json:"sc_number"`
	Allocations []ItemAllocations `json:"allocations"`
}

// ConversionResult reports the challan spawned from a sales order.
type ConversionResult struct {
	SCID     uint   `json:"sc_id"`
	SCNumber string `json:"sc_number"`
}

// StockFilter narrows the lot-level stock listing.
type StockFilter struct {
	LocationID *uint
	ProductID  *uint
}

// ProductStock is one product's share of a category aggregate.
type ProductStock struct {
	ProductID uint            `json:"product_id"`
	Available decimal.Decimal `json:"available_quantity"`
	Committed decimal.Decimal `json:"committed_quantity"`
}

// CategoryStock aggregates stock per category with a product breakdown.
type CategoryStock struct {
	CategoryID uint            `json:"category_id"`
	Available  decimal.Decimal `json:"available_quantity"`
	Committed  decimal.Decimal `json:"committed_quantity"`
	Products   []ProductStock  `json:"products"`
}

// CreatePurchaseOrderRequest creates a purchase order.
type CreatePurchaseOrderRequest struct {
	SupplierID uint               `json:"supplier_id" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	UserID     uint               `json:"-"`
}

// PurchaseOrderResult reports a created purchase order.
type PurchaseOrderResult struct {
	POID     uint   `json:"po_id"`
	PONumber string `json:"po_number"`
}
