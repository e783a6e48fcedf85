package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yarnlot/backend/internal/application/ledger"
	"github.com/yarnlot/backend/internal/interfaces/http/dto"
)

// StockHandler serves stock query endpoints
type StockHandler struct {
	BaseHandler
	coordinator *ledger.Coordinator
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(coordinator *ledger.Coordinator) *StockHandler {
	return &StockHandler{coordinator: coordinator}
}

// uintQuery parses an optional uint query parameter.
func uintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, false
	}
	value := uint(parsed)
	return &value, true
}

// List handles GET /stock with optional location_id and product_id filters.
func (h *StockHandler) List(c *gin.Context) {
	locationID, ok := uintQuery(c, "location_id")
	if !ok {
		h.BadRequest(c, "Invalid location_id")
		return
	}
	productID, ok := uintQuery(c, "product_id")
	if !ok {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	rows, err := h.coordinator.ListStock(c.Request.Context(), ledger.StockFilter{
		LocationID: locationID,
		ProductID:  productID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// ByCategory handles GET /stock/by-category with an optional location_id filter.
func (h *StockHandler) ByCategory(c *gin.Context) {
	locationID, ok := uintQuery(c, "location_id")
	if !ok {
		h.BadRequest(c, "Invalid location_id")
		return
	}

	categories, err := h.coordinator.ListStockByCategory(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// LotTransactions handles GET /lots/:id/transactions
func (h *StockHandler) LotTransactions(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid lot ID")
		return
	}

	txns, err := h.coordinator.LotTransactions(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txns)
}

// auditURI binds the audit trail path parameters.
type auditURI struct {
	EntityType string `uri:"entity_type" binding:"required"`
	ID         uint   `uri:"id" binding:"required,min=1"`
}

// AuditTrail handles GET /audit/:entity_type/:id
func (h *StockHandler) AuditTrail(c *gin.Context) {
	var uri auditURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid audit trail path")
		return
	}

	entries, err := h.coordinator.AuditTrail(c.Request.Context(), uri.EntityType, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}
