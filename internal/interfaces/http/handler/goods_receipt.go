package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yarnlot/backend/internal/application/ledger"
	"github.com/yarnlot/backend/internal/interfaces/http/dto"
)

// GoodsReceiptHandler serves goods receipt endpoints
type GoodsReceiptHandler struct {
	BaseHandler
	coordinator *ledger.Coordinator
}

// NewGoodsReceiptHandler creates a new GoodsReceiptHandler
func NewGoodsReceiptHandler(coordinator *ledger.Coordinator) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{coordinator: coordinator}
}

// Create handles POST /goods-receipts
func (h *GoodsReceiptHandler) Create(c *gin.Context) {
	var req ledger.CreateGoodsReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	req.UserID = userID

	result, err := h.coordinator.CreateGoodsReceipt(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get handles GET /goods-receipts/:id
func (h *GoodsReceiptHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid goods receipt ID")
		return
	}

	receipt, err := h.coordinator.GetGoodsReceipt(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// List handles GET /goods-receipts
func (h *GoodsReceiptHandler) List(c *gin.Context) {
	receipts, err := h.coordinator.ListGoodsReceipts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipts)
}

// Inbound handles POST /inventory/inbound, materializing a lot from an
// already-persisted GRN item.
func (h *GoodsReceiptHandler) Inbound(c *gin.Context) {
	var req ledger.InboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	req.UserID = userID

	result, err := h.coordinator.Inbound(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
