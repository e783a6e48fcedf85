package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yarnlot/backend/internal/application/ledger"
	"github.com/yarnlot/backend/internal/domain/trade"
	"github.com/yarnlot/backend/internal/interfaces/http/dto"
)

// PurchaseOrderHandler serves purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	coordinator *ledger.Coordinator
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(coordinator *ledger.Coordinator) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{coordinator: coordinator}
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req ledger.CreatePurchaseOrderRequest
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

	result, err := h.coordinator.CreatePurchaseOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}

	order, err := h.coordinator.GetPurchaseOrder(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	orders, err := h.coordinator.ListPurchaseOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// actionRequest is the body of POST /purchase-orders/:id/actions
type actionRequest struct {
	Action string `json:"action" binding:"required,oneof=edit cancel mark_received convert_to_grn delete"`
}

// ApplyAction handles POST /purchase-orders/:id/actions, running one
// lifecycle action under the fixed allowed-action table.
func (h *PurchaseOrderHandler) ApplyAction(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	if err := h.coordinator.ApplyPurchaseOrderAction(c.Request.Context(), uri.ID,
		trade.PurchaseOrderAction(req.Action), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
