package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yarnlot/backend/internal/application/ledger"
	"github.com/yarnlot/backend/internal/domain/trade"
	"github.com/yarnlot/backend/internal/interfaces/http/dto"
)

// SalesOrderHandler serves sales order endpoints
type SalesOrderHandler struct {
	BaseHandler
	coordinator *ledger.Coordinator
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(coordinator *ledger.Coordinator) *SalesOrderHandler {
	return &SalesOrderHandler{coordinator: coordinator}
}

// Create handles POST /sales-orders. Creation reserves the order's stock
// FIFO; a shortfall on any line rolls the whole order back.
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req ledger.CreateSalesOrderRequest
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

	result, err := h.coordinator.CreateSalesOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get handles GET /sales-orders/:id
func (h *SalesOrderHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}

	order, err := h.coordinator.GetSalesOrder(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	includeDeleted, _ := strconv.ParseBool(c.Query("include_deleted"))

	orders, err := h.coordinator.ListSalesOrders(c.Request.Context(), includeDeleted)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Reserve handles POST /sales-orders/:id/reserve
func (h *SalesOrderHandler) Reserve(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	var req ledger.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	req.SalesOrderID = uri.ID
	req.UserID = userID

	result, err := h.coordinator.Reserve(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Unreserve handles POST /sales-orders/:id/unreserve
func (h *SalesOrderHandler) Unreserve(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	result, err := h.coordinator.Unreserve(c.Request.Context(), uri.ID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Cancel handles POST /sales-orders/:id/cancel
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	result, err := h.coordinator.CancelSalesOrder(c.Request.Context(), uri.ID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Convert handles POST /sales-orders/:id/convert
func (h *SalesOrderHandler) Convert(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	result, err := h.coordinator.ConvertSalesOrder(c.Request.Context(), uri.ID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// updateStatusRequest is the body of PATCH /sales-orders/:id/status
type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /sales-orders/:id/status
func (h *SalesOrderHandler) UpdateStatus(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	result, err := h.coordinator.UpdateSalesOrderStatus(c.Request.Context(), uri.ID,
		trade.SalesOrderStatus(req.Status), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete handles DELETE /sales-orders/:id (soft delete)
func (h *SalesOrderHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	if err := h.coordinator.DeleteSalesOrder(c.Request.Context(), uri.ID, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
