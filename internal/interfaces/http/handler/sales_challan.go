package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yarnlot/backend/internal/application/ledger"
	"github.com/yarnlot/backend/internal/interfaces/http/dto"
)

// SalesChallanHandler serves sales challan endpoints
type SalesChallanHandler struct {
	BaseHandler
	coordinator *ledger.Coordinator
}

// NewSalesChallanHandler creates a new SalesChallanHandler
func NewSalesChallanHandler(coordinator *ledger.Coordinator) *SalesChallanHandler {
	return &SalesChallanHandler{coordinator: coordinator}
}

// Create handles POST /sales-challans, dispatching stock directly from a
// location without a sales order.
func (h *SalesChallanHandler) Create(c *gin.Context) {
	var req ledger.CreateSalesChallanRequest
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

	result, err := h.coordinator.CreateSalesChallan(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get handles GET /sales-challans/:id
func (h *SalesChallanHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid sales challan ID")
		return
	}

	challan, err := h.coordinator.GetSalesChallan(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, challan)
}

// List handles GET /sales-challans
func (h *SalesChallanHandler) List(c *gin.Context) {
	challans, err := h.coordinator.ListSalesChallans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, challans)
}
