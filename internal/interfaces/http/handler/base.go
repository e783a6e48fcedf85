package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yarnlot/backend/internal/domain/shared"
	"github.com/yarnlot/backend/internal/interfaces/http/dto"
	"github.com/yarnlot/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (uint, error) {
	userID := middleware.GetJWTUserID(c)
	if userID == 0 {
		return 0, errors.New("user ID not found in context")
	}
	return userID, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	requestID := middleware.GetRequestID(c)
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, requestID))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	requestID := middleware.GetRequestID(c)
	c.JSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, requestID))
}

// shortfallDetail is the wire shape of one insufficient-stock line.
type shortfallDetail struct {
	ProductID uint   `json:"product_id"`
	Available string `json:"available"`
	Required  string `json:"required"`
}

func toShortfallDetail(e shared.InsufficientStockError) shortfallDetail {
	return shortfallDetail{
		ProductID: e.ProductID,
		Available: e.Available.String(),
		Required:  e.Required.String(),
	}
}

// HandleError converts domain errors to HTTP responses. Structured stock and
// lifecycle errors keep their detail payloads; unknown errors collapse to a
// 500 without leaking internals.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := middleware.GetRequestID(c)

	var insufficient *shared.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeInsufficientStock), dto.NewErrorResponseWithDetails(
			dto.ErrCodeInsufficientStock, insufficient.Error(), requestID,
			[]shortfallDetail{toShortfallDetail(*insufficient)}))
		return
	}

	var shortfall *shared.StockShortfallError
	if errors.As(err, &shortfall) {
		details := make([]shortfallDetail, 0, len(shortfall.Shortfalls))
		for _, s := range shortfall.Shortfalls {
			details = append(details, toShortfallDetail(s))
		}
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeInsufficientStock), dto.NewErrorResponseWithDetails(
			dto.ErrCodeInsufficientStock, shortfall.Error(), requestID, details))
		return
	}

	var lifecycle *shared.LifecycleViolationError
	if errors.As(err, &lifecycle) {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeLifecycleViolation), dto.NewErrorResponseWithDetails(
			dto.ErrCodeLifecycleViolation, lifecycle.Reason, requestID, map[string]string{
				"entity": lifecycle.Entity,
				"status": lifecycle.Status,
				"action": lifecycle.Action,
			}))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
