package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yarnlot/backend/internal/infrastructure/auth"
	"github.com/yarnlot/backend/internal/infrastructure/logger"
	"github.com/yarnlot/backend/internal/interfaces/http/handler"
	"github.com/yarnlot/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	System        *handler.SystemHandler
	GoodsReceipts *handler.GoodsReceiptHandler
	SalesOrders   *handler.SalesOrderHandler
	SalesChallans *handler.SalesChallanHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Stock         *handler.StockHandler
}

// Config holds router dependencies.
type Config struct {
	Logger         *zap.Logger
	Tokens         *auth.TokenManager
	Handlers       Handlers
	TrustedProxies []string
}

// New builds the gin engine with middleware and all API routes mounted under
// /api/v1. The health endpoint skips authentication.
func New(cfg Config) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.JWTAuth(cfg.Tokens, "/health", "/api/v1/health"))

	engine.GET("/health", cfg.Handlers.System.Health)

	api := engine.Group("/api/v1")
	{
		api.GET("/health", cfg.Handlers.System.Health)

		receipts := api.Group("/goods-receipts")
		{
			receipts.POST("", cfg.Handlers.GoodsReceipts.Create)
			receipts.GET("", cfg.Handlers.GoodsReceipts.List)
			receipts.GET("/:id", cfg.Handlers.GoodsReceipts.Get)
		}
		api.POST("/inventory/inbound", cfg.Handlers.GoodsReceipts.Inbound)

		orders := api.Group("/sales-orders")
		{
			orders.POST("", cfg.Handlers.SalesOrders.Create)
			orders.GET("", cfg.Handlers.SalesOrders.List)
			orders.GET("/:id", cfg.Handlers.SalesOrders.Get)
			orders.POST("/:id/reserve", cfg.Handlers.SalesOrders.Reserve)
			orders.POST("/:id/unreserve", cfg.Handlers.SalesOrders.Unreserve)
			orders.POST("/:id/cancel", cfg.Handlers.SalesOrders.Cancel)
			orders.POST("/:id/convert", cfg.Handlers.SalesOrders.Convert)
			orders.PATCH("/:id/status", cfg.Handlers.SalesOrders.UpdateStatus)
			orders.DELETE("/:id", cfg.Handlers.SalesOrders.Delete)
		}

		challans := api.Group("/sales-challans")
		{
			challans.POST("", cfg.Handlers.SalesChallans.Create)
			challans.GET("", cfg.Handlers.SalesChallans.List)
			challans.GET("/:id", cfg.Handlers.SalesChallans.Get)
		}

		purchases := api.Group("/purchase-orders")
		{
			purchases.POST("", cfg.Handlers.PurchaseOrder.Create)
			purchases.GET("", cfg.Handlers.PurchaseOrder.List)
			purchases.GET("/:id", cfg.Handlers.PurchaseOrder.Get)
			purchases.POST("/:id/actions", cfg.Handlers.PurchaseOrder.ApplyAction)
		}

		api.GET("/stock", cfg.Handlers.Stock.List)
		api.GET("/stock/by-category", cfg.Handlers.Stock.ByCategory)
		api.GET("/lots/:id/transactions", cfg.Handlers.Stock.LotTransactions)
		api.GET("/audit/:entity_type/:id", cfg.Handlers.Stock.AuditTrail)
	}

	return engine, nil
}
