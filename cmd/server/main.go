package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yarnlot/backend/internal/application/ledger"
	"github.com/yarnlot/backend/internal/infrastructure/auth"
	"github.com/yarnlot/backend/internal/infrastructure/config"
	"github.com/yarnlot/backend/internal/infrastructure/logger"
	"github.com/yarnlot/backend/internal/infrastructure/persistence"
	"github.com/yarnlot/backend/internal/interfaces/http/handler"
	"github.com/yarnlot/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	coordinator := ledger.NewCoordinator(
		persistence.NewGormTransactionScope(db.DB),
		ledger.WithLogger(log),
		ledger.WithTransientClassifier(persistence.IsTransientError),
		ledger.WithRetry(cfg.Database.MaxRetryAttempts, cfg.Database.RetryDelayBase),
		ledger.WithOperationTimeout(cfg.Database.ConnectionTimeout),
	)

	tokens := auth.NewTokenManager(cfg.JWT)

	engine, err := router.New(router.Config{
		Logger: log,
		Tokens: tokens,
		Handlers: router.Handlers{
			System:        handler.NewSystemHandler(db),
			GoodsReceipts: handler.NewGoodsReceiptHandler(coordinator),
			SalesOrders:   handler.NewSalesOrderHandler(coordinator),
			SalesChallans: handler.NewSalesChallanHandler(coordinator),
			PurchaseOrder: handler.NewPurchaseOrderHandler(coordinator),
			Stock:         handler.NewStockHandler(coordinator),
		},
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
