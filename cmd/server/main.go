package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "tradeledger/internal/adapters/web"
	"tradeledger/internal/app"
	"tradeledger/internal/config"
	"tradeledger/internal/core"
	"tradeledger/internal/db"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	logger := newLogger(cfg.Server.AppEnv)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	companyService := core.NewCompanyService(pool)
	itemService := core.NewItemService(pool)
	supplierService := core.NewSupplierService(pool)
	customerService := core.NewCustomerService(pool)
	inventoryService := core.NewInventoryService(pool)
	purchaseService := core.NewPurchaseOrderService(pool, inventoryService)
	salesService := core.NewSalesOrderService(pool, inventoryService)
	dashboardService := core.NewDashboardService(pool)

	svc := app.NewAppService(
		companyService,
		itemService,
		supplierService,
		customerService,
		inventoryService,
		purchaseService,
		salesService,
		dashboardService,
	)

	handler := webAdapter.NewHandler(svc, logger, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newLogger(appEnv string) *zap.Logger {
	if appEnv == "prod" || appEnv == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}
