package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/config"
	filerepo "github.com/mamadbah2/stockroom/internal/repository/file"
	"github.com/mamadbah2/stockroom/internal/repository/mongodb"
	"github.com/mamadbah2/stockroom/internal/repository/sheets"
	"github.com/mamadbah2/stockroom/internal/scheduler"
	"github.com/mamadbah2/stockroom/internal/server/handlers"
	"github.com/mamadbah2/stockroom/internal/server/router"
	commandsvc "github.com/mamadbah2/stockroom/internal/service/commands"
	inventorysvc "github.com/mamadbah2/stockroom/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/stockroom/internal/service/reporting"
	"github.com/mamadbah2/stockroom/internal/store"
	"github.com/mamadbah2/stockroom/pkg/clients/alert"
	"github.com/mamadbah2/stockroom/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	snapshotRepo := filerepo.NewRepository(cfg.Inventory.SnapshotPath, baseLogger.Named("repo.file"))
	initialStock, err := snapshotRepo.Load()
	if err != nil {
		baseLogger.Fatal("failed to load inventory snapshot", zap.Error(err))
	}
	stockStore := store.New(initialStock)

	var auditRepo mongodb.Repository
	if cfg.MongoEnabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		auditRepo = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, movement audit trail disabled")
	}

	var sheetsRepo sheets.Repository
	if cfg.SheetsEnabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("sheets configuration missing, spreadsheet export disabled")
	}

	inventorySvc := inventorysvc.NewService(stockStore, snapshotRepo, auditRepo, baseLogger.Named("svc.inventory"))
	reportingSvc := reportingsvc.NewService(inventorySvc, sheetsRepo, auditRepo, cfg.Inventory.LowStockThreshold, baseLogger.Named("svc.reporting"))
	commandDispatcher := commandsvc.NewService(inventorySvc, cfg.Inventory.LowStockThreshold, baseLogger.Named("svc.commands"))

	var alertClient alert.Client
	if cfg.AlertsEnabled() {
		alertClient = alert.NewClient(cfg.Alerts)
		baseLogger.Info("low-stock alert webhook enabled")
	} else {
		baseLogger.Warn("alert webhook url missing, low-stock notifications disabled")
	}

	inventoryHandler := handlers.NewInventoryHandler(inventorySvc, commandDispatcher, cfg.Inventory.LowStockThreshold, baseLogger.Named("handlers.inventory"))
	engine := router.New(inventoryHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, inventorySvc, reportingSvc, alertClient, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	// Last snapshot write so restarts pick up the final state.
	if err := inventorySvc.SaveSnapshot(); err != nil {
		baseLogger.Error("failed to save snapshot on shutdown", zap.Error(err))
	}
}
