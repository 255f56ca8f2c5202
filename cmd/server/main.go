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
	"github.com/mamadbah2/stockroom/internal/queue"
	"github.com/mamadbah2/stockroom/internal/repository/mongodb"
	"github.com/mamadbah2/stockroom/internal/scheduler"
	"github.com/mamadbah2/stockroom/internal/server/handlers"
	"github.com/mamadbah2/stockroom/internal/server/router"
	commandsvc "github.com/mamadbah2/stockroom/internal/service/commands"
	inventorysvc "github.com/mamadbah2/stockroom/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/stockroom/internal/service/reporting"
	"github.com/mamadbah2/stockroom/pkg/clients/webhook"
	"github.com/mamadbah2/stockroom/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.NewWithLevel(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	// Validate already checked the timezone.
	loc, _ := cfg.Reporting.Location()
	clock := func() time.Time { return time.Now().In(loc) }

	inventory := inventorysvc.NewService(clock, cfg.Pricing.Currency, logger.Named(baseLogger, "svc.inventory"))
	if err := inventory.RegisterConfiguredStrategies(cfg.Pricing); err != nil {
		baseLogger.Fatal("failed to register pricing strategies", zap.Error(err))
	}
	if cfg.Server.SeedDemo {
		if err := inventory.SeedDemoCatalog(); err != nil {
			baseLogger.Fatal("failed to seed demo catalog", zap.Error(err))
		}
	}

	inventoryQueue, err := queue.NewBounded[string](cfg.Queue.Capacity, logger.Named(baseLogger, "queue"))
	if err != nil {
		baseLogger.Fatal("failed to init queue", zap.Error(err))
	}

	var archive mongodb.Repository = mongodb.NewMemoryRepository()
	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("MONGODB_URI missing, stock reports are kept in memory")
	}

	var notifier reportingsvc.Notifier
	if cfg.Webhook.URL != "" {
		notifier = webhook.NewClient(cfg.Webhook)
		baseLogger.Info("report webhook enabled")
	} else {
		baseLogger.Warn("REPORT_WEBHOOK_URL missing, stock reports are not delivered")
	}

	reportingSvc := reportingsvc.NewService(inventory, inventoryQueue, archive, notifier, clock, logger.Named(baseLogger, "svc.reporting"))
	commandDispatcher := commandsvc.NewService(inventory, inventoryQueue, reportingSvc, logger.Named(baseLogger, "svc.commands"))

	engine := router.New(router.Handlers{
		Inventory: handlers.NewInventoryHandler(inventory, logger.Named(baseLogger, "handlers.inventory")),
		Queue:     handlers.NewQueueHandler(inventoryQueue, logger.Named(baseLogger, "handlers.queue")),
		Commands:  handlers.NewCommandHandler(commandDispatcher, reportingSvc, logger.Named(baseLogger, "handlers.commands")),
	}, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Queue handlers block until their request context ends, so no WriteTimeout.
	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
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
}
