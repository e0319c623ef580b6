// Package main provides the entry point for the MindNotes rotation worker.
package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aswin071/MindNotes/internal/config"
	"github.com/aswin071/MindNotes/internal/database"
	"github.com/aswin071/MindNotes/internal/observability"
	"github.com/aswin071/MindNotes/internal/services"
	"github.com/aswin071/MindNotes/internal/worker"

	"github.com/joho/godotenv"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// fatalIfErr logs the error with context and panics with a consistent message
func fatalIfErr(ctx context.Context, logger *observability.Logger, msg string, err error, fields map[string]interface{}) {
	logger.Error(ctx, msg, err, fields)
	panic(msg + ": " + err.Error())
}

func main() {
	ctx := context.Background()

	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Setup observability (tracing/metrics/logging)
	tp, mp, logger, err := observability.SetupObservability(&cfg.OpenTelemetry, "mindnotes-worker")
	if err != nil {
		panic("Failed to initialize observability: " + err.Error())
	}
	defer func() {
		if sdkTP, ok := tp.(*sdktrace.TracerProvider); ok {
			if err := sdkTP.Shutdown(context.TODO()); err != nil {
				logger.Warn(ctx, "Error shutting down tracer provider", map[string]interface{}{"error": err.Error(), "provider": "tracer"})
			}
		}
		if mp != nil {
			if err := mp.Shutdown(context.TODO()); err != nil {
				logger.Warn(ctx, "Error shutting down meter provider", map[string]interface{}{"error": err.Error(), "provider": "meter"})
			}
		}
	}()

	logger.Info(ctx, "Starting rotation worker", map[string]interface{}{
		"logLevel": cfg.Server.LogLevel,
		"debug":    cfg.Server.Debug,
		"interval": cfg.Rotation.WorkerInterval.String(),
	})

	// Initialize database with migrations
	dbManager := database.NewManager(logger)
	db, err := dbManager.InitDBWithConfig(cfg.Database)
	if err != nil {
		fatalIfErr(ctx, logger, "Failed to initialize database", err, map[string]interface{}{"db_url": cfg.Database.URL})
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn(ctx, "Warning: failed to close database", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Wire repositories and services
	catalogRepo := services.NewContentCatalogRepository(db, logger)
	exposureLedger := services.NewExposureLedger(db, logger)
	setStore := services.NewDailySetStore(db, logger)
	userRepo := services.NewUserRepository(db, logger)
	setCache := services.NewLRUSetCache(cfg.Rotation.CacheSize, cfg.Rotation.CacheTTL)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector := services.NewDiversitySelector(rng, logger)
	replenisher := services.NewTemplateReplenisher(catalogRepo, &cfg.Rotation, rng, logger)
	dailySetService := services.NewDailySetService(
		catalogRepo, exposureLedger, setStore, setCache, selector, replenisher, &cfg.Rotation, logger,
	)

	workerInstance := worker.NewWorker(userRepo, dailySetService, "default", cfg, logger)

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		workerInstance.Start(workerCtx)
		close(done)
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "Rotation worker shutting down", nil)
	cancel()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Warn(ctx, "Worker did not stop within shutdown timeout", nil)
	}

	if err := logger.Sync(); err != nil {
		// Sync on stdout can fail harmlessly on some platforms
		_ = err
	}
}
