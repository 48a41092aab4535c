package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/korzewarrior/smartkart/api/routes"
	"github.com/korzewarrior/smartkart/internal/controller"
	"github.com/korzewarrior/smartkart/internal/product"
	"github.com/korzewarrior/smartkart/internal/scan"
	"github.com/korzewarrior/smartkart/internal/speech"
	"github.com/korzewarrior/smartkart/pkg/config"
	"github.com/korzewarrior/smartkart/pkg/db"
	"github.com/korzewarrior/smartkart/pkg/logger"
	"github.com/korzewarrior/smartkart/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "smartkart"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "smartkart",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	store, err := product.NewStore(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to create product store", err)
		os.Exit(1)
	}
	if cfg.DB.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			logg.Error(ctx, "failed to migrate product store", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.New(registry)

	cache := product.NewCache(product.CacheOptions{
		NegativeTTL: cfg.Lookup.NegativeTTL,
		Store:       store,
		Logger:      logg,
	})
	persisted, err := store.LoadAll(ctx)
	if err != nil {
		logg.Error(ctx, "failed to warm product cache", err)
		os.Exit(1)
	}
	cache.Warm(persisted)
	logg.Info(logg.WithField(ctx, "cached_products", len(persisted)), "product cache warmed")

	lookup, err := product.NewLookup(
		cache,
		product.NewOpenFoodFactsClient(cfg.Lookup),
		product.NewAllergenDetector(cfg.Lookup.Allergens),
		logg,
		pipelineMetrics,
	)
	if err != nil {
		logg.Error(ctx, "failed to create product lookup", err)
		os.Exit(1)
	}

	speaker := speech.NewExecSpeaker(cfg.Speech, logg)
	queue := speech.NewQueue(speaker, logg, pipelineMetrics)
	defer queue.Close()

	core, err := controller.New(controller.Params{
		Debouncer: scan.NewDebouncer(cfg.Scanner.Cooldown, cfg.Scanner.TableMaxEntries),
		Resolver:  lookup,
		Speech:    queue,
		Cache:     cache,
		Logger:    logg,
		Metrics:   pipelineMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create interaction controller", err)
		os.Exit(1)
	}

	if cfg.Scanner.Source == "stdin" {
		go pumpDetections(ctx, scan.NewLineSource(os.Stdin), core, logg)
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, core, registry),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown failed", err)
		}
	}()

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting smartkart daemon")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(startCtx, "smartkart daemon stopped unexpectedly", err)
		os.Exit(1)
	}
}

// pumpDetections feeds decoded barcodes from the source into the controller
// until the feed ends or the daemon shuts down.
func pumpDetections(ctx context.Context, source scan.Source, core *controller.Controller, logg *logger.Logger) {
	ctx = logg.WithComponent(ctx, "detector")
	for {
		detection, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				logg.Info(ctx, "detection feed closed")
				return
			}
			logg.Error(ctx, "detection feed failed", err)
			return
		}
		core.OnBarcodeDetected(ctx, detection.Code)
	}
}
