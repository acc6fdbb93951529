package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/fishing-planner/internal/api/http"
	"github.com/i474232898/fishing-planner/internal/config"
	"github.com/i474232898/fishing-planner/internal/logger"
	"github.com/i474232898/fishing-planner/internal/marine"
	"github.com/i474232898/fishing-planner/internal/marine/providers"
	"github.com/i474232898/fishing-planner/internal/planner"
	"github.com/i474232898/fishing-planner/internal/reference"
	"github.com/i474232898/fishing-planner/internal/scheduler"
	"github.com/i474232898/fishing-planner/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logger.New(cfg.LogLevel)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	httpCfg := providers.NewHTTPClientConfig(httpClient, cfg.ProviderMaxRetries)

	// Providers with resilience (backoff + circuit breaker). Overrides only
	// run when their API key is configured.
	bundleCfg := marine.BundleConfig{
		Baseline: providers.NewOpenMeteoProvider(httpCfg, cfg.Location, appLog),
		Timeout:  cfg.HTTPTimeout,
		Logger:   appLog,
	}
	if cfg.OpenWeatherAPIKey != "" {
		bundleCfg.Wind = providers.NewOpenWeatherProvider(httpCfg, cfg.OpenWeatherAPIKey)
	}
	if cfg.StormglassAPIKey != "" {
		bundleCfg.Marine = providers.NewStormglassProvider(httpCfg, cfg.StormglassAPIKey)
	}
	builder := marine.NewBuilder(bundleCfg)

	catalog, err := reference.Load()
	if err != nil {
		log.Fatalf("failed to load reference data: %v", err)
	}

	// Stateless planner over the reference data and the bundle builder.
	svc := planner.NewService(catalog, catalog, builder, cfg.Location, appLog)

	// In-memory conditions history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Collector that periodically snapshots today's conditions.
	sched := scheduler.New(cfg.Areas, cfg.CollectInterval, svc, memStore, appLog)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	appLog.Info("fishing planner starting",
		"port", cfg.Port,
		"sources", builder.Sources(),
		"collect_areas", len(cfg.Areas),
	)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "fishing-planner",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Plans fan out to several providers per day.
		WriteTimeout: 60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "fishing-planner",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, svc, catalog, memStore)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLog.Error("error during shutdown", "error", err)
	}
}
