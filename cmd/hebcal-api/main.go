package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/sudo-py-dev/hebcal-api/internal/api/http"
	"github.com/sudo-py-dev/hebcal-api/internal/config"
	"github.com/sudo-py-dev/hebcal-api/internal/geo"
	"github.com/sudo-py-dev/hebcal-api/internal/hebcal"
	"github.com/sudo-py-dev/hebcal-api/internal/logger"
	"github.com/sudo-py-dev/hebcal-api/internal/scheduler"
	"github.com/sudo-py-dev/hebcal-api/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatal("failed to load config", "error", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  logger.JSON,
		Service: "hebcal-api",
	})

	// Shared HTTP client for outbound API calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	clientCfg := hebcal.ClientConfig{
		BaseURL:    cfg.BaseURL,
		HTTPClient: httpClient,
		Logger:     log,
	}
	calendar := hebcal.NewCalendarClient(clientCfg)
	shabbat := hebcal.NewShabbatClient(clientCfg)
	converter := hebcal.NewConverterClient(clientCfg)

	// City-only locations get coordinates so shabbat times can be fetched
	// for them too. Failures leave the location calendar-only.
	resolver := geo.NewResolver(cfg.GeocoderAPIKey, log)
	locations := make([]hebcal.TrackedLocation, 0, len(cfg.Locations))
	for _, loc := range cfg.Locations {
		if loc.Geonameid == 0 && loc.City != "" && cfg.GeocoderAPIKey != "" {
			lat, lon, err := resolver.Resolve(loc.City)
			if err != nil {
				log.Warn("could not geocode city", "city", loc.City, "error", err)
			} else {
				loc.Latitude = &lat
				loc.Longitude = &lon
			}
		}
		locations = append(locations, loc)
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Core service orchestrating clients and store.
	service := hebcal.NewService(memStore, calendar, shabbat, cfg.RefreshHorizonDays, log)

	// Scheduler that periodically refreshes tracked locations.
	sched := scheduler.New(locations, cfg.FetchInterval, service, log)
	if err := sched.Start(); err != nil {
		log.Fatal("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "hebcal-api",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
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
			"service": "hebcal-api",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, converter)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}
