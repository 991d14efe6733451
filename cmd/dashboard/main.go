package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/dawnfire/dashboard/internal/api/http"
	"github.com/dawnfire/dashboard/internal/calendar"
	"github.com/dawnfire/dashboard/internal/config"
	"github.com/dawnfire/dashboard/internal/metrics"
	"github.com/dawnfire/dashboard/internal/scheduler"
	"github.com/dawnfire/dashboard/internal/store"
	"github.com/dawnfire/dashboard/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Upstream clients and pipeline services.
	weatherSvc := weather.NewService(
		weather.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, ""),
		cfg.WeatherLocation,
	)
	calendarSvc := calendar.NewService(
		calendar.NewCalDAVClient(httpClient, cfg.NextcloudURL, cfg.NextcloudUser, cfg.NextcloudPassword),
	)
	metricsClient := metrics.NewClient(httpClient, cfg.PrometheusURL)

	// Last-good snapshot cache, refreshed in the background so the
	// widgets survive an OpenWeatherMap outage.
	snapshots := store.NewMemoryStore(24 * time.Hour)

	sched := scheduler.New(cfg.WeatherLocation, cfg.RefreshInterval, weatherSvc, snapshots)
	if cfg.OpenWeatherAPIKey != "" {
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Config:   cfg,
		Weather:  weatherSvc,
		Calendar: calendarSvc,
		Metrics:  metricsClient,
		Store:    snapshots,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	log.Printf("dashboard server listening on :%s (env=%s, weather=%v, nextcloud=%v, prometheus=%v)",
		cfg.Port, cfg.Env,
		cfg.OpenWeatherAPIKey != "", cfg.NextcloudPassword != "", cfg.PrometheusURL != "")

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
