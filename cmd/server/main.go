package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modreview-dashboard/internal/config"
	"modreview-dashboard/internal/database"
	"modreview-dashboard/internal/handlers"
	"modreview-dashboard/internal/logging"
	"modreview-dashboard/internal/router"
	"modreview-dashboard/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.Info().Str("env", cfg.Env).Msg("🚀 Starting moderation activity dashboard")

	// ──── Step 2: Open the Activity Store (and cache) ────
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, err := database.OpenStore(ctx, cfg)
	cancel()
	if err != nil {
		logging.Error().Err(err).Msg("✗ Activity store connection failed")
		os.Exit(1)
	}
	defer closeStore()

	// ──── Step 3: Wire Services and Handlers ────
	dashboardService := services.NewDashboardService(store)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(dashboardHandler, router.Options{
		QueryTimeout:    cfg.QueryTimeout,
		ExportRateLimit: cfg.ExportRateLimit,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.QueryTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logging.Info().Msg("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logging.Info().Str("addr", "http://localhost:"+cfg.Port).Msg("✓ Dashboard ready")
	logging.Info().Str("api", "http://localhost:"+cfg.Port+"/api/v1").Msg("  API mounted")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logging.Error().Err(err).Msg("Server error")
		closeStore()
		os.Exit(1)
	}
}
