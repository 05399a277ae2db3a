package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-backoffice/internal/client"
	"pos-backoffice/internal/config"
	"pos-backoffice/internal/dashboard"
	"pos-backoffice/internal/handlers"
	"pos-backoffice/internal/money"
	"pos-backoffice/internal/session"
	"pos-backoffice/internal/store"
	"pos-backoffice/internal/telemetry"
	"pos-backoffice/internal/utils"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg := config.LoadConfig()
	logger := utils.SetupLogging(cfg.LogLevel)

	logger.Info("Starting POS back-office console", "version", "1.0.0")
	cfg.LogSummary(logger)

	ctx := context.Background()
	otelTelemetry := telemetry.InitMetrics(ctx, cfg.MetricsExporter)

	backendTelemetry, err := telemetry.NewBackendTelemetry()
	if err != nil {
		logger.Error("Failed to initialize backend telemetry", "error", err)
		return
	}
	consoleTelemetry, err := telemetry.NewConsoleTelemetry()
	if err != nil {
		logger.Error("Failed to initialize console telemetry", "error", err)
		return
	}

	apiClient := client.New(cfg.APIBaseURL, cfg.HTTPTimeout,
		client.WithLogger(logger),
		client.WithRecorder(backendTelemetry),
	)

	slot, closeSlot, err := openSlot(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open session store", "store", cfg.SessionStore, "error", err)
		return
	}
	defer closeSlot()

	gate := session.NewGate(apiClient, slot, cfg.ProfileCacheTTL, logger)
	defer gate.Close()
	if err := gate.Restore(ctx); err != nil {
		logger.Warn("Starting without a session", "error", err)
	}

	s := store.New(store.RemotesFor(apiClient), backendTelemetry, logger)
	aggregator := dashboard.NewAggregator(s, dashboard.Options{
		LowStockPreview: cfg.LowStockPreview,
		RecentPreview:   cfg.RecentPreview,
	}, logger)
	defer aggregator.Close()

	formatter := money.NewFormatter(cfg.DisplayLocale, cfg.DisplayCurrency)
	drafts := handlers.NewDraftHandler(s, formatter, cfg.DefaultTaxRate, logger)

	// Nothing fetched for one user may be shown to the next
	gate.OnLogout(s.Reset)
	gate.OnLogout(drafts.DiscardAll)

	if gate.Authenticated() {
		refreshCtx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
		if err := s.RefreshAll(refreshCtx); err != nil {
			logger.Warn("Initial refresh incomplete", "error", err)
		}
		cancel()
	}

	r := handlers.NewRouter(handlers.Dependencies{
		Gate:       gate,
		Store:      s,
		Aggregator: aggregator,
		Drafts:     drafts,
		Formatter:  formatter,
		Logger:     logger,
	})
	r.Use(consoleTelemetry.Middleware)

	slog.Debug("Available endpoints",
		"session_endpoints", []string{
			"GET /api/session",
			"POST /api/session/login",
			"POST /api/session/logout",
			"POST /api/session/profile",
		},
		"collection_endpoints", []string{
			"GET /api/{categories,products,inventories,orders,invoices} (?refresh=true, ?q=, ?stock=low|ok)",
			"POST /api/{categories,products,inventories}",
			"PUT /api/{categories,products,inventories}/{id}",
			"DELETE /api/{categories,products,orders}/{id}",
		},
		"draft_endpoints", []string{
			"POST /api/drafts/{orders,invoices}",
			"GET|DELETE /api/drafts/{id}",
			"PATCH /api/drafts/{id}/header",
			"POST /api/drafts/{id}/messages",
			"POST /api/drafts/{id}/submit",
		},
		"system_endpoints", []string{
			"GET /health",
			"GET /api/dashboard (?refresh=true)",
		})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server ready to accept connections", "address", server.Addr, "backend", cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	otelTelemetry.Close(shutdownCtx)
	logger.Info("Server exited")
}

// openSlot picks where the session survives restarts: a JSON file or Redis
func openSlot(ctx context.Context, cfg *config.Config) (session.Slot, func(), error) {
	if cfg.SessionStore == "redis" {
		slot, err := session.NewRedisSlot(ctx, cfg.RedisURL, cfg.SessionRootKey)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Session stored in Redis", "root_key", cfg.SessionRootKey)
		return slot, func() { _ = slot.Close() }, nil
	}

	slog.Info("Session stored in file", "path", cfg.SessionFilePath, "root_key", cfg.SessionRootKey)
	return session.NewFileSlot(cfg.SessionFilePath, cfg.SessionRootKey), func() {}, nil
}
