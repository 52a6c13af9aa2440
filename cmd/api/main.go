package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wolfman30/rivertown-concierge/cmd/mainconfig"
	"github.com/wolfman30/rivertown-concierge/internal/api/router"
	"github.com/wolfman30/rivertown-concierge/internal/app/bootstrap"
	"github.com/wolfman30/rivertown-concierge/internal/chat"
	appconfig "github.com/wolfman30/rivertown-concierge/internal/config"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting rivertown concierge API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"order_store", cfg.OrderStoreBackend,
	)

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	reg := newRegistry()
	app, err := bootstrap.Build(context.Background(), cfg, awsCfg, reg, logger)
	if err != nil {
		logger.Error("failed to build concierge", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// Create HTTP server. Write and read deadlines are left unset so
	// websocket sessions survive; each backend call carries its own timeout.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newHTTPHandler(app, reg, logger),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newHTTPHandler(app *bootstrap.App, gatherer prometheus.Gatherer, logger *logging.Logger) http.Handler {
	cfg := app.Config
	return router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chat.NewHandler(app.Chat, logger).AllowOrigins(cfg.CORSAllowedOrigins),
		MetricsHandler:     promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})
}
