// Command server runs the nimrelay NVIDIA NIM to OpenAI proxy.
//
// Configuration via environment variables (a config.yaml can set the same
// fields, see pkg/config):
//
//	NVIDIA_API_KEY   - NIM API credential forwarded as Bearer token
//	NVIDIA_BASE_URL  - NIM base URL (default: https://integrate.api.nvidia.com/v1)
//	PORT             - Listen port (default: 5000)
//	NIMRELAY_CONFIG  - Path to a YAML config file (optional)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nimrelay/nimrelay/pkg/config"
	"github.com/nimrelay/nimrelay/pkg/transport"
	"github.com/nimrelay/nimrelay/pkg/upstream"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Load a .env file when present; deployments without one rely on the
	// process environment.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()

	// Create backend client.
	client := upstream.NewClient(cfg.Upstream)
	defer client.Close()

	// Build HTTP mux with the proxy handler and metrics endpoint.
	handler := transport.NewHandler(client, logger)
	mux := http.NewServeMux()
	mux.Handle("/", handler.Handler())
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in background.
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"port", cfg.Server.Port,
			"upstream", cfg.Upstream.BaseURL,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error.
	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
