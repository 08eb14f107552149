package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httpapi "telemetry-bridge/internal/api/http"
	"telemetry-bridge/internal/ingest"
	"telemetry-bridge/internal/metrics"
	_ "telemetry-bridge/internal/pkg/dotenv/autoload"
	"telemetry-bridge/internal/pkg/logging"
)

func main() {
	cfg := loadConfig()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logConfig(logger, cfg)

	store := metrics.New()
	registry := prometheus.NewRegistry()
	registry.MustRegister(store)

	listener, err := ingest.New(ingest.Config{
		Port:       cfg.UDPPort,
		BufferSize: cfg.ReadBufferSize,
	}, store, logger, ingest.NewMetrics(registry))
	if err != nil {
		logger.Fatal("failed to open telemetry socket", zap.Error(err))
	}

	logger.Info("listening for telemetry", zap.Stringer("addr", listener.Addr()))

	listenerDone := make(chan error, 1)
	go func() {
		err := listener.Run(ctx)
		listenerDone <- err
		// a dead socket ends the whole process, not just the loop
		stop()
	}()

	httpServer := newHTTPServer(cfg.HTTPPort, httpapi.NewServer(registry))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		<-listenerDone
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	stop()
	if err := <-listenerDone; err != nil {
		logger.Fatal("telemetry listener failed", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
