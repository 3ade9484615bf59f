package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		observability.Logger.Error("calculator exited", zap.Error(err))
		observability.SyncLogger()
		fmt.Fprintf(os.Stderr, "calculator: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config
	if err := loadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	// Logger
	if err := observability.InitLogger(cfg.Telemetry.LogLevel); err != nil {
		return err
	}
	defer observability.SyncLogger()
	logConfig(cfg)

	// Tracing, metrics, logs
	telemetryShutdown, err := initTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := telemetryShutdown(shutdownCtx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	engineMetrics, err := calculator.NewEngineMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	// Calculator
	session := newSession(cfg.Calculator, engineMetrics)
	if err := session.Start(ctx); err != nil {
		return err
	}
	defer session.Stop()

	// Router
	router := server.NewRouter(calculator.NewHandler(session), prometheus.DefaultGatherer)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("session_id", session.ID()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	return waitForShutdown(srv, cfg.HTTP)
}

func waitForShutdown(srv *http.Server, cfg config.HTTPConfig) error {
	observability.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// The session stops with the signal context, which closes open event
	// streams so Shutdown does not wait on them.
	return srv.Shutdown(ctx)
}
