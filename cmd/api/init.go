package main

import (
	"context"
	"errors"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"

	"go.uber.org/zap"
)

// initTelemetry starts the OTLP trace, metric and log pipelines when they are
// enabled and creates the calculator's instruments. The returned shutdown
// flushes whatever was started.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.OTLP {
		traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, traceShutdown)

		metricShutdown, err := observability.InitMetrics(ctx, cfg.ServiceName)
		if err != nil {
			shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, metricShutdown)

		logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
		if err != nil {
			shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, logShutdown)
	} else {
		observability.Logger.Info("OTLP export disabled")
	}

	if err := calculator.InitMetrics(); err != nil {
		shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}

// newSession builds the calculator session from configuration and hooks its
// transitions into Prometheus.
func newSession(cfg config.CalculatorConfig, engineMetrics *calculator.EngineMetrics) *calculator.Session {
	return calculator.NewSession(observability.Logger.Named("calculator"),
		calculator.WithErrorDisplay(cfg.ErrorDisplay),
		calculator.WithErrorMessages(cfg.DivideByZeroMessage, cfg.OutOfRangeMessage),
		calculator.WithObserver(engineMetrics.Observe),
	)
}

func logConfig(cfg config.Config) {
	observability.Logger.Info("configuration loaded",
		zap.String("http_addr", cfg.HTTP.Addr),
		zap.Duration("error_display", cfg.Calculator.ErrorDisplay),
		zap.String("service_name", cfg.Telemetry.ServiceName),
		zap.Bool("otlp", cfg.Telemetry.OTLP),
	)
}
