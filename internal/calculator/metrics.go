package calculator

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments for the HTTP surface, initialized once via InitMetrics().
var (
	inputCounter    metric.Int64Counter
	inputHistogram  metric.Float64Histogram
	errorCounter    metric.Int64Counter
	subscriberGauge metric.Int64UpDownCounter
)

// InitMetrics registers the OTel instruments used by the calculator handlers.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	inputCounter, err = meter.Int64Counter("calculator.inputs.total",
		metric.WithDescription("Total number of keypad inputs received over HTTP"),
		metric.WithUnit("{input}"),
	)
	if err != nil {
		return fmt.Errorf("creating input counter: %w", err)
	}

	inputHistogram, err = meter.Float64Histogram("calculator.input.duration",
		metric.WithDescription("Time to hand an input to the session and get the display back, in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating input histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.request_errors.total",
		metric.WithDescription("Total number of rejected calculator requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	subscriberGauge, err = meter.Int64UpDownCounter("calculator.display.subscribers",
		metric.WithDescription("Number of open display event streams"),
		metric.WithUnit("{subscriber}"),
	)
	if err != nil {
		return fmt.Errorf("creating subscriber gauge: %w", err)
	}

	return nil
}

// EngineMetrics is an engine Observer that exports transitions to
// Prometheus.
type EngineMetrics struct {
	inputs      *prometheus.CounterVec
	ignored     prometheus.Counter
	errors      *prometheus.CounterVec
	autoClears  prometheus.Counter
	errorActive prometheus.Gauge
}

// NewEngineMetrics creates the collectors and registers them with reg.
func NewEngineMetrics(reg prometheus.Registerer) (*EngineMetrics, error) {
	m := &EngineMetrics{
		inputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calculator",
			Name:      "engine_inputs_total",
			Help:      "Inputs handled by the calculator engine, by kind.",
		}, []string{"kind"}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "calculator",
			Name:      "engine_inputs_ignored_total",
			Help:      "Inputs dropped while the error message was showing.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calculator",
			Name:      "engine_errors_total",
			Help:      "Transient error states entered, by cause.",
		}, []string{"error"}),
		autoClears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "calculator",
			Name:      "engine_auto_clears_total",
			Help:      "Error displays cleared by the timer.",
		}),
		errorActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "calculator",
			Name:      "engine_error_active",
			Help:      "1 while the error message is showing.",
		}),
	}

	for _, c := range []prometheus.Collector{m.inputs, m.ignored, m.errors, m.autoClears, m.errorActive} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering engine metrics: %w", err)
		}
	}
	return m, nil
}

// Observe records one change. Pass it to WithObserver.
func (m *EngineMetrics) Observe(c Change) {
	switch {
	case c.AutoCleared:
		m.autoClears.Inc()
	case c.Ignored:
		m.ignored.Inc()
	default:
		m.inputs.WithLabelValues(c.Input.Kind.String()).Inc()
	}

	if c.Err != nil {
		m.errors.WithLabelValues(errorLabel(c.Err)).Inc()
	}

	if c.Display.ErrorActive {
		m.errorActive.Set(1)
	} else {
		m.errorActive.Set(0)
	}
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, ErrDivideByZero):
		return "divide_by_zero"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	default:
		return "other"
	}
}
