// Package config loads the service configuration: built-in defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfigFile   = "CALC_CONFIG_FILE"
	EnvDotEnvFile   = "CALC_ENV_FILE"
	EnvHTTPAddr     = "CALC_HTTP_ADDR"
	EnvErrorDisplay = "CALC_ERROR_DISPLAY"
	EnvLogLevel     = "CALC_LOG_LEVEL"
	EnvOTLPEnabled  = "CALC_OTLP_ENABLED"
	EnvServiceName  = "OTEL_SERVICE_NAME"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type CalculatorConfig struct {
	// ErrorDisplay is how long an error message stays up before the
	// calculator resets itself.
	ErrorDisplay        time.Duration `yaml:"error_display"`
	DivideByZeroMessage string        `yaml:"divide_by_zero_message"`
	OutOfRangeMessage   string        `yaml:"out_of_range_message"`
}

type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"`
	// OTLP turns on trace, metric and log export. Endpoints come from the
	// standard OTEL_EXPORTER_OTLP_* variables.
	OTLP bool `yaml:"otlp"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Calculator: CalculatorConfig{
			ErrorDisplay:        2 * time.Second,
			DivideByZeroMessage: "Cannot divide by zero",
			OutOfRangeMessage:   "Out of range",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "calculator",
			LogLevel:    "info",
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by path
// (skipped when empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromEnv is Load with the file path taken from CALC_CONFIG_FILE.
func LoadFromEnv() (Config, error) {
	return Load(os.Getenv(EnvConfigFile))
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("yaml decode %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHTTPAddr); ok && v != "" {
		c.HTTP.Addr = v
	}
	if v, ok := lookup(EnvErrorDisplay); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvErrorDisplay, err)
		}
		c.Calculator.ErrorDisplay = d
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Telemetry.LogLevel = v
	}
	if v, ok := lookup(EnvOTLPEnabled); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvOTLPEnabled, err)
		}
		c.Telemetry.OTLP = b
	}
	if v, ok := lookup(EnvServiceName); ok && v != "" {
		c.Telemetry.ServiceName = v
	}
	return nil
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("http.shutdown_timeout must be positive, got %s", c.HTTP.ShutdownTimeout)
	}
	if c.Calculator.ErrorDisplay <= 0 {
		return fmt.Errorf("calculator.error_display must be positive, got %s", c.Calculator.ErrorDisplay)
	}
	if c.Telemetry.ServiceName == "" {
		return errors.New("telemetry.service_name is required")
	}
	if _, err := zapcore.ParseLevel(c.Telemetry.LogLevel); err != nil {
		return fmt.Errorf("telemetry.log_level: %w", err)
	}
	return nil
}
