package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigFile, EnvHTTPAddr, EnvErrorDisplay, EnvLogLevel, EnvOTLPEnabled, EnvServiceName} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calculator.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	if cfg != want {
		t.Fatalf("expected defaults %+v, got %+v", want, cfg)
	}
	if cfg.Calculator.ErrorDisplay != 2*time.Second {
		t.Fatalf("expected 2s error display, got %s", cfg.Calculator.ErrorDisplay)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
http:
  addr: ":9090"
calculator:
  error_display: 500ms
  divide_by_zero_message: "Nope"
telemetry:
  log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %q", cfg.HTTP.Addr)
	}
	if cfg.Calculator.ErrorDisplay != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %s", cfg.Calculator.ErrorDisplay)
	}
	if cfg.Calculator.DivideByZeroMessage != "Nope" {
		t.Fatalf("expected message %q, got %q", "Nope", cfg.Calculator.DivideByZeroMessage)
	}
	if cfg.Calculator.OutOfRangeMessage != "Out of range" {
		t.Fatalf("expected default out-of-range message, got %q", cfg.Calculator.OutOfRangeMessage)
	}
	if cfg.HTTP.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.HTTP.ShutdownTimeout)
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "http:\n  addr: \":9090\"\n")
	t.Setenv(EnvHTTPAddr, ":7070")
	t.Setenv(EnvErrorDisplay, "3s")
	t.Setenv(EnvOTLPEnabled, "true")
	t.Setenv(EnvServiceName, "keypad")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("expected env addr :7070, got %q", cfg.HTTP.Addr)
	}
	if cfg.Calculator.ErrorDisplay != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.Calculator.ErrorDisplay)
	}
	if !cfg.Telemetry.OTLP {
		t.Fatal("expected OTLP enabled")
	}
	if cfg.Telemetry.ServiceName != "keypad" {
		t.Fatalf("expected service name keypad, got %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown field",
			file:    "calculator:\n  precision: 20\n",
			wantErr: "yaml decode",
		},
		{
			name:    "bad duration env",
			env:     map[string]string{EnvErrorDisplay: "soon"},
			wantErr: EnvErrorDisplay,
		},
		{
			name:    "bad bool env",
			env:     map[string]string{EnvOTLPEnabled: "maybe"},
			wantErr: EnvOTLPEnabled,
		},
		{
			name:    "non-positive error display",
			file:    "calculator:\n  error_display: 0s\n",
			wantErr: "calculator.error_display",
		},
		{
			name:    "unknown log level",
			env:     map[string]string{EnvLogLevel: "chatty"},
			wantErr: "telemetry.log_level",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.file != "" {
				path = writeConfig(t, tc.file)
			}

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromEnvUsesConfigFileVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, writeConfig(t, "http:\n  addr: \":6060\"\n"))

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.HTTP.Addr != ":6060" {
		t.Fatalf("expected addr :6060, got %q", cfg.HTTP.Addr)
	}
}
