package calculator

import (
	"math"
	"strings"
	"testing"
)

func TestFormatResult(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{15, "15"},
		{-3, "-3"},
		{2.25, "2.25"},
		{0.30000000000000004, "0.30000000000000004"},
		{1e21, "1000000000000000000000"},
		{math.Copysign(0, -1), "0"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		if got := FormatResult(tt.in); got != tt.want {
			t.Errorf("FormatResult(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestRenderOperand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short text kept verbatim", "123", "123"},
		{"trailing point kept", "0.", "0."},
		{"trailing zeros kept while typing", "1.500", "1.500"},
		{"exactly twelve characters", "123456789012", "123456789012"},
		{"long fraction rounded", "0.30000000000000004", "0.3"},
		{"long value rounded to twelve digits", "3.14159265358979", "3.14159265359"},
		{"large value goes exponential", "1234567890123", "1.234568e+12"},
		{"negative large value", "-1234567890123", "-1.234568e+12"},
		{"tiny value goes exponential", "0.0000001234567", "1.234567e-7"},
		{"fractional trailing zeros dropped", "-12345678.9000", "-12345678.9"},
		{"integer zeros survive", "100000000000.0", "100000000000"},
		{"rounding carry goes exponential", "999999999999.5", "1.000000e+12"},
		{"negative rounding carry", "-999999999999.7", "-1.000000e+12"},
		{"overlong digit run", strings.Repeat("9", 400), "Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderOperand(tt.in); got != tt.want {
				t.Fatalf("RenderOperand(%q): expected %q, got %q", tt.in, tt.want, got)
			}
		})
	}
}

func TestRenderOperandKeepsShortNumbersUnchanged(t *testing.T) {
	for _, in := range []string{"0", "-7", "42.5", "0.000001", "99999999999", "-0.125"} {
		if got := RenderOperand(in); got != in {
			t.Errorf("RenderOperand(%q) changed short operand to %q", in, got)
		}
	}
}

func TestFormatResultShortestRoundTrip(t *testing.T) {
	a, b := 0.1, 0.2
	if got := FormatResult(a + b); got != "0.30000000000000004" {
		t.Fatalf("expected %q, got %q", "0.30000000000000004", got)
	}
}

func TestRenderOperandNeverExceedsDisplayLength(t *testing.T) {
	for _, in := range []string{"999999999999.5", "99999999999.99", "0.99999999999999", "123456789012.9"} {
		if got := RenderOperand(in); len(got) > MaxDisplayLength {
			t.Errorf("RenderOperand(%q) = %q is longer than %d characters", in, got, MaxDisplayLength)
		}
	}
}

func TestParseOperand(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"0.", 0},
		{"-", 0},
		{"", 0},
		{"-0", 0},
		{"12.5", 12.5},
		{"3.", 3},
	}

	for _, tt := range tests {
		if got := parseOperand(tt.in); got != tt.want {
			t.Errorf("parseOperand(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
