package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// MaxDisplayLength is the longest operand text shown verbatim.
	MaxDisplayLength = 12

	displayPrecision    = 12
	exponentialDigits   = 6
	exponentialHighMark = 1e12
	exponentialLowMark  = 1e-6
)

// FormatResult renders a computed value as editable operand text: the
// shortest decimal that round-trips, never in exponent form.
func FormatResult(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	case v == 0:
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderOperand clamps operand text for the display. Text of up to
// MaxDisplayLength characters is returned as is; longer text is reformatted
// from its numeric value. The stored operand is never touched.
func RenderOperand(text string) string {
	if len(text) <= MaxDisplayLength {
		return text
	}

	v := parseOperand(text)
	if !isFinite(v) {
		return FormatResult(v)
	}

	abs := math.Abs(v)
	if abs >= exponentialHighMark || (abs != 0 && abs < exponentialLowMark) {
		return formatExponential(v, exponentialDigits)
	}
	return formatSignificant(v, displayPrecision)
}

// formatExponential writes d.dddddde±x with an unpadded exponent.
func formatExponential(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'e', digits, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + sign + exp
}

// formatSignificant rounds v to the given number of significant digits in
// fixed notation and drops fractional trailing zeros.
func formatSignificant(v float64, precision int) string {
	if v == 0 {
		return "0"
	}

	// Round first so a carry (9.99… -> 10) moves the exponent.
	e := strconv.FormatFloat(v, 'e', precision-1, 64)
	_, expText, _ := strings.Cut(e, "e")
	exp, err := strconv.Atoi(expText)
	if err != nil {
		return e
	}
	if exp >= precision {
		return formatExponential(v, exponentialDigits)
	}

	decimals := precision - 1 - exp
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// parseOperand reads operand text as a number. Partial text such as "0." or
// "-" is read leniently; an overlong digit run yields ±Inf.
func parseOperand(text string) float64 {
	t := strings.TrimSuffix(text, ".")
	if t == "" || t == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return v
		}
		return 0
	}
	return v
}
