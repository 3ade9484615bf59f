package calculator

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors. The engine never returns them; it turns them into the
// transient error display.
var (
	ErrDivideByZero = errors.New("division by zero")
	ErrOutOfRange   = errors.New("result out of range")
)

// Apply evaluates a op b. An operator outside the four keypad operators
// yields b unchanged.
func Apply(a, b float64, op Operator) (float64, error) {
	if !isFinite(a) || !isFinite(b) {
		return 0, fmt.Errorf("%w: %g %s %g", ErrOutOfRange, a, op, b)
	}

	var result float64
	switch op {
	case OpAdd:
		result = a + b
	case OpSubtract:
		result = a - b
	case OpMultiply:
		result = a * b
	case OpDivide:
		if b == 0 {
			return 0, fmt.Errorf("%w: %g / %g", ErrDivideByZero, a, b)
		}
		result = a / b
	default:
		return b, nil
	}

	if !isFinite(result) {
		return 0, fmt.Errorf("%w: %g %s %g", ErrOutOfRange, a, op, b)
	}
	return result, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
