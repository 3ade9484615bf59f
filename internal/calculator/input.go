package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// Operator is one of the four keypad operators. The empty Operator means no
// operation is pending.
type Operator string

const (
	OpNone     Operator = ""
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "×"
	OpDivide   Operator = "÷"
)

// Action is an editing or evaluation key.
type Action string

const (
	ActionClear    Action = "clear"
	ActionAllClear Action = "allClear"
	ActionDelete   Action = "delete"
	ActionDecimal  Action = "decimal"
	ActionEquals   Action = "equals"
)

// InputKind classifies an Input.
type InputKind int

const (
	KindDigit InputKind = iota + 1
	KindOperator
	KindAction
)

func (k InputKind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindOperator:
		return "operator"
	case KindAction:
		return "action"
	default:
		return "none"
	}
}

// Input is a classified keypad event as delivered by an input adapter.
type Input struct {
	Kind     InputKind
	Digit    int
	Operator Operator
	Action   Action
}

var (
	ErrInvalidDigit    = errors.New("digit out of range")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrUnknownAction   = errors.New("unknown action")
)

// DigitInput returns a digit Input. d must be within 0-9.
func DigitInput(d int) (Input, error) {
	if d < 0 || d > 9 {
		return Input{}, fmt.Errorf("%w: %d", ErrInvalidDigit, d)
	}
	return Input{Kind: KindDigit, Digit: d}, nil
}

func OperatorInput(op Operator) Input {
	return Input{Kind: KindOperator, Operator: op}
}

func ActionInput(a Action) Input {
	return Input{Kind: KindAction, Action: a}
}

// String renders the input the way it appears in logs.
func (in Input) String() string {
	switch in.Kind {
	case KindDigit:
		return fmt.Sprintf("digit(%d)", in.Digit)
	case KindOperator:
		return fmt.Sprintf("operator(%s)", in.Operator)
	case KindAction:
		return fmt.Sprintf("action(%s)", in.Action)
	default:
		return "none"
	}
}

// ParseOperator accepts the keypad symbols plus their keyboard and
// spelled-out aliases.
func ParseOperator(s string) (Operator, error) {
	switch strings.TrimSpace(s) {
	case "+", "add":
		return OpAdd, nil
	case "-", "−", "subtract":
		return OpSubtract, nil
	case "×", "*", "x", "multiply":
		return OpMultiply, nil
	case "÷", "/", "divide":
		return OpDivide, nil
	default:
		return OpNone, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
	}
}

// ParseAction accepts the action names, including the "all-clear" spelling
// used by the keypad markup.
func ParseAction(s string) (Action, error) {
	switch strings.TrimSpace(s) {
	case "clear":
		return ActionClear, nil
	case "allClear", "all-clear", "allclear":
		return ActionAllClear, nil
	case "delete":
		return ActionDelete, nil
	case "decimal":
		return ActionDecimal, nil
	case "equals":
		return ActionEquals, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}
