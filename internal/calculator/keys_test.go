package calculator

import (
	"errors"
	"testing"
)

func TestClassifyKey(t *testing.T) {
	tests := []struct {
		key  string
		want Input
	}{
		{"0", Input{Kind: KindDigit, Digit: 0}},
		{"7", Input{Kind: KindDigit, Digit: 7}},
		{".", ActionInput(ActionDecimal)},
		{"+", OperatorInput(OpAdd)},
		{"-", OperatorInput(OpSubtract)},
		{"*", OperatorInput(OpMultiply)},
		{"/", OperatorInput(OpDivide)},
		{"=", ActionInput(ActionEquals)},
		{"Enter", ActionInput(ActionEquals)},
		{"Escape", ActionInput(ActionAllClear)},
		{"Backspace", ActionInput(ActionDelete)},
		{"c", ActionInput(ActionClear)},
		{"C", ActionInput(ActionClear)},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ClassifyKey(tt.key)
			if !ok {
				t.Fatalf("expected %q to be handled", tt.key)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if !IsCalculatorKey(tt.key) {
				t.Fatalf("expected %q to suppress default behavior", tt.key)
			}
		})
	}
}

func TestClassifyKeyIgnoresOtherKeys(t *testing.T) {
	for _, key := range []string{"a", "F5", "Tab", "12", "", "x", "Delete", "%"} {
		if in, ok := ClassifyKey(key); ok {
			t.Errorf("expected %q to be unhandled, got %v", key, in)
		}
		if IsCalculatorKey(key) {
			t.Errorf("expected %q to keep its default behavior", key)
		}
	}
}

func TestClassifyButton(t *testing.T) {
	tests := []struct {
		name                     string
		number, operator, action string
		want                     Input
	}{
		{"number", "4", "", "", Input{Kind: KindDigit, Digit: 4}},
		{"operator symbol", "", "÷", "", OperatorInput(OpDivide)},
		{"operator alias", "", "*", "", OperatorInput(OpMultiply)},
		{"hyphenated action", "", "", "all-clear", ActionInput(ActionAllClear)},
		{"decimal", "", "", "decimal", ActionInput(ActionDecimal)},
		{"number wins", "9", "+", "equals", Input{Kind: KindDigit, Digit: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyButton(tt.number, tt.operator, tt.action)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassifyButtonErrors(t *testing.T) {
	tests := []struct {
		name                     string
		number, operator, action string
		want                     error
	}{
		{"two digit number", "12", "", "", ErrInvalidDigit},
		{"non-digit number", "a", "", "", ErrInvalidDigit},
		{"unknown operator", "", "%", "", ErrUnknownOperator},
		{"unknown action", "", "", "undo", ErrUnknownAction},
		{"empty button", "", "", "", ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ClassifyButton(tt.number, tt.operator, tt.action); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseOperator(t *testing.T) {
	tests := map[string]Operator{
		"+": OpAdd, "add": OpAdd,
		"-": OpSubtract, "−": OpSubtract, "subtract": OpSubtract,
		"×": OpMultiply, "*": OpMultiply, "x": OpMultiply, "multiply": OpMultiply,
		"÷": OpDivide, "/": OpDivide, " divide ": OpDivide,
	}

	for in, want := range tests {
		got, err := ParseOperator(in)
		if err != nil {
			t.Fatalf("ParseOperator(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseOperator(%q): expected %q, got %q", in, want, got)
		}
	}

	if _, err := ParseOperator("^"); !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestParseAction(t *testing.T) {
	tests := map[string]Action{
		"clear":     ActionClear,
		"allClear":  ActionAllClear,
		"all-clear": ActionAllClear,
		"allclear":  ActionAllClear,
		"delete":    ActionDelete,
		"decimal":   ActionDecimal,
		"equals":    ActionEquals,
	}

	for in, want := range tests {
		got, err := ParseAction(in)
		if err != nil {
			t.Fatalf("ParseAction(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseAction(%q): expected %q, got %q", in, want, got)
		}
	}

	if _, err := ParseAction("Clear"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestDigitInput(t *testing.T) {
	if in, err := DigitInput(3); err != nil || in != (Input{Kind: KindDigit, Digit: 3}) {
		t.Fatalf("expected digit(3), got %v, %v", in, err)
	}
	for _, d := range []int{-1, 10} {
		if _, err := DigitInput(d); !errors.Is(err, ErrInvalidDigit) {
			t.Fatalf("DigitInput(%d): expected ErrInvalidDigit, got %v", d, err)
		}
	}
}

func TestInputString(t *testing.T) {
	tests := map[Input]string{
		{Kind: KindDigit, Digit: 5}: "digit(5)",
		OperatorInput(OpMultiply):   "operator(×)",
		ActionInput(ActionEquals):   "action(equals)",
		{}:                          "none",
	}
	for in, want := range tests {
		if got := in.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
