package calculator

import "fmt"

// calculatorKeys are the keyboard keys whose default platform behavior the
// input adapter suppresses.
var calculatorKeys = map[string]struct{}{
	"0": {}, "1": {}, "2": {}, "3": {}, "4": {},
	"5": {}, "6": {}, "7": {}, "8": {}, "9": {},
	"+": {}, "-": {}, "*": {}, "/": {}, "=": {},
	"Enter": {}, "Escape": {}, "Backspace": {},
	".": {}, "c": {}, "C": {},
}

// IsCalculatorKey reports whether key belongs to the keypad.
func IsCalculatorKey(key string) bool {
	_, ok := calculatorKeys[key]
	return ok
}

// ClassifyKey maps a keyboard key name to an Input.
func ClassifyKey(key string) (Input, bool) {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return Input{Kind: KindDigit, Digit: int(key[0] - '0')}, true
	}

	switch key {
	case ".":
		return ActionInput(ActionDecimal), true
	case "+":
		return OperatorInput(OpAdd), true
	case "-":
		return OperatorInput(OpSubtract), true
	case "*":
		return OperatorInput(OpMultiply), true
	case "/":
		return OperatorInput(OpDivide), true
	case "Enter", "=":
		return ActionInput(ActionEquals), true
	case "Escape":
		return ActionInput(ActionAllClear), true
	case "Backspace":
		return ActionInput(ActionDelete), true
	case "c", "C":
		return ActionInput(ActionClear), true
	}
	return Input{}, false
}

// ClassifyButton maps a pressed keypad button, described by its number,
// operator and action attributes, to an Input. The first non-empty attribute
// wins.
func ClassifyButton(number, operator, action string) (Input, error) {
	switch {
	case number != "":
		if len(number) != 1 || number[0] < '0' || number[0] > '9' {
			return Input{}, fmt.Errorf("%w: %q", ErrInvalidDigit, number)
		}
		return Input{Kind: KindDigit, Digit: int(number[0] - '0')}, nil
	case operator != "":
		op, err := ParseOperator(operator)
		if err != nil {
			return Input{}, err
		}
		return OperatorInput(op), nil
	case action != "":
		a, err := ParseAction(action)
		if err != nil {
			return Input{}, err
		}
		return ActionInput(a), nil
	}
	return Input{}, fmt.Errorf("%w: empty button", ErrUnknownAction)
}
