package calculator

// DigitRequest is the JSON body for POST /calculator/digit.
type DigitRequest struct {
	Digit *int `json:"digit"` // 0-9; required
}

// OperatorRequest is the JSON body for POST /calculator/operator.
type OperatorRequest struct {
	Operator string `json:"operator"` // "+", "-", "×", "÷" or an alias such as "*" or "divide"
}

// ActionRequest is the JSON body for POST /calculator/action.
type ActionRequest struct {
	Action string `json:"action"` // "clear", "allClear", "delete", "decimal", "equals"
}

// ButtonRequest mirrors the data attributes of a keypad button. Exactly one
// field is expected to be set.
type ButtonRequest struct {
	Number   string `json:"number,omitempty"`
	Operator string `json:"operator,omitempty"`
	Action   string `json:"action,omitempty"`
}

// KeyRequest is the JSON body for POST /calculator/key.
type KeyRequest struct {
	Key string `json:"key"` // keyboard key name, e.g. "7", "*", "Enter", "Backspace"
}

// KeyResponse reports whether the key drove the calculator and whether the
// client should suppress the key's default behavior.
type KeyResponse struct {
	Handled        bool    `json:"handled"`
	PreventDefault bool    `json:"prevent_default"`
	Display        Display `json:"display"`
}
