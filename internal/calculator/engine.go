package calculator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// State is the calculator's editable state. PreviousOperand is meaningful
// only while HasPrevious is set, and HasPrevious is set iff Operation is not
// OpNone.
type State struct {
	CurrentOperand    string
	PreviousOperand   float64
	HasPrevious       bool
	Operation         Operator
	WaitingForOperand bool
	History           string
}

// Display is the read-only projection consumed by the rendering layer.
type Display struct {
	CurrentText         string   `json:"current_text"`
	HistoryText         string   `json:"history_text"`
	ErrorActive         bool     `json:"error_active"`
	HighlightedOperator Operator `json:"highlighted_operator"`
}

// Change describes one handled event. Input is zero for the auto-clear.
type Change struct {
	Input       Input
	Display     Display
	Err         error
	Ignored     bool
	AutoCleared bool
}

func initialState() State {
	return State{CurrentOperand: "0"}
}

// Engine is the keypad state machine. It is not safe for concurrent use:
// with the default scheduler the error auto-clear fires on its own
// goroutine, so concurrent callers should drive the engine through a Session.
type Engine struct {
	state       State
	highlighted Operator

	errorActive  bool
	errorText    string
	errorGen     uint64
	pendingClear Timer

	scheduler           Scheduler
	errorDisplay        time.Duration
	divideByZeroMessage string
	outOfRangeMessage   string
	logger              *zap.Logger
	observers           []Observer
}

// NewEngine creates an engine in its initial state.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		state:               initialState(),
		scheduler:           wallClock{},
		errorDisplay:        DefaultErrorDisplay,
		divideByZeroMessage: DefaultDivideByZeroMessage,
		outOfRangeMessage:   DefaultOutOfRangeMessage,
		logger:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

// ErrorActive reports whether the transient error message is showing.
func (e *Engine) ErrorActive() bool {
	return e.errorActive
}

// Display projects the state for rendering.
func (e *Engine) Display() Display {
	d := Display{
		CurrentText:         RenderOperand(e.state.CurrentOperand),
		HistoryText:         e.state.History,
		ErrorActive:         e.errorActive,
		HighlightedOperator: e.highlighted,
	}
	if e.errorActive {
		d.CurrentText = e.errorText
	}
	return d
}

// Submit dispatches a classified input.
func (e *Engine) Submit(in Input) {
	switch in.Kind {
	case KindDigit:
		e.SubmitDigit(in.Digit)
	case KindOperator:
		e.SubmitOperator(in.Operator)
	case KindAction:
		e.SubmitAction(in.Action)
	default:
		e.logger.Debug("ignoring unclassified input", zap.Stringer("input", in))
	}
}

// SubmitDigit types d. Values outside 0-9 are ignored.
func (e *Engine) SubmitDigit(d int) {
	in := Input{Kind: KindDigit, Digit: d}
	if d < 0 || d > 9 {
		e.logger.Debug("ignoring digit out of range", zap.Int("digit", d))
		return
	}
	if e.errorActive {
		e.ignore(in)
		return
	}

	digit := string(rune('0' + d))
	s := &e.state
	switch {
	case s.WaitingForOperand:
		s.CurrentOperand = digit
		s.WaitingForOperand = false
	case s.CurrentOperand == "0":
		s.CurrentOperand = digit
	case s.CurrentOperand == "-0":
		s.CurrentOperand = "-" + digit
	default:
		s.CurrentOperand += digit
	}
	e.notify(Change{Input: in})
}

// SubmitDecimalPoint types a decimal point; a second point is a no-op.
func (e *Engine) SubmitDecimalPoint() {
	in := ActionInput(ActionDecimal)
	if e.errorActive {
		e.ignore(in)
		return
	}

	s := &e.state
	switch {
	case s.WaitingForOperand:
		s.CurrentOperand = "0."
		s.WaitingForOperand = false
	case !strings.Contains(s.CurrentOperand, "."):
		s.CurrentOperand += "."
	}
	e.notify(Change{Input: in})
}

// SubmitOperator records op as the pending operation, first evaluating any
// operation already pending.
func (e *Engine) SubmitOperator(op Operator) {
	in := OperatorInput(op)
	if e.errorActive {
		e.ignore(in)
		return
	}

	s := &e.state
	input := parseOperand(s.CurrentOperand)
	if !isFinite(input) {
		e.fail(in, fmt.Errorf("%w: operand %s", ErrOutOfRange, FormatResult(input)))
		return
	}

	if !s.HasPrevious {
		s.PreviousOperand = input
		s.HasPrevious = true
	} else {
		result, err := Apply(s.PreviousOperand, input, s.Operation)
		if err != nil {
			e.fail(in, err)
			return
		}
		s.CurrentOperand = FormatResult(result)
		s.PreviousOperand = result
	}

	s.Operation = op
	s.WaitingForOperand = true
	s.History = fmt.Sprintf("%s %s", FormatResult(s.PreviousOperand), op)
	e.highlighted = op
	e.notify(Change{Input: in})
}

// SubmitAction runs an editing or evaluation action. Any action other than
// the decimal point, which is entry like a digit, dismisses a showing error
// first.
func (e *Engine) SubmitAction(a Action) {
	if a == ActionDecimal {
		e.SubmitDecimalPoint()
		return
	}

	in := ActionInput(a)
	if e.errorActive {
		e.dismissError()
	}

	switch a {
	case ActionClear:
		e.state.CurrentOperand = "0"
	case ActionAllClear:
		e.allClear()
	case ActionDelete:
		e.deleteLast()
	case ActionEquals:
		if !e.equals(in) {
			return
		}
	default:
		e.logger.Debug("ignoring unknown action", zap.String("action", string(a)))
	}
	e.notify(Change{Input: in})
}

// equals evaluates the pending operation. It reports false when the
// evaluation failed and the change was already published.
func (e *Engine) equals(in Input) bool {
	s := &e.state
	if !s.HasPrevious {
		return true
	}

	input := parseOperand(s.CurrentOperand)
	result, err := Apply(s.PreviousOperand, input, s.Operation)
	if err != nil {
		e.fail(in, err)
		return false
	}

	s.History = fmt.Sprintf("%s %s %s =", FormatResult(s.PreviousOperand), s.Operation, FormatResult(input))
	s.CurrentOperand = FormatResult(result)
	s.PreviousOperand = 0
	s.HasPrevious = false
	s.Operation = OpNone
	s.WaitingForOperand = true
	e.highlighted = OpNone
	return true
}

func (e *Engine) deleteLast() {
	s := &e.state
	t := s.CurrentOperand
	if len(t) > 0 {
		t = t[:len(t)-1]
	}
	if t == "" || t == "-" {
		t = "0"
	}
	s.CurrentOperand = t
}

func (e *Engine) allClear() {
	e.state = initialState()
	e.highlighted = OpNone
}

// fail enters the transient error state. The state itself is left as it was
// before the failing input.
func (e *Engine) fail(in Input, err error) {
	e.stopPendingClear()

	e.errorActive = true
	e.errorText = e.messageFor(err)
	e.errorGen++
	gen := e.errorGen
	e.pendingClear = e.scheduler.AfterFunc(e.errorDisplay, func() {
		e.expire(gen)
	})

	e.logger.Warn("calculator error",
		zap.Stringer("input", in),
		zap.Error(err),
		zap.Duration("clears_in", e.errorDisplay),
	)
	e.notify(Change{Input: in, Err: err})
}

// expire is the auto-clear. A timer from an error that was already
// dismissed or replaced finds a different generation and does nothing.
func (e *Engine) expire(gen uint64) {
	if !e.errorActive || gen != e.errorGen {
		return
	}
	e.pendingClear = nil
	e.errorActive = false
	e.errorText = ""
	e.allClear()

	e.logger.Debug("error display expired")
	e.notify(Change{AutoCleared: true})
}

func (e *Engine) dismissError() {
	e.stopPendingClear()
	e.errorGen++
	e.errorActive = false
	e.errorText = ""
	e.allClear()
}

func (e *Engine) stopPendingClear() {
	if e.pendingClear != nil {
		e.pendingClear.Stop()
		e.pendingClear = nil
	}
}

func (e *Engine) messageFor(err error) string {
	if errors.Is(err, ErrDivideByZero) {
		return e.divideByZeroMessage
	}
	return e.outOfRangeMessage
}

func (e *Engine) ignore(in Input) {
	e.logger.Debug("input ignored while error is showing", zap.Stringer("input", in))
	e.notify(Change{Input: in, Ignored: true})
}

func (e *Engine) notify(c Change) {
	if len(e.observers) == 0 {
		return
	}
	c.Display = e.Display()
	for _, o := range e.observers {
		o(c)
	}
}
