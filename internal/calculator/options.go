package calculator

import (
	"time"

	"go.uber.org/zap"
)

const (
	DefaultErrorDisplay        = 2 * time.Second
	DefaultDivideByZeroMessage = "Cannot divide by zero"
	DefaultOutOfRangeMessage   = "Out of range"
)

// Timer is a pending one-shot callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. The engine owns every Timer it gets back.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// wallClock fires callbacks on their own goroutine via time.AfterFunc.
type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Observer receives every change the engine makes, after it is applied.
type Observer func(Change)

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets where the error auto-clear is scheduled.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithErrorDisplay sets how long the error message stays up.
func WithErrorDisplay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.errorDisplay = d
		}
	}
}

// WithErrorMessages overrides the texts shown for each domain error. Empty
// strings keep the defaults.
func WithErrorMessages(divideByZero, outOfRange string) Option {
	return func(e *Engine) {
		if divideByZero != "" {
			e.divideByZeroMessage = divideByZero
		}
		if outOfRange != "" {
			e.outOfRangeMessage = outOfRange
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver adds an observer. Observers run synchronously on the goroutine
// that drives the engine.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}
