package calculator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionStopped    = errors.New("calculator session stopped")
	ErrSessionNotStarted = errors.New("calculator session not started")
)

const (
	sessionQueueSize     = 64
	subscriberBufferSize = 16
)

// Session owns one Engine and runs every access to it, including the error
// auto-clear, on a single goroutine. It is safe for concurrent use.
type Session struct {
	id     string
	engine *Engine
	logger *zap.Logger

	calls   chan func()
	done    chan struct{}
	exited  chan struct{}
	started atomic.Bool
	stop    sync.Once

	// Owned by the loop goroutine.
	subscribers map[int]chan Display
	nextSub     int
}

// NewSession creates a session around a new engine configured by opts.
func NewSession(logger *zap.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		id:          uuid.NewString(),
		calls:       make(chan func(), sessionQueueSize),
		done:        make(chan struct{}),
		exited:      make(chan struct{}),
		subscribers: make(map[int]chan Display),
	}
	s.logger = logger.With(zap.String("session_id", s.id))

	all := make([]Option, 0, len(opts)+3)
	all = append(all, WithLogger(s.logger))
	all = append(all, opts...)
	all = append(all,
		WithScheduler(SchedulerFunc(s.afterFunc)),
		WithObserver(s.publish),
	)
	s.engine = NewEngine(all...)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Start launches the event loop. It stops when ctx is done or Stop is
// called. Starting twice is a no-op.
func (s *Session) Start(ctx context.Context) error {
	select {
	case <-s.done:
		return ErrSessionStopped
	default:
	}
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	go s.loop(ctx)
	s.logger.Info("calculator session started")
	return nil
}

// Stop shuts the loop down and waits for it to exit. Safe to call more than
// once.
func (s *Session) Stop() error {
	s.stop.Do(func() {
		close(s.done)
	})
	if s.started.Load() {
		<-s.exited
	}
	return nil
}

func (s *Session) loop(ctx context.Context) {
	defer close(s.exited)
	defer s.closeSubscribers()

	for {
		select {
		case fn := <-s.calls:
			fn()
		case <-ctx.Done():
			s.stop.Do(func() {
				close(s.done)
			})
			s.logger.Info("calculator session stopped", zap.Error(ctx.Err()))
			return
		case <-s.done:
			s.logger.Info("calculator session stopped")
			return
		}
	}
}

// Submit hands an input to the engine and returns the resulting projection.
func (s *Session) Submit(ctx context.Context, in Input) (Display, error) {
	var d Display
	err := s.do(ctx, func() {
		s.engine.Submit(in)
		d = s.engine.Display()
	})
	return d, err
}

// Display returns the current projection.
func (s *Session) Display(ctx context.Context) (Display, error) {
	var d Display
	err := s.do(ctx, func() {
		d = s.engine.Display()
	})
	return d, err
}

// Subscribe returns a channel that receives the current projection followed
// by one projection per change. A subscriber that falls behind loses
// intermediate frames but always gets the latest. The channel is closed by
// cancel or when the session stops.
func (s *Session) Subscribe(ctx context.Context) (<-chan Display, func(), error) {
	var (
		id int
		ch chan Display
	)
	err := s.do(ctx, func() {
		id = s.nextSub
		s.nextSub++
		ch = make(chan Display, subscriberBufferSize)
		ch <- s.engine.Display()
		s.subscribers[id] = ch
	})
	if err != nil {
		return nil, func() {}, err
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = s.do(context.Background(), func() {
				if sub, ok := s.subscribers[id]; ok {
					delete(s.subscribers, id)
					close(sub)
				}
			})
		})
	}
	return ch, cancel, nil
}

// do runs fn on the loop goroutine and waits for it to finish.
func (s *Session) do(ctx context.Context, fn func()) error {
	if !s.started.Load() {
		return ErrSessionNotStarted
	}
	select {
	case <-s.done:
		return ErrSessionStopped
	default:
	}

	finished := make(chan struct{})
	call := func() {
		fn()
		close(finished)
	}

	select {
	case s.calls <- call:
	case <-s.done:
		return ErrSessionStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrSessionStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// afterFunc schedules f onto the loop instead of running it on the timer's
// goroutine.
func (s *Session) afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		select {
		case s.calls <- f:
		case <-s.done:
		}
	})
}

// publish fans a change out to subscribers. Runs on the loop goroutine.
func (s *Session) publish(c Change) {
	for _, ch := range s.subscribers {
		select {
		case ch <- c.Display:
			continue
		default:
		}
		// Full: drop the oldest frame so the newest one gets through.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c.Display:
		default:
		}
	}
}

func (s *Session) closeSubscribers() {
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
