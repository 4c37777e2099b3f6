package wm

import (
	"context"
	"log/slog"
)

type request struct {
	fn   func(*Engine) error
	done chan error
}

// Loop serializes access to an Engine. Serve runs on one goroutine and is
// the only code that touches the engine; everything else submits closures
// through Do.
type Loop struct {
	engine *Engine
	reqs   chan request
	logger *slog.Logger
	stop   chan struct{}
}

// NewLoop wraps e. The loop does nothing until Serve is called.
func NewLoop(e *Engine, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		engine: e,
		reqs:   make(chan request),
		logger: logger.With("package", "wm", "service", "engine"),
		stop:   make(chan struct{}),
	}
}

func (l *Loop) String() string { return "engine" }

// Do runs fn on the engine goroutine and returns its error. It returns
// ctx's error if ctx ends before fn is picked up; once picked up, fn runs
// to completion.
func (l *Loop) Do(ctx context.Context, fn func(*Engine) error) error {
	req := request{fn: fn, done: make(chan error, 1)}
	select {
	case l.reqs <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stop:
		return ErrLoopStopped
	}
	return <-req.done
}

// Serve processes requests until ctx is done.
func (l *Loop) Serve(ctx context.Context) error {
	l.logger.Debug("engine loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("engine loop stopped")
			return ctx.Err()
		case req := <-l.reqs:
			req.done <- l.run(req.fn)
		}
	}
}

// Close makes pending and future Do calls fail with ErrLoopStopped.
func (l *Loop) Close() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}

func (l *Loop) run(fn func(*Engine) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("engine request panic recovered", "panic", r)
			err = ErrRejected
		}
	}()
	return fn(l.engine)
}
