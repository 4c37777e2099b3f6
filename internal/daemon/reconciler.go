// Package daemon holds the periodic background passes the window manager
// runs next to the event-driven engine.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/tilewm/internal/wm"
	"github.com/1broseidon/tilewm/internal/workspace"
)

// Doer runs a closure on the engine goroutine. *wm.Loop implements it.
type Doer interface {
	Do(ctx context.Context, fn func(*wm.Engine) error) error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	// SessionPath and AutosaveInterval enable session autosave. A zero
	// interval disables it.
	SessionPath      string
	AutosaveInterval time.Duration
	Logger           *slog.Logger
}

// Reconciler periodically drops windows whose clients vanished without a
// destroy event and autosaves the session document.
type Reconciler struct {
	interval    time.Duration
	autosave    time.Duration
	sessionPath string
	loop        Doer
	logger      *slog.Logger
	lastSave    time.Time
	now         func() time.Time
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, loop Doer) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		interval:    interval,
		autosave:    cfg.AutosaveInterval,
		sessionPath: cfg.SessionPath,
		loop:        loop,
		logger:      logger.With("package", "daemon"),
		now:         time.Now,
	}
}

func (r *Reconciler) String() string { return "reconciler" }

// Serve starts the reconciliation loop. Blocks until ctx is cancelled.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.lastSave = r.now()
	r.logger.Info("reconciler started", "interval", r.interval, "autosave", r.autosave)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.ReconcileNow(ctx)
		}
	}
}

// ReconcileNow performs a single reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	err := r.loop.Do(ctx, func(e *wm.Engine) error {
		if n := e.Reap(); n > 0 {
			r.logger.Info("reconciler: dropped vanished windows", "count", n)
		}
		return nil
	})
	if err != nil {
		r.logger.Debug("reconciler: reap skipped", "error", err)
		return
	}

	if r.autosave > 0 && r.sessionPath != "" && r.now().Sub(r.lastSave) >= r.autosave {
		if err := r.save(ctx); err != nil {
			r.logger.Warn("reconciler: session autosave failed", "path", r.sessionPath, "error", err)
			return
		}
		r.lastSave = r.now()
	}
}

// save writes the session document of the first screen. Encoding happens
// on the engine goroutine so the document cannot change underneath it.
func (r *Reconciler) save(ctx context.Context) error {
	return r.loop.Do(ctx, func(e *wm.Engine) error {
		doc := e.SaveSessions()
		if doc == nil {
			return nil
		}
		if err := workspace.WriteSession(r.sessionPath, doc); err != nil {
			return err
		}
		r.logger.Debug("session saved", "path", r.sessionPath, "workspaces", len(doc.Workspaces))
		return nil
	})
}
