package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/daemon"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/hotkeys"
	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/wm"
	"github.com/1broseidon/tilewm/internal/workspace"
	"github.com/1broseidon/tilewm/internal/x11"
)

// Doer runs a closure on the engine goroutine. *wm.Loop implements it.
type Doer interface {
	Do(ctx context.Context, fn func(*wm.Engine) error) error
}

// Options configure a daemon or a simulation.
type Options struct {
	Config *config.Config
	// SocketPath is where the IPC server listens. Empty disables IPC.
	SocketPath string
	// SessionPath is the session document. Empty disables persistence.
	SessionPath string
	Logger      *slog.Logger
}

// App owns one engine, its loop and the supervisor running the services
// around it.
type App struct {
	opts   Options
	logger *slog.Logger
	engine *wm.Engine
	loop   *wm.Loop
	super  *suture.Supervisor
	ipc    *ipc.Server
	// closers run after the supervisor stopped.
	closers []func()
}

// Loop returns the engine loop.
func (a *App) Loop() *wm.Loop { return a.loop }

// IPC returns the IPC server, nil when disabled.
func (a *App) IPC() *ipc.Server { return a.ipc }

// NewDaemon connects to the X server, takes over window management and
// bootstraps the engine from the existing clients.
func NewDaemon(opts Options) (*App, error) {
	cfg := opts.Config
	logger := loggerOf(opts)
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	wmOpts := wm.OptionsFromConfig(cfg)
	conn, err := x11.Connect(x11.Options{
		Display:  cfg.Display,
		Decor:    wmOpts.Decor,
		IconSize: cfg.Icons.Size,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := conn.ManageRoot(); err != nil {
		conn.Close()
		return nil, err
	}

	a, err := newApp(opts, conn, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	keys := hotkeys.NewHandler(conn, a.loop, logger)
	if err := keys.Bind(cfg.Hotkeys); err != nil {
		conn.Close()
		return nil, err
	}

	Add(a.super, conn)
	Add(a.super, EventPump(conn.Events(), a.loop, logger))
	a.closers = append(a.closers, conn.Close)
	return a, nil
}

// SimOptions configure a headless engine on the recording adapter.
type SimOptions struct {
	Options
	// Heads are laid out as given; the screen is their bounding box.
	Heads []geom.Rect
	// Windows seeds that many clients before bootstrap.
	Windows int
}

// NewSimulation runs the engine against platform.Recorder, with events fed
// through the returned channel.
func NewSimulation(opts SimOptions) (*App, *platform.Recorder, chan<- platform.Event, error) {
	if len(opts.Heads) == 0 {
		opts.Heads = []geom.Rect{{Width: 1920, Height: 1080}}
	}
	screen := BoundingBox(opts.Heads)
	displays := make([]platform.Display, len(opts.Heads))
	for i, r := range opts.Heads {
		displays[i] = platform.Display{ID: i, Name: fmt.Sprintf("sim%d", i), Bounds: r, Usable: r}
	}
	rec := platform.NewRecorder(screen, displays...)
	for i := 0; i < opts.Windows; i++ {
		head := opts.Heads[i%len(opts.Heads)]
		rec.AddClient(platform.Client{
			ID:    platform.WindowID(0x100 + i),
			AppID: fmt.Sprintf("sim-app-%d", i%3),
			Title: fmt.Sprintf("window %d", i+1),
			Bounds: geom.Rect{
				X:      head.X + 40*(i+1),
				Y:      head.Y + 30*(i+1),
				Width:  head.Width / 3,
				Height: head.Height / 3,
			},
		})
	}

	a, err := newApp(opts.Options, rec, rec)
	if err != nil {
		return nil, nil, nil, err
	}
	events := make(chan platform.Event, 64)
	Add(a.super, EventPump(events, a.loop, a.logger))
	return a, rec, events, nil
}

func loggerOf(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}

// newApp builds the engine and the services every mode shares: the engine
// loop, IPC and the reconciler.
func newApp(opts Options, adapter platform.Adapter, discovery platform.Discovery) (*App, error) {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	logger := loggerOf(opts)

	session := &workspace.Session{}
	if opts.SessionPath != "" {
		doc, err := workspace.ReadSession(opts.SessionPath)
		if err != nil {
			// A broken session must not keep the window manager from starting.
			logger.Warn("Ignoring unreadable session", "path", opts.SessionPath, "error", err)
		} else {
			session = doc
		}
	}

	bus := notify.NewBus(logger)
	subscribeLogging(bus, logger)

	engine := wm.New(adapter, bus, logger, wm.OptionsFromConfig(opts.Config))
	if _, err := engine.Bootstrap(discovery, session); err != nil {
		return nil, err
	}
	loop := wm.NewLoop(engine, logger)

	a := &App{
		opts:   opts,
		logger: logger,
		engine: engine,
		loop:   loop,
		super:  NewSupervisor("tilewm", logger),
	}
	Add(a.super, loop)

	if opts.SocketPath != "" {
		srv, err := ipc.NewServer(ipc.ServerConfig{
			SocketPath:  opts.SocketPath,
			SessionPath: opts.SessionPath,
			Logger:      logger,
		}, loop)
		if err != nil {
			return nil, err
		}
		a.ipc = srv
		Add(a.super, srv)
	}

	Add(a.super, daemon.NewReconciler(daemon.ReconcilerConfig{
		SessionPath:      opts.SessionPath,
		AutosaveInterval: opts.Config.Session.AutosaveInterval,
		Logger:           logger,
	}, loop))
	return a, nil
}

// Run serves every service until ctx ends, then writes the session
// document one last time.
func (a *App) Run(ctx context.Context) error {
	err := a.super.Serve(ctx)
	a.loop.Close()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if saveErr := a.saveSession(); saveErr != nil {
		a.logger.Warn("Final session save failed", "path", a.opts.SessionPath, "error", saveErr)
	}
	for _, c := range a.closers {
		c()
	}
	return err
}

// saveSession runs after the supervisor stopped, so no loop goroutine
// touches the engine anymore.
func (a *App) saveSession() error {
	if a.opts.SessionPath == "" {
		return nil
	}
	doc := a.engine.SaveSessions()
	if doc == nil {
		return nil
	}
	if err := workspace.WriteSession(a.opts.SessionPath, doc); err != nil {
		return err
	}
	a.logger.Info("Session saved", "path", a.opts.SessionPath, "workspaces", len(doc.Workspaces))
	return nil
}

// EventPump forwards display-server events to the engine in arrival order.
func EventPump(events <-chan platform.Event, loop Doer, logger *slog.Logger) Service {
	return NewServiceFunc("events", func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-events:
				if !ok {
					return suture.ErrDoNotRestart
				}
				err := loop.Do(ctx, func(e *wm.Engine) error { return e.HandleEvent(ev) })
				if err == nil {
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if errors.Is(err, wm.ErrLoopStopped) {
					return suture.ErrDoNotRestart
				}
				logger.Debug("Event rejected", "event", ev.Kind, "window", ev.Window, "error", err)
			}
		}
	})
}

// subscribeLogging mirrors engine notifications into the debug log.
func subscribeLogging(bus *notify.Bus, logger *slog.Logger) {
	notify.Subscribe(bus, "log", func(ev notify.StateChanged) error {
		logger.Debug("window state changed", "window", ev.Window, "reason", ev.Reason)
		return nil
	})
	notify.Subscribe(bus, "log", func(ev notify.WorkspaceChanged) error {
		logger.Debug("workspace changed", "screen", ev.Screen, "from", ev.Previous, "to", ev.Index)
		return nil
	})
}

// BoundingBox is the smallest rect holding every rect in rs.
func BoundingBox(rs []geom.Rect) geom.Rect {
	if len(rs) == 0 {
		return geom.Rect{}
	}
	minX, minY := rs[0].X, rs[0].Y
	maxX, maxY := rs[0].Right(), rs[0].Bottom()
	for _, r := range rs[1:] {
		minX, minY = min(minX, r.X), min(minY, r.Y)
		maxX, maxY = max(maxX, r.Right()), max(maxY, r.Bottom())
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
