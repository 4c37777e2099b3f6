// Package x11 is the X11 side of the engine: it implements the platform
// adapter, discovery and desktop publishing over xgb/xgbutil and turns X
// events into platform events.
package x11

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
)

// ErrAnotherWM is returned by ManageRoot when the root window already
// has a substructure-redirect client.
var ErrAnotherWM = errors.New("another window manager is running")

// Options configure the adapter.
type Options struct {
	// Display is the X display name; empty uses $DISPLAY.
	Display  string
	Decor    window.Decor
	IconSize int
	// EventBuffer is the capacity of the event channel.
	EventBuffer int
}

// Conn manages the X11 connection and everything the adapter keeps per
// window: frames, icons, stacking levels and windows known to be gone.
type Conn struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	frames  map[platform.WindowID]*frame
	byFrame map[xproto.Window]platform.WindowID
	icons   map[platform.WindowID]xproto.Window
	byIcon  map[xproto.Window]platform.WindowID
	levels  map[platform.WindowID]platform.Level
	gone    map[platform.WindowID]bool
	// ignoreUnmap counts unmap notifications caused by the adapter itself.
	ignoreUnmap map[platform.WindowID]int

	events chan platform.Event
	done   chan struct{}
	once   sync.Once
}

var (
	_ platform.Adapter          = (*Conn)(nil)
	_ platform.Discovery        = (*Conn)(nil)
	_ platform.DesktopPublisher = (*Conn)(nil)
)

// Connect establishes a connection to the X11 server and initializes the
// keybind module.
func Connect(opts Options, logger *slog.Logger) (*Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if opts.Display != "" {
		xu, err = xgbutil.NewConnDisplay(opts.Display)
	} else {
		xu, err = xgbutil.NewConn()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	// Required for global hotkeys.
	keybind.Initialize(xu)

	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 256
	}
	if opts.IconSize <= 0 {
		opts.IconSize = 64
	}
	return &Conn{
		xu:          xu,
		root:        xu.RootWin(),
		opts:        opts,
		logger:      logger.With("package", "x11"),
		frames:      make(map[platform.WindowID]*frame),
		byFrame:     make(map[xproto.Window]platform.WindowID),
		icons:       make(map[platform.WindowID]xproto.Window),
		byIcon:      make(map[xproto.Window]platform.WindowID),
		levels:      make(map[platform.WindowID]platform.Level),
		gone:        make(map[platform.WindowID]bool),
		ignoreUnmap: make(map[platform.WindowID]int),
		events:      make(chan platform.Event, opts.EventBuffer),
		done:        make(chan struct{}),
	}, nil
}

// XUtil returns the underlying xgbutil connection for X11-specific
// operations such as key bindings.
func (c *Conn) XUtil() *xgbutil.XUtil { return c.xu }

// Root returns the root window.
func (c *Conn) Root() xproto.Window { return c.root }

// Events returns the channel translated events are delivered on.
func (c *Conn) Events() <-chan platform.Event { return c.events }

// ManageRoot selects substructure redirection on the root window, which
// makes this connection the window manager, and installs the event
// callbacks.
func (c *Conn) ManageRoot() error {
	err := xproto.ChangeWindowAttributesChecked(c.xu.Conn(), c.root, xproto.CwEventMask,
		[]uint32{
			xproto.EventMaskSubstructureRedirect |
				xproto.EventMaskSubstructureNotify |
				xproto.EventMaskStructureNotify |
				xproto.EventMaskPropertyChange,
		}).Check()
	if err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			return ErrAnotherWM
		}
		return fmt.Errorf("failed to select root events: %w", err)
	}
	if err := c.announce(); err != nil {
		c.logger.Warn("Failed to publish EWMH support", "error", err)
	}
	c.connectRoot()
	return nil
}

// Run starts the main X11 event loop and blocks until ctx is done.
func (c *Conn) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		xevent.Quit(c.xu)
		// Wake the loop so it sees the quit flag.
		if err := ewmh.ClientEvent(c.xu, c.root, "_TILEWM_WAKE"); err != nil {
			c.logger.Debug("wake event failed", "error", err)
		}
	}()
	c.logger.Debug("x event loop started")
	xevent.Main(c.xu)
	c.logger.Debug("x event loop stopped")
	return ctx.Err()
}

// String names the event loop service.
func (c *Conn) String() string { return "x11" }

// Serve runs the event loop; it lets Conn be supervised directly.
func (c *Conn) Serve(ctx context.Context) error { return c.Run(ctx) }

// Close cleanly disconnects from the X11 server.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.xu.Conn().Close()
	})
}

// emit hands ev to the consumer of Events. It gives up once the
// connection is closed.
func (c *Conn) emit(ev platform.Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// rootGeometry is the size of the root window.
func (c *Conn) rootGeometry() (geom.Rect, error) {
	g, err := xproto.GetGeometry(c.xu.Conn(), xproto.Drawable(c.root)).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return geom.Rect{Width: int(g.Width), Height: int(g.Height)}, nil
}
