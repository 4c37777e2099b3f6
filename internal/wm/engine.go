// Package wm is the window-state engine. An Engine owns one Screen per
// virtual screen; every transition is a method on Screen and runs to
// completion on the engine goroutine (see Loop).
package wm

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/heads"
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
	"github.com/1broseidon/tilewm/internal/workspace"
)

// Engine is the context object every transition runs against.
type Engine struct {
	adapter platform.Adapter
	bus     *notify.Bus
	logger  *slog.Logger
	opts    Options

	screens []*Screen
	// oldScreen is the screen that last changed focus.
	oldScreen int
	startup   bool
}

// New creates an engine without screens.
func New(adapter platform.Adapter, bus *notify.Bus, logger *slog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if bus == nil {
		bus = notify.NewBus(logger)
	}
	return &Engine{
		adapter: adapter,
		bus:     bus,
		logger:  logger.With("package", "wm"),
		opts:    opts,
	}
}

func (e *Engine) Bus() *notify.Bus          { return e.bus }
func (e *Engine) Options() Options          { return e.opts }
func (e *Engine) Adapter() platform.Adapter { return e.adapter }
func (e *Engine) Screens() []*Screen        { return e.screens }
func (e *Engine) OldScreen() int            { return e.oldScreen }

// Screen returns screen i, or nil.
func (e *Engine) Screen(i int) *Screen {
	if i < 0 || i >= len(e.screens) {
		return nil
	}
	return e.screens[i]
}

// SetStartup marks the startup phase. Workspace changes are ignored and
// pending events are not pumped while it is set.
func (e *Engine) SetStartup(on bool) { e.startup = on }

// AddScreen creates a virtual screen over layout. session may be nil; it
// seeds the clips of workspaces created later.
func (e *Engine) AddScreen(layout heads.Layout, session *workspace.Session) (*Screen, error) {
	margins := e.opts.Margins
	margins.IconSize = e.opts.iconSize()
	margins.DockTile = dockTile(layout, margins)

	s := &Screen{
		e:          e,
		index:      len(e.screens),
		windows:    window.NewRegistry(),
		workspaces: workspace.NewList(e.opts.Workspaces),
		heads:      heads.NewResolver(layout, e.adapter, margins),
		session:    session,
		apps:       make(map[string]*app),
	}
	n := max(e.opts.Initial, 1)
	for i := 0; i < n; i++ {
		if _, err := s.workspaces.New(s.session.SeedClip()); err != nil {
			return nil, fmt.Errorf("screen %d: %w", s.index, err)
		}
	}
	e.screens = append(e.screens, s)
	s.publishDesktops()
	return s, nil
}

// dockTile is the dock's main tile: one icon in the top corner of the
// primary head on the dock's side.
func dockTile(layout heads.Layout, m heads.Margins) geom.Rect {
	if !m.DockEnabled {
		return geom.Rect{}
	}
	area := layout.Screen
	if layout.Primary >= 0 && layout.Primary < len(layout.Heads) {
		area = layout.Heads[layout.Primary].Bounds
	}
	x := area.X
	if m.DockOnRight {
		x = area.Right() - m.IconSize
	}
	return geom.Rect{X: x, Y: area.Y, Width: m.IconSize, Height: m.IconSize}
}

// LayoutFromDisplays builds a head layout from discovered displays.
func LayoutFromDisplays(displays []platform.Display, screen geom.Rect) heads.Layout {
	if len(displays) == 0 {
		return heads.SingleHead(screen)
	}
	layout := heads.Layout{Screen: screen}
	for _, d := range displays {
		layout.Heads = append(layout.Heads, heads.Head{ID: d.ID, Name: d.Name, Bounds: d.Bounds, Usable: d.Usable})
	}
	return layout
}

// Bootstrap creates the first screen from what the display server reports
// and manages the existing clients. It runs with the startup flag set.
func (e *Engine) Bootstrap(d platform.Discovery, session *workspace.Session) (*Screen, error) {
	displays, screen, err := d.Displays()
	if err != nil {
		return nil, fmt.Errorf("failed to list displays: %w", err)
	}
	clients, err := d.Clients()
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	e.startup = true
	defer func() { e.startup = false }()

	s, err := e.AddScreen(LayoutFromDisplays(displays, screen), session)
	if err != nil {
		return nil, err
	}
	if session != nil {
		s.RestoreSession(session)
	}
	// Owners first, so transient links resolve.
	for _, pass := range []bool{false, true} {
		for _, c := range clients {
			if (c.TransientFor != 0) == pass {
				s.Manage(c)
			}
		}
	}
	e.logger.Info("screen ready",
		"screen", s.index,
		"heads", s.heads.Count(),
		"windows", s.windows.Len(),
		"workspaces", s.workspaces.Len())
	return s, nil
}

// Find resolves a handle on any screen.
func (e *Engine) Find(h window.Handle) (*Screen, *window.Window) {
	for _, s := range e.screens {
		if w := s.windows.Get(h); w != nil {
			return s, w
		}
	}
	return nil, nil
}

// FindClient resolves a display-server window on any screen.
func (e *Engine) FindClient(id platform.WindowID) (*Screen, *window.Window) {
	for _, s := range e.screens {
		if w := s.windows.ByClient(id); w != nil {
			return s, w
		}
	}
	return nil, nil
}

// Active returns the focused window of the screen that last changed focus.
func (e *Engine) Active() (*Screen, *window.Window) {
	s := e.Screen(e.oldScreen)
	if s == nil {
		return nil, nil
	}
	return s, s.Focused()
}

// SaveSessions saves every screen's session state and returns the document
// of screen 0. It leaves the engine running.
func (e *Engine) SaveSessions() *workspace.Session {
	var first *workspace.Session
	for i, s := range e.screens {
		doc := s.SaveSession()
		if i == 0 {
			first = doc
		}
	}
	return first
}

// Reap unmanages the windows whose clients vanished without an event and
// returns how many were dropped.
func (e *Engine) Reap() int {
	n := 0
	for _, s := range e.screens {
		before := s.windows.Len()
		s.reap()
		n += before - s.windows.Len()
	}
	return n
}
