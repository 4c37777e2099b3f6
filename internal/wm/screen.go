package wm

import (
	"log/slog"

	"github.com/1broseidon/tilewm/internal/focus"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/heads"
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
	"github.com/1broseidon/tilewm/internal/workspace"
)

// Screen is one virtual screen: its windows, focus order, workspaces and
// head layout.
type Screen struct {
	e     *Engine
	index int

	windows    *window.Registry
	order      focus.Order
	workspaces *workspace.List
	heads      *heads.Resolver
	session    *workspace.Session

	// ignoreChange blocks relative workspace switches while deiconifying.
	ignoreChange      bool
	ignoreFocusEvents bool

	apps     map[string]*app
	appOrder []string
}

// app groups the windows sharing an application id.
type app struct {
	name          string
	hidden        bool
	lastFocused   window.Handle
	lastWorkspace int
	// icon is the app icon's yard slot. Only apps whose windows allow an
	// app icon occupy one.
	icon    geom.Point
	hasIcon bool
}

func (s *Screen) Index() int                            { return s.index }
func (s *Screen) Heads() *heads.Resolver                { return s.heads }
func (s *Screen) Workspaces() *workspace.List           { return s.workspaces }
func (s *Screen) Windows() *window.Registry             { return s.windows }
func (s *Screen) Session() *workspace.Session           { return s.session }
func (s *Screen) Current() int                          { return s.workspaces.Current() }
func (s *Screen) FocusOrder() []window.Handle           { return s.order.Handles() }
func (s *Screen) logger() *slog.Logger                  { return s.e.logger }
func (s *Screen) adapter() platform.Adapter             { return s.e.adapter }
func (s *Screen) Window(h window.Handle) *window.Window { return s.windows.Get(h) }

// SetLayout replaces the head list, for example after a RandR change.
func (s *Screen) SetLayout(layout heads.Layout) {
	m := s.heads.Margins()
	m.DockTile = dockTile(layout, m)
	s.heads = s.heads.WithLayout(layout).WithMargins(m)
	if s.e.opts.AutoArrange {
		s.ArrangeIcons(true)
	}
}

// sync pushes the projection of w's flags to the display server. Only
// changes are sent.
func (s *Screen) sync(w *window.Window) {
	a := s.adapter()
	want := w.Projection(s.Current())
	have, ok := w.Applied()

	if want.Frame && (!ok || !have.Frame) {
		a.MapFrame(w.Client)
	}
	if want.Client != have.Client || !ok {
		if want.Client {
			a.MapClient(w.Client)
		} else {
			a.UnmapClient(w.Client)
		}
	}
	if !want.Frame && (!ok || have.Frame) {
		a.UnmapFrame(w.Client)
	}
	w.MarkApplied(want)
	s.syncIcon(w)
}

// iconVisible reports whether w's miniwindow belongs on screen.
func (s *Screen) iconVisible(w *window.Window) bool {
	if !w.HasIcon || !w.State.Miniaturized || w.State.Hidden {
		return false
	}
	return w.Workspace == s.Current() || w.Attr.Omnipresent || s.e.opts.StickyIcons
}

func (s *Screen) syncIcon(w *window.Window) {
	show := s.iconVisible(w)
	switch {
	case show && !w.IconShown:
		s.adapter().MapIcon(w.Client, w.Icon)
		w.IconShown = true
	case !show && w.IconShown:
		s.adapter().UnmapIcon(w.Client)
		w.IconShown = false
	}
}

func (s *Screen) moveIcon(w *window.Window, p geom.Point) {
	if w.Icon == p {
		return
	}
	w.Icon = p
	if w.IconShown {
		s.adapter().MapIcon(w.Client, p)
	}
}

// configure stores and pushes a geometry. Shaded windows keep their
// collapsed frame.
func (s *Screen) configure(w *window.Window, r geom.Rect) {
	w.SetGeometry(r)
	s.adapter().Configure(w.Client, r)
	if w.State.Shaded {
		s.adapter().SetFrameHeight(w.Client, w.FrameHeight())
	}
}

func (s *Screen) setLevel(w *window.Window, level platform.Level) {
	if w.Level == level {
		return
	}
	w.Level = level
	s.adapter().SetStackingLevel(w.Client, level)
}

// pump drains pending display-server events and drops the windows that
// vanished meanwhile. Callers re-check their window afterwards.
func (s *Screen) pump() {
	if s.e.startup {
		return
	}
	s.adapter().ProcessPendingEvents()
	s.reap()
}

// alive reports whether h still names a managed, existing window.
func (s *Screen) alive(h window.Handle) bool {
	w := s.windows.Get(h)
	return w != nil && s.adapter().Exists(w.Client)
}

// reap unmanages every window whose client is gone.
func (s *Screen) reap() {
	for _, w := range s.windows.All() {
		if !s.adapter().Exists(w.Client) {
			s.logger().Debug("window vanished", "screen", s.index, "window", w.Handle, "client", w.Client)
			s.Unmanage(w.Handle)
		}
	}
}

func (s *Screen) publish(h window.Handle, reason string) {
	notify.Publish(s.e.bus, notify.StateChanged{Screen: s.index, Window: h, Reason: reason})
}

// byRecency returns the windows in focus order, most recent first.
func (s *Screen) byRecency() []*window.Window {
	var out []*window.Window
	s.order.Walk(func(h window.Handle) bool {
		if w := s.windows.Get(h); w != nil {
			out = append(out, w)
		}
		return true
	})
	return out
}
