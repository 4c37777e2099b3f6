package wm

import (
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/maximize"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
)

// Manage starts managing a client and returns its window. A client that
// is already managed is returned unchanged.
func (s *Screen) Manage(c platform.Client) *window.Window {
	if w := s.windows.ByClient(c.ID); w != nil {
		return w
	}
	opts := s.e.opts
	w := &window.Window{
		Client: c.ID,
		Title:  c.Title,
		App:    c.AppID,
		Decor:  opts.Decor,
		Hints: window.SizeHints{
			MinWidth:  c.MinWidth,
			MinHeight: c.MinHeight,
			MaxWidth:  c.MaxWidth,
			MaxHeight: c.MaxHeight,
		},
		Attr: window.Attributes{
			Fixed:        c.Fixed,
			Omnipresent:  c.Sticky,
			FullMaximize: opts.fullMaximize(c.AppID),
		},
	}
	w.SetGeometry(c.Bounds)
	if owner := s.windows.ByClient(c.TransientFor); owner != nil {
		w.TransientFor = owner.Handle
		w.Attr.NoAppIcon = true
	}

	w.Workspace = s.Current()
	if c.Desktop >= 0 && c.Desktop < s.workspaces.Max() && !c.Sticky {
		if err := s.workspaces.Extend(c.Desktop); err == nil {
			w.Workspace = c.Desktop
		}
	}

	h := s.windows.Add(w)
	s.order.Insert(h)
	s.registerApp(w)

	a := s.adapter()
	w.Level = platform.LevelNormal
	s.setLevel(w, w.BaseLevel())
	a.Configure(w.Client, w.Geometry())
	a.SetClientState(w.Client, platform.StateNormal)
	s.sync(w)
	s.publishWindowDesktop(w)

	s.logger().Debug("managed window",
		"screen", s.index,
		"window", h,
		"client", c.ID,
		"app", c.AppID,
		"workspace", w.Workspace)

	if !s.e.startup && w.Mapped(s.Current()) && w.Focusable() {
		s.SetFocusTo(h)
	}
	if opts.AutoArrange {
		s.ArrangeIcons(false)
	}
	return w
}

// Unmanage forgets h. Focus moves on when h had it.
func (s *Screen) Unmanage(h window.Handle) {
	w := s.windows.Get(h)
	if w == nil {
		return
	}
	hadFocus := w.State.Focused
	next := window.None
	if hadFocus {
		next = s.focusAfter(w)
	}
	if w.IconShown {
		s.adapter().UnmapIcon(w.Client)
		w.IconShown = false
	}

	s.order.Remove(h)
	s.windows.Remove(h)
	for _, o := range s.windows.All() {
		if o.BFSFocused == h {
			o.BFSFocused = window.None
		}
	}
	s.unregisterApp(w)

	s.logger().Debug("unmanaged window", "screen", s.index, "window", h, "client", w.Client)

	if hadFocus {
		s.SetFocusTo(next)
	}
	if s.e.opts.AutoArrange {
		s.ArrangeIcons(false)
	}
}

// HandleDestroyed unmanages the window of a destroyed client.
func (s *Screen) HandleDestroyed(id platform.WindowID) {
	if w := s.windows.ByClient(id); w != nil {
		s.Unmanage(w.Handle)
	}
}

// Move places h at r (frame position, client size) and re-saves the free
// axis of a window maximized on one axis only.
func (s *Screen) Move(h window.Handle, r geom.Rect) bool {
	w := s.windows.Get(h)
	if w == nil {
		return false
	}
	r.Width, r.Height = w.ConstrainSize(r.Width, r.Height)
	s.configure(w, r)
	maximize.UpdateSavedGeometry(w)
	return true
}

func (s *Screen) registerApp(w *window.Window) {
	if w.App == "" {
		return
	}
	ap, ok := s.apps[w.App]
	if !ok {
		ap = &app{name: w.App, lastWorkspace: w.Workspace}
		s.apps[w.App] = ap
		s.appOrder = append(s.appOrder, w.App)
	}
	// A new visible window unhides the application.
	if !w.State.Hidden {
		ap.hidden = false
	}
	if !w.Attr.NoAppIcon {
		ap.hasIcon = true
	}
}

func (s *Screen) unregisterApp(w *window.Window) {
	ap := s.apps[w.App]
	if ap == nil {
		return
	}
	if ap.lastFocused == w.Handle {
		ap.lastFocused = window.None
	}
	if len(s.windows.Application(w.App)) > 0 {
		return
	}
	delete(s.apps, w.App)
	for i, name := range s.appOrder {
		if name == w.App {
			s.appOrder = append(s.appOrder[:i], s.appOrder[i+1:]...)
			break
		}
	}
}
