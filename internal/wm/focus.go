package wm

import (
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
)

// Focused returns the focused window, or nil when the root has focus.
func (s *Screen) Focused() *window.Window {
	w := s.windows.Get(s.order.Tail())
	if w == nil || !w.State.Focused {
		return nil
	}
	return w
}

func (s *Screen) focusedHandle() window.Handle {
	if w := s.Focused(); w != nil {
		return w.Handle
	}
	return window.None
}

// SetFocusTo gives h the input focus and moves it to the tail of the focus
// order. window.None focuses the root.
func (s *Screen) SetFocusTo(h window.Handle) {
	if s.ignoreFocusEvents {
		return
	}
	a := s.adapter()
	old := s.Focused()
	w := s.windows.Get(h)

	if w == nil {
		a.ClearFocus()
		if old != nil {
			s.unfocus(old)
			s.focusChanged(window.None)
		}
		s.e.oldScreen = s.index
		return
	}

	// A shaded window takes focus on its frame.
	if w.Projection(s.Current()).Frame && w.Focusable() {
		a.SetFocus(w.Client)
	} else {
		a.ClearFocus()
	}

	if s.order.Tail() != h {
		s.order.Raise(h)
	}
	for _, o := range s.windows.All() {
		if o != w && o.State.Focused {
			s.unfocus(o)
		}
	}
	w.State.Focused = true
	if w.State.Fullscreen {
		s.setLevel(w, platform.LevelFullscreen)
	}
	if ap := s.apps[w.App]; ap != nil {
		ap.lastFocused = h
	}
	s.e.oldScreen = s.index
	if old != w {
		s.focusChanged(h)
	}
}

func (s *Screen) unfocus(w *window.Window) {
	w.State.Focused = false
	if w.State.Fullscreen {
		s.setLevel(w, w.BaseLevel())
	}
}

func (s *Screen) focusChanged(h window.Handle) {
	notify.Publish(s.e.bus, notify.FocusChanged{Screen: s.index, Window: h})
	if p, ok := s.adapter().(platform.DesktopPublisher); ok {
		var id platform.WindowID
		if w := s.windows.Get(h); w != nil {
			id = w.Client
		}
		p.PublishActiveWindow(id)
	}
}

// focusAfter picks the focus target once from leaves the screen. In click
// mode it is the most recent focusable window before from that is visible
// on from's workspace; otherwise the root.
func (s *Screen) focusAfter(from *window.Window) window.Handle {
	if !s.e.opts.clickToFocus() {
		return window.None
	}
	for h := s.order.Prev(from.Handle); h != window.None; h = s.order.Prev(h) {
		w := s.windows.Get(h)
		if w == nil {
			continue
		}
		if w.Focusable() && !w.State.Hidden && !w.State.Miniaturized && w.Workspace == from.Workspace {
			return h
		}
	}
	return window.None
}

// Raise moves h to the top of its stacking level.
func (s *Screen) Raise(h window.Handle) {
	if w := s.windows.Get(h); w != nil {
		s.adapter().Raise(w.Client)
	}
}

// Lower moves h to the bottom of its stacking level.
func (s *Screen) Lower(h window.Handle) {
	if w := s.windows.Get(h); w != nil {
		s.adapter().Lower(w.Client)
	}
}
