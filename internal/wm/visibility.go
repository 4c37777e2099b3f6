package wm

import (
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
)

// miniaturizedOwner walks w's owner chain and returns the first
// miniaturized owner. ok is false when the chain does not terminate
// within the window count.
func (s *Screen) miniaturizedOwner(w *window.Window) (owner *window.Window, ok bool) {
	limit := s.windows.Len() + 1
	cur := w
	for i := 0; i < limit; i++ {
		o := s.windows.Get(cur.TransientFor)
		if o == nil {
			return nil, true
		}
		if o.State.Miniaturized {
			return o, true
		}
		cur = o
	}
	return nil, false
}

func (s *Screen) brokenChain(w *window.Window, op string) {
	s.logger().Warn("transient owner chain does not terminate",
		"screen", s.index,
		"window", w.Handle,
		"client", w.Client,
		"op", op)
}

// Iconify miniaturizes h and its transients.
func (s *Screen) Iconify(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil || w.State.Miniaturized {
		return false
	}
	owner, ok := s.miniaturizedOwner(w)
	if !ok {
		s.brokenChain(w, "iconify")
		return false
	}
	if owner != nil {
		s.logger().Debug("iconify skipped", "window", h, "reason", "owner miniaturized", "owner", owner.Handle)
		return false
	}

	present := w.Workspace == s.Current()
	// Focus leaves when it sits on w or on one of w's transients.
	losesFocus := w.State.Focused
	if f := s.Focused(); f != nil {
		if top, ok := s.windows.OwnerChain(f.Handle); ok && top == h {
			losesFocus = true
		}
	}

	w.State.Miniaturized = true
	s.unmapTransients(w, map[window.Handle]bool{h: true})
	s.sync(w)
	s.adapter().SetClientState(w.Client, platform.StateIconic)

	if !w.State.IconMoved {
		w.Icon = s.placeIcon(s.heads.HeadForRect(w.Frame()), w)
	}
	w.HasIcon = true
	s.syncIcon(w)

	if present {
		switch {
		case !s.e.opts.clickToFocus():
			s.SetFocusTo(window.None)
		case losesFocus:
			s.SetFocusTo(s.focusAfter(w))
		}
	}

	s.pump()
	if !s.alive(h) {
		return false
	}
	s.publish(h, notify.ReasonIconify)
	if s.e.opts.AutoArrange {
		s.ArrangeIcons(true)
	}
	return true
}

// unmapTransients iconifies the visible transients of owner, deepest
// first. seen stops the walk on cyclic links.
func (s *Screen) unmapTransients(owner *window.Window, seen map[window.Handle]bool) {
	for _, t := range s.byRecency() {
		if t.TransientFor != owner.Handle || seen[t.Handle] {
			continue
		}
		if have, _ := t.Applied(); !have.Frame && !s.e.startup {
			continue
		}
		seen[t.Handle] = true
		s.unmapTransients(t, seen)
		t.State.Miniaturized = true
		s.sync(t)
		if !t.State.Shaded {
			s.adapter().SetClientState(t.Client, platform.StateIconic)
		}
		s.publish(t.Handle, notify.ReasonIconifyTransient)
	}
}

// mapTransients restores the transients unmapped with owner. Transients
// with their own miniwindow stay iconified.
func (s *Screen) mapTransients(owner *window.Window, seen map[window.Handle]bool) {
	for _, t := range s.byRecency() {
		if t.TransientFor != owner.Handle || seen[t.Handle] || t.HasIcon {
			continue
		}
		if have, _ := t.Applied(); have.Frame && !s.e.startup {
			continue
		}
		seen[t.Handle] = true
		s.mapTransients(t, seen)
		t.State.Miniaturized = false
		s.sync(t)
		if !t.State.Shaded {
			s.adapter().SetClientState(t.Client, platform.StateNormal)
		}
		s.publish(t.Handle, notify.ReasonIconifyTransient)
	}
}

// Deiconify restores h to the current workspace. When an owner is still
// miniaturized the owner is restored instead and h only takes focus. A
// window that is not miniaturized is only moved and false is returned.
func (s *Screen) Deiconify(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil {
		return false
	}
	prev := s.ignoreChange
	s.ignoreChange = true
	defer func() { s.ignoreChange = prev }()

	if w.Workspace != s.Current() && !w.Attr.Omnipresent {
		s.MoveToWorkspace(h, s.Current())
	}
	if !w.State.Miniaturized {
		return false
	}

	owner, ok := s.miniaturizedOwner(w)
	if !ok {
		s.brokenChain(w, "deiconify")
		return false
	}
	if owner != nil {
		s.Deiconify(owner.Handle)
		if s.windows.Get(h) == nil {
			return false
		}
		s.SetFocusTo(h)
		s.Raise(h)
		return true
	}

	w.State.Miniaturized = false
	s.sync(w)
	s.Raise(h)
	if !w.State.Shaded {
		s.adapter().SetClientState(w.Client, platform.StateNormal)
	}
	s.mapTransients(w, map[window.Handle]bool{h: true})
	w.HasIcon = false
	w.State.IconMoved = false
	s.SetFocusTo(h)

	s.pump()
	if !s.alive(h) {
		return false
	}
	if s.e.opts.AutoArrange {
		s.ArrangeIcons(true)
	}
	s.publish(h, notify.ReasonIconify)
	s.Unshade(h)
	return true
}

// Shade collapses h to its titlebar.
func (s *Screen) Shade(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil || w.State.Shaded {
		return false
	}
	w.State.Shaded = true
	s.sync(w)
	s.adapter().SetFrameHeight(w.Client, w.FrameHeight())
	s.adapter().SetClientState(w.Client, platform.StateIconic)

	s.pump()
	if !s.alive(h) {
		return false
	}
	s.publish(h, notify.ReasonShade)
	return true
}

// Unshade restores the client area. A window that was focused when
// shaded gets the input focus back.
func (s *Screen) Unshade(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil || !w.State.Shaded {
		return false
	}
	w.State.Shaded = false
	s.sync(w)
	s.adapter().SetFrameHeight(w.Client, w.FrameHeight())
	if !w.State.Miniaturized && !w.State.Hidden {
		s.adapter().SetClientState(w.Client, platform.StateNormal)
	}
	if w.State.Focused {
		s.SetFocusTo(h)
	}
	s.publish(h, notify.ReasonShade)
	return true
}

// Fullscreen covers h's head and lifts it to the fullscreen level.
func (s *Screen) Fullscreen(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil || w.State.Fullscreen {
		return false
	}
	head := s.heads.HeadForRect(w.Frame())
	w.BFSGeometry = w.Geometry()
	w.State.Fullscreen = true
	s.setLevel(w, platform.LevelFullscreen)
	s.configure(w, s.heads.RectForHead(head))

	w.BFSFocused = s.focusedHandle()
	s.SetFocusTo(h)
	s.publish(h, notify.ReasonFullscreen)
	return true
}

// Unfullscreen restores the geometry and level h had before Fullscreen.
// The window focused at that point gets focus back if it still exists.
func (s *Screen) Unfullscreen(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil || !w.State.Fullscreen {
		return false
	}
	w.State.Fullscreen = false
	s.setLevel(w, w.BaseLevel())
	s.configure(w, w.BFSGeometry)
	s.publish(h, notify.ReasonFullscreen)

	if prev := w.BFSFocused; prev != window.None {
		w.BFSFocused = window.None
		if s.windows.Get(prev) != nil {
			s.SetFocusTo(prev)
		}
	}
	return true
}

// ToggleFullscreen flips the fullscreen state of h.
func (s *Screen) ToggleFullscreen(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil {
		return false
	}
	if w.State.Fullscreen {
		return s.Unfullscreen(h)
	}
	return s.Fullscreen(h)
}

// Select marks h as selected. Selected windows follow workspace changes.
func (s *Screen) Select(h window.Handle, selected bool) bool {
	w := s.windows.Get(h)
	if w == nil || w.State.Selected == selected {
		return false
	}
	w.State.Selected = selected
	s.publish(h, notify.ReasonSelected)
	return true
}
