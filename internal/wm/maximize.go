package wm

import (
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/maximize"
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/window"
)

// Maximize runs a maximize request through the decision table and applies
// the result. It reports whether the window's geometry changed.
func (s *Screen) Maximize(h window.Handle, requested window.MaxFlags, hints maximize.Hints) bool {
	w := s.windows.Get(h)
	if w == nil {
		return false
	}
	if !w.Resizable() {
		s.logger().Debug("maximize rejected", "window", h, "reason", "not resizable")
		return false
	}

	d := maximize.Decide(maximize.Request{
		Current:   w.Maximized,
		Old:       w.OldMaximized,
		Requested: requested,
		Hints:     hints,
		Head:      s.heads.HeadForRect(w.Frame()),
		Relative:  s.heads.Relative,
	}, s.e.opts.Policy)

	s.logger().Debug("maximize decision",
		"window", h,
		"current", w.Maximized,
		"requested", requested,
		"action", d.Action,
		"flags", d.Flags,
		"rule", d.Rule,
		"head", d.Head)

	switch d.Action {
	case maximize.ActionUnmaximize:
		return s.Unmaximize(h)
	case maximize.ActionMaximize:
		return s.applyMaximize(w, d)
	}
	return false
}

func (s *Screen) applyMaximize(w *window.Window, d maximize.Decision) bool {
	if w.State.Shaded {
		s.Unshade(w.Handle)
		if w = s.windows.Get(w.Handle); w == nil {
			return false
		}
	}
	if d.ResetFirst {
		maximize.Unmaximize(w, s.savedOnHead(w))
	}

	head := d.Head
	if !d.Hints.Keyboard && !d.Hints.IgnoreHeads {
		head = s.heads.HeadForPointer()
	}
	usable, total := s.heads.UsableArea(head, false)
	area := maximize.Area{
		Usable:      usable,
		Total:       total,
		SavedOnHead: s.savedOnHead(w),
	}
	if d.Flags.Has(window.MaxMaximus) {
		area.Obstructors = s.obstructors(w)
	}

	r, ok := maximize.Maximize(w, d.Flags, area)
	if !ok {
		return false
	}
	s.configure(w, r)
	s.publish(w.Handle, notify.ReasonMaximize)
	return true
}

// Unmaximize restores the geometry saved before the first maximize.
func (s *Screen) Unmaximize(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil || w.Maximized.Empty() {
		return false
	}
	if w.State.Shaded {
		s.Unshade(h)
		if w = s.windows.Get(h); w == nil {
			return false
		}
	}
	r, ok := maximize.Unmaximize(w, s.savedOnHead(w))
	if !ok {
		return false
	}
	s.configure(w, r)
	s.publish(h, notify.ReasonMaximize)
	return true
}

// savedOnHead reports whether the saved geometry was recorded on the head
// the window is on now.
func (s *Screen) savedOnHead(w *window.Window) bool {
	return s.heads.HeadForRect(w.OldGeometry) == s.heads.HeadForRect(w.Frame())
}

// obstructors are the frames of the windows focused before w that are
// visible on the current workspace.
func (s *Screen) obstructors(w *window.Window) []geom.Rect {
	var out []geom.Rect
	cur := s.Current()
	for h := s.order.Prev(w.Handle); h != window.None; h = s.order.Prev(h) {
		o := s.windows.Get(h)
		if o == nil || o.Workspace != cur || o.State.Miniaturized || o.State.Hidden {
			continue
		}
		out = append(out, o.Frame())
	}
	return out
}
