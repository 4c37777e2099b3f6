package wm

import (
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
)

// Apps returns the application ids in the order they appeared.
func (s *Screen) Apps() []string {
	return append([]string(nil), s.appOrder...)
}

// AppHidden reports whether the application is hidden.
func (s *Screen) AppHidden(name string) bool {
	ap := s.apps[name]
	return ap != nil && ap.hidden
}

// HideApplication hides every window of the application. It returns false
// if the application is unknown or already hidden.
func (s *Screen) HideApplication(name string) bool {
	ap := s.apps[name]
	if ap == nil || ap.hidden {
		return false
	}
	hadFocus := false
	ap.lastFocused = window.None
	if f := s.Focused(); f != nil && f.App == name {
		hadFocus = true
		ap.lastFocused = f.Handle
	}
	ap.lastWorkspace = s.Current()

	for _, w := range s.byRecency() {
		if w.App != name {
			continue
		}
		if w.State.Focused {
			hadFocus = true
		}
		s.hideWindow(w)
	}

	if hadFocus {
		next := window.None
		if s.e.opts.clickToFocus() {
			cur := s.Current()
			for _, w := range s.byRecency() {
				if w.Focusable() && !w.State.Hidden && w.Projection(cur).Frame {
					next = w.Handle
					break
				}
			}
		}
		s.SetFocusTo(next)
	}
	ap.hidden = true
	if s.e.opts.AutoArrange {
		s.ArrangeIcons(true)
	}
	return true
}

func (s *Screen) hideWindow(w *window.Window) {
	w.State.Hidden = true
	if w.State.Miniaturized {
		s.syncIcon(w)
		s.publish(w.Handle, notify.ReasonHide)
		return
	}
	s.sync(w)
	s.adapter().SetClientState(w.Client, platform.StateIconic)
	s.publish(w.Handle, notify.ReasonHide)
}

// UnhideApplication shows the windows of a hidden application. With
// miniwindows set its miniaturized windows on the current workspace are
// restored too; with bringToCurrent every window moves to the current
// workspace first.
func (s *Screen) UnhideApplication(name string, miniwindows, bringToCurrent bool) bool {
	ap := s.apps[name]
	if ap == nil || s.order.Len() == 0 {
		return false
	}
	cur := s.Current()
	var focused *window.Window

	// Least recent first.
	for _, h := range s.order.Handles() {
		w := s.windows.Get(h)
		if w == nil || w.App != name {
			continue
		}
		if w.State.Focused || focused == nil || !focused.State.Focused {
			focused = w
		}
		switch {
		case w.State.Miniaturized:
			if bringToCurrent {
				s.MoveToWorkspace(h, cur)
			}
			if (bringToCurrent || s.e.opts.StickyIcons || w.Workspace == cur) && w.HasIcon && !w.IconShown {
				w.Icon = s.placeIcon(s.heads.HeadForRect(w.Frame()), w)
			}
			w.State.Hidden = false
			s.syncIcon(w)
			if miniwindows && w.Workspace == cur {
				s.Deiconify(h)
			}
			s.publish(h, notify.ReasonHide)
		case w.State.Shaded:
			if bringToCurrent {
				s.MoveToWorkspace(h, cur)
			}
			w.State.Hidden = false
			s.sync(w)
			s.Raise(h)
			if miniwindows && w.Workspace == cur {
				s.Unshade(h)
			}
			s.publish(h, notify.ReasonHide)
		case w.State.Hidden:
			if bringToCurrent && w.Workspace != cur {
				s.MoveToWorkspace(h, cur)
			}
			w.State.Hidden = false
			s.sync(w)
			s.adapter().SetClientState(w.Client, platform.StateNormal)
			s.Raise(h)
			s.publish(h, notify.ReasonHide)
		default:
			if bringToCurrent && w.Workspace != cur {
				s.MoveToWorkspace(h, cur)
			}
			s.Raise(h)
		}
	}
	ap.hidden = false

	if lf := s.windows.Get(ap.lastFocused); lf != nil && lf.Mapped(cur) {
		s.Raise(lf.Handle)
		s.SetFocusTo(lf.Handle)
	} else if focused != nil && s.windows.Get(focused.Handle) != nil {
		s.SetFocusTo(focused.Handle)
	}
	ap.lastFocused = window.None
	if s.e.opts.AutoArrange {
		s.ArrangeIcons(true)
	}
	return true
}

// HideOthers hides every application visible on the current workspace
// except the one owning h. Windows without an application are iconified.
func (s *Screen) HideOthers(h window.Handle) bool {
	keep := s.windows.Get(h)
	if keep == nil {
		return false
	}
	cur := s.Current()
	for _, w := range s.byRecency() {
		if s.windows.Get(w.Handle) == nil || w == keep || w.Workspace != cur {
			continue
		}
		if w.State.Miniaturized || w.State.Hidden || w.Attr.Internal || w.Attr.NoHideOthers {
			continue
		}
		if w.App != "" && w.App == keep.App {
			continue
		}
		if s.apps[w.App] == nil {
			s.Iconify(w.Handle)
		} else {
			s.HideApplication(w.App)
		}
	}
	return true
}

// HideAll iconifies every window on the current workspace.
func (s *Screen) HideAll() {
	cur := s.Current()
	for _, w := range s.byRecency() {
		if s.windows.Get(w.Handle) == nil || w.Workspace != cur {
			continue
		}
		if w.State.Miniaturized || w.State.Hidden || w.Attr.Internal || w.Attr.NoMiniaturize {
			continue
		}
		s.Iconify(w.Handle)
	}
}

// ShowAll restores every miniaturized or hidden window on the current
// workspace and keeps the focus where it was.
func (s *Screen) ShowAll() {
	old := s.focusedHandle()
	cur := s.Current()
	for _, w := range s.byRecency() {
		if s.windows.Get(w.Handle) == nil || w.Attr.Internal {
			continue
		}
		if w.Workspace != cur && !w.Attr.Omnipresent {
			continue
		}
		switch {
		case w.State.Miniaturized:
			s.Deiconify(w.Handle)
		case w.State.Hidden:
			if s.apps[w.App] != nil {
				s.UnhideApplication(w.App, false, false)
			} else {
				s.Deiconify(w.Handle)
			}
		}
	}
	s.SetFocusTo(old)
}

// MakeVisible brings h into view: it switches to h's workspace, unshades,
// unhides or deiconifies it, and focuses it.
func (s *Screen) MakeVisible(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil {
		return false
	}
	if w.Workspace != s.Current() && !w.Attr.Omnipresent {
		s.Change(w.Workspace)
	}
	if w.State.Shaded {
		s.Unshade(h)
	}
	if w.State.Hidden {
		if ap := s.apps[w.App]; ap != nil {
			ap.lastFocused = h
			s.UnhideApplication(w.App, false, false)
		}
	}
	if s.windows.Get(h) == nil {
		return false
	}
	if w.State.Miniaturized {
		return s.Deiconify(h)
	}
	if w.Focusable() {
		s.SetFocusTo(h)
	}
	s.Raise(h)
	return true
}
