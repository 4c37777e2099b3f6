package wm

import (
	"fmt"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
	"github.com/1broseidon/tilewm/internal/workspace"
)

func (s *Screen) publishDesktops() {
	if p, ok := s.adapter().(platform.DesktopPublisher); ok {
		p.PublishDesktops(s.workspaces.Names(), s.Current())
	}
}

func (s *Screen) publishWindowDesktop(w *window.Window) {
	if p, ok := s.adapter().(platform.DesktopPublisher); ok {
		p.PublishWindowDesktop(w.Client, w.Workspace, w.Attr.Omnipresent)
	}
}

// NewWorkspace appends a workspace and returns its index.
func (s *Screen) NewWorkspace() (int, error) {
	idx, err := s.workspaces.New(s.session.SeedClip())
	if err != nil {
		return -1, err
	}
	notify.Publish(s.e.bus, notify.WorkspaceCreated{Screen: s.index, Index: idx})
	s.publishDesktops()
	return idx, nil
}

// occupied reports whether a window other than an omnipresent one lives on ws.
func (s *Screen) occupied(ws int) bool {
	for _, w := range s.windows.All() {
		if w.Workspace == ws && !w.Attr.Omnipresent {
			return true
		}
	}
	return false
}

// DeleteWorkspace removes workspace idx. Windows on higher workspaces are
// renumbered; deleting the current workspace switches to the nearest one
// that remains.
func (s *Screen) DeleteWorkspace(idx int) error {
	if err := s.workspaces.Delete(idx, s.occupied); err != nil {
		return err
	}
	for _, w := range s.windows.All() {
		if w.Workspace > idx {
			w.Workspace--
			s.publishWindowDesktop(w)
		}
	}
	notify.Publish(s.e.bus, notify.WorkspaceDestroyed{Screen: s.index, Index: s.workspaces.Len() - 1})
	if s.workspaces.NeedsRetarget() {
		s.ForceChange(min(s.Current(), s.workspaces.Len()-1))
	} else {
		s.publishDesktops()
	}
	return nil
}

// Change switches to workspace t. It is ignored during startup and while
// focus events are being ignored.
func (s *Screen) Change(t int) {
	if s.e.startup || s.ignoreFocusEvents {
		return
	}
	if t == s.Current() && !s.workspaces.NeedsRetarget() {
		return
	}
	s.ForceChange(t)
}

// ForceChange switches to workspace t even when it is already current, and
// creates it when it does not exist yet.
func (s *Screen) ForceChange(t int) {
	if t < 0 || t >= s.workspaces.Max() {
		return
	}
	if err := s.workspaces.Extend(t); err != nil {
		s.logger().Warn("Failed to extend workspaces", "screen", s.index, "target", t, "error", err)
		return
	}
	previous := s.Current()
	s.workspaces.SetCurrent(t)

	tailVisible := false
	if tw := s.windows.Get(s.order.Tail()); tw != nil {
		if p, ok := tw.Applied(); ok {
			tailVisible = p.Frame
		}
	}

	// A focused omnipresent window, or one being carried across, keeps focus.
	var foc, foc2 *window.Window
	if w := s.Focused(); w != nil {
		keep := w.Attr.Omnipresent && w.Projection(t).Frame && w.Focusable()
		if keep || w.State.ChangingWorkspace {
			foc = w
		}
	}
	for _, w := range s.byRecency() {
		before, _ := w.Applied()
		switch {
		case w.Attr.Omnipresent:
			w.Workspace = t
			if ap := s.apps[w.App]; ap != nil {
				ap.lastWorkspace = t
			}
			if foc2 == nil && w.Focusable() && w.Projection(t).Client {
				foc2 = w
			}
		case w.State.Selected && w.Workspace != t:
			w.Workspace = t
			s.publishWindowDesktop(w)
			if foc == nil && !w.State.Miniaturized && w.Focusable() {
				foc = w
			}
		}
		if foc == nil && w.Focusable() && !before.Client && w.Projection(t).Client {
			foc = w
		}
	}
	for _, w := range s.windows.All() {
		s.sync(w)
	}

	s.ignoreFocusEvents = true
	s.pump()
	s.ignoreFocusEvents = false

	if foc != nil && s.windows.Get(foc.Handle) == nil {
		foc = nil
	}
	if foc2 != nil && s.windows.Get(foc2.Handle) == nil {
		foc2 = nil
	}
	if foc == nil {
		foc = foc2
	}
	if foc == nil && tailVisible {
		if tw := s.windows.Get(s.order.Tail()); tw != nil && tw.Mapped(t) {
			foc = tw
		}
	}

	switch s.e.opts.FocusMode {
	case "", config.FocusClick:
		if foc != nil {
			s.SetFocusTo(foc.Handle)
		} else {
			s.SetFocusTo(s.underPointer())
		}
	case config.FocusSloppy:
		if h := s.underPointer(); h != window.None {
			s.SetFocusTo(h)
		} else if foc != nil {
			s.SetFocusTo(foc.Handle)
		} else {
			s.SetFocusTo(window.None)
		}
	default:
		s.SetFocusTo(s.underPointer())
	}

	if !s.e.opts.StickyIcons {
		s.ArrangeIcons(false)
	}
	s.publishDesktops()
	notify.Publish(s.e.bus, notify.WorkspaceChanged{Screen: s.index, Index: t, Previous: previous})
	s.logger().Debug("workspace changed", "screen", s.index, "workspace", t, "previous", previous)
}

// underPointer returns the focusable managed window under the pointer.
func (s *Screen) underPointer() window.Handle {
	id, ok := s.adapter().WindowUnderPointer()
	if !ok {
		return window.None
	}
	w := s.windows.ByClient(id)
	if w == nil || !w.Focusable() || !w.Mapped(s.Current()) {
		return window.None
	}
	return w.Handle
}

// RelativeChange switches by amount workspaces, following the cycle and
// advance preferences.
func (s *Screen) RelativeChange(amount int) {
	if s.ignoreChange {
		return
	}
	t, ok := s.workspaces.Relative(amount, s.e.opts.Cycle, s.e.opts.Advance)
	if !ok {
		return
	}
	s.Change(t)
}

// RenameWorkspace renames idx and returns the stored name.
func (s *Screen) RenameWorkspace(idx int, name string) (string, error) {
	stored, err := s.workspaces.Rename(idx, name)
	if err != nil {
		return "", err
	}
	notify.Publish(s.e.bus, notify.WorkspaceRenamed{Screen: s.index, Index: idx, Name: stored})
	s.publishDesktops()
	return stored, nil
}

// LookupWorkspace resolves a 1-based number or a name to an index.
func (s *Screen) LookupWorkspace(value string) (int, error) {
	idx := s.workspaces.Lookup(value)
	if err := workspace.CheckIndex(idx, s.workspaces.Len()); err != nil {
		return -1, fmt.Errorf("workspace %q: %w", value, err)
	}
	return idx, nil
}

// MoveToWorkspace sends h to workspace ws, creating it when needed.
func (s *Screen) MoveToWorkspace(h window.Handle, ws int) bool {
	w := s.windows.Get(h)
	if w == nil {
		return false
	}
	if err := s.workspaces.Extend(ws); err != nil {
		s.logger().Warn("Failed to extend workspaces", "screen", s.index, "target", ws, "error", err)
		return false
	}
	if w.Workspace == ws {
		return true
	}
	leaving := ws != s.Current() && !w.Attr.Omnipresent
	if leaving && w.State.Focused {
		s.SetFocusTo(s.focusAfter(w))
	}
	w.Workspace = ws
	s.sync(w)
	s.publish(h, notify.ReasonChangeWorkspace)
	s.publishWindowDesktop(w)
	return true
}

// ToggleOmnipresent flips whether h shows on every workspace.
func (s *Screen) ToggleOmnipresent(h window.Handle) bool {
	w := s.windows.Get(h)
	if w == nil {
		return false
	}
	w.Attr.Omnipresent = !w.Attr.Omnipresent
	if !w.Attr.Omnipresent {
		w.Workspace = s.Current()
	}
	s.sync(w)
	s.publish(h, notify.ReasonOmnipresentToggle)
	s.publishWindowDesktop(w)
	return true
}

// SaveSession serializes the workspace list over the screen's session
// document and returns it.
func (s *Screen) SaveSession() *workspace.Session {
	s.session = s.workspaces.SaveState(s.session)
	return s.session
}

// RestoreSession applies a saved document. Clip overruns are logged and
// skipped.
func (s *Screen) RestoreSession(sess *workspace.Session) {
	restored, problems := s.workspaces.RestoreState(sess)
	for _, err := range problems {
		s.logger().Warn("Session restore problem", "screen", s.index, "error", err)
	}
	s.session = sess
	for _, idx := range restored {
		notify.Publish(s.e.bus, notify.WorkspaceRenamed{
			Screen: s.index,
			Index:  idx,
			Name:   s.workspaces.Get(idx).Name,
		})
	}
	s.publishDesktops()
}
