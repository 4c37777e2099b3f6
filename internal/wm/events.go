package wm

import (
	"fmt"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/platform"
)

// HandleEvent applies one display-server event to the screen that owns
// the window, or to the active screen for root events. Events about
// unknown windows are dropped.
func (e *Engine) HandleEvent(ev platform.Event) error {
	if ev.Kind == platform.EventScreenChanged {
		return e.relayout()
	}
	if ev.Kind == platform.EventDesktopRequest {
		if s := e.Screen(e.oldScreen); s != nil {
			s.Change(ev.Desktop)
		}
		return nil
	}
	if ev.Kind == platform.EventMapRequest {
		return e.mapRequest(ev.Client)
	}

	s, w := e.FindClient(ev.Window)
	if w == nil {
		e.logger.Debug("event for unmanaged window", "event", ev.Kind, "client", ev.Window)
		return nil
	}
	h := w.Handle
	switch ev.Kind {
	case platform.EventDestroyed, platform.EventWithdrawn:
		s.Unmanage(h)
	case platform.EventConfigureRequest:
		if w.State.Fullscreen || w.Attr.Fixed {
			return nil
		}
		s.Move(h, ev.Rect)
	case platform.EventEnter:
		if e.opts.FocusMode == config.FocusSloppy && !w.State.Focused {
			s.SetFocusTo(h)
		}
	case platform.EventClick:
		if !w.State.Focused {
			s.SetFocusTo(h)
		}
		s.Raise(h)
	case platform.EventActivate:
		s.MakeVisible(h)
	case platform.EventIconifyRequest:
		s.Iconify(h)
	case platform.EventFullscreenRequest:
		switch ev.Action {
		case platform.ToggleAdd:
			s.Fullscreen(h)
		case platform.ToggleRemove:
			s.Unfullscreen(h)
		default:
			s.ToggleFullscreen(h)
		}
	case platform.EventWindowDesktopRequest:
		if ev.Desktop < 0 {
			if !w.Attr.Omnipresent {
				s.ToggleOmnipresent(h)
			}
			return nil
		}
		if w.Attr.Omnipresent {
			s.ToggleOmnipresent(h)
		}
		s.MoveToWorkspace(h, ev.Desktop)
	default:
		return fmt.Errorf("unhandled event %s", ev.Kind)
	}
	return nil
}

// mapRequest manages a new client or brings a known one back.
func (e *Engine) mapRequest(c platform.Client) error {
	if s, w := e.FindClient(c.ID); w != nil {
		switch {
		case w.State.Hidden && w.App != "":
			s.UnhideApplication(w.App, false, false)
		case w.State.Miniaturized:
			s.Deiconify(w.Handle)
		}
		return nil
	}
	s := e.Screen(e.oldScreen)
	if s == nil {
		return ErrNoScreen
	}
	s.Manage(c)
	return nil
}

// relayout re-reads the head layout of every screen when the adapter can
// report it.
func (e *Engine) relayout() error {
	d, ok := e.adapter.(platform.Discovery)
	if !ok {
		return nil
	}
	displays, screen, err := d.Displays()
	if err != nil {
		return fmt.Errorf("failed to list displays: %w", err)
	}
	layout := LayoutFromDisplays(displays, screen)
	for _, s := range e.screens {
		s.SetLayout(layout)
	}
	e.logger.Info("head layout changed", "heads", len(layout.Heads))
	return nil
}
