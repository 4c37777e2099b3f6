package platform

import "github.com/1broseidon/tilewm/internal/geom"

// EventKind names a display-server event the engine reacts to.
type EventKind int

const (
	EventMapRequest EventKind = iota + 1
	EventDestroyed
	EventWithdrawn
	EventConfigureRequest
	EventEnter
	EventClick
	EventActivate
	EventIconifyRequest
	EventFullscreenRequest
	EventDesktopRequest
	EventWindowDesktopRequest
	EventScreenChanged
)

func (k EventKind) String() string {
	switch k {
	case EventMapRequest:
		return "map-request"
	case EventDestroyed:
		return "destroyed"
	case EventWithdrawn:
		return "withdrawn"
	case EventConfigureRequest:
		return "configure-request"
	case EventEnter:
		return "enter"
	case EventClick:
		return "click"
	case EventActivate:
		return "activate"
	case EventIconifyRequest:
		return "iconify-request"
	case EventFullscreenRequest:
		return "fullscreen-request"
	case EventDesktopRequest:
		return "desktop-request"
	case EventWindowDesktopRequest:
		return "window-desktop-request"
	case EventScreenChanged:
		return "screen-changed"
	}
	return "unknown"
}

// Toggle values carried by state requests, as in _NET_WM_STATE.
const (
	ToggleRemove = 0
	ToggleAdd    = 1
	Toggle       = 2
)

// Event is one display-server event translated for the engine. Only the
// fields relevant to Kind are set.
type Event struct {
	Kind   EventKind
	Window WindowID
	// Client is filled for EventMapRequest.
	Client Client
	// Rect is the requested geometry for EventConfigureRequest.
	Rect    geom.Rect
	Desktop int
	Action  int
}
