package platform

import "github.com/1broseidon/tilewm/internal/geom"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Level is a stacking layer. Higher levels stack above lower ones.
type Level int

const (
	LevelSunken     Level = -1
	LevelNormal     Level = 0
	LevelFloating   Level = 3
	LevelDock       Level = 5
	LevelFullscreen Level = 50
)

func (l Level) String() string {
	switch l {
	case LevelSunken:
		return "sunken"
	case LevelNormal:
		return "normal"
	case LevelFloating:
		return "floating"
	case LevelDock:
		return "dock"
	case LevelFullscreen:
		return "fullscreen"
	}
	return "custom"
}

// ClientState mirrors the ICCCM WM_STATE values.
type ClientState int

const (
	StateWithdrawn ClientState = 0
	StateNormal    ClientState = 1
	StateIconic    ClientState = 3
)

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds geom.Rect
	Usable geom.Rect
}

// Client describes a top-level window found on the display server.
type Client struct {
	ID           WindowID
	AppID        string
	Title        string
	TransientFor WindowID
	Bounds       geom.Rect
	Desktop      int
	Sticky       bool
	Fixed        bool
	MinWidth     int
	MinHeight    int
	MaxWidth     int
	MaxHeight    int
}

// Adapter is the display-server side of the engine. Calls are synchronous
// and have no failure return; a vanished window is detected with Exists.
type Adapter interface {
	MapFrame(id WindowID)
	UnmapFrame(id WindowID)
	MapClient(id WindowID)
	UnmapClient(id WindowID)
	// Configure places the frame at frame.X/Y and sizes the client area.
	Configure(id WindowID, frame geom.Rect)
	// SetFrameHeight resizes only the frame, leaving the client size alone.
	SetFrameHeight(id WindowID, height int)
	SetFocus(id WindowID)
	ClearFocus()
	PointerPosition() (geom.Point, bool)
	WindowUnderPointer() (WindowID, bool)
	SetStackingLevel(id WindowID, level Level)
	Raise(id WindowID)
	Lower(id WindowID)
	SetClientState(id WindowID, state ClientState)
	// MapIcon shows the miniwindow of id at pos. UnmapIcon hides it.
	MapIcon(id WindowID, pos geom.Point)
	UnmapIcon(id WindowID)
	Exists(id WindowID) bool
	// ProcessPendingEvents drains queued display-server events. Windows may
	// disappear while it runs.
	ProcessPendingEvents()
}

// Discovery lists what the display server already has.
type Discovery interface {
	Displays() (displays []Display, screen geom.Rect, err error)
	Clients() ([]Client, error)
}

// DesktopPublisher is implemented by adapters that mirror workspace state
// to external pagers.
type DesktopPublisher interface {
	PublishDesktops(names []string, current int)
	PublishWindowDesktop(id WindowID, desktop int, omnipresent bool)
	PublishActiveWindow(id WindowID)
}
