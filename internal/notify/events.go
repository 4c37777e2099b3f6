package notify

import "github.com/1broseidon/tilewm/internal/window"

// Reasons carried by StateChanged.
const (
	ReasonMaximize          = "maximize"
	ReasonShade             = "shade"
	ReasonIconify           = "iconify"
	ReasonIconifyTransient  = "iconify-transient"
	ReasonHide              = "hide"
	ReasonFullscreen        = "fullscreen"
	ReasonSelected          = "selected"
	ReasonChangeWorkspace   = "changed-workspace"
	ReasonOmnipresentToggle = "omnipresent"
)

// StateChanged is posted after a window transition.
type StateChanged struct {
	Screen int
	Window window.Handle
	Reason string
}

// WorkspaceCreated is posted after a workspace is appended.
type WorkspaceCreated struct {
	Screen int
	Index  int
}

// WorkspaceDestroyed is posted after a workspace is removed. Index is the
// last valid index after the removal.
type WorkspaceDestroyed struct {
	Screen int
	Index  int
}

// WorkspaceChanged is posted after the current workspace changes.
type WorkspaceChanged struct {
	Screen   int
	Index    int
	Previous int
}

// WorkspaceRenamed is posted after a rename or a restored name.
type WorkspaceRenamed struct {
	Screen int
	Index  int
	Name   string
}

// FocusChanged is posted when the focused window of a screen changes.
// Window is window.None when focus went to the root.
type FocusChanged struct {
	Screen int
	Window window.Handle
}
