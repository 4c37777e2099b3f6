package mcp

import "github.com/1broseidon/tilewm/internal/wm"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Workspace *int   `json:"workspace,omitempty" jsonschema:"Only list windows on this 1-based workspace number"`
	App       string `json:"app,omitempty" jsonschema:"Only list windows of this application id"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []wm.WindowInfo `json:"windows"`
}

// ListWorkspacesInput is the input for the list_workspaces tool.
type ListWorkspacesInput struct{}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []wm.WorkspaceInfo `json:"workspaces"`
}

// MaximizeWindowInput is the input for the maximize_window tool.
type MaximizeWindowInput struct {
	Window     uint32   `json:"window,omitempty" jsonschema:"Client window id from list_windows (default: the focused window)"`
	Directions []string `json:"directions" jsonschema:"Maximize directions: left, right, top, bottom, vertical, horizontal, full or maximus. Repeating the current directions restores the window."`
}

// WindowResult describes the outcome of a window state change.
type WindowResult struct {
	Applied bool           `json:"applied"`
	Window  *wm.WindowInfo `json:"window,omitempty"`
}

// SetWindowStateInput is the input for the set_window_state tool.
type SetWindowStateInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"Client window id from list_windows (default: the focused window)"`
	State  string `json:"state" jsonschema:"One of: unmaximize, shade, unshade, iconify, deiconify, fullscreen, hide-others, select"`
}

// ChangeWorkspaceInput is the input for the change_workspace tool.
type ChangeWorkspaceInput struct {
	Workspace string `json:"workspace" jsonschema:"Target workspace as a 1-based number or a workspace name"`
}

// ChangeWorkspaceOutput is the output for the change_workspace tool.
type ChangeWorkspaceOutput struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}
