package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/tilewm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing           CommandType = "ping"
	CommandStatus         CommandType = "status"
	CommandListWindows    CommandType = "list-windows"
	CommandListWorkspaces CommandType = "list-workspaces"

	CommandMaximize   CommandType = "maximize"
	CommandUnmaximize CommandType = "unmaximize"
	CommandShade      CommandType = "shade"
	CommandUnshade    CommandType = "unshade"
	CommandIconify    CommandType = "iconify"
	CommandDeiconify  CommandType = "deiconify"
	CommandFullscreen CommandType = "fullscreen"
	CommandHideApp    CommandType = "hide-app"
	CommandUnhideApp  CommandType = "unhide-app"
	CommandHideOthers CommandType = "hide-others"
	CommandShowAll    CommandType = "show-all"
	CommandSelect     CommandType = "select-window"

	CommandWorkspaceNew      CommandType = "workspace-new"
	CommandWorkspaceDelete   CommandType = "workspace-delete"
	CommandWorkspaceChange   CommandType = "workspace-change"
	CommandWorkspaceRelative CommandType = "workspace-relative"
	CommandWorkspaceRename   CommandType = "workspace-rename"
	CommandMoveToWorkspace   CommandType = "move-to-workspace"

	CommandSessionSave CommandType = "session-save"
)

// Commands lists every command the server understands.
func Commands() []CommandType {
	return []CommandType{
		CommandPing, CommandStatus, CommandListWindows, CommandListWorkspaces,
		CommandMaximize, CommandUnmaximize, CommandShade, CommandUnshade,
		CommandIconify, CommandDeiconify, CommandFullscreen,
		CommandHideApp, CommandUnhideApp, CommandHideOthers, CommandShowAll, CommandSelect,
		CommandWorkspaceNew, CommandWorkspaceDelete, CommandWorkspaceChange,
		CommandWorkspaceRelative, CommandWorkspaceRename, CommandMoveToWorkspace,
		CommandSessionSave,
	}
}

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server. An empty ID
// is filled in by the server.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	ID     string          `json:"id,omitempty"`
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WindowPayload names a window by client id. Zero means the focused
// window.
type WindowPayload struct {
	Window uint32 `json:"window,omitempty"`
}

// MaximizePayload is the payload of maximize. Directions use the names
// "left", "right", "top", "bottom", "vertical", "horizontal", "full" and
// "maximus", and may be joined with "|".
type MaximizePayload struct {
	Window     uint32   `json:"window,omitempty"`
	Directions []string `json:"directions"`
	Keyboard   bool     `json:"keyboard,omitempty"`
}

// AppPayload names an application by app id. Empty means the app of the
// focused window.
type AppPayload struct {
	App            string `json:"app,omitempty"`
	Miniwindows    bool   `json:"miniwindows,omitempty"`
	BringToCurrent bool   `json:"bring_to_current,omitempty"`
}

// WorkspacePayload addresses a workspace. Workspace is a 1-based number
// or a name; Amount is used by workspace-relative, Name by
// workspace-rename, Window by move-to-workspace. Delete without a
// workspace removes the last one.
type WorkspacePayload struct {
	Workspace string `json:"workspace,omitempty"`
	Amount    int    `json:"amount,omitempty"`
	Name      string `json:"name,omitempty"`
	Window    uint32 `json:"window,omitempty"`
}

// StatusData represents the data returned by status
type StatusData struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Screens       int    `json:"screens"`
	Heads         int    `json:"heads"`
	Workspace     int    `json:"workspace"`
	WorkspaceName string `json:"workspace_name"`
	Workspaces    int    `json:"workspaces"`
	Windows       int    `json:"windows"`
	Focused       uint32 `json:"focused,omitempty"`
}

type WindowsData struct {
	Windows []wm.WindowInfo `json:"windows"`
}

type WorkspacesData struct {
	Workspaces []wm.WorkspaceInfo `json:"workspaces"`
}

// ResultData is returned by state transitions. Applied is false when the
// engine treated the request as a no-op.
type ResultData struct {
	Applied bool           `json:"applied"`
	Window  *wm.WindowInfo `json:"window,omitempty"`
}

// WorkspaceData is returned by workspace commands.
type WorkspaceData struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// SessionData is returned by session-save.
type SessionData struct {
	Path       string `json:"path"`
	Workspaces int    `json:"workspaces"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: command is required")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// decodePayload unmarshals an optional payload into v.
func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
