// Package mcp serves the window manager's commands as MCP tools over
// stdio. Every tool is a thin call through the IPC client, so the server
// runs as a separate process next to the daemon.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilewm/internal/ipc"
)

const (
	ServerName    = "tilewm"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools use.
type Daemon interface {
	ListWindows() (*ipc.WindowsData, error)
	ListWorkspaces() (*ipc.WorkspacesData, error)
	Maximize(win uint32, directions []string, keyboard bool) (*ipc.ResultData, error)
	WindowCommand(cmd ipc.CommandType, win uint32) (*ipc.ResultData, error)
	ChangeWorkspace(ref string) (*ipc.WorkspaceData, error)
}

// Server is the MCP server for tilewm.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		daemon: daemon,
		logger: logger.With("package", "mcp"),
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server starting", "transport", "stdio")
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List managed windows, most recently focused first, with their workspace, geometry and maximize/shade/iconify state. Optionally filter by workspace number or application id.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List workspaces with their names, window counts and which one is current.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Maximize a window in one or more directions. Halves tile the window to one side of its head; maximus grows it into the largest area free of other windows. Requesting the current state again restores the previous geometry.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_state",
		Description: "Change a window's visibility state: unmaximize, shade, unshade, iconify, deiconify, toggle fullscreen, hide every other application, or select the window (switch to its workspace and focus it).",
	}, s.handleSetWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "change_workspace",
		Description: "Switch to a workspace by 1-based number or name.",
	}, s.handleChangeWorkspace)
}
