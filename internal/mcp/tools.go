package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/wm"
)

var windowStates = map[string]ipc.CommandType{
	"unmaximize":  ipc.CommandUnmaximize,
	"shade":       ipc.CommandShade,
	"unshade":     ipc.CommandUnshade,
	"iconify":     ipc.CommandIconify,
	"deiconify":   ipc.CommandDeiconify,
	"fullscreen":  ipc.CommandFullscreen,
	"hide-others": ipc.CommandHideOthers,
	"select":      ipc.CommandSelect,
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: make([]wm.WindowInfo, 0, len(data.Windows))}
	for _, w := range data.Windows {
		if args.Workspace != nil && w.Workspace != *args.Workspace-1 && !w.Omnipresent {
			continue
		}
		if args.App != "" && w.App != args.App {
			continue
		}
		out.Windows = append(out.Windows, w)
	}
	return nil, out, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWorkspacesInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	data, err := s.daemon.ListWorkspaces()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}
	return nil, ListWorkspacesOutput{Workspaces: data.Workspaces}, nil
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MaximizeWindowInput) (*mcpsdk.CallToolResult, WindowResult, error) {
	if len(args.Directions) == 0 {
		return nil, WindowResult{}, fmt.Errorf("maximize_window: directions is required")
	}
	res, err := s.daemon.Maximize(args.Window, args.Directions, false)
	if err != nil {
		return nil, WindowResult{}, err
	}
	s.logger.Debug("maximize_window", "window", args.Window, "directions", args.Directions, "applied", res.Applied)
	return nil, WindowResult{Applied: res.Applied, Window: res.Window}, nil
}

func (s *Server) handleSetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowStateInput) (*mcpsdk.CallToolResult, WindowResult, error) {
	cmd, ok := windowStates[args.State]
	if !ok {
		return nil, WindowResult{}, fmt.Errorf("set_window_state: unknown state %q", args.State)
	}
	res, err := s.daemon.WindowCommand(cmd, args.Window)
	if err != nil {
		return nil, WindowResult{}, err
	}
	s.logger.Debug("set_window_state", "window", args.Window, "state", args.State, "applied", res.Applied)
	return nil, WindowResult{Applied: res.Applied, Window: res.Window}, nil
}

func (s *Server) handleChangeWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args ChangeWorkspaceInput) (*mcpsdk.CallToolResult, ChangeWorkspaceOutput, error) {
	if args.Workspace == "" {
		return nil, ChangeWorkspaceOutput{}, fmt.Errorf("change_workspace: workspace is required")
	}
	data, err := s.daemon.ChangeWorkspace(args.Workspace)
	if err != nil {
		return nil, ChangeWorkspaceOutput{}, err
	}
	return nil, ChangeWorkspaceOutput{Index: data.Index + 1, Name: data.Name}, nil
}
