package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/wm"
)

type fakeDaemon struct {
	windows    []wm.WindowInfo
	maximized  []string
	commands   []ipc.CommandType
	changed    string
	changeErr  error
	workspaces []wm.WorkspaceInfo
}

func (f *fakeDaemon) ListWindows() (*ipc.WindowsData, error) {
	return &ipc.WindowsData{Windows: f.windows}, nil
}

func (f *fakeDaemon) ListWorkspaces() (*ipc.WorkspacesData, error) {
	return &ipc.WorkspacesData{Workspaces: f.workspaces}, nil
}

func (f *fakeDaemon) Maximize(win uint32, directions []string, keyboard bool) (*ipc.ResultData, error) {
	f.maximized = append(f.maximized, directions...)
	return &ipc.ResultData{Applied: true, Window: &wm.WindowInfo{Client: win, Maximized: "horizontal|vertical"}}, nil
}

func (f *fakeDaemon) WindowCommand(cmd ipc.CommandType, win uint32) (*ipc.ResultData, error) {
	f.commands = append(f.commands, cmd)
	return &ipc.ResultData{Applied: true}, nil
}

func (f *fakeDaemon) ChangeWorkspace(ref string) (*ipc.WorkspaceData, error) {
	f.changed = ref
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	return &ipc.WorkspaceData{Index: 1, Name: "web"}, nil
}

func newTestServer(d *fakeDaemon) *Server {
	return NewServer(d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func intPtr(i int) *int { return &i }

func TestListWindowsFilters(t *testing.T) {
	d := &fakeDaemon{windows: []wm.WindowInfo{
		{Client: 1, App: "xterm", Workspace: 0},
		{Client: 2, App: "firefox", Workspace: 1},
		{Client: 3, App: "xterm", Workspace: 1},
		{Client: 4, App: "clock", Workspace: 0, Omnipresent: true},
	}}
	s := newTestServer(d)

	tests := []struct {
		name string
		in   ListWindowsInput
		want []uint32
	}{
		{"all", ListWindowsInput{}, []uint32{1, 2, 3, 4}},
		{"by workspace", ListWindowsInput{Workspace: intPtr(2)}, []uint32{2, 3, 4}},
		{"by app", ListWindowsInput{App: "xterm"}, []uint32{1, 3}},
		{"both", ListWindowsInput{Workspace: intPtr(1), App: "xterm"}, []uint32{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListWindows(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("handleListWindows: %v", err)
			}
			var got []uint32
			for _, w := range out.Windows {
				got = append(got, w.Client)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("windows = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("windows = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMaximizeWindowRequiresDirections(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)

	if _, _, err := s.handleMaximizeWindow(context.Background(), nil, MaximizeWindowInput{}); err == nil {
		t.Fatalf("missing directions accepted")
	}
	_, out, err := s.handleMaximizeWindow(context.Background(), nil, MaximizeWindowInput{Window: 9, Directions: []string{"full"}})
	if err != nil {
		t.Fatalf("handleMaximizeWindow: %v", err)
	}
	if !out.Applied || out.Window.Client != 9 || len(d.maximized) != 1 {
		t.Fatalf("out = %+v, forwarded = %v", out, d.maximized)
	}
}

func TestSetWindowStateMapsToCommands(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)

	for state, cmd := range windowStates {
		d.commands = nil
		if _, _, err := s.handleSetWindowState(context.Background(), nil, SetWindowStateInput{State: state}); err != nil {
			t.Fatalf("%s: %v", state, err)
		}
		if len(d.commands) != 1 || d.commands[0] != cmd {
			t.Fatalf("%s forwarded %v, want %s", state, d.commands, cmd)
		}
	}
	if _, _, err := s.handleSetWindowState(context.Background(), nil, SetWindowStateInput{State: "explode"}); err == nil {
		t.Fatalf("unknown state accepted")
	}
}

func TestChangeWorkspaceReportsOneBasedIndex(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)

	_, out, err := s.handleChangeWorkspace(context.Background(), nil, ChangeWorkspaceInput{Workspace: "web"})
	if err != nil {
		t.Fatalf("handleChangeWorkspace: %v", err)
	}
	if out.Index != 2 || out.Name != "web" || d.changed != "web" {
		t.Fatalf("out = %+v, forwarded %q", out, d.changed)
	}

	d.changeErr = errors.New("daemon error: workspace \"x\": invalid workspace index")
	if _, _, err := s.handleChangeWorkspace(context.Background(), nil, ChangeWorkspaceInput{Workspace: "x"}); err == nil {
		t.Fatalf("daemon error swallowed")
	}
}

func TestToolsAreListed(t *testing.T) {
	s := newTestServer(&fakeDaemon{})
	ctx := context.Background()

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ss, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer ss.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer cs.Close()

	res, err := cs.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := []string{"change_workspace", "list_windows", "list_workspaces", "maximize_window", "set_window_state"}
	if len(names) != len(want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tools = %v, want %v", names, want)
		}
	}
}
