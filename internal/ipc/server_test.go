package ipc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/heads"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/wm"
	"github.com/1broseidon/tilewm/internal/workspace"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type harness struct {
	loop   *wm.Loop
	rec    *platform.Recorder
	server *Server
	client *Client
}

// newHarness starts an engine loop with one 1280x800 head and an IPC
// server on a short temporary socket path.
func newHarness(t *testing.T) *harness {
	t.Helper()
	screen := geom.Rect{Width: 1280, Height: 800}
	rec := platform.NewRecorder(screen)
	e := wm.New(rec, nil, quiet, wm.Options{Initial: 2})
	if _, err := e.AddScreen(heads.SingleHead(screen), nil); err != nil {
		t.Fatalf("AddScreen: %v", err)
	}
	loop := wm.NewLoop(e, quiet)

	// Unix socket paths are length limited; t.TempDir can be too deep.
	dir, err := os.MkdirTemp("", "tilewm-ipc")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	sock := filepath.Join(dir, "s.sock")

	srv, err := NewServer(ServerConfig{
		SocketPath:  sock,
		SessionPath: filepath.Join(dir, "session.yaml"),
		Logger:      quiet,
	}, loop)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)
	go func() { loop.Serve(ctx); done <- struct{}{} }()
	go func() { srv.Serve(ctx); done <- struct{}{} }()
	t.Cleanup(func() {
		cancel()
		<-done
		<-done
	})

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not start listening")
	}
	return &harness{loop: loop, rec: rec, server: srv, client: NewClientAt(sock)}
}

func (h *harness) manage(t *testing.T, c platform.Client) {
	t.Helper()
	h.rec.AddClient(c)
	err := h.loop.Do(context.Background(), func(e *wm.Engine) error {
		w := e.Screen(0).Manage(c)
		e.Screen(0).SetFocusTo(w.Handle)
		return nil
	})
	if err != nil {
		t.Fatalf("manage: %v", err)
	}
}

func TestPingAndStatus(t *testing.T) {
	h := newHarness(t)
	if err := h.client.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	h.manage(t, platform.Client{ID: 7, AppID: "xterm", Bounds: geom.Rect{X: 10, Y: 10, Width: 300, Height: 200}})

	st, err := h.client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.Screens != 1 || st.Heads != 1 || st.Windows != 1 || st.Workspaces != 2 {
		t.Fatalf("status = %+v", st)
	}
	if st.Focused != 7 {
		t.Fatalf("focused = %d, want 7", st.Focused)
	}
}

func TestMaximizeFocusedWindow(t *testing.T) {
	h := newHarness(t)
	h.manage(t, platform.Client{ID: 7, Bounds: geom.Rect{X: 10, Y: 10, Width: 300, Height: 200}})

	res, err := h.client.Maximize(0, []string{"full"}, true)
	if err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	if !res.Applied || res.Window == nil {
		t.Fatalf("result = %+v", res)
	}
	if res.Window.Maximized == "" {
		t.Fatalf("window not reported maximized: %+v", res.Window)
	}

	res, err = h.client.WindowCommand(CommandUnmaximize, 7)
	if err != nil {
		t.Fatalf("unmaximize: %v", err)
	}
	if !res.Applied || res.Window.Maximized != "" {
		t.Fatalf("unmaximize result = %+v", res.Window)
	}
}

func TestMaximizeRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	h.manage(t, platform.Client{ID: 7, Bounds: geom.Rect{Width: 300, Height: 200}})

	tests := []struct {
		name string
		win  uint32
		dirs []string
		want string
	}{
		{"no directions", 0, nil, "directions is required"},
		{"unknown direction", 0, []string{"sideways"}, "unknown maximize direction"},
		{"unknown window", 99, []string{"full"}, "unknown window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.client.Maximize(tt.win, tt.dirs, false)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestWorkspaceCommands(t *testing.T) {
	h := newHarness(t)

	ws, err := h.client.WorkspaceCommand(CommandWorkspaceNew, WorkspacePayload{})
	if err != nil {
		t.Fatalf("workspace-new: %v", err)
	}
	if ws.Index != 2 {
		t.Fatalf("new index = %d, want 2", ws.Index)
	}

	if _, err := h.client.WorkspaceCommand(CommandWorkspaceRename, WorkspacePayload{Workspace: "3", Name: "mail"}); err != nil {
		t.Fatalf("workspace-rename: %v", err)
	}
	ws, err = h.client.ChangeWorkspace("mail")
	if err != nil {
		t.Fatalf("workspace-change: %v", err)
	}
	if ws.Index != 2 || ws.Name != "mail" {
		t.Fatalf("change = %+v", ws)
	}

	list, err := h.client.ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(list.Workspaces) != 3 || !list.Workspaces[2].Current {
		t.Fatalf("workspaces = %+v", list.Workspaces)
	}

	if _, err := h.client.ChangeWorkspace("nope"); err == nil {
		t.Fatalf("change to unknown workspace succeeded")
	}
}

func TestMoveToWorkspaceAndListWindows(t *testing.T) {
	h := newHarness(t)
	h.manage(t, platform.Client{ID: 7, Title: "editor", Bounds: geom.Rect{Width: 300, Height: 200}})

	if _, err := h.client.WorkspaceCommand(CommandMoveToWorkspace, WorkspacePayload{Workspace: "2", Window: 7}); err != nil {
		t.Fatalf("move-to-workspace: %v", err)
	}
	list, err := h.client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(list.Windows) != 1 || list.Windows[0].Workspace != 1 || list.Windows[0].Title != "editor" {
		t.Fatalf("windows = %+v", list.Windows)
	}
	if h.rec.FrameMapped(7) {
		t.Fatalf("window moved off the current workspace is still mapped")
	}
}

func TestSelectWindowSwitchesToItsWorkspace(t *testing.T) {
	h := newHarness(t)
	h.manage(t, platform.Client{ID: 7, Bounds: geom.Rect{Width: 300, Height: 200}})
	if _, err := h.client.WorkspaceCommand(CommandMoveToWorkspace, WorkspacePayload{Workspace: "2", Window: 7}); err != nil {
		t.Fatalf("move-to-workspace: %v", err)
	}

	res, err := h.client.WindowCommand(CommandSelect, 7)
	if err != nil {
		t.Fatalf("select-window: %v", err)
	}
	if !res.Applied {
		t.Fatalf("select-window not applied")
	}
	st, err := h.client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.Workspace != 1 || st.Focused != 7 {
		t.Fatalf("status = %+v, want workspace 1 focused 7", st)
	}
	if !h.rec.FrameMapped(7) {
		t.Fatalf("selected window is not mapped")
	}
}

func TestSessionSave(t *testing.T) {
	h := newHarness(t)
	data, err := h.client.SaveSession()
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	doc, err := workspace.ReadSession(data.Path)
	if err != nil {
		t.Fatalf("ReadSession: %v", err)
	}
	if len(doc.Workspaces) != 2 || data.Workspaces != 2 {
		t.Fatalf("saved %d workspaces, reported %d", len(doc.Workspaces), data.Workspaces)
	}
}

func TestHandleAssignsIDAndRejectsUnknown(t *testing.T) {
	h := newHarness(t)

	resp := h.server.Handle(context.Background(), &Request{ID: "abc", Command: "frobnicate"})
	if resp.Status != StatusError || resp.ID != "abc" {
		t.Fatalf("response = %+v", resp)
	}

	raw, err := h.client.Send(CommandListWindows, nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	var data WindowsData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Windows == nil {
		t.Fatalf("empty window list encoded as null")
	}
}

func TestParseRequest(t *testing.T) {
	if _, err := ParseRequest([]byte(`{"payload":{}}`)); err == nil {
		t.Fatalf("request without command accepted")
	}
	if _, err := ParseRequest([]byte(`not json`)); err == nil {
		t.Fatalf("garbage accepted")
	}
	req, err := ParseRequest([]byte(`{"id":"1","command":"ping"}`))
	if err != nil || req.Command != CommandPing || req.ID != "1" {
		t.Fatalf("ParseRequest = %+v, %v", req, err)
	}
}
