package wm

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/heads"
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
)

var screenRect = geom.Rect{Width: 1920, Height: 1080}

var defaultBounds = geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}

type fixture struct {
	t       *testing.T
	rec     *platform.Recorder
	e       *Engine
	s       *Screen
	logs    *bytes.Buffer
	reasons []string
	next    platform.WindowID
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	rec := platform.NewRecorder(screenRect)
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := New(rec, nil, logger, opts)
	s, err := e.AddScreen(heads.SingleHead(screenRect), nil)
	if err != nil {
		t.Fatalf("AddScreen: %v", err)
	}
	f := &fixture{t: t, rec: rec, e: e, s: s, logs: logs, next: 100}
	notify.Subscribe(e.Bus(), "test", func(ev notify.StateChanged) error {
		f.reasons = append(f.reasons, ev.Reason)
		return nil
	})
	return f
}

// manage adds a client on the current workspace.
func (f *fixture) manage(c platform.Client) *window.Window {
	f.t.Helper()
	return f.manageOn(f.s.Current(), c)
}

func (f *fixture) manageOn(ws int, c platform.Client) *window.Window {
	f.t.Helper()
	if c.ID == 0 {
		f.next++
		c.ID = f.next
	}
	if c.Bounds.Empty() {
		c.Bounds = defaultBounds
	}
	c.Desktop = ws
	f.rec.AddClient(c)
	w := f.s.Manage(c)
	if w == nil {
		f.t.Fatalf("Manage(%d) returned nil", c.ID)
	}
	return w
}

func (f *fixture) focused() window.Handle {
	return f.s.focusedHandle()
}

func (f *fixture) sawReason(reason string) bool {
	for _, r := range f.reasons {
		if r == reason {
			return true
		}
	}
	return false
}

func TestManageFocusesNewWindow(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.manage(platform.Client{AppID: "xterm"})
	b := f.manage(platform.Client{AppID: "xterm"})

	if f.focused() != b.Handle {
		t.Fatalf("focused = %d, want %d", f.focused(), b.Handle)
	}
	if f.rec.Focused() != b.Client {
		t.Fatalf("adapter focus = %d, want %d", f.rec.Focused(), b.Client)
	}
	if a.State.Focused {
		t.Fatalf("previous window kept the focused flag")
	}
	if !f.rec.FrameMapped(a.Client) || !f.rec.ClientMapped(a.Client) {
		t.Fatalf("window a not mapped")
	}
	if got := f.s.Apps(); len(got) != 1 || got[0] != "xterm" {
		t.Fatalf("Apps() = %v", got)
	}
}

func TestManageOtherWorkspaceStaysUnmapped(t *testing.T) {
	f := newFixture(t, Options{})
	w := f.manageOn(2, platform.Client{})
	if w.Workspace != 2 || f.s.Workspaces().Len() != 3 {
		t.Fatalf("workspace = %d, count = %d", w.Workspace, f.s.Workspaces().Len())
	}
	if f.rec.FrameMapped(w.Client) || w.State.Focused {
		t.Fatalf("window on another workspace was mapped or focused")
	}
}

func TestUnmanageMovesFocusBack(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.manage(platform.Client{})
	b := f.manage(platform.Client{})

	f.s.Unmanage(b.Handle)
	if f.s.Window(b.Handle) != nil {
		t.Fatalf("handle still resolves after Unmanage")
	}
	if f.focused() != a.Handle {
		t.Fatalf("focused = %d, want %d", f.focused(), a.Handle)
	}
}

func TestBootstrapManagesOwnersFirst(t *testing.T) {
	rec := platform.NewRecorder(screenRect, platform.Display{ID: 0, Name: "left", Bounds: geom.Rect{Width: 960, Height: 1080}},
		platform.Display{ID: 1, Name: "right", Bounds: geom.Rect{X: 960, Width: 960, Height: 1080}})
	rec.AddClient(platform.Client{ID: 2, TransientFor: 1, Bounds: defaultBounds})
	rec.AddClient(platform.Client{ID: 1, AppID: "gimp", Bounds: defaultBounds})

	e := New(rec, nil, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), Options{})
	s, err := e.Bootstrap(rec, nil)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if s.Heads().Count() != 2 {
		t.Fatalf("heads = %d, want 2", s.Heads().Count())
	}
	owner := s.Windows().ByClient(1)
	child := s.Windows().ByClient(2)
	if owner == nil || child == nil {
		t.Fatalf("clients not managed")
	}
	if child.TransientFor != owner.Handle {
		t.Fatalf("TransientFor = %d, want %d", child.TransientFor, owner.Handle)
	}
	if owner.State.Focused || child.State.Focused {
		t.Fatalf("startup must not focus windows")
	}
}

func TestPumpReapsVanishedWindows(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.manage(platform.Client{})
	b := f.manage(platform.Client{})
	f.rec.Destroy(b.Client)

	f.s.pump()
	if f.s.Window(b.Handle) != nil {
		t.Fatalf("vanished window still managed")
	}
	if f.focused() != a.Handle {
		t.Fatalf("focused = %d, want %d", f.focused(), a.Handle)
	}
	if !strings.Contains(f.logs.String(), "window vanished") {
		t.Fatalf("expected a debug line for the vanished window:\n%s", f.logs.String())
	}
}
