package hotkeys

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/heads"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
	"github.com/1broseidon/tilewm/internal/wm"
)

func TestEveryBindingNameHasAnAction(t *testing.T) {
	actions := Actions()
	for _, name := range config.HotkeyNames() {
		if actions[name] == nil {
			t.Errorf("binding %q has no action", name)
		}
	}
	if len(actions) != len(config.HotkeyNames()) {
		t.Errorf("actions = %d, binding names = %d", len(actions), len(config.HotkeyNames()))
	}
}

func newEngine(t *testing.T) (*wm.Engine, *window.Window) {
	t.Helper()
	screen := geom.Rect{Width: 1280, Height: 800}
	rec := platform.NewRecorder(screen)
	e := wm.New(rec, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), wm.Options{Initial: 3})
	s, err := e.AddScreen(heads.SingleHead(screen), nil)
	if err != nil {
		t.Fatalf("AddScreen: %v", err)
	}
	c := platform.Client{ID: 5, Bounds: geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}}
	rec.AddClient(c)
	w := s.Manage(c)
	s.SetFocusTo(w.Handle)
	return e, w
}

func TestMaximizeActions(t *testing.T) {
	tests := []struct {
		name string
		want window.MaxFlags
	}{
		{config.HotkeyMaximizeLeft, window.MaxLeftHalf | window.MaxVertical},
		{config.HotkeyMaximizeBottom, window.MaxBottomHalf | window.MaxHorizontal},
		{config.HotkeyMaximizeFull, window.MaxHorizontal | window.MaxVertical},
		{config.HotkeyMaximizeVertical, window.MaxVertical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, w := newEngine(t)
			if err := Actions()[tt.name](e); err != nil {
				t.Fatalf("action: %v", err)
			}
			if w.Maximized&window.MaxDirections != tt.want {
				t.Fatalf("Maximized = %s, want %s", w.Maximized, tt.want)
			}
		})
	}
}

func TestShadeActionToggles(t *testing.T) {
	e, w := newEngine(t)
	shade := Actions()[config.HotkeyShade]

	shade(e)
	if !w.State.Shaded {
		t.Fatalf("first press did not shade")
	}
	shade(e)
	if w.State.Shaded {
		t.Fatalf("second press did not unshade")
	}
}

func TestWorkspaceActions(t *testing.T) {
	e, _ := newEngine(t)
	s := e.Screen(0)

	Actions()[config.HotkeyWorkspaceNext](e)
	if s.Current() != 1 {
		t.Fatalf("current after next = %d, want 1", s.Current())
	}
	Actions()[config.HotkeyWorkspacePrev](e)
	if s.Current() != 0 {
		t.Fatalf("current after prev = %d, want 0", s.Current())
	}
}

func TestActionsWithoutFocusAreNoops(t *testing.T) {
	screen := geom.Rect{Width: 800, Height: 600}
	e := wm.New(platform.NewRecorder(screen), nil, slog.New(slog.NewTextHandler(io.Discard, nil)), wm.Options{})
	if _, err := e.AddScreen(heads.SingleHead(screen), nil); err != nil {
		t.Fatalf("AddScreen: %v", err)
	}
	for _, name := range []string{config.HotkeyMaximus, config.HotkeyIconify, config.HotkeyFullscreen} {
		if err := Actions()[name](e); err != nil {
			t.Errorf("%s without focus: %v", name, err)
		}
	}
}
