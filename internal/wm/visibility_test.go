package wm

import (
	"strings"
	"testing"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/notify"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
)

func TestIconifyMovesFocusToPreviousWindow(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.manage(platform.Client{})
	b := f.manage(platform.Client{})

	if !f.s.Iconify(b.Handle) {
		t.Fatalf("Iconify returned false")
	}
	if f.rec.FrameMapped(b.Client) || f.rec.ClientMapped(b.Client) {
		t.Fatalf("iconified window still mapped")
	}
	if _, ok := f.rec.IconAt(b.Client); !ok {
		t.Fatalf("miniwindow not shown")
	}
	if f.focused() != a.Handle || f.rec.Focused() != a.Client {
		t.Fatalf("focus = %d (adapter %d), want %d", f.focused(), f.rec.Focused(), a.Handle)
	}
	if !f.sawReason(notify.ReasonIconify) {
		t.Fatalf("no iconify notification, saw %v", f.reasons)
	}
}

func TestIconifyInSloppyModeFocusesRoot(t *testing.T) {
	f := newFixture(t, Options{FocusMode: "sloppy"})
	f.manage(platform.Client{})
	b := f.manage(platform.Client{})

	f.s.Iconify(b.Handle)
	if f.focused() != window.None {
		t.Fatalf("focused = %d, want none", f.focused())
	}
}

func TestDeiconifyRestoresAndFocuses(t *testing.T) {
	f := newFixture(t, Options{})
	f.manage(platform.Client{})
	b := f.manage(platform.Client{})
	f.s.Iconify(b.Handle)

	if !f.s.Deiconify(b.Handle) {
		t.Fatalf("Deiconify returned false")
	}
	if !f.rec.FrameMapped(b.Client) || !f.rec.ClientMapped(b.Client) {
		t.Fatalf("deiconified window not mapped")
	}
	if _, ok := f.rec.IconAt(b.Client); ok {
		t.Fatalf("miniwindow still shown")
	}
	if f.focused() != b.Handle {
		t.Fatalf("focused = %d, want %d", f.focused(), b.Handle)
	}
}

func TestDeiconifyPullsWindowToCurrentWorkspace(t *testing.T) {
	f := newFixture(t, Options{})
	w := f.manage(platform.Client{})
	f.s.Iconify(w.Handle)
	f.s.Change(1)

	f.s.Deiconify(w.Handle)
	if w.Workspace != 1 {
		t.Fatalf("workspace = %d, want 1", w.Workspace)
	}
	if !f.rec.ClientMapped(w.Client) {
		t.Fatalf("window not mapped on the current workspace")
	}
}

func TestDeiconifyMovesWindowThatIsNotMiniaturized(t *testing.T) {
	f := newFixture(t, Options{})
	w := f.manage(platform.Client{})
	f.s.Change(1)

	if f.s.Deiconify(w.Handle) {
		t.Fatalf("Deiconify of a normal window returned true")
	}
	if w.Workspace != 1 {
		t.Fatalf("workspace = %d, want 1", w.Workspace)
	}
	if !f.rec.FrameMapped(w.Client) {
		t.Fatalf("moved window not mapped on the current workspace")
	}
}

func TestIconifyCascadesToTransients(t *testing.T) {
	f := newFixture(t, Options{})
	owner := f.manage(platform.Client{ID: 1})
	child := f.manage(platform.Client{ID: 2, TransientFor: 1})

	f.s.Iconify(owner.Handle)
	if !child.State.Miniaturized || f.rec.FrameMapped(child.Client) {
		t.Fatalf("transient not unmapped with its owner")
	}
	if !f.sawReason(notify.ReasonIconifyTransient) {
		t.Fatalf("no iconify-transient notification, saw %v", f.reasons)
	}
	if child.HasIcon {
		t.Fatalf("transient got its own miniwindow")
	}

	// The transient cannot be iconified on its own while the owner is.
	if f.s.Iconify(child.Handle) {
		t.Fatalf("iconify of a transient with a miniaturized owner succeeded")
	}

	f.s.Deiconify(owner.Handle)
	if child.State.Miniaturized || !f.rec.ClientMapped(child.Client) {
		t.Fatalf("transient not restored with its owner")
	}
}

func TestDeiconifyTransientRestoresOwner(t *testing.T) {
	f := newFixture(t, Options{})
	owner := f.manage(platform.Client{ID: 1})
	child := f.manage(platform.Client{ID: 2, TransientFor: 1})
	f.s.Iconify(owner.Handle)

	if !f.s.Deiconify(child.Handle) {
		t.Fatalf("Deiconify(child) returned false")
	}
	if owner.State.Miniaturized {
		t.Fatalf("owner still miniaturized")
	}
	if f.focused() != child.Handle {
		t.Fatalf("focused = %d, want the transient %d", f.focused(), child.Handle)
	}
}

func TestTransientCycleIsRejected(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.manage(platform.Client{ID: 1})
	b := f.manage(platform.Client{ID: 2, TransientFor: 1})
	a.TransientFor = b.Handle

	if f.s.Iconify(a.Handle) {
		t.Fatalf("Iconify on a cyclic owner chain succeeded")
	}
	if a.State.Miniaturized || b.State.Miniaturized {
		t.Fatalf("window state changed on a cyclic chain")
	}
	if !strings.Contains(f.logs.String(), "transient owner chain does not terminate") {
		t.Fatalf("expected a warning, logs:\n%s", f.logs.String())
	}
}

func TestIconifyWindowDestroyedDuringEvents(t *testing.T) {
	f := newFixture(t, Options{})
	w := f.manage(platform.Client{})
	f.rec.OnPendingEvents = func() { f.rec.Destroy(w.Client) }

	if f.s.Iconify(w.Handle) {
		t.Fatalf("Iconify reported success for a destroyed window")
	}
	if f.s.Window(w.Handle) != nil {
		t.Fatalf("destroyed window still managed")
	}
	if f.sawReason(notify.ReasonIconify) {
		t.Fatalf("iconify notification after the window vanished")
	}
}

func TestShadeFrameHeight(t *testing.T) {
	f := newFixture(t, Options{Decor: window.Decor{Titlebar: 20, Resizebar: 5, Border: 1}})
	w := f.manage(platform.Client{})

	f.s.Shade(w.Handle)
	if got := f.rec.FrameHeight(w.Client); got != 19 {
		t.Fatalf("shaded frame height = %d, want 19", got)
	}
	if !f.rec.FrameMapped(w.Client) || f.rec.ClientMapped(w.Client) {
		t.Fatalf("shaded window should show its frame only")
	}
	if f.s.Shade(w.Handle) {
		t.Fatalf("second Shade reported a change")
	}

	f.s.Unshade(w.Handle)
	if got := f.rec.FrameHeight(w.Client); got != 325 {
		t.Fatalf("unshaded frame height = %d, want 325", got)
	}
	if !f.rec.ClientMapped(w.Client) {
		t.Fatalf("client not mapped after Unshade")
	}
	if f.focused() != w.Handle || f.rec.Focused() != w.Client {
		t.Fatalf("focus not restored after Unshade")
	}
}

func TestFullscreenRoundTrip(t *testing.T) {
	f := newFixture(t, Options{Decor: window.Decor{Titlebar: 20, Resizebar: 5, Border: 1}})
	a := f.manage(platform.Client{})
	b := f.manage(platform.Client{})

	if !f.s.Fullscreen(a.Handle) {
		t.Fatalf("Fullscreen returned false")
	}
	if got := f.rec.Geometry(a.Client); got != screenRect {
		t.Fatalf("fullscreen geometry = %v, want %v", got, screenRect)
	}
	if f.rec.StackingLevel(a.Client) != platform.LevelFullscreen {
		t.Fatalf("level = %v, want fullscreen", f.rec.StackingLevel(a.Client))
	}
	if f.focused() != a.Handle {
		t.Fatalf("fullscreen window not focused")
	}

	f.s.Unfullscreen(a.Handle)
	if got := f.rec.Geometry(a.Client); got != defaultBounds {
		t.Fatalf("geometry after unfullscreen = %v, want %v", got, defaultBounds)
	}
	if f.rec.StackingLevel(a.Client) != platform.LevelNormal {
		t.Fatalf("level = %v, want normal", f.rec.StackingLevel(a.Client))
	}
	if f.focused() != b.Handle {
		t.Fatalf("focused = %d, want the previously focused %d", f.focused(), b.Handle)
	}
}

func TestNestedFullscreenRestoresFocus(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.manage(platform.Client{})
	b := f.manage(platform.Client{})
	c := f.manage(platform.Client{})

	f.s.Fullscreen(a.Handle)
	f.s.Fullscreen(b.Handle)

	steps := []struct {
		leave window.Handle
		want  window.Handle
	}{
		{b.Handle, a.Handle},
		{a.Handle, c.Handle},
	}
	for _, st := range steps {
		if !f.s.Unfullscreen(st.leave) {
			t.Fatalf("Unfullscreen(%d) returned false", st.leave)
		}
		if f.focused() != st.want {
			t.Fatalf("after Unfullscreen(%d) focused = %d, want %d", st.leave, f.focused(), st.want)
		}
	}
}

func TestUnmanageClearsSavedFullscreenFocus(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.manage(platform.Client{})
	b := f.manage(platform.Client{})
	f.s.Fullscreen(a.Handle)

	f.s.Unmanage(b.Handle)
	if a.BFSFocused != window.None {
		t.Fatalf("BFSFocused = %d after the window went away", a.BFSFocused)
	}
}

func TestFullscreenLevelFollowsFocus(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.manage(platform.Client{})
	b := f.manage(platform.Client{Bounds: geom.Rect{X: 10, Y: 10, Width: 50, Height: 50}})
	f.s.Fullscreen(a.Handle)

	f.s.SetFocusTo(b.Handle)
	if f.rec.StackingLevel(a.Client) != platform.LevelNormal {
		t.Fatalf("unfocused fullscreen window kept the fullscreen level")
	}
	f.s.SetFocusTo(a.Handle)
	if f.rec.StackingLevel(a.Client) != platform.LevelFullscreen {
		t.Fatalf("refocused fullscreen window did not regain its level")
	}
}

func TestSelect(t *testing.T) {
	f := newFixture(t, Options{})
	w := f.manage(platform.Client{})
	if !f.s.Select(w.Handle, true) || !w.State.Selected {
		t.Fatalf("Select(true) did not mark the window")
	}
	if f.s.Select(w.Handle, true) {
		t.Fatalf("repeated Select reported a change")
	}
	if !f.sawReason(notify.ReasonSelected) {
		t.Fatalf("no selected notification")
	}
}
