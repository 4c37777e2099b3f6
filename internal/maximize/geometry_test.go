package maximize

import (
	"testing"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/window"
)

var head = geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

func newWindow() *window.Window {
	return &window.Window{
		X: 100, Y: 100, Width: 400, Height: 300,
		Decor: window.Decor{Titlebar: 20, Resizebar: 5, Border: 1},
	}
}

func area() Area {
	return Area{Usable: head, Total: head, SavedOnHead: true}
}

func TestMaximizeGeometry(t *testing.T) {
	tests := []struct {
		name string
		dirs window.MaxFlags
		want geom.Rect
	}{
		{"horizontal", H, geom.Rect{X: 0, Y: 100, Width: 1918, Height: 300}},
		{"vertical", V, geom.Rect{X: 100, Y: 0, Width: 400, Height: 1053}},
		{"full", H | V, geom.Rect{X: 0, Y: 0, Width: 1918, Height: 1053}},
		{"left half", L | V, geom.Rect{X: 0, Y: 0, Width: 958, Height: 1053}},
		{"right half", R | V, geom.Rect{X: 960, Y: 0, Width: 958, Height: 1053}},
		{"bottom half", B | H, geom.Rect{X: 0, Y: 540, Width: 1918, Height: 513}},
		{"top left quarter", L | T, geom.Rect{X: 0, Y: 0, Width: 958, Height: 513}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWindow()
			got, ok := Maximize(w, tt.dirs, area())
			if !ok {
				t.Fatalf("Maximize() refused a resizable window")
			}
			if got != tt.want {
				t.Errorf("Maximize(%s) = %v, want %v", tt.dirs, got, tt.want)
			}
			if w.Maximized != tt.dirs {
				t.Errorf("Maximized = %s, want %s", w.Maximized, tt.dirs)
			}
			if w.OldGeometry != (geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}) {
				t.Errorf("OldGeometry = %v", w.OldGeometry)
			}
		})
	}
}

func TestMaximizeFixedWindow(t *testing.T) {
	w := newWindow()
	w.Attr.Fixed = true
	if _, ok := Maximize(w, H|V, area()); ok {
		t.Fatalf("Maximize() resized a fixed window")
	}
	if !w.Maximized.Empty() || w.HorizontalSaved() {
		t.Fatalf("fixed window state changed: %s %v", w.Maximized, w.OldGeometry)
	}
}

func TestMaximizeRespectsSizeHints(t *testing.T) {
	w := newWindow()
	w.Hints.MaxWidth = 800
	got, _ := Maximize(w, H|V, area())
	if got.Width != 800 {
		t.Fatalf("width = %d, want 800", got.Width)
	}
}

func TestMaximusAndUnmaximize(t *testing.T) {
	w := &window.Window{
		X: 800, Y: 400, Width: 300, Height: 175,
		Decor: window.Decor{Titlebar: 20, Resizebar: 5, Border: 1},
	}
	a := area()
	a.Obstructors = []geom.Rect{{X: 700, Y: 0, Width: 500, Height: 100}}

	got, _ := Maximize(w, MX, a)
	want := geom.Rect{X: 0, Y: 101, Width: 1918, Height: 949}
	if got != want {
		t.Fatalf("Maximize(maximus) = %v, want %v", got, want)
	}
	if w.MaximusPos != (geom.Point{X: 0, Y: 101}) || !w.OldMaximized.Has(MX) {
		t.Fatalf("maximus bookkeeping = %v %s", w.MaximusPos, w.OldMaximized)
	}

	// The user drags the tiled window 10px right before unmaximizing.
	w.X += 10
	r, ok := Unmaximize(w, true)
	if !ok {
		t.Fatalf("Unmaximize() reported not maximized")
	}
	if r != (geom.Rect{X: 810, Y: 400, Width: 300, Height: 175}) {
		t.Fatalf("Unmaximize() = %v", r)
	}
	if !w.Maximized.Empty() || !w.OldMaximized.Empty() {
		t.Fatalf("flags not cleared: %s %s", w.Maximized, w.OldMaximized)
	}
}

func TestUnmaximizeOtherHeadKeepsPosition(t *testing.T) {
	w := newWindow()
	Maximize(w, H|V, area())
	w.X, w.Y = 2000, 0
	r, _ := Unmaximize(w, false)
	if r != (geom.Rect{X: 2000, Y: 0, Width: 400, Height: 300}) {
		t.Fatalf("Unmaximize() = %v", r)
	}
}

func TestUnmaximizeNotMaximized(t *testing.T) {
	w := newWindow()
	if _, ok := Unmaximize(w, true); ok {
		t.Fatalf("Unmaximize() of a normal window reported a change")
	}
}

func TestUpdateSavedGeometry(t *testing.T) {
	w := newWindow()
	Maximize(w, H, area())
	w.Y = 250
	UpdateSavedGeometry(w)
	if w.OldGeometry.Y != 250 || w.OldGeometry.X != 100 {
		t.Fatalf("OldGeometry = %v, want y updated only", w.OldGeometry)
	}

	Maximize(w, H|V, area())
	w.Y = 5
	UpdateSavedGeometry(w)
	if w.OldGeometry.Y != 250 {
		t.Fatalf("fully maximized window updated saved geometry: %v", w.OldGeometry)
	}
}

// engine applies a decision the way the window manager does.
func engine(w *window.Window, req window.MaxFlags, policy Policy) {
	d := Decide(Request{Current: w.Maximized, Old: w.OldMaximized, Requested: req}, policy)
	if d.ResetFirst || d.Action == ActionUnmaximize {
		Unmaximize(w, true)
	}
	if d.Action == ActionMaximize {
		Maximize(w, d.Flags, area())
	}
}

func TestToggleRoundTrip(t *testing.T) {
	sequences := []struct {
		name   string
		d1, d2 window.MaxFlags
		policy Policy
	}{
		{"full then left", H | V, L | V, Policy{}},
		{"left then full", L | V, H | V, Policy{}},
		{"full then left alternate", H | V, L | V, Policy{AltHalfMaximize: true}},
		{"quarter then full", L | T, H | V, Policy{}},
	}
	for _, s := range sequences {
		t.Run(s.name, func(t *testing.T) {
			w := newWindow()
			engine(w, s.d1, s.policy)
			first := w.Geometry()
			engine(w, s.d2, s.policy)
			engine(w, s.d1, s.policy)
			if w.Geometry() != first {
				t.Fatalf("geometry after round trip = %v, want %v", w.Geometry(), first)
			}
		})
	}
}

func TestUnmaximizeRestoresFirstSave(t *testing.T) {
	original := geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	policies := []Policy{{}, {AltHalfMaximize: true}}
	for _, p := range policies {
		w := newWindow()
		engine(w, H, p)
		engine(w, V, p)
		engine(w, L|V, p)
		Unmaximize(w, true)
		if w.Geometry() != original {
			t.Errorf("policy %+v: geometry = %v, want %v", p, w.Geometry(), original)
		}
	}
}

func TestRepeatRequestRestoresGeometry(t *testing.T) {
	w := newWindow()
	engine(w, H, Policy{})
	engine(w, H, Policy{})
	if !w.Maximized.Empty() {
		t.Fatalf("Maximized = %s, want none", w.Maximized)
	}
	if w.Geometry() != (geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}) {
		t.Fatalf("geometry = %v", w.Geometry())
	}
}
