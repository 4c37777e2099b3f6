package window

import (
	"testing"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

func TestProjection(t *testing.T) {
	tests := []struct {
		name    string
		ws      int
		attr    Attributes
		state   State
		current int
		want    Projection
	}{
		{name: "current workspace", ws: 0, current: 0, want: Projection{Frame: true, Client: true}},
		{name: "other workspace", ws: 1, current: 0, want: Projection{}},
		{name: "omnipresent", ws: 1, attr: Attributes{Omnipresent: true}, current: 0, want: Projection{Frame: true, Client: true}},
		{name: "changing workspace", ws: 1, state: State{ChangingWorkspace: true}, current: 0, want: Projection{Frame: true, Client: true}},
		{name: "shaded", ws: 0, state: State{Shaded: true}, want: Projection{Frame: true}},
		{name: "miniaturized", ws: 0, state: State{Miniaturized: true}, want: Projection{}},
		{name: "hidden", ws: 0, state: State{Hidden: true}, want: Projection{}},
		{name: "hidden and shaded", ws: 0, state: State{Hidden: true, Shaded: true}, want: Projection{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Window{Workspace: tt.ws, Attr: tt.attr, State: tt.state}
			if got := w.Projection(tt.current); got != tt.want {
				t.Errorf("Projection() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFrameHeight(t *testing.T) {
	w := &Window{Height: 400, Decor: Decor{Titlebar: 22, Resizebar: 8, Border: 1}}
	if got := w.FrameHeight(); got != 430 {
		t.Fatalf("FrameHeight() = %d, want 430", got)
	}
	w.State.Shaded = true
	if got := w.FrameHeight(); got != 21 {
		t.Fatalf("shaded FrameHeight() = %d, want 21", got)
	}
	w.Attr.NoTitlebar = true
	w.State.Shaded = false
	if got := w.FrameHeight(); got != 408 {
		t.Fatalf("untitled FrameHeight() = %d, want 408", got)
	}
}

func TestSaveGeometry(t *testing.T) {
	w := &Window{X: 10, Y: 20, Width: 300, Height: 200}

	// First save always records every axis.
	w.SaveGeometry(AxisX)
	want := geom.Rect{X: 10, Y: 20, Width: 300, Height: 200}
	if w.OldGeometry != want {
		t.Fatalf("OldGeometry = %v, want %v", w.OldGeometry, want)
	}

	// Later saves only touch the requested axes.
	w.X, w.Y, w.Width, w.Height = 50, 60, 700, 800
	w.SaveGeometry(AxisY | AxisHeight)
	want = geom.Rect{X: 10, Y: 60, Width: 300, Height: 800}
	if w.OldGeometry != want {
		t.Fatalf("OldGeometry = %v, want %v", w.OldGeometry, want)
	}

	if !w.HorizontalSaved() || !w.VerticalSaved() {
		t.Fatalf("geometry not marked saved: %v", w.OldGeometry)
	}
}

func TestConstrainAndCrop(t *testing.T) {
	w := &Window{
		Decor: Decor{Titlebar: 20, Resizebar: 5, Border: 1},
		Hints: SizeHints{MinWidth: 100, MaxHeight: 500},
	}
	gw, gh := w.ConstrainSize(50, 900)
	if gw != 100 || gh != 500 {
		t.Fatalf("ConstrainSize = %dx%d, want 100x500", gw, gh)
	}
	gw, gh = w.CropSize(800, 600, 1000, 600)
	if gw != 798 || gh != 573 {
		t.Fatalf("CropSize = %dx%d, want 798x573", gw, gh)
	}
}

func TestBaseLevel(t *testing.T) {
	if got := (&Window{}).BaseLevel(); got != platform.LevelNormal {
		t.Errorf("BaseLevel() = %v, want normal", got)
	}
	if got := (&Window{Attr: Attributes{Sunken: true}}).BaseLevel(); got != platform.LevelSunken {
		t.Errorf("BaseLevel() = %v, want sunken", got)
	}
	if got := (&Window{Attr: Attributes{Floating: true}}).BaseLevel(); got != platform.LevelFloating {
		t.Errorf("BaseLevel() = %v, want floating", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := &Window{Client: 100, App: "term"}
	b := &Window{Client: 200, App: "term"}
	ha := r.Add(a)
	hb := r.Add(b)
	b.TransientFor = ha

	if r.Get(ha) != a || r.ByClient(200) != b {
		t.Fatalf("lookup failed")
	}
	if got := r.Transients(ha); len(got) != 1 || got[0] != b {
		t.Fatalf("Transients(a) = %v", got)
	}
	if got := r.Application("term"); len(got) != 2 {
		t.Fatalf("Application(term) len = %d, want 2", len(got))
	}
	if owner, ok := r.OwnerChain(hb); !ok || owner != ha {
		t.Fatalf("OwnerChain(b) = %d,%v, want %d,true", owner, ok, ha)
	}

	r.Remove(ha)
	if r.Get(ha) != nil || r.ByClient(100) != nil {
		t.Fatalf("removed window still resolves")
	}
	if b.TransientFor != None {
		t.Fatalf("transient not orphaned: %d", b.TransientFor)
	}

	c := &Window{}
	if hc := r.Add(c); hc <= hb {
		t.Fatalf("handle reused: %d <= %d", hc, hb)
	}
}

func TestOwnerChainCycle(t *testing.T) {
	r := NewRegistry()
	a := &Window{}
	b := &Window{}
	ha := r.Add(a)
	hb := r.Add(b)
	a.TransientFor = hb
	b.TransientFor = ha

	if _, ok := r.OwnerChain(ha); ok {
		t.Fatalf("OwnerChain on a cycle reported ok")
	}
}
