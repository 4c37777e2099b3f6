package workspace

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func newList(t *testing.T, n int, opts Options) *List {
	t.Helper()
	l := NewList(opts)
	for i := 0; i < n; i++ {
		if _, err := l.New(nil); err != nil {
			t.Fatalf("New(): %v", err)
		}
	}
	return l
}

func TestNewNamesAndLimit(t *testing.T) {
	l := newList(t, 2, Options{Max: 3})
	if got := l.Names(); !slices.Equal(got, []string{"Workspace 1", "Workspace 2"}) {
		t.Fatalf("Names() = %v", got)
	}
	idx, err := l.New(nil)
	if err != nil || idx != 2 {
		t.Fatalf("New() = %d, %v; want 2, nil", idx, err)
	}
	idx, err = l.New(nil)
	if !errors.Is(err, ErrLimitReached) || idx != -1 {
		t.Fatalf("New() at limit = %d, %v; want -1, ErrLimitReached", idx, err)
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d after rejected New", l.Len())
	}
}

func TestNewClipsDisabled(t *testing.T) {
	l := newList(t, 1, Options{NoClip: true})
	if l.Get(0).Clip != nil {
		t.Fatalf("clip created with clips disabled")
	}
}

func TestHardLimit(t *testing.T) {
	l := NewList(Options{Max: 500})
	if l.Max() != HardLimit {
		t.Fatalf("Max() = %d, want %d", l.Max(), HardLimit)
	}
}

func TestDelete(t *testing.T) {
	occupied := func(idx int) func(int) bool {
		return func(i int) bool { return i == idx }
	}

	tests := []struct {
		name     string
		index    int
		occupied func(int) bool
		wantErr  error
		wantLen  int
	}{
		{"workspace zero", 0, nil, ErrInvalidIndex, 3},
		{"out of range", 3, nil, ErrInvalidIndex, 3},
		{"occupied", 1, occupied(1), ErrInUse, 3},
		{"empty", 1, occupied(2), nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newList(t, 3, Options{})
			before := l.Names()
			err := l.Delete(tt.index, tt.occupied)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Delete(%d) = %v, want %v", tt.index, err, tt.wantErr)
			}
			if l.Len() != tt.wantLen {
				t.Fatalf("Len() = %d, want %d", l.Len(), tt.wantLen)
			}
			if tt.wantErr != nil && !slices.Equal(l.Names(), before) {
				t.Fatalf("rejected delete changed names: %v", l.Names())
			}
		})
	}
}

func TestDeleteCurrentNeedsRetarget(t *testing.T) {
	l := newList(t, 3, Options{})
	l.SetCurrent(2)
	if err := l.Delete(2, nil); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if !l.NeedsRetarget() {
		t.Fatalf("NeedsRetarget() = false with current=%d len=%d", l.Current(), l.Len())
	}
	l.SetCurrent(l.Len() - 1)
	if l.Current() != 1 || l.LastUsed() != 0 {
		t.Fatalf("current=%d lastUsed=%d, want 1 and 0", l.Current(), l.LastUsed())
	}
}

func TestDeleteShiftsIndices(t *testing.T) {
	l := newList(t, 4, Options{})
	l.SetCurrent(3)
	l.SetCurrent(2)
	if err := l.Delete(1, nil); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if l.NeedsRetarget() {
		t.Fatalf("NeedsRetarget() = true after deleting a lower workspace")
	}
	if l.Current() != 1 || l.LastUsed() != 2 {
		t.Fatalf("current=%d lastUsed=%d, want 1 and 2", l.Current(), l.LastUsed())
	}
}

func TestRename(t *testing.T) {
	l := newList(t, 2, Options{NameWidth: 8})
	tests := []struct {
		in, want string
	}{
		{"  mail  ", "mail"},
		// The default name is cut to the name width like any other.
		{"", "Workspac"},
		{"   ", "Workspac"},
		{"development", "developm"},
		{"ünïcödé-name", "ünïcödé-"},
	}
	for _, tt := range tests {
		got, err := l.Rename(1, tt.in)
		if err != nil {
			t.Fatalf("Rename(%q): %v", tt.in, err)
		}
		if got != tt.want || l.Get(1).Name != tt.want {
			t.Errorf("Rename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	wide := newList(t, 2, Options{NameWidth: 16})
	if got, err := wide.Rename(1, ""); err != nil || got != "Workspace 2" {
		t.Errorf("Rename(\"\") with room = %q, %v, want %q", got, err, "Workspace 2")
	}
	if _, err := l.Rename(5, "x"); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Rename(out of range) = %v", err)
	}
}

func TestLookup(t *testing.T) {
	l := newList(t, 3, Options{})
	l.Rename(2, "web")
	tests := []struct {
		in   string
		want int
	}{
		{"1", 0},
		{"3", 2},
		{"web", 2},
		{"Workspace 2", 1},
		{"nothing", -1},
	}
	for _, tt := range tests {
		if got := l.Lookup(tt.in); got != tt.want {
			t.Errorf("Lookup(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRelative(t *testing.T) {
	tests := []struct {
		name    string
		current int
		amount  int
		cycle   bool
		advance bool
		want    int
		ok      bool
	}{
		{"next", 0, 1, false, false, 1, true},
		{"prev at start", 0, -1, false, false, 0, false},
		{"prev cycles", 0, -1, true, false, 2, true},
		{"next at end", 2, 1, false, false, 0, false},
		{"next cycles", 2, 1, true, false, 0, true},
		{"next advances", 2, 1, false, true, 3, true},
		{"advance capped", 2, 20, false, true, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newList(t, 3, Options{Max: 5})
			l.SetCurrent(tt.current)
			got, ok := l.Relative(tt.amount, tt.cycle, tt.advance)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("Relative(%d) = %d,%v; want %d,%v", tt.amount, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExtend(t *testing.T) {
	l := newList(t, 1, Options{Max: 4})
	if err := l.Extend(2); err != nil {
		t.Fatalf("Extend(2): %v", err)
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	if err := l.Extend(10); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("Extend(10) = %v, want ErrLimitReached", err)
	}
}

func TestClip(t *testing.T) {
	c := NewClip(2)
	if err := c.Add(Icon{App: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(Icon{App: "b"}); err != nil {
		t.Fatal(err)
	}
	err := c.Add(Icon{App: "c"})
	if !errors.Is(err, ErrClipFull) || !strings.Contains(err.Error(), `"c"`) {
		t.Fatalf("Add past capacity = %v", err)
	}
	c.Remove(0)
	if c.Free() != 1 || c.Icons[0].App != "b" {
		t.Fatalf("after Remove: %+v", c.Icons)
	}
}
