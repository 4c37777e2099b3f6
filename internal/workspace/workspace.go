// Package workspace holds the ordered workspace list of one screen, the
// per-workspace clips and the session document they are saved to.
//
// The list knows nothing about windows. Occupancy checks and the window
// side of a workspace change live in the engine.
package workspace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// HardLimit caps the configurable workspace maximum.
	HardLimit = 100
	// DefaultMax is the workspace maximum when none is configured.
	DefaultMax = 16
	// DefaultNameWidth is the longest workspace name kept, in runes.
	DefaultNameWidth = 16
)

var (
	ErrLimitReached = errors.New("workspace limit reached")
	ErrInvalidIndex = errors.New("invalid workspace index")
	ErrInUse        = errors.New("workspace in use")
)

// Workspace is one virtual desktop.
type Workspace struct {
	Name string
	// Clip is nil when clips are disabled.
	Clip *Clip
}

// Options configure a List.
type Options struct {
	Max       int
	NameWidth int
	NoClip    bool
}

// List is the ordered workspace list with current and last-used indices.
type List struct {
	opts     Options
	items    []*Workspace
	current  int
	lastUsed int
	stale    bool
}

// NewList returns an empty list. Call New at least once before use.
func NewList(opts Options) *List {
	if opts.Max <= 0 {
		opts.Max = DefaultMax
	}
	if opts.Max > HardLimit {
		opts.Max = HardLimit
	}
	if opts.NameWidth <= 0 {
		opts.NameWidth = DefaultNameWidth
	}
	return &List{opts: opts}
}

func (l *List) Len() int      { return len(l.items) }
func (l *List) Max() int      { return l.opts.Max }
func (l *List) Current() int  { return l.current }
func (l *List) LastUsed() int { return l.lastUsed }
func (l *List) NoClip() bool  { return l.opts.NoClip }

// Get returns the workspace at index, or nil.
func (l *List) Get(index int) *Workspace {
	if index < 0 || index >= len(l.items) {
		return nil
	}
	return l.items[index]
}

// Names returns the workspace names in order.
func (l *List) Names() []string {
	out := make([]string, len(l.items))
	for i, ws := range l.items {
		out[i] = ws.Name
	}
	return out
}

// DefaultName is the generated name of the workspace at index.
func DefaultName(index int) string {
	return fmt.Sprintf("Workspace %d", index+1)
}

// New appends a workspace. clip seeds its clip and may be nil for an empty
// one. It returns the new index or ErrLimitReached.
func (l *List) New(clip *Clip) (int, error) {
	if err := CheckCanCreate(len(l.items), l.opts.Max); err != nil {
		return -1, err
	}
	ws := &Workspace{Name: DefaultName(len(l.items))}
	if !l.opts.NoClip {
		if clip == nil {
			clip = NewClip(DefaultClipCapacity)
		}
		ws.Clip = clip
	}
	l.items = append(l.items, ws)
	return len(l.items) - 1, nil
}

// Delete removes the workspace at index. Workspace 0 is never removed.
// occupied reports whether a non-omnipresent window lives on a workspace.
// After a successful delete the caller must move away from a current
// index that is now out of range; see NeedsRetarget.
func (l *List) Delete(index int, occupied func(int) bool) error {
	if index <= 0 || index >= len(l.items) {
		return fmt.Errorf("delete workspace %d: %w", index+1, ErrInvalidIndex)
	}
	if occupied != nil && occupied(index) {
		return fmt.Errorf("delete workspace %d: %w", index+1, ErrInUse)
	}
	l.items = append(l.items[:index], l.items[index+1:]...)

	// Indices above the removed one shift down. A deleted current stays
	// stale until the caller switches away.
	switch {
	case l.current > index:
		l.current--
	case l.current == index:
		l.stale = true
	}
	switch {
	case l.lastUsed > index:
		l.lastUsed--
	case l.lastUsed == index:
		l.lastUsed = 0
	}
	if l.lastUsed >= len(l.items) {
		l.lastUsed = 0
	}
	return nil
}

// NeedsRetarget reports whether the current workspace was deleted or the
// current index points past the end.
func (l *List) NeedsRetarget() bool { return l.stale || l.current >= len(l.items) }

// SetCurrent records a switch to index. The previous current becomes last used.
func (l *List) SetCurrent(index int) {
	if l.stale {
		l.stale = false
		l.current = index
		return
	}
	if index == l.current {
		return
	}
	l.lastUsed = l.current
	if l.lastUsed >= len(l.items) {
		l.lastUsed = 0
	}
	l.current = index
}

// Extend creates workspaces until index exists or the maximum is hit.
func (l *List) Extend(index int) error {
	for len(l.items) <= index {
		if _, err := l.New(nil); err != nil {
			return err
		}
	}
	return nil
}

// Rename trims name and stores it truncated to the configured width. An empty
// name reverts to the default. It returns the stored name.
func (l *List) Rename(index int, name string) (string, error) {
	ws := l.Get(index)
	if ws == nil {
		return "", fmt.Errorf("rename workspace %d: %w", index+1, ErrInvalidIndex)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName(index)
	}
	ws.Name = truncate(name, l.opts.NameWidth)
	return ws.Name, nil
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width])
}

// Lookup resolves a workspace reference. A number is a 1-based index;
// anything else is matched against the names. It returns -1 when nothing
// matches.
func (l *List) Lookup(value string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return n - 1
	}
	for i, ws := range l.items {
		if ws.Name == value {
			return i
		}
	}
	return -1
}

// Relative returns the target of a relative switch by amount, following the
// cycle and advance preferences. ok is false when no switch should happen.
func (l *List) Relative(amount int, cycle, advance bool) (target int, ok bool) {
	w := l.current + amount
	count := len(l.items)
	switch {
	case amount < 0:
		if w >= 0 {
			return w, true
		}
		if cycle {
			return count + w, count+w >= 0
		}
	case amount > 0:
		if w < count {
			return w, true
		}
		if advance {
			return min(w, l.opts.Max-1), true
		}
		if cycle {
			return w % count, true
		}
	}
	return 0, false
}
