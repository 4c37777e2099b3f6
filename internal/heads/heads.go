// Package heads maps rectangles and points onto the physical display
// regions of a multi-head layout.
//
// A Resolver works on an immutable snapshot of the head list. Layout
// changes produce a new Resolver via WithLayout.
package heads

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tilewm/internal/geom"
)

// DockExtraSpace is added to the icon size when reserving the dock strip.
const DockExtraSpace = 0

// Head is one physical display region.
type Head struct {
	ID     int
	Name   string
	Bounds geom.Rect
	// Usable is Bounds minus panel struts. Zero means "same as Bounds".
	Usable geom.Rect
}

// Layout is the head list of one virtual screen.
type Layout struct {
	Heads   []Head
	Primary int
	// Screen is the whole root window. It is used when there are no heads
	// and for out-of-range head indices.
	Screen geom.Rect
}

// SingleHead builds a layout with one head covering the screen.
func SingleHead(screen geom.Rect) Layout {
	return Layout{
		Heads:  []Head{{ID: 0, Name: "default", Bounds: screen, Usable: screen}},
		Screen: screen,
	}
}

// Flags describe how a rectangle sits on the head layout.
type Flags uint8

const (
	// FlagDead means the rectangle intersects no head.
	FlagDead Flags = 1 << iota
	// FlagPartial means the heads cover less than the whole rectangle.
	FlagPartial
	// FlagMultiple means two or more heads share the best intersection area.
	FlagMultiple
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(FlagDead) {
		parts = append(parts, "dead")
	}
	if f.Has(FlagPartial) {
		parts = append(parts, "partial")
	}
	if f.Has(FlagMultiple) {
		parts = append(parts, "multiple")
	}
	return strings.Join(parts, "|")
}

// PointerSource reports the pointer position in root coordinates.
// ok is false when the position cannot be queried.
type PointerSource interface {
	PointerPosition() (p geom.Point, ok bool)
}

// IconYard bits select the corner and orientation icons are laid out from.
type IconYard uint8

const (
	YardVertical IconYard = 1 << iota
	YardRight
	YardTop
)

// ParseIconYard parses names like "bottom-left-horizontal" or "top-right-vertical".
func ParseIconYard(s string) (IconYard, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid icon yard %q", s)
	}
	var y IconYard
	switch parts[0] {
	case "top":
		y |= YardTop
	case "bottom":
	default:
		return 0, fmt.Errorf("invalid icon yard %q", s)
	}
	switch parts[1] {
	case "right":
		y |= YardRight
	case "left":
	default:
		return 0, fmt.Errorf("invalid icon yard %q", s)
	}
	switch parts[2] {
	case "vertical":
		y |= YardVertical
	case "horizontal":
	default:
		return 0, fmt.Errorf("invalid icon yard %q", s)
	}
	return y, nil
}

// Margins describe the areas reserved for the dock and the icon yard.
type Margins struct {
	DockEnabled bool
	DockOnRight bool
	// DockTile is the rectangle of the dock's main tile. The dock strip is
	// only reserved on heads the tile touches.
	DockTile          geom.Rect
	NoWindowOverDock  bool
	NoWindowOverIcons bool
	IconSize          int
	Yard              IconYard
}

// Resolver answers head queries for one layout snapshot.
type Resolver struct {
	layout  Layout
	pointer PointerSource
	margins Margins
}

// NewResolver creates a resolver. pointer may be nil.
func NewResolver(layout Layout, pointer PointerSource, margins Margins) *Resolver {
	heads := make([]Head, len(layout.Heads))
	copy(heads, layout.Heads)
	layout.Heads = heads
	if layout.Primary < 0 || layout.Primary >= len(heads) {
		layout.Primary = 0
	}
	return &Resolver{layout: layout, pointer: pointer, margins: margins}
}

// WithLayout returns a resolver for a new head list with the same pointer and margins.
func (r *Resolver) WithLayout(layout Layout) *Resolver {
	return NewResolver(layout, r.pointer, r.margins)
}

// WithMargins returns a resolver with new dock and icon margins.
func (r *Resolver) WithMargins(m Margins) *Resolver {
	return NewResolver(r.layout, r.pointer, m)
}

func (r *Resolver) Layout() Layout    { return r.layout }
func (r *Resolver) Margins() Margins  { return r.margins }
func (r *Resolver) Count() int        { return len(r.layout.Heads) }
func (r *Resolver) Primary() int      { return r.layout.Primary }
func (r *Resolver) Screen() geom.Rect { return r.layout.Screen }

// PlacementInfo returns the head holding most of rect along with
// placement flags. Equal areas keep the first head seen.
func (r *Resolver) PlacementInfo(rect geom.Rect) (int, Flags) {
	var flags Flags
	rectArea := rect.Area()

	if len(r.layout.Heads) <= 1 {
		a := geom.IntersectArea(rect, r.layout.Screen)
		if a == 0 {
			flags |= FlagDead
		} else if a != rectArea {
			flags |= FlagPartial
		}
		return r.layout.Primary, flags
	}

	best := -1
	bestArea := 0
	total := 0
	tied := false
	for i, h := range r.layout.Heads {
		a := geom.IntersectArea(rect, h.Bounds)
		total += a
		switch {
		case a > bestArea:
			bestArea = a
			best = i
			tied = false
		case a == bestArea && a > 0:
			tied = true
		}
	}
	if tied {
		flags |= FlagMultiple
	}

	if best == -1 {
		flags |= FlagDead
		best = r.HeadForPointer()
	} else if total != rectArea {
		flags |= FlagPartial
	}
	return best, flags
}

// HeadForRect returns the head covering most of rect, or the pointer's
// head when rect lies in dead space.
func (r *Resolver) HeadForRect(rect geom.Rect) int {
	if len(r.layout.Heads) == 0 {
		return r.layout.Primary
	}
	best := -1
	bestArea := 0
	for i, h := range r.layout.Heads {
		if a := geom.IntersectArea(rect, h.Bounds); a > bestArea {
			bestArea = a
			best = i
		}
	}
	if best == -1 {
		best = r.HeadForPointer()
	}
	return best
}

// HeadForPoint returns the head containing p, or the primary head.
func (r *Resolver) HeadForPoint(p geom.Point) int {
	for i, h := range r.layout.Heads {
		if h.Bounds.Contains(p) {
			return i
		}
	}
	return r.layout.Primary
}

// HeadForPointer returns the head under the pointer, or the primary head
// when the pointer cannot be queried.
func (r *Resolver) HeadForPointer() int {
	if len(r.layout.Heads) == 0 || r.pointer == nil {
		return r.layout.Primary
	}
	p, ok := r.pointer.PointerPosition()
	if !ok {
		return r.layout.Primary
	}
	return r.HeadForPoint(p)
}

// RectForHead returns the head bounds, or the whole screen for an unknown head.
func (r *Resolver) RectForHead(head int) geom.Rect {
	if head >= 0 && head < len(r.layout.Heads) {
		return r.layout.Heads[head].Bounds
	}
	return r.layout.Screen
}

// UsableArea returns the area windows may occupy on head, and the head's
// total area. With includeDocks false the dock strip and, when configured,
// the icon yard strip on the dock's side are removed as well.
func (r *Resolver) UsableArea(head int, includeDocks bool) (usable, total geom.Rect) {
	total = r.RectForHead(head)
	usable = total
	if head >= 0 && head < len(r.layout.Heads) && !r.layout.Heads[head].Usable.Empty() {
		usable = r.layout.Heads[head].Usable
	}
	if includeDocks {
		return usable, total
	}

	m := r.margins
	offset := m.IconSize + DockExtraSpace

	if m.DockEnabled && m.NoWindowOverDock && r.TouchesHead(m.DockTile, head) {
		usable = shrinkSide(usable, offset, m.DockOnRight)
	}

	if m.DockEnabled && m.NoWindowOverIcons && !m.NoWindowOverDock && m.Yard&YardVertical != 0 {
		iconsRight := m.Yard&YardRight != 0
		if m.DockOnRight == iconsRight {
			usable = shrinkSide(usable, offset, m.DockOnRight)
		}
	}
	return usable, total
}

func shrinkSide(r geom.Rect, offset int, right bool) geom.Rect {
	if !right {
		r.X += offset
	}
	r.Width -= offset
	return r
}

// CenterIn returns the top-left corner that centers a w×h rectangle on head.
func (r *Resolver) CenterIn(head, w, h int) geom.Point {
	rect := r.RectForHead(head)
	return geom.Point{
		X: rect.X + (rect.Width-w)/2,
		Y: rect.Y + (rect.Height-h)/2,
	}
}

// TouchesHead reports whether rect overlaps head at all.
func (r *Resolver) TouchesHead(rect geom.Rect, head int) bool {
	return geom.IntersectArea(rect, r.RectForHead(head)) != 0
}

// Relative returns the nearest head lying strictly in dir from current.
// Distance is the gap between the facing edges plus the offset on the
// other axis. A zero distance is returned immediately.
func (r *Resolver) Relative(current int, dir geom.Direction) (int, bool) {
	c := r.RectForHead(current)
	best := -1
	bestDist := 0

	for i, h := range r.layout.Heads {
		if i == current {
			continue
		}
		b := h.Bounds
		var dist int
		switch dir {
		case geom.DirLeft:
			if b.X >= c.X {
				continue
			}
			dist = geom.Abs(b.Right()-c.X) + geom.Abs(b.Y-c.Y)
		case geom.DirRight:
			if b.X <= c.X {
				continue
			}
			dist = geom.Abs(c.Right()-b.X) + geom.Abs(b.Y-c.Y)
		case geom.DirUp:
			if b.Y >= c.Y {
				continue
			}
			dist = geom.Abs(b.Bottom()-c.Y) + geom.Abs(b.X-c.X)
		case geom.DirDown:
			if b.Y <= c.Y {
				continue
			}
			dist = geom.Abs(c.Bottom()-b.Y) + geom.Abs(b.X-c.X)
		default:
			return -1, false
		}

		if dist == 0 {
			return i, true
		}
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best, best != -1
}
