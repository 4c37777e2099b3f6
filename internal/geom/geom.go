package geom

import (
	"fmt"

	"github.com/BurntSushi/xgbutil/xrect"
)

// Rect represents a window or head position and size
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Point is a position in root window coordinates
type Point struct {
	X int
	Y int
}

// Right returns the first x coordinate past the rectangle.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first y coordinate past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns width*height, or 0 for degenerate rectangles.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Area() == 0 }

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether the two rectangles share any area.
func (r Rect) Intersects(o Rect) bool {
	return IntersectArea(r, o) > 0
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// XRect converts r into the xgbutil rectangle type.
func (r Rect) XRect() *xrect.XRect {
	return xrect.New(r.X, r.Y, r.Width, r.Height)
}

// FromXRect converts an xgbutil rectangle.
func FromXRect(x xrect.Rect) Rect {
	return Rect{X: x.X(), Y: x.Y(), Width: x.Width(), Height: x.Height()}
}

// IntersectArea returns the overlapping area of a and b.
func IntersectArea(a, b Rect) int {
	if a.Empty() || b.Empty() {
		return 0
	}
	return xrect.IntersectArea(a.XRect(), b.XRect())
}

// IntersectionLength returns the overlap of two 1D segments [p1, p1+l1) and [p2, p2+l2).
func IntersectionLength(p1, l1, p2, l2 int) int {
	start := max(p1, p2)
	end := min(p1+l1, p2+l2)
	if end <= start {
		return 0
	}
	return end - start
}

// Direction selects a neighbor relative to a reference rectangle.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection maps a direction name to its value.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	case "up", "top":
		return DirUp, nil
	case "down", "bottom":
		return DirDown, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Abs returns |x|.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
