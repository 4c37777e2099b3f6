// Package maximus computes tiled-maximize geometry: the largest rectangle a
// window can grow into without covering the other visible windows.
package maximus

import "github.com/1broseidon/tilewm/internal/geom"

// Input describes one solve.
type Input struct {
	// Original is the window footprint the obstructors are compared
	// against: its pre-maximize geometry when already maximized, otherwise
	// its current frame.
	Original geom.Rect
	// Usable is the area of the target head the window may occupy.
	Usable geom.Rect
	// Obstructors are the frames of the other visible windows on the
	// current workspace.
	Obstructors []geom.Rect
	// Decoration is the non-client height: titlebar, resizebar and both
	// borders.
	Decoration int
}

type edges struct {
	left, top, right, bottom int
}

func edgesOf(r geom.Rect) edges {
	return edges{left: r.X, top: r.Y, right: r.Right(), bottom: r.Bottom()}
}

// Solve shrinks the usable area toward the original window in two passes.
// The first pass moves the top and bottom edges past obstructors that share
// horizontal extent with the window. The second pass moves the left and
// right edges past obstructors that share vertical extent with the result
// of the first pass.
//
// The returned height has Decoration and one extra pixel removed, so it is
// a client height. The width is the full frame width.
func Solve(in Input) geom.Rect {
	orig := edgesOf(in.Original)
	next := edgesOf(in.Usable)

	for _, o := range in.Obstructors {
		obs := edgesOf(o)
		if geom.IntersectionLength(orig.left, in.Original.Width, obs.left, o.Width) == 0 {
			continue
		}
		if obs.bottom < orig.top && obs.bottom > next.top {
			next.top = obs.bottom + 1
		}
		if orig.bottom < obs.top && obs.top < next.bottom {
			next.bottom = obs.top - 1
		}
	}

	height := next.bottom - next.top - in.Decoration
	for _, o := range in.Obstructors {
		obs := edgesOf(o)
		if geom.IntersectionLength(next.top, height, obs.top, o.Height) == 0 {
			continue
		}
		if obs.right < orig.left && obs.right > next.left {
			next.left = obs.right + 1
		}
		if orig.right < obs.left && obs.left < next.right {
			next.right = obs.left - 1
		}
	}

	return geom.Rect{
		X:      next.left,
		Y:      next.top,
		Width:  next.right - next.left,
		Height: next.bottom - next.top - in.Decoration - 1,
	}
}
