// Package window holds the managed-window model and the handle arena the
// engine addresses windows through.
package window

import (
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// Handle is a stable reference to a managed window. Handles are never
// reused, so a stale handle simply fails to resolve.
type Handle uint32

// None is the zero handle.
const None Handle = 0

// Decor is the frame decoration of one window.
type Decor struct {
	Titlebar  int
	Resizebar int
	Border    int
}

// Attributes are per-window policy bits. The zero value is an ordinary
// resizable, focusable window.
type Attributes struct {
	Fixed         bool
	NoFocus       bool
	Omnipresent   bool
	FullMaximize  bool
	Sunken        bool
	Floating      bool
	NoMiniaturize bool
	NoHideOthers  bool
	NoAppIcon     bool
	Internal      bool
	NoTitlebar    bool
	NoResizebar   bool
	NoBorder      bool
}

// SizeHints bound the client size. Zero means unbounded.
type SizeHints struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

// State holds the transition-owned flags.
type State struct {
	Shaded            bool
	Miniaturized      bool
	Hidden            bool
	Fullscreen        bool
	Focused           bool
	Selected          bool
	ChangingWorkspace bool
	IconMoved         bool
}

// Projection is what the display server should show for a window.
type Projection struct {
	Frame  bool
	Client bool
}

// Window is one managed top-level window.
type Window struct {
	Handle       Handle
	Client       platform.WindowID
	Title        string
	App          string
	TransientFor Handle

	// X and Y are the frame position. Width and Height are the client size.
	X      int
	Y      int
	Width  int
	Height int

	Decor Decor
	Hints SizeHints
	Attr  Attributes
	State State

	Workspace int

	Maximized    MaxFlags
	OldMaximized MaxFlags
	// OldGeometry is the frame position and client size saved before the
	// first maximize. A zero width or height marks that axis as unsaved.
	OldGeometry geom.Rect
	MaximusPos  geom.Point
	// BFSGeometry is the frame saved before entering fullscreen and
	// BFSFocused the window that held focus at that point.
	BFSGeometry geom.Rect
	BFSFocused  Handle

	// Icon is the miniwindow position. HasIcon is set while a miniwindow
	// exists and IconShown while it is mapped.
	Icon      geom.Point
	HasIcon   bool
	IconShown bool
	Level     platform.Level

	applied    Projection
	hasApplied bool
}

// Titlebar returns the titlebar height, or 0 for undecorated and
// fullscreen windows.
func (w *Window) Titlebar() int {
	if w.Attr.NoTitlebar || w.State.Fullscreen {
		return 0
	}
	return w.Decor.Titlebar
}

// Resizebar returns the resizebar height, or 0.
func (w *Window) Resizebar() int {
	if w.Attr.NoResizebar || w.State.Fullscreen {
		return 0
	}
	return w.Decor.Resizebar
}

// Border returns the border width, or 0.
func (w *Window) Border() int {
	if w.Attr.NoBorder || w.State.Fullscreen {
		return 0
	}
	return w.Decor.Border
}

// Resizable reports whether maximize may change the window's size.
func (w *Window) Resizable() bool { return !w.Attr.Fixed }

// Focusable reports whether the window accepts focus.
func (w *Window) Focusable() bool { return !w.Attr.NoFocus }

// FrameHeight returns the frame height: one pixel less than the titlebar
// when shaded, otherwise titlebar plus client plus resizebar.
func (w *Window) FrameHeight() int {
	if w.State.Shaded {
		return w.Titlebar() - 1
	}
	return w.Titlebar() + w.Height + w.Resizebar()
}

// Frame returns the frame rectangle, excluding the border.
func (w *Window) Frame() geom.Rect {
	return geom.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.FrameHeight()}
}

// Geometry returns frame position plus client size, the shape Configure takes.
func (w *Window) Geometry() geom.Rect {
	return geom.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}
}

// SetGeometry stores a frame position and client size.
func (w *Window) SetGeometry(r geom.Rect) {
	w.X, w.Y, w.Width, w.Height = r.X, r.Y, r.Width, r.Height
}

// Projection derives the mapped state from the visibility flags. A window
// shows on the current workspace, when omnipresent, or while it is being
// carried to another workspace.
func (w *Window) Projection(current int) Projection {
	onScreen := w.Workspace == current || w.Attr.Omnipresent || w.State.ChangingWorkspace
	frame := onScreen && !w.State.Miniaturized && !w.State.Hidden
	return Projection{Frame: frame, Client: frame && !w.State.Shaded}
}

// Mapped reports whether the client area is visible.
func (w *Window) Mapped(current int) bool { return w.Projection(current).Client }

// Applied returns the projection last pushed to the display server.
func (w *Window) Applied() (Projection, bool) { return w.applied, w.hasApplied }

// MarkApplied records the projection pushed to the display server.
func (w *Window) MarkApplied(p Projection) {
	w.applied = p
	w.hasApplied = true
}

// Axes select parts of the saved geometry.
type Axes uint8

const (
	AxisX Axes = 1 << iota
	AxisY
	AxisWidth
	AxisHeight

	AxesAll = AxisX | AxisY | AxisWidth | AxisHeight
)

// SaveGeometry copies the current geometry into OldGeometry for the given
// axes. Axes that were never saved are always included.
func (w *Window) SaveGeometry(axes Axes) {
	if w.OldGeometry.Width == 0 {
		axes |= AxisX | AxisWidth
	}
	if w.OldGeometry.Height == 0 {
		axes |= AxisY | AxisHeight
	}
	if axes&AxisX != 0 {
		w.OldGeometry.X = w.X
	}
	if axes&AxisY != 0 {
		w.OldGeometry.Y = w.Y
	}
	if axes&AxisWidth != 0 {
		w.OldGeometry.Width = w.Width
	}
	if axes&AxisHeight != 0 {
		w.OldGeometry.Height = w.Height
	}
}

// HorizontalSaved reports whether x/width were saved.
func (w *Window) HorizontalSaved() bool { return w.OldGeometry.Width != 0 }

// VerticalSaved reports whether y/height were saved.
func (w *Window) VerticalSaved() bool { return w.OldGeometry.Height != 0 }

// ConstrainSize clamps a client size to the size hints.
func (w *Window) ConstrainSize(width, height int) (int, int) {
	h := w.Hints
	if h.MinWidth > 0 && width < h.MinWidth {
		width = h.MinWidth
	}
	if h.MinHeight > 0 && height < h.MinHeight {
		height = h.MinHeight
	}
	if h.MaxWidth > 0 && width > h.MaxWidth {
		width = h.MaxWidth
	}
	if h.MaxHeight > 0 && height > h.MaxHeight {
		height = h.MaxHeight
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// CropSize shrinks a client size so the decorated frame fits in maxW×maxH.
func (w *Window) CropSize(maxW, maxH, width, height int) (int, int) {
	border := 2 * w.Border()
	if width+border > maxW {
		width = maxW - border
	}
	decor := w.Titlebar() + w.Resizebar() + border
	if height+decor > maxH {
		height = maxH - decor
	}
	return max(width, 1), max(height, 1)
}

// BaseLevel returns the stacking level the window sits at when not fullscreen.
func (w *Window) BaseLevel() platform.Level {
	switch {
	case w.Attr.Sunken:
		return platform.LevelSunken
	case w.Attr.Floating:
		return platform.LevelFloating
	}
	return platform.LevelNormal
}
