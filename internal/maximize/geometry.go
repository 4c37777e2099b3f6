package maximize

import (
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/maximus"
	"github.com/1broseidon/tilewm/internal/window"
)

// Area is the target head geometry for one maximize.
type Area struct {
	// Usable excludes panels and, unless configured otherwise, the dock.
	Usable geom.Rect
	// Total is the whole head. Windows with FullMaximize use it.
	Total geom.Rect
	// SavedOnHead reports whether the saved geometry lies on the window's
	// current head. Saved positions from another head are not restored.
	SavedOnHead bool
	// Obstructors are the frames Maximus must not cover.
	Obstructors []geom.Rect
}

// Maximize applies dirs to w and returns the new frame position and client
// size. It reports false when w cannot be resized. The caller unshades the
// window beforehand.
func Maximize(w *window.Window, dirs window.MaxFlags, area Area) (geom.Rect, bool) {
	if !w.Resizable() {
		return w.Geometry(), false
	}
	dirs &= window.MaxDirections

	adj := 2 * w.Border()
	if w.Maximized.Empty() {
		w.SaveGeometry(window.AxesAll)
	}

	usable := area.Usable
	if w.Attr.FullMaximize {
		usable = area.Total
	}
	halfW := usable.Width / 2
	halfH := usable.Height / 2

	var r geom.Rect
	if dirs.Has(window.MaxMaximus) {
		m := maximus.Solve(maximus.Input{
			Original:    original(w, area.SavedOnHead),
			Usable:      usable,
			Obstructors: area.Obstructors,
			Decoration:  w.Titlebar() + w.Resizebar() + adj,
		})
		r = geom.Rect{X: m.X, Y: m.Y, Width: m.Width - adj, Height: m.Height - adj}
		if w.Attr.FullMaximize && r.Y == 0 {
			r.Height += w.Resizebar() - 1
			r.Y -= w.Titlebar()
		}
		w.MaximusPos = geom.Point{X: r.X, Y: r.Y}
		w.OldMaximized |= window.MaxMaximus
	} else {
		r = w.Geometry()
		if !dirs.Any(window.MaxHorizontal | window.MaxLeftHalf | window.MaxRightHalf) {
			if w.HorizontalSaved() {
				r.X, r.Width = w.OldGeometry.X, w.OldGeometry.Width
			}
		}
		heightCovered := dirs.Any(window.MaxVertical | window.MaxTopHalf | window.MaxBottomHalf)
		if !heightCovered && w.VerticalSaved() {
			r.Y, r.Height = w.OldGeometry.Y, w.OldGeometry.Height
		}

		switch {
		case dirs.Has(window.MaxLeftHalf):
			r.X, r.Width = usable.X, halfW-adj
		case dirs.Has(window.MaxRightHalf):
			r.X, r.Width = usable.X+halfW, halfW-adj
		}
		switch {
		case dirs.Has(window.MaxTopHalf):
			r.Y, r.Height = usable.Y, halfH-adj
		case dirs.Has(window.MaxBottomHalf):
			r.Y, r.Height = usable.Y+halfH, halfH-adj
		}
		if dirs.Has(window.MaxHorizontal) {
			r.X, r.Width = usable.X, usable.Width-adj
		}
		if dirs.Has(window.MaxVertical) {
			r.Y, r.Height = usable.Y, usable.Height-adj
			if w.Attr.FullMaximize && r.Y == 0 {
				r.Y -= w.Titlebar()
			}
		}
		// The area height above is a frame height; turn it into a client height.
		if heightCovered && !w.Attr.FullMaximize {
			r.Height -= w.Titlebar() + w.Resizebar()
		}
	}

	w.Maximized = dirs
	if w.OldMaximized.Has(window.MaxMaximus) && w.Maximized.Empty() {
		w.Maximized = window.MaxMaximus
	}

	r.Width, r.Height = w.ConstrainSize(r.Width, r.Height)
	r.Width, r.Height = w.CropSize(usable.Width, usable.Height, r.Width, r.Height)
	w.SetGeometry(r)
	return r, true
}

// Remembered returns the geometry an unmaximize goes back to: the saved
// axes where they were recorded, the current geometry elsewhere. Saved
// positions only apply on the head they were saved on.
func Remembered(w *window.Window, savedOnHead bool) geom.Rect {
	r := w.Geometry()
	old := w.OldGeometry
	if savedOnHead && (old.X != 0 || old.Width != 0) {
		r.X = old.X
	}
	if savedOnHead && (old.Y != 0 || old.Height != 0) {
		r.Y = old.Y
	}
	if old.Width != 0 {
		r.Width = old.Width
	}
	if old.Height != 0 {
		r.Height = old.Height
	}
	return r
}

func original(w *window.Window, savedOnHead bool) geom.Rect {
	if w.Maximized.Empty() {
		return w.Frame()
	}
	return Remembered(w, savedOnHead)
}

// Unmaximize clears the maximize state of w and returns the geometry to
// configure. It reports false when w is not maximized.
func Unmaximize(w *window.Window, savedOnHead bool) (geom.Rect, bool) {
	if w.Maximized.Empty() {
		return w.Geometry(), false
	}
	r := Remembered(w, savedOnHead)
	// A Maximus window that was moved keeps its offset from the tiled spot.
	if w.Maximized.Has(window.MaxMaximus) {
		r.X += w.X - w.MaximusPos.X
		r.Y += w.Y - w.MaximusPos.Y
	}
	w.Maximized = 0
	w.OldMaximized = 0
	w.SetGeometry(r)
	return r, true
}

// UpdateSavedGeometry re-records the free axis of a window maximized on
// exactly one axis, so a move along that axis survives the unmaximize.
func UpdateSavedGeometry(w *window.Window) {
	m := w.Maximized
	if m.Empty() || m.Has(window.MaxMaximus) || m.Has(window.MaxHorizontal|window.MaxVertical) {
		return
	}
	if m.Has(window.MaxHorizontal) {
		w.SaveGeometry(window.AxisY)
	}
	if m.Has(window.MaxVertical) {
		w.SaveGeometry(window.AxisX)
	}
}
