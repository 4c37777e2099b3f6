package wm

import (
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/heads"
	"github.com/1broseidon/tilewm/internal/window"
)

// yard walks the icon slots of one head, starting in the configured
// corner and filling the primary axis first.
type yard struct {
	bits  heads.IconYard
	size  int
	pf    int // slots along the primary axis
	pi    int
	si    int
	xo    int
	yo    int
	xs    int
	ys    int
	slots int
}

func (s *Screen) yardFor(head int) *yard {
	size := s.e.opts.iconSize()
	m := s.heads.Margins()
	area, _ := s.heads.UsableArea(head, true)
	if m.DockEnabled {
		area.Width -= size + heads.DockExtraSpace
		if !m.DockOnRight {
			area.X += size + heads.DockExtraSpace
		}
	}

	fullW := max(area.Width/size, 1)
	fullH := max(area.Height/size, 1)
	y := &yard{bits: m.Yard, size: size, slots: fullW * fullH}
	if m.Yard&heads.YardVertical != 0 {
		y.pf = fullH
	} else {
		y.pf = fullW
	}
	if m.Yard&heads.YardRight != 0 {
		y.xo, y.xs = area.Right()-size, -1
	} else {
		y.xo, y.xs = area.X, 1
	}
	if m.Yard&heads.YardTop != 0 {
		y.yo, y.ys = area.Y, 1
	} else {
		y.yo, y.ys = area.Bottom()-size, -1
	}
	return y
}

// at returns the position of the current slot.
func (y *yard) at() geom.Point {
	if y.bits&heads.YardVertical != 0 {
		return geom.Point{X: y.xo + y.xs*y.si*y.size, Y: y.yo + y.ys*y.pi*y.size}
	}
	return geom.Point{X: y.xo + y.xs*y.pi*y.size, Y: y.yo + y.ys*y.si*y.size}
}

func (y *yard) advance() {
	y.pi++
	if y.pi >= y.pf {
		y.pi = 0
		y.si++
	}
}

// ArrangeIcons lines up the app icons and the visible miniwindows in the
// icon yard of each head. Unless all is set, miniwindows the user moved
// keep their position.
func (s *Screen) ArrangeIcons(all bool) {
	yards := make(map[int]*yard)
	yardOf := func(head int) *yard {
		y, ok := yards[head]
		if !ok {
			y = s.yardFor(head)
			yards[head] = y
		}
		return y
	}

	for _, name := range s.appOrder {
		ap := s.apps[name]
		if ap == nil || !ap.hasIcon {
			continue
		}
		wins := s.windows.Application(name)
		if len(wins) == 0 {
			continue
		}
		y := yardOf(s.heads.HeadForRect(wins[0].Frame()))
		ap.icon = y.at()
		y.advance()
	}

	// Least recent first so icons do not shuffle.
	for _, h := range s.order.Handles() {
		w := s.windows.Get(h)
		if w == nil {
			continue
		}
		if s.iconVisible(w) && (all || !w.State.IconMoved) {
			y := yardOf(s.heads.HeadForRect(w.Frame()))
			s.moveIcon(w, y.at())
			y.advance()
		}
		if all {
			w.State.IconMoved = false
		}
	}
}

// placeIcon returns the first free yard slot on head for w's miniwindow.
func (s *Screen) placeIcon(head int, w *window.Window) geom.Point {
	taken := make(map[geom.Point]bool)
	for _, ap := range s.apps {
		if ap.hasIcon {
			taken[ap.icon] = true
		}
	}
	for _, o := range s.windows.All() {
		if o != w && o.IconShown {
			taken[o.Icon] = true
		}
	}
	y := s.yardFor(head)
	first := y.at()
	for i := 0; i < y.slots; i++ {
		if p := y.at(); !taken[p] {
			return p
		}
		y.advance()
	}
	return first
}

// MoveIcon places h's miniwindow at p by hand. Auto-arrange leaves it
// there until the next full arrange.
func (s *Screen) MoveIcon(h window.Handle, p geom.Point) bool {
	w := s.windows.Get(h)
	if w == nil || !w.HasIcon {
		return false
	}
	w.State.IconMoved = true
	s.moveIcon(w, p)
	return true
}
