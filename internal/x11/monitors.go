package x11

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/randr"
	xxinerama "github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xrect"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// Monitor represents a physical display as RandR reports it.
type Monitor struct {
	ID     int
	Name   string
	Bounds geom.Rect
}

// Displays returns the physical heads with their usable areas and the
// root window size. Heads come from Xinerama; RandR supplies output names
// and is the fallback when Xinerama is missing.
func (c *Conn) Displays() ([]platform.Display, geom.Rect, error) {
	screen, err := c.rootGeometry()
	if err != nil {
		return nil, geom.Rect{}, err
	}

	monitors, randrErr := c.monitors()
	var rects []geom.Rect
	if err := xxinerama.Init(c.xu.Conn()); err == nil {
		if heads, err := xinerama.PhysicalHeads(c.xu); err == nil {
			for _, h := range heads {
				rects = append(rects, geom.FromXRect(h))
			}
		}
	}
	if len(rects) == 0 {
		for _, m := range monitors {
			rects = append(rects, m.Bounds)
		}
	}
	if len(rects) == 0 {
		if randrErr != nil {
			c.logger.Debug("no head information, using root window", "error", randrErr)
		}
		rects = []geom.Rect{screen}
	}

	usable := applyStruts(rects, screen, c.struts(screen))
	displays := make([]platform.Display, len(rects))
	for i, r := range rects {
		displays[i] = platform.Display{
			ID:     i,
			Name:   monitorName(monitors, r, i),
			Bounds: r,
			Usable: usable[i],
		}
	}
	return displays, screen, nil
}

// monitors retrieves all active monitors using XRandR.
func (c *Conn) monitors() ([]Monitor, error) {
	if err := randr.Init(c.xu.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	resources, err := randr.GetScreenResources(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var out []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("Monitor%d", i)
		if output, err := randr.GetOutputInfo(c.xu.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(output.Name)
		}
		out = append(out, Monitor{
			ID:     i,
			Name:   name,
			Bounds: geom.Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// monitorName picks the RandR output whose CRTC matches r exactly.
func monitorName(monitors []Monitor, r geom.Rect, i int) string {
	for _, m := range monitors {
		if m.Bounds == r {
			return m.Name
		}
	}
	return fmt.Sprintf("head%d", i)
}

// struts collects _NET_WM_STRUT_PARTIAL, or _NET_WM_STRUT, from every
// dock window.
func (c *Conn) struts(screen geom.Rect) []ewmh.WmStrutPartial {
	clients, err := c.topLevels()
	if err != nil {
		return nil
	}
	var out []ewmh.WmStrutPartial
	for _, win := range clients {
		if !c.hasType(win, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.xu, win); err == nil {
			out = append(out, *sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.xu, win); err == nil {
			out = append(out, fullStrut(s, screen))
		}
	}
	return out
}

// fullStrut converts a legacy strut into a partial one spanning the root.
// Only edges with a reservation get a range; xrect.ApplyStrut picks the
// first edge with a non-empty range.
func fullStrut(s *ewmh.WmStrut, screen geom.Rect) ewmh.WmStrutPartial {
	w, h := uint(max(screen.Width-1, 0)), uint(max(screen.Height-1, 0))
	sp := ewmh.WmStrutPartial{Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom}
	if s.Left > 0 {
		sp.LeftEndY = h
	}
	if s.Right > 0 {
		sp.RightEndY = h
	}
	if s.Top > 0 {
		sp.TopEndX = w
	}
	if s.Bottom > 0 {
		sp.BottomEndX = w
	}
	return sp
}

// edges splits a strut into one strut per reserved edge, since
// xrect.ApplyStrut applies a single edge per call.
func edges(s ewmh.WmStrutPartial) []ewmh.WmStrutPartial {
	var out []ewmh.WmStrutPartial
	if s.Bottom > 0 {
		out = append(out, ewmh.WmStrutPartial{Bottom: s.Bottom, BottomStartX: s.BottomStartX, BottomEndX: s.BottomEndX})
	}
	if s.Top > 0 {
		out = append(out, ewmh.WmStrutPartial{Top: s.Top, TopStartX: s.TopStartX, TopEndX: s.TopEndX})
	}
	if s.Left > 0 {
		out = append(out, ewmh.WmStrutPartial{Left: s.Left, LeftStartY: s.LeftStartY, LeftEndY: s.LeftEndY})
	}
	if s.Right > 0 {
		out = append(out, ewmh.WmStrutPartial{Right: s.Right, RightStartY: s.RightStartY, RightEndY: s.RightEndY})
	}
	return out
}

// applyStruts returns the usable area of every head after cutting the
// struts out of it. The inputs are left alone.
func applyStruts(headRects []geom.Rect, screen geom.Rect, struts []ewmh.WmStrutPartial) []geom.Rect {
	rects := make([]xrect.Rect, len(headRects))
	for i, r := range headRects {
		rects[i] = r.XRect()
	}
	var split []ewmh.WmStrutPartial
	for _, s := range struts {
		split = append(split, edges(s)...)
	}
	for _, s := range split {
		xrect.ApplyStrut(rects, uint(screen.Width), uint(screen.Height),
			s.Left, s.Right, s.Top, s.Bottom,
			s.LeftStartY, s.LeftEndY, s.RightStartY, s.RightEndY,
			s.TopStartX, s.TopEndX, s.BottomStartX, s.BottomEndX)
	}
	out := make([]geom.Rect, len(rects))
	for i, r := range rects {
		out[i] = geom.FromXRect(r)
		if out[i].Width < 1 {
			out[i].Width = 1
		}
		if out[i].Height < 1 {
			out[i].Height = 1
		}
	}
	return out
}

// topLevels lists the children of the root window.
func (c *Conn) topLevels() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query tree: %w", err)
	}
	return tree.Children, nil
}
