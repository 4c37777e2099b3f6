package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// stickyDesktop is the _NET_WM_DESKTOP value for all desktops.
const stickyDesktop = 0xFFFFFFFF

// Clients lists the viewable top-level windows that are not
// override-redirect and are normal application windows.
func (c *Conn) Clients() ([]platform.Client, error) {
	wins, err := c.topLevels()
	if err != nil {
		return nil, err
	}
	var out []platform.Client
	for _, win := range wins {
		attrs, err := xproto.GetWindowAttributes(c.xu.Conn(), win).Reply()
		if err != nil || attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		if !c.isNormalWindow(win) {
			continue
		}
		client, ok := c.probe(win)
		if !ok {
			continue
		}
		out = append(out, client)
	}
	return out, nil
}

// probe reads everything the engine wants to know about win.
func (c *Conn) probe(win xproto.Window) (platform.Client, bool) {
	g, err := xproto.GetGeometry(c.xu.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return platform.Client{}, false
	}
	client := platform.Client{
		ID:      platform.WindowID(win),
		AppID:   c.windowAppID(win),
		Title:   c.windowTitle(win),
		Bounds:  geom.Rect{X: int(g.X), Y: int(g.Y), Width: int(g.Width), Height: int(g.Height)},
		Desktop: -1,
	}
	if owner, err := icccm.WmTransientForGet(c.xu, win); err == nil && owner != 0 && owner != c.root {
		client.TransientFor = platform.WindowID(owner)
	}
	if d, err := ewmh.WmDesktopGet(c.xu, win); err == nil {
		if d == stickyDesktop {
			client.Sticky = true
		} else {
			client.Desktop = int(d)
		}
	}
	if hints, err := icccm.WmNormalHintsGet(c.xu, win); err == nil {
		if hints.Flags&icccm.SizeHintPMinSize != 0 {
			client.MinWidth, client.MinHeight = int(hints.MinWidth), int(hints.MinHeight)
		}
		if hints.Flags&icccm.SizeHintPMaxSize != 0 {
			client.MaxWidth, client.MaxHeight = int(hints.MaxWidth), int(hints.MaxHeight)
		}
		client.Fixed = client.MaxWidth > 0 && client.MinWidth == client.MaxWidth &&
			client.MaxHeight > 0 && client.MinHeight == client.MaxHeight
	}
	return client, true
}

// hasType reports whether win carries the given _NET_WM_WINDOW_TYPE.
func (c *Conn) hasType(win xproto.Window, name string) bool {
	types, err := ewmh.WmWindowTypeGet(c.xu, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == name {
			return true
		}
	}
	return false
}

// isNormalWindow checks if a window is a normal application window.
func (c *Conn) isNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.xu, win)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG", "_NET_WM_WINDOW_TYPE_UTILITY":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

func (c *Conn) windowAppID(win xproto.Window) string {
	class, err := icccm.WmClassGet(c.xu, win)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(class.Class)
}

func (c *Conn) windowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.xu, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.xu, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
