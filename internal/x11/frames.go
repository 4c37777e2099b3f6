package x11

import (
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

const (
	framePixel = 0x3c3c3c
	iconPixel  = 0x5a5a5a
)

// frame is the decoration window a client is reparented into.
type frame struct {
	win    *xwindow.Window
	client xproto.Window
	// rect is the frame position and the client size.
	rect    geom.Rect
	bare    bool
	mapped  bool
	visible bool
}

// decor returns the titlebar and resizebar heights of f.
func (c *Conn) decor(f *frame) (top, bottom int) {
	if f.bare {
		return 0, 0
	}
	return c.opts.Decor.Titlebar, c.opts.Decor.Resizebar
}

// frameFor returns the frame of id, creating and reparenting on first use.
func (c *Conn) frameFor(id platform.WindowID) *frame {
	c.mu.Lock()
	if f, ok := c.frames[id]; ok {
		c.mu.Unlock()
		return f
	}
	c.mu.Unlock()

	client := xproto.Window(id)
	g, err := xproto.GetGeometry(c.xu.Conn(), xproto.Drawable(client)).Reply()
	if err != nil {
		c.logger.Debug("frame for vanished client", "client", id, "error", err)
		return nil
	}
	win, err := xwindow.Generate(c.xu)
	if err != nil {
		c.logger.Warn("Failed to allocate frame window", "client", id, "error", err)
		return nil
	}
	f := &frame{
		win:    win,
		client: client,
		rect:   geom.Rect{X: int(g.X), Y: int(g.Y), Width: int(g.Width), Height: int(g.Height)},
	}
	top, bottom := c.decor(f)
	win.Create(c.root, f.rect.X, f.rect.Y, f.rect.Width, top+f.rect.Height+bottom,
		xproto.CwBackPixel|xproto.CwEventMask,
		framePixel,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify|
			xproto.EventMaskEnterWindow)
	if b := c.opts.Decor.Border; b > 0 {
		xproto.ConfigureWindow(c.xu.Conn(), win.Id, xproto.ConfigWindowBorderWidth, []uint32{uint32(b)})
	}

	// Reparenting a viewable client makes the server unmap it once.
	if attrs, err := xproto.GetWindowAttributes(c.xu.Conn(), client).Reply(); err == nil &&
		attrs.MapState == xproto.MapStateViewable {
		c.mu.Lock()
		c.ignoreUnmap[id]++
		c.mu.Unlock()
	}
	xproto.ChangeSaveSet(c.xu.Conn(), xproto.SetModeInsert, client)
	xproto.ReparentWindow(c.xu.Conn(), client, win.Id, 0, int16(top))
	xproto.ChangeWindowAttributes(c.xu.Conn(), client, xproto.CwEventMask,
		[]uint32{xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange})
	xproto.GrabButton(c.xu.Conn(), false, win.Id, xproto.EventMaskButtonPress,
		xproto.GrabModeSync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
		xproto.ButtonIndexAny, xproto.ModMaskAny)

	c.mu.Lock()
	c.frames[id] = f
	c.byFrame[win.Id] = id
	c.mu.Unlock()

	c.connectClient(id, win.Id)
	c.publishClientList()
	return f
}

// lookupFrame returns the frame of id without creating one.
func (c *Conn) lookupFrame(id platform.WindowID) *frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames[id]
}

// forget drops every resource the adapter holds for id.
func (c *Conn) forget(id platform.WindowID) {
	c.mu.Lock()
	f := c.frames[id]
	delete(c.frames, id)
	if f != nil {
		delete(c.byFrame, f.win.Id)
	}
	icon, hasIcon := c.icons[id]
	delete(c.icons, id)
	delete(c.byIcon, icon)
	delete(c.levels, id)
	delete(c.ignoreUnmap, id)
	c.gone[id] = true
	c.mu.Unlock()

	if f != nil {
		f.win.Detach()
		f.win.Destroy()
	}
	if hasIcon {
		xproto.DestroyWindow(c.xu.Conn(), icon)
	}
	c.publishClientList()
}

func (c *Conn) MapFrame(id platform.WindowID) {
	if f := c.frameFor(id); f != nil {
		f.win.Map()
		f.mapped = true
	}
}

func (c *Conn) UnmapFrame(id platform.WindowID) {
	if f := c.lookupFrame(id); f != nil {
		f.win.Unmap()
		f.mapped = false
	}
}

func (c *Conn) MapClient(id platform.WindowID) {
	if f := c.frameFor(id); f != nil {
		xproto.MapWindow(c.xu.Conn(), f.client)
		f.visible = true
	}
}

func (c *Conn) UnmapClient(id platform.WindowID) {
	f := c.lookupFrame(id)
	if f == nil || !f.visible {
		return
	}
	c.mu.Lock()
	c.ignoreUnmap[id]++
	c.mu.Unlock()
	xproto.UnmapWindow(c.xu.Conn(), f.client)
	f.visible = false
}

// Configure places the frame at r.X/Y and sizes the client to
// r.Width x r.Height.
func (c *Conn) Configure(id platform.WindowID, r geom.Rect) {
	f := c.frameFor(id)
	if f == nil {
		return
	}
	c.mu.Lock()
	f.bare = c.levels[id] == platform.LevelFullscreen
	c.mu.Unlock()
	f.rect = r
	top, bottom := c.decor(f)
	f.win.MoveResize(r.X, r.Y, r.Width, top+r.Height+bottom)
	xproto.ConfigureWindow(c.xu.Conn(), f.client,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{0, uint32(top), uint32(r.Width), uint32(r.Height)})
	c.sendSyntheticConfigure(f)
}

// sendSyntheticConfigure tells the client its root-relative position, as
// ICCCM requires after a reparented move.
func (c *Conn) sendSyntheticConfigure(f *frame) {
	top, _ := c.decor(f)
	ev := xproto.ConfigureNotifyEvent{
		Event:  f.client,
		Window: f.client,
		X:      int16(f.rect.X),
		Y:      int16(f.rect.Y + top),
		Width:  uint16(f.rect.Width),
		Height: uint16(f.rect.Height),
	}
	xproto.SendEvent(c.xu.Conn(), false, f.client, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// SetFrameHeight resizes only the frame; the client keeps its size and is
// clipped by the frame.
func (c *Conn) SetFrameHeight(id platform.WindowID, height int) {
	if f := c.lookupFrame(id); f != nil {
		f.win.Resize(f.rect.Width, max(height, 1))
	}
}

func (c *Conn) SetFocus(id platform.WindowID) {
	xproto.SetInputFocus(c.xu.Conn(), xproto.InputFocusPointerRoot, xproto.Window(id), xproto.TimeCurrentTime)
}

func (c *Conn) ClearFocus() {
	xproto.SetInputFocus(c.xu.Conn(), xproto.InputFocusPointerRoot, c.root, xproto.TimeCurrentTime)
}

func (c *Conn) PointerPosition() (geom.Point, bool) {
	p, err := xproto.QueryPointer(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return geom.Point{}, false
	}
	return geom.Point{X: int(p.RootX), Y: int(p.RootY)}, true
}

// WindowUnderPointer maps the root child under the pointer back to the
// client it frames.
func (c *Conn) WindowUnderPointer() (platform.WindowID, bool) {
	p, err := xproto.QueryPointer(c.xu.Conn(), c.root).Reply()
	if err != nil || p.Child == xproto.WindowNone {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.byFrame[p.Child]; ok {
		return id, true
	}
	return 0, false
}

// SetStackingLevel records the level and restacks every frame so that
// higher levels stay above lower ones.
func (c *Conn) SetStackingLevel(id platform.WindowID, level platform.Level) {
	c.mu.Lock()
	c.levels[id] = level
	c.mu.Unlock()
	c.restack(id, xproto.StackModeAbove)
}

func (c *Conn) Raise(id platform.WindowID) { c.restack(id, xproto.StackModeAbove) }
func (c *Conn) Lower(id platform.WindowID) { c.restack(id, xproto.StackModeBelow) }

// restack moves id to the top or bottom of its level, then lifts every
// higher level back over it.
func (c *Conn) restack(id platform.WindowID, mode byte) {
	f := c.lookupFrame(id)
	if f == nil {
		return
	}
	c.mu.Lock()
	level := c.levels[id]
	type entry struct {
		win   xproto.Window
		level platform.Level
	}
	var above []entry
	for other, of := range c.frames {
		if l := c.levels[other]; l > level || (mode == xproto.StackModeBelow && l < level) {
			above = append(above, entry{of.win.Id, l})
		}
	}
	c.mu.Unlock()

	f.win.Stack(mode)
	sort.Slice(above, func(i, j int) bool { return above[i].level < above[j].level })
	for _, e := range above {
		if e.level > level {
			xproto.ConfigureWindow(c.xu.Conn(), e.win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
		}
	}
	if mode == xproto.StackModeBelow {
		for i := len(above) - 1; i >= 0; i-- {
			if above[i].level < level {
				xproto.ConfigureWindow(c.xu.Conn(), above[i].win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeBelow})
			}
		}
	}
}

func (c *Conn) SetClientState(id platform.WindowID, state platform.ClientState) {
	err := icccm.WmStateSet(c.xu, xproto.Window(id), &icccm.WmState{State: uint(state)})
	if err != nil {
		c.logger.Debug("set WM_STATE failed", "client", id, "error", err)
	}
}

// MapIcon shows a miniwindow tile for id at pos.
func (c *Conn) MapIcon(id platform.WindowID, pos geom.Point) {
	c.mu.Lock()
	icon, ok := c.icons[id]
	c.mu.Unlock()
	size := c.opts.IconSize
	if !ok {
		win, err := xwindow.Generate(c.xu)
		if err != nil {
			c.logger.Warn("Failed to allocate icon window", "client", id, "error", err)
			return
		}
		win.Create(c.root, pos.X, pos.Y, size, size,
			xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
			iconPixel, 1, xproto.EventMaskButtonPress)
		icon = win.Id
		c.mu.Lock()
		c.icons[id] = icon
		c.byIcon[icon] = id
		c.mu.Unlock()
		c.connectIcon(icon)
	}
	xproto.ConfigureWindow(c.xu.Conn(), icon, xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(pos.X)), uint32(int32(pos.Y))})
	xproto.MapWindow(c.xu.Conn(), icon)
}

func (c *Conn) UnmapIcon(id platform.WindowID) {
	c.mu.Lock()
	icon, ok := c.icons[id]
	c.mu.Unlock()
	if ok {
		xproto.UnmapWindow(c.xu.Conn(), icon)
	}
}

// Exists reports whether the client window is still there.
func (c *Conn) Exists(id platform.WindowID) bool {
	c.mu.Lock()
	gone := c.gone[id]
	c.mu.Unlock()
	if gone {
		return false
	}
	_, err := xproto.GetWindowAttributes(c.xu.Conn(), xproto.Window(id)).Reply()
	return err == nil
}

// ProcessPendingEvents forces a round trip so that notifications queued
// by earlier requests have been read.
func (c *Conn) ProcessPendingEvents() {
	c.xu.Sync()
}
