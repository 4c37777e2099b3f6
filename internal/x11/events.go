package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// WM_CHANGE_STATE data value asking for the iconic state.
const iconicRequest = 3

// connectRoot installs the callbacks for requests redirected from the
// root window.
func (c *Conn) connectRoot() {
	xevent.MapRequestFun(func(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
		c.mapRequest(ev.Window)
	}).Connect(c.xu, c.root)

	xevent.ConfigureRequestFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
		c.configureRequest(ev.ConfigureRequestEvent)
	}).Connect(c.xu, c.root)

	// The root only changes size when the head layout changes.
	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev.Window == c.root {
			c.emit(platform.Event{Kind: platform.EventScreenChanged})
		}
	}).Connect(c.xu, c.root)

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		c.clientMessage(ev.ClientMessageEvent)
	}).Connect(c.xu, c.root)
}

// connectClient installs the per-client and per-frame callbacks.
func (c *Conn) connectClient(id platform.WindowID, frameWin xproto.Window) {
	client := xproto.Window(id)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		if ev.Window != client {
			return
		}
		c.forget(id)
		c.emit(platform.Event{Kind: platform.EventDestroyed, Window: id})
	}).Connect(c.xu, client)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		if ev.Window != client {
			return
		}
		c.mu.Lock()
		if c.ignoreUnmap[id] > 0 {
			c.ignoreUnmap[id]--
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		c.withdraw(id)
	}).Connect(c.xu, client)

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		c.clientMessage(ev.ClientMessageEvent)
	}).Connect(c.xu, client)

	xevent.ConfigureRequestFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
		c.configureRequest(ev.ConfigureRequestEvent)
	}).Connect(c.xu, frameWin)

	xevent.EnterNotifyFun(func(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		if ev.Mode == xproto.NotifyModeNormal {
			c.emit(platform.Event{Kind: platform.EventEnter, Window: id})
		}
	}).Connect(c.xu, frameWin)

	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		// The grab is synchronous; let the click through to the client.
		xproto.AllowEvents(c.xu.Conn(), xproto.AllowReplayPointer, ev.Time)
		c.emit(platform.Event{Kind: platform.EventClick, Window: id})
	}).Connect(c.xu, frameWin)
}

// connectIcon makes a click on a miniwindow activate its client.
func (c *Conn) connectIcon(icon xproto.Window) {
	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		c.mu.Lock()
		id, ok := c.byIcon[icon]
		c.mu.Unlock()
		if ok {
			c.emit(platform.Event{Kind: platform.EventActivate, Window: id})
		}
	}).Connect(c.xu, icon)
}

func (c *Conn) mapRequest(win xproto.Window) {
	id := platform.WindowID(win)
	if c.lookupFrame(id) != nil {
		c.emit(platform.Event{Kind: platform.EventMapRequest, Client: platform.Client{ID: id}})
		return
	}
	attrs, err := xproto.GetWindowAttributes(c.xu.Conn(), win).Reply()
	if err != nil || attrs.OverrideRedirect {
		return
	}
	if !c.isNormalWindow(win) {
		// Docks and desktops are not managed; just let them appear.
		xproto.MapWindow(c.xu.Conn(), win)
		return
	}
	client, ok := c.probe(win)
	if !ok {
		return
	}
	c.mu.Lock()
	delete(c.gone, id)
	c.mu.Unlock()
	c.emit(platform.Event{Kind: platform.EventMapRequest, Client: client})
}

// withdraw handles a client unmapping itself: it goes back to the root
// and the engine forgets it.
func (c *Conn) withdraw(id platform.WindowID) {
	if f := c.lookupFrame(id); f != nil {
		xproto.ReparentWindow(c.xu.Conn(), f.client, c.root, int16(f.rect.X), int16(f.rect.Y))
		xproto.ChangeSaveSet(c.xu.Conn(), xproto.SetModeDelete, f.client)
		c.SetClientState(id, platform.StateWithdrawn)
	}
	c.forget(id)
	c.mu.Lock()
	delete(c.gone, id)
	c.mu.Unlock()
	c.emit(platform.Event{Kind: platform.EventWithdrawn, Window: id})
}

// configureRequest forwards requests of unmanaged windows unchanged and
// turns the rest into engine events.
func (c *Conn) configureRequest(ev *xproto.ConfigureRequestEvent) {
	id := platform.WindowID(ev.Window)
	f := c.lookupFrame(id)
	if f == nil {
		xwindow.New(c.xu, ev.Window).Configure(int(ev.ValueMask),
			int(ev.X), int(ev.Y), int(ev.Width), int(ev.Height), ev.Sibling, ev.StackMode)
		return
	}
	c.emit(platform.Event{
		Kind:   platform.EventConfigureRequest,
		Window: id,
		Rect:   requestedRect(f.rect, ev.ValueMask, ev.X, ev.Y, ev.Width, ev.Height),
	})
}

// requestedRect overlays the fields present in mask on cur.
func requestedRect(cur geom.Rect, mask uint16, x, y int16, w, h uint16) geom.Rect {
	r := cur
	if mask&xproto.ConfigWindowX != 0 {
		r.X = int(x)
	}
	if mask&xproto.ConfigWindowY != 0 {
		r.Y = int(y)
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		r.Width = int(w)
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		r.Height = int(h)
	}
	return r
}

// clientMessage decodes the EWMH and ICCCM requests the engine handles.
func (c *Conn) clientMessage(ev *xproto.ClientMessageEvent) {
	name, err := xprop.AtomName(c.xu, ev.Type)
	if err != nil {
		return
	}
	ev32 := ev.Data.Data32
	if ev32 == nil {
		return
	}
	if out, ok := c.decodeMessage(name, platform.WindowID(ev.Window), ev32); ok {
		c.emit(out)
	}
}

// decodeMessage maps a client message to an event. State atoms are
// resolved through the connection.
func (c *Conn) decodeMessage(name string, id platform.WindowID, data []uint32) (platform.Event, bool) {
	switch name {
	case "_NET_CURRENT_DESKTOP":
		return platform.Event{Kind: platform.EventDesktopRequest, Desktop: int(data[0])}, true
	case "_NET_ACTIVE_WINDOW":
		return platform.Event{Kind: platform.EventActivate, Window: id}, true
	case "_NET_WM_DESKTOP":
		desktop := int(data[0])
		if data[0] == stickyDesktop {
			desktop = -1
		}
		return platform.Event{Kind: platform.EventWindowDesktopRequest, Window: id, Desktop: desktop}, true
	case "WM_CHANGE_STATE":
		if data[0] == iconicRequest {
			return platform.Event{Kind: platform.EventIconifyRequest, Window: id}, true
		}
	case "_NET_WM_STATE":
		for _, atom := range data[1:3] {
			if atom == 0 {
				continue
			}
			if state, err := xprop.AtomName(c.xu, xproto.Atom(atom)); err == nil && state == "_NET_WM_STATE_FULLSCREEN" {
				return platform.Event{Kind: platform.EventFullscreenRequest, Window: id, Action: int(data[0])}, true
			}
		}
	}
	return platform.Event{}, false
}
