package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tilewm/internal/platform"
)

// wmName is published through _NET_SUPPORTING_WM_CHECK.
const wmName = "tilewm"

var supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_WM_DESKTOP",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_STATE_HIDDEN",
	"_NET_WM_STATE_SHADED",
	"_NET_WM_STATE_STICKY",
}

// announce creates the supporting-WM check window and sets
// _NET_SUPPORTED.
func (c *Conn) announce() error {
	check, err := xwindow.Generate(c.xu)
	if err != nil {
		return fmt.Errorf("failed to create check window: %w", err)
	}
	check.Create(c.root, -1, -1, 1, 1, xproto.CwOverrideRedirect, 1)
	if err := ewmh.SupportingWmCheckSet(c.xu, c.root, check.Id); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(c.xu, check.Id, check.Id); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(c.xu, check.Id, wmName); err != nil {
		return err
	}
	return ewmh.SupportedSet(c.xu, supported)
}

// PublishDesktops sets _NET_NUMBER_OF_DESKTOPS, _NET_DESKTOP_NAMES and
// _NET_CURRENT_DESKTOP.
func (c *Conn) PublishDesktops(names []string, current int) {
	if err := ewmh.NumberOfDesktopsSet(c.xu, uint(len(names))); err != nil {
		c.logger.Debug("set desktop count failed", "error", err)
	}
	if err := ewmh.DesktopNamesSet(c.xu, names); err != nil {
		c.logger.Debug("set desktop names failed", "error", err)
	}
	if current >= 0 {
		if err := ewmh.CurrentDesktopSet(c.xu, uint(current)); err != nil {
			c.logger.Debug("set current desktop failed", "error", err)
		}
	}
}

// PublishWindowDesktop sets _NET_WM_DESKTOP. Omnipresent windows get the
// all-desktops value.
func (c *Conn) PublishWindowDesktop(id platform.WindowID, desktop int, omnipresent bool) {
	value := uint(desktop)
	if omnipresent {
		value = stickyDesktop
	}
	if err := ewmh.WmDesktopSet(c.xu, xproto.Window(id), value); err != nil {
		c.logger.Debug("set window desktop failed", "client", id, "error", err)
	}
}

// PublishActiveWindow sets _NET_ACTIVE_WINDOW; 0 clears it.
func (c *Conn) PublishActiveWindow(id platform.WindowID) {
	if err := ewmh.ActiveWindowSet(c.xu, xproto.Window(id)); err != nil {
		c.logger.Debug("set active window failed", "client", id, "error", err)
	}
}

// publishClientList mirrors the managed clients into _NET_CLIENT_LIST.
func (c *Conn) publishClientList() {
	c.mu.Lock()
	wins := make([]xproto.Window, 0, len(c.frames))
	for id := range c.frames {
		wins = append(wins, xproto.Window(id))
	}
	c.mu.Unlock()
	if err := ewmh.ClientListSet(c.xu, wins); err != nil {
		c.logger.Debug("set client list failed", "error", err)
	}
}
