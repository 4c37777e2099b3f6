package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/maximize"
	"github.com/1broseidon/tilewm/internal/window"
	"github.com/1broseidon/tilewm/internal/wm"
)

// Doer runs a closure on the engine goroutine. *wm.Loop implements it.
type Doer interface {
	Do(ctx context.Context, fn func(*wm.Engine) error) error
}

// X11 is the part of the x11 connection the handler needs.
type X11 interface {
	XUtil() *xgbutil.XUtil
	Root() xproto.Window
}

// Action runs against the engine when its key sequence is pressed.
type Action func(*wm.Engine) error

var keyboard = maximize.Hints{Keyboard: true}

func maximizeAction(flags window.MaxFlags) Action {
	return onFocused(func(s *wm.Screen, h window.Handle) bool {
		return s.Maximize(h, flags, keyboard)
	})
}

// onFocused applies op to the focused window. No focus is not an error.
func onFocused(op func(*wm.Screen, window.Handle) bool) Action {
	return func(e *wm.Engine) error {
		s, w := e.Active()
		if w == nil {
			return nil
		}
		op(s, w.Handle)
		return nil
	}
}

func relative(amount int) Action {
	return func(e *wm.Engine) error {
		s := e.Screen(e.OldScreen())
		if s == nil {
			return wm.ErrNoScreen
		}
		s.RelativeChange(amount)
		return nil
	}
}

// Actions maps every binding name to what it does.
func Actions() map[string]Action {
	return map[string]Action{
		config.HotkeyMaximizeLeft:       maximizeAction(window.MaxLeftHalf | window.MaxVertical),
		config.HotkeyMaximizeRight:      maximizeAction(window.MaxRightHalf | window.MaxVertical),
		config.HotkeyMaximizeTop:        maximizeAction(window.MaxTopHalf | window.MaxHorizontal),
		config.HotkeyMaximizeBottom:     maximizeAction(window.MaxBottomHalf | window.MaxHorizontal),
		config.HotkeyMaximizeFull:       maximizeAction(window.MaxHorizontal | window.MaxVertical),
		config.HotkeyMaximizeVertical:   maximizeAction(window.MaxVertical),
		config.HotkeyMaximizeHorizontal: maximizeAction(window.MaxHorizontal),
		config.HotkeyMaximus:            maximizeAction(window.MaxMaximus),
		config.HotkeyWorkspaceNext:      relative(1),
		config.HotkeyWorkspacePrev:      relative(-1),
		config.HotkeyShade: onFocused(func(s *wm.Screen, h window.Handle) bool {
			if w := s.Window(h); w != nil && w.State.Shaded {
				return s.Unshade(h)
			}
			return s.Shade(h)
		}),
		config.HotkeyIconify:    onFocused((*wm.Screen).Iconify),
		config.HotkeyFullscreen: onFocused((*wm.Screen).ToggleFullscreen),
	}
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	loop    Doer
	logger  *slog.Logger
	actions map[string]Action
	timeout time.Duration
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(conn X11, loop Doer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	xu := conn.XUtil()
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    conn.Root(),
		loop:    loop,
		logger:  logger.With("package", "hotkeys"),
		actions: Actions(),
		timeout: 2 * time.Second,
	}
}

// Bind grabs every configured key sequence. Bindings with an empty
// sequence are skipped; a sequence the server refuses is logged and the
// rest are still bound.
func (h *Handler) Bind(bindings map[string]string) error {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		seq := bindings[name]
		if seq == "" {
			continue
		}
		action, ok := h.actions[name]
		if !ok {
			return fmt.Errorf("unknown hotkey binding %q", name)
		}
		if err := h.RegisterFunc(seq, h.run(name, action)); err != nil {
			h.logger.Warn("Failed to bind hotkey", "binding", name, "keys", seq, "error", err)
			continue
		}
		h.logger.Debug("Hotkey bound", "binding", name, "keys", seq)
	}
	return nil
}

func (h *Handler) run(name string, action Action) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		if err := h.loop.Do(ctx, action); err != nil {
			h.logger.Warn("Hotkey action failed", "binding", name, "error", err)
		}
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
