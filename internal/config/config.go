package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

type FocusMode string

const (
	FocusClick  FocusMode = "click"
	FocusSloppy FocusMode = "sloppy"
	FocusManual FocusMode = "manual"
)

type DockSide string

const (
	DockLeft  DockSide = "left"
	DockRight DockSide = "right"
)

// IconYard names the corner icons start from and the axis they grow along.
type IconYard string

const (
	YardBottomLeftHorizontal  IconYard = "bottom-left-horizontal"
	YardBottomLeftVertical    IconYard = "bottom-left-vertical"
	YardBottomRightHorizontal IconYard = "bottom-right-horizontal"
	YardBottomRightVertical   IconYard = "bottom-right-vertical"
	YardTopLeftHorizontal     IconYard = "top-left-horizontal"
	YardTopLeftVertical       IconYard = "top-left-vertical"
	YardTopRightHorizontal    IconYard = "top-right-horizontal"
	YardTopRightVertical      IconYard = "top-right-vertical"
)

var iconYards = []IconYard{
	YardBottomLeftHorizontal, YardBottomLeftVertical,
	YardBottomRightHorizontal, YardBottomRightVertical,
	YardTopLeftHorizontal, YardTopLeftVertical,
	YardTopRightHorizontal, YardTopRightVertical,
}

// Hotkey binding names understood by the hotkeys package.
const (
	HotkeyMaximizeLeft       = "maximize_left"
	HotkeyMaximizeRight      = "maximize_right"
	HotkeyMaximizeTop        = "maximize_top"
	HotkeyMaximizeBottom     = "maximize_bottom"
	HotkeyMaximizeFull       = "maximize_full"
	HotkeyMaximizeVertical   = "maximize_vertical"
	HotkeyMaximizeHorizontal = "maximize_horizontal"
	HotkeyMaximus            = "maximus"
	HotkeyWorkspaceNext      = "workspace_next"
	HotkeyWorkspacePrev      = "workspace_prev"
	HotkeyShade              = "shade"
	HotkeyIconify            = "iconify"
	HotkeyFullscreen         = "fullscreen"
)

// HotkeyNames lists every binding name in a stable order.
func HotkeyNames() []string {
	return []string{
		HotkeyMaximizeLeft, HotkeyMaximizeRight, HotkeyMaximizeTop, HotkeyMaximizeBottom,
		HotkeyMaximizeFull, HotkeyMaximizeVertical, HotkeyMaximizeHorizontal, HotkeyMaximus,
		HotkeyWorkspaceNext, HotkeyWorkspacePrev,
		HotkeyShade, HotkeyIconify, HotkeyFullscreen,
	}
}

const (
	// MaxWorkspacesLimit caps workspaces.max.
	MaxWorkspacesLimit = 100
)

type Config struct {
	Display    string `yaml:"display"`
	XAuthority string `yaml:"xauthority"`

	Maximize   MaximizeConfig    `yaml:"maximize"`
	Focus      FocusConfig       `yaml:"focus"`
	Workspaces WorkspacesConfig  `yaml:"workspaces"`
	Dock       DockConfig        `yaml:"dock"`
	Icons      IconsConfig       `yaml:"icons"`
	Frame      FrameConfig       `yaml:"frame"`
	Session    SessionConfig     `yaml:"session"`
	Menu       MenuConfig        `yaml:"menu"`
	Hotkeys    map[string]string `yaml:"hotkeys"`
	Logging    LoggingConfig     `yaml:"logging"`
}

type MaximizeConfig struct {
	AltHalfMaximize      bool `yaml:"alt_half_maximize"`
	MoveHalfBetweenHeads bool `yaml:"move_half_max_between_heads"`
	// FullMaximizeApps are app ids whose windows maximize over the whole
	// head, ignoring struts and titlebar reservations.
	FullMaximizeApps []string `yaml:"full_maximize_apps"`
}

type FocusConfig struct {
	Mode FocusMode `yaml:"mode"`
}

type WorkspacesConfig struct {
	Max         int  `yaml:"max"`
	NameWidth   int  `yaml:"name_width"`
	Initial     int  `yaml:"initial"`
	Cycle       bool `yaml:"cycle"`
	Advance     bool `yaml:"advance"`
	StickyIcons bool `yaml:"sticky_icons"`
	NoClip      bool `yaml:"no_clip"`
}

type DockConfig struct {
	Enabled           bool     `yaml:"enabled"`
	Side              DockSide `yaml:"side"`
	NoWindowOverDock  bool     `yaml:"no_window_over_dock"`
	NoWindowOverIcons bool     `yaml:"no_window_over_icons"`
}

type IconsConfig struct {
	Size        int      `yaml:"size"`
	Yard        IconYard `yaml:"yard"`
	AutoArrange bool     `yaml:"auto_arrange"`
}

type FrameConfig struct {
	BorderWidth     int `yaml:"border_width"`
	TitlebarHeight  int `yaml:"titlebar_height"`
	ResizebarHeight int `yaml:"resizebar_height"`
}

type SessionConfig struct {
	Path             string        `yaml:"path"`
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
}

// MenuConfig selects the launcher used by `tilewm menu`.
type MenuConfig struct {
	Backend string `yaml:"backend"`
	Fuzzy   bool   `yaml:"fuzzy"`
}

// MenuBackends lists the accepted menu.backend values.
var MenuBackends = []string{"auto", "rofi", "fuzzel", "wofi", "dmenu"}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Maximize: MaximizeConfig{},
		Focus:    FocusConfig{Mode: FocusClick},
		Workspaces: WorkspacesConfig{
			Max:       16,
			NameWidth: 16,
			Initial:   1,
		},
		Dock: DockConfig{
			Enabled: true,
			Side:    DockRight,
		},
		Icons: IconsConfig{
			Size:        64,
			Yard:        YardBottomLeftHorizontal,
			AutoArrange: true,
		},
		Frame: FrameConfig{
			BorderWidth:     1,
			TitlebarHeight:  20,
			ResizebarHeight: 5,
		},
		Session: SessionConfig{
			AutosaveInterval: 5 * time.Minute,
		},
		Menu: MenuConfig{Backend: "auto"},
		Hotkeys: map[string]string{
			HotkeyMaximizeLeft:       "Mod4-Left",
			HotkeyMaximizeRight:      "Mod4-Right",
			HotkeyMaximizeTop:        "Mod4-Up",
			HotkeyMaximizeBottom:     "Mod4-Down",
			HotkeyMaximizeFull:       "Mod4-f",
			HotkeyMaximizeVertical:   "Mod4-v",
			HotkeyMaximizeHorizontal: "Mod4-h",
			HotkeyMaximus:            "Mod4-m",
			HotkeyWorkspaceNext:      "Mod4-Control-Right",
			HotkeyWorkspacePrev:      "Mod4-Control-Left",
			HotkeyShade:              "Mod4-s",
			HotkeyIconify:            "Mod4-i",
			HotkeyFullscreen:         "Mod4-Shift-f",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// FullMaximize reports whether app is listed in maximize.full_maximize_apps.
func (c *Config) FullMaximize(app string) bool {
	for _, name := range c.Maximize.FullMaximizeApps {
		if name == app {
			return true
		}
	}
	return false
}

// SlogLevel maps logging.level to a slog level. Unknown names map to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks every section and joins all problems found.
func (c *Config) Validate() error {
	var errs []error
	add := func(path string, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Err: fmt.Errorf(format, args...)})
	}

	switch c.Focus.Mode {
	case FocusClick, FocusSloppy, FocusManual:
	default:
		add("focus.mode", "must be one of: click, sloppy, manual (got %q)", c.Focus.Mode)
	}

	if c.Workspaces.Max < 1 || c.Workspaces.Max > MaxWorkspacesLimit {
		add("workspaces.max", "must be between 1 and %d (got %d)", MaxWorkspacesLimit, c.Workspaces.Max)
	}
	if c.Workspaces.NameWidth < 1 {
		add("workspaces.name_width", "must be >= 1 (got %d)", c.Workspaces.NameWidth)
	}
	if c.Workspaces.Initial < 1 || c.Workspaces.Initial > c.Workspaces.Max {
		add("workspaces.initial", "must be between 1 and workspaces.max (got %d)", c.Workspaces.Initial)
	}

	switch c.Dock.Side {
	case DockLeft, DockRight:
	default:
		add("dock.side", "must be left or right (got %q)", c.Dock.Side)
	}

	if c.Icons.Size <= 0 {
		add("icons.size", "must be > 0 (got %d)", c.Icons.Size)
	}
	if !validYard(c.Icons.Yard) {
		names := make([]string, len(iconYards))
		for i, y := range iconYards {
			names[i] = string(y)
		}
		add("icons.yard", "must be one of: %s (got %q)", strings.Join(names, ", "), c.Icons.Yard)
	}

	if c.Frame.BorderWidth < 0 {
		add("frame.border_width", "must be >= 0 (got %d)", c.Frame.BorderWidth)
	}
	if c.Frame.TitlebarHeight < 0 {
		add("frame.titlebar_height", "must be >= 0 (got %d)", c.Frame.TitlebarHeight)
	}
	if c.Frame.ResizebarHeight < 0 {
		add("frame.resizebar_height", "must be >= 0 (got %d)", c.Frame.ResizebarHeight)
	}

	if c.Session.AutosaveInterval < 0 {
		add("session.autosave_interval", "must not be negative (got %s)", c.Session.AutosaveInterval)
	}

	validBackend := false
	for _, b := range MenuBackends {
		if strings.EqualFold(c.Menu.Backend, b) {
			validBackend = true
		}
	}
	if !validBackend {
		add("menu.backend", "must be one of: %s (got %q)", strings.Join(MenuBackends, ", "), c.Menu.Backend)
	}

	known := make(map[string]struct{})
	for _, name := range HotkeyNames() {
		known[name] = struct{}{}
	}
	names := make([]string, 0, len(c.Hotkeys))
	for name := range c.Hotkeys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := known[name]; !ok {
			add("hotkeys."+name, "unknown binding")
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("logging.level", "must be one of: debug, info, warn, error (got %q)", c.Logging.Level)
	}

	return errors.Join(errs...)
}

func validYard(y IconYard) bool {
	for _, known := range iconYards {
		if y == known {
			return true
		}
	}
	return false
}

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }
