package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMaximize struct {
	AltHalfMaximize      *bool    `yaml:"alt_half_maximize"`
	MoveHalfBetweenHeads *bool    `yaml:"move_half_max_between_heads"`
	FullMaximizeApps     []string `yaml:"full_maximize_apps"`
}

type RawFocus struct {
	Mode *FocusMode `yaml:"mode"`
}

type RawWorkspaces struct {
	Max         *int  `yaml:"max"`
	NameWidth   *int  `yaml:"name_width"`
	Initial     *int  `yaml:"initial"`
	Cycle       *bool `yaml:"cycle"`
	Advance     *bool `yaml:"advance"`
	StickyIcons *bool `yaml:"sticky_icons"`
	NoClip      *bool `yaml:"no_clip"`
}

type RawDock struct {
	Enabled           *bool     `yaml:"enabled"`
	Side              *DockSide `yaml:"side"`
	NoWindowOverDock  *bool     `yaml:"no_window_over_dock"`
	NoWindowOverIcons *bool     `yaml:"no_window_over_icons"`
}

type RawIcons struct {
	Size        *int      `yaml:"size"`
	Yard        *IconYard `yaml:"yard"`
	AutoArrange *bool     `yaml:"auto_arrange"`
}

type RawFrame struct {
	BorderWidth     *int `yaml:"border_width"`
	TitlebarHeight  *int `yaml:"titlebar_height"`
	ResizebarHeight *int `yaml:"resizebar_height"`
}

type RawSession struct {
	Path             *string        `yaml:"path"`
	AutosaveInterval *time.Duration `yaml:"autosave_interval"`
}

type RawMenu struct {
	Backend *string `yaml:"backend"`
	Fuzzy   *bool   `yaml:"fuzzy"`
}

type RawLogging struct {
	Level *string `yaml:"level"`
}

// RawConfig is one file as written. Nil fields were not set and keep the
// value of earlier layers.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Display    *string `yaml:"display"`
	XAuthority *string `yaml:"xauthority"`

	Maximize   *RawMaximize      `yaml:"maximize"`
	Focus      *RawFocus         `yaml:"focus"`
	Workspaces *RawWorkspaces    `yaml:"workspaces"`
	Dock       *RawDock          `yaml:"dock"`
	Icons      *RawIcons         `yaml:"icons"`
	Frame      *RawFrame         `yaml:"frame"`
	Session    *RawSession       `yaml:"session"`
	Menu       *RawMenu          `yaml:"menu"`
	Hotkeys    map[string]string `yaml:"hotkeys"`
	Logging    *RawLogging       `yaml:"logging"`
}

func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

// section merges two optional sections field by field.
func section[T any](base, overlay *T, merge func(T, T) T) *T {
	switch {
	case overlay == nil:
		return base
	case base == nil:
		v := *overlay
		return &v
	default:
		v := merge(*base, *overlay)
		return &v
	}
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	out.Display = pick(c.Display, overlay.Display)
	out.XAuthority = pick(c.XAuthority, overlay.XAuthority)

	out.Maximize = section(c.Maximize, overlay.Maximize, func(b, o RawMaximize) RawMaximize {
		b.AltHalfMaximize = pick(b.AltHalfMaximize, o.AltHalfMaximize)
		b.MoveHalfBetweenHeads = pick(b.MoveHalfBetweenHeads, o.MoveHalfBetweenHeads)
		if o.FullMaximizeApps != nil {
			b.FullMaximizeApps = o.FullMaximizeApps
		}
		return b
	})
	out.Focus = section(c.Focus, overlay.Focus, func(b, o RawFocus) RawFocus {
		b.Mode = pick(b.Mode, o.Mode)
		return b
	})
	out.Workspaces = section(c.Workspaces, overlay.Workspaces, func(b, o RawWorkspaces) RawWorkspaces {
		b.Max = pick(b.Max, o.Max)
		b.NameWidth = pick(b.NameWidth, o.NameWidth)
		b.Initial = pick(b.Initial, o.Initial)
		b.Cycle = pick(b.Cycle, o.Cycle)
		b.Advance = pick(b.Advance, o.Advance)
		b.StickyIcons = pick(b.StickyIcons, o.StickyIcons)
		b.NoClip = pick(b.NoClip, o.NoClip)
		return b
	})
	out.Dock = section(c.Dock, overlay.Dock, func(b, o RawDock) RawDock {
		b.Enabled = pick(b.Enabled, o.Enabled)
		b.Side = pick(b.Side, o.Side)
		b.NoWindowOverDock = pick(b.NoWindowOverDock, o.NoWindowOverDock)
		b.NoWindowOverIcons = pick(b.NoWindowOverIcons, o.NoWindowOverIcons)
		return b
	})
	out.Icons = section(c.Icons, overlay.Icons, func(b, o RawIcons) RawIcons {
		b.Size = pick(b.Size, o.Size)
		b.Yard = pick(b.Yard, o.Yard)
		b.AutoArrange = pick(b.AutoArrange, o.AutoArrange)
		return b
	})
	out.Frame = section(c.Frame, overlay.Frame, func(b, o RawFrame) RawFrame {
		b.BorderWidth = pick(b.BorderWidth, o.BorderWidth)
		b.TitlebarHeight = pick(b.TitlebarHeight, o.TitlebarHeight)
		b.ResizebarHeight = pick(b.ResizebarHeight, o.ResizebarHeight)
		return b
	})
	out.Session = section(c.Session, overlay.Session, func(b, o RawSession) RawSession {
		b.Path = pick(b.Path, o.Path)
		b.AutosaveInterval = pick(b.AutosaveInterval, o.AutosaveInterval)
		return b
	})
	out.Menu = section(c.Menu, overlay.Menu, func(b, o RawMenu) RawMenu {
		b.Backend = pick(b.Backend, o.Backend)
		b.Fuzzy = pick(b.Fuzzy, o.Fuzzy)
		return b
	})
	out.Logging = section(c.Logging, overlay.Logging, func(b, o RawLogging) RawLogging {
		b.Level = pick(b.Level, o.Level)
		return b
	})

	if overlay.Hotkeys != nil {
		merged := make(map[string]string, len(c.Hotkeys)+len(overlay.Hotkeys))
		for k, v := range c.Hotkeys {
			merged[k] = v
		}
		for k, v := range overlay.Hotkeys {
			merged[k] = v
		}
		out.Hotkeys = merged
	}
	return out
}
