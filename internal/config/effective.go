package config

import "strings"

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// BuildEffectiveConfig applies raw over DefaultConfig. The result is not
// validated.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	set(&cfg.Display, raw.Display)
	set(&cfg.XAuthority, raw.XAuthority)

	if m := raw.Maximize; m != nil {
		set(&cfg.Maximize.AltHalfMaximize, m.AltHalfMaximize)
		set(&cfg.Maximize.MoveHalfBetweenHeads, m.MoveHalfBetweenHeads)
		if m.FullMaximizeApps != nil {
			cfg.Maximize.FullMaximizeApps = m.FullMaximizeApps
		}
	}
	if f := raw.Focus; f != nil {
		set(&cfg.Focus.Mode, f.Mode)
	}
	if w := raw.Workspaces; w != nil {
		set(&cfg.Workspaces.Max, w.Max)
		set(&cfg.Workspaces.NameWidth, w.NameWidth)
		set(&cfg.Workspaces.Initial, w.Initial)
		set(&cfg.Workspaces.Cycle, w.Cycle)
		set(&cfg.Workspaces.Advance, w.Advance)
		set(&cfg.Workspaces.StickyIcons, w.StickyIcons)
		set(&cfg.Workspaces.NoClip, w.NoClip)
	}
	if d := raw.Dock; d != nil {
		set(&cfg.Dock.Enabled, d.Enabled)
		set(&cfg.Dock.Side, d.Side)
		set(&cfg.Dock.NoWindowOverDock, d.NoWindowOverDock)
		set(&cfg.Dock.NoWindowOverIcons, d.NoWindowOverIcons)
	}
	if i := raw.Icons; i != nil {
		set(&cfg.Icons.Size, i.Size)
		set(&cfg.Icons.Yard, i.Yard)
		set(&cfg.Icons.AutoArrange, i.AutoArrange)
	}
	if f := raw.Frame; f != nil {
		set(&cfg.Frame.BorderWidth, f.BorderWidth)
		set(&cfg.Frame.TitlebarHeight, f.TitlebarHeight)
		set(&cfg.Frame.ResizebarHeight, f.ResizebarHeight)
	}
	if s := raw.Session; s != nil {
		set(&cfg.Session.Path, s.Path)
		set(&cfg.Session.AutosaveInterval, s.AutosaveInterval)
	}
	if m := raw.Menu; m != nil {
		set(&cfg.Menu.Backend, m.Backend)
		set(&cfg.Menu.Fuzzy, m.Fuzzy)
	}
	if l := raw.Logging; l != nil {
		set(&cfg.Logging.Level, l.Level)
	}

	// An empty sequence unbinds the key.
	for name, seq := range raw.Hotkeys {
		seq = strings.TrimSpace(seq)
		if seq == "" {
			delete(cfg.Hotkeys, name)
			continue
		}
		cfg.Hotkeys[name] = seq
	}
	return cfg
}
