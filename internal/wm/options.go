package wm

import (
	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/heads"
	"github.com/1broseidon/tilewm/internal/maximize"
	"github.com/1broseidon/tilewm/internal/window"
	"github.com/1broseidon/tilewm/internal/workspace"
)

// Options are the engine preferences. The zero value is usable: click to
// focus, one workspace, no dock.
type Options struct {
	Policy    maximize.Policy
	FocusMode config.FocusMode

	Workspaces workspace.Options
	// Initial is the number of workspaces each screen starts with.
	Initial int
	Cycle   bool
	Advance bool

	StickyIcons bool
	AutoArrange bool
	IconSize    int

	// Margins is copied into every screen's head resolver. The dock tile
	// is filled in per screen from its primary head.
	Margins heads.Margins
	Decor   window.Decor

	FullMaximizeApps []string
}

// OptionsFromConfig maps a validated config onto engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	yard, err := heads.ParseIconYard(string(cfg.Icons.Yard))
	if err != nil {
		yard = 0
	}
	return Options{
		Policy: maximize.Policy{
			AltHalfMaximize:      cfg.Maximize.AltHalfMaximize,
			MoveHalfBetweenHeads: cfg.Maximize.MoveHalfBetweenHeads,
		},
		FocusMode: cfg.Focus.Mode,
		Workspaces: workspace.Options{
			Max:       cfg.Workspaces.Max,
			NameWidth: cfg.Workspaces.NameWidth,
			NoClip:    cfg.Workspaces.NoClip,
		},
		Initial:     cfg.Workspaces.Initial,
		Cycle:       cfg.Workspaces.Cycle,
		Advance:     cfg.Workspaces.Advance,
		StickyIcons: cfg.Workspaces.StickyIcons,
		AutoArrange: cfg.Icons.AutoArrange,
		IconSize:    cfg.Icons.Size,
		Margins: heads.Margins{
			DockEnabled:       cfg.Dock.Enabled,
			DockOnRight:       cfg.Dock.Side == config.DockRight,
			NoWindowOverDock:  cfg.Dock.NoWindowOverDock,
			NoWindowOverIcons: cfg.Dock.NoWindowOverIcons,
			IconSize:          cfg.Icons.Size,
			Yard:              yard,
		},
		Decor: window.Decor{
			Titlebar:  cfg.Frame.TitlebarHeight,
			Resizebar: cfg.Frame.ResizebarHeight,
			Border:    cfg.Frame.BorderWidth,
		},
		FullMaximizeApps: append([]string(nil), cfg.Maximize.FullMaximizeApps...),
	}
}

func (o Options) clickToFocus() bool {
	return o.FocusMode == "" || o.FocusMode == config.FocusClick
}

func (o Options) iconSize() int {
	if o.IconSize <= 0 {
		return 64
	}
	return o.IconSize
}

func (o Options) fullMaximize(app string) bool {
	for _, a := range o.FullMaximizeApps {
		if a == app {
			return true
		}
	}
	return false
}
