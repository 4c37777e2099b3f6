package wm

import (
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/window"
)

// WindowInfo is a read-only view of one window for IPC and MCP callers.
type WindowInfo struct {
	Handle       window.Handle `json:"handle"`
	Client       uint32        `json:"client"`
	Title        string        `json:"title,omitempty"`
	App          string        `json:"app,omitempty"`
	Workspace    int           `json:"workspace"`
	Geometry     geom.Rect     `json:"geometry"`
	Maximized    string        `json:"maximized,omitempty"`
	Shaded       bool          `json:"shaded,omitempty"`
	Miniaturized bool          `json:"miniaturized,omitempty"`
	Hidden       bool          `json:"hidden,omitempty"`
	Fullscreen   bool          `json:"fullscreen,omitempty"`
	Focused      bool          `json:"focused,omitempty"`
	Omnipresent  bool          `json:"omnipresent,omitempty"`
	Icon         *geom.Point   `json:"icon,omitempty"`
}

// WorkspaceInfo is a read-only view of one workspace.
type WorkspaceInfo struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Current bool   `json:"current,omitempty"`
	Windows int    `json:"windows"`
}

func infoOf(w *window.Window) WindowInfo {
	info := WindowInfo{
		Handle:       w.Handle,
		Client:       uint32(w.Client),
		Title:        w.Title,
		App:          w.App,
		Workspace:    w.Workspace,
		Geometry:     w.Geometry(),
		Shaded:       w.State.Shaded,
		Miniaturized: w.State.Miniaturized,
		Hidden:       w.State.Hidden,
		Fullscreen:   w.State.Fullscreen,
		Focused:      w.State.Focused,
		Omnipresent:  w.Attr.Omnipresent,
	}
	if !w.Maximized.Empty() {
		info.Maximized = w.Maximized.String()
	}
	if w.HasIcon {
		p := w.Icon
		info.Icon = &p
	}
	return info
}

// WindowInfos lists the screen's windows, most recently focused first.
func (s *Screen) WindowInfos() []WindowInfo {
	wins := s.byRecency()
	out := make([]WindowInfo, 0, len(wins))
	for _, w := range wins {
		out = append(out, infoOf(w))
	}
	return out
}

// WorkspaceInfos lists the workspaces with their window counts.
// Omnipresent windows count on the current workspace only.
func (s *Screen) WorkspaceInfos() []WorkspaceInfo {
	names := s.workspaces.Names()
	counts := make([]int, len(names))
	for _, w := range s.windows.All() {
		if w.Workspace >= 0 && w.Workspace < len(counts) {
			counts[w.Workspace]++
		}
	}
	out := make([]WorkspaceInfo, len(names))
	for i, name := range names {
		out[i] = WorkspaceInfo{Index: i, Name: name, Current: i == s.Current(), Windows: counts[i]}
	}
	return out
}
