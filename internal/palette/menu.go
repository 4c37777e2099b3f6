package palette

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tilewm/internal/wm"
)

// ActionKind says what picking a row asks the daemon to do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	// ActionSelectWindow brings Window into view.
	ActionSelectWindow
	// ActionChangeWorkspace switches to Workspace.
	ActionChangeWorkspace
	// ActionNewWorkspace appends a workspace and switches to it.
	ActionNewWorkspace
	// ActionUnhideApp unhides App.
	ActionUnhideApp
)

type Action struct {
	Kind      ActionKind
	Window    uint32
	Workspace int
	App       string
}

// WindowList builds the window list menu: one section per workspace, in
// workspace order, with omnipresent windows listed under the current one.
// The focused window is highlighted.
func WindowList(windows []wm.WindowInfo, workspaces []wm.WorkspaceInfo) []Item {
	current := 0
	for _, ws := range workspaces {
		if ws.Current {
			current = ws.Index
		}
	}
	byWorkspace := make(map[int][]wm.WindowInfo)
	for _, w := range windows {
		ws := w.Workspace
		if w.Omnipresent {
			ws = current
		}
		byWorkspace[ws] = append(byWorkspace[ws], w)
	}

	var items []Item
	for _, ws := range workspaces {
		wins := byWorkspace[ws.Index]
		if len(wins) == 0 {
			continue
		}
		items = append(items, Item{Label: workspaceLabel(ws), IsHeader: true})
		for _, w := range wins {
			items = append(items, Item{
				Label:    windowLabel(w),
				Icon:     w.App,
				Meta:     w.App,
				Action:   Action{Kind: ActionSelectWindow, Window: w.Client},
				IsActive: w.Focused,
			})
		}
	}
	return items
}

// WorkspaceMenu lists the workspaces followed by a "new workspace" row.
func WorkspaceMenu(workspaces []wm.WorkspaceInfo) []Item {
	items := make([]Item, 0, len(workspaces)+1)
	for _, ws := range workspaces {
		items = append(items, Item{
			Label:    fmt.Sprintf("%s  (%d)", workspaceLabel(ws), ws.Windows),
			Action:   Action{Kind: ActionChangeWorkspace, Workspace: ws.Index},
			IsActive: ws.Current,
		})
	}
	return append(items, Item{
		Label:  "New workspace",
		Icon:   "list-add",
		Action: Action{Kind: ActionNewWorkspace},
	})
}

// HiddenApps lists applications whose windows are all hidden.
func HiddenApps(windows []wm.WindowInfo) []Item {
	hidden := make(map[string]bool)
	var order []string
	for _, w := range windows {
		if w.App == "" {
			continue
		}
		prev, seen := hidden[w.App]
		if !seen {
			order = append(order, w.App)
			hidden[w.App] = w.Hidden
			continue
		}
		hidden[w.App] = prev && w.Hidden
	}
	var items []Item
	for _, app := range order {
		if !hidden[app] {
			continue
		}
		items = append(items, Item{
			Label:  app,
			Icon:   app,
			Action: Action{Kind: ActionUnhideApp, App: app},
		})
	}
	return items
}

func workspaceLabel(ws wm.WorkspaceInfo) string {
	return fmt.Sprintf("%d: %s", ws.Index+1, ws.Name)
}

func windowLabel(w wm.WindowInfo) string {
	title := w.Title
	if title == "" {
		title = fmt.Sprintf("0x%x", w.Client)
	}
	var marks []string
	if w.Miniaturized {
		marks = append(marks, "iconified")
	}
	if w.Shaded {
		marks = append(marks, "shaded")
	}
	if w.Hidden {
		marks = append(marks, "hidden")
	}
	if len(marks) > 0 {
		title += " [" + strings.Join(marks, ",") + "]"
	}
	return title
}
