package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/wm"
)

// emit prints v as indented JSON with --json, otherwise through human.
func (g *globals) emit(v any, human func(w io.Writer)) error {
	if g.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(os.Stdout)
	return nil
}

func parseWindowID(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	return uint32(n), nil
}

func createStatusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			st, err := c.GetStatus()
			if err != nil {
				return err
			}
			return g.emit(st, func(w io.Writer) {
				fmt.Fprintf(w, "uptime_seconds: %d\n", st.UptimeSeconds)
				fmt.Fprintf(w, "screens:        %d\n", st.Screens)
				fmt.Fprintf(w, "heads:          %d\n", st.Heads)
				fmt.Fprintf(w, "workspace:      %d (%s) of %d\n", st.Workspace+1, st.WorkspaceName, st.Workspaces)
				fmt.Fprintf(w, "windows:        %d\n", st.Windows)
				if st.Focused != 0 {
					fmt.Fprintf(w, "focused:        0x%x\n", st.Focused)
				}
			})
		},
	}
}

func createWindowsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "windows",
		Aliases: []string{"list-windows"},
		Short:   "List managed windows, most recently focused first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			data, err := c.ListWindows()
			if err != nil {
				return err
			}
			return g.emit(data, func(w io.Writer) { printWindows(w, data.Windows) })
		},
	}
}

func printWindows(out io.Writer, windows []wm.WindowInfo) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tWS\tGEOMETRY\tSTATE\tAPP\tTITLE")
	for _, w := range windows {
		ws := strconv.Itoa(w.Workspace + 1)
		if w.Omnipresent {
			ws = "*"
		}
		fmt.Fprintf(tw, "0x%x\t%s\t%s\t%s\t%s\t%s\n", w.Client, ws, w.Geometry, windowState(w), w.App, w.Title)
	}
	tw.Flush()
}

func windowState(w wm.WindowInfo) string {
	var parts []string
	if w.Focused {
		parts = append(parts, "focused")
	}
	if w.Maximized != "" {
		parts = append(parts, "max:"+w.Maximized)
	}
	for _, s := range []struct {
		on   bool
		name string
	}{
		{w.Shaded, "shaded"},
		{w.Miniaturized, "iconified"},
		{w.Hidden, "hidden"},
		{w.Fullscreen, "fullscreen"},
	} {
		if s.on {
			parts = append(parts, s.name)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func printResult(g *globals, res *ipc.ResultData) error {
	return g.emit(res, func(w io.Writer) {
		if !res.Applied {
			fmt.Fprintln(w, "no change")
			return
		}
		if res.Window != nil {
			fmt.Fprintf(w, "0x%x %s %s\n", res.Window.Client, res.Window.Geometry, windowState(*res.Window))
			return
		}
		fmt.Fprintln(w, "ok")
	})
}

func createMaximizeCmd(g *globals) *cobra.Command {
	var (
		window   string
		keyboard bool
	)
	cmd := &cobra.Command{
		Use:   "maximize <direction>...",
		Short: "Maximize a window (left, right, top, bottom, vertical, horizontal, full, maximus)",
		Long: `Maximize the focused window, or --window, in the given directions.
Directions combine, for example "left vertical" or "left|vertical".
Asking for the directions a window already has restores it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseWindowID(window)
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			res, err := c.Maximize(id, args, keyboard)
			if err != nil {
				return err
			}
			return printResult(g, res)
		},
	}
	cmd.Flags().StringVar(&window, "window", "", "Client window id (default: focused window)")
	cmd.Flags().BoolVar(&keyboard, "keyboard", true, "Treat the request as keyboard-originated (enables half cycling across heads)")
	return cmd
}

// createWindowStateCmds builds one command per single-window IPC command.
func createWindowStateCmds(g *globals) []*cobra.Command {
	specs := []struct {
		cmd   ipc.CommandType
		short string
	}{
		{ipc.CommandUnmaximize, "Restore a maximized window"},
		{ipc.CommandShade, "Shade a window to its titlebar"},
		{ipc.CommandUnshade, "Unshade a window"},
		{ipc.CommandIconify, "Iconify a window and its transients"},
		{ipc.CommandDeiconify, "Deiconify a window"},
		{ipc.CommandFullscreen, "Toggle fullscreen"},
		{ipc.CommandHideOthers, "Hide every application except the window's own"},
		{ipc.CommandSelect, "Switch to a window's workspace, restore and focus it"},
	}
	out := make([]*cobra.Command, 0, len(specs))
	for _, spec := range specs {
		spec := spec
		out = append(out, &cobra.Command{
			Use:   string(spec.cmd) + " [window]",
			Short: spec.short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var raw string
				if len(args) == 1 {
					raw = args[0]
				}
				id, err := parseWindowID(raw)
				if err != nil {
					return err
				}
				c, err := g.client()
				if err != nil {
					return err
				}
				res, err := c.WindowCommand(spec.cmd, id)
				if err != nil {
					return err
				}
				return printResult(g, res)
			},
		})
	}
	return out
}

func createAppCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Hide and unhide applications",
	}

	var (
		miniwindows    bool
		bringToCurrent bool
	)
	run := func(which ipc.CommandType) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			p := ipc.AppPayload{Miniwindows: miniwindows, BringToCurrent: bringToCurrent}
			if len(args) == 1 {
				p.App = args[0]
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			res, err := c.AppCommand(which, p)
			if err != nil {
				return err
			}
			return printResult(g, res)
		}
	}

	unhide := &cobra.Command{
		Use:   "unhide [app]",
		Short: "Unhide an application",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run(ipc.CommandUnhideApp),
	}
	unhide.Flags().BoolVar(&miniwindows, "miniwindows", false, "Also deiconify the application's miniwindows")
	unhide.Flags().BoolVar(&bringToCurrent, "bring", false, "Bring the application's windows to the current workspace")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "hide [app]",
			Short: "Hide an application (default: the focused window's)",
			Args:  cobra.MaximumNArgs(1),
			RunE:  run(ipc.CommandHideApp),
		},
		unhide,
		&cobra.Command{
			Use:   "show-all",
			Short: "Unhide every hidden application",
			Args:  cobra.NoArgs,
			RunE:  run(ipc.CommandShowAll),
		},
	)
	return cmd
}

func createWorkspaceCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "List, switch and edit workspaces",
	}

	send := func(which ipc.CommandType, p ipc.WorkspacePayload) error {
		c, err := g.client()
		if err != nil {
			return err
		}
		data, err := c.WorkspaceCommand(which, p)
		if err != nil {
			return err
		}
		return g.emit(data, func(w io.Writer) {
			fmt.Fprintf(w, "%d %s\n", data.Index+1, data.Name)
		})
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			data, err := c.ListWorkspaces()
			if err != nil {
				return err
			}
			return g.emit(data, func(w io.Writer) {
				for _, ws := range data.Workspaces {
					mark := " "
					if ws.Current {
						mark = "*"
					}
					fmt.Fprintf(w, "%s %2d  %-16s %d windows\n", mark, ws.Index+1, ws.Name, ws.Windows)
				}
			})
		},
	}

	var moveWindow string
	move := &cobra.Command{
		Use:   "move <workspace>",
		Short: "Move a window to a workspace, creating it when needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseWindowID(moveWindow)
			if err != nil {
				return err
			}
			return send(ipc.CommandMoveToWorkspace, ipc.WorkspacePayload{Workspace: args[0], Window: id})
		},
	}
	move.Flags().StringVar(&moveWindow, "window", "", "Client window id (default: focused window)")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "new",
			Short: "Append a workspace",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return send(ipc.CommandWorkspaceNew, ipc.WorkspacePayload{})
			},
		},
		&cobra.Command{
			Use:   "delete [workspace]",
			Short: "Delete a workspace (default: the last one)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var p ipc.WorkspacePayload
				if len(args) == 1 {
					p.Workspace = args[0]
				}
				return send(ipc.CommandWorkspaceDelete, p)
			},
		},
		&cobra.Command{
			Use:   "change <workspace>",
			Short: "Switch to a workspace by 1-based number or name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return send(ipc.CommandWorkspaceChange, ipc.WorkspacePayload{Workspace: args[0]})
			},
		},
		&cobra.Command{
			Use:   "relative <amount>",
			Short: "Switch relative to the current workspace",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", args[0], err)
				}
				return send(ipc.CommandWorkspaceRelative, ipc.WorkspacePayload{Amount: n})
			},
		},
		&cobra.Command{
			Use:   "rename <workspace> <name>",
			Short: "Rename a workspace",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return send(ipc.CommandWorkspaceRename, ipc.WorkspacePayload{Workspace: args[0], Name: args[1]})
			},
		},
		move,
	)
	return cmd
}
