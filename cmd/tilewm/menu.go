package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/palette"
)

func createMenuCmd(g *globals) *cobra.Command {
	var (
		backend string
		fuzzy   bool
	)
	cmd := &cobra.Command{
		Use:       "menu [windows|workspaces|apps]",
		Short:     "Pick a window, workspace or hidden application from a launcher menu",
		Long:      "Show the window list (default), workspace menu or hidden application list through rofi, fuzzel, wofi or dmenu.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"windows", "workspaces", "apps"},
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := g.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("backend") {
				backend = res.Config.Menu.Backend
			}
			if !cmd.Flags().Changed("fuzzy") {
				fuzzy = res.Config.Menu.Fuzzy
			}
			b, err := palette.NewBackend(backend, fuzzy)
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}

			which := "windows"
			if len(args) == 1 {
				which = args[0]
			}
			prompt, items, err := menuItems(c, which)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(os.Stderr, "nothing to show")
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			picked, err := b.Show(ctx, prompt, items)
			if errors.Is(err, palette.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			return runAction(g, c, picked.Action)
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "auto", "Launcher: auto, rofi, fuzzel, wofi or dmenu (default: menu.backend)")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Fuzzy matching where the launcher supports it (default: menu.fuzzy)")
	return cmd
}

func menuItems(c *ipc.Client, which string) (string, []palette.Item, error) {
	switch which {
	case "windows":
		wins, err := c.ListWindows()
		if err != nil {
			return "", nil, err
		}
		wss, err := c.ListWorkspaces()
		if err != nil {
			return "", nil, err
		}
		return "windows", palette.WindowList(wins.Windows, wss.Workspaces), nil
	case "workspaces":
		wss, err := c.ListWorkspaces()
		if err != nil {
			return "", nil, err
		}
		return "workspaces", palette.WorkspaceMenu(wss.Workspaces), nil
	case "apps":
		wins, err := c.ListWindows()
		if err != nil {
			return "", nil, err
		}
		return "hidden", palette.HiddenApps(wins.Windows), nil
	default:
		return "", nil, fmt.Errorf("unknown menu %q (expected: windows, workspaces, apps)", which)
	}
}

func runAction(g *globals, c *ipc.Client, a palette.Action) error {
	switch a.Kind {
	case palette.ActionSelectWindow:
		res, err := c.WindowCommand(ipc.CommandSelect, a.Window)
		if err != nil {
			return err
		}
		return printResult(g, res)
	case palette.ActionChangeWorkspace:
		_, err := c.ChangeWorkspace(strconv.Itoa(a.Workspace + 1))
		return err
	case palette.ActionNewWorkspace:
		ws, err := c.WorkspaceCommand(ipc.CommandWorkspaceNew, ipc.WorkspacePayload{})
		if err != nil {
			return err
		}
		_, err = c.ChangeWorkspace(strconv.Itoa(ws.Index + 1))
		return err
	case palette.ActionUnhideApp:
		res, err := c.AppCommand(ipc.CommandUnhideApp, ipc.AppPayload{App: a.App})
		if err != nil {
			return err
		}
		return printResult(g, res)
	default:
		return nil
	}
}
