package main

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tilewm/internal/workspace"
)

func createSessionCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and save the workspace session document",
	}

	var path string
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Pretty-print the session document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				res, err := g.loadConfig()
				if err != nil {
					return err
				}
				if path, err = sessionPath(res.Config); err != nil {
					return err
				}
			}
			doc, err := workspace.ReadSession(path)
			if err != nil {
				return err
			}
			if g.jsonOutput {
				return g.emit(doc, nil)
			}
			fmt.Printf("# %s\n", path)
			_, err = pp.Println(doc)
			return err
		},
	}
	dump.Flags().StringVar(&path, "path", "", "Session document (default: session.path from config)")

	save := &cobra.Command{
		Use:   "save",
		Short: "Ask the daemon to write the session document now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			data, err := c.SaveSession()
			if err != nil {
				return err
			}
			return g.emit(data, func(w io.Writer) {
				fmt.Fprintf(w, "saved %d workspaces to %s\n", data.Workspaces, data.Path)
			})
		},
	}

	cmd.AddCommand(dump, save)
	return cmd
}
