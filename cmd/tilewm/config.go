package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tilewm/internal/config"
)

func createConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate, print and explain the configuration",
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := g.loadConfig(); err != nil {
				return err
			}
			fmt.Println("config: ok")
			return nil
		},
	}

	var defaults bool
	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if !defaults {
				res, err := g.loadConfig()
				if err != nil {
					return err
				}
				cfg = res.Config
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
	printCmd.Flags().BoolVar(&defaults, "defaults", false, "Print built-in defaults (no files)")

	explain := &cobra.Command{
		Use:   "explain <yaml.path>",
		Short: "Show a config value and the file that set it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := g.loadConfig()
			if err != nil {
				return err
			}
			value, src, err := config.Explain(res, args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(value)
			if err != nil {
				return err
			}
			fmt.Printf("path: %s\n", args[0])
			fmt.Printf("source: %s\n", formatSource(src))
			fmt.Printf("value:\n%s", string(out))
			return nil
		},
	}

	cmd.AddCommand(validate, printCmd, explain)
	return cmd
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.Line > 0 {
			return fmt.Sprintf("%s:%d:%d", src.File, src.Line, src.Column)
		}
		return src.File
	case config.SourceDefault:
		if src.Name != "" {
			return src.Name
		}
		return "defaults"
	default:
		return string(src.Kind)
	}
}
