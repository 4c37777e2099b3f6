package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/runtimepath"
	"github.com/1broseidon/tilewm/internal/workspace"
)

var version = "0.1.0"

// globals holds the persistent flags shared by every command.
type globals struct {
	debug      bool
	configPath string
	socketPath string
	jsonOutput bool
}

func main() {
	godotenv.Load()

	g := &globals{}
	root := &cobra.Command{
		Use:           "tilewm",
		Short:         "tilewm - a stacking X11 window manager with half and maximus tiling",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file path (default: $TILEWM_CONFIG or ~/.config/tilewm/config.yaml)")
	root.PersistentFlags().StringVar(&g.socketPath, "socket", "", "IPC socket path (default: $TILEWM_SOCKET or $XDG_RUNTIME_DIR/tilewm.sock)")
	root.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "Print results as JSON")

	root.AddCommand(
		createDaemonCmd(g),
		createSimulateCmd(g),
		createStatusCmd(g),
		createWindowsCmd(g),
		createMaximizeCmd(g),
		createAppCmd(g),
		createWorkspaceCmd(g),
		createSessionCmd(g),
		createMenuCmd(g),
		createConfigCmd(g),
		createMCPCmd(g),
	)
	root.AddCommand(createWindowStateCmds(g)...)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initLogger installs the default logger. A terminal gets the console
// handler; anything else gets JSON lines.
func initLogger(level slog.Level) *slog.Logger {
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = console.NewHandler(os.Stderr, &console.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func (g *globals) loadConfig() (*config.LoadResult, error) {
	if g.configPath != "" {
		return config.LoadFromPath(g.configPath)
	}
	return config.LoadWithSources()
}

// setup loads the config and installs the logger at the configured level,
// or debug when --debug is set.
func (g *globals) setup() (*config.Config, *slog.Logger, error) {
	res, err := g.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	level := res.Config.Logging.SlogLevel()
	if g.debug {
		level = slog.LevelDebug
	}
	return res.Config, initLogger(level), nil
}

func (g *globals) socket() (string, error) {
	if g.socketPath != "" {
		return g.socketPath, nil
	}
	return runtimepath.SocketPath()
}

func (g *globals) client() (*ipc.Client, error) {
	path, err := g.socket()
	if err != nil {
		return nil, err
	}
	return ipc.NewClientAt(path), nil
}

func sessionPath(cfg *config.Config) (string, error) {
	return workspace.ExpandPath(cfg.Session.Path)
}
