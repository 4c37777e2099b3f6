package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tilewm/internal/app"
	"github.com/1broseidon/tilewm/internal/geom"
)

func createDaemonCmd(g *globals) *cobra.Command {
	var display string
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the window manager against the X server (foreground)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			if display != "" {
				cfg.Display = display
			}
			sock, err := g.socket()
			if err != nil {
				return err
			}
			session, err := sessionPath(cfg)
			if err != nil {
				return err
			}

			a, err := app.NewDaemon(app.Options{
				Config:      cfg,
				SocketPath:  sock,
				SessionPath: session,
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			logger.Info("tilewm daemon started", "version", version, "socket", sock, "session", session)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&display, "display", "", "X display to manage (default: $DISPLAY)")
	return cmd
}

func createSimulateCmd(g *globals) *cobra.Command {
	var (
		headSpec string
		windows  int
		session  string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless engine on an in-memory display, driven over IPC",
		Long: `Run the engine against an in-memory display server. Heads are given as
WIDTHxHEIGHT, laid out left to right, or WIDTHxHEIGHT+X+Y for explicit
positions. Every client command works against the simulation's socket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			heads, err := parseHeads(headSpec)
			if err != nil {
				return err
			}
			sock, err := g.socket()
			if err != nil {
				return err
			}

			a, _, _, err := app.NewSimulation(app.SimOptions{
				Options: app.Options{
					Config:      cfg,
					SocketPath:  sock,
					SessionPath: session,
					Logger:      logger,
				},
				Heads:   heads,
				Windows: windows,
			})
			if err != nil {
				return err
			}
			logger.Info("tilewm simulation started", "heads", len(heads), "windows", windows, "socket", sock)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&headSpec, "heads", "1920x1080", "Comma-separated head geometries")
	cmd.Flags().IntVar(&windows, "windows", 3, "Number of client windows to seed")
	cmd.Flags().StringVar(&session, "session", "", "Session document to restore and save (default: none)")
	return cmd
}

// parseHeads reads "1920x1080,1280x1024" or "1920x1080+0+0,1280x1024+1920+56".
// Heads without an offset are placed right of the previous one.
func parseHeads(spec string) ([]geom.Rect, error) {
	var out []geom.Rect
	nextX := 0
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		size, offset, hasOffset := strings.Cut(part, "+")
		ws, hs, ok := strings.Cut(size, "x")
		if !ok {
			return nil, fmt.Errorf("head %q: want WIDTHxHEIGHT", part)
		}
		w, err := strconv.Atoi(ws)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("head %q: bad width", part)
		}
		h, err := strconv.Atoi(hs)
		if err != nil || h <= 0 {
			return nil, fmt.Errorf("head %q: bad height", part)
		}
		r := geom.Rect{X: nextX, Width: w, Height: h}
		if hasOffset {
			xs, ys, ok := strings.Cut(offset, "+")
			if !ok {
				return nil, fmt.Errorf("head %q: want WIDTHxHEIGHT+X+Y", part)
			}
			if r.X, err = strconv.Atoi(xs); err != nil {
				return nil, fmt.Errorf("head %q: bad x offset", part)
			}
			if r.Y, err = strconv.Atoi(ys); err != nil {
				return nil, fmt.Errorf("head %q: bad y offset", part)
			}
		}
		nextX = r.Right()
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no heads given")
	}
	return out, nil
}
