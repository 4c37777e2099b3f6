// Package palette shows tilewm's window list and workspace menus through an
// external dmenu-style launcher (rofi, fuzzel, wofi or dmenu).
package palette

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the launcher without
// picking an entry.
var ErrCancelled = errors.New("palette cancelled")

// Item is one row of a menu.
type Item struct {
	Label    string
	Icon     string // icon name, shown by launchers that support icons
	Meta     string // hidden search keywords
	Action   Action
	IsHeader bool // non-selectable section title
	IsActive bool // highlighted row, e.g. the focused window
	IsUrgent bool
}

// Selectable reports whether picking the row does anything.
func (it Item) Selectable() bool { return !it.IsHeader && it.Action.Kind != ActionNone }

// Backend shows items and returns the one the user picked.
type Backend interface {
	Show(ctx context.Context, prompt string, items []Item) (Item, error)
	Name() string
}

// Launchers in detection order.
var Launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// Detect returns the first launcher found in PATH.
func Detect() (string, error) {
	for _, name := range Launchers {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no menu launcher found in PATH (looked for: %s)", strings.Join(Launchers, ", "))
}

// NewBackend returns the launcher called name, or the detected one for
// "" and "auto". fuzzy turns on fuzzy matching where the launcher has it.
func NewBackend(name string, fuzzy bool) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := Detect()
		if err != nil {
			return nil, err
		}
		name = detected
	}
	kind, ok := launcherKinds[name]
	if !ok {
		return nil, fmt.Errorf("unknown menu backend %q (expected: auto, %s)", name, strings.Join(Launchers, ", "))
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("menu backend %q not found in PATH", name)
	}
	return newLauncher(kind, fuzzy), nil
}
