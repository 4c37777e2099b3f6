package palette

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

type launcherKind int

const (
	kindRofi launcherKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

var launcherKinds = map[string]launcherKind{
	"rofi":   kindRofi,
	"fuzzel": kindFuzzel,
	"wofi":   kindWofi,
	"dmenu":  kindDmenu,
}

// runFunc runs a launcher with stdin and returns its stdout.
type runFunc func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

// launcher drives any dmenu-compatible program. rofi and fuzzel print the
// picked row index; wofi and dmenu print the row text.
type launcher struct {
	command string
	kind    launcherKind
	fuzzy   bool
	run     runFunc
}

func newLauncher(kind launcherKind, fuzzy bool) *launcher {
	l := &launcher{kind: kind, fuzzy: fuzzy, run: execRun}
	for name, k := range launcherKinds {
		if k == kind {
			l.command = name
		}
	}
	return l
}

func (l *launcher) Name() string { return l.command }

func (l *launcher) byIndex() bool { return l.kind == kindRofi || l.kind == kindFuzzel }

func (l *launcher) markup() bool { return l.kind == kindRofi || l.kind == kindWofi }

func execRun(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		// 1 is "nothing picked", 130 is Ctrl+C.
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 1 || exitErr.ExitCode() == 130) {
			return nil, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %s", name, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

func (l *launcher) Show(ctx context.Context, prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	rows := l.labels(items)
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = l.formatRow(it, rows[i])
	}

	for {
		out, err := l.run(ctx, l.command, l.args(prompt, items), strings.NewReader(strings.Join(lines, "\n")))
		if err != nil {
			return Item{}, err
		}
		selection := strings.TrimSpace(string(out))
		if selection == "" {
			return Item{}, ErrCancelled
		}
		idx, err := l.parseSelection(selection, rows)
		if err != nil {
			return Item{}, err
		}
		// Launchers without non-selectable rows let headers through.
		if !items[idx].Selectable() {
			continue
		}
		return items[idx], nil
	}
}

// labels returns the visible text of each row. Launchers that answer with
// text need every selectable label to be unique.
func (l *launcher) labels(items []Item) []string {
	rows := make([]string, len(items))
	seen := make(map[string]int)
	for i, it := range items {
		label := sanitize(it.Label)
		if !l.byIndex() && it.Selectable() {
			if n := seen[label]; n > 0 {
				label = fmt.Sprintf("%s (%d)", label, n+1)
			}
			seen[sanitize(it.Label)]++
		}
		rows[i] = label
	}
	return rows
}

func (l *launcher) args(prompt string, items []Item) []string {
	var args []string
	switch l.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		if l.fuzzy {
			args = append(args, "-matching", "fuzzy")
		}
		var active, urgent []int
		selected := -1
		for i, it := range items {
			if !it.Selectable() {
				continue
			}
			if it.IsActive {
				active = append(active, i)
				if selected < 0 {
					selected = i
				}
			}
			if it.IsUrgent {
				urgent = append(urgent, i)
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", joinInts(active))
		}
		if len(urgent) > 0 {
			args = append(args, "-u", joinInts(urgent))
		}
		if selected >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selected))
		}
	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindWofi:
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

func (l *launcher) formatRow(it Item, label string) string {
	display := label
	if l.markup() {
		display = html.EscapeString(display)
		if it.IsHeader {
			display = "<b>" + display + "</b>"
		}
	}
	if l.kind != kindRofi {
		return display
	}

	// rofi row properties: one NUL, then key\x1fvalue pairs joined by \x1f.
	var attrs []string
	if !it.Selectable() {
		attrs = append(attrs, "nonselectable", "true")
	}
	if it.Icon != "" {
		attrs = append(attrs, "icon", sanitizeField(it.Icon))
	}
	if it.Meta != "" {
		attrs = append(attrs, "meta", sanitizeField(it.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parseSelection(selection string, rows []string) (int, error) {
	if l.byIndex() {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(rows) {
				return 0, fmt.Errorf("palette: index %d out of range", idx)
			}
			return idx, nil
		}
	}
	for i, row := range rows {
		if row == selection {
			return i, nil
		}
	}
	return 0, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitize(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitize(value)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
