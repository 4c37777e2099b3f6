package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_ValidAndBindsEveryHotkey(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	for _, name := range HotkeyNames() {
		if cfg.Hotkeys[name] == "" {
			t.Errorf("hotkey %q has no default binding", name)
		}
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Workspaces.Max != 16 || len(res.Files) != 0 {
		t.Fatalf("expected defaults and no files, got max=%d files=%v", res.Config.Workspaces.Max, res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Icons.Yard != YardBottomLeftHorizontal {
		t.Fatalf("expected default yard, got %q", res.Config.Icons.Yard)
	}
}

func TestLoadFromPath_Sections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"display: \":1\"",
		"maximize:",
		"  alt_half_maximize: true",
		"  full_maximize_apps: [mpv]",
		"focus:",
		"  mode: sloppy",
		"workspaces:",
		"  max: 8",
		"  cycle: true",
		"icons:",
		"  yard: top-right-vertical",
		"session:",
		"  autosave_interval: 30s",
		"hotkeys:",
		"  maximize_left: Mod1-Left",
		"  shade: \"\"",
		"logging:",
		"  level: debug",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Display != ":1" || !cfg.Maximize.AltHalfMaximize || cfg.Maximize.MoveHalfBetweenHeads {
		t.Fatalf("unexpected maximize/display: %+v %q", cfg.Maximize, cfg.Display)
	}
	if !cfg.FullMaximize("mpv") || cfg.FullMaximize("xterm") {
		t.Fatalf("FullMaximize mismatch: %v", cfg.Maximize.FullMaximizeApps)
	}
	if cfg.Focus.Mode != FocusSloppy {
		t.Fatalf("focus.mode = %q", cfg.Focus.Mode)
	}
	if cfg.Workspaces.Max != 8 || cfg.Workspaces.NameWidth != 16 || !cfg.Workspaces.Cycle {
		t.Fatalf("workspaces = %+v", cfg.Workspaces)
	}
	if cfg.Icons.Yard != YardTopRightVertical {
		t.Fatalf("icons.yard = %q", cfg.Icons.Yard)
	}
	if cfg.Session.AutosaveInterval != 30*time.Second {
		t.Fatalf("autosave_interval = %s", cfg.Session.AutosaveInterval)
	}
	if cfg.Hotkeys[HotkeyMaximizeLeft] != "Mod1-Left" {
		t.Fatalf("maximize_left = %q", cfg.Hotkeys[HotkeyMaximizeLeft])
	}
	if _, ok := cfg.Hotkeys[HotkeyShade]; ok {
		t.Fatalf("empty binding should unbind shade")
	}
	if cfg.Hotkeys[HotkeyIconify] == "" {
		t.Fatalf("unset binding lost its default")
	}
	if cfg.Logging.SlogLevel() != slog.LevelDebug {
		t.Fatalf("SlogLevel() = %v", cfg.Logging.SlogLevel())
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "workspaces:\n  maximum: 3\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "maximum") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorsAreJoinedWithSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"workspaces:",
		"  max: 500",
		"icons:",
		"  size: 0",
		"  yard: middle",
		"",
	}, "\n"))

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	msg := err.Error()
	for _, want := range []string{
		path + ":2:8: workspaces.max",
		path + ":4:9: icons.size",
		path + ":5:9: icons.yard",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in error:\n%s", want, msg)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"workspace max zero", func(c *Config) { c.Workspaces.Max = 0 }, "workspaces.max"},
		{"workspace max over cap", func(c *Config) { c.Workspaces.Max = 101 }, "workspaces.max"},
		{"name width", func(c *Config) { c.Workspaces.NameWidth = 0 }, "workspaces.name_width"},
		{"initial above max", func(c *Config) { c.Workspaces.Initial = 20 }, "workspaces.initial"},
		{"focus mode", func(c *Config) { c.Focus.Mode = "hover" }, "focus.mode"},
		{"dock side", func(c *Config) { c.Dock.Side = "top" }, "dock.side"},
		{"icon size", func(c *Config) { c.Icons.Size = -1 }, "icons.size"},
		{"negative border", func(c *Config) { c.Frame.BorderWidth = -1 }, "frame.border_width"},
		{"unknown hotkey", func(c *Config) { c.Hotkeys["launch"] = "Mod4-l" }, "hotkeys.launch"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"menu backend", func(c *Config) { c.Menu.Backend = "xmenu" }, "menu.backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.d", "10-base.yaml"), "workspaces:\n  max: 5\n  cycle: true\n")
	writeFile(t, filepath.Join(dir, "config.d", "20-override.yaml"), "workspaces:\n  max: 6\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include:\n  - config.d\nworkspaces:\n  max: 7\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Workspaces.Max != 7 {
		t.Fatalf("expected workspaces.max 7, got %d", res.Config.Workspaces.Max)
	}
	if !res.Config.Workspaces.Cycle {
		t.Fatalf("expected cycle from included file to survive")
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "workspaces:\n  max: 4\nmaximize:\n  full_maximize_apps: [mpv, vlc]\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "workspaces.max")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 4 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("explain workspaces.max = %v from %#v", val, src)
	}

	val, src, err = Explain(res, "icons.yard")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != string(YardBottomLeftHorizontal) || src.Kind != SourceDefault {
		t.Fatalf("explain icons.yard = %v from %#v", val, src)
	}

	val, src, err = Explain(res, "maximize.full_maximize_apps.1")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "vlc" || src.Kind != SourceFile || src.Line != 4 {
		t.Fatalf("explain list element = %v from %#v", val, src)
	}

	if _, _, err := Explain(res, "workspaces.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestDefaultConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/tilewm.yaml")
	got, err := DefaultConfigPath()
	if err != nil || got != "/etc/tilewm.yaml" {
		t.Fatalf("DefaultConfigPath() = %q, %v", got, err)
	}

	t.Setenv(EnvConfigPath, "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err = DefaultConfigPath()
	if err != nil || got != filepath.Join(home, ".config", "tilewm", "config.yaml") {
		t.Fatalf("DefaultConfigPath() = %q, %v", got, err)
	}
}
