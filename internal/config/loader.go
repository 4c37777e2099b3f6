package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "TILEWM_CONFIG"

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source is where a value came from. Line and Column point at the value
// node in File.
type Source struct {
	Kind   SourceKind
	Name   string
	File   string
	Line   int
	Column int
}

func fileSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

type LoadResult struct {
	Config *Config
	// Sources maps a dotted YAML path to the last file that set it.
	Sources map[string]Source
	// Files lists every file read, includes before the files that name them.
	Files []string
}

func DefaultConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tilewm", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load plus the per-key sources used by config explain.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes over the defaults. A missing
// file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{seen: make(map[string]bool)}

	var top layer
	if _, err := os.Stat(path); err == nil {
		if top, err = l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := BuildEffectiveConfig(top.raw)
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, top.sources)
	}
	if top.sources == nil {
		top.sources = map[string]Source{}
	}
	return &LoadResult{Config: cfg, Sources: top.sources, Files: top.files}, nil
}

// layer is one file merged with everything it includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

// over applies o on top of l.
func (l *layer) over(o layer) {
	l.raw = l.raw.merge(o.raw)
	if l.sources == nil {
		l.sources = make(map[string]Source, len(o.sources))
	}
	for k, v := range o.sources {
		l.sources[k] = v
	}
	l.files = append(l.files, o.files...)
}

type loader struct {
	// seen holds every file already merged; a second include of the same
	// file is skipped. stack is the include chain being loaded.
	seen  map[string]bool
	stack []string
}

func (l *loader) load(path string) (layer, error) {
	file, err := canonicalPath(path)
	if err != nil {
		return layer{}, err
	}
	for _, open := range l.stack {
		if open == file {
			return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.stack, " -> "), file)
		}
	}
	if l.seen[file] {
		return layer{}, nil
	}
	l.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	if err := decodeStrict(data, &raw); err != nil {
		return layer{}, fmt.Errorf("%s: %w", file, err)
	}
	sources, includes := scan(&doc, file)

	l.stack = append(l.stack, file)
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()

	var out layer
	for _, inc := range includes {
		paths, err := expandInclude(file, inc.Value)
		if err != nil {
			src := fileSource(file, inc)
			return layer{}, fmt.Errorf("%s:%d:%d: include %q: %w", src.File, src.Line, src.Column, inc.Value, err)
		}
		for _, p := range paths {
			sub, err := l.load(p)
			if err != nil {
				return layer{}, err
			}
			out.over(sub)
		}
	}
	// A file overrides what it includes.
	out.over(layer{raw: raw, sources: sources, files: []string{file}})
	return out, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// expandInclude resolves an include entry relative to the including file.
// A directory expands to its *.yaml and *.yml files in name order.
func expandInclude(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	path, err := expandHome(include)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(from), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(path, ent.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/")), nil
}

// scan records the position of every key in doc and returns the scalar
// nodes of the top-level include entry.
func scan(doc *yaml.Node, file string) (map[string]Source, []*yaml.Node) {
	sources := make(map[string]Source)
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return sources, nil
	}

	var walk func(n *yaml.Node, prefix string)
	walk = func(n *yaml.Node, prefix string) {
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i].Value, n.Content[i+1]
			if prefix != "" {
				key = prefix + "." + key
			}
			sources[key] = fileSource(file, val)
			if val.Kind == yaml.MappingNode {
				walk(val, key)
			}
		}
	}
	walk(root, "")

	var includes []*yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		switch val := root.Content[i+1]; val.Kind {
		case yaml.ScalarNode:
			includes = append(includes, val)
		case yaml.SequenceNode:
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					includes = append(includes, item)
				}
			}
		}
	}
	delete(sources, "include")
	return sources, includes
}

// attachSourceContext fills in the file position of every ValidationError
// in err, including the ones joined by Validate.
func attachSourceContext(err error, sources map[string]Source) error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			attachSourceContext(e, sources)
		}
		return err
	}
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Path != "" {
		if src, ok := sources[verr.Path]; ok {
			verr.Source = src
		}
	}
	return err
}
