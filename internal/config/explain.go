package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path, for example
// "workspaces.max", "hotkeys.maximize_left" or "maximize.full_maximize_apps.0",
// and the layer that set it. A value inside a list reports the list's source.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	var root yaml.Node
	if err := root.Encode(res.Config); err != nil {
		return nil, Source{}, err
	}
	parts := strings.Split(path, ".")
	srcPath := path
	node := &root
	for i, part := range parts {
		if node.Kind == yaml.SequenceNode && srcPath == path {
			srcPath = strings.Join(parts[:i], ".")
		}
		next := child(node, part)
		if next == nil {
			return nil, Source{}, fmt.Errorf("unknown path: %s", strings.Join(parts[:i+1], "."))
		}
		node = next
	}
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[srcPath]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// child returns the mapping value for key, or the sequence element at a
// numeric key.
func child(n *yaml.Node, key string) *yaml.Node {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				return n.Content[i+1]
			}
		}
	case yaml.SequenceNode:
		if idx, err := strconv.Atoi(key); err == nil && idx >= 0 && idx < len(n.Content) {
			return n.Content[idx]
		}
	}
	return nil
}
