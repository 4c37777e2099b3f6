package workspace

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Session is the persisted session document. Keys keep the names other
// tools read: "Workspaces", "Name" and "Clip".
type Session struct {
	Workspaces []WorkspaceState `yaml:"Workspaces,omitempty"`
	// Clip seeds the clip of workspaces created after startup.
	Clip *ClipState `yaml:"Clip,omitempty"`
}

// WorkspaceState is one saved workspace.
type WorkspaceState struct {
	Name string     `yaml:"Name"`
	Clip *ClipState `yaml:"Clip,omitempty"`
}

// ClipState is a saved clip.
type ClipState struct {
	Icons []Icon `yaml:"Icons,omitempty"`
}

// UnmarshalYAML accepts the legacy form where an entry is just the name.
func (w *WorkspaceState) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		w.Name = value.Value
		w.Clip = nil
		return nil
	}
	type plain WorkspaceState
	var p plain
	if err := value.Decode(&p); err != nil {
		return fmt.Errorf("workspace entry at line %d: %w", value.Line, err)
	}
	*w = WorkspaceState(p)
	return nil
}

func clipState(c *Clip) *ClipState {
	if c == nil {
		return nil
	}
	icons := make([]Icon, len(c.Icons))
	copy(icons, c.Icons)
	return &ClipState{Icons: icons}
}

// ClipFromState builds a clip from saved state. Icons past capacity are dropped.
func ClipFromState(s *ClipState) *Clip {
	c := NewClip(DefaultClipCapacity)
	if s == nil {
		return c
	}
	for _, icon := range s.Icons {
		if c.Add(icon) != nil {
			break
		}
	}
	return c
}

// SeedClip returns the clip a new workspace starts with, built from the
// session's top-level clip. Omnipresent icons already live in workspace 0.
func (s *Session) SeedClip() *Clip {
	c := NewClip(DefaultClipCapacity)
	if s == nil || s.Clip == nil {
		return c
	}
	for _, icon := range s.Clip.Icons {
		if icon.Omnipresent {
			continue
		}
		if c.Add(icon) != nil {
			break
		}
	}
	return c
}

// SaveState serializes the list. With clips disabled, the clip saved in
// previous at the same index is carried over.
func (l *List) SaveState(previous *Session) *Session {
	out := &Session{}
	if previous != nil {
		out.Clip = previous.Clip
	}
	for i, ws := range l.items {
		st := WorkspaceState{Name: ws.Name}
		switch {
		case !l.opts.NoClip:
			st.Clip = clipState(ws.Clip)
		case previous != nil && i < len(previous.Workspaces):
			st.Clip = previous.Workspaces[i].Clip
		}
		out.Workspaces = append(out.Workspaces, st)
	}
	return out
}

// RestoreState applies a saved document: it creates workspaces up to the
// saved count (bounded by the maximum), restores names and clips, and moves
// omnipresent icons into the clip of workspace 0.
//
// It returns the indices whose names were restored. Clip overruns are
// returned as errors wrapping ErrClipFull; the affected icon stays where it
// was and the restore continues.
func (l *List) RestoreState(s *Session) (restored []int, problems []error) {
	if s == nil {
		return nil, nil
	}
	n := min(len(s.Workspaces), l.opts.Max)
	for i := 0; i < n; i++ {
		st := s.Workspaces[i]
		if i >= len(l.items) {
			if _, err := l.New(s.SeedClip()); err != nil {
				problems = append(problems, err)
				break
			}
		}
		ws := l.items[i]
		name := st.Name
		if name == "" {
			name = DefaultName(i)
		}
		ws.Name = truncate(name, l.opts.NameWidth)

		if !l.opts.NoClip {
			ws.Clip = ClipFromState(st.Clip)
			if i > 0 {
				problems = append(problems, l.hoistOmnipresent(i)...)
			}
		}
		restored = append(restored, i)
	}
	return restored, problems
}

func (l *List) hoistOmnipresent(from int) []error {
	src := l.items[from].Clip
	dst := l.items[0].Clip
	var problems []error
	kept := src.Icons[:0]
	for _, icon := range src.Icons {
		if !icon.Omnipresent {
			kept = append(kept, icon)
			continue
		}
		if err := dst.Add(icon); err != nil {
			problems = append(problems, fmt.Errorf("workspace %d omnipresent icon: %w", from+1, err))
			kept = append(kept, icon)
		}
	}
	src.Icons = kept
	return problems
}
