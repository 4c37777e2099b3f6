package workspace

import (
	"errors"
	"fmt"
)

// DefaultClipCapacity is the number of icon slots in a clip.
const DefaultClipCapacity = 32

// ErrClipFull is returned when a clip has no free slot.
var ErrClipFull = errors.New("clip is full")

// Icon is an application icon docked in a clip.
type Icon struct {
	App     string `yaml:"App"`
	Command string `yaml:"Command,omitempty"`
	// Omnipresent icons show in the clip of every workspace. They are
	// stored in the clip of workspace 0.
	Omnipresent bool `yaml:"Omnipresent,omitempty"`
}

// Clip is the per-workspace icon holder.
type Clip struct {
	Capacity int
	Icons    []Icon
}

// NewClip returns an empty clip with capacity slots.
func NewClip(capacity int) *Clip {
	if capacity <= 0 {
		capacity = DefaultClipCapacity
	}
	return &Clip{Capacity: capacity}
}

// Add docks an icon.
func (c *Clip) Add(icon Icon) error {
	if len(c.Icons) >= c.Capacity {
		return fmt.Errorf("dock %q: %w", icon.App, ErrClipFull)
	}
	c.Icons = append(c.Icons, icon)
	return nil
}

// Remove undocks the icon at i.
func (c *Clip) Remove(i int) {
	if i < 0 || i >= len(c.Icons) {
		return
	}
	c.Icons = append(c.Icons[:i], c.Icons[i+1:]...)
}

// Free returns the number of empty slots.
func (c *Clip) Free() int { return c.Capacity - len(c.Icons) }
