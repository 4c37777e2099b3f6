// Package focus keeps the per-screen focus order. The most recently focused
// window is at the tail.
package focus

import (
	"slices"

	"github.com/1broseidon/tilewm/internal/window"
)

// Order is a most-recently-focused list of window handles.
type Order struct {
	list []window.Handle
}

// Insert adds a new window at the head, the least recent position.
func (o *Order) Insert(h window.Handle) {
	if o.Contains(h) {
		return
	}
	o.list = slices.Insert(o.list, 0, h)
}

// Raise moves h to the tail, adding it if missing.
func (o *Order) Raise(h window.Handle) {
	o.Remove(h)
	o.list = append(o.list, h)
}

// Remove drops h from the order.
func (o *Order) Remove(h window.Handle) {
	if i := slices.Index(o.list, h); i >= 0 {
		o.list = slices.Delete(o.list, i, i+1)
	}
}

// Contains reports whether h is in the order.
func (o *Order) Contains(h window.Handle) bool { return slices.Contains(o.list, h) }

// Tail returns the most recently focused window.
func (o *Order) Tail() window.Handle {
	if len(o.list) == 0 {
		return window.None
	}
	return o.list[len(o.list)-1]
}

// Len returns the number of windows in the order.
func (o *Order) Len() int { return len(o.list) }

// Walk visits handles from most to least recent until fn returns false.
func (o *Order) Walk(fn func(window.Handle) bool) {
	for i := len(o.list) - 1; i >= 0; i-- {
		if !fn(o.list[i]) {
			return
		}
	}
}

// Prev returns the window focused before h, or None.
func (o *Order) Prev(h window.Handle) window.Handle {
	i := slices.Index(o.list, h)
	if i <= 0 {
		return window.None
	}
	return o.list[i-1]
}

// Handles returns the order from least to most recent.
func (o *Order) Handles() []window.Handle { return slices.Clone(o.list) }
