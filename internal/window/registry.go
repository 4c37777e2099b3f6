package window

import (
	"sort"

	"github.com/1broseidon/tilewm/internal/platform"
)

// Registry owns the managed windows of one screen. Handles increase
// monotonically so a removed window's handle never resolves again.
type Registry struct {
	next     Handle
	byHandle map[Handle]*Window
	byClient map[platform.WindowID]Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byHandle: make(map[Handle]*Window),
		byClient: make(map[platform.WindowID]Handle),
	}
}

// Add assigns a handle to w and stores it.
func (r *Registry) Add(w *Window) Handle {
	r.next++
	w.Handle = r.next
	r.byHandle[w.Handle] = w
	if w.Client != 0 {
		r.byClient[w.Client] = w.Handle
	}
	return w.Handle
}

// Get resolves a handle. It returns nil for unknown or removed handles.
func (r *Registry) Get(h Handle) *Window {
	if h == None {
		return nil
	}
	return r.byHandle[h]
}

// ByClient finds the window managing a display-server client.
func (r *Registry) ByClient(id platform.WindowID) *Window {
	h, ok := r.byClient[id]
	if !ok {
		return nil
	}
	return r.byHandle[h]
}

// Remove drops the window. Transients pointing at it are orphaned.
func (r *Registry) Remove(h Handle) {
	w, ok := r.byHandle[h]
	if !ok {
		return
	}
	delete(r.byHandle, h)
	if w.Client != 0 {
		delete(r.byClient, w.Client)
	}
	for _, o := range r.byHandle {
		if o.TransientFor == h {
			o.TransientFor = None
		}
	}
}

// Len returns the number of managed windows.
func (r *Registry) Len() int { return len(r.byHandle) }

// All returns the windows ordered by handle, which is creation order.
func (r *Registry) All() []*Window {
	out := make([]*Window, 0, len(r.byHandle))
	for _, w := range r.byHandle {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Transients returns the windows whose TransientFor is owner.
func (r *Registry) Transients(owner Handle) []*Window {
	var out []*Window
	for _, w := range r.All() {
		if w.TransientFor == owner && owner != None {
			out = append(out, w)
		}
	}
	return out
}

// OwnerChain walks the transient-for links from h and returns the
// top-most owner. The walk is bounded by the window count plus one; ok is
// false when the bound is hit, which means the links form a cycle.
func (r *Registry) OwnerChain(h Handle) (owner Handle, ok bool) {
	limit := r.Len() + 1
	cur := h
	for i := 0; i < limit; i++ {
		w := r.Get(cur)
		if w == nil || w.TransientFor == None || r.Get(w.TransientFor) == nil {
			return cur, true
		}
		cur = w.TransientFor
	}
	return cur, false
}

// Application returns every window of app, in handle order.
func (r *Registry) Application(app string) []*Window {
	var out []*Window
	for _, w := range r.All() {
		if w.App == app && app != "" {
			out = append(out, w)
		}
	}
	return out
}
