package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/tilewm/internal/geom"
)

// Call is one recorded adapter invocation.
type Call struct {
	Op    string
	ID    WindowID
	Rect  geom.Rect
	Point geom.Point
	Level Level
	State ClientState
}

func (c Call) String() string {
	switch c.Op {
	case "configure":
		return fmt.Sprintf("%s %d %v", c.Op, c.ID, c.Rect)
	case "level":
		return fmt.Sprintf("%s %d %v", c.Op, c.ID, c.Level)
	case "map-icon":
		return fmt.Sprintf("%s %d %d,%d", c.Op, c.ID, c.Point.X, c.Point.Y)
	}
	return fmt.Sprintf("%s %d", c.Op, c.ID)
}

// Recorder is an in-memory Adapter. It records every call, tracks the
// mapped state of frames and clients, and lets tests script the pointer
// and window lifetimes. It backs headless runs as well as tests.
type Recorder struct {
	mu          sync.Mutex
	calls       []Call
	alive       map[WindowID]bool
	frames      map[WindowID]bool
	clients     map[WindowID]bool
	icons       map[WindowID]geom.Point
	frame       map[WindowID]geom.Rect
	frameHeight map[WindowID]int
	levels      map[WindowID]Level
	focused     WindowID

	pointer   geom.Point
	pointerOK bool
	under     WindowID

	// OnPendingEvents runs inside ProcessPendingEvents.
	OnPendingEvents func()

	displays []Display
	screen   geom.Rect
	clientsL []Client
}

var (
	_ Adapter   = (*Recorder)(nil)
	_ Discovery = (*Recorder)(nil)
)

// NewRecorder creates an empty recorder with the given displays.
func NewRecorder(screen geom.Rect, displays ...Display) *Recorder {
	return &Recorder{
		alive:       make(map[WindowID]bool),
		frames:      make(map[WindowID]bool),
		clients:     make(map[WindowID]bool),
		icons:       make(map[WindowID]geom.Point),
		frame:       make(map[WindowID]geom.Rect),
		frameHeight: make(map[WindowID]int),
		levels:      make(map[WindowID]Level),
		displays:    displays,
		screen:      screen,
	}
}

// AddClient registers a client as existing on the fake server.
func (r *Recorder) AddClient(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alive[c.ID] = true
	r.clientsL = append(r.clientsL, c)
}

// Destroy marks the window as gone.
func (r *Recorder) Destroy(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.alive, id)
}

// SetPointer sets the pointer position. ok=false simulates a failed query.
func (r *Recorder) SetPointer(p geom.Point, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointer, r.pointerOK = p, ok
}

// SetWindowUnderPointer sets the window reported under the pointer; 0 for none.
func (r *Recorder) SetWindowUnderPointer(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.under = id
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset clears the call log but keeps window state.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) FrameMapped(id WindowID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[id]
}

func (r *Recorder) ClientMapped(id WindowID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clients[id]
}

func (r *Recorder) IconAt(id WindowID) (geom.Point, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.icons[id]
	return p, ok
}

func (r *Recorder) Geometry(id WindowID) geom.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame[id]
}

func (r *Recorder) StackingLevel(id WindowID) Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.levels[id]
}

func (r *Recorder) Focused() WindowID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focused
}

func (r *Recorder) record(c Call) {
	r.calls = append(r.calls, c)
}

func (r *Recorder) MapFrame(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames[id] = true
	r.record(Call{Op: "map-frame", ID: id})
}

func (r *Recorder) UnmapFrame(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames[id] = false
	r.record(Call{Op: "unmap-frame", ID: id})
}

func (r *Recorder) MapClient(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[id] = true
	r.record(Call{Op: "map-client", ID: id})
}

func (r *Recorder) UnmapClient(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[id] = false
	r.record(Call{Op: "unmap-client", ID: id})
}

func (r *Recorder) Configure(id WindowID, frame geom.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame[id] = frame
	r.record(Call{Op: "configure", ID: id, Rect: frame})
}

func (r *Recorder) SetFrameHeight(id WindowID, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frameHeight[id] = height
	r.record(Call{Op: "frame-height", ID: id, Rect: geom.Rect{Height: height}})
}

// FrameHeight returns the last height set with SetFrameHeight.
func (r *Recorder) FrameHeight(id WindowID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameHeight[id]
}

func (r *Recorder) SetFocus(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focused = id
	r.record(Call{Op: "focus", ID: id})
}

func (r *Recorder) ClearFocus() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focused = 0
	r.record(Call{Op: "focus-none"})
}

func (r *Recorder) PointerPosition() (geom.Point, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pointer, r.pointerOK
}

func (r *Recorder) WindowUnderPointer() (WindowID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.under, r.under != 0
}

func (r *Recorder) SetStackingLevel(id WindowID, level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[id] = level
	r.record(Call{Op: "level", ID: id, Level: level})
}

func (r *Recorder) Raise(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: "raise", ID: id})
}

func (r *Recorder) Lower(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: "lower", ID: id})
}

func (r *Recorder) SetClientState(id WindowID, state ClientState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: "client-state", ID: id, State: state})
}

func (r *Recorder) MapIcon(id WindowID, pos geom.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icons[id] = pos
	r.record(Call{Op: "map-icon", ID: id, Point: pos})
}

func (r *Recorder) UnmapIcon(id WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.icons, id)
	r.record(Call{Op: "unmap-icon", ID: id})
}

func (r *Recorder) Exists(id WindowID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alive[id]
}

func (r *Recorder) ProcessPendingEvents() {
	r.mu.Lock()
	hook := r.OnPendingEvents
	r.record(Call{Op: "pending-events"})
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (r *Recorder) Displays() ([]Display, geom.Rect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Display, len(r.displays))
	copy(out, r.displays)
	return out, r.screen, nil
}

func (r *Recorder) Clients() ([]Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Client, len(r.clientsL))
	copy(out, r.clientsL)
	return out, nil
}

// SetDisplays replaces what Displays reports.
func (r *Recorder) SetDisplays(screen geom.Rect, displays ...Display) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screen = screen
	r.displays = append([]Display(nil), displays...)
}
