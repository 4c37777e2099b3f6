package maximize

import "github.com/1broseidon/tilewm/internal/window"

// Shortcut expands a bare half into the half plus the full perpendicular
// axis, which is what the "maximize left/right/top/bottom half" bindings
// send. Other requests are returned unchanged.
func Shortcut(f window.MaxFlags) window.MaxFlags {
	switch f {
	case window.MaxLeftHalf, window.MaxRightHalf:
		return f | window.MaxVertical
	case window.MaxTopHalf, window.MaxBottomHalf:
		return f | window.MaxHorizontal
	}
	return f
}
