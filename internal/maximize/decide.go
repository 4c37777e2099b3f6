// Package maximize reconciles maximize requests against a window's current
// tiling state and computes the resulting geometry.
//
// Decide is a pure decision table: it never touches a window. The engine
// applies the returned Decision with Maximize and Unmaximize.
package maximize

import (
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/window"
)

// Policy holds the user preferences that change how repeated and
// opposite-side requests behave.
type Policy struct {
	// AltHalfMaximize turns opposite-half and neighbouring-quarter requests
	// into half and full maximizes instead of toggles.
	AltHalfMaximize bool
	// MoveHalfBetweenHeads sends a half-maximized window to the adjacent
	// head when the same half is requested again.
	MoveHalfBetweenHeads bool
}

// Hints describe where a request came from.
type Hints struct {
	// Keyboard means the request did not come from the pointer, so the
	// window's own head is used instead of the pointer head.
	Keyboard bool
	// IgnoreHeads keeps the head passed in regardless of the pointer.
	IgnoreHeads bool
}

// Action is what the engine must do.
type Action int

const (
	ActionNone Action = iota
	ActionMaximize
	ActionUnmaximize
)

func (a Action) String() string {
	switch a {
	case ActionMaximize:
		return "maximize"
	case ActionUnmaximize:
		return "unmaximize"
	}
	return "none"
}

// Request is one maximize request.
type Request struct {
	// Current and Old are the window's Maximized and OldMaximized flags.
	Current window.MaxFlags
	Old     window.MaxFlags
	// Requested are the directions asked for.
	Requested window.MaxFlags
	Hints     Hints
	// Head is the head the window currently lives on.
	Head int
	// Relative finds the head adjacent to Head in a direction.
	Relative func(head int, dir geom.Direction) (int, bool)
}

// Decision is the result of Decide.
type Decision struct {
	Action Action
	Flags  window.MaxFlags
	Head   int
	Hints  Hints
	// ResetFirst means the window is unmaximized before Flags are applied.
	ResetFirst bool
	// Rule names the table row that matched.
	Rule string
}

type rule struct {
	name  string
	match func(in *input) bool
	apply func(in *input) Decision
}

type input struct {
	Request
	policy    Policy
	effective window.MaxFlags
}

func (in *input) maximize(rule string, flags window.MaxFlags, head int, keyboard bool) Decision {
	h := in.Hints
	if keyboard {
		h.Keyboard = true
	}
	return Decision{Action: ActionMaximize, Flags: flags, Head: head, Hints: h, Rule: rule}
}

func (in *input) unmaximize(rule string) Decision {
	return Decision{Action: ActionUnmaximize, Head: in.Head, Hints: in.Hints, Rule: rule}
}

// repeatRules apply when the request equals the current state.
var repeatRules = []rule{
	{
		name: "restore-maximus",
		match: func(in *input) bool {
			return in.Old.Has(window.MaxMaximus) && !in.Requested.Has(window.MaxMaximus)
		},
		apply: func(in *input) Decision {
			return in.maximize("restore-maximus", window.MaxMaximus, in.Head, false)
		},
	},
	{
		name: "alt-full-toggle",
		match: func(in *input) bool {
			full := window.MaxHorizontal | window.MaxVertical
			return in.policy.AltHalfMaximize && in.Current.Has(full) && in.Requested.Has(full)
		},
		apply: func(in *input) Decision { return in.unmaximize("alt-full-toggle") },
	},
	{
		name: "move-half-to-head",
		match: func(in *input) bool {
			return in.policy.MoveHalfBetweenHeads && in.Current.Any(window.MaxVertical|window.MaxHorizontal) && sameHalf(in) != 0
		},
		apply: func(in *input) Decision {
			half := sameHalf(in)
			dir, mirror, axis, clear := halfMove(half)
			if in.Relative != nil {
				if dest, ok := in.Relative(in.Head, dir); ok {
					flags := (in.effective | mirror | axis) &^ clear
					return in.maximize("move-half-to-head", flags, dest, true)
				}
			}
			if in.policy.AltHalfMaximize {
				return in.maximize("move-half-no-head", normalize(in.Requested, in.effective), in.Head, false)
			}
			return in.unmaximize("move-half-no-head")
		},
	},
	{
		name:  "repeat-reapply",
		match: func(in *input) bool { return in.policy.AltHalfMaximize },
		apply: func(in *input) Decision {
			return in.maximize("repeat-reapply", normalize(in.Requested, in.effective), in.Head, false)
		},
	},
	{
		name:  "repeat-toggle",
		match: func(*input) bool { return true },
		apply: func(in *input) Decision { return in.unmaximize("repeat-toggle") },
	},
}

// changeRules apply when the request differs from the current state.
var changeRules = []rule{
	{
		name: "lone-half-toggle",
		match: func(in *input) bool {
			switch in.effective {
			case window.MaxLeftHalf, window.MaxRightHalf, window.MaxTopHalf, window.MaxBottomHalf:
				return true
			}
			return false
		},
		apply: func(in *input) Decision { return in.unmaximize("lone-half-toggle") },
	},
	altRule("alt-quarter-to-top", window.MaxTopHalf|window.MaxHorizontal,
		pair{window.MaxLeftHalf | window.MaxTopHalf, window.MaxRightHalf | window.MaxTopHalf},
		pair{window.MaxRightHalf | window.MaxTopHalf, window.MaxLeftHalf | window.MaxTopHalf}),
	altRule("alt-quarter-to-bottom", window.MaxBottomHalf|window.MaxHorizontal,
		pair{window.MaxLeftHalf | window.MaxBottomHalf, window.MaxRightHalf | window.MaxBottomHalf},
		pair{window.MaxRightHalf | window.MaxBottomHalf, window.MaxLeftHalf | window.MaxBottomHalf}),
	altRule("alt-quarter-to-left", window.MaxLeftHalf|window.MaxVertical,
		pair{window.MaxLeftHalf | window.MaxBottomHalf, window.MaxLeftHalf | window.MaxTopHalf},
		pair{window.MaxLeftHalf | window.MaxTopHalf, window.MaxLeftHalf | window.MaxBottomHalf}),
	altRule("alt-quarter-to-right", window.MaxRightHalf|window.MaxVertical,
		pair{window.MaxRightHalf | window.MaxBottomHalf, window.MaxRightHalf | window.MaxTopHalf},
		pair{window.MaxRightHalf | window.MaxTopHalf, window.MaxRightHalf | window.MaxBottomHalf}),
	altRule("alt-opposite-half-to-full", window.MaxHorizontal|window.MaxVertical,
		pair{window.MaxLeftHalf | window.MaxVertical, window.MaxRightHalf | window.MaxVertical},
		pair{window.MaxRightHalf | window.MaxVertical, window.MaxLeftHalf | window.MaxVertical},
		pair{window.MaxTopHalf | window.MaxHorizontal, window.MaxBottomHalf | window.MaxHorizontal},
		pair{window.MaxBottomHalf | window.MaxHorizontal, window.MaxTopHalf | window.MaxHorizontal}),
	{
		name:  "apply",
		match: func(*input) bool { return true },
		apply: func(in *input) Decision {
			return in.maximize("apply", normalize(in.Requested, in.effective), in.Head, false)
		},
	},
}

// pair matches a requested set against a current set; both are "contains" tests.
type pair struct {
	requested, current window.MaxFlags
}

func altRule(name string, result window.MaxFlags, pairs ...pair) rule {
	return rule{
		name: name,
		match: func(in *input) bool {
			if !in.policy.AltHalfMaximize {
				return false
			}
			for _, p := range pairs {
				if in.Requested.Has(p.requested) && in.Current.Has(p.current) {
					return true
				}
			}
			return false
		},
		apply: func(in *input) Decision { return in.maximize(name, result, in.Head, true) },
	}
}

// Decide maps a request to the action the engine applies.
func Decide(req Request, policy Policy) Decision {
	req.Current &= window.MaxDirections
	req.Requested &= window.MaxDirections
	in := &input{Request: req, policy: policy, effective: req.Requested ^ req.Current}

	if in.effective.Empty() {
		return run(repeatRules, in)
	}
	d := run(changeRules, in)
	// Without alternate transitions a change always starts from the
	// restored geometry.
	if !policy.AltHalfMaximize && d.Action == ActionMaximize {
		d.ResetFirst = true
	}
	return d
}

func run(rules []rule, in *input) Decision {
	for _, r := range rules {
		if r.match(in) {
			return r.apply(in)
		}
	}
	return Decision{Action: ActionNone, Head: in.Head}
}

// RuleNames lists the table rows in evaluation order.
func RuleNames() []string {
	var names []string
	for _, r := range repeatRules {
		names = append(names, r.name)
	}
	for _, r := range changeRules {
		names = append(names, r.name)
	}
	return names
}

// sameHalf returns the half that is both requested and current, checking
// left, right, top, bottom in that order.
func sameHalf(in *input) window.MaxFlags {
	for _, h := range []window.MaxFlags{window.MaxLeftHalf, window.MaxRightHalf, window.MaxTopHalf, window.MaxBottomHalf} {
		if in.Requested.Has(h) && in.Current.Has(h) {
			return h
		}
	}
	return 0
}

// halfMove returns the travel direction for a half, its mirror half, the
// full axis the window keeps, and the bits to clear.
func halfMove(half window.MaxFlags) (dir geom.Direction, mirror, axis, clear window.MaxFlags) {
	switch half {
	case window.MaxLeftHalf:
		return geom.DirLeft, window.MaxRightHalf, window.MaxVertical, window.MaxHorizontal | window.MaxLeftHalf
	case window.MaxRightHalf:
		return geom.DirRight, window.MaxLeftHalf, window.MaxVertical, window.MaxHorizontal | window.MaxRightHalf
	case window.MaxTopHalf:
		return geom.DirUp, window.MaxBottomHalf, window.MaxHorizontal, window.MaxVertical | window.MaxTopHalf
	}
	return geom.DirDown, window.MaxTopHalf, window.MaxHorizontal, window.MaxVertical | window.MaxBottomHalf
}

// normalize resolves conflicting bits in a request. A half clears the
// opposite half and the full bit of its own axis, and implies the full
// perpendicular axis unless a perpendicular half makes it a quarter.
func normalize(requested, effective window.MaxFlags) window.MaxFlags {
	full := window.MaxHorizontal | window.MaxVertical
	if requested == full || requested == window.MaxMaximus {
		return requested
	}
	vertHalves := window.MaxTopHalf | window.MaxBottomHalf
	horzHalves := window.MaxLeftHalf | window.MaxRightHalf

	switch {
	case requested.Has(window.MaxLeftHalf):
		effective = sideHalf(requested, effective, vertHalves, window.MaxVertical, window.MaxLeftHalf, window.MaxHorizontal|window.MaxRightHalf)
	case requested.Has(window.MaxRightHalf):
		effective = sideHalf(requested, effective, vertHalves, window.MaxVertical, window.MaxRightHalf, window.MaxHorizontal|window.MaxLeftHalf)
	}
	switch {
	case requested.Has(window.MaxTopHalf):
		effective = sideHalf(requested, effective, horzHalves, window.MaxHorizontal, window.MaxTopHalf, window.MaxVertical|window.MaxBottomHalf)
	case requested.Has(window.MaxBottomHalf):
		effective = sideHalf(requested, effective, horzHalves, window.MaxHorizontal, window.MaxBottomHalf, window.MaxVertical|window.MaxTopHalf)
	}
	if requested.Has(window.MaxHorizontal) {
		effective &^= horzHalves
	}
	if requested.Has(window.MaxVertical) {
		effective &^= vertHalves
	}
	return effective &^ window.MaxMaximus
}

func sideHalf(requested, effective, perpendicular, perpendicularFull, side, clear window.MaxFlags) window.MaxFlags {
	if !requested.Any(perpendicular) {
		effective |= perpendicularFull
	} else {
		effective |= requested & perpendicular
	}
	return (effective | side) &^ clear
}
