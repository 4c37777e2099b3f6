package window

import (
	"errors"
	"fmt"
	"strings"
)

// MaxFlags is the set of maximize directions a window is tiled in.
type MaxFlags uint8

const (
	MaxHorizontal MaxFlags = 1 << iota
	MaxVertical
	MaxLeftHalf
	MaxRightHalf
	MaxTopHalf
	MaxBottomHalf
	// MaxMaximus is the tiled maximize computed by the obstruction solver.
	MaxMaximus
)

// MaxDirections holds every direction bit.
const MaxDirections = MaxHorizontal | MaxVertical | MaxLeftHalf | MaxRightHalf | MaxTopHalf | MaxBottomHalf | MaxMaximus

// Halves holds the four half bits.
const Halves = MaxLeftHalf | MaxRightHalf | MaxTopHalf | MaxBottomHalf

var flagNames = []struct {
	flag MaxFlags
	name string
}{
	{MaxHorizontal, "horizontal"},
	{MaxVertical, "vertical"},
	{MaxLeftHalf, "left"},
	{MaxRightHalf, "right"},
	{MaxTopHalf, "top"},
	{MaxBottomHalf, "bottom"},
	{MaxMaximus, "maximus"},
}

var (
	ErrOpposingHalves = errors.New("opposing halves requested together")
	ErrHalfAndFull    = errors.New("half and full maximize requested on the same axis")
	ErrMaximusMixed   = errors.New("maximus cannot be combined with other directions")
)

// Has reports whether every bit of x is set.
func (f MaxFlags) Has(x MaxFlags) bool { return f&x == x }

// Any reports whether any bit of x is set.
func (f MaxFlags) Any(x MaxFlags) bool { return f&x != 0 }

// Empty reports whether no direction is set.
func (f MaxFlags) Empty() bool { return f&MaxDirections == 0 }

// Validate rejects combinations no window can be in.
func (f MaxFlags) Validate() error {
	switch {
	case f.Has(MaxLeftHalf|MaxRightHalf) || f.Has(MaxTopHalf|MaxBottomHalf):
		return ErrOpposingHalves
	case f.Has(MaxHorizontal) && f.Any(MaxLeftHalf|MaxRightHalf):
		return ErrHalfAndFull
	case f.Has(MaxVertical) && f.Any(MaxTopHalf|MaxBottomHalf):
		return ErrHalfAndFull
	case f.Has(MaxMaximus) && f != MaxMaximus:
		return ErrMaximusMixed
	}
	return nil
}

// NewMaxFlags combines directions and validates the result.
func NewMaxFlags(dirs ...MaxFlags) (MaxFlags, error) {
	var f MaxFlags
	for _, d := range dirs {
		f |= d & MaxDirections
	}
	if err := f.Validate(); err != nil {
		return 0, fmt.Errorf("invalid maximize state %s: %w", f, err)
	}
	return f, nil
}

// ParseMaxFlags parses names joined by "|", "+" or ",", for example
// "left|vertical". "full" is shorthand for horizontal|vertical.
// The request is not validated: requests are combined with the current
// state before they reach a window.
func ParseMaxFlags(s string) (MaxFlags, error) {
	var f MaxFlags
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == '+' || r == ',' })
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty maximize direction")
	}
	for _, field := range fields {
		field = strings.TrimSpace(strings.ToLower(field))
		if field == "full" {
			f |= MaxHorizontal | MaxVertical
			continue
		}
		found := false
		for _, n := range flagNames {
			if n.name == field {
				f |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown maximize direction %q", field)
		}
	}
	return f, nil
}

func (f MaxFlags) String() string {
	if f.Empty() {
		return "none"
	}
	var parts []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// MarshalText writes the flag names so JSON and YAML stay readable.
func (f MaxFlags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *MaxFlags) UnmarshalText(b []byte) error {
	if string(b) == "none" || len(b) == 0 {
		*f = 0
		return nil
	}
	v, err := ParseMaxFlags(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
