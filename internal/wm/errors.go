package wm

import "errors"

var (
	// ErrUnknownWindow is returned when a handle or client id resolves to
	// no managed window.
	ErrUnknownWindow = errors.New("unknown window")
	// ErrNoScreen is returned when the engine has no screen at an index.
	ErrNoScreen = errors.New("no such screen")
	// ErrRejected is returned when a transition had nothing to do or was
	// refused by policy.
	ErrRejected = errors.New("request rejected")
	// ErrLoopStopped is returned by Loop.Do once the loop has exited.
	ErrLoopStopped = errors.New("engine loop stopped")
)
