package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrClosed is returned for surveys outside their start/end window.
	ErrClosed = errors.New("tui: survey is closed")
)
