package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSchema is returned when rendering a runtime with nothing loaded.
	ErrNoSchema = errors.New("tui: no schema loaded")
)
