package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrAttemptsExhausted is returned when the form still reports an error
	// after the configured number of attempts.
	ErrAttemptsExhausted = errors.New("tui: attempts exhausted")
	// ErrNoSubmitButton is returned when the form has no submit button to
	// activate.
	ErrNoSubmitButton = errors.New("tui: form has no submit button")
)
