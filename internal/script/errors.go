package script

import "errors"

// Errors for script execution.
var (
	// ErrClosed is returned when running a script on a closed runner.
	ErrClosed = errors.New("script runner is closed")

	// ErrTimeout is returned when a script exceeds its time limit.
	ErrTimeout = errors.New("script execution timeout")
)
