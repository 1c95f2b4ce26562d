package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline execution.
var (
	// ErrScriptNotFound indicates a stage script is missing from the
	// installation.
	ErrScriptNotFound = errors.New("pipeline: stage script not found")

	// ErrStageFailed indicates a stage exited non-zero.
	ErrStageFailed = errors.New("pipeline: stage failed")
)

// StageError reports a failed stage with enough context to point the user at
// the stderr log.
type StageError struct {
	Stage    string
	Script   string
	ExitCode int
	LogPath  string // stderr log file, empty when the script never started
	Err      error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	msg := fmt.Sprintf("stage %q (%s) failed with exit code %d", e.Stage, e.Script, e.ExitCode)
	if e.LogPath != "" {
		msg += fmt.Sprintf(", see %s", e.LogPath)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, or ErrStageFailed so callers can
// match with errors.Is.
func (e *StageError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrStageFailed
}
