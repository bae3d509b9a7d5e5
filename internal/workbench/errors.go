package workbench

import (
	"errors"

	"github.com/nhath/ezquery/internal/guardrail"
)

var (
	// ErrBusy is returned when a run is requested while another is in flight
	ErrBusy = errors.New("a query is already running")
	// ErrNoResult is returned when exporting without a non-empty result
	ErrNoResult = errors.New("no results to export")
	// ErrShortcutBlocked is returned when the keyboard path refuses to run
	ErrShortcutBlocked = errors.New("execution shortcut disabled for this statement")
)

// ValidationError is a guardrail rejection. The executor is never called.
type ValidationError struct {
	Outcome guardrail.Outcome
}

func (e *ValidationError) Error() string {
	return e.Outcome.Message
}

// ExecutionError is a failure reported by the executor
type ExecutionError struct {
	Statement  string
	Underlying error
}

func (e *ExecutionError) Error() string {
	return e.Underlying.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Underlying }
