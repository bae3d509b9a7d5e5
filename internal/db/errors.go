// internal/db/errors.go
package db

import (
	"errors"
	"fmt"
)

// ErrEmptyStatement is returned for blank statements
var ErrEmptyStatement = errors.New("SQL query cannot be empty")

// ConnectionError wraps database connection failures
type ConnectionError struct {
	Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Underlying)
}

func (e *ConnectionError) Unwrap() error { return e.Underlying }

// QueryError wraps query execution failures
type QueryError struct {
	Underlying error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("Database query failed: %v", e.Underlying)
}

func (e *QueryError) Unwrap() error { return e.Underlying }

// ReadOnlyError rejects a statement that is not a plain read
type ReadOnlyError struct {
	Keyword string
}

func (e *ReadOnlyError) Error() string {
	if e.Keyword == "" {
		return "Only SELECT queries are allowed for security reasons."
	}
	return fmt.Sprintf("Forbidden keyword detected: %s", e.Keyword)
}

// LimitError rejects a LIMIT above the configured maximum
type LimitError struct {
	Requested int
	Max       int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("Query LIMIT exceeds maximum allowed (%d)", e.Max)
}

// WrapConnectionError creates a ConnectionError from underlying error
func WrapConnectionError(err error) error {
	return &ConnectionError{Underlying: err}
}

// WrapQueryError creates a QueryError from underlying error
func WrapQueryError(err error) error {
	return &QueryError{Underlying: err}
}

// IsRejection reports whether err is a guard rejection rather than a
// database failure
func IsRejection(err error) bool {
	var ro *ReadOnlyError
	var le *LimitError
	return errors.Is(err, ErrEmptyStatement) || errors.As(err, &ro) || errors.As(err, &le)
}
