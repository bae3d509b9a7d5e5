// Package guardrail classifies raw SQL text before it is sent for execution.
//
// The checks are a textual heuristic, not a parser and not a security
// boundary: the execution backend enforces read-only access on its own.
package guardrail

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultLimit is appended to statements that carry no LIMIT clause.
	DefaultLimit = 100
	// MaxLimit is enforced by the execution backend, not here.
	MaxLimit = 1000

	// scanWarnLength is the length under which a LIMIT query with no WHERE
	// clause is flagged as a probable full table scan.
	scanWarnLength = 50
)

// ForbiddenKeywords are matched as raw substrings of the upper-cased
// statement, in this order. A column named created_at trips CREATE.
var ForbiddenKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "TRUNCATE", "GRANT", "REVOKE", "CREATE",
}

// Severity grades an Outcome.
type Severity int

const (
	// SeverityNone is the zero value; Classify never returns it.
	SeverityNone Severity = iota
	// SeverityInfo marks a statement that is ready to run.
	SeverityInfo
	// SeverityWarning marks a runnable statement with a performance concern.
	SeverityWarning
	// SeverityError marks a rejected statement.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

// Outcome is the result of classifying a statement. Valid is false
// exactly when Severity is SeverityError.
type Outcome struct {
	Valid    bool
	Severity Severity
	Message  string
}

// Prepared is the statement that will actually be dispatched. Rewritten
// reports whether a default LIMIT was appended.
type Prepared struct {
	Statement string
	Rewritten bool
}

// Engine classifies and prepares statements. The zero value is not
// usable; construct one with New.
type Engine struct {
	defaultLimit int
}

// Option configures an Engine
type Option func(*Engine)

// WithDefaultLimit overrides the limit appended by PrepareForExecution.
// Non-positive values are ignored.
func WithDefaultLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultLimit = n
		}
	}
}

// New creates an Engine
func New(opts ...Option) *Engine {
	e := &Engine{defaultLimit: DefaultLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultLimit returns the limit this engine appends
func (e *Engine) DefaultLimit() int {
	return e.defaultLimit
}

// Classify grades sql. Checks run in a fixed order and the first match wins.
func (e *Engine) Classify(sql string) Outcome {
	trimmed := strings.TrimSpace(sql)
	upper := strings.ToUpper(trimmed)

	if upper == "" {
		return Outcome{Valid: false, Severity: SeverityError, Message: "Query cannot be empty"}
	}

	if kw, ok := firstForbidden(upper); ok {
		return Outcome{
			Valid:    false,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Security Risk: %q is not allowed. Read-only mode.", kw),
		}
	}

	if !strings.HasPrefix(upper, "SELECT") {
		return Outcome{Valid: false, Severity: SeverityError, Message: "Only SELECT statements are permitted."}
	}

	hasLimit := strings.Contains(upper, "LIMIT")
	if !hasLimit {
		return Outcome{
			Valid:    true,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Performance Warning: Missing LIMIT clause. Defaulting to LIMIT %d.", e.defaultLimit),
		}
	}

	if !strings.Contains(upper, "WHERE") && utf8.RuneCountInString(trimmed) < scanWarnLength {
		return Outcome{
			Valid:    true,
			Severity: SeverityWarning,
			Message:  "Full table scan warning: Consider adding a WHERE clause.",
		}
	}

	return Outcome{Valid: true, Severity: SeverityInfo, Message: "Ready to execute."}
}

// PrepareForExecution appends the default LIMIT when the statement has none.
// Callers must show the rewritten text to the user before dispatching it.
func (e *Engine) PrepareForExecution(sql string) Prepared {
	trimmed := strings.TrimSpace(sql)
	if strings.Contains(strings.ToUpper(trimmed), "LIMIT") {
		return Prepared{Statement: sql}
	}
	return Prepared{
		Statement: fmt.Sprintf("%s\nLIMIT %d", trimmed, e.defaultLimit),
		Rewritten: true,
	}
}

func firstForbidden(upper string) (string, bool) {
	for _, kw := range ForbiddenKeywords {
		if strings.Contains(upper, kw) {
			return kw, true
		}
	}
	return "", false
}

// CanRun reports whether the run action is enabled for o
func CanRun(o Outcome) bool {
	return o.Valid && o.Severity != SeverityError
}

// ShortcutAllowed gates the keyboard execute path. It re-checks the message
// for a security rejection independently of Valid.
func ShortcutAllowed(o Outcome) bool {
	return o.Valid && !strings.Contains(o.Message, "Security")
}

var std = New()

// Classify grades sql with the default engine
func Classify(sql string) Outcome {
	return std.Classify(sql)
}

// PrepareForExecution rewrites sql with the default engine
func PrepareForExecution(sql string) Prepared {
	return std.PrepareForExecution(sql)
}
