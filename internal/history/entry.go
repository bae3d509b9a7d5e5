// internal/history/entry.go
package history

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the outcome of an executed query
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// UnmarshalText accepts the legacy "error" spelling for failures
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "success":
		*s = StatusSuccess
	case "failure", "error":
		*s = StatusFailure
	default:
		return fmt.Errorf("unknown history status: %q", string(b))
	}
	return nil
}

// Entry represents a single query execution in history.
// Entries are never mutated once recorded.
type Entry struct {
	ID        string
	SQL       string
	Timestamp time.Time
	Status    Status
}

// wireEntry is the persisted shape; timestamps are epoch milliseconds
type wireEntry struct {
	ID        string `json:"id"`
	SQL       string `json:"sql"`
	Timestamp int64  `json:"timestamp"`
	Status    Status `json:"status"`
}

// MarshalJSON implements json.Marshaler
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEntry{
		ID:        e.ID,
		SQL:       e.SQL,
		Timestamp: e.Timestamp.UnixMilli(),
		Status:    e.Status,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Entry) UnmarshalJSON(b []byte) error {
	var w wireEntry
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("history entry missing id")
	}
	*e = Entry{
		ID:        w.ID,
		SQL:       w.SQL,
		Timestamp: time.UnixMilli(w.Timestamp),
		Status:    w.Status,
	}
	return nil
}

// Succeeded reports whether the execution succeeded
func (e *Entry) Succeeded() bool {
	return e.Status == StatusSuccess
}

// QueryPreview returns the query cut to at most maxLen characters, ending
// in "..." when shortened. Multi-byte characters are never split.
func (e *Entry) QueryPreview(maxLen int) string {
	q := []rune(e.SQL)
	if maxLen > 3 && len(q) > maxLen {
		return string(q[:maxLen-3]) + "..."
	}
	return e.SQL
}
