// internal/ui/messages.go
package ui

import (
	"github.com/nhath/ezquery/internal/result"
)

// QueryResultMsg is sent when a run completes. Seq identifies the run so
// responses for a superseded run are dropped.
type QueryResultMsg struct {
	Seq    int
	Result *result.QueryResult
	Err    error
}

// ExportedMsg is sent when an export finishes
type ExportedMsg struct {
	Path string
	Err  error
}
