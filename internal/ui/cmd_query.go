package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezquery/internal/workbench"
)

// runCmd runs the session statement through the keyboard path
func runCmd(s *workbench.Session, seq int) tea.Cmd {
	return func() tea.Msg {
		res, err := s.RunShortcut(context.Background())
		return QueryResultMsg{Seq: seq, Result: res, Err: err}
	}
}

// exportCmd writes the current result as CSV
func exportCmd(s *workbench.Session, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := s.Export(dir)
		return ExportedMsg{Path: path, Err: err}
	}
}

// errorText returns the message shown for a failed run
func errorText(err error) string {
	var execErr *workbench.ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Underlying.Error()
	}
	return err.Error()
}
