// internal/ui/app.go
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhath/ezquery/internal/ui/components/table"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m = m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case QueryResultMsg:
		return m.handleResult(msg), nil

	case ExportedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			m.statusMsg = ""
		} else {
			m.statusMsg = "Exported to " + msg.Path
			m.errorMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.showHistory {
			return m.handlePickerKey(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Exit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Execute):
		return m.execute()

	case key.Matches(msg, m.keys.Export):
		res := m.session.Result()
		if m.running || res.Empty() {
			m.errorMsg = "Nothing to export"
			return m, nil
		}
		return m, exportCmd(m.session, m.config.ExportDir)

	case key.Matches(msg, m.keys.History):
		m.showHistory = true
		m.history = m.history.SetItems(m.session.History())
		return m, nil

	case key.Matches(msg, m.keys.ClearHistory):
		m.session.ClearHistory()
		m.history = m.history.SetItems(nil)
		m.statusMsg = "History cleared"
		m.errorMsg = ""
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.hasResults {
			m.results = m.results.PageDown()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.hasResults {
			m.results = m.results.PageUp()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.session.SetStatement(m.editor.Value())
	m.errorMsg = ""
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Exit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close):
		m.showHistory = false
	case key.Matches(msg, m.keys.Up):
		m.history = m.history.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.history = m.history.MoveDown()
	case key.Matches(msg, m.keys.Expand):
		m.history = m.history.ToggleExpanded()
	case key.Matches(msg, m.keys.Select):
		if entry, ok := m.history.SelectedItem(); ok && m.session.SelectHistory(entry.ID) {
			m.editor.SetValue(m.session.Statement())
			m.statusMsg = "Loaded query from history"
			m.errorMsg = ""
		}
		m.showHistory = false
	}
	return m, nil
}

// execute dispatches the editor text. The LIMIT rewrite is applied to the
// editor before the run starts.
func (m Model) execute() (tea.Model, tea.Cmd) {
	m.session.SetStatement(m.editor.Value())
	if m.running || m.session.Running() {
		m.statusMsg = "A query is already running"
		return m, nil
	}
	if !m.session.ShortcutAllowed() {
		m.errorMsg = m.session.Validation().Message
		m.statusMsg = ""
		return m, nil
	}

	prepared := m.session.Engine().PrepareForExecution(m.editor.Value())
	if prepared.Rewritten {
		m.editor.SetValue(prepared.Statement)
		m.session.SetStatement(prepared.Statement)
	}

	m.seq++
	m.running = true
	m.errorMsg = ""
	m.statusMsg = ""
	m.logger.Debug("run dispatched", zap.Int("seq", m.seq))
	return m, tea.Batch(m.spinner.Tick, runCmd(m.session, m.seq))
}

func (m Model) handleResult(msg QueryResultMsg) Model {
	if msg.Seq != m.seq {
		m.logger.Debug("stale result dropped", zap.Int("seq", msg.Seq), zap.Int("current", m.seq))
		return m
	}
	m.running = false
	m.editor.SetValue(m.session.Statement())
	m.history = m.history.SetItems(m.session.History())

	if msg.Err != nil {
		m.errorMsg = errorText(msg.Err)
		m.statusMsg = ""
		m.hasResults = false
		return m
	}

	m.results = table.FromQueryResult(msg.Result, m.pageSize())
	m.hasResults = true
	m.errorMsg = ""
	m.statusMsg = fmt.Sprintf("%d rows in %dms", msg.Result.TotalRows, msg.Result.ExecutionTimeMs())
	if m.width > 0 {
		m.results = m.results.WithMaxTotalWidth(m.width)
	}
	return m
}

func (m Model) resize() Model {
	m.editor.SetWidth(max(m.width-4, 20))
	m.help.Width = m.width
	// title, help, padding and border take 9 lines around the list
	m.history = m.history.SetSize(max(m.width/2, 40), max(min(m.height/2, m.height-9), 3))
	if m.hasResults {
		m.results = m.results.
			WithPageSize(m.pageSize()).
			WithMaxTotalWidth(m.width)
	}
	return m
}

// pageSize fits the result table under the editor
func (m Model) pageSize() int {
	if m.height == 0 {
		return table.DefaultPageSize
	}
	// editor, badge, status bar, help and table chrome
	return max(m.height-m.editor.Height()-14, 3)
}
