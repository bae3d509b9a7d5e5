package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezquery/internal/ui/highlight"
)

// View renders the workbench
func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderStatusBar())
	sections = append(sections, EditorStyle.Width(max(m.width-2, 20)).Render(m.editor.View()))
	sections = append(sections, m.renderValidation())
	sections = append(sections, m.renderResults())
	sections = append(sections, m.help.View(m.keys))

	main := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.showHistory {
		return m.renderHistoryPopup(main)
	}
	return main
}

func (m Model) renderResults() string {
	if m.running {
		return MetaStyle.Render(m.spinner.View() + " Executing " + firstLine(highlight.SQL(m.session.Statement())))
	}
	if m.errorMsg != "" && !m.hasResults {
		return ErrorStyle.Render(m.errorMsg)
	}
	if !m.hasResults {
		return MetaStyle.Render("Run a query to see results")
	}
	res := m.session.Result()
	if res.Empty() {
		return MetaStyle.Render("Query returned no rows")
	}
	return m.results.View()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
