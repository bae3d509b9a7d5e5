package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderStatusBar() string {
	var parts []string

	parts = append(parts, lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(accentColor).
		Foreground(bgPrimary).
		Render("EZQUERY"))

	label := m.label
	if label == "" {
		label = "no connection"
	}
	parts = append(parts, lipgloss.NewStyle().Padding(0, 1).Foreground(textPrimary).Background(bgSecondary).Render(label))

	if m.running {
		parts = append(parts, lipgloss.NewStyle().Foreground(accentColor).Padding(0, 1).Render(m.spinner.View()+" Running..."))
	}

	if m.statusMsg != "" {
		parts = append(parts, lipgloss.NewStyle().Background(successColor).Foreground(bgPrimary).Padding(0, 1).Render("✓ "+m.statusMsg))
	}

	if m.errorMsg != "" {
		msg := m.errorMsg
		if limit := m.width - 40; limit > 10 && len(msg) > limit {
			msg = msg[:limit-3] + "..."
		}
		parts = append(parts, lipgloss.NewStyle().Background(errorColor).Foreground(textPrimary).Padding(0, 1).Render("⚠ "+msg))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).Render(content)
}

// renderValidation shows the live guardrail verdict for the editor text
func (m Model) renderValidation() string {
	o := m.session.Validation()
	badge := SeverityStyle(o.Severity).Render(o.Severity.String())
	msg := lipgloss.NewStyle().Foreground(textSecondary).Render(" " + o.Message)
	return badge + msg
}
