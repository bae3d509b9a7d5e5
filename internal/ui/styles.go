// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezquery/internal/config"
	"github.com/nhath/ezquery/internal/guardrail"
	"github.com/nhath/ezquery/internal/ui/components/historylist"
)

var (
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	borderColor lipgloss.Color

	StatusBarStyle lipgloss.Style
	TitleStyle     lipgloss.Style
	EditorStyle    lipgloss.Style
	MetaStyle      lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	PopupStyle     lipgloss.Style
)

// InitStyles initializes the global styles from the configured theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	borderColor = lipgloss.Color(theme.BorderColor)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	EditorStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Background(bgPrimary).
		Padding(1, 2)
}

// SeverityStyle returns the badge style for a validation severity
func SeverityStyle(s guardrail.Severity) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(bgPrimary)
	switch s {
	case guardrail.SeverityError:
		return base.Background(errorColor)
	case guardrail.SeverityWarning:
		return base.Background(warningColor)
	case guardrail.SeverityInfo:
		return base.Background(successColor)
	default:
		return base.Background(textFaint)
	}
}

// HistoryStyles returns historylist styles in the current theme
func HistoryStyles() historylist.Styles {
	s := historylist.DefaultStyles()
	s.Selected = s.Selected.Background(bgSecondary)
	s.Prompt = s.Prompt.Foreground(successColor)
	s.Meta = s.Meta.Foreground(textFaint)
	s.SuccessIcon = s.SuccessIcon.Foreground(successColor)
	s.ErrorIcon = s.ErrorIcon.Foreground(errorColor)
	s.Empty = s.Empty.Foreground(textSecondary)
	return s
}
