package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// renderHistoryPopup draws the history picker over main
func (m Model) renderHistoryPopup(main string) string {
	title := TitleStyle.Render(fmt.Sprintf("History (%d)", m.history.Len()))
	help := m.help.View(pickerHelp{m.keys})

	box := PopupStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.history.View(),
		"",
		help,
	))
	// pad the backdrop to the window so the popup is never cropped
	main = lipgloss.Place(
		max(m.width, lipgloss.Width(main), lipgloss.Width(box)),
		max(m.height, lipgloss.Height(main), lipgloss.Height(box)),
		lipgloss.Left, lipgloss.Top, main)
	return overlay.Composite(box, main, overlay.Center, overlay.Center, 0, 0)
}
