// Package historylist provides a scrollable list of past queries with
// selection and expansion.
package historylist

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezquery/internal/history"
)

// Styles for the list
type Styles struct {
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Prompt      lipgloss.Style
	Meta        lipgloss.Style
	SuccessIcon lipgloss.Style
	ErrorIcon   lipgloss.Style
	Empty       lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	textFaint := lipgloss.Color("#4C566A")
	return Styles{
		Item:        lipgloss.NewStyle().PaddingLeft(1),
		Selected:    lipgloss.NewStyle().PaddingLeft(1).Background(lipgloss.Color("#434C5E")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A3BE8C")).Bold(true),
		Meta:        lipgloss.NewStyle().Foreground(textFaint),
		SuccessIcon: lipgloss.NewStyle().Foreground(lipgloss.Color("#A3BE8C")),
		ErrorIcon:   lipgloss.NewStyle().Foreground(lipgloss.Color("#BF616A")),
		Empty:       lipgloss.NewStyle().Foreground(textFaint).Italic(true),
	}
}

// Model represents the list state
type Model struct {
	items    []history.Entry
	selected int
	expanded map[string]bool
	width    int
	height   int
	viewport viewport.Model
	styles   Styles

	highlightFunc func(string) string
}

// New creates a new list model
func New() Model {
	return Model{
		expanded: make(map[string]bool),
		viewport: viewport.New(80, 10),
		styles:   DefaultStyles(),
	}
}

// SetItems replaces the entries, most recent first
func (m Model) SetItems(items []history.Entry) Model {
	m.items = items
	if m.selected >= len(items) {
		m.selected = max(len(items)-1, 0)
	}
	m.updateViewport()
	return m
}

// SetSize sets the component dimensions
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.updateViewport()
	return m
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	m.updateViewport()
	return m
}

// SetHighlightFunc sets the syntax highlighting function
func (m Model) SetHighlightFunc(fn func(string) string) Model {
	m.highlightFunc = fn
	m.updateViewport()
	return m
}

// Len returns the number of entries
func (m Model) Len() int {
	return len(m.items)
}

// Selected returns the selected index
func (m Model) Selected() int {
	return m.selected
}

// SelectedItem returns the selected entry
func (m Model) SelectedItem() (history.Entry, bool) {
	if m.selected >= 0 && m.selected < len(m.items) {
		return m.items[m.selected], true
	}
	return history.Entry{}, false
}

// ToggleExpanded toggles full-text display of the selected entry
func (m Model) ToggleExpanded() Model {
	if item, ok := m.SelectedItem(); ok {
		m.expanded[item.ID] = !m.expanded[item.ID]
		m.updateViewport()
		m = m.ensureVisible()
	}
	return m
}

// MoveUp moves selection up
func (m Model) MoveUp() Model {
	if m.selected > 0 {
		m.selected--
		m.updateViewport()
		m = m.ensureVisible()
	}
	return m
}

// MoveDown moves selection down
func (m Model) MoveDown() Model {
	if m.selected < len(m.items)-1 {
		m.selected++
		m.updateViewport()
		m = m.ensureVisible()
	}
	return m
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the list
func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) updateViewport() {
	if len(m.items) == 0 {
		m.viewport.SetContent(m.styles.Empty.Render("No queries yet"))
		return
	}
	sections := make([]string, 0, len(m.items))
	for i := range m.items {
		sections = append(sections, m.renderItem(i))
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderItem(i int) string {
	item := m.items[i]

	style := m.styles.Item
	if i == m.selected {
		style = m.styles.Selected
	}
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}

	var content strings.Builder
	content.WriteString(m.styles.Prompt.Render("> "))

	text := item.QueryPreview(max(m.width-10, 10))
	if m.expanded[item.ID] {
		text = item.SQL
	} else {
		text = strings.ReplaceAll(text, "\n", " ")
	}
	if m.highlightFunc != nil {
		text = m.highlightFunc(text)
	}
	content.WriteString(text)
	content.WriteString("\n")

	icon, iconStyle := "✓", m.styles.SuccessIcon
	if !item.Succeeded() {
		icon, iconStyle = "✗", m.styles.ErrorIcon
	}
	content.WriteString(iconStyle.Render("  " + icon))
	content.WriteString(m.styles.Meta.Render(" " + string(item.Status) + " | " + item.Timestamp.Local().Format("2006-01-02 15:04:05")))

	return style.Render(content.String())
}

func (m Model) ensureVisible() Model {
	if len(m.items) == 0 {
		return m
	}

	top := 0
	for i := 0; i < m.selected; i++ {
		top += lipgloss.Height(m.renderItem(i))
	}
	bottom := top + lipgloss.Height(m.renderItem(m.selected))

	if top < m.viewport.YOffset {
		m.viewport.SetYOffset(top)
	} else if bottom > m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
	return m
}
