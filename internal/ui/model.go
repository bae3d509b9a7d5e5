// internal/ui/model.go
package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"
	"go.uber.org/zap"

	"github.com/nhath/ezquery/internal/config"
	"github.com/nhath/ezquery/internal/ui/components/historylist"
	"github.com/nhath/ezquery/internal/ui/highlight"
	"github.com/nhath/ezquery/internal/workbench"
)

// Model is the root Bubble Tea model
type Model struct {
	session *workbench.Session
	config  *config.Config
	logger  *zap.Logger
	label   string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	editor  textarea.Model

	results    bbtable.Model
	hasResults bool

	history     historylist.Model
	showHistory bool

	width, height int

	// seq numbers runs; a QueryResultMsg with another seq is stale
	seq     int
	running bool

	statusMsg string
	errorMsg  string
}

// NewModel creates the UI over a workbench session. label names the
// connection in the status bar.
func NewModel(session *workbench.Session, cfg *config.Config, label string, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	InitStyles(cfg.Theme)

	ti := textarea.New()
	ti.Placeholder = "SELECT * FROM users WHERE active = 1 LIMIT 50"
	ti.Focus()
	ti.CharLimit = 10000
	ti.SetHeight(6)
	ti.SetWidth(80)
	ti.ShowLineNumbers = false
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(textFaint)
	ti.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(textFaint)
	ti.SetValue(session.Statement())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	hl := historylist.New().
		SetStyles(HistoryStyles()).
		SetHighlightFunc(highlight.SQL)

	return Model{
		session: session,
		config:  cfg,
		logger:  logger,
		label:   label,
		keys:    newKeyMap(cfg.Keys),
		help:    help.New(),
		spinner: sp,
		editor:  ti,
		history: hl,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}
