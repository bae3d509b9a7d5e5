package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/nhath/ezquery/internal/config"
)

// keyMap binds the configured keys. It implements help.KeyMap.
type keyMap struct {
	Execute      key.Binding
	Exit         key.Binding
	Export       key.Binding
	History      key.Binding
	ClearHistory key.Binding
	NextPage     key.Binding
	PrevPage     key.Binding

	// history picker
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Expand key.Binding
	Close  key.Binding
}

func newKeyMap(k config.KeyMap) keyMap {
	bind := func(keys []string, desc string) key.Binding {
		help := ""
		if len(keys) > 0 {
			help = keys[0]
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
	}
	return keyMap{
		Execute:      bind(k.Execute, "run"),
		Exit:         bind(k.Exit, "quit"),
		Export:       bind(k.Export, "export csv"),
		History:      bind(k.History, "history"),
		ClearHistory: bind(k.ClearHistory, "clear history"),
		NextPage:     bind(k.NextPage, "next page"),
		PrevPage:     bind(k.PrevPage, "prev page"),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load")),
		Expand: key.NewBinding(key.WithKeys("tab", " "), key.WithHelp("tab", "expand")),
		Close:  key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Execute, k.Export, k.History, k.ClearHistory, k.Exit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Execute, k.Export, k.NextPage, k.PrevPage},
		{k.History, k.ClearHistory, k.Exit},
	}
}

// pickerHelp is shown while the history picker is open
type pickerHelp struct{ k keyMap }

func (p pickerHelp) ShortHelp() []key.Binding {
	return []key.Binding{p.k.Up, p.k.Down, p.k.Select, p.k.Expand, p.k.Close}
}

func (p pickerHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{p.ShortHelp()}
}
