package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Tab      key.Binding
	Space    key.Binding
	Add      key.Binding
	Edit     key.Binding
	MarkDone key.Binding
	Delete   key.Binding
	Chart    key.Binding
	Reload   key.Binding
	Sync     key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "pane switch (courses / checkpoints)"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle selected checkpoint"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add course"),
		),
		Edit: key.NewBinding(
			key.WithKeys("E", "e"),
			key.WithHelp("E", "edit course in $EDITOR"),
		),
		MarkDone: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "done, mark course complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete course"),
		),
		Chart: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "chart of course progress"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload from disk"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync with git remote"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search courses"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help toggle"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	bindings := []key.Binding{k.Tab, k.Add, k.Edit, k.MarkDone, k.Delete, k.Chart, k.Search, k.Help}
	parts := []string{"↑↓ nav"}
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+shortDesc(b.Help().Desc))
	}
	return strings.Join(parts, "  ")
}

// shortDesc keeps the first word of a help description.
func shortDesc(desc string) string {
	if i := strings.IndexAny(desc, " ,"); i > 0 {
		return desc[:i]
	}
	return desc
}

// FullHelp returns every binding as {key, description} for the help modal.
func (k KeyMap) FullHelp() [][]string {
	bindings := []key.Binding{
		k.Up, k.Down, k.Tab, k.Space, k.Add, k.Edit, k.MarkDone,
		k.Delete, k.Chart, k.Search, k.Reload, k.Sync, k.Help, k.Quit,
	}
	rows := make([][]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		rows = append(rows, []string{h.Key, h.Desc})
	}
	return rows
}
