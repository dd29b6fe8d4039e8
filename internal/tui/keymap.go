package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the approval gate's keyboard shortcuts.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Accept key.Binding
	Skip   key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "suggestions/all categories"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "apply selected"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s", "space"),
			key.WithHelp("s/Space", "skip transaction"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/Esc", "stop the run"),
		),
	}
}

// ShortHelp returns key bindings for the help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Accept, k.Skip, k.Cancel}
}

// FullHelp returns all key bindings grouped for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Accept, k.Skip, k.Cancel},
	}
}
