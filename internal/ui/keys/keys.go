package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings shared by all views
type KeyMap struct {
	Quit          key.Binding
	Back          key.Binding
	Tab           key.Binding
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	Enter         key.Binding
	Edit          key.Binding
	New           key.Binding
	Delete        key.Binding
	Search        key.Binding
	Filter        key.Binding
	ShowCompleted key.Binding
	Complete      key.Binding
	MoveLeft      key.Binding
	MoveRight     key.Binding
	Spin          key.Binding
	Help          key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		ShowCompleted: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "completed"),
		),
		Complete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "done"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("<", "H"),
			key.WithHelp("<", "move left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys(">", "L"),
			key.WithHelp(">", "move right"),
		),
		Spin: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space", "spin"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
