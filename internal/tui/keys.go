package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Retreat  key.Binding
	Advance  key.Binding
	Jump     key.Binding
	NextDeck key.Binding

	// Actions
	ToggleForm key.Binding
	Reload     key.Binding
	Open       key.Binding
	Find       key.Binding
	Save       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Retreat: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("h/←", "previous"),
		),
		Advance: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("l/→", "next"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "go to post"),
		),
		NextDeck: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next deck"),
		),

		// Actions
		ToggleForm: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "change source"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Open: key.NewBinding(
			key.WithKeys("o", "enter"),
			key.WithHelp("o", "read more"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find post"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save sources"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retreat, k.Advance, k.ToggleForm, k.Find, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Retreat, k.Advance, k.Jump, k.NextDeck},
		{k.ToggleForm, k.Reload, k.Open, k.Find},
		{k.Save, k.Help, k.Quit},
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
