package components

import "github.com/charmbracelet/bubbles/key"

// ModalKeyMap defines key bindings shared by the modal components
type ModalKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Escape   key.Binding
	Load     key.Binding
	Complete key.Binding
}

// DefaultModalKeyMap returns the default modal key bindings
func DefaultModalKeyMap() ModalKeyMap {
	return ModalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Load: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "load"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
	}
}

// ModalKeys is the global modal key bindings instance
var ModalKeys = DefaultModalKeyMap()
