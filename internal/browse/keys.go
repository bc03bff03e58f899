package browse

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/cachemole/internal/selection"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Delete    key.Binding
	Details   key.Binding
	Confirm   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "backspace", "delete"),
			key.WithHelp("d/⌫", "delete"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter", "i"),
			key.WithHelp("enter", "details"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Delete, k.Details, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Delete, k.Confirm, k.Details, k.Quit}}
}

// event maps a key press to the controller's abstract input.
func (k keyMap) event(msg tea.KeyMsg) selection.Event {
	switch {
	case key.Matches(msg, k.Up):
		return selection.EventUp
	case key.Matches(msg, k.Down):
		return selection.EventDown
	case key.Matches(msg, k.Delete):
		return selection.EventActivate
	case key.Matches(msg, k.Details):
		return selection.EventDetails
	case key.Matches(msg, k.Confirm):
		return selection.EventConfirm
	case key.Matches(msg, k.Quit):
		return selection.EventQuit
	default:
		return selection.EventOther
	}
}
