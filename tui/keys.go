package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/skirmish/types"
)

// keyMap holds the direct-control bindings used outside the command line.
type keyMap struct {
	North     key.Binding
	NorthEast key.Binding
	East      key.Binding
	SouthEast key.Binding
	South     key.Binding
	SouthWest key.Binding
	West      key.Binding
	NorthWest key.Binding

	Step      key.Binding // help display only
	StartMove key.Binding
	Cancel    key.Binding
	EndTurn   key.Binding
	Yes       key.Binding
	No        key.Binding
	Command   key.Binding
	Scroll    key.Binding // help display only
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		North:     key.NewBinding(key.WithKeys("up", "8")),
		NorthEast: key.NewBinding(key.WithKeys("9")),
		East:      key.NewBinding(key.WithKeys("right", "6")),
		SouthEast: key.NewBinding(key.WithKeys("3")),
		South:     key.NewBinding(key.WithKeys("down", "2")),
		SouthWest: key.NewBinding(key.WithKeys("1")),
		West:      key.NewBinding(key.WithKeys("left", "4")),
		NorthWest: key.NewBinding(key.WithKeys("7")),

		Step: key.NewBinding(
			key.WithKeys("up", "down", "left", "right"),
			key.WithHelp("←↑↓→/1-9", "step"),
		),
		StartMove: key.NewBinding(key.WithKeys("s", "m"), key.WithHelp("s", "move")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop moving")),
		EndTurn:   key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "end turn")),
		Yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y/n", "confirm")),
		No:        key.NewBinding(key.WithKeys("n")),
		Command:   key.NewBinding(key.WithKeys(":", "/"), key.WithHelp(":", "command line")),
		Scroll:    key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll log")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more help")),
		Quit:      key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartMove, k.Step, k.EndTurn, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartMove, k.Step, k.Cancel},
		{k.EndTurn, k.Yes},
		{k.Command, k.Scroll, k.Help, k.Quit},
	}
}

// command translates a key press into an engine command.
func (k keyMap) command(msg tea.KeyMsg) (types.Command, bool) {
	dirs := []struct {
		b   key.Binding
		dir types.Direction
	}{
		{k.North, types.North},
		{k.NorthEast, types.NorthEast},
		{k.East, types.East},
		{k.SouthEast, types.SouthEast},
		{k.South, types.South},
		{k.SouthWest, types.SouthWest},
		{k.West, types.West},
		{k.NorthWest, types.NorthWest},
	}
	for _, d := range dirs {
		if key.Matches(msg, d.b) {
			return types.Command{Kind: types.CmdMove, Dir: d.dir}, true
		}
	}

	switch {
	case key.Matches(msg, k.StartMove):
		return types.Command{Kind: types.CmdStartMove}, true
	case key.Matches(msg, k.Cancel):
		return types.Command{Kind: types.CmdCancel}, true
	case key.Matches(msg, k.EndTurn):
		return types.Command{Kind: types.CmdConfirmEndTurn}, true
	case key.Matches(msg, k.Yes):
		return types.Command{Kind: types.CmdEndTurnYes}, true
	case key.Matches(msg, k.No):
		return types.Command{Kind: types.CmdEndTurnNo}, true
	case key.Matches(msg, k.Quit):
		return types.Command{Kind: types.CmdQuit}, true
	}
	return types.Command{}, false
}
