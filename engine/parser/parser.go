// Package parser converts command strings into abstract commands.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/skirmish/types"
)

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",

	// Numeric keypad layout.
	"8": "north",
	"9": "northeast",
	"6": "east",
	"3": "southeast",
	"2": "south",
	"1": "southwest",
	"4": "west",
	"7": "northwest",
}

var directionNames = map[string]types.Direction{
	"north":     types.North,
	"northeast": types.NorthEast,
	"east":      types.East,
	"southeast": types.SouthEast,
	"south":     types.South,
	"southwest": types.SouthWest,
	"west":      types.West,
	"northwest": types.NorthWest,
}

var verbAliases = map[string]types.CommandKind{
	// Start the movement phase
	"move": types.CmdStartMove,
	"m":    types.CmdStartMove,

	// Leave the movement phase
	"cancel": types.CmdCancel,
	"stop":   types.CmdCancel,
	"esc":    types.CmdCancel,

	// End turn
	"end":  types.CmdConfirmEndTurn,
	"done": types.CmdConfirmEndTurn,

	// Confirmation
	"yes": types.CmdEndTurnYes,
	"y":   types.CmdEndTurnYes,
	"no":  types.CmdEndTurnNo,

	"quit": types.CmdQuit,
	"q":    types.CmdQuit,
}

// Parse converts a raw command string into a Command. Unknown input
// yields CmdNone.
func Parse(input string) types.Command {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return types.Command{}
	}

	// "go north", "walk e" → bare direction.
	if len(words) == 2 && (words[0] == "go" || words[0] == "walk" || words[0] == "step") {
		words = words[1:]
	}

	if len(words) == 1 {
		if dir, ok := ParseDirection(words[0]); ok {
			return types.Command{Kind: types.CmdMove, Dir: dir}
		}
		if kind, ok := verbAliases[words[0]]; ok {
			return types.Command{Kind: kind}
		}
		return types.Command{}
	}

	if len(words) == 2 && words[0] == "end" && words[1] == "turn" {
		return types.Command{Kind: types.CmdConfirmEndTurn}
	}

	return types.Command{}
}

// ParseDirection accepts an abbreviation, keypad digit or full direction name.
func ParseDirection(word string) (types.Direction, bool) {
	if full, ok := directionExpansions[word]; ok {
		word = full
	}
	dir, ok := directionNames[word]
	return dir, ok
}
