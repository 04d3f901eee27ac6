package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTurn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleRound = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141"))

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleMapBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	styleWall   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleFloor  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	stylePC     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleNPC    = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	styleOther  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	styleActive = lipgloss.NewStyle().Reverse(true)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindTurn
	kindRound
	kindPrompt
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Round ") && strings.HasSuffix(line, " complete."):
		return kindRound
	case strings.HasPrefix(line, "Round ") && strings.HasSuffix(line, "'s turn."):
		return kindTurn
	case strings.HasSuffix(line, "(y/n)"):
		return kindPrompt
	case strings.Contains(line, "doesn't have enough AP"),
		strings.HasPrefix(line, "I don't understand"):
		return kindError
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurn:
		return styleTurn.Render(line)
	case kindRound:
		return styleRound.Render(line)
	case kindPrompt:
		return stylePrompt.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
