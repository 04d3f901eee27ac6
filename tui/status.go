package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/skirmish/types"
)

// pools formats an actor's AP and MP for display. Missing pools show "-".
func (m Model) pools(id types.ActorID) (ap, mp string) {
	ap, mp = "-", "-"
	if pool, ok := m.engine.World.ActionPoints(id); ok {
		ap = fmt.Sprintf("%d", pool.Current())
	}
	if pool, ok := m.engine.World.MovementPoints(id); ok {
		mp = fmt.Sprintf("%d/%d", pool.Current(), pool.Max())
	}
	return ap, mp
}

// renderStatusBar produces a full-width inverted status line showing the
// round, the active actor with its pools, and the control state.
func (m Model) renderStatusBar() string {
	e := m.engine
	active := e.Active()
	ap, mp := m.pools(active)

	left := fmt.Sprintf(" Round %d | %s | AP %s | MP %s", e.Round(), e.World.Name(active), ap, mp)
	right := fmt.Sprintf("%s | T:%d ", e.ControlState(), e.TickCount)
	if m.commandMode {
		right = "command | " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderMap draws the tile map with actors colored by who controls them.
// The active actor is shown in reverse video.
func (m Model) renderMap() string {
	w := m.engine.World
	active := m.engine.Active()
	rows := w.Render()

	// Later actors are drawn over earlier ones, matching Render.
	at := map[types.Position]types.ActorID{}
	for _, id := range w.ActorIDs() {
		if pos, ok := w.Position(id); ok {
			at[pos] = id
		}
	}

	var b strings.Builder
	for y, row := range rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x, r := range []rune(row) {
			cell := string(r)
			id, ok := at[types.Position{X: x, Y: y}]
			if !ok {
				if r == '#' {
					b.WriteString(styleWall.Render(cell))
				} else {
					b.WriteString(styleFloor.Render(cell))
				}
				continue
			}
			style := styleOther
			if a, found := w.Actor(id); found {
				switch a.Control {
				case types.ControlPC:
					style = stylePC
				case types.ControlNPC:
					style = styleNPC
				}
			}
			if id == active {
				style = style.Inherit(styleActive)
			}
			b.WriteString(style.Render(cell))
		}
	}
	return styleMapBox.Render(b.String())
}

// renderRoster lists the combatants in initiative order next to the map.
func (m Model) renderRoster() string {
	e := m.engine
	active := e.Active()
	var lines []string
	for _, id := range e.Encounter.Actors() {
		ap, mp := m.pools(id)
		marker := "  "
		if id == active {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s  AP %s  MP %s", marker, e.World.Name(id), ap, mp)
		if e.Encounter.HasActed(id) {
			line = styleSystem.Render(line + " (acted)")
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(lines, "\n"))
}
