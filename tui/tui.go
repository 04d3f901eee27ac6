// Package tui provides a Bubble Tea terminal UI for the skirmish engine.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/parser"
	"github.com/nathoo/skirmish/types"
)

const maxLogLines = 1000

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed command-line input
	isSystem bool // true for meta-command output
}

// Model is the Bubble Tea model for the skirmish TUI. Keys drive the
// active actor directly; ':' opens a command line that accepts the same
// typed commands as the plain CLI.
type Model struct {
	ctx    context.Context
	engine *engine.Engine

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	input    textinput.Model
	history  *History

	log *ring[rawLine] // combat log (unstyled, for re-wrapping)

	width       int
	height      int
	ready       bool
	trace       bool
	quitting    bool
	commandMode bool
	lastCmd     string
}

// beginMsg asks Update to announce the encounter.
type beginMsg struct{}

// gameOutputMsg carries output into the combat log.
type gameOutputMsg struct {
	input    string   // echoed command-line input (empty for key presses)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given engine.
func New(ctx context.Context, eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		ctx:     ctx,
		engine:  eng,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   ti,
		history: NewHistory(100),
		log:     newRing[rawLine](maxLogLines),
	}
}

// Run starts the Bubble Tea program. With trace set, debug lines are
// shown in the combat log from the start.
func Run(ctx context.Context, eng *engine.Engine, trace bool) error {
	m := New(ctx, eng)
	m.trace = trace
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init schedules the encounter announcement.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return beginMsg{} }
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		}
		m.layout()
		m.refreshViewport()
		return m, nil

	case beginMsg:
		m = m.appendOutput(gameOutputMsg{lines: m.intro()})
		return m, nil

	case gameOutputMsg:
		m = m.appendOutput(msg)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.commandMode {
			return m.updateCommandLine(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateKeys handles a key press in direct-control mode.
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Command):
		m.commandMode = true
		m.layout()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	cmd, ok := m.keys.command(msg)
	if !ok {
		return m, nil
	}
	return m.tick(cmd, "")
}

// updateCommandLine handles a key press while the command line is open.
func (m Model) updateCommandLine(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commandMode = false
		m.input.Blur()
		m.input.SetValue("")
		m.history.ResetCursor()
		m.layout()
		return m, nil

	case "enter":
		return m.handleEnter()

	case "up":
		if prev, ok := m.history.Prev(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil

	case "down":
		if next, ok := m.history.Next(); ok {
			m.input.SetValue(next)
			m.input.CursorEnd()
		} else {
			m.input.SetValue("")
			m.history.ResetCursor()
		}
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter processes the submitted command line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	}

	cmd := parser.Parse(input)
	if cmd.Kind == types.CmdNone {
		m = m.appendOutput(gameOutputMsg{
			input: input,
			lines: []string{"I don't understand that. Type /help for commands."},
		})
		return m, nil
	}
	m.lastCmd = input

	return m.tick(cmd, input)
}

// tick runs one engine step and logs its output.
func (m Model) tick(cmd types.Command, input string) (tea.Model, tea.Cmd) {
	result := m.engine.Tick(m.ctx, cmd)
	output := result.Output
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})

	if m.engine.Quitting {
		m.quitting = true
		return m, tea.Quit
	}
	// The map and roster may have changed height.
	m.layout()
	return m, nil
}

func (m Model) intro() []string {
	s := m.engine.Defs.Scenario
	var lines []string
	if s.Title != "" {
		title := s.Title
		if s.Version != "" {
			title += " v" + s.Version
		}
		if s.Author != "" {
			title += " by " + s.Author
		}
		lines = append(lines, title, "")
	}
	return append(lines, m.engine.Begin().Output...)
}

// appendOutput adds lines to the combat log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.log.push(rawLine{text: ": " + msg.input, isInput: true})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.log.push(rl)
	}

	m.refreshViewport()
	return m
}

// header renders the map with the roster beside it.
func (m Model) header() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderMap(), m.renderRoster())
}

func (m Model) footer() string {
	if m.commandMode {
		return m.input.View()
	}
	return m.help.View(m.keys)
}

// layout sizes the viewport to the space left by the header and footer.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	used := lipgloss.Height(m.header()) + lipgloss.Height(m.footer()) + 1 // status bar
	vpHeight := m.height - used
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight
}

// refreshViewport re-wraps and re-styles the log at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.log.items {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			lineLen = len(word)
		case lineLen+1+len(word) > width:
			b.WriteString("\n")
			lineLen = len(word)
		default:
			b.WriteString(" ")
			lineLen += 1 + len(word)
		}
		b.WriteString(word)
	}
	return b.String()
}

// View renders the full layout: map and roster, combat log, status bar,
// then the help line or the command line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.header() + "\n" + m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.footer()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func cmdHelp() []string {
	return []string{
		"System:",
		"  /quit         — Exit",
		"  /help         — Show this help",
		"  /state        — Dump encounter state",
		"  /trace        — Toggle debug trace output",
		"",
		"Turn commands:",
		"  move (m)                — Start moving (costs 1 AP)",
		"  n/s/e/w/ne/nw/se/sw     — Step one tile while moving",
		"  cancel (stop)           — Stop moving; movement points refill",
		"  end (done)              — Ask to end the turn",
		"  yes (y) / no            — Answer the end-turn question",
		"  again (g)               — Repeat your last command",
		"",
		"Esc closes the command line. Press ? outside it for key bindings.",
	}
}

func (m *Model) cmdState() []string {
	e := m.engine
	output := []string{
		fmt.Sprintf("Encounter: %s", e.ID),
		fmt.Sprintf("Round: %d  Tick: %d  RNG: seed %d pos %d",
			e.Round(), e.TickCount, e.RNG.Seed(), e.RNG.Position()),
		fmt.Sprintf("Control: %s", e.ControlState()),
	}
	for _, id := range e.Encounter.Actors() {
		pos, _ := e.World.Position(id)
		ap, mp := m.pools(id)
		output = append(output, fmt.Sprintf("%s at (%d,%d) AP %s MP %s", e.World.Name(id), pos.X, pos.Y, ap, mp))
	}
	return output
}

func formatTrace(result types.Result) []string {
	var lines []string
	for _, line := range result.Debug {
		lines = append(lines, "[trace] "+line)
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
	return lines
}

// viewportKeyMap leaves only paging keys bound; arrows move actors.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
