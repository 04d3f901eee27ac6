// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the skirmish engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/parser"
	"github.com/nathoo/skirmish/types"
)

// CLI handles line-oriented interaction with the players.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the command loop. It announces the first turn, then loops:
// prompt → input → tick → output, until input ends or a player quits.
func (c *CLI) Run(ctx context.Context) {
	c.printResult(c.Engine.Begin())

	// Stops the reader when the loop returns before input ends.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := c.readLines(ctx)
	for {
		if ctx.Err() != nil {
			return
		}
		c.print(c.prompt())

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			c.printLine("")
			return
		case line, ok = <-lines:
		}
		if !ok {
			break
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		}

		cmd := parser.Parse(input)
		if cmd.Kind == types.CmdNone {
			c.printLine("I don't understand that. Type /help for commands.")
			continue
		}
		c.lastCmd = input

		result := c.Engine.Tick(ctx, cmd)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
		if c.Engine.Quitting {
			c.printSystem("Goodbye.")
			return
		}
	}
}

// readLines feeds input lines to the loop so a blocked read does not
// keep it from seeing cancellation.
func (c *CLI) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func (c *CLI) prompt() string {
	id := c.Engine.Active()
	return fmt.Sprintf("%s (%s)> ", c.Engine.World.Name(id), c.Engine.ControlState())
}

// handleMeta dispatches meta-commands. Returns true if the session should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/map":
		for _, row := range c.Engine.World.Render() {
			c.printLine(row)
		}

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         — Exit",
		"  /help         — Show this help",
		"  /state        — Dump encounter state",
		"  /map          — Draw the map",
		"  /trace        — Toggle debug trace output",
		"",
		"Turn commands:",
		"  move (m)                — Start moving (costs 1 AP)",
		"  n/s/e/w/ne/nw/se/sw     — Step one tile while moving (or 1-9 keypad digits)",
		"  cancel (stop)           — Stop moving; movement points refill",
		"  end (done, end turn)    — Ask to end the turn",
		"  yes (y) / no            — Answer the end-turn question",
		"  quit (q)                — Quit (when idle)",
		"  again (g)               — Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	e := c.Engine
	c.printSystem(fmt.Sprintf("Encounter: %s", e.ID))
	c.printSystem(fmt.Sprintf("Round: %d  Tick: %d  RNG: seed %d pos %d",
		e.Round(), e.TickCount, e.RNG.Seed(), e.RNG.Position()))
	c.printSystem(fmt.Sprintf("Control: %s", e.ControlState()))
	for _, id := range e.Encounter.Actors() {
		marker := " "
		if id == e.Active() {
			marker = ">"
		}
		c.printSystem(fmt.Sprintf("%s %s", marker, describeActor(e, id)))
	}
}

func describeActor(e *engine.Engine, id types.ActorID) string {
	pos, _ := e.World.Position(id)
	ap := "-"
	if pool, ok := e.World.ActionPoints(id); ok {
		ap = fmt.Sprintf("%d", pool.Current())
	}
	mp := "-"
	if pool, ok := e.World.MovementPoints(id); ok {
		mp = fmt.Sprintf("%d/%d", pool.Current(), pool.Max())
	}
	acted := ""
	if e.Encounter.HasActed(id) {
		acted = " (acted)"
	}
	return fmt.Sprintf("%s at (%d,%d) AP %s MP %s%s", e.World.Name(id), pos.X, pos.Y, ap, mp, acted)
}

func (c *CLI) printTrace(result types.Result) {
	for _, line := range result.Debug {
		c.printSystem("[trace] " + line)
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
