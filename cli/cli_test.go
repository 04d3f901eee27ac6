package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// testDefs returns a two-combatant skirmish for CLI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Scenario: types.ScenarioDef{
			Title: "Test Skirmish",
			Intro: "Welcome to the test.",
		},
		Map: types.MapDef{Rows: []string{
			"....",
			"..#.",
			"....",
		}},
		Actors: map[types.ActorID]types.ActorDef{
			"pc_01": {
				ID: "pc_01", Name: "Ranger", Glyph: "@", Control: types.ControlPC,
				ActionPoints: true, MovementPoints: 3, Collidable: true,
			},
			"npc_01": {
				ID: "npc_01", Name: "Raider", Glyph: "r", Control: types.ControlNPC,
				Start: types.Position{X: 3, Y: 2}, ActionPoints: true, MovementPoints: 3, Collidable: true,
			},
		},
		Order: []types.ActorID{"pc_01", "npc_01"},
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng, err := engine.New(testDefs())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	var out bytes.Buffer
	c := &CLI{
		Engine: eng,
		In:     strings.NewReader(input),
		Out:    &out,
	}
	return c, &out
}

func TestCLI_IntroAndFirstTurn(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Welcome to the test.") {
		t.Error("expected intro text in output")
	}
	if !strings.Contains(output, "Round 1: Ranger's turn.") {
		t.Error("expected first turn announcement")
	}
	if !strings.Contains(output, "Ranger (idle)> ") {
		t.Errorf("expected prompt with actor and state, got:\n%s", output)
	}
}

func TestCLI_MoveAndEndTurn(t *testing.T) {
	c, out := newTestCLI(t, "move\ne\ns\ncancel\nend\ny\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	for _, want := range []string{
		"Ranger has decided to move and now has 2 AP left!",
		"current movement points: 2",
		"current movement points: 1",
		"Ranger stops moving.",
		"End Ranger's turn? (y/n)",
		"Round 1: Raider's turn.",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if p, _ := c.Engine.World.Position("pc_01"); p != (types.Position{X: 1, Y: 1}) {
		t.Errorf("pc_01 at %v, want (1,1)", p)
	}
	if c.Engine.Active() != "npc_01" {
		t.Errorf("Active() = %q, want npc_01", c.Engine.Active())
	}
}

func TestCLI_Again(t *testing.T) {
	c, out := newTestCLI(t, "g\nmove\ne\ng\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Nothing to repeat.") {
		t.Error("expected nothing-to-repeat message")
	}
	if p, _ := c.Engine.World.Position("pc_01"); p != (types.Position{X: 2, Y: 0}) {
		t.Errorf("pc_01 at %v, want (2,0) after repeating the step", p)
	}
}

func TestCLI_QuitCommand(t *testing.T) {
	c, out := newTestCLI(t, "quit\nmove\n")
	c.Run(context.Background())

	if !c.Engine.Quitting {
		t.Error("expected engine to be quitting")
	}
	if strings.Contains(out.String(), "decided to move") {
		t.Error("input after quit should not be processed")
	}
}

func TestCLI_UnknownInput(t *testing.T) {
	c, out := newTestCLI(t, "dance\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "I don't understand that.") {
		t.Error("expected unknown input message")
	}
	if c.Engine.TickCount != 0 {
		t.Errorf("unknown input should not tick, TickCount = %d", c.Engine.TickCount)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	for _, want := range []string{"/quit", "/map", "move (m)", "cancel"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\nmove\ne\n/trace\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[[trace] pc_01 requested to move]") {
		t.Errorf("expected debug trace lines, got:\n%s", output)
	}
	if !strings.Contains(output, "actor_moved") {
		t.Error("expected event trace")
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Round: 1") {
		t.Error("expected round in state output")
	}
	if !strings.Contains(output, "> Ranger at (0,0) AP 3 MP 3/3") {
		t.Errorf("expected active actor line, got:\n%s", output)
	}
	if !strings.Contains(output, "Raider at (3,2)") {
		t.Error("expected second combatant in state output")
	}
}

func TestCLI_MapCommand(t *testing.T) {
	c, out := newTestCLI(t, "/map\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	for _, row := range []string{"@...", "..#.", "...r"} {
		if !strings.Contains(output, row+"\n") {
			t.Errorf("expected map row %q in output:\n%s", row, output)
		}
	}
}

func TestCLI_CommentsAndEcho(t *testing.T) {
	c, out := newTestCLI(t, "# a comment\nmove\n/quit\n")
	c.EchoInput = true
	c.Run(context.Background())

	output := out.String()
	if strings.Contains(output, "a comment") {
		t.Error("comment lines should be skipped")
	}
	if !strings.Contains(output, "> move\n") {
		t.Error("expected echoed input after prompt")
	}
}

func TestCLI_ContextCancelled(t *testing.T) {
	c, out := newTestCLI(t, "move\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Run(ctx)

	if strings.Contains(out.String(), "decided to move") {
		t.Error("cancelled context should stop the loop before reading input")
	}
}

func TestCLI_ReaderStopsOnCancel(t *testing.T) {
	c, _ := newTestCLI(t, "move\nend\ny\n")
	ctx, cancel := context.WithCancel(context.Background())
	lines := c.readLines(ctx)

	if got := <-lines; got != "move" {
		t.Fatalf("first line = %q, want move", got)
	}
	cancel()

	// The reader may already be offering the next line; it must still
	// close the channel instead of blocking on unread input.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("reader goroutine did not stop after cancel")
		}
	}
}
