package control

import (
	"context"
	"strings"
	"testing"

	"github.com/nathoo/skirmish/engine/intent"
	"github.com/nathoo/skirmish/engine/resources"
	"github.com/nathoo/skirmish/types"
)

func newTurn() *Turn {
	ap := resources.NewActionPoints()
	mp := resources.DefaultMovementPoints()
	return &Turn{Actor: "a", Name: "Alice", Pos: types.Position{X: 2, Y: 2}, AP: &ap, MP: &mp}
}

func cmd(kind types.CommandKind) types.Command { return types.Command{Kind: kind} }

func TestController_StartsIdle(t *testing.T) {
	if got := New().State(); got != Idle {
		t.Errorf("initial state = %v, want idle", got)
	}
}

func TestController_StartMoveSpendsMinorAction(t *testing.T) {
	ctx := context.Background()
	c := New()
	turn := newTurn()
	q := intent.NewQueue()

	out := c.Handle(ctx, cmd(types.CmdStartMove), turn, q)

	if c.State() != Moving {
		t.Fatalf("state = %v, want moving", c.State())
	}
	if turn.AP.Current() != 2 {
		t.Errorf("AP = %d, want 2", turn.AP.Current())
	}
	if len(out.Output) != 1 || !strings.Contains(out.Output[0], "now has 2 AP left") {
		t.Errorf("output = %v", out.Output)
	}
}

func TestController_StartMoveWithoutAPStaysIdle(t *testing.T) {
	ctx := context.Background()
	c := New()
	turn := newTurn()
	turn.AP.FullTurn()
	q := intent.NewQueue()

	out := c.Handle(ctx, cmd(types.CmdStartMove), turn, q)

	if c.State() != Idle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if turn.AP.Current() != 0 {
		t.Errorf("AP = %d, want unchanged 0", turn.AP.Current())
	}
	if len(out.Output) != 1 || !strings.Contains(out.Output[0], "doesn't have enough AP") {
		t.Errorf("output = %v", out.Output)
	}
}

func TestController_MovingProducesIntents(t *testing.T) {
	ctx := context.Background()
	c := New()
	turn := newTurn()
	q := intent.NewQueue()
	c.Handle(ctx, cmd(types.CmdStartMove), turn, q)

	c.Handle(ctx, types.Command{Kind: types.CmdMove, Dir: types.NorthEast}, turn, q)

	if c.State() != Moving {
		t.Errorf("state = %v, want moving", c.State())
	}
	moves := q.Moves.Drain()
	if len(moves) != 1 {
		t.Fatalf("got %d move intents, want 1", len(moves))
	}
	want := types.WantsToMove{Collision: true, Actor: "a", Destination: types.Position{X: 3, Y: 1}}
	if moves[0] != want {
		t.Errorf("intent = %+v, want %+v", moves[0], want)
	}
}

func TestController_CancelRestoresMovementPoints(t *testing.T) {
	ctx := context.Background()
	c := New()
	turn := newTurn()
	q := intent.NewQueue()
	c.Handle(ctx, cmd(types.CmdStartMove), turn, q)
	turn.MP.Decrement()
	turn.MP.Decrement()

	c.Handle(ctx, cmd(types.CmdCancel), turn, q)

	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if turn.MP.Current() != turn.MP.Max() {
		t.Errorf("MP = %d, want full %d", turn.MP.Current(), turn.MP.Max())
	}
	if turn.AP.Current() != 2 {
		t.Errorf("cancel should not refund AP, got %d", turn.AP.Current())
	}
}

func TestController_CancelWithoutMovementPoints(t *testing.T) {
	ctx := context.Background()
	c := New()
	turn := newTurn()
	turn.MP = nil
	q := intent.NewQueue()
	c.Handle(ctx, cmd(types.CmdStartMove), turn, q)

	c.Handle(ctx, cmd(types.CmdCancel), turn, q)

	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestController_EndTurnConfirmation(t *testing.T) {
	ctx := context.Background()
	c := New()
	turn := newTurn()
	q := intent.NewQueue()

	c.Handle(ctx, cmd(types.CmdConfirmEndTurn), turn, q)
	if c.State() != ConfirmingEndTurn {
		t.Fatalf("state = %v, want confirming_end_turn", c.State())
	}

	c.Handle(ctx, cmd(types.CmdEndTurnYes), turn, q)
	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if q.EndTurns.Len() != 1 {
		t.Errorf("EndTurn intents = %d, want 1", q.EndTurns.Len())
	}
}

func TestController_EndTurnDeclined(t *testing.T) {
	ctx := context.Background()
	c := New()
	turn := newTurn()
	q := intent.NewQueue()

	c.Handle(ctx, cmd(types.CmdConfirmEndTurn), turn, q)
	c.Handle(ctx, cmd(types.CmdEndTurnNo), turn, q)

	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if q.Len() != 0 {
		t.Errorf("no intent expected, queue has %d", q.Len())
	}
}

func TestController_QuitOnlyFromIdle(t *testing.T) {
	ctx := context.Background()
	c := New()
	turn := newTurn()
	q := intent.NewQueue()

	if out := c.Handle(ctx, cmd(types.CmdQuit), turn, q); !out.Quit {
		t.Error("quit from idle should set the quit flag")
	}
	if c.State() != Idle {
		t.Errorf("quit should not change state, got %v", c.State())
	}

	c.Handle(ctx, cmd(types.CmdStartMove), turn, q)
	if out := c.Handle(ctx, cmd(types.CmdQuit), turn, q); out.Quit {
		t.Error("quit while moving should be ignored")
	}
}

func TestController_IgnoresIllegalCommands(t *testing.T) {
	tests := []struct {
		name  string
		setup []types.CommandKind
		cmd   types.Command
		want  State
	}{
		{"move while idle", nil, types.Command{Kind: types.CmdMove, Dir: types.East}, Idle},
		{"yes while idle", nil, cmd(types.CmdEndTurnYes), Idle},
		{"cancel while idle", nil, cmd(types.CmdCancel), Idle},
		{"end turn while moving", []types.CommandKind{types.CmdStartMove}, cmd(types.CmdConfirmEndTurn), Moving},
		{"start move while moving", []types.CommandKind{types.CmdStartMove}, cmd(types.CmdStartMove), Moving},
		{"move while confirming", []types.CommandKind{types.CmdConfirmEndTurn}, types.Command{Kind: types.CmdMove}, ConfirmingEndTurn},
		{"cancel while confirming", []types.CommandKind{types.CmdConfirmEndTurn}, cmd(types.CmdCancel), ConfirmingEndTurn},
		{"none", nil, cmd(types.CmdNone), Idle},
	}
	for _, tt := range tests {
		ctx := context.Background()
		c := New()
		turn := newTurn()
		q := intent.NewQueue()
		for _, k := range tt.setup {
			c.Handle(ctx, cmd(k), turn, q)
		}
		apBefore := turn.AP.Current()

		c.Handle(ctx, tt.cmd, turn, q)

		if c.State() != tt.want {
			t.Errorf("%s: state = %v, want %v", tt.name, c.State(), tt.want)
		}
		if q.Len() != 0 {
			t.Errorf("%s: ignored command queued %d intents", tt.name, q.Len())
		}
		if turn.AP.Current() != apBefore {
			t.Errorf("%s: ignored command spent AP", tt.name)
		}
	}
}

func TestStep_EightDirections(t *testing.T) {
	origin := types.Position{X: 5, Y: 5}
	tests := []struct {
		dir  types.Direction
		want types.Position
	}{
		{types.North, types.Position{X: 5, Y: 4}},
		{types.NorthEast, types.Position{X: 6, Y: 4}},
		{types.East, types.Position{X: 6, Y: 5}},
		{types.SouthEast, types.Position{X: 6, Y: 6}},
		{types.South, types.Position{X: 5, Y: 6}},
		{types.SouthWest, types.Position{X: 4, Y: 6}},
		{types.West, types.Position{X: 4, Y: 5}},
		{types.NorthWest, types.Position{X: 4, Y: 4}},
	}
	for _, tt := range tests {
		if got := Step(origin, tt.dir); got != tt.want {
			t.Errorf("Step(%v, %d) = %v, want %v", origin, tt.dir, got, tt.want)
		}
	}
}

func TestState_String(t *testing.T) {
	for _, s := range []State{Idle, Moving, ConfirmingEndTurn} {
		if parseState(s.String()) != s {
			t.Errorf("round trip of %v failed", s)
		}
	}
}
