// Package control implements the per-encounter turn control state machine.
// It turns abstract input commands into intents and state transitions,
// gated by the current control state.
package control

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/nathoo/skirmish/engine/intent"
	"github.com/nathoo/skirmish/engine/resources"
	"github.com/nathoo/skirmish/types"
)

// State is the current input phase. The set is closed: a new phase is
// added only together with its transitions.
type State int

const (
	Idle State = iota
	Moving
	ConfirmingEndTurn
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case ConfirmingEndTurn:
		return "confirming_end_turn"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func parseState(name string) State {
	switch name {
	case "moving":
		return Moving
	case "confirming_end_turn":
		return ConfirmingEndTurn
	default:
		return Idle
	}
}

// Transition event names.
const (
	evStartMove      = "start_move"
	evRequestEndTurn = "request_end_turn"
	evCancel         = "cancel"
	evConfirmEndTurn = "confirm_end_turn"
	evDeclineEndTurn = "decline_end_turn"
)

// Turn is the active actor as seen by the controller for one tick.
// AP is required; MP is nil for actors without a movement budget.
type Turn struct {
	Actor types.ActorID
	Name  string
	Pos   types.Position
	AP    *resources.ActionPoints
	MP    *resources.MovementPoints
}

// Outcome is what handling one command produced besides intents.
type Outcome struct {
	Output []string
	Debug  []string
	Quit   bool
}

// Controller is the turn control state machine. It starts Idle and has no
// terminal state.
type Controller struct {
	machine *fsm.FSM
}

// New returns a controller in the Idle state.
func New() *Controller {
	c := &Controller{}
	c.machine = fsm.NewFSM(
		Idle.String(),
		fsm.Events{
			{Name: evStartMove, Src: []string{Idle.String()}, Dst: Moving.String()},
			{Name: evRequestEndTurn, Src: []string{Idle.String()}, Dst: ConfirmingEndTurn.String()},
			{Name: evCancel, Src: []string{Moving.String()}, Dst: Idle.String()},
			{Name: evConfirmEndTurn, Src: []string{ConfirmingEndTurn.String()}, Dst: Idle.String()},
			{Name: evDeclineEndTurn, Src: []string{ConfirmingEndTurn.String()}, Dst: Idle.String()},
		},
		fsm.Callbacks{
			"before_" + evStartMove: guardStartMove,
		},
	)
	return c
}

// State returns the current control state.
func (c *Controller) State() State {
	return parseState(c.machine.Current())
}

// Handle applies one command for the active actor. Commands that are not
// legal in the current state are ignored.
func (c *Controller) Handle(ctx context.Context, cmd types.Command, turn *Turn, q *intent.Queue) Outcome {
	var out Outcome

	switch c.State() {
	case Idle:
		switch cmd.Kind {
		case types.CmdStartMove:
			out.Debug = append(out.Debug, fmt.Sprintf("%s requested to move", turn.Actor))
			c.fire(ctx, evStartMove, turn, &out)
		case types.CmdConfirmEndTurn:
			c.fire(ctx, evRequestEndTurn, turn, &out)
			out.Output = append(out.Output, fmt.Sprintf("End %s's turn? (y/n)", turn.Name))
		case types.CmdQuit:
			out.Quit = true
		}

	case Moving:
		switch cmd.Kind {
		case types.CmdMove:
			q.Moves.Push(types.WantsToMove{
				Collision:   true,
				Actor:       turn.Actor,
				Destination: Step(turn.Pos, cmd.Dir),
			})
		case types.CmdCancel:
			if turn.MP != nil {
				turn.MP.Reset()
				out.Debug = append(out.Debug, fmt.Sprintf("resetting movement points of %s", turn.Actor))
			}
			c.fire(ctx, evCancel, turn, &out)
			out.Output = append(out.Output, fmt.Sprintf("%s stops moving.", turn.Name))
		}

	case ConfirmingEndTurn:
		switch cmd.Kind {
		case types.CmdEndTurnYes:
			q.EndTurns.Push(types.EndTurn{})
			c.fire(ctx, evConfirmEndTurn, turn, &out)
		case types.CmdEndTurnNo:
			c.fire(ctx, evDeclineEndTurn, turn, &out)
		}
	}

	return out
}

func (c *Controller) fire(ctx context.Context, event string, turn *Turn, out *Outcome) {
	if err := c.machine.Event(ctx, event, turn, out); err != nil {
		out.Debug = append(out.Debug, fmt.Sprintf("%s: %v", event, err))
	}
}

// guardStartMove spends a minor action to enter the movement phase and
// cancels the transition when the actor cannot afford it.
func guardStartMove(_ context.Context, e *fsm.Event) {
	turn := e.Args[0].(*Turn)
	out := e.Args[1].(*Outcome)

	left, err := turn.AP.MinorAction()
	if err != nil {
		out.Output = append(out.Output, fmt.Sprintf(
			"%s has decided to move but doesn't have enough AP, with only %d points", turn.Name, left))
		e.Cancel(err)
		return
	}
	out.Output = append(out.Output, fmt.Sprintf(
		"%s has decided to move and now has %d AP left!", turn.Name, left))
}

var deltas = map[types.Direction]types.Position{
	types.North:     {X: 0, Y: -1},
	types.NorthEast: {X: 1, Y: -1},
	types.East:      {X: 1, Y: 0},
	types.SouthEast: {X: 1, Y: 1},
	types.South:     {X: 0, Y: 1},
	types.SouthWest: {X: -1, Y: 1},
	types.West:      {X: -1, Y: 0},
	types.NorthWest: {X: -1, Y: -1},
}

// Step returns the tile one unit away from p in direction d.
func Step(p types.Position, d types.Direction) types.Position {
	delta := deltas[d]
	return types.Position{X: p.X + delta.X, Y: p.Y + delta.Y}
}
