// Package engine provides the Tick() orchestrator that wires together turn
// control, intent resolution, encounter bookkeeping and scenario events
// into a single simulation step.
package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nathoo/skirmish/engine/control"
	"github.com/nathoo/skirmish/engine/effects"
	"github.com/nathoo/skirmish/engine/encounter"
	"github.com/nathoo/skirmish/engine/events"
	"github.com/nathoo/skirmish/engine/intent"
	"github.com/nathoo/skirmish/engine/movement"
	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// Engine holds the scenario definitions and the mutable simulation.
// It is driven from a single goroutine; a tick runs to completion before
// the next one starts.
type Engine struct {
	Defs       *state.Defs
	World      *state.World
	Encounter  *encounter.Encounter
	Control    *control.Controller
	Intents    *intent.Queue
	RNG        *RNG
	Initiative []InitiativeRoll // empty unless the order was rolled

	ID        uuid.UUID
	Log       *logrus.Entry
	Quitting  bool
	TickCount int
}

type options struct {
	logger  logrus.FieldLogger
	seed    int64
	hasSeed bool
}

// Option configures New.
type Option func(*options)

// WithLogger routes engine logging to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithSeed overrides the scenario's RNG seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.hasSeed = true
	}
}

// New builds the world, decides initiative and opens the encounter.
func New(defs *state.Defs, opts ...Option) (*Engine, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		o.logger = quiet
	}
	seed := defs.Scenario.Seed
	if o.hasSeed {
		seed = o.seed
	}

	w, err := state.FromDefs(defs)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	rng := NewRNG(seed)
	order, rolls := initiativeOrder(defs, rng)
	if len(order) == 0 {
		return nil, fmt.Errorf("encounter has no combatants")
	}
	seen := make(map[types.ActorID]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return nil, fmt.Errorf("actor %q appears twice in initiative", id)
		}
		seen[id] = true
		if !w.Exists(id) {
			return nil, fmt.Errorf("initiative references unknown actor %q", id)
		}
		if _, ok := w.ActionPoints(id); !ok {
			return nil, fmt.Errorf("combatant %q has no action points", id)
		}
	}

	id := uuid.New()
	e := &Engine{
		Defs:       defs,
		World:      w,
		Encounter:  encounter.New(order),
		Control:    control.New(),
		Intents:    intent.NewQueue(),
		RNG:        rng,
		Initiative: rolls,
		ID:         id,
		Log: o.logger.WithFields(logrus.Fields{
			"component": "engine",
			"encounter": id.String(),
		}),
	}

	for _, r := range rolls {
		e.Log.WithFields(logrus.Fields{"actor": r.Actor, "roll": r.Value}).Debug("initiative rolled")
	}
	e.Log.WithFields(logrus.Fields{"order": order, "seed": seed}).Info("encounter opened")
	return e, nil
}

// Begin announces the scenario and the first turn. Front ends call it
// once before the first Tick.
func (e *Engine) Begin() types.Result {
	var result types.Result
	if e.Defs.Scenario.Intro != "" {
		result.Output = append(result.Output, e.Defs.Scenario.Intro)
	}
	for _, r := range e.Initiative {
		result.Output = append(result.Output,
			fmt.Sprintf("%s rolls %d for initiative.", e.World.Name(r.Actor), r.Value))
	}
	e.startTurn(&result)
	e.dispatch(&result)
	e.logDebug(result.Debug)
	return result
}

// Tick processes one input command for the active actor and returns what
// happened. Stages run in a fixed order: turn control, movement drain,
// end-turn drain, round bookkeeping, event handlers.
func (e *Engine) Tick(ctx context.Context, cmd types.Command) types.Result {
	var result types.Result
	e.TickCount++

	// 1. Turn control: may spend AP and enqueue intents.
	turn := e.activeTurn()
	out := e.Control.Handle(ctx, cmd, turn, e.Intents)
	result.Output = append(result.Output, out.Output...)
	result.Debug = append(result.Debug, out.Debug...)
	if out.Quit {
		e.Quitting = true
		e.Log.WithField("actor", turn.Actor).Info("quit requested")
	}

	// 2. Drain and resolve movement.
	if moves := e.Intents.Moves.Drain(); len(moves) > 0 {
		merge(&result, movement.Resolve(e.World, moves))
	}

	// 3. Drain end-turn signals: any number of them completes one turn.
	if e.Intents.DrainEndTurn() {
		e.completeTurn(turn.Actor, &result)
	}

	if n := e.Intents.Len(); n != 0 {
		e.Log.WithField("pending", n).Panicf("%d intents left after drain", n)
	}

	// 4. Scenario event handlers, single pass.
	e.dispatch(&result)

	e.logDebug(result.Debug)
	return result
}

// Active returns the actor whose turn it is.
func (e *Engine) Active() types.ActorID {
	id, _ := e.Encounter.NextTurn()
	return id
}

// Round returns the 1-based number of the round in progress.
func (e *Engine) Round() int {
	return e.Encounter.Rounds() + 1
}

// ControlState returns the turn control state.
func (e *Engine) ControlState() control.State {
	return e.Control.State()
}

// activeTurn snapshots the active actor for the controller.
func (e *Engine) activeTurn() *control.Turn {
	id, ok := e.Encounter.NextTurn()
	if !ok {
		e.Log.Panic("encounter has no active actor")
	}
	ap, ok := e.World.ActionPoints(id)
	if !ok {
		e.Log.WithField("actor", id).Panic("active actor has no action points")
	}
	actor, ok := e.World.Actor(id)
	if !ok {
		e.Log.WithField("actor", id).Panic("active actor is not in the world")
	}
	mp, _ := e.World.MovementPoints(id)
	return &control.Turn{Actor: id, Name: actor.Name, Pos: actor.Pos, AP: ap, MP: mp}
}

func (e *Engine) completeTurn(actor types.ActorID, result *types.Result) {
	round := e.Round()
	roundDone := e.Encounter.CompleteTurn()

	result.Debug = append(result.Debug, fmt.Sprintf("%s completed its turn", actor))
	result.Events = append(result.Events, types.Event{
		Type: events.TurnCompleted,
		Data: map[string]any{"actor": actor, "round": round},
	})
	e.Log.WithFields(logrus.Fields{"actor": actor, "round": round}).Info("turn completed")

	if roundDone {
		for _, id := range e.Encounter.Actors() {
			if ap, ok := e.World.ActionPoints(id); ok {
				ap.Reset()
			}
		}
		result.Output = append(result.Output, fmt.Sprintf("Round %d complete.", round))
		result.Events = append(result.Events, types.Event{
			Type: events.RoundCompleted,
			Data: map[string]any{"round": round},
		})
		e.Log.WithField("round", round).Info("round completed")
	}

	e.startTurn(result)
}

func (e *Engine) startTurn(result *types.Result) {
	next, ok := e.Encounter.NextTurn()
	if !ok {
		e.Log.Panic("encounter has no active actor")
	}
	result.Output = append(result.Output, fmt.Sprintf("Round %d: %s's turn.", e.Round(), e.World.Name(next)))
	result.Events = append(result.Events, types.Event{
		Type: events.TurnStarted,
		Data: map[string]any{"actor": next, "round": e.Round()},
	})
}

// dispatch runs scenario handlers for the tick's events. Effects never
// emit events, so nothing is re-dispatched.
func (e *Engine) dispatch(result *types.Result) {
	for _, m := range events.Dispatch(result.Events, e.Defs.Handlers) {
		ctx := effects.Context{Actor: events.Actor(m.Event), Round: e.Round()}
		if r, ok := m.Event.Data["round"].(int); ok {
			ctx.Round = r
		}
		merge(result, effects.Apply(e.World, m.Effects, ctx))
	}
}

func (e *Engine) logDebug(lines []string) {
	for _, line := range lines {
		e.Log.WithField("tick", e.TickCount).Debug(line)
	}
}

func merge(dst *types.Result, src types.Result) {
	dst.Output = append(dst.Output, src.Output...)
	dst.Debug = append(dst.Debug, src.Debug...)
	dst.Events = append(dst.Events, src.Events...)
}
