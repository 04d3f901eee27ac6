package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/skirmish/engine/events"
	"github.com/nathoo/skirmish/engine/movement"
	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known effect types.
var validEffectTypes = map[string]bool{
	"say":              true,
	"debug":            true,
	"refresh_movement": true,
	"stop":             true,
}

// Event types the engine emits.
var knownEventTypes = map[string]bool{
	movement.EventMoved:   true,
	movement.EventBlocked: true,
	events.TurnCompleted:  true,
	events.RoundCompleted: true,
	events.TurnStarted:    true,
}

// validate checks the compiled defs for referential integrity and
// consistency. The returned value always carries warnings; it is an error
// only when Errors is non-empty.
func validate(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Scenario.Title == "" {
		ve.Errors = append(ve.Errors, "Scenario.title is required")
	}

	m, err := state.ParseMap(defs.Map.Rows)
	if err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Map: %v", err))
	}

	validateActors(defs, m, ve)
	validateInitiative(defs, ve)

	for _, handler := range defs.Handlers {
		if !knownEventTypes[handler.EventType] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"handler for unknown event type %q will never fire", handler.EventType))
		}
		if handler.Actor != "" {
			if _, ok := defs.Actors[handler.Actor]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"handler for %q references undefined actor %q", handler.EventType, handler.Actor))
			}
		}
		validateEffects(handler.Effects, defs, ve)
	}

	return ve
}

func validateActors(defs *state.Defs, m *state.Map, ve *ValidationError) {
	combatants := 0
	occupied := map[types.Position]types.ActorID{}

	for _, id := range defs.Order {
		actor := defs.Actors[id]
		if actor.ActionPoints {
			combatants++
		}
		if actor.Control != types.ControlPC && actor.Control != types.ControlNPC {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"actor %q has unknown control %q (want \"pc\" or \"npc\")", id, actor.Control))
		}
		if m == nil {
			continue
		}
		if !m.InBounds(actor.Start) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"actor %q starts out of bounds at (%d,%d)", id, actor.Start.X, actor.Start.Y))
			continue
		}
		if !actor.Collidable {
			continue
		}
		if !m.CanEnterTile(actor.Start) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"actor %q starts inside a wall at (%d,%d)", id, actor.Start.X, actor.Start.Y))
		}
		if other, ok := occupied[actor.Start]; ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"actors %q and %q both start at (%d,%d)", other, id, actor.Start.X, actor.Start.Y))
		}
		occupied[actor.Start] = id
	}

	if combatants == 0 {
		ve.Errors = append(ve.Errors, "no actor has action points; the encounter needs at least one combatant")
	}
}

func validateInitiative(defs *state.Defs, ve *ValidationError) {
	if len(defs.Scenario.Initiative) == 0 {
		return
	}
	listed := map[types.ActorID]bool{}
	for _, id := range defs.Scenario.Initiative {
		actor, ok := defs.Actors[id]
		switch {
		case !ok:
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"initiative references undefined actor %q", id))
		case listed[id]:
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"actor %q appears twice in initiative", id))
		case !actor.ActionPoints:
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"actor %q is in initiative but has no action points", id))
		}
		listed[id] = true
	}
	for _, id := range defs.Order {
		if defs.Actors[id].ActionPoints && !listed[id] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"actor %q has action points but is not in initiative", id))
		}
	}
}

func validateEffects(effs []types.Effect, defs *state.Defs, ve *ValidationError) {
	for _, eff := range effs {
		if !validEffectTypes[eff.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("unknown effect type %q", eff.Type))
			continue
		}
		if eff.Type == "refresh_movement" {
			if id, ok := eff.Params["actor"].(string); ok {
				actor, exists := defs.Actors[types.ActorID(id)]
				switch {
				case !exists:
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"effect refresh_movement references undefined actor %q", id))
				case actor.MovementPoints == 0:
					ve.Warnings = append(ve.Warnings, fmt.Sprintf(
						"effect refresh_movement targets %q, which has no movement points", id))
				}
			}
		}
	}
}
