// Package movement resolves WantsToMove intents against the tile map,
// actor occupancy and Movement Point budgets.
package movement

import (
	"fmt"

	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// Event types emitted by Resolve.
const (
	EventMoved   = "actor_moved"
	EventBlocked = "move_blocked"
)

// Resolve applies already-drained move intents in queue order. Every
// intent is consumed; rejected ones leave the actor's position and
// resources unchanged and produce a report.
func Resolve(w *state.World, moves []types.WantsToMove) types.Result {
	var result types.Result
	for _, mv := range moves {
		resolveOne(w, mv, &result)
	}
	return result
}

func resolveOne(w *state.World, mv types.WantsToMove, result *types.Result) {
	if !w.Exists(mv.Actor) {
		result.Debug = append(result.Debug, fmt.Sprintf("dropping move for missing actor %s", mv.Actor))
		return
	}

	// Actors without a Movement Points component are not budget-bound.
	mp, hasMP := w.MovementPoints(mv.Actor)
	if hasMP && !mp.CanMove() {
		result.Output = append(result.Output, "Doesn't have enough movement points to move")
		result.Events = append(result.Events, blocked(mv, "no_movement_points"))
		return
	}

	if reason := check(w, mv); reason != "" {
		result.Output = append(result.Output, blockedText(w, mv, reason))
		result.Debug = append(result.Debug, fmt.Sprintf("move of %s to (%d,%d) rejected: %s",
			mv.Actor, mv.Destination.X, mv.Destination.Y, reason))
		result.Events = append(result.Events, blocked(mv, reason))
		return
	}

	w.SetPosition(mv.Actor, mv.Destination)

	remaining := -1
	if hasMP {
		mp.Decrement()
		remaining = mp.Current()
		result.Output = append(result.Output, fmt.Sprintf("current movement points: %d", remaining))
	}
	result.Debug = append(result.Debug, fmt.Sprintf("%s moved to (%d,%d)",
		mv.Actor, mv.Destination.X, mv.Destination.Y))
	result.Events = append(result.Events, types.Event{
		Type: EventMoved,
		Data: map[string]any{
			"actor":     mv.Actor,
			"x":         mv.Destination.X,
			"y":         mv.Destination.Y,
			"remaining": remaining,
		},
	})
}

// check returns the rejection reason, or "" if the destination is valid.
func check(w *state.World, mv types.WantsToMove) string {
	if !mv.Collision {
		// Non-solid movers (cursors) only need to stay on the map.
		if !w.Map.InBounds(mv.Destination) {
			return "out_of_bounds"
		}
		return ""
	}

	// Snapshot occupancy before deciding; nothing is written until the
	// destination is accepted.
	occupied := w.CollidablePositions(mv.Actor)
	if !w.Map.CanEnterTile(mv.Destination) {
		return "impassable"
	}
	for _, p := range occupied {
		if p == mv.Destination {
			return "occupied"
		}
	}
	return ""
}

func blocked(mv types.WantsToMove, reason string) types.Event {
	return types.Event{
		Type: EventBlocked,
		Data: map[string]any{
			"actor":  mv.Actor,
			"x":      mv.Destination.X,
			"y":      mv.Destination.Y,
			"reason": reason,
		},
	}
}

func blockedText(w *state.World, mv types.WantsToMove, reason string) string {
	name := w.Name(mv.Actor)
	switch reason {
	case "occupied":
		return fmt.Sprintf("%s can't move there, the way is blocked.", name)
	case "out_of_bounds":
		return fmt.Sprintf("%s can't move off the map.", name)
	default:
		return fmt.Sprintf("%s can't move into a wall.", name)
	}
}
