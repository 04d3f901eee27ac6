// Package events implements single-pass event handler dispatch.
// Event handlers produce effects but do not recurse.
package events

import (
	"github.com/nathoo/skirmish/types"
)

// Event types emitted by the tick pipeline itself. Movement events live in
// the movement package.
const (
	TurnCompleted  = "turn_completed"
	RoundCompleted = "round_completed"
	TurnStarted    = "turn_started"
)

// Match pairs an event with the effects of every handler it triggered.
type Match struct {
	Event   types.Event
	Effects []types.Effect
}

// Dispatch runs event handlers against the emitted events. Single pass:
// effects applied by the caller never feed back into Dispatch.
func Dispatch(evs []types.Event, handlers []types.EventHandler) []Match {
	var result []Match

	for _, event := range evs {
		var effs []types.Effect
		for _, handler := range handlers {
			if handler.EventType != event.Type {
				continue
			}
			if handler.Actor != "" && handler.Actor != Actor(event) {
				continue
			}
			effs = append(effs, handler.Effects...)
		}
		if len(effs) > 0 {
			result = append(result, Match{Event: event, Effects: effs})
		}
	}

	return result
}

// Actor returns the actor an event is about, or "" for scene-wide events.
func Actor(event types.Event) types.ActorID {
	switch v := event.Data["actor"].(type) {
	case types.ActorID:
		return v
	case string:
		return types.ActorID(v)
	default:
		return ""
	}
}
