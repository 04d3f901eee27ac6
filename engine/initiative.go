package engine

import (
	"slices"

	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// InitiativeDie is the die every combatant rolls for turn order.
const InitiativeDie = 20

// InitiativeRoll is one combatant's initiative result.
type InitiativeRoll struct {
	Actor types.ActorID
	Value int
}

// RollInitiative rolls one die per actor, in the given order, and returns
// the rolls sorted highest first. Ties keep the given order.
func RollInitiative(rng *RNG, actors []types.ActorID) []InitiativeRoll {
	rolls := make([]InitiativeRoll, 0, len(actors))
	for _, id := range actors {
		rolls = append(rolls, InitiativeRoll{Actor: id, Value: rng.Roll(InitiativeDie)})
	}
	sortRolls(rolls)
	return rolls
}

func sortRolls(rolls []InitiativeRoll) {
	slices.SortStableFunc(rolls, func(a, b InitiativeRoll) int {
		return b.Value - a.Value
	})
}

// combatants returns every declared actor with Action Points, in
// declaration order.
func combatants(defs *state.Defs) []types.ActorID {
	var out []types.ActorID
	for _, id := range defs.Order {
		if defs.Actors[id].ActionPoints {
			out = append(out, id)
		}
	}
	return out
}

// initiativeOrder decides the encounter's turn order: an explicit list
// wins, then a rolled order, then declaration order.
func initiativeOrder(defs *state.Defs, rng *RNG) ([]types.ActorID, []InitiativeRoll) {
	if len(defs.Scenario.Initiative) > 0 {
		return slices.Clone(defs.Scenario.Initiative), nil
	}
	actors := combatants(defs)
	if !defs.Scenario.RollOrder {
		return actors, nil
	}
	rolls := RollInitiative(rng, actors)
	order := make([]types.ActorID, len(rolls))
	for i, r := range rolls {
		order[i] = r.Actor
	}
	return order, rolls
}
