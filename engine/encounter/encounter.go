// Package encounter sequences the actors of a combat encounter through a
// fixed initiative order and tracks round completion.
package encounter

import "github.com/nathoo/skirmish/types"

type slot struct {
	actor types.ActorID
	acted bool
}

// Encounter owns the initiative order for one combat. The order is fixed
// at construction and never re-sorted.
type Encounter struct {
	order  []slot
	rounds int
}

// New creates an encounter from an initiative order that is already sorted.
func New(order []types.ActorID) *Encounter {
	slots := make([]slot, 0, len(order))
	for _, id := range order {
		slots = append(slots, slot{actor: id})
	}
	return &Encounter{order: slots}
}

// NextTurn returns the earliest actor in initiative order that has not
// acted this round. Returns false when every actor has acted.
func (e *Encounter) NextTurn() (types.ActorID, bool) {
	for _, s := range e.order {
		if !s.acted {
			return s.actor, true
		}
	}
	return "", false
}

// CompleteTurn marks the first unacted actor as acted, then checks for
// round completion. Returns true iff this call completed the round.
func (e *Encounter) CompleteTurn() bool {
	for i := range e.order {
		if !e.order[i].acted {
			e.order[i].acted = true
			break
		}
	}
	return e.CheckRoundCompletion()
}

// CheckRoundCompletion starts a new round when every actor has acted:
// the round counter increments and all acted flags clear. Otherwise it
// changes nothing and returns false.
func (e *Encounter) CheckRoundCompletion() bool {
	for _, s := range e.order {
		if !s.acted {
			return false
		}
	}
	e.rounds++
	for i := range e.order {
		e.order[i].acted = false
	}
	return true
}

// Actors returns the initiative order.
func (e *Encounter) Actors() []types.ActorID {
	ids := make([]types.ActorID, 0, len(e.order))
	for _, s := range e.order {
		ids = append(ids, s.actor)
	}
	return ids
}

// Rounds returns the number of completed rounds.
func (e *Encounter) Rounds() int {
	return e.rounds
}

// HasActed reports whether id has completed its turn this round.
func (e *Encounter) HasActed(id types.ActorID) bool {
	for _, s := range e.order {
		if s.actor == id {
			return s.acted
		}
	}
	return false
}

// Len returns the number of actors in the encounter.
func (e *Encounter) Len() int {
	return len(e.order)
}
