// Package intent holds the tick-scoped requests produced by input handling
// and consumed exactly once by the resolvers.
//
// Every resolver follows the same staging protocol: Drain copies the
// pending records out and clears storage before any of them is applied.
// Anything pushed while the drained copy is being applied lands in
// storage for a later pass, never in the slice being iterated.
package intent

import "github.com/nathoo/skirmish/types"

// Buffer stores pending intents of a single kind in arrival order.
type Buffer[T any] struct {
	pending []T
}

// Push enqueues an intent.
func (b *Buffer[T]) Push(v T) {
	b.pending = append(b.pending, v)
}

// Len returns the number of pending intents.
func (b *Buffer[T]) Len() int {
	return len(b.pending)
}

// Drain returns every pending intent in arrival order and empties the
// buffer. The returned slice does not alias storage.
func (b *Buffer[T]) Drain() []T {
	if len(b.pending) == 0 {
		return nil
	}
	out := make([]T, len(b.pending))
	copy(out, b.pending)
	clear(b.pending)
	b.pending = b.pending[:0]
	return out
}

// Queue is the command bus for one encounter: one buffer per intent kind.
// New kinds get their own buffer and follow the same drain protocol.
type Queue struct {
	Moves    Buffer[types.WantsToMove]
	EndTurns Buffer[types.EndTurn]
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// DrainEndTurn consumes every pending EndTurn as a single signal.
// Returns true if at least one was pending.
func (q *Queue) DrainEndTurn() bool {
	return len(q.EndTurns.Drain()) > 0
}

// Len returns the number of pending intents of every kind.
func (q *Queue) Len() int {
	return q.Moves.Len() + q.EndTurns.Len()
}
