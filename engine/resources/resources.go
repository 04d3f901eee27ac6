// Package resources implements the per-actor Action Point and Movement
// Point budgets. Consumption returns the resulting value and an error
// instead of panicking when the budget is insufficient.
package resources

import "errors"

// MaxActionPoints is the Action Point budget restored at every round.
const MaxActionPoints = 3

// DefaultMovement is the Movement Point budget of a standard humanoid.
const DefaultMovement = 3

const (
	minorCost       = 1
	significantCost = 2
)

// ErrInsufficientActionPoints is returned when an action costs more than
// the points left. The returned value is the unchanged current amount.
var ErrInsufficientActionPoints = errors.New("not enough action points")

// ActionPoints is an actor's action budget for one round.
type ActionPoints struct {
	current int
}

// NewActionPoints returns a full Action Point pool.
func NewActionPoints() ActionPoints {
	return ActionPoints{current: MaxActionPoints}
}

// MinorAction spends 1 point. Returns the points left.
func (a *ActionPoints) MinorAction() (int, error) {
	return a.spend(minorCost)
}

// SignificantAction spends 2 points. Returns the points left.
func (a *ActionPoints) SignificantAction() (int, error) {
	return a.spend(significantCost)
}

func (a *ActionPoints) spend(cost int) (int, error) {
	if a.current < cost {
		return a.current, ErrInsufficientActionPoints
	}
	a.current -= cost
	return a.current, nil
}

// FullTurn consumes the whole budget at once. It is not guarded and can
// leave the pool negative when points were already spent.
func (a *ActionPoints) FullTurn() {
	a.current -= MaxActionPoints
}

// Reset restores the pool to MaxActionPoints.
func (a *ActionPoints) Reset() {
	a.current = MaxActionPoints
}

// Current returns the points left.
func (a ActionPoints) Current() int {
	return a.current
}

// MovementPoints is the number of single-tile steps left in a movement
// phase.
type MovementPoints struct {
	max     int
	current int
}

// DefaultMovementPoints returns the humanoid budget.
func DefaultMovementPoints() MovementPoints {
	return NewMovementPoints(DefaultMovement)
}

// NewMovementPoints returns a custom budget for non-standard actors.
func NewMovementPoints(max int) MovementPoints {
	return MovementPoints{max: max, current: max}
}

// Decrement spends one step. Callers must check CanMove first.
func (m *MovementPoints) Decrement() {
	m.current--
}

// CanMove reports whether at least one step is left.
func (m MovementPoints) CanMove() bool {
	return m.current > 0
}

// Reset restores the full budget.
func (m *MovementPoints) Reset() {
	m.current = m.max
}

// Current returns the steps left.
func (m MovementPoints) Current() int {
	return m.current
}

// Max returns the full budget.
func (m MovementPoints) Max() int {
	return m.max
}
