// Package state holds the immutable scenario definitions and the mutable
// world: an actor table keyed by ActorID with one side table per optional
// attribute, plus the tile map.
package state

import (
	"fmt"

	"github.com/nathoo/skirmish/engine/resources"
	"github.com/nathoo/skirmish/types"
)

// Defs holds the immutable scenario definitions loaded from Lua.
type Defs struct {
	Scenario types.ScenarioDef
	Map      types.MapDef
	Actors   map[types.ActorID]types.ActorDef
	Order    []types.ActorID // actor declaration order
	Handlers []types.EventHandler
}

// Actor is the identity and position of a combatant or other mover.
type Actor struct {
	ID      types.ActorID
	Name    string
	Glyph   string
	Control types.ControlType
	Pos     types.Position
}

// World is the shared actor registry for one scene. It is owned by the
// tick pipeline and not safe for concurrent use.
type World struct {
	Map *Map

	actors     map[types.ActorID]*Actor
	order      []types.ActorID
	ap         map[types.ActorID]*resources.ActionPoints
	mp         map[types.ActorID]*resources.MovementPoints
	collidable map[types.ActorID]bool
}

// NewWorld creates an empty world over the given map.
func NewWorld(m *Map) *World {
	return &World{
		Map:        m,
		actors:     map[types.ActorID]*Actor{},
		ap:         map[types.ActorID]*resources.ActionPoints{},
		mp:         map[types.ActorID]*resources.MovementPoints{},
		collidable: map[types.ActorID]bool{},
	}
}

// FromDefs builds the map and spawns every actor in declaration order.
func FromDefs(defs *Defs) (*World, error) {
	m, err := ParseMap(defs.Map.Rows)
	if err != nil {
		return nil, err
	}
	w := NewWorld(m)
	for _, id := range defs.Order {
		if err := w.Spawn(defs.Actors[id]); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Spawn adds an actor and its optional attributes.
func (w *World) Spawn(def types.ActorDef) error {
	if _, ok := w.actors[def.ID]; ok {
		return fmt.Errorf("actor %q already exists", def.ID)
	}
	if !w.Map.InBounds(def.Start) {
		return fmt.Errorf("actor %q start (%d,%d) is out of bounds", def.ID, def.Start.X, def.Start.Y)
	}
	name := def.Name
	if name == "" {
		name = string(def.ID)
	}
	w.actors[def.ID] = &Actor{
		ID:      def.ID,
		Name:    name,
		Glyph:   def.Glyph,
		Control: def.Control,
		Pos:     def.Start,
	}
	w.order = append(w.order, def.ID)

	if def.ActionPoints {
		ap := resources.NewActionPoints()
		w.ap[def.ID] = &ap
	}
	if def.MovementPoints > 0 {
		mp := resources.NewMovementPoints(def.MovementPoints)
		w.mp[def.ID] = &mp
	}
	if def.Collidable {
		w.collidable[def.ID] = true
	}
	return nil
}

// Exists reports whether the actor is in the world.
func (w *World) Exists(id types.ActorID) bool {
	_, ok := w.actors[id]
	return ok
}

// Actor returns a copy of the actor record.
func (w *World) Actor(id types.ActorID) (Actor, bool) {
	a, ok := w.actors[id]
	if !ok {
		return Actor{}, false
	}
	return *a, true
}

// Name returns the display name of an actor, or its ID if unknown.
func (w *World) Name(id types.ActorID) string {
	if a, ok := w.actors[id]; ok {
		return a.Name
	}
	return string(id)
}

// Position returns the actor's current tile.
func (w *World) Position(id types.ActorID) (types.Position, bool) {
	a, ok := w.actors[id]
	if !ok {
		return types.Position{}, false
	}
	return a.Pos, true
}

// SetPosition moves an actor. Validation is the caller's job.
func (w *World) SetPosition(id types.ActorID, p types.Position) {
	if a, ok := w.actors[id]; ok {
		a.Pos = p
	}
}

// ActionPoints returns the actor's Action Point pool, if it has one.
func (w *World) ActionPoints(id types.ActorID) (*resources.ActionPoints, bool) {
	ap, ok := w.ap[id]
	return ap, ok
}

// MovementPoints returns the actor's Movement Point pool, if it has one.
func (w *World) MovementPoints(id types.ActorID) (*resources.MovementPoints, bool) {
	mp, ok := w.mp[id]
	return mp, ok
}

// IsCollidable reports whether the actor blocks other solid movers.
func (w *World) IsCollidable(id types.ActorID) bool {
	return w.collidable[id]
}

// CollidablePositions snapshots the tiles held by every collidable actor
// other than except.
func (w *World) CollidablePositions(except types.ActorID) []types.Position {
	var out []types.Position
	for _, id := range w.order {
		if id == except || !w.collidable[id] {
			continue
		}
		if a, ok := w.actors[id]; ok {
			out = append(out, a.Pos)
		}
	}
	return out
}

// ActorIDs returns every actor in spawn order.
func (w *World) ActorIDs() []types.ActorID {
	out := make([]types.ActorID, len(w.order))
	copy(out, w.order)
	return out
}

// ActorAt returns the first actor, in spawn order, standing on p.
func (w *World) ActorAt(p types.Position) (types.ActorID, bool) {
	for _, id := range w.order {
		if a, ok := w.actors[id]; ok && a.Pos == p {
			return id, true
		}
	}
	return "", false
}

// Render draws the map as text rows: '#' walls, '.' floor, and each
// actor's glyph on top. Later-spawned actors are drawn over earlier ones.
func (w *World) Render() []string {
	grid := make([][]rune, w.Map.Height())
	for y := range grid {
		grid[y] = make([]rune, w.Map.Width())
		for x := range grid[y] {
			grid[y][x] = '.'
			if w.Map.TileAt(types.Position{X: x, Y: y}) == Wall {
				grid[y][x] = '#'
			}
		}
	}
	for _, id := range w.order {
		a := w.actors[id]
		if !w.Map.InBounds(a.Pos) {
			continue
		}
		glyph := '@'
		for _, r := range a.Glyph {
			glyph = r
			break
		}
		grid[a.Pos.Y][a.Pos.X] = glyph
	}
	rows := make([]string, len(grid))
	for y, row := range grid {
		rows[y] = string(row)
	}
	return rows
}
