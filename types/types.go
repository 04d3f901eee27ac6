// Package types defines the shared data structures for the skirmish engine.
// This package contains only type definitions — no logic, no methods.
package types

// ActorID is the stable identifier of an actor for the lifetime of a scene.
type ActorID string

// Position is a 2D integer tile coordinate.
type Position struct {
	X int
	Y int
}

// Direction is one of the eight compass directions a mover can step in.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// CommandKind identifies an abstract input command.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdMove
	CmdStartMove
	CmdCancel
	CmdConfirmEndTurn
	CmdEndTurnYes
	CmdEndTurnNo
	CmdQuit
)

// Command is the abstract input consumed once per tick.
type Command struct {
	Kind CommandKind
	Dir  Direction // only meaningful for CmdMove
}

// WantsToMove is an intent: Actor wants to occupy Destination.
// Collision selects the solid-body validation path.
type WantsToMove struct {
	Collision   bool
	Actor       ActorID
	Destination Position
}

// EndTurn is an intent marker: the active actor wants to end its turn.
type EndTurn struct{}

// ControlType tells who drives an actor. Hotseat: PC is player one.
type ControlType string

const (
	ControlPC  ControlType = "pc"
	ControlNPC ControlType = "npc"
)

// Effect is a single scenario-defined instruction run by an event handler.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted by the tick pipeline after a world mutation.
type Event struct {
	Type string
	Data map[string]any
}

// EventHandler is a scenario hook triggered by an event type.
// An empty Actor matches every actor.
type EventHandler struct {
	EventType string
	Actor     ActorID
	Effects   []Effect
}

// Result is the output of a single simulation tick.
type Result struct {
	Output []string // player-facing log lines
	Debug  []string // debug log lines
	Events []Event
}

// ScenarioDef holds scenario metadata from Lua.
type ScenarioDef struct {
	Title      string
	Author     string
	Version    string
	Intro      string
	Seed       int64
	RollOrder  bool      // initiative = "roll"
	Initiative []ActorID // explicit initiative order, already sorted
}

// MapDef is a tile map as rows of '#' (wall) and '.' (floor).
type MapDef struct {
	Rows []string
}

// ActorDef is the base definition of an actor placed at scene setup.
type ActorDef struct {
	ID             ActorID
	Name           string
	Glyph          string
	Control        ControlType
	Start          Position
	ActionPoints   bool
	MovementPoints int // 0 = no Movement Points component
	Collidable     bool
}
