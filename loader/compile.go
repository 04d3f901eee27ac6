// Package loader loads Lua scenario content into Go structs at startup.
// The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/skirmish/engine/resources"
	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// rawActor holds an actor table before compilation.
type rawActor struct {
	id    string
	table *lua.LTable
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an integer field from a Lua table, or 0 if missing.
// Non-numbers and fractional numbers are errors.
func getInt(tbl *lua.LTable, key string) (int, error) {
	switch v := tbl.RawGetString(key).(type) {
	case *lua.LNilType:
		return 0, nil
	case lua.LNumber:
		n, ok := wholeNumber(v)
		if !ok {
			return 0, fmt.Errorf("%s: expected a whole number, got %s", key, v.String())
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s: expected a number, got %s", key, v.Type())
	}
}

func wholeNumber(n lua.LNumber) (int, bool) {
	f := float64(n)
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings returns the array part of a table as strings. Any other
// entry is an error naming field and index.
func getStrings(tbl *lua.LTable, field string) ([]string, error) {
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		v := tbl.RawGetInt(i)
		s, ok := v.(lua.LString)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a string, got %s", field, i, v.Type())
		}
		out = append(out, string(s))
	}
	return out, nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Check if it's an array (sequential integer keys starting at 1).
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// compile converts collected Lua tables into immutable definitions.
// Structural problems (duplicates, wrong field types) fail here; semantic
// checks happen in validate.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Actors: map[types.ActorID]types.ActorDef{},
	}

	if coll.scenarios > 1 {
		return nil, fmt.Errorf("Scenario defined %d times", coll.scenarios)
	}
	if coll.maps > 1 {
		return nil, fmt.Errorf("Map defined %d times", coll.maps)
	}

	if coll.scenario != nil {
		sc, err := compileScenario(coll.scenario)
		if err != nil {
			return nil, err
		}
		defs.Scenario = sc
	}

	if coll.mapTbl != nil {
		rows, err := getStrings(coll.mapTbl, "Map")
		if err != nil {
			return nil, err
		}
		defs.Map = types.MapDef{Rows: rows}
	}

	for _, raw := range coll.actors {
		actor, err := compileActor(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := defs.Actors[actor.ID]; dup {
			return nil, fmt.Errorf("duplicate actor ID %q", actor.ID)
		}
		defs.Actors[actor.ID] = actor
		defs.Order = append(defs.Order, actor.ID)
	}

	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	return defs, nil
}

func compileScenario(tbl *lua.LTable) (types.ScenarioDef, error) {
	sc := types.ScenarioDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
	}
	seed, err := getInt(tbl, "seed")
	if err != nil {
		return sc, fmt.Errorf("Scenario.%w", err)
	}
	sc.Seed = int64(seed)

	switch v := tbl.RawGetString("initiative").(type) {
	case *lua.LNilType:
	case lua.LString:
		if v != "roll" {
			return sc, fmt.Errorf("Scenario.initiative: unknown mode %q (want \"roll\" or a list of actor IDs)", string(v))
		}
		sc.RollOrder = true
	case *lua.LTable:
		ids, err := getStrings(v, "Scenario.initiative")
		if err != nil {
			return sc, err
		}
		for _, id := range ids {
			sc.Initiative = append(sc.Initiative, types.ActorID(id))
		}
	default:
		return sc, fmt.Errorf("Scenario.initiative: unexpected %s", v.Type())
	}

	return sc, nil
}

func compileActor(raw rawActor) (types.ActorDef, error) {
	tbl := raw.table
	def := types.ActorDef{
		ID:           types.ActorID(raw.id),
		Name:         getString(tbl, "name"),
		Glyph:        getString(tbl, "glyph"),
		Control:      types.ControlType(getString(tbl, "control")),
		ActionPoints: getBool(tbl, "action_points", true),
		Collidable:   getBool(tbl, "collidable", true),
	}
	if def.Control == "" {
		def.Control = types.ControlNPC
	}
	x, err := getInt(tbl, "x")
	if err != nil {
		return def, fmt.Errorf("actor %q: %w", raw.id, err)
	}
	y, err := getInt(tbl, "y")
	if err != nil {
		return def, fmt.Errorf("actor %q: %w", raw.id, err)
	}
	def.Start = types.Position{X: x, Y: y}
	if def.Glyph == "" {
		r, _ := utf8.DecodeRuneInString(raw.id)
		def.Glyph = string(r)
	}

	// movement_points = false removes the budget entirely; a number sets
	// the maximum; absent means the default.
	switch v := tbl.RawGetString("movement_points").(type) {
	case *lua.LNilType:
		def.MovementPoints = resources.DefaultMovement
	case lua.LBool:
		if bool(v) {
			def.MovementPoints = resources.DefaultMovement
		}
	case lua.LNumber:
		n, ok := wholeNumber(v)
		if !ok {
			return def, fmt.Errorf("actor %q: movement_points must be a whole number, got %s", raw.id, v.String())
		}
		def.MovementPoints = n
		if def.MovementPoints <= 0 {
			return def, fmt.Errorf("actor %q: movement_points must be positive, got %d", raw.id, def.MovementPoints)
		}
	default:
		return def, fmt.Errorf("actor %q: movement_points: unexpected %s", raw.id, v.Type())
	}

	return def, nil
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if effTbl, ok := v.(*lua.LTable); ok {
			effects = append(effects, compileEffect(effTbl))
		}
	})
	return effects
}

func compileEffect(tbl *lua.LTable) types.Effect {
	effType := getString(tbl, "type")
	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			key := string(ks)
			if key != "type" {
				params[key] = toGoValue(v)
			}
		}
	})
	return types.Effect{
		Type:   effType,
		Params: params,
	}
}

func compileHandler(raw rawHandler) types.EventHandler {
	handler := types.EventHandler{
		EventType: raw.eventType,
		Actor:     types.ActorID(getString(raw.table, "actor")),
	}
	if effTbl := getTable(raw.table, "effects"); effTbl != nil {
		handler.Effects = compileEffects(effTbl)
	}
	return handler
}

// sortedLuaFiles returns .lua files with scenario.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var scenarioFile string
	var others []string
	for _, f := range files {
		if f == "scenario.lua" {
			scenarioFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if scenarioFile != "" {
		return append([]string{scenarioFile}, others...)
	}
	return others
}
