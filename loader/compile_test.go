package loader

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/skirmish/types"
)

// runLua executes code against a fresh collector with the full API.
func runLua(t *testing.T, code string) *collector {
	t.Helper()
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	if err := L.DoString(code); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	return coll
}

func TestCompile_ExplicitInitiative(t *testing.T) {
	coll := runLua(t, `
		Scenario { title = "T", initiative = { "b", "a" } }
		Actor "a" { x = 0, y = 0 }
		Actor "b" { x = 1, y = 0 }
	`)
	defs, err := compile(coll)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	order := defs.Scenario.Initiative
	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Errorf("Initiative = %v, want [b a]", order)
	}
	if defs.Scenario.RollOrder {
		t.Error("explicit list should not set RollOrder")
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"duplicate actor", `Actor "a" {} Actor "a" {}`, "duplicate actor"},
		{"two scenarios", `Scenario { title = "x" } Scenario { title = "y" }`, "Scenario defined 2 times"},
		{"two maps", `Map { "." } Map { "." }`, "Map defined 2 times"},
		{"bad initiative mode", `Scenario { title = "x", initiative = "alphabetical" }`, "unknown mode"},
		{"bad initiative type", `Scenario { title = "x", initiative = 3 }`, "initiative"},
		{"zero movement", `Actor "a" { movement_points = 0 }`, "must be positive"},
		{"string movement", `Actor "a" { movement_points = "lots" }`, "movement_points"},
		{"fractional movement", `Actor "a" { movement_points = 2.7 }`, "whole number"},
		{"fractional position", `Actor "a" { x = 1.5, y = 0 }`, "x: expected a whole number"},
		{"string position", `Actor "a" { x = 0, y = "top" }`, "y: expected a number"},
		{"fractional seed", `Scenario { title = "x", seed = 0.5 }`, "Scenario.seed"},
		{"non-string initiative entry", `Scenario { title = "x", initiative = { "a", 2 } }`, "Scenario.initiative[2]"},
		{"non-string map row", `Map { "..", 7 }`, "Map[2]"},
	}
	for _, tt := range tests {
		_, err := compile(runLua(t, tt.code))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q should mention %q", tt.name, err, tt.want)
		}
	}
}

func TestCompile_MovementPoints(t *testing.T) {
	coll := runLua(t, `
		Actor "default" {}
		Actor "fast" { movement_points = 6 }
		Actor "none" { movement_points = false }
		Actor "explicit" { movement_points = true }
	`)
	defs, err := compile(coll)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	want := map[types.ActorID]int{"default": 3, "fast": 6, "none": 0, "explicit": 3}
	for id, mp := range want {
		if got := defs.Actors[id].MovementPoints; got != mp {
			t.Errorf("%s movement points = %d, want %d", id, got, mp)
		}
	}
	if defs.Actors["default"].Control != types.ControlNPC {
		t.Errorf("default control = %q, want npc", defs.Actors["default"].Control)
	}
}

func TestCompile_EffectHelpers(t *testing.T) {
	coll := runLua(t, `
		On("round_completed", { effects = {
			Say("hello {round}"),
			Debug("dbg"),
			RefreshMovement("a"),
			RefreshMovement(),
			Stop(),
		}})
	`)
	defs, err := compile(coll)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	effs := defs.Handlers[0].Effects
	wantTypes := []string{"say", "debug", "refresh_movement", "refresh_movement", "stop"}
	if len(effs) != len(wantTypes) {
		t.Fatalf("effects = %+v", effs)
	}
	for i, typ := range wantTypes {
		if effs[i].Type != typ {
			t.Errorf("effect %d type = %q, want %q", i, effs[i].Type, typ)
		}
	}
	if effs[0].Params["text"] != "hello {round}" {
		t.Errorf("say text = %v", effs[0].Params["text"])
	}
	if effs[2].Params["actor"] != "a" {
		t.Errorf("refresh actor = %v", effs[2].Params["actor"])
	}
	if _, ok := effs[3].Params["actor"]; ok {
		t.Error("RefreshMovement() should not set an actor")
	}
}

func TestToGoValue(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if v := toGoValue(lua.LNumber(3)); v != 3 {
		t.Errorf("integral number = %v (%T), want int 3", v, v)
	}
	if v := toGoValue(lua.LNumber(1.5)); v != 1.5 {
		t.Errorf("fractional number = %v", v)
	}
	arr := L.NewTable()
	arr.Append(lua.LString("x"))
	arr.Append(lua.LBool(true))
	got, ok := toGoValue(arr).([]any)
	if !ok || len(got) != 2 || got[0] != "x" || got[1] != true {
		t.Errorf("array = %v", toGoValue(arr))
	}
	m := L.NewTable()
	m.RawSetString("k", lua.LString("v"))
	if mv, ok := toGoValue(m).(map[string]any); !ok || mv["k"] != "v" {
		t.Errorf("map = %v", toGoValue(m))
	}
}
