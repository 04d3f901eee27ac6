// Package effects applies scenario-defined effects to the world.
// Every effect type is one atomic operation. No logic in effects.
package effects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// Context carries what template interpolation and actor-scoped effects
// need to know about the triggering event.
type Context struct {
	Actor types.ActorID // empty for scene-wide events
	Round int
}

// Apply applies a list of effects. Effects never emit events, so handler
// dispatch stays single pass.
func Apply(w *state.World, effs []types.Effect, ctx Context) types.Result {
	var result types.Result

	for _, eff := range effs {
		switch eff.Type {
		case "say":
			text, _ := eff.Params["text"].(string)
			result.Output = append(result.Output, interpolate(text, w, ctx))

		case "debug":
			text, _ := eff.Params["text"].(string)
			result.Debug = append(result.Debug, interpolate(text, w, ctx))

		case "refresh_movement":
			target := ctx.Actor
			if id, ok := eff.Params["actor"].(string); ok && id != "" {
				target = types.ActorID(id)
			}
			mp, ok := w.MovementPoints(target)
			if !ok {
				result.Debug = append(result.Debug,
					fmt.Sprintf("refresh_movement: %q has no movement points", target))
				continue
			}
			mp.Reset()
			result.Debug = append(result.Debug,
				fmt.Sprintf("refreshed movement points of %s to %d", target, mp.Current()))

		case "stop":
			return result

		default:
			// Unknown effect type — ignore silently.
		}
	}

	return result
}

// interpolate replaces template variables in text.
func interpolate(text string, w *state.World, ctx Context) string {
	if !strings.Contains(text, "{") {
		return text
	}
	name := ""
	if ctx.Actor != "" {
		name = w.Name(ctx.Actor)
	}
	r := strings.NewReplacer(
		"{actor}", name,
		"{actor.id}", string(ctx.Actor),
		"{round}", strconv.Itoa(ctx.Round),
	)
	return r.Replace(text)
}
