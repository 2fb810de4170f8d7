package game

import (
	"log/slog"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/telemetry"
)

// reconcile applies the membership changes recorded since the last call:
// newborns join the end of their registry; eaten and fully decomposed
// animals leave it and their entities are removed from the world.
// Registry order of the remaining animals is preserved.
func (g *Game) reconcile() {
	clear(g.removed)

	start := g.reconciled
	for i := start; i < len(g.events); i++ {
		ev := &g.events[i]
		switch ev.Type {
		case telemetry.EventBorn:
			g.registries[ev.Species] = append(g.registries[ev.Species], ev.Entity)
		case telemetry.EventEaten, telemetry.EventDecomposed:
			g.removed[ev.Entity] = true
		}
	}
	g.reconciled = len(g.events)

	if len(g.removed) == 0 {
		return
	}

	for s := range g.registries {
		g.registries[s] = slices.DeleteFunc(g.registries[s], func(e ecs.Entity) bool {
			return g.removed[e]
		})
	}
	// Removal in event order keeps entity recycling deterministic
	for i := start; i < len(g.events); i++ {
		ev := &g.events[i]
		if (ev.Type == telemetry.EventEaten || ev.Type == telemetry.EventDecomposed) && g.world.Alive(ev.Entity) {
			g.world.RemoveEntity(ev.Entity)
		}
	}

	slog.Debug("registries reconciled",
		"tick", g.tick,
		"removed", len(g.removed),
		"prey", len(g.registries[components.SpeciesPrey]),
		"predators", len(g.registries[components.SpeciesPredator]),
	)
}
