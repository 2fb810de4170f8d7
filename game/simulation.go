package game

import (
	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/telemetry"
)

// Step advances the world by one tick. Vegetation regrows first, then every
// prey acts in registry order, then every predator. Animals born during a
// species pass join their registry when that pass ends and act from the
// next tick on.
func (g *Game) Step() {
	perf := g.perfCollector
	if perf != nil {
		perf.BeginTick()
	}

	g.events = g.events[:0]
	g.reconciled = 0

	g.enterPhase(telemetry.PhaseRegrow)
	g.events = g.grid.Regrow(g.vegetation, g.events)

	for _, s := range []components.Species{components.SpeciesPrey, components.SpeciesPredator} {
		g.enterPhase(telemetry.PassPhase(s))
		g.stepSpecies(s)
		g.enterPhase(telemetry.PhaseReconcile)
		g.reconcile()
	}

	g.tick++
	for i := range g.events {
		g.events[i].Tick = g.tick
	}

	g.enterPhase(telemetry.PhaseObserve)
	for _, o := range g.observers {
		o.Observe(g.tick, g.events)
	}

	if perf != nil {
		perf.EndTick()
	}

	g.flushTelemetry()
}

func (g *Game) enterPhase(p telemetry.Phase) {
	if g.perfCollector != nil {
		g.perfCollector.Enter(p)
	}
}

// stepSpecies lets every registered animal of a species act once. The
// registry is not modified during the pass.
func (g *Game) stepSpecies(s components.Species) {
	if g.perfCollector != nil {
		g.perfCollector.Acted(s, len(g.registries[s]))
	}
	for _, e := range g.registries[s] {
		g.events = g.behavior.Step(e, g.events)
	}
}

// Events returns the events of the last tick. The slice is reused by the next Step.
func (g *Game) Events() []telemetry.Event {
	return g.events
}
