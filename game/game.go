// Package game owns the simulated world and advances it one tick at a time.
package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
)

// Game holds the complete simulation state. All mutation happens inside
// Step; between calls the state is stable and may be read.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	// Component mappers for lookups
	animals      *ecs.Map[components.Animal]
	positions    *ecs.Map[components.Position]
	animalFilter *ecs.Filter2[components.Animal, components.Position]

	grid     *systems.Grid
	behavior *systems.BehaviorSystem

	// Population registries. Iteration order decides who acts first.
	registries [components.NumSpecies][]ecs.Entity

	vegetation systems.VegetationParams

	// Per-tick buffers, reused across ticks
	events     []telemetry.Event
	reconciled int // events already applied to the registries
	removed    map[ecs.Entity]bool

	observers     []telemetry.Observer
	perfCollector *telemetry.PerfCollector
	telemetry     *telemetryState

	tick int32
}

// New validates cfg and builds a world from it.
func New(cfg *config.Config, rng *rand.Rand) (*Game, error) {
	return NewFromLayout(LayoutFromConfig(cfg), rng)
}

// AddObserver registers an observer for tick events.
func (g *Game) AddObserver(o telemetry.Observer) {
	g.observers = append(g.observers, o)
}

// SetPerfCollector enables per-phase timing.
func (g *Game) SetPerfCollector(p *telemetry.PerfCollector) {
	g.perfCollector = p
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Grid returns the world grid. Callers must not mutate it.
func (g *Game) Grid() *systems.Grid {
	return g.grid
}

// Animal returns the state of an animal. The pointer is valid until the next Step.
func (g *Game) Animal(e ecs.Entity) *components.Animal {
	return g.animals.Get(e)
}

// Position returns the cell of an animal.
func (g *Game) Position(e ecs.Entity) components.CellID {
	return g.positions.Get(e).Cell
}

// Population returns the registry of a species in acting order.
func (g *Game) Population(s components.Species) []ecs.Entity {
	return g.registries[s]
}

// AliveCount returns the number of live animals of a species.
func (g *Game) AliveCount(s components.Species) int {
	n := 0
	for _, e := range g.registries[s] {
		if g.animals.Get(e).Alive {
			n++
		}
	}
	return n
}

// HasAliveAnimals reports whether any animal of either species is alive.
func (g *Game) HasAliveAnimals() bool {
	for s := range g.registries {
		for _, e := range g.registries[s] {
			if g.animals.Get(e).Alive {
				return true
			}
		}
	}
	return false
}

// VegetationTotal returns the summed vegetation quantity over the grid.
func (g *Game) VegetationTotal() int {
	return g.grid.VegetationTotal()
}

// ShelterLiveCount returns the number of live members of a shelter.
func (g *Game) ShelterLiveCount(id components.ShelterID) int {
	return g.grid.Shelter(id).LiveCount(g.isAlive)
}

func (g *Game) isAlive(e ecs.Entity) bool {
	return g.world.Alive(e) && g.animals.Get(e).Alive
}

// Sample collects the population state for a telemetry window.
func (g *Game) Sample() telemetry.PopulationSample {
	var sample telemetry.PopulationSample

	query := g.animalFilter.Query()
	for query.Next() {
		a, _ := query.Get()
		if !a.Alive {
			continue
		}
		switch a.Species {
		case components.SpeciesPrey:
			sample.PreyCount++
			sample.PreySatiety = append(sample.PreySatiety, a.SatietyRatio())
		case components.SpeciesPredator:
			sample.PredCount++
			sample.PredSatiety = append(sample.PredSatiety, a.SatietyRatio())
		}
	}
	sample.VegetationTotal = g.grid.VegetationTotal()
	return sample
}
