package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/telemetry"
)

// DefaultDecompositionDelay is the number of ticks a corpse stays on the grid.
const DefaultDecompositionDelay = 20

// BehaviorSystem runs the per-animal decision policy. Both species share
// the engine; they differ in their species table and in two steps
// (fleeing for prey, hunting instead of grazing for predators).
type BehaviorSystem struct {
	grid      *Grid
	animals   *ecs.Map[components.Animal]
	positions *ecs.Map[components.Position]
	spawner   *ecs.Map2[components.Animal, components.Position]
	tables    [components.NumSpecies]components.SpeciesTable
	rng       *rand.Rand

	decompositionDelay int
}

// NewBehaviorSystem creates a new behavior system.
func NewBehaviorSystem(w *ecs.World, grid *Grid, tables [components.NumSpecies]components.SpeciesTable, decompositionDelay int, rng *rand.Rand) *BehaviorSystem {
	return &BehaviorSystem{
		grid:               grid,
		animals:            ecs.NewMap[components.Animal](w),
		positions:          ecs.NewMap[components.Position](w),
		spawner:            ecs.NewMap2[components.Animal, components.Position](w),
		tables:             tables,
		rng:                rng,
		decompositionDelay: decompositionDelay,
	}
}

// Table returns the tuning table of a species.
func (s *BehaviorSystem) Table(sp components.Species) components.SpeciesTable {
	return s.tables[sp]
}

// Step advances one animal by one tick and appends the events it produced.
// Dead animals only progress their decomposition.
func (s *BehaviorSystem) Step(e ecs.Entity, events []telemetry.Event) []telemetry.Event {
	a := s.animals.Get(e)
	if !a.Alive {
		if a.Eaten {
			return events
		}
		return s.decompose(e, events)
	}

	start := s.positions.Get(e).Cell
	switch a.Species {
	case components.SpeciesPrey:
		events = s.stepPrey(e, events)
	case components.SpeciesPredator:
		events = s.stepPredator(e, events)
	}

	// Offspring creation may have moved component storage
	a = s.animals.Get(e)
	pos := s.positions.Get(e)
	if pos.Cell != start {
		events = append(events, telemetry.NewMovedEvent(e, a, start, pos.Cell))
	}

	if Decay(a) {
		return append(events, telemetry.NewStarvedEvent(e, a, pos.Cell))
	}
	if Grow(a) {
		events = append(events, telemetry.NewDiedOfAgeEvent(e, a, pos.Cell))
	}
	return events
}

// stepPrey: flee, leave shelter, reproduce, herd when full, graze or forage.
func (s *BehaviorSystem) stepPrey(e ecs.Entity, events []telemetry.Event) []telemetry.Event {
	a := s.animals.Get(e)
	pos := s.positions.Get(e)

	a.Fleeing = s.predatorVisible(pos.Cell, a.VisionRange)
	if a.Fleeing {
		s.flee(e, a, pos)
		return events
	}
	if a.Sheltered {
		s.leaveCell(e, a, pos)
		return events
	}

	events, born := s.reproduce(e, events)
	if born {
		return events
	}

	t := &s.tables[a.Species]
	if a.SatietyRatio() >= t.HerdRatio {
		s.herd(e, a, pos)
		return events
	}
	if s.graze(a, pos) {
		return events
	}
	s.forage(e, a, pos)
	return events
}

// stepPredator: leave shelter, reproduce, herd when well fed, hunt or chase.
func (s *BehaviorSystem) stepPredator(e ecs.Entity, events []telemetry.Event) []telemetry.Event {
	a := s.animals.Get(e)
	pos := s.positions.Get(e)

	if a.Sheltered {
		s.leaveCell(e, a, pos)
		return events
	}

	events, born := s.reproduce(e, events)
	if born {
		return events
	}

	t := &s.tables[a.Species]
	if a.SatietyRatio() > t.HerdRatio {
		s.herd(e, a, pos)
		return events
	}

	events, ate := s.hunt(e, a, pos, events)
	if ate {
		return events
	}
	return s.chase(e, a, pos, events)
}

// predatorVisible reports whether a live predator stands within r of cell.
func (s *BehaviorSystem) predatorVisible(cell components.CellID, r int) bool {
	return s.grid.AnyInVision(cell, r, func(c *Cell) bool {
		if !c.HasOccupant {
			return false
		}
		o := s.animals.Get(c.Occupant)
		return o.Species == components.SpeciesPredator && o.Alive
	})
}

// herd moves toward the nearest visible live non-child conspecific
// standing on an open cell.
func (s *BehaviorSystem) herd(e ecs.Entity, a *components.Animal, pos *components.Position) {
	species := a.Species
	target, ok := s.grid.NearestInVision(pos.Cell, a.VisionRange, func(c *Cell) bool {
		if !c.HasOccupant || c.HasShelter {
			return false
		}
		o := s.animals.Get(c.Occupant)
		return o.Species == species && o.Alive && o.Age != components.AgeChild
	})
	s.moveToward(e, a, pos, target, ok)
}

// wantsCompany reports whether an animal with no visible food should herd.
func (s *BehaviorSystem) wantsCompany(a *components.Animal) bool {
	return a.Age != components.AgeChild && a.SatietyRatio() > s.tables[a.Species].WanderRatio
}

// decompose advances the corpse counter and detaches the corpse once the
// delay has passed.
func (s *BehaviorSystem) decompose(e ecs.Entity, events []telemetry.Event) []telemetry.Event {
	a := s.animals.Get(e)
	if a.StepsAfterDeath < s.decompositionDelay {
		a.StepsAfterDeath++
		return events
	}

	pos := s.positions.Get(e)
	if c := s.grid.Cell(pos.Cell); a.Sheltered && c.HasShelter {
		s.grid.Shelter(c.Shelter).Leave(e)
		a.Sheltered = false
	} else if occ, ok := s.grid.Occupant(pos.Cell); ok && occ == e {
		s.grid.ClearOccupant(pos.Cell)
	}
	return append(events, telemetry.NewDecomposedEvent(e, a, pos.Cell))
}
