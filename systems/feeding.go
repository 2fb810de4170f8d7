package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/telemetry"
)

// graze eats one unit of vegetation on the current cell for +1 satiety.
func (s *BehaviorSystem) graze(a *components.Animal, pos *components.Position) bool {
	if a.Satiety >= a.MaxSatiety {
		return false
	}
	if !s.grid.Cell(pos.Cell).Vegetation.Eat() {
		return false
	}
	a.Satiety++
	return true
}

// forage heads for the nearest visible open cell with something to eat.
// With nothing in sight a well-fed adult herds instead.
func (s *BehaviorSystem) forage(e ecs.Entity, a *components.Animal, pos *components.Position) {
	target, ok := s.grid.NearestInVision(pos.Cell, a.VisionRange, func(c *Cell) bool {
		return !c.HasShelter && !c.HasOccupant && c.Vegetation.Edible()
	})
	if !ok && s.wantsCompany(a) {
		s.herd(e, a, pos)
		return
	}
	s.moveToward(e, a, pos, target, ok)
}

// hunt eats the first live prey found on an adjacent cell. The prey leaves
// the grid at once and is flagged for removal from its registry.
func (s *BehaviorSystem) hunt(e ecs.Entity, a *components.Animal, pos *components.Position, events []telemetry.Event) ([]telemetry.Event, bool) {
	if a.Satiety >= a.MaxSatiety {
		return events, false
	}
	t := &s.tables[a.Species]

	for _, nb := range s.grid.Neighbors(pos.Cell) {
		victim, ok := s.grid.Occupant(nb)
		if !ok {
			continue
		}
		v := s.animals.Get(victim)
		if v.Species != components.SpeciesPrey || !v.Alive {
			continue
		}

		s.grid.ClearOccupant(nb)
		v.Alive = false
		v.Eaten = true

		a.Satiety += t.PreyGain[v.Age]
		if a.Satiety > a.MaxSatiety {
			a.Satiety = a.MaxSatiety
		}
		return append(events, telemetry.NewEatenEvent(victim, v, e, nb)), true
	}
	return events, false
}

// chase moves toward the nearest visible live prey on an open cell and
// tries to hunt again after the step. With no prey in sight a well-fed
// adult herds instead.
func (s *BehaviorSystem) chase(e ecs.Entity, a *components.Animal, pos *components.Position, events []telemetry.Event) []telemetry.Event {
	target, ok := s.grid.NearestInVision(pos.Cell, a.VisionRange, func(c *Cell) bool {
		if !c.HasOccupant || c.HasShelter {
			return false
		}
		o := s.animals.Get(c.Occupant)
		return o.Species == components.SpeciesPrey && o.Alive
	})
	if !ok && s.wantsCompany(a) {
		s.herd(e, a, pos)
		return events
	}

	s.moveToward(e, a, pos, target, ok)
	events, _ = s.hunt(e, a, pos, events)
	return events
}
