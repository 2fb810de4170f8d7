package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/telemetry"
)

// reproduce looks for an adjacent live opposite-sex adult partner. The
// first qualifying neighbor (top, right, bottom, left) wins. The child is
// placed on the female's first available neighbor and the female pays the
// reproduction cost. Reports whether a child was born.
func (s *BehaviorSystem) reproduce(e ecs.Entity, events []telemetry.Event) ([]telemetry.Event, bool) {
	a := s.animals.Get(e)
	pos := s.positions.Get(e)
	t := &s.tables[a.Species]

	if a.Age == components.AgeChild || a.Sheltered || a.SatietyRatio() < t.ReproductionThreshold {
		return events, false
	}

	for _, nb := range s.grid.Neighbors(pos.Cell) {
		mate, ok := s.grid.Occupant(nb)
		if !ok {
			continue
		}
		m := s.animals.Get(mate)
		if m.Species != a.Species || !m.Alive || m.Sex == a.Sex || m.Age == components.AgeChild {
			continue
		}
		if m.SatietyRatio() < t.MateSatietyFloor {
			continue
		}

		female, femaleCell := e, pos.Cell
		if a.Sex != components.SexFemale {
			female, femaleCell = mate, nb
		}
		nest, ok := s.firstAvailableNeighbor(femaleCell)
		if !ok {
			continue
		}

		child := s.spawnChild(a.Species, a.Shelter, a.HasShelter, nest)

		f := s.animals.Get(female)
		f.Satiety -= int(float64(f.MaxSatiety) / t.ReproductionCost)
		if f.Satiety < 0 {
			f.Satiety = 0
		}

		return append(events, telemetry.NewBornEvent(child, s.animals.Get(child), female, nest)), true
	}
	return events, false
}

// firstAvailableNeighbor returns the first neighbor of id an animal could step onto.
func (s *BehaviorSystem) firstAvailableNeighbor(id components.CellID) (components.CellID, bool) {
	for _, nb := range s.grid.Neighbors(id) {
		if s.grid.IsAvailable(nb) {
			return nb, true
		}
	}
	return 0, false
}

// spawnChild creates a child of random sex on cell, inheriting the parent's
// shelter reference. Component pointers taken before the call are invalid
// afterwards.
func (s *BehaviorSystem) spawnChild(species components.Species, shelter components.ShelterID, hasShelter bool, cell components.CellID) ecs.Entity {
	sex := components.SexFemale
	if s.rng.Intn(2) == 1 {
		sex = components.SexMale
	}
	animal := components.NewAnimal(species, sex, components.AgeChild, s.tables[species])
	animal.Shelter, animal.HasShelter = shelter, hasShelter
	position := components.Position{Cell: cell}

	child := s.spawner.NewEntity(&animal, &position)
	s.grid.SetOccupant(cell, child)
	return child
}

// SpawnSheltered creates an animal inside a shelter. It fails when the
// shelter is full or belongs to another species.
func (s *BehaviorSystem) SpawnSheltered(species components.Species, sex components.Sex, age components.Age, id components.ShelterID) (ecs.Entity, bool) {
	sh := s.grid.Shelter(id)
	if sh.Species != species || !sh.HasRoom() {
		return ecs.Entity{}, false
	}

	animal := components.NewAnimal(species, sex, age, s.tables[species])
	animal.Shelter, animal.HasShelter = id, true
	animal.Sheltered = true
	position := components.Position{Cell: sh.Cell}

	e := s.spawner.NewEntity(&animal, &position)
	sh.Enter(e)
	return e, true
}

// SpawnAt creates an animal on an available grid cell.
func (s *BehaviorSystem) SpawnAt(species components.Species, sex components.Sex, age components.Age, cell components.CellID) (ecs.Entity, bool) {
	if !s.grid.Valid(cell) || !s.grid.IsAvailable(cell) {
		return ecs.Entity{}, false
	}
	animal := components.NewAnimal(species, sex, age, s.tables[species])
	position := components.Position{Cell: cell}

	e := s.spawner.NewEntity(&animal, &position)
	s.grid.SetOccupant(cell, e)
	return e, true
}
