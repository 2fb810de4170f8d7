package game

import (
	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
)

// CellKind is what a cell holds besides its occupant.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellGrass
	CellThick
	CellShelter
)

// CellView is the read-only state of one cell.
type CellView struct {
	Kind     CellKind
	Quantity int

	HasAnimal bool
	Species   components.Species
	Age       components.Age
	Sex       components.Sex
	Alive     bool

	// Shelter cells only
	ShelterSpecies  components.Species
	ShelterLive     int
	ShelterCapacity int
}

// Snapshot is an immutable copy of the world after a tick. It shares no
// memory with the game and may be handed to another goroutine.
type Snapshot struct {
	Tick       int32
	Size       int
	Cells      []CellView
	Prey       int
	Predators  int
	Vegetation int
}

// At returns the cell at zero-based column x, row y.
func (s *Snapshot) At(x, y int) CellView {
	return s.Cells[y*s.Size+x]
}

// Snapshot copies the current world state.
func (g *Game) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:      g.tick,
		Size:      g.grid.Size(),
		Cells:     make([]CellView, g.grid.Len()),
		Prey:      g.AliveCount(components.SpeciesPrey),
		Predators: g.AliveCount(components.SpeciesPredator),
	}

	g.grid.EachCell(func(c *systems.Cell) {
		v := &snap.Cells[c.ID-1]
		switch {
		case c.HasShelter:
			sh := g.grid.Shelter(c.Shelter)
			v.Kind = CellShelter
			v.ShelterSpecies = sh.Species
			v.ShelterLive = sh.LiveCount(g.isAlive)
			v.ShelterCapacity = sh.Capacity
		case c.Vegetation.Tier == systems.TierThick:
			v.Kind = CellThick
			v.Quantity = c.Vegetation.Quantity
		case c.Vegetation.Tier == systems.TierLight:
			v.Kind = CellGrass
			v.Quantity = c.Vegetation.Quantity
		}
		snap.Vegetation += c.Vegetation.Quantity

		if c.HasOccupant {
			a := g.animals.Get(c.Occupant)
			v.HasAnimal = true
			v.Species = a.Species
			v.Age = a.Age
			v.Sex = a.Sex
			v.Alive = a.Alive
		}
	})
	return snap
}
