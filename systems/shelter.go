package systems

import (
	"slices"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// Shelter is a capacity-bounded refuge for one species, bound to one cell.
// Members are off the grid while sheltered; corpses keep their slot until
// they decompose.
type Shelter struct {
	ID       components.ShelterID
	Cell     components.CellID
	Coord    components.Coord
	Species  components.Species
	Capacity int
	Range    int

	// Same-species shelters within Range, nearest first
	Nearest []components.ShelterID
	Members []ecs.Entity
}

// NewShelter returns an unplaced shelter for cell.
func NewShelter(cell components.CellID, species components.Species, capacity, rng int) Shelter {
	return Shelter{
		Cell:     cell,
		Species:  species,
		Capacity: capacity,
		Range:    rng,
	}
}

// HasRoom reports whether another animal may enter.
func (s *Shelter) HasRoom() bool {
	return len(s.Members) < s.Capacity
}

// Enter adds e to the member set if there is room.
func (s *Shelter) Enter(e ecs.Entity) bool {
	if !s.HasRoom() {
		return false
	}
	s.Members = append(s.Members, e)
	return true
}

// Leave removes e from the member set.
func (s *Shelter) Leave(e ecs.Entity) bool {
	i := slices.Index(s.Members, e)
	if i < 0 {
		return false
	}
	s.Members = slices.Delete(s.Members, i, i+1)
	return true
}

// Fallback returns the head of the nearest-list.
func (s *Shelter) Fallback() (components.ShelterID, bool) {
	if len(s.Nearest) == 0 {
		return 0, false
	}
	return s.Nearest[0], true
}

// LiveCount counts members for which alive returns true.
func (s *Shelter) LiveCount(alive func(e ecs.Entity) bool) int {
	n := 0
	for _, e := range s.Members {
		if alive(e) {
			n++
		}
	}
	return n
}

// LinkNearest fills every shelter's nearest-list with the other same-species
// shelters inside its range, sorted by distance. Ties keep placement order.
func (g *Grid) LinkNearest() {
	for i := range g.shelters {
		s := &g.shelters[i]
		s.Nearest = s.Nearest[:0]
		for j := range g.shelters {
			o := &g.shelters[j]
			if i == j || o.Species != s.Species || !InRange(s.Coord, o.Coord, s.Range) {
				continue
			}
			s.Nearest = append(s.Nearest, o.ID)
		}
		sort.SliceStable(s.Nearest, func(a, b int) bool {
			return Distance(s.Coord, g.shelters[s.Nearest[a]].Coord) < Distance(s.Coord, g.shelters[s.Nearest[b]].Coord)
		})
	}
}
