package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// MinGridSize is the smallest supported grid side length.
const MinGridSize = 5

// Side indexes the four neighbor links of a cell.
type Side uint8

// Neighbor order is significant: it is the order used by every
// first-match search (leaving a cell, mate search, adjacent hunting).
const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
	numSides
)

// Cell is one grid node. Shelter and occupant are optional and carry
// explicit presence flags.
type Cell struct {
	ID    components.CellID
	Coord components.Coord

	Vegetation Vegetation

	Shelter    components.ShelterID
	HasShelter bool

	Occupant    ecs.Entity
	HasOccupant bool

	neighbors   [numSides]components.CellID
	hasNeighbor [numSides]bool
}

// Neighbor returns the linked cell on the given side, if any.
func (c *Cell) Neighbor(s Side) (components.CellID, bool) {
	return c.neighbors[s], c.hasNeighbor[s]
}

// Grid is a bounded square mesh of cells with four-way neighbor links.
// Cell ids are 1-based and cells[id-1] holds cell id.
type Grid struct {
	size     int
	cells    []Cell
	shelters []Shelter
}

// NewGrid builds an n*n grid of empty cells.
func NewGrid(n int) (*Grid, error) {
	if n < MinGridSize {
		return nil, fmt.Errorf("%w: grid size %d below %d", ErrConfiguration, n, MinGridSize)
	}

	g := &Grid{
		size:  n,
		cells: make([]Cell, n*n),
	}
	for i := range g.cells {
		id := components.CellID(i + 1)
		g.cells[i] = Cell{ID: id, Coord: components.CoordFromIndex(id, n)}
	}

	// Wire each cell to its right and bottom neighbor, symmetric links both ways
	for i := range g.cells {
		c := &g.cells[i]
		if c.Coord.X < n {
			g.link(c, &g.cells[i+1], SideRight, SideLeft)
		}
		if c.Coord.Y < n {
			g.link(c, &g.cells[i+n], SideBottom, SideTop)
		}
	}

	return g, nil
}

func (g *Grid) link(a, b *Cell, ab, ba Side) {
	a.neighbors[ab], a.hasNeighbor[ab] = b.ID, true
	b.neighbors[ba], b.hasNeighbor[ba] = a.ID, true
}

// Size returns the side length.
func (g *Grid) Size() int { return g.size }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Valid reports whether id names a cell of this grid.
func (g *Grid) Valid(id components.CellID) bool {
	return id >= 1 && int(id) <= len(g.cells)
}

// Contains reports whether c lies inside the grid.
func (g *Grid) Contains(c components.Coord) bool {
	return c.X >= 1 && c.Y >= 1 && c.X <= g.size && c.Y <= g.size
}

// Cell returns the cell with the given id. The id must be valid.
func (g *Grid) Cell(id components.CellID) *Cell {
	return &g.cells[id-1]
}

// CellAt returns the cell at c, if c is inside the grid.
func (g *Grid) CellAt(c components.Coord) (*Cell, bool) {
	if !g.Contains(c) {
		return nil, false
	}
	return g.Cell(c.Index(g.size)), true
}

// Coord returns the coordinates of a cell.
func (g *Grid) Coord(id components.CellID) components.Coord {
	return g.cells[id-1].Coord
}

// Neighbors returns the present neighbors of id in top, right, bottom, left order.
func (g *Grid) Neighbors(id components.CellID) []components.CellID {
	c := &g.cells[id-1]
	out := make([]components.CellID, 0, numSides)
	for s := SideTop; s < numSides; s++ {
		if c.hasNeighbor[s] {
			out = append(out, c.neighbors[s])
		}
	}
	return out
}

// Adjacent reports whether a and b share an edge.
func (g *Grid) Adjacent(a, b components.CellID) bool {
	c := &g.cells[a-1]
	for s := SideTop; s < numSides; s++ {
		if c.hasNeighbor[s] && c.neighbors[s] == b {
			return true
		}
	}
	return false
}

// PlaceVegetation puts v on an empty cell.
func (g *Grid) PlaceVegetation(id components.CellID, v Vegetation) error {
	if !g.Valid(id) {
		return fmt.Errorf("%w: vegetation cell %d outside grid", ErrConfiguration, id)
	}
	c := &g.cells[id-1]
	if c.Vegetation.Present() || c.HasShelter {
		return fmt.Errorf("placing vegetation on cell %d: %w", id, ErrCellOccupied)
	}
	c.Vegetation = v
	return nil
}

// PlaceShelter binds s to cell id and returns its shelter id.
func (g *Grid) PlaceShelter(id components.CellID, s Shelter) (components.ShelterID, error) {
	if s.Cell != id {
		return 0, fmt.Errorf("shelter for cell %d placed on cell %d: %w", s.Cell, id, ErrShelterBinding)
	}
	if !g.Valid(id) {
		return 0, fmt.Errorf("%w: shelter cell %d outside grid", ErrConfiguration, id)
	}
	c := &g.cells[id-1]
	if c.Vegetation.Present() || c.HasShelter || c.HasOccupant {
		return 0, fmt.Errorf("placing shelter on cell %d: %w", id, ErrCellOccupied)
	}

	sid := components.ShelterID(len(g.shelters))
	s.ID = sid
	s.Coord = c.Coord
	g.shelters = append(g.shelters, s)
	c.Shelter, c.HasShelter = sid, true
	return sid, nil
}

// Shelter returns the shelter with the given id.
func (g *Grid) Shelter(id components.ShelterID) *Shelter {
	return &g.shelters[id]
}

// Shelters returns all shelters in placement order.
func (g *Grid) Shelters() []Shelter {
	return g.shelters
}

// Occupant returns the animal standing on id, if any.
func (g *Grid) Occupant(id components.CellID) (ecs.Entity, bool) {
	c := &g.cells[id-1]
	return c.Occupant, c.HasOccupant
}

// SetOccupant puts e on id.
func (g *Grid) SetOccupant(id components.CellID, e ecs.Entity) {
	c := &g.cells[id-1]
	c.Occupant, c.HasOccupant = e, true
}

// ClearOccupant empties the animal slot of id.
func (g *Grid) ClearOccupant(id components.CellID) {
	c := &g.cells[id-1]
	c.Occupant, c.HasOccupant = ecs.Entity{}, false
}

// IsAvailable reports whether an animal may step onto id.
// Vegetation does not block availability.
func (g *Grid) IsAvailable(id components.CellID) bool {
	c := &g.cells[id-1]
	return !c.HasShelter && !c.HasOccupant
}

// IsAvailableForSpread reports whether grass may spread onto id.
// Animals do not block spread.
func (g *Grid) IsAvailableForSpread(id components.CellID) bool {
	c := &g.cells[id-1]
	return !c.HasShelter && !c.Vegetation.Present()
}

// EachCell calls fn for every cell in id order.
func (g *Grid) EachCell(fn func(c *Cell)) {
	for i := range g.cells {
		fn(&g.cells[i])
	}
}
