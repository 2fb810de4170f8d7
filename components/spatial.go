package components

import "fmt"

// CellID is the 1-based linear id of a grid cell: id = (y-1)*size + x.
type CellID int

// ShelterID indexes a shelter in the grid's shelter table.
type ShelterID int

// Coord is an immutable 1-based grid coordinate.
type Coord struct {
	X, Y int
}

// CoordFromIndex derives the coordinates of a 1-based cell id on a grid of the given width.
func CoordFromIndex(id CellID, width int) Coord {
	i := int(id)
	if i%width == 0 {
		return Coord{X: width, Y: i / width}
	}
	return Coord{X: i % width, Y: i/width + 1}
}

// Index returns the 1-based cell id of c on a grid of the given width.
func (c Coord) Index(width int) CellID {
	return CellID((c.Y-1)*width + c.X)
}

// String renders the coordinate for logs.
func (c Coord) String() string {
	return fmt.Sprintf("(x: %d, y: %d)", c.X, c.Y)
}

// Direction is one of the eight compass directions. +Y points to Bottom.
type Direction uint8

const (
	DirNone Direction = iota
	DirTop
	DirTopRight
	DirRight
	DirBottomRight
	DirBottom
	DirBottomLeft
	DirLeft
	DirTopLeft
)

var directionNames = [...]string{
	"none", "top", "top_right", "right", "bottom_right",
	"bottom", "bottom_left", "left", "top_left",
}

// String returns the direction name.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// Vertical reports the vertical component of the direction: -1 top, +1 bottom, 0 none.
func (d Direction) Vertical() int {
	switch d {
	case DirTop, DirTopRight, DirTopLeft:
		return -1
	case DirBottom, DirBottomRight, DirBottomLeft:
		return 1
	}
	return 0
}

// Position places an animal on the grid. While an animal is sheltered
// its position is the shelter's cell.
type Position struct {
	Cell CellID
}
