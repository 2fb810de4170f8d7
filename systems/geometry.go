package systems

import (
	"math"

	"github.com/pthm-cable/warren/components"
)

// InRange reports whether b lies within the circle of radius r around a.
func InRange(a, b components.Coord, r int) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx+dy*dy <= r*r
}

// Distance returns the Euclidean distance between a and b. Used for ranking only.
func Distance(a, b components.Coord) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// diagonalRatio is the minor/major axis ratio at which a direction turns diagonal.
const diagonalRatio = 0.5

// DirectionTo classifies the vector a->b into one of eight compass directions.
// A minor/major ratio of exactly 0.5 is diagonal. Returns DirNone for a == b.
func DirectionTo(a, b components.Coord) components.Direction {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return components.DirNone
	}

	ax, ay := abs(dx), abs(dy)
	var ratio float64
	if ax >= ay {
		ratio = float64(ay) / float64(ax)
		if ratio < diagonalRatio {
			if dx > 0 {
				return components.DirRight
			}
			return components.DirLeft
		}
	} else {
		ratio = float64(ax) / float64(ay)
		if ratio < diagonalRatio {
			if dy > 0 {
				return components.DirBottom
			}
			return components.DirTop
		}
	}

	switch {
	case dy < 0 && dx > 0:
		return components.DirTopRight
	case dy < 0:
		return components.DirTopLeft
	case dx > 0:
		return components.DirBottomRight
	default:
		return components.DirBottomLeft
	}
}

// Reflect returns point mirrored through pivot.
func Reflect(pivot, point components.Coord) components.Coord {
	return components.Coord{X: 2*pivot.X - point.X, Y: 2*pivot.Y - point.Y}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
