package systems

import (
	"testing"

	"github.com/pthm-cable/warren/components"
)

func TestInRange(t *testing.T) {
	origin := components.Coord{X: 5, Y: 5}
	tests := []struct {
		name string
		b    components.Coord
		r    int
		want bool
	}{
		{"same cell", origin, 0, true},
		{"on the radius", components.Coord{X: 8, Y: 5}, 3, true},
		{"diagonal inside", components.Coord{X: 7, Y: 7}, 3, true},    // 8 <= 9
		{"diagonal outside", components.Coord{X: 8, Y: 7}, 3, false},  // 13 > 9
		{"chebyshev would accept", components.Coord{X: 8, Y: 8}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InRange(origin, tt.b, tt.r); got != tt.want {
				t.Errorf("InRange(%v, %v, %d) = %v, want %v", origin, tt.b, tt.r, got, tt.want)
			}
		})
	}
}

func TestDirectionTo(t *testing.T) {
	o := components.Coord{X: 5, Y: 5}
	tests := []struct {
		name string
		b    components.Coord
		want components.Direction
	}{
		{"same", o, components.DirNone},
		{"right", components.Coord{X: 9, Y: 5}, components.DirRight},
		{"left", components.Coord{X: 1, Y: 5}, components.DirLeft},
		{"top", components.Coord{X: 5, Y: 1}, components.DirTop},
		{"bottom", components.Coord{X: 5, Y: 9}, components.DirBottom},
		{"mostly right", components.Coord{X: 9, Y: 6}, components.DirRight},
		{"ratio exactly half is diagonal", components.Coord{X: 9, Y: 7}, components.DirBottomRight},
		{"top right", components.Coord{X: 7, Y: 3}, components.DirTopRight},
		{"top left", components.Coord{X: 3, Y: 3}, components.DirTopLeft},
		{"bottom left", components.Coord{X: 4, Y: 7}, components.DirBottomLeft},
		{"vertical major tie", components.Coord{X: 3, Y: 1}, components.DirTopLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirectionTo(o, tt.b); got != tt.want {
				t.Errorf("DirectionTo(%v, %v) = %v, want %v", o, tt.b, got, tt.want)
			}
		})
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		pivot, point, want components.Coord
	}{
		{components.Coord{X: 3, Y: 3}, components.Coord{X: 2, Y: 2}, components.Coord{X: 4, Y: 4}},
		{components.Coord{X: 1, Y: 1}, components.Coord{X: 3, Y: 1}, components.Coord{X: -1, Y: 1}},
		{components.Coord{X: 4, Y: 4}, components.Coord{X: 4, Y: 4}, components.Coord{X: 4, Y: 4}},
	}
	for _, tt := range tests {
		if got := Reflect(tt.pivot, tt.point); got != tt.want {
			t.Errorf("Reflect(%v, %v) = %v, want %v", tt.pivot, tt.point, got, tt.want)
		}
	}
}

func TestDistanceRanksLikeInRange(t *testing.T) {
	a := components.Coord{X: 1, Y: 1}
	near := components.Coord{X: 3, Y: 2}
	far := components.Coord{X: 4, Y: 1}
	if Distance(a, near) >= Distance(a, far) {
		t.Errorf("Distance ranks %v after %v", near, far)
	}
}
