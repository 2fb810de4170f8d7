package systems

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/pthm-cable/warren/components"
)

type placer func(rng *rand.Rand, size, count int, exclude map[components.CellID]bool) ([]components.CellID, error)

func placers() map[string]placer {
	return map[string]placer{
		"uniform": UniformCells,
		"clustered": func(rng *rand.Rand, size, count int, exclude map[components.CellID]bool) ([]components.CellID, error) {
			return ClusteredCells(rng, size, count, exclude, 3)
		},
	}
}

func TestPlacementDeterministic(t *testing.T) {
	for name, place := range placers() {
		t.Run(name, func(t *testing.T) {
			a, err := place(rand.New(rand.NewSource(42)), 10, 30, nil)
			if err != nil {
				t.Fatal(err)
			}
			b, _ := place(rand.New(rand.NewSource(42)), 10, 30, nil)
			if !slices.Equal(a, b) {
				t.Errorf("same seed gave %v and %v", a, b)
			}
		})
	}
}

func TestPlacementRespectsExclusion(t *testing.T) {
	exclude := map[components.CellID]bool{1: true, 5: true, 13: true, 25: true}
	for name, place := range placers() {
		t.Run(name, func(t *testing.T) {
			got, err := place(rand.New(rand.NewSource(7)), 5, 21, exclude)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 21 {
				t.Fatalf("picked %d cells, want 21", len(got))
			}
			if !slices.IsSorted(got) {
				t.Errorf("result not sorted: %v", got)
			}
			if len(slices.Compact(slices.Clone(got))) != len(got) {
				t.Errorf("duplicate cells in %v", got)
			}
			for _, id := range got {
				if exclude[id] {
					t.Errorf("excluded cell %d picked", id)
				}
				if id < 1 || int(id) > 25 {
					t.Errorf("cell %d outside the grid", id)
				}
			}
		})
	}
}

func TestPlacementTooMany(t *testing.T) {
	exclude := map[components.CellID]bool{3: true}
	for name, place := range placers() {
		t.Run(name, func(t *testing.T) {
			if _, err := place(rand.New(rand.NewSource(1)), 5, 25, exclude); !errors.Is(err, ErrConfiguration) {
				t.Errorf("error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestClusteredCellsFormPatches(t *testing.T) {
	const size = 20
	got, err := ClusteredCells(rand.New(rand.NewSource(3)), size, 60, nil, 6)
	if err != nil {
		t.Fatal(err)
	}
	picked := make(map[components.CellID]bool, len(got))
	for _, id := range got {
		picked[id] = true
	}

	// Smooth noise puts most picks next to another pick
	g := mustGrid(t, size)
	touching := 0
	for _, id := range got {
		for _, nb := range g.Neighbors(id) {
			if picked[nb] {
				touching++
				break
			}
		}
	}
	if touching*2 < len(got) {
		t.Errorf("only %d of %d clustered cells touch another", touching, len(got))
	}
}
