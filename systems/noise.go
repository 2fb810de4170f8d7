package systems

import (
	"fmt"
	"math/rand"
	"slices"
	"sort"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/warren/components"
)

// UniformCells picks count distinct cell ids from 1..size*size, skipping
// excluded ids. The result is sorted ascending.
func UniformCells(rng *rand.Rand, size, count int, exclude map[components.CellID]bool) ([]components.CellID, error) {
	candidates := candidateCells(size, exclude)
	if count > len(candidates) {
		return nil, fmt.Errorf("%w: %d cells requested, %d free", ErrConfiguration, count, len(candidates))
	}

	// Partial Fisher-Yates: the first count slots are the sample
	for i := 0; i < count; i++ {
		j := i + rng.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	picked := candidates[:count]
	slices.Sort(picked)
	return picked, nil
}

// ClusteredCells picks count distinct cell ids where a simplex noise field
// seeded from rng is highest, so vegetation forms patches. scale is the
// feature size in cells. The result is sorted ascending.
func ClusteredCells(rng *rand.Rand, size, count int, exclude map[components.CellID]bool, scale float64) ([]components.CellID, error) {
	candidates := candidateCells(size, exclude)
	if count > len(candidates) {
		return nil, fmt.Errorf("%w: %d cells requested, %d free", ErrConfiguration, count, len(candidates))
	}
	if scale <= 0 {
		scale = 1
	}

	noise := opensimplex.NewNormalized(rng.Int63())
	score := make(map[components.CellID]float64, len(candidates))
	for _, id := range candidates {
		c := components.CoordFromIndex(id, size)
		score[id] = noise.Eval2(float64(c.X)/scale, float64(c.Y)/scale)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return score[candidates[i]] > score[candidates[j]]
	})
	picked := candidates[:count]
	slices.Sort(picked)
	return picked, nil
}

func candidateCells(size int, exclude map[components.CellID]bool) []components.CellID {
	out := make([]components.CellID, 0, size*size)
	for id := components.CellID(1); int(id) <= size*size; id++ {
		if !exclude[id] {
			out = append(out, id)
		}
	}
	return out
}
