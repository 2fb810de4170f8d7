package systems

import "github.com/pthm-cable/warren/components"

// CellsInVisionRange appends to dst every cell within radius r of origin.
// The scan walks left and right from origin, then vertically from origin,
// then vertically from each horizontally reached cell. Each walk stops at
// the first cell outside the disk, so no cell is visited twice. Origin is
// not included.
func (g *Grid) CellsInVisionRange(origin components.CellID, r int, dst []components.CellID) []components.CellID {
	src := g.cells[origin-1].Coord

	start := len(dst)
	dst = g.walk(dst, origin, SideLeft, src, r)
	dst = g.walk(dst, origin, SideRight, src, r)
	end := len(dst)

	dst = g.walk(dst, origin, SideTop, src, r)
	dst = g.walk(dst, origin, SideBottom, src, r)
	for i := start; i < end; i++ {
		dst = g.walk(dst, dst[i], SideTop, src, r)
		dst = g.walk(dst, dst[i], SideBottom, src, r)
	}
	return dst
}

// walk follows links on one side from id while cells stay within r of src.
func (g *Grid) walk(dst []components.CellID, id components.CellID, s Side, src components.Coord, r int) []components.CellID {
	for {
		next, ok := g.cells[id-1].Neighbor(s)
		if !ok || !InRange(g.cells[next-1].Coord, src, r) {
			return dst
		}
		dst = append(dst, next)
		id = next
	}
}

// NearestInVision returns the closest visible cell matching fn. Ties go to
// the cell reached first by the scan.
func (g *Grid) NearestInVision(origin components.CellID, r int, fn func(c *Cell) bool) (components.CellID, bool) {
	var buf [64]components.CellID
	src := g.cells[origin-1].Coord

	var (
		best     components.CellID
		bestDist float64
		found    bool
	)
	for _, id := range g.CellsInVisionRange(origin, r, buf[:0]) {
		c := &g.cells[id-1]
		if !fn(c) {
			continue
		}
		d := Distance(src, c.Coord)
		if !found || d < bestDist {
			best, bestDist, found = id, d, true
		}
	}
	return best, found
}

// AnyInVision reports whether any visible cell matches fn.
func (g *Grid) AnyInVision(origin components.CellID, r int, fn func(c *Cell) bool) bool {
	var buf [64]components.CellID
	for _, id := range g.CellsInVisionRange(origin, r, buf[:0]) {
		if fn(&g.cells[id-1]) {
			return true
		}
	}
	return false
}
