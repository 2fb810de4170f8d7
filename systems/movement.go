package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// moveTo relocates e onto an available cell. Leaving a shelter drops the
// membership; leaving a grid cell clears its occupant.
func (s *BehaviorSystem) moveTo(e ecs.Entity, a *components.Animal, pos *components.Position, dst components.CellID) bool {
	if !s.grid.IsAvailable(dst) {
		return false
	}

	if c := s.grid.Cell(pos.Cell); a.Sheltered && c.HasShelter {
		s.grid.Shelter(c.Shelter).Leave(e)
		a.Sheltered = false
	} else {
		s.grid.ClearOccupant(pos.Cell)
	}

	s.grid.SetOccupant(dst, e)
	pos.Cell = dst
	return true
}

// moveSide tries to step onto the neighbor on one side.
func (s *BehaviorSystem) moveSide(e ecs.Entity, a *components.Animal, pos *components.Position, side Side) bool {
	next, ok := s.grid.Cell(pos.Cell).Neighbor(side)
	return ok && s.moveTo(e, a, pos, next)
}

// stepToward takes one step toward target. The axis with the larger
// displacement goes first; a horizontal step falls back to top then
// bottom, a vertical step to left then right. Targets left of or above the
// grid are unreachable; targets past the right or bottom edge still steer.
func (s *BehaviorSystem) stepToward(e ecs.Entity, a *components.Animal, pos *components.Position, target components.Coord) bool {
	if target.X < 1 || target.Y < 1 {
		return false
	}
	from := s.grid.Coord(pos.Cell)
	dx := target.X - from.X
	dy := target.Y - from.Y

	if abs(dx) > abs(dy) {
		primary := SideLeft
		if dx > 0 {
			primary = SideRight
		}
		return s.moveSide(e, a, pos, primary) ||
			s.moveSide(e, a, pos, SideTop) ||
			s.moveSide(e, a, pos, SideBottom)
	}

	primary := SideTop
	if dy > 0 {
		primary = SideBottom
	}
	return s.moveSide(e, a, pos, primary) ||
		s.moveSide(e, a, pos, SideLeft) ||
		s.moveSide(e, a, pos, SideRight)
}

// moveInDirection continues the heading. Diagonal headings only keep
// their vertical component.
func (s *BehaviorSystem) moveInDirection(e ecs.Entity, a *components.Animal, pos *components.Position, d components.Direction) bool {
	var side Side
	switch {
	case d.Vertical() < 0:
		side = SideTop
	case d.Vertical() > 0:
		side = SideBottom
	case d == components.DirRight:
		side = SideRight
	case d == components.DirLeft:
		side = SideLeft
	default:
		return false
	}
	next, ok := s.grid.Cell(pos.Cell).Neighbor(side)
	if !ok {
		return false
	}
	return s.stepToward(e, a, pos, s.grid.Coord(next))
}

// moveToward is the generic movement fallback chain: step toward the target
// if there is one, keep the current heading, move away from the home
// shelter, move toward the home shelter, or leave the cell.
func (s *BehaviorSystem) moveToward(e ecs.Entity, a *components.Animal, pos *components.Position, target components.CellID, hasTarget bool) {
	if hasTarget && s.stepToward(e, a, pos, s.grid.Coord(target)) {
		a.Heading = components.DirNone
		return
	}

	if a.Heading != components.DirNone {
		if s.moveInDirection(e, a, pos, a.Heading) {
			return
		}
		a.Heading = components.DirNone
	}

	if s.moveAwayFromShelter(e, a, pos) || s.moveTowardShelter(e, a, pos) {
		return
	}
	s.leaveCell(e, a, pos)
}

// moveAwayFromShelter steps toward the home shelter mirrored through the
// current cell and adopts the direction actually taken as heading.
func (s *BehaviorSystem) moveAwayFromShelter(e ecs.Entity, a *components.Animal, pos *components.Position) bool {
	if !a.HasShelter {
		return false
	}
	from := s.grid.Coord(pos.Cell)
	away := Reflect(from, s.grid.Shelter(a.Shelter).Coord)
	if !s.stepToward(e, a, pos, away) {
		return false
	}
	a.Heading = DirectionTo(from, s.grid.Coord(pos.Cell))
	return true
}

// moveTowardShelter steps toward the home shelter and heads for it.
func (s *BehaviorSystem) moveTowardShelter(e ecs.Entity, a *components.Animal, pos *components.Position) bool {
	if !a.HasShelter {
		return false
	}
	from := s.grid.Coord(pos.Cell)
	home := s.grid.Shelter(a.Shelter).Coord
	if !s.stepToward(e, a, pos, home) {
		return false
	}
	a.Heading = DirectionTo(from, home)
	return true
}

// leaveCell moves onto the first available neighbor in top, right, bottom,
// left order. This is also the only way out of a shelter.
func (s *BehaviorSystem) leaveCell(e ecs.Entity, a *components.Animal, pos *components.Position) bool {
	for side := SideTop; side < numSides; side++ {
		if s.moveSide(e, a, pos, side) {
			return true
		}
	}
	return false
}

// flee runs one step toward the home shelter. An animal next to its shelter
// enters when there is room; a full shelter redirects it to the shelter's
// nearest alternative. Sheltered animals stay put.
func (s *BehaviorSystem) flee(e ecs.Entity, a *components.Animal, pos *components.Position) {
	if a.Sheltered || !a.HasShelter {
		return
	}
	sh := s.grid.Shelter(a.Shelter)
	if !s.grid.Adjacent(pos.Cell, sh.Cell) {
		s.stepToward(e, a, pos, sh.Coord)
		return
	}

	if !sh.Enter(e) {
		if next, ok := sh.Fallback(); ok {
			a.Shelter = next
		}
		return
	}
	s.grid.ClearOccupant(pos.Cell)
	pos.Cell = sh.Cell
	a.Sheltered = true
	a.Fleeing = false
	a.Heading = components.DirNone
}
