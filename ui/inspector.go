package ui

import (
	"fmt"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/game"
)

// Inspector shows the state of the hovered cell.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders cell (x, y) zero-based and returns the panel bottom.
func (ins *Inspector) Draw(x, y int, v game.CellView) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	lines := int32(2)
	if v.Kind == game.CellShelter {
		lines++
	}
	if v.HasAnimal {
		lines += 4
	}
	height := lines*r.Theme.LineHeight + padding*2 + 8
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	px := ins.x + padding
	py := r.DrawSectionHeader(px, ins.y+padding, fmt.Sprintf("Cell (%d, %d)", x+1, y+1))

	switch v.Kind {
	case game.CellGrass:
		py = r.DrawLevelBar(px, py, "Grass", v.Quantity, 4, ins.width-padding*2)
	case game.CellThick:
		py = r.DrawLevelBar(px, py, "Thick", v.Quantity, 10, ins.width-padding*2)
	case game.CellShelter:
		py = r.DrawLabelValue(px, py, "Shelter", speciesName(v.ShelterSpecies))
		py = r.DrawLevelBar(px, py, "Inside", v.ShelterLive, v.ShelterCapacity, ins.width-padding*2)
	default:
		py = r.DrawLabelValue(px, py, "Ground", "empty")
	}

	if v.HasAnimal {
		py = r.DrawSectionHeader(px, py+4, speciesName(v.Species))
		py = r.DrawLabelValue(px, py, "Sex", v.Sex.String())
		py = r.DrawLabelValue(px, py, "Age", v.Age.String())
		state := "alive"
		if !v.Alive {
			state = "dead"
		}
		py = r.DrawLabelValue(px, py, "State", state)
	}
	return py
}

func speciesName(s components.Species) string {
	if s == components.SpeciesPredator {
		return "Fox"
	}
	return "Rabbit"
}
