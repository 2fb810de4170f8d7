package systems

import (
	"fmt"

	"github.com/pthm-cable/warren/telemetry"
)

// Tier is the vegetation variant occupying a cell.
type Tier uint8

const (
	TierNone Tier = iota
	TierLight
	TierThick
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierLight:
		return "grass"
	case TierThick:
		return "thick"
	default:
		return "none"
	}
}

// Tier bounds. Crossing LightMax promotes to thick seeded at ThickMin;
// dropping below ThickMin demotes to light seeded at LightMax.
const (
	LightMax = 4
	ThickMin = 5
	ThickMax = 10
)

// VegetationParams holds vegetation lifecycle tuning.
type VegetationParams struct {
	RegrowInterval int // idle ticks before a regrowth step
	LightSeed      int // quantity of generated grass
	ThickSeed      int // quantity of generated thick vegetation
	SpreadSeed     int // quantity of grass created by spread
}

// DefaultVegetationParams returns the standard lifecycle values.
func DefaultVegetationParams() VegetationParams {
	return VegetationParams{
		RegrowInterval: 10,
		LightSeed:      3,
		ThickSeed:      7,
		SpreadSeed:     1,
	}
}

// Vegetation is the plant occupying a cell. The zero value is an empty cell.
type Vegetation struct {
	Tier          Tier
	Quantity      int
	SinceRegrowth int
}

// NewLight returns grass seeded with q units.
func NewLight(q int) (Vegetation, error) {
	if q < 1 || q > LightMax {
		return Vegetation{}, fmt.Errorf("grass seed %d: %w", q, ErrInvalidQuantity)
	}
	return Vegetation{Tier: TierLight, Quantity: q}, nil
}

// NewThick returns thick vegetation seeded with q units.
func NewThick(q int) (Vegetation, error) {
	if q < ThickMin || q > ThickMax {
		return Vegetation{}, fmt.Errorf("thick vegetation seed %d: %w", q, ErrInvalidQuantity)
	}
	return Vegetation{Tier: TierThick, Quantity: q}, nil
}

// Present reports whether the cell holds vegetation of either tier.
func (v Vegetation) Present() bool {
	return v.Tier != TierNone
}

// Edible reports whether there is anything left to eat.
func (v Vegetation) Edible() bool {
	return v.Tier != TierNone && v.Quantity > 0
}

// Eat consumes one unit. Grass never goes below zero; thick vegetation
// that drops below ThickMin is replaced by grass at LightMax.
func (v *Vegetation) Eat() bool {
	switch v.Tier {
	case TierLight:
		if v.Quantity == 0 {
			return false
		}
		v.Quantity--
		return true
	case TierThick:
		v.Quantity--
		if v.Quantity < ThickMin {
			*v = Vegetation{Tier: TierLight, Quantity: LightMax}
		}
		return true
	}
	return false
}

// regrow advances the idle counter and reports whether the plant is mature
// enough to spread this tick. Mature thick vegetation keeps its counter at
// the interval so it spreads on every following tick.
func (v *Vegetation) regrow(interval int) bool {
	switch v.Tier {
	case TierLight:
		if v.SinceRegrowth < interval {
			v.SinceRegrowth++
			return false
		}
		v.Quantity++
		v.SinceRegrowth = 0
		if v.Quantity > LightMax {
			*v = Vegetation{Tier: TierThick, Quantity: ThickMin}
		}
	case TierThick:
		if v.SinceRegrowth < interval {
			v.SinceRegrowth++
			return false
		}
		if v.Quantity < ThickMax {
			v.Quantity++
			v.SinceRegrowth = 0
			return false
		}
		return true
	}
	return false
}

// Regrow runs one regrowth step over every cell in id order. Spread events
// are appended to events.
func (g *Grid) Regrow(p VegetationParams, events []telemetry.Event) []telemetry.Event {
	for i := range g.cells {
		c := &g.cells[i]
		if !c.Vegetation.regrow(p.RegrowInterval) {
			continue
		}
		for _, nb := range g.Neighbors(c.ID) {
			if !g.IsAvailableForSpread(nb) {
				continue
			}
			g.cells[nb-1].Vegetation = Vegetation{Tier: TierLight, Quantity: p.SpreadSeed}
			events = append(events, telemetry.NewSpreadEvent(c.ID, nb))
		}
	}
	return events
}

// VegetationTotal sums the edible quantity over the whole grid.
func (g *Grid) VegetationTotal() int {
	total := 0
	g.EachCell(func(c *Cell) {
		total += c.Vegetation.Quantity
	})
	return total
}
