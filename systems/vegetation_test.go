package systems

import (
	"errors"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/telemetry"
)

func TestVegetationSeeds(t *testing.T) {
	tests := []struct {
		name    string
		build   func(int) (Vegetation, error)
		q       int
		wantErr bool
	}{
		{"grass min", NewLight, 1, false},
		{"grass max", NewLight, LightMax, false},
		{"grass zero", NewLight, 0, true},
		{"grass above max", NewLight, LightMax + 1, true},
		{"thick min", NewThick, ThickMin, false},
		{"thick max", NewThick, ThickMax, false},
		{"thick below min", NewThick, ThickMin - 1, true},
		{"thick above max", NewThick, ThickMax + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.build(tt.q)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidQuantity) {
					t.Errorf("error = %v, want ErrInvalidQuantity", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Quantity != tt.q {
				t.Errorf("Quantity = %d, want %d", v.Quantity, tt.q)
			}
		})
	}
}

func TestGrassEatStopsAtZero(t *testing.T) {
	v, _ := NewLight(1)
	if !v.Eat() {
		t.Fatal("Eat on grass with 1 unit failed")
	}
	if v.Eat() {
		t.Error("Eat on empty grass succeeded")
	}
	if v.Quantity != 0 || v.Tier != TierLight {
		t.Errorf("vegetation = %+v, want empty grass", v)
	}
	if v.Edible() {
		t.Error("empty grass reported edible")
	}
}

func TestPromoteThenDemoteReseeds(t *testing.T) {
	v, _ := NewLight(LightMax)
	const interval = 2

	// Idle ticks, then one regrowth step crosses LightMax
	for i := 0; i < interval; i++ {
		v.regrow(interval)
	}
	v.regrow(interval)
	if v.Tier != TierThick || v.Quantity != ThickMin {
		t.Fatalf("after promotion = %+v, want thick at %d", v, ThickMin)
	}

	v.Eat()
	if v.Tier != TierLight || v.Quantity != LightMax {
		t.Errorf("after demotion = %+v, want grass at %d", v, LightMax)
	}
}

func TestThickRegrowsUntilMax(t *testing.T) {
	v, _ := NewThick(ThickMax - 1)
	const interval = 3

	steps := 0
	for v.Quantity < ThickMax {
		if v.regrow(interval) {
			t.Fatal("spread before reaching ThickMax")
		}
		steps++
	}
	if steps != interval+1 {
		t.Errorf("regrowth took %d ticks, want %d", steps, interval+1)
	}

	// At max, spread starts after a further idle interval and repeats every tick
	for i := 0; i < interval; i++ {
		if v.regrow(interval) {
			t.Fatalf("spread on idle tick %d", i)
		}
	}
	for i := 0; i < 3; i++ {
		if !v.regrow(interval) {
			t.Fatalf("no spread on mature tick %d", i)
		}
	}
	if v.Quantity != ThickMax {
		t.Errorf("spreading changed quantity to %d", v.Quantity)
	}
}

func TestSpreadTargets(t *testing.T) {
	g := mustGrid(t, 5)
	p := DefaultVegetationParams()

	src := cellAt(g, 3, 3)
	top := cellAt(g, 3, 2)
	right := cellAt(g, 4, 3)
	bottom := cellAt(g, 3, 4)
	left := cellAt(g, 2, 3)

	mature := Vegetation{Tier: TierThick, Quantity: ThickMax, SinceRegrowth: p.RegrowInterval}
	if err := g.PlaceVegetation(src, mature); err != nil {
		t.Fatal(err)
	}
	grass, _ := NewLight(2)
	if err := g.PlaceVegetation(top, grass); err != nil {
		t.Fatal(err)
	}
	if err := placeShelterErr(g, right); err != nil {
		t.Fatal(err)
	}
	g.SetOccupant(bottom, ecs.Entity{})

	events := g.Regrow(p, nil)

	var targets []components.CellID
	for _, ev := range events {
		if ev.Type != telemetry.EventSpread {
			t.Errorf("unexpected event %v", ev.Type)
			continue
		}
		if ev.From != src {
			t.Errorf("spread source = %d, want %d", ev.From, src)
		}
		targets = append(targets, ev.To)
	}

	want := []components.CellID{bottom, left}
	if len(targets) != len(want) || targets[0] != want[0] || targets[1] != want[1] {
		t.Fatalf("spread targets = %v, want %v (animal cell allowed, grass and shelter refused)", targets, want)
	}
	for _, id := range want {
		v := g.Cell(id).Vegetation
		if v.Tier != TierLight || v.Quantity != p.SpreadSeed {
			t.Errorf("cell %d vegetation = %+v, want grass at %d", id, v, p.SpreadSeed)
		}
	}
	if q := g.Cell(top).Vegetation.Quantity; q != 2 {
		t.Errorf("existing grass changed to %d", q)
	}
	if g.Cell(src).Vegetation.Quantity != ThickMax {
		t.Error("spread consumed the source")
	}
}

func TestVegetationTotal(t *testing.T) {
	g := mustGrid(t, 5)
	grass, _ := NewLight(3)
	thick, _ := NewThick(7)
	_ = g.PlaceVegetation(1, grass)
	_ = g.PlaceVegetation(2, thick)
	if got := g.VegetationTotal(); got != 10 {
		t.Errorf("VegetationTotal = %d, want 10", got)
	}
}
