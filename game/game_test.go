package game

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
)

func cell(size, x, y int) components.CellID {
	return components.Coord{X: x, Y: y}.Index(size)
}

func mustBuild(t *testing.T, l Layout) *Game {
	t.Helper()
	g, err := NewFromLayout(l, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewFromLayout: %v", err)
	}
	return g
}

// spawn places an animal on the grid and registers it.
func spawn(t *testing.T, g *Game, sp components.Species, sex components.Sex, id components.CellID) ecs.Entity {
	t.Helper()
	e, ok := g.behavior.SpawnAt(sp, sex, components.AgeAdult, id)
	if !ok {
		t.Fatalf("SpawnAt(%d) failed", id)
	}
	g.registries[sp] = append(g.registries[sp], e)
	return e
}

func TestNewFromLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *Layout)
		want   error
	}{
		{"grid too small", func(l *Layout) { l.Size = 4 }, systems.ErrConfiguration},
		{"too many items", func(l *Layout) { l.Grass = 20; l.Thick = 6 }, systems.ErrConfiguration},
		{"negative count", func(l *Layout) { l.Thick = -1 }, systems.ErrConfiguration},
		{"zero capacity", func(l *Layout) {
			l.Shelters[components.SpeciesPrey] = []ShelterSpec{{Cell: 1, Capacity: 0}}
		}, systems.ErrConfiguration},
		{"roster above capacity", func(l *Layout) {
			l.Shelters[components.SpeciesPrey] = []ShelterSpec{{Cell: 1, Capacity: 2, Roster: DefaultRoster(3)}}
		}, systems.ErrConfiguration},
		{"shelter off grid", func(l *Layout) {
			l.Shelters[components.SpeciesPredator] = []ShelterSpec{{Cell: 26, Capacity: 2}}
		}, systems.ErrConfiguration},
		{"two shelters on one cell", func(l *Layout) {
			l.Shelters[components.SpeciesPrey] = []ShelterSpec{{Cell: 7, Capacity: 2}}
			l.Shelters[components.SpeciesPredator] = []ShelterSpec{{Cell: 7, Capacity: 2}}
		}, systems.ErrCellOccupied},
		{"grass on a shelter", func(l *Layout) {
			l.Shelters[components.SpeciesPrey] = []ShelterSpec{{Cell: 7, Capacity: 2}}
			l.GrassCells = []components.CellID{7}
		}, systems.ErrCellOccupied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLayout(5)
			tt.mutate(&l)
			if _, err := NewFromLayout(l, rand.New(rand.NewSource(1))); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildPlacesVegetationOffShelters(t *testing.T) {
	l := DefaultLayout(10)
	l.Grass, l.Thick = 20, 10
	l.Shelters[components.SpeciesPrey] = []ShelterSpec{{Cell: 1, Capacity: 5}}
	l.Shelters[components.SpeciesPredator] = []ShelterSpec{{Cell: 100, Capacity: 5}}
	g := mustBuild(t, l)

	grass, thick := 0, 0
	g.Grid().EachCell(func(c *systems.Cell) {
		if c.HasShelter && c.Vegetation.Present() {
			t.Errorf("vegetation on shelter cell %d", c.ID)
		}
		switch c.Vegetation.Tier {
		case systems.TierLight:
			grass++
		case systems.TierThick:
			thick++
		}
	})
	if grass != 20 || thick != 10 {
		t.Errorf("grass = %d, thick = %d; want 20, 10", grass, thick)
	}
	if got, want := g.VegetationTotal(), 20*3+10*7; got != want {
		t.Errorf("VegetationTotal = %d, want %d", got, want)
	}
}

func TestShelterLiveCountSkipsCorpses(t *testing.T) {
	l := DefaultLayout(7)
	l.Shelters[components.SpeciesPrey] = []ShelterSpec{{
		Cell:     cell(7, 4, 4),
		Capacity: 5,
		Roster: []RosterEntry{
			{Sex: components.SexFemale, Age: components.AgeAdult},
			{Sex: components.SexMale, Age: components.AgeAdult},
			{Sex: components.SexMale, Age: components.AgeAdult, Dead: true},
		},
	}}
	g := mustBuild(t, l)

	if got := g.ShelterLiveCount(0); got != 2 {
		t.Errorf("ShelterLiveCount = %d, want 2", got)
	}
	if got := len(g.Grid().Shelter(0).Members); got != 3 {
		t.Errorf("members = %d, want 3", got)
	}
	if got := g.AliveCount(components.SpeciesPrey); got != 2 {
		t.Errorf("AliveCount = %d, want 2", got)
	}
}

func TestNewbornsJoinAfterThePass(t *testing.T) {
	g := mustBuild(t, DefaultLayout(7))
	female := spawn(t, g, components.SpeciesPrey, components.SexFemale, cell(7, 3, 4))
	male := spawn(t, g, components.SpeciesPrey, components.SexMale, cell(7, 4, 4))

	g.Step()

	pop := g.Population(components.SpeciesPrey)
	if len(pop) != 3 {
		t.Fatalf("registry length = %d, want 3", len(pop))
	}
	if pop[0] != female || pop[1] != male {
		t.Error("existing registry order changed")
	}

	child := g.Animal(pop[2])
	if child.Age != components.AgeChild {
		t.Errorf("last entry age = %v, want child", child.Age)
	}
	// The newborn did not act in the tick it was born
	if child.StepsAfterDecay != 0 || child.StepsAfterGrow != 0 {
		t.Errorf("newborn counters advanced: %+v", child)
	}

	for _, ev := range g.Events() {
		if ev.Tick != 1 {
			t.Errorf("event %v stamped with tick %d, want 1", ev.Type, ev.Tick)
		}
	}
}

func TestEatenPreyLeavesRegistryAndWorld(t *testing.T) {
	g := mustBuild(t, DefaultLayout(7))
	fox := spawn(t, g, components.SpeciesPredator, components.SexMale, cell(7, 3, 3))
	rabbit := spawn(t, g, components.SpeciesPrey, components.SexFemale, cell(7, 4, 3))

	g.Step()

	if len(g.Population(components.SpeciesPrey)) != 0 {
		t.Errorf("prey registry = %v, want empty", g.Population(components.SpeciesPrey))
	}
	if g.world.Alive(rabbit) {
		t.Error("eaten rabbit still in the world")
	}
	if _, ok := g.Grid().Occupant(cell(7, 4, 3)); ok {
		t.Error("eaten rabbit still on the grid")
	}
	if a := g.Animal(fox); a.Satiety != a.MaxSatiety {
		t.Errorf("fox satiety = %d, want %d", a.Satiety, a.MaxSatiety)
	}
}

func TestCorpseDecomposesOutOfShelter(t *testing.T) {
	l := DefaultLayout(7)
	l.Shelters[components.SpeciesPredator] = []ShelterSpec{{
		Cell:     cell(7, 4, 4),
		Capacity: 1,
		Roster:   []RosterEntry{{Sex: components.SexMale, Age: components.AgeAdult, Dead: true}},
	}}
	g := mustBuild(t, l)
	corpse := g.Population(components.SpeciesPredator)[0]

	for i := 0; i < systems.DefaultDecompositionDelay; i++ {
		g.Step()
	}
	if len(g.Population(components.SpeciesPredator)) != 1 {
		t.Fatal("corpse removed before the decomposition delay")
	}

	g.Step()
	if len(g.Population(components.SpeciesPredator)) != 0 {
		t.Error("corpse still registered after decomposing")
	}
	if g.world.Alive(corpse) {
		t.Error("corpse still in the world")
	}
	if len(g.Grid().Shelter(0).Members) != 0 {
		t.Error("corpse still holds its shelter slot")
	}
}

func TestObserversSeeCompletedTick(t *testing.T) {
	g := mustBuild(t, DefaultLayout(7))
	spawn(t, g, components.SpeciesPrey, components.SexFemale, cell(7, 2, 2))

	var ticks []int32
	g.AddObserver(telemetry.ObserverFunc(func(tick int32, events []telemetry.Event) {
		ticks = append(ticks, tick)
		for _, ev := range events {
			if ev.Tick != tick {
				t.Errorf("event stamped %d during tick %d", ev.Tick, tick)
			}
		}
	}))

	for i := 0; i < 3; i++ {
		g.Step()
	}
	if !slices.Equal(ticks, []int32{1, 2, 3}) {
		t.Errorf("observed ticks %v, want [1 2 3]", ticks)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	build := func() *Game {
		g, err := New(config.Default(), rand.New(rand.NewSource(99)))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return g
	}
	a, b := build(), build()

	for i := 0; i < 60; i++ {
		a.Step()
		b.Step()
		if !slices.Equal(a.Events(), b.Events()) {
			t.Fatalf("tick %d: event streams diverged", i+1)
		}
	}
	if !slices.Equal(a.Snapshot().Cells, b.Snapshot().Cells) {
		t.Error("final grids differ")
	}
}

func TestSnapshot(t *testing.T) {
	l := DefaultLayout(5)
	l.GrassCells = []components.CellID{1}
	l.ThickCells = []components.CellID{2}
	l.Shelters[components.SpeciesPrey] = []ShelterSpec{{
		Cell:     3,
		Capacity: 5,
		Roster: []RosterEntry{
			{Sex: components.SexFemale, Age: components.AgeAdult},
			{Sex: components.SexMale, Age: components.AgeAdult, Dead: true},
		},
	}}
	g := mustBuild(t, l)
	spawn(t, g, components.SpeciesPredator, components.SexFemale, cell(5, 1, 2))

	snap := g.Snapshot()

	tests := []struct {
		name string
		got  CellView
		want CellView
	}{
		{"grass", snap.At(0, 0), CellView{Kind: CellGrass, Quantity: 3}},
		{"thick", snap.At(1, 0), CellView{Kind: CellThick, Quantity: 7}},
		{"shelter", snap.At(2, 0), CellView{
			Kind:            CellShelter,
			ShelterSpecies:  components.SpeciesPrey,
			ShelterLive:     1,
			ShelterCapacity: 5,
		}},
		{"fox", snap.At(0, 1), CellView{
			HasAnimal: true,
			Species:   components.SpeciesPredator,
			Sex:       components.SexFemale,
			Age:       components.AgeAdult,
			Alive:     true,
		}},
		{"empty", snap.At(4, 4), CellView{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("cell = %+v, want %+v", tt.got, tt.want)
			}
		})
	}

	if snap.Prey != 1 || snap.Predators != 1 || snap.Vegetation != 10 {
		t.Errorf("totals = %d prey, %d predators, %d vegetation", snap.Prey, snap.Predators, snap.Vegetation)
	}

	g.Step()
	if snap.Tick != 0 || snap.At(0, 1) != tests[3].want {
		t.Error("snapshot changed after a step")
	}
}
