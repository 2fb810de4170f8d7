package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/systems"
)

// RosterEntry is one animal placed inside a shelter at bootstrap.
type RosterEntry struct {
	Sex  components.Sex
	Age  components.Age
	Dead bool // starts as a corpse
}

// ShelterSpec places one shelter.
type ShelterSpec struct {
	Cell     components.CellID
	Capacity int
	Roster   []RosterEntry
}

// Layout is the full description of an initial world.
type Layout struct {
	Size int

	// Vegetation counts, placed at random on cells without a shelter.
	// Explicit cell lists take precedence when non-nil.
	Grass, Thick           int
	GrassCells, ThickCells []components.CellID
	Placement              string
	NoiseScale             float64

	Shelters [components.NumSpecies][]ShelterSpec
	Tables   [components.NumSpecies]components.SpeciesTable

	Vegetation         systems.VegetationParams
	DecompositionDelay int
}

// DefaultRoster returns n adults with alternating sex, starting female.
func DefaultRoster(n int) []RosterEntry {
	roster := make([]RosterEntry, n)
	for i := range roster {
		roster[i] = RosterEntry{Sex: components.Sex(i % 2), Age: components.AgeAdult}
	}
	return roster
}

// LayoutFromConfig derives the initial world from configuration.
func LayoutFromConfig(cfg *config.Config) Layout {
	l := Layout{
		Size:       cfg.World.Size,
		Grass:      cfg.World.Grass,
		Thick:      cfg.World.ThickVegetation,
		Placement:  cfg.World.Placement,
		NoiseScale: cfg.World.NoiseScale,
		Tables:     cfg.Derived.Tables,
		Vegetation: systems.VegetationParams{
			RegrowInterval: cfg.Vegetation.RegrowInterval,
			LightSeed:      cfg.Vegetation.LightSeed,
			ThickSeed:      cfg.Vegetation.ThickSeed,
			SpreadSeed:     cfg.Vegetation.SpreadSeed,
		},
		DecompositionDelay: cfg.Animals.DecompositionDelay,
	}

	sets := [components.NumSpecies]config.ShelterSetConfig{
		components.SpeciesPrey:     cfg.Shelters.Prey,
		components.SpeciesPredator: cfg.Shelters.Predator,
	}
	for sp, set := range sets {
		for _, id := range set.Cells {
			l.Shelters[sp] = append(l.Shelters[sp], ShelterSpec{
				Cell:     components.CellID(id),
				Capacity: set.Capacity,
				Roster:   DefaultRoster(set.Roster),
			})
		}
	}
	return l
}

// DefaultLayout returns a layout with the standard species tables and
// vegetation parameters and no placements.
func DefaultLayout(size int) Layout {
	return Layout{
		Size: size,
		Tables: [components.NumSpecies]components.SpeciesTable{
			components.SpeciesPrey:     components.DefaultPreyTable(),
			components.SpeciesPredator: components.DefaultPredatorTable(),
		},
		Vegetation:         systems.DefaultVegetationParams(),
		DecompositionDelay: systems.DefaultDecompositionDelay,
	}
}

// validate checks the layout before anything is built.
func (l *Layout) validate() error {
	if l.Size < systems.MinGridSize {
		return fmt.Errorf("%w: grid size %d below %d", systems.ErrConfiguration, l.Size, systems.MinGridSize)
	}

	grass, thick := l.Grass, l.Thick
	if l.GrassCells != nil {
		grass = len(l.GrassCells)
	}
	if l.ThickCells != nil {
		thick = len(l.ThickCells)
	}
	if grass < 0 || thick < 0 {
		return fmt.Errorf("%w: negative vegetation count", systems.ErrConfiguration)
	}

	placed := grass + thick + len(l.Shelters[components.SpeciesPrey]) + len(l.Shelters[components.SpeciesPredator])
	if placed > l.Size*l.Size {
		return fmt.Errorf("%w: %d placed items exceed %d cells", systems.ErrConfiguration, placed, l.Size*l.Size)
	}

	for sp := range l.Shelters {
		for _, spec := range l.Shelters[sp] {
			if spec.Capacity < 1 {
				return fmt.Errorf("%w: shelter on cell %d has capacity %d", systems.ErrConfiguration, spec.Cell, spec.Capacity)
			}
			if len(spec.Roster) > spec.Capacity {
				return fmt.Errorf("%w: shelter on cell %d roster %d exceeds capacity %d",
					systems.ErrConfiguration, spec.Cell, len(spec.Roster), spec.Capacity)
			}
		}
	}
	return nil
}

// NewFromLayout validates l, builds the grid, places shelters and their
// rosters, places vegetation and links every shelter to its neighbors.
// rng drives vegetation placement and the sex of newborns.
func NewFromLayout(l Layout, rng *rand.Rand) (*Game, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}

	grid, err := systems.NewGrid(l.Size)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	g := &Game{
		world:        world,
		rng:          rng,
		animals:      ecs.NewMap[components.Animal](world),
		positions:    ecs.NewMap[components.Position](world),
		animalFilter: ecs.NewFilter2[components.Animal, components.Position](world),
		grid:         grid,
		behavior:     systems.NewBehaviorSystem(world, grid, l.Tables, l.DecompositionDelay, rng),
		vegetation:   l.Vegetation,
		removed:      make(map[ecs.Entity]bool),
	}

	if err := g.placeShelters(l); err != nil {
		return nil, err
	}
	if err := g.placeVegetation(l); err != nil {
		return nil, err
	}
	grid.LinkNearest()

	slog.Debug("world built",
		"size", l.Size,
		"shelters", len(grid.Shelters()),
		"prey", len(g.registries[components.SpeciesPrey]),
		"predators", len(g.registries[components.SpeciesPredator]),
		"vegetation", grid.VegetationTotal(),
	)
	return g, nil
}

// placeShelters binds every shelter to its cell and fills its roster.
func (g *Game) placeShelters(l Layout) error {
	for sp := range l.Shelters {
		species := components.Species(sp)
		for _, spec := range l.Shelters[sp] {
			shelter := systems.NewShelter(spec.Cell, species, spec.Capacity, l.Tables[sp].ShelterRange)
			id, err := g.grid.PlaceShelter(spec.Cell, shelter)
			if err != nil {
				return err
			}
			for _, r := range spec.Roster {
				e, ok := g.behavior.SpawnSheltered(species, r.Sex, r.Age, id)
				if !ok {
					return fmt.Errorf("%w: shelter on cell %d rejected its roster", systems.ErrConfiguration, spec.Cell)
				}
				if r.Dead {
					g.animals.Get(e).Alive = false
				}
				g.registries[sp] = append(g.registries[sp], e)
			}
		}
	}
	return nil
}

// placeVegetation seeds grass and thick vegetation on cells without a shelter.
func (g *Game) placeVegetation(l Layout) error {
	exclude := make(map[components.CellID]bool)
	for _, s := range g.grid.Shelters() {
		exclude[s.Cell] = true
	}

	grassCells := l.GrassCells
	if grassCells == nil {
		var err error
		if grassCells, err = g.pickCells(l, l.Grass, exclude); err != nil {
			return err
		}
	}
	for _, id := range grassCells {
		exclude[id] = true
	}

	thickCells := l.ThickCells
	if thickCells == nil {
		var err error
		if thickCells, err = g.pickCells(l, l.Thick, exclude); err != nil {
			return err
		}
	}

	light, err := systems.NewLight(l.Vegetation.LightSeed)
	if err != nil {
		return err
	}
	thick, err := systems.NewThick(l.Vegetation.ThickSeed)
	if err != nil {
		return err
	}
	for _, id := range grassCells {
		if err := g.grid.PlaceVegetation(id, light); err != nil {
			return err
		}
	}
	for _, id := range thickCells {
		if err := g.grid.PlaceVegetation(id, thick); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) pickCells(l Layout, count int, exclude map[components.CellID]bool) ([]components.CellID, error) {
	if l.Placement == config.PlacementClustered {
		return systems.ClusteredCells(g.rng, l.Size, count, exclude, l.NoiseScale)
	}
	return systems.UniformCells(g.rng, l.Size, count, exclude)
}
