package components

// Species is the closed set of animal species.
type Species uint8

const (
	SpeciesPrey Species = iota
	SpeciesPredator
)

// NumSpecies is the number of species variants.
const NumSpecies = 2

// Sex of an animal, fixed at creation.
type Sex uint8

const (
	SexFemale Sex = iota
	SexMale
)

// Age tier. Tiers only advance; a Senior reaching a growth event dies.
type Age uint8

const (
	AgeChild Age = iota
	AgeAdult
	AgeSenior
)

// Animal is the ECS component holding an animal's state.
type Animal struct {
	Species Species
	Sex     Sex
	Age     Age
	Alive   bool
	Eaten   bool // removed from the grid by a predator, awaiting registry removal

	Satiety    int
	MaxSatiety int

	// Timing constants copied from the species table at creation
	StepsBeforeDecay int
	StepsBeforeGrow  int
	VisionRange      int

	// Counters
	StepsAfterDecay int
	StepsAfterGrow  int
	StepsAfterDeath int

	// Home shelter reference, used for fleeing and wandering
	Shelter    ShelterID
	HasShelter bool

	// Per-tick transient state
	Sheltered bool      // inside Shelter's member set, off the grid
	Fleeing   bool      // a predator was visible this tick
	Heading   Direction // last movement direction, DirNone when no momentum
}

// SatietyRatio returns satiety as a fraction of the maximum.
func (a *Animal) SatietyRatio() float64 {
	if a.MaxSatiety == 0 {
		return 0
	}
	return float64(a.Satiety) / float64(a.MaxSatiety)
}

// SpeciesTable holds the per-species tuning constants.
type SpeciesTable struct {
	MaxSatiety       int `yaml:"max_satiety"`
	InitialSatiety   int `yaml:"initial_satiety"`
	VisionRange      int `yaml:"vision_range"`
	StepsBeforeDecay int `yaml:"steps_before_decay"`
	StepsBeforeGrow  int `yaml:"steps_before_grow"`
	ShelterRange     int `yaml:"shelter_range"`

	ReproductionThreshold float64 `yaml:"reproduction_threshold"` // caller satiety ratio needed to breed
	MateSatietyFloor      float64 `yaml:"mate_satiety_floor"`     // partner satiety ratio needed to breed
	ReproductionCost      float64 `yaml:"reproduction_cost"`      // female loses MaxSatiety/ReproductionCost
	HerdRatio             float64 `yaml:"herd_ratio"`             // prey herd at or above it, predators strictly above
	WanderRatio           float64 `yaml:"wander_ratio"`           // herd when no food is visible above this ratio

	// Satiety gained by a predator per prey age tier (child, adult, senior)
	PreyGain [3]int `yaml:"prey_gain,flow"`
}

// DefaultPreyTable returns the rabbit constants.
func DefaultPreyTable() SpeciesTable {
	return SpeciesTable{
		MaxSatiety:            10,
		InitialSatiety:        5,
		VisionRange:           3,
		StepsBeforeDecay:      8,
		StepsBeforeGrow:       30,
		ShelterRange:          3,
		ReproductionThreshold: 0.5,
		MateSatietyFloor:      0.5,
		ReproductionCost:      3,
		HerdRatio:             1.0,
		WanderRatio:           0.6,
	}
}

// DefaultPredatorTable returns the fox constants.
func DefaultPredatorTable() SpeciesTable {
	return SpeciesTable{
		MaxSatiety:            16,
		InitialSatiety:        8,
		VisionRange:           3,
		StepsBeforeDecay:      14,
		StepsBeforeGrow:       50,
		ShelterRange:          5,
		ReproductionThreshold: 0.8,
		MateSatietyFloor:      0.5,
		ReproductionCost:      1.5,
		HerdRatio:             0.7,
		WanderRatio:           0.7,
		PreyGain:              [3]int{4, 8, 12},
	}
}

// NewAnimal returns a living animal initialised from the species table.
func NewAnimal(species Species, sex Sex, age Age, t SpeciesTable) Animal {
	return Animal{
		Species:          species,
		Sex:              sex,
		Age:              age,
		Alive:            true,
		Satiety:          t.InitialSatiety,
		MaxSatiety:       t.MaxSatiety,
		StepsBeforeDecay: t.StepsBeforeDecay,
		StepsBeforeGrow:  t.StepsBeforeGrow,
		VisionRange:      t.VisionRange,
	}
}
