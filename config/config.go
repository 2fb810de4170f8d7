// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/warren/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned by Validate for values no world can be built from.
var ErrInvalid = errors.New("invalid config")

// Placement modes for initial vegetation.
const (
	PlacementUniform   = "uniform"
	PlacementClustered = "clustered"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Shelters   SheltersConfig   `yaml:"shelters"`
	Species    SpeciesConfig    `yaml:"species"`
	Vegetation VegetationConfig `yaml:"vegetation"`
	Animals    AnimalsConfig    `yaml:"animals"`
	Run        RunConfig        `yaml:"run"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window viewer settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds grid dimensions and vegetation counts.
type WorldConfig struct {
	Size            int     `yaml:"size"`             // grid side length N (N*N cells)
	Grass           int     `yaml:"grass"`            // light vegetation cells at start
	ThickVegetation int     `yaml:"thick_vegetation"` // thick vegetation cells at start
	Placement       string  `yaml:"placement"`        // uniform | clustered
	NoiseScale      float64 `yaml:"noise_scale"`      // feature size for clustered placement
}

// ShelterSetConfig describes the shelters of one species.
type ShelterSetConfig struct {
	Cells    []int `yaml:"cells,flow"` // 1-based cell ids
	Capacity int   `yaml:"capacity"`
	Roster   int   `yaml:"roster"` // adults placed inside each shelter at start
}

// SheltersConfig holds shelter placement per species.
type SheltersConfig struct {
	Prey     ShelterSetConfig `yaml:"prey"`
	Predator ShelterSetConfig `yaml:"predator"`
}

// SpeciesConfig holds the per-species tuning tables.
type SpeciesConfig struct {
	Prey     components.SpeciesTable `yaml:"prey"`
	Predator components.SpeciesTable `yaml:"predator"`
}

// VegetationConfig holds vegetation lifecycle parameters.
type VegetationConfig struct {
	RegrowInterval int `yaml:"regrow_interval"` // idle ticks between regrowth steps
	LightSeed      int `yaml:"light_seed"`      // quantity of generated light vegetation
	ThickSeed      int `yaml:"thick_seed"`      // quantity of generated thick vegetation
	SpreadSeed     int `yaml:"spread_seed"`     // quantity of light vegetation created by spread
}

// AnimalsConfig holds animal lifecycle parameters shared by both species.
type AnimalsConfig struct {
	DecompositionDelay int `yaml:"decomposition_delay"` // ticks a corpse stays on the grid
}

// RunConfig holds driver parameters.
type RunConfig struct {
	Seed     int64         `yaml:"seed"`      // 0 = time-based
	MaxTicks int           `yaml:"max_ticks"` // 0 = unlimited
	Interval time.Duration `yaml:"interval"`  // pause between ticks in viewer modes
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int    `yaml:"stats_window"` // ticks per stats window
	PerfCollectorWindow int    `yaml:"perf_collector_window"`
	OutputDir           string `yaml:"output_dir"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells  int                                             // Size*Size
	Tables [components.NumSpecies]components.SpeciesTable // indexed by species
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks values that are independent of world construction.
// Capacity of the grid itself is checked when the world is built.
func (c *Config) Validate() error {
	switch c.World.Placement {
	case PlacementUniform, PlacementClustered:
	default:
		return fmt.Errorf("%w: unknown placement %q", ErrInvalid, c.World.Placement)
	}
	if c.World.Grass < 0 || c.World.ThickVegetation < 0 {
		return fmt.Errorf("%w: negative vegetation count", ErrInvalid)
	}
	for name, set := range map[string]ShelterSetConfig{"prey": c.Shelters.Prey, "predator": c.Shelters.Predator} {
		if set.Capacity < 1 && len(set.Cells) > 0 {
			return fmt.Errorf("%w: %s shelter capacity %d", ErrInvalid, name, set.Capacity)
		}
		if set.Roster > set.Capacity {
			return fmt.Errorf("%w: %s roster %d exceeds capacity %d", ErrInvalid, name, set.Roster, set.Capacity)
		}
	}
	if c.Vegetation.RegrowInterval < 1 {
		return fmt.Errorf("%w: regrow interval %d", ErrInvalid, c.Vegetation.RegrowInterval)
	}
	if c.Animals.DecompositionDelay < 0 {
		return fmt.Errorf("%w: negative decomposition delay", ErrInvalid)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config. Call it
// again after changing species tables or the world size in code.
func (c *Config) ComputeDerived() {
	c.Derived.Cells = c.World.Size * c.World.Size
	c.Derived.Tables[components.SpeciesPrey] = c.Species.Prey
	c.Derived.Tables[components.SpeciesPredator] = c.Species.Predator
}

// Clone returns a copy that can be changed without touching c. Shelter
// cell lists are shared.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Table returns the tuning table for a species.
func (c *Config) Table(s components.Species) components.SpeciesTable {
	return c.Derived.Tables[s]
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ExportSettings writes the configuration into dir under a timestamped name
// and returns the written path. The file can be passed back with --config.
func (c *Config) ExportSettings(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating settings directory: %w", err)
	}
	path := filepath.Join(dir, "simulation_settings_"+now.Format("20060102_150405")+".yaml")
	if err := c.WriteYAML(path); err != nil {
		return "", err
	}
	return path, nil
}
