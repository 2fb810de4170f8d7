package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/warren/components"
)

func TestDefaultsMatchSpeciesTables(t *testing.T) {
	cfg := Default()

	if cfg.Derived.Cells != cfg.World.Size*cfg.World.Size {
		t.Errorf("Derived.Cells = %d, want %d", cfg.Derived.Cells, cfg.World.Size*cfg.World.Size)
	}
	if got, want := cfg.Table(components.SpeciesPrey), components.DefaultPreyTable(); got != want {
		t.Errorf("prey table = %+v, want %+v", got, want)
	}
	if got, want := cfg.Table(components.SpeciesPredator), components.DefaultPredatorTable(); got != want {
		t.Errorf("predator table = %+v, want %+v", got, want)
	}
	if cfg.Run.Interval != 150*time.Millisecond {
		t.Errorf("Run.Interval = %v, want 150ms", cfg.Run.Interval)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	user := []byte("world:\n  size: 12\nspecies:\n  predator:\n    vision_range: 5\n")
	if err := os.WriteFile(path, user, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Size != 12 || cfg.Derived.Cells != 144 {
		t.Errorf("size = %d cells = %d, want 12 and 144", cfg.World.Size, cfg.Derived.Cells)
	}
	if cfg.Table(components.SpeciesPredator).VisionRange != 5 {
		t.Error("predator vision range not overridden")
	}
	// Untouched values keep their defaults
	if cfg.World.Grass != Default().World.Grass {
		t.Errorf("grass = %d, want default %d", cfg.World.Grass, Default().World.Grass)
	}
	if cfg.Table(components.SpeciesPredator).MaxSatiety != 16 {
		t.Error("predator max satiety lost in merge")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	if _, err := Load(write("bad.yaml", "world: [")); err == nil {
		t.Error("Load of malformed yaml succeeded")
	}
	if _, err := Load(write("invalid.yaml", "world:\n  placement: spiral\n")); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load of an invalid value: error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown placement", func(c *Config) { c.World.Placement = "rows" }},
		{"negative grass", func(c *Config) { c.World.Grass = -1 }},
		{"zero capacity", func(c *Config) { c.Shelters.Prey.Capacity = 0 }},
		{"roster above capacity", func(c *Config) { c.Shelters.Predator.Roster = c.Shelters.Predator.Capacity + 1 }},
		{"zero regrow interval", func(c *Config) { c.Vegetation.RegrowInterval = 0 }},
		{"negative decomposition delay", func(c *Config) { c.Animals.DecompositionDelay = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestExportSettingsRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.World.Size = 15
	cfg.Run.Seed = 42

	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	path, err := cfg.ExportSettings(filepath.Join(t.TempDir(), "settings"), now)
	if err != nil {
		t.Fatalf("ExportSettings: %v", err)
	}
	if filepath.Base(path) != "simulation_settings_20240309_140507.yaml" {
		t.Errorf("file name = %s", filepath.Base(path))
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load of exported settings: %v", err)
	}
	if loaded.World.Size != 15 || loaded.Run.Seed != 42 {
		t.Errorf("loaded size %d seed %d, want 15 and 42", loaded.World.Size, loaded.Run.Seed)
	}
	if loaded.Table(components.SpeciesPrey) != cfg.Table(components.SpeciesPrey) {
		t.Error("species table changed in round trip")
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg() did not panic before Init")
		}
	}()
	Cfg()
}
