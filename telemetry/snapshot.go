package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/warren/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the world state at one tick, written as JSON when a
// bookmark fires.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Size    int   `json:"size"`
	Tick    int32 `json:"tick"`

	Vegetation []VegetationState `json:"vegetation"`
	Shelters   []ShelterState    `json:"shelters"`
	Animals    []AnimalState     `json:"animals"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// VegetationState is one cell holding vegetation.
type VegetationState struct {
	Cell          components.CellID `json:"cell"`
	Tier          string            `json:"tier"`
	Quantity      int               `json:"quantity"`
	SinceRegrowth int               `json:"since_regrowth"`
}

// ShelterState is one shelter and its members.
type ShelterState struct {
	Cell     components.CellID   `json:"cell"`
	Species  string              `json:"species"`
	Capacity int                 `json:"capacity"`
	Nearest  []components.CellID `json:"nearest,omitempty"`
	Members  []uint32            `json:"members,omitempty"`
}

// AnimalState holds one animal's complete state.
type AnimalState struct {
	ID      uint32            `json:"id"`
	Species string            `json:"species"`
	Sex     string            `json:"sex"`
	Age     string            `json:"age"`
	Alive   bool              `json:"alive"`
	Cell    components.CellID `json:"cell"`

	Sheltered bool `json:"sheltered,omitempty"`
	Fleeing   bool `json:"fleeing,omitempty"`

	Satiety         int    `json:"satiety"`
	MaxSatiety      int    `json:"max_satiety"`
	StepsAfterDecay int    `json:"steps_after_decay"`
	StepsAfterGrow  int    `json:"steps_after_grow"`
	StepsAfterDeath int    `json:"steps_after_death,omitempty"`
	Heading         string `json:"heading,omitempty"`

	// Cell of the home shelter
	Home *components.CellID `json:"home,omitempty"`
}

// NewAnimalState converts an animal component for serialization. home is
// the cell of the animal's shelter, if any.
func NewAnimalState(id uint32, a *components.Animal, cell components.CellID, home *components.CellID) AnimalState {
	s := AnimalState{
		ID:              id,
		Species:         a.Species.String(),
		Sex:             a.Sex.String(),
		Age:             a.Age.String(),
		Alive:           a.Alive,
		Cell:            cell,
		Sheltered:       a.Sheltered,
		Fleeing:         a.Fleeing,
		Satiety:         a.Satiety,
		MaxSatiety:      a.MaxSatiety,
		StepsAfterDecay: a.StepsAfterDecay,
		StepsAfterGrow:  a.StepsAfterGrow,
		StepsAfterDeath: a.StepsAfterDeath,
		Home:            home,
	}
	if a.Heading != components.DirNone {
		s.Heading = a.Heading.String()
	}
	return s
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
