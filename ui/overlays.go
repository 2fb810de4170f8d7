package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayGridLines  OverlayID = "grid_lines"
	OverlayQuantities OverlayID = "quantities"
	OverlayShelters   OverlayID = "shelters"
	OverlayVision     OverlayID = "vision"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // Keyboard key to toggle (0 = no key)
	KeyLabel string // Key label for display
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	reg.Register(OverlayDescriptor{ID: OverlayGridLines, Name: "Grid lines", Key: rl.KeyG, KeyLabel: "G"})
	reg.Register(OverlayDescriptor{ID: OverlayQuantities, Name: "Vegetation units", Key: rl.KeyQ, KeyLabel: "Q"})
	reg.Register(OverlayDescriptor{ID: OverlayShelters, Name: "Shelter occupancy", Key: rl.KeyO, KeyLabel: "O"})
	reg.Register(OverlayDescriptor{ID: OverlayVision, Name: "Vision of hovered", Key: rl.KeyV, KeyLabel: "V"})
	reg.enabled[OverlayShelters] = true
	return reg
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	r.enabled[id] = enabled
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
