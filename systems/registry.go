package systems

import "github.com/pthm-cable/warren/telemetry"

// SystemInfo describes a tick phase for display.
type SystemInfo struct {
	Phase       telemetry.Phase
	Name        string // Display name
	Description string // What this phase does
}

// SystemRegistry holds display metadata for the tick phases in execution
// order, so the viewers and the perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{}
	reg.Register(SystemInfo{Phase: telemetry.PhaseRegrow, Name: "Regrow", Description: "Regrows and spreads vegetation"})
	reg.Register(SystemInfo{Phase: telemetry.PhasePrey, Name: "Rabbits", Description: "Steps every rabbit"})
	reg.Register(SystemInfo{Phase: telemetry.PhasePredators, Name: "Foxes", Description: "Steps every fox"})
	reg.Register(SystemInfo{Phase: telemetry.PhaseReconcile, Name: "Reconcile", Description: "Merges births and removes corpses"})
	reg.Register(SystemInfo{Phase: telemetry.PhaseObserve, Name: "Observers", Description: "Dispatches tick events"})
	return reg
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
}

// GetName returns the display name of a phase.
// Falls back to the phase's own name if it was never registered.
func (r *SystemRegistry) GetName(p telemetry.Phase) string {
	for _, info := range r.systems {
		if info.Phase == p {
			return info.Name
		}
	}
	return p.String()
}

// Phases returns the registered phases in registration order.
func (r *SystemRegistry) Phases() []telemetry.Phase {
	out := make([]telemetry.Phase, len(r.systems))
	for i, info := range r.systems {
		out[i] = info.Phase
	}
	return out
}
