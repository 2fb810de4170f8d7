package main

import (
	"math"

	"github.com/pthm-cable/warren/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // rounded before it is applied
	apply   func(cfg *config.Config, v float64)
	extract func(cfg *config.Config) float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Rabbits
			{Name: "prey_repro_thresh", Path: "species.prey.reproduction_threshold", Min: 0.3, Max: 0.9, Default: 0.5,
				apply:   func(c *config.Config, v float64) { c.Species.Prey.ReproductionThreshold = v },
				extract: func(c *config.Config) float64 { return c.Species.Prey.ReproductionThreshold }},
			{Name: "prey_repro_cost", Path: "species.prey.reproduction_cost", Min: 1.5, Max: 5, Default: 3,
				apply:   func(c *config.Config, v float64) { c.Species.Prey.ReproductionCost = v },
				extract: func(c *config.Config) float64 { return c.Species.Prey.ReproductionCost }},
			{Name: "prey_wander_ratio", Path: "species.prey.wander_ratio", Min: 0.3, Max: 0.9, Default: 0.6,
				apply:   func(c *config.Config, v float64) { c.Species.Prey.WanderRatio = v },
				extract: func(c *config.Config) float64 { return c.Species.Prey.WanderRatio }},
			{Name: "prey_decay_steps", Path: "species.prey.steps_before_decay", Min: 4, Max: 16, Default: 8, Integer: true,
				apply:   func(c *config.Config, v float64) { c.Species.Prey.StepsBeforeDecay = int(v) },
				extract: func(c *config.Config) float64 { return float64(c.Species.Prey.StepsBeforeDecay) }},
			// Foxes
			{Name: "pred_repro_thresh", Path: "species.predator.reproduction_threshold", Min: 0.5, Max: 0.95, Default: 0.8,
				apply:   func(c *config.Config, v float64) { c.Species.Predator.ReproductionThreshold = v },
				extract: func(c *config.Config) float64 { return c.Species.Predator.ReproductionThreshold }},
			{Name: "pred_repro_cost", Path: "species.predator.reproduction_cost", Min: 1.2, Max: 4, Default: 1.5,
				apply:   func(c *config.Config, v float64) { c.Species.Predator.ReproductionCost = v },
				extract: func(c *config.Config) float64 { return c.Species.Predator.ReproductionCost }},
			{Name: "pred_herd_ratio", Path: "species.predator.herd_ratio", Min: 0.4, Max: 1.0, Default: 0.7,
				apply:   func(c *config.Config, v float64) { c.Species.Predator.HerdRatio = v },
				extract: func(c *config.Config) float64 { return c.Species.Predator.HerdRatio }},
			{Name: "pred_wander_ratio", Path: "species.predator.wander_ratio", Min: 0.4, Max: 0.9, Default: 0.7,
				apply:   func(c *config.Config, v float64) { c.Species.Predator.WanderRatio = v },
				extract: func(c *config.Config) float64 { return c.Species.Predator.WanderRatio }},
			{Name: "pred_decay_steps", Path: "species.predator.steps_before_decay", Min: 8, Max: 24, Default: 14, Integer: true,
				apply:   func(c *config.Config, v float64) { c.Species.Predator.StepsBeforeDecay = int(v) },
				extract: func(c *config.Config) float64 { return float64(c.Species.Predator.StepsBeforeDecay) }},
			{Name: "pred_vision", Path: "species.predator.vision_range", Min: 2, Max: 6, Default: 3, Integer: true,
				apply:   func(c *config.Config, v float64) { c.Species.Predator.VisionRange = int(v) },
				extract: func(c *config.Config) float64 { return float64(c.Species.Predator.VisionRange) }},
			// Vegetation
			{Name: "regrow_interval", Path: "vegetation.regrow_interval", Min: 3, Max: 30, Default: 10, Integer: true,
				apply:   func(c *config.Config, v float64) { c.Vegetation.RegrowInterval = int(v) },
				extract: func(c *config.Config) float64 { return float64(c.Vegetation.RegrowInterval) }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds. Integer parameters are rounded.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct and refreshes
// its derived tables.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].apply(cfg, v)
	}
	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.extract(cfg)
	}
	return v
}
