package main

import (
	"testing"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/telemetry"
)

func TestDefaultVectorMatchesConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	want := pv.DefaultVector()
	for i, spec := range pv.Specs {
		if got[i] != want[i] {
			t.Errorf("%s: config has %v, default vector %v", spec.Name, got[i], want[i])
		}
		if want[i] < spec.Min || want[i] > spec.Max {
			t.Errorf("%s: default %v outside [%v, %v]", spec.Name, want[i], spec.Min, spec.Max)
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if d := back[i] - raw[i]; d > 1e-9 || d < -1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfigClampsAndRefreshes(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	v := pv.DefaultVector()
	for i, spec := range pv.Specs {
		if spec.Name == "pred_vision" {
			v[i] = 9.7
		}
		if spec.Name == "prey_repro_thresh" {
			v[i] = 0.42
		}
	}
	pv.ApplyToConfig(cfg, v)

	if got := cfg.Table(components.SpeciesPredator).VisionRange; got != 6 {
		t.Errorf("predator vision = %d, want clamped 6", got)
	}
	if got := cfg.Table(components.SpeciesPrey).ReproductionThreshold; got != 0.42 {
		t.Errorf("prey threshold in derived table = %v, want 0.42", got)
	}
	if config.Default().Species.Predator.VisionRange != 3 {
		t.Error("defaults changed")
	}
}

func TestComputeQuality(t *testing.T) {
	steady := func(n int) []telemetry.WindowStats {
		ws := make([]telemetry.WindowStats, n)
		for i := range ws {
			ws[i] = telemetry.WindowStats{PreyCount: 20, PredCount: 5, Eaten: 5, PreySatietyP50: 0.5, PredSatietyP50: 0.5}
		}
		return ws
	}

	if q := computeQuality(steady(2)); q != 0 {
		t.Errorf("warmup-only quality = %v, want 0", q)
	}
	q := computeQuality(steady(10))
	if q < 0.9 || q > 1 {
		t.Errorf("steady ecosystem quality = %v, want close to 1", q)
	}

	crashed := steady(10)
	for i := range crashed {
		crashed[i].PredCount = 1
	}
	if q := computeQuality(crashed); q != 0 {
		t.Errorf("quality without viable foxes = %v, want 0", q)
	}
}

func TestFitnessPrefersSurvival(t *testing.T) {
	if fitness(100, 1) >= fitness(50, 1) {
		t.Error("longer survival should have lower fitness")
	}
	if fitness(100, 1) >= fitness(100, 0) {
		t.Error("higher quality should have lower fitness")
	}
}
