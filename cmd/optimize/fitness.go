package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 25,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A species below minViablePop for extinctionGraceTicks consecutive ticks
// counts as functionally extinct.
const (
	minViablePop         = 2
	extinctionGraceTicks = 100
	warmupTicks          = 20
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Each seed runs on its own goroutine with its own game.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(cfg, s)
			q := computeQuality(r.windowStats)
			results[idx] = seedResult{fitness: fitness(r.survivalTicks, q), quality: q}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until functional extinction
// or maxTicks, whichever comes first. A config that cannot build a world
// survives zero ticks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g, err := game.New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return result
	}
	g.EnableTelemetry(game.TelemetryOptions{
		StatsWindow: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})

	var preyBelow, predBelow int32
	for g.Tick() < fe.maxTicks {
		g.Step()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		prey := g.AliveCount(components.SpeciesPrey)
		pred := g.AliveCount(components.SpeciesPredator)
		if prey == 0 || pred == 0 {
			result.survivalTicks = tick
			return result
		}

		preyBelow = below(prey, preyBelow)
		predBelow = below(pred, predBelow)
		if preyBelow >= extinctionGraceTicks || predBelow >= extinctionGraceTicks {
			result.survivalTicks = tick
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// below advances the consecutive low-population counter.
func below(count int, ticks int32) int32 {
	if count < minViablePop {
		return ticks + 1
	}
	return 0
}

// fitness is -(survivalTicks × (1 + 0.2 × quality)). Survival dominates;
// quality separates configs with similar survival.
func fitness(survival int32, quality float64) float64 {
	return -(float64(survival) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.30
	qualityWeightSatiety   = 0.20
	qualityWeightHunting   = 0.15

	qualityWarmupWindows = 2 // skip first N windows (warmup)
	qualityMinPop        = 2 // exclude windows where either species < this
	targetRatio          = 4.0
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var ratioSum, satietySum, huntSum float64
	var count, huntCount int
	preyCounts := make([]float64, 0, len(valid))
	predCounts := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.PreyCount < qualityMinPop || w.PredCount < qualityMinPop {
			continue
		}
		preyCounts = append(preyCounts, float64(w.PreyCount))
		predCounts = append(predCounts, float64(w.PredCount))
		count++

		// Rabbits per fox near the target ratio
		logErr := math.Log(float64(w.PreyCount) / float64(w.PredCount) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)

		// Median satiety near half full for both species
		preyH := math.Exp(-math.Pow((w.PreySatietyP50-0.5)/0.25, 2))
		predH := math.Exp(-math.Pow((w.PredSatietyP50-0.5)/0.25, 2))
		satietySum += (preyH + predH) / 2

		// Foxes actually catching rabbits
		if w.Eaten > 0 {
			perFox := float64(w.Eaten) / float64(w.PredCount)
			huntSum += 1 - math.Exp(-perFox)
			huntCount++
		}
	}
	if count == 0 {
		return 0
	}

	stability := 0.0
	if len(preyCounts) >= 2 {
		cvPrey := telemetry.PopulationCV(preyCounts)
		cvPred := telemetry.PopulationCV(predCounts)
		stability = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}
	hunting := 0.0
	if huntCount > 0 {
		hunting = huntSum / float64(huntCount)
	}

	quality := qualityWeightRatio*ratioSum/float64(count) +
		qualityWeightStability*stability +
		qualityWeightSatiety*satietySum/float64(count) +
		qualityWeightHunting*hunting
	return math.Max(0, math.Min(1, quality))
}
