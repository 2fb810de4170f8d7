package telemetry

import "github.com/pthm-cable/warren/components"

// Collector accumulates events within tick windows and produces WindowStats.
// It implements Observer.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	// Event counters for current window
	births     [components.NumSpecies]int
	starved    [components.NumSpecies]int
	diedOld    [components.NumSpecies]int
	eaten      int
	decomposed int
	moves      int
	spreads    int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// Observe records the events of one tick.
func (c *Collector) Observe(_ int32, events []Event) {
	for i := range events {
		c.Record(events[i])
	}
}

// Record counts a single event.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventBorn:
		c.births[ev.Species]++
	case EventStarved:
		c.starved[ev.Species]++
	case EventDiedOfAge:
		c.diedOld[ev.Species]++
	case EventEaten:
		c.eaten++
	case EventDecomposed:
		c.decomposed++
	case EventMoved:
		c.moves++
	case EventSpread:
		c.spreads++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// PopulationSample is the state sampled at the end of a window.
type PopulationSample struct {
	PreyCount, PredCount     int
	PreySatiety, PredSatiety []float64 // satiety ratios of live animals
	VegetationTotal          int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample PopulationSample) WindowStats {
	prey := ComputeDistribution(sample.PreySatiety)
	pred := ComputeDistribution(sample.PredSatiety)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		PreyCount: sample.PreyCount,
		PredCount: sample.PredCount,

		PreyBirths:   c.births[components.SpeciesPrey],
		PredBirths:   c.births[components.SpeciesPredator],
		PreyStarved:  c.starved[components.SpeciesPrey],
		PredStarved:  c.starved[components.SpeciesPredator],
		PreyDiedOld:  c.diedOld[components.SpeciesPrey],
		PredDiedOld:  c.diedOld[components.SpeciesPredator],
		Eaten:        c.eaten,
		Decomposed:   c.decomposed,
		Moves:        c.moves,
		Spreads:      c.spreads,
		VegetationQt: sample.VegetationTotal,

		PreySatietyMean: prey.Mean,
		PreySatietyStd:  prey.Std,
		PreySatietyP10:  prey.P10,
		PreySatietyP50:  prey.P50,
		PreySatietyP90:  prey.P90,

		PredSatietyMean: pred.Mean,
		PredSatietyStd:  pred.Std,
		PredSatietyP10:  pred.P10,
		PredSatietyP50:  pred.P50,
		PredSatietyP90:  pred.P90,
	}

	// Reset counters
	*c = Collector{windowTicks: c.windowTicks, windowStartTick: currentTick}

	return stats
}
