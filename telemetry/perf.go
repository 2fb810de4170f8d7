package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/warren/components"
)

// Phase is one stage of a simulation tick.
type Phase uint8

const (
	PhaseRegrow Phase = iota
	PhasePrey
	PhasePredators
	PhaseReconcile
	PhaseObserve
	NumPhases
)

var phaseNames = [NumPhases]string{"regrow", "prey", "predators", "reconcile", "observe"}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// PassPhase returns the phase in which animals of species s take their turn.
func PassPhase(s components.Species) Phase {
	if s == components.SpeciesPredator {
		return PhasePredators
	}
	return PhasePrey
}

// tickTiming is what one tick cost.
type tickTiming struct {
	total  time.Duration
	phases [NumPhases]time.Duration
	acted  [components.NumSpecies]int
}

// PerfCollector times tick phases and counts the animals stepped in each
// species pass, over a rolling window of ticks. Not safe for concurrent use.
type PerfCollector struct {
	ring   []tickTiming
	next   int
	filled int

	cur     tickTiming
	started time.Time
	mark    time.Time
	phase   Phase
	timing  bool
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickTiming, window)}
}

// BeginTick starts timing a tick.
func (p *PerfCollector) BeginTick() {
	p.cur = tickTiming{}
	p.started = time.Now()
	p.timing = false
}

// Enter closes the running phase and starts timing ph. A phase entered
// twice in one tick accumulates.
func (p *PerfCollector) Enter(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.mark, p.timing = ph, now, true
}

// Acted records that n animals of species s took a turn this tick.
func (p *PerfCollector) Acted(s components.Species, n int) {
	p.cur.acted[s] += n
}

// EndTick closes the tick and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.started)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.timing {
		p.cur.phases[p.phase] += now.Sub(p.mark)
		p.timing = false
	}
}

// PhaseStats is the average cost of a phase.
type PhaseStats struct {
	Avg time.Duration
	Pct float64 // share of the average tick
}

// PerfStats summarizes the collector window.
type PerfStats struct {
	Ticks int

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration
	TicksPerSecond  float64

	Phases [NumPhases]PhaseStats

	// Mean animals stepped per tick and mean pass time per stepped animal
	Acted     [components.NumSpecies]float64
	PerAnimal [components.NumSpecies]time.Duration
}

// Stats summarizes the ticks in the window.
func (p *PerfCollector) Stats() PerfStats {
	n := p.filled
	if n == 0 {
		return PerfStats{}
	}

	totals := make([]float64, n)
	var phaseSum [NumPhases]time.Duration
	var actedSum [components.NumSpecies]int
	for i, t := range p.ring[:n] {
		totals[i] = float64(t.total)
		for ph, d := range t.phases {
			phaseSum[ph] += d
		}
		for s, a := range t.acted {
			actedSum[s] += a
		}
	}

	mean := stat.Mean(totals, nil)
	sort.Float64s(totals)
	s := PerfStats{
		Ticks:           n,
		AvgTickDuration: time.Duration(mean),
		MinTickDuration: time.Duration(floats.Min(totals)),
		MaxTickDuration: time.Duration(floats.Max(totals)),
		P95TickDuration: time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil)),
	}
	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
	}

	for ph := range phaseSum {
		avg := phaseSum[ph] / time.Duration(n)
		s.Phases[ph].Avg = avg
		if mean > 0 {
			s.Phases[ph].Pct = float64(avg) / mean * 100
		}
	}

	for sp := components.Species(0); sp < components.NumSpecies; sp++ {
		s.Acted[sp] = float64(actedSum[sp]) / float64(n)
		if actedSum[sp] > 0 {
			s.PerAnimal[sp] = phaseSum[PassPhase(sp)] / time.Duration(actedSum[sp])
		}
	}
	return s
}

// LogStats logs the window summary.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"rabbit_ns", s.PerAnimal[components.SpeciesPrey].Nanoseconds(),
		"fox_ns", s.PerAnimal[components.SpeciesPredator].Nanoseconds(),
	}
	for ph := Phase(0); ph < NumPhases; ph++ {
		if pct := s.Phases[ph].Pct; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	RegrowPct    float64 `csv:"regrow_pct"`
	PreyPct      float64 `csv:"prey_pct"`
	PredatorsPct float64 `csv:"predators_pct"`
	ReconcilePct float64 `csv:"reconcile_pct"`
	ObservePct   float64 `csv:"observe_pct"`
	RabbitsActed float64 `csv:"rabbits_acted"`
	FoxesActed   float64 `csv:"foxes_acted"`
	RabbitStepNS int64   `csv:"rabbit_step_ns"`
	FoxStepNS    int64   `csv:"fox_step_ns"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		RegrowPct:    s.Phases[PhaseRegrow].Pct,
		PreyPct:      s.Phases[PhasePrey].Pct,
		PredatorsPct: s.Phases[PhasePredators].Pct,
		ReconcilePct: s.Phases[PhaseReconcile].Pct,
		ObservePct:   s.Phases[PhaseObserve].Pct,
		RabbitsActed: s.Acted[components.SpeciesPrey],
		FoxesActed:   s.Acted[components.SpeciesPredator],
		RabbitStepNS: s.PerAnimal[components.SpeciesPrey].Nanoseconds(),
		FoxStepNS:    s.PerAnimal[components.SpeciesPredator].Nanoseconds(),
	}
}
