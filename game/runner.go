package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/telemetry"
)

// RunningState is the mode of a Runner.
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateRun
	RunningStateFinished
)

// String returns the state name.
func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "paused"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

// Status is published after every tick and on every mode change.
type Status struct {
	Tick        int32
	Prey        int
	Predators   int
	Vegetation  int
	RunningMode RunningState
	Snapshot    *Snapshot            // nil when the runner publishes counts only
	Perf        *telemetry.PerfStats // nil unless the game has a perf collector
}

type command int

const (
	cmdRun command = iota
	cmdPause
	cmdStep
	cmdClose
)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	MaxTicks    int           // 0 runs until no animal is alive
	Interval    time.Duration // pause between ticks while running
	StartPaused bool
	NoSnapshots bool // publish counts only
}

// Runner drives a Game on a single goroutine. Viewers control it through
// Resume, Pause, Step and Close and read only the snapshots it publishes.
type Runner struct {
	game    *Game
	opts    RunnerOptions
	mode    RunningState
	control chan command
	status  chan Status
	done    chan struct{}
}

// NewRunner creates a runner for g. Call Run to start it.
func NewRunner(g *Game, opts RunnerOptions) *Runner {
	mode := RunningStateRun
	if opts.StartPaused {
		mode = RunningStateManual
	}
	return &Runner{
		game:    g,
		opts:    opts,
		mode:    mode,
		control: make(chan command, 4),
		status:  make(chan Status, 8),
		done:    make(chan struct{}),
	}
}

// Status returns the channel of status updates. It is closed when Run returns.
func (r *Runner) Status() <-chan Status {
	return r.status
}

// Resume continues ticking.
func (r *Runner) Resume() { r.send(cmdRun) }

// Pause stops ticking until Resume or Step.
func (r *Runner) Pause() { r.send(cmdPause) }

// Step advances one tick while paused.
func (r *Runner) Step() { r.send(cmdStep) }

// Close makes Run return.
func (r *Runner) Close() { r.send(cmdClose) }

func (r *Runner) send(c command) {
	select {
	case r.control <- c:
	case <-r.done:
	}
}

// Run owns the game until ctx is cancelled, Close is called, or the run
// finishes (tick limit reached or no animal left). Cancellation is only
// observed between ticks. Returns ctx.Err() on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.status)
	defer close(r.done)

	r.publish(ctx, true)

	var ticker *time.Ticker
	if r.opts.Interval > 0 {
		ticker = time.NewTicker(r.opts.Interval)
		defer ticker.Stop()
	}

	for {
		if r.mode == RunningStateFinished {
			return nil
		}

		// Free-running: check for commands without waiting
		if r.mode == RunningStateRun && ticker == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case c := <-r.control:
				if r.handle(ctx, c) {
					return nil
				}
			default:
				r.advance(ctx)
			}
			continue
		}

		var tick <-chan time.Time
		if r.mode == RunningStateRun {
			tick = ticker.C
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-r.control:
			if r.handle(ctx, c) {
				return nil
			}
		case <-tick:
			r.advance(ctx)
		}
	}
}

// handle applies a command and reports whether the runner should stop.
func (r *Runner) handle(ctx context.Context, c command) bool {
	switch c {
	case cmdRun:
		r.setMode(ctx, RunningStateRun)
	case cmdPause:
		r.setMode(ctx, RunningStateManual)
	case cmdStep:
		if r.mode == RunningStateManual {
			r.advance(ctx)
		}
	case cmdClose:
		return true
	}
	return false
}

func (r *Runner) setMode(ctx context.Context, m RunningState) {
	if r.mode == m || r.mode == RunningStateFinished {
		return
	}
	r.mode = m
	r.publish(ctx, true)
}

// advance runs one tick and finishes the run when a stop condition holds.
func (r *Runner) advance(ctx context.Context) {
	r.game.Step()

	tick := int(r.game.Tick())
	switch {
	case r.opts.MaxTicks > 0 && tick >= r.opts.MaxTicks:
		slog.Info("tick limit reached", "tick", tick)
		r.mode = RunningStateFinished
	case !r.game.HasAliveAnimals():
		slog.Info("no animals left", "tick", tick)
		r.mode = RunningStateFinished
	}
	r.publish(ctx, r.mode == RunningStateFinished)
}

// publish sends the current status. Regular updates are dropped when the
// channel is full; mode changes wait for a reader or cancellation.
func (r *Runner) publish(ctx context.Context, wait bool) {
	g := r.game
	st := Status{
		Tick:        g.Tick(),
		Prey:        g.AliveCount(components.SpeciesPrey),
		Predators:   g.AliveCount(components.SpeciesPredator),
		Vegetation:  g.VegetationTotal(),
		RunningMode: r.mode,
	}
	if !r.opts.NoSnapshots {
		st.Snapshot = g.Snapshot()
	}
	if g.perfCollector != nil {
		perf := g.perfCollector.Stats()
		st.Perf = &perf
	}

	if !wait {
		select {
		case r.status <- st:
		default:
		}
		return
	}
	select {
	case r.status <- st:
	case <-ctx.Done():
	}
}
