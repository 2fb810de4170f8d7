package game

import (
	"log/slog"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
)

// TelemetryOptions configures window statistics for a game.
type TelemetryOptions struct {
	StatsWindow int // ticks per window

	Output      *telemetry.OutputManager // may be nil
	LogStats    bool
	SnapshotDir string // bookmark snapshots are saved here when set
	Seed        int64  // recorded in snapshots

	// Called with every flushed window
	StatsCallback func(telemetry.WindowStats)
}

type telemetryState struct {
	opts      TelemetryOptions
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
}

// EnableTelemetry starts collecting window statistics. Output, when set,
// also receives every tick's events.
func (g *Game) EnableTelemetry(opts TelemetryOptions) {
	t := &telemetryState{
		opts:      opts,
		collector: telemetry.NewCollector(opts.StatsWindow),
		bookmarks: telemetry.NewBookmarkDetector(10),
	}
	g.telemetry = t
	g.AddObserver(t.collector)
	if opts.Output != nil {
		g.AddObserver(opts.Output)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	t := g.telemetry
	if t == nil || !t.collector.ShouldFlush(g.tick) {
		return
	}

	stats := t.collector.Flush(g.tick, g.Sample())

	if t.opts.StatsCallback != nil {
		t.opts.StatsCallback(stats)
	}

	var perfStats telemetry.PerfStats
	if g.perfCollector != nil {
		perfStats = g.perfCollector.Stats()
	}

	if t.opts.LogStats {
		stats.LogStats()
		if g.perfCollector != nil {
			perfStats.LogStats()
		}
	}

	if out := t.opts.Output; out != nil {
		if err := out.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if g.perfCollector != nil {
			if err := out.WritePerf(perfStats, stats.WindowEndTick); err != nil {
				slog.Error("failed to write perf", "error", err)
			}
		}
	}

	for _, bm := range t.bookmarks.Check(stats) {
		if t.opts.LogStats {
			bm.LogBookmark()
		}
		if t.opts.SnapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, g.telemetry.opts.SnapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a serializable snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		Size:     g.grid.Size(),
		Tick:     g.tick,
		Bookmark: bookmark,
	}
	if g.telemetry != nil {
		snapshot.RNGSeed = g.telemetry.opts.Seed
	}

	g.grid.EachCell(func(c *systems.Cell) {
		if !c.Vegetation.Present() {
			return
		}
		snapshot.Vegetation = append(snapshot.Vegetation, telemetry.VegetationState{
			Cell:          c.ID,
			Tier:          c.Vegetation.Tier.String(),
			Quantity:      c.Vegetation.Quantity,
			SinceRegrowth: c.Vegetation.SinceRegrowth,
		})
	})

	shelters := g.grid.Shelters()
	for i := range shelters {
		sh := &shelters[i]
		state := telemetry.ShelterState{
			Cell:     sh.Cell,
			Species:  sh.Species.String(),
			Capacity: sh.Capacity,
		}
		for _, id := range sh.Nearest {
			state.Nearest = append(state.Nearest, shelters[id].Cell)
		}
		for _, e := range sh.Members {
			state.Members = append(state.Members, e.ID())
		}
		snapshot.Shelters = append(snapshot.Shelters, state)
	}

	// Registry order, prey first
	for s := range g.registries {
		for _, e := range g.registries[s] {
			a := g.animals.Get(e)
			var home *components.CellID
			if a.HasShelter {
				cell := shelters[a.Shelter].Cell
				home = &cell
			}
			snapshot.Animals = append(snapshot.Animals,
				telemetry.NewAnimalState(e.ID(), a, g.positions.Get(e).Cell, home))
		}
	}

	return snapshot
}
