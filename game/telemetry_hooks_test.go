package game

import (
	"testing"
	"time"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/telemetry"
)

func TestTelemetryWindows(t *testing.T) {
	g := defaultGame(t)

	var windows []telemetry.WindowStats
	g.EnableTelemetry(TelemetryOptions{
		StatsWindow:   5,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	for i := 0; i < 4; i++ {
		g.Step()
	}
	if len(windows) != 0 {
		t.Fatalf("flushed %d windows before the window closed", len(windows))
	}

	g.Step()
	if len(windows) != 1 {
		t.Fatalf("flushed %d windows, want 1", len(windows))
	}
	w := windows[0]
	if w.WindowStartTick != 0 || w.WindowEndTick != 5 {
		t.Errorf("window = [%d, %d], want [0, 5]", w.WindowStartTick, w.WindowEndTick)
	}
	if w.PreyCount != g.AliveCount(components.SpeciesPrey) || w.PredCount != g.AliveCount(components.SpeciesPredator) {
		t.Errorf("window counts %d/%d, game has %d/%d", w.PreyCount, w.PredCount,
			g.AliveCount(components.SpeciesPrey), g.AliveCount(components.SpeciesPredator))
	}
	if w.VegetationQt != g.VegetationTotal() {
		t.Errorf("window vegetation = %d, want %d", w.VegetationQt, g.VegetationTotal())
	}

	for i := 0; i < 10; i++ {
		g.Step()
	}
	if len(windows) != 3 || windows[2].WindowStartTick != 10 || windows[2].WindowEndTick != 15 {
		t.Errorf("windows = %+v", windows)
	}
}

func TestCreateSnapshotRoundTrip(t *testing.T) {
	g := defaultGame(t)
	for i := 0; i < 3; i++ {
		g.Step()
	}

	bm := &telemetry.Bookmark{Type: telemetry.BookmarkStableEcosystem, Tick: g.Tick()}
	snap := g.createSnapshot(bm)

	total := len(g.Population(components.SpeciesPrey)) + len(g.Population(components.SpeciesPredator))
	if len(snap.Animals) != total {
		t.Errorf("snapshot has %d animals, registries hold %d", len(snap.Animals), total)
	}
	if len(snap.Shelters) != len(g.Grid().Shelters()) {
		t.Errorf("snapshot has %d shelters, want %d", len(snap.Shelters), len(g.Grid().Shelters()))
	}
	veg := 0
	for _, v := range snap.Vegetation {
		veg += v.Quantity
	}
	if veg != g.VegetationTotal() {
		t.Errorf("snapshot vegetation = %d, want %d", veg, g.VegetationTotal())
	}

	dir := t.TempDir()
	path, err := telemetry.SaveSnapshot(snap, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	loaded, err := telemetry.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Tick != 3 || loaded.Size != g.Grid().Size() || len(loaded.Animals) != total {
		t.Errorf("loaded snapshot = tick %d size %d animals %d", loaded.Tick, loaded.Size, len(loaded.Animals))
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != telemetry.BookmarkStableEcosystem {
		t.Error("bookmark lost in round trip")
	}
}

func TestPerfCountsAnimalsStepped(t *testing.T) {
	g := defaultGame(t)
	pc := telemetry.NewPerfCollector(1)
	g.SetPerfCollector(pc)

	rabbits := len(g.Population(components.SpeciesPrey))
	foxes := len(g.Population(components.SpeciesPredator))
	g.Step()

	st := pc.Stats()
	if st.Ticks != 1 {
		t.Fatalf("Ticks = %d, want 1", st.Ticks)
	}
	if st.Acted[components.SpeciesPrey] != float64(rabbits) || st.Acted[components.SpeciesPredator] != float64(foxes) {
		t.Errorf("Acted = %v, want [%d %d]", st.Acted, rabbits, foxes)
	}
	if st.AvgTickDuration <= 0 {
		t.Error("tick not timed")
	}
	var phases time.Duration
	for _, ph := range st.Phases {
		phases += ph.Avg
	}
	if phases > st.AvgTickDuration {
		t.Errorf("phase sum %v exceeds tick %v", phases, st.AvgTickDuration)
	}
}
