package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/warren/components"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyExtinct      BookmarkType = "prey_extinct"
	BookmarkPredatorExtinct  BookmarkType = "predator_extinct"
	BookmarkOvergrazing      BookmarkType = "overgrazing"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// stableWindows is the number of consecutive low-variance windows that
// mark a stable ecosystem.
const stableWindows = 4

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Tick        int32        `json:"tick"`
	Description string       `json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the population history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPredMin      int
	recentPreyPeak     int
	vegetationPeak     int
	extinct            [components.NumSpecies]bool
	stableWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindows {
		historySize = stableWindows
	}
	return &BookmarkDetector{
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
		recentPredMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats, components.SpeciesPrey, stats.PreyCount, BookmarkPreyExtinct); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkExtinction(stats, components.SpeciesPredator, stats.PredCount, BookmarkPredatorExtinct); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPreyCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPredatorRecovery(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkOvergrazing(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Track predator minimum, prey and vegetation peaks
	if bd.recentPredMin < 0 || stats.PredCount < bd.recentPredMin {
		bd.recentPredMin = stats.PredCount
	}
	if stats.PreyCount > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.PreyCount
	}
	if stats.VegetationQt > bd.vegetationPeak {
		bd.vegetationPeak = stats.VegetationQt
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns the last n windows in chronological order.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	if n > count {
		return nil
	}
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats, s components.Species, count int, typ BookmarkType) *Bookmark {
	if count > 0 {
		bd.extinct[s] = false
		return nil
	}
	if bd.extinct[s] {
		return nil
	}
	bd.extinct[s] = true
	return &Bookmark{
		Type:        typ,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No live %s left", s),
	}
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 || stats.PreyCount == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.PreyCount)/float64(bd.recentPreyPeak)
	if dropPercent > 0.30 && stats.PreyCount <= bd.recentPreyPeak-3 {
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.PreyCount

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.PreyCount),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	if bd.recentPredMin <= 0 || bd.recentPredMin > 2 {
		return nil
	}

	if stats.PredCount >= bd.recentPredMin*3 {
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.PredCount

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.PredCount),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkOvergrazing(stats WindowStats) *Bookmark {
	if bd.vegetationPeak == 0 {
		return nil
	}
	if stats.VegetationQt*2 < bd.vegetationPeak {
		oldPeak := bd.vegetationPeak
		bd.vegetationPeak = stats.VegetationQt

		return &Bookmark{
			Type:        BookmarkOvergrazing,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Vegetation fell from %d to %d", oldPeak, stats.VegetationQt),
		}
	}
	return nil
}

// checkStableEcosystem fires once when both populations have kept a
// coefficient of variation below 0.2 over the last windows.
func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.PreyCount == 0 || stats.PredCount == 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	window := bd.recent(stableWindows)
	if window == nil {
		return nil
	}

	prey := make([]float64, len(window))
	pred := make([]float64, len(window))
	for i, h := range window {
		prey[i] = float64(h.PreyCount)
		pred[i] = float64(h.PredCount)
	}

	if PopulationCV(prey) < 0.2 && PopulationCV(pred) < 0.2 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 1 {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over %d windows", stats.PreyCount, stats.PredCount, stableWindows),
		}
	}
	return nil
}

// PopulationCV returns the population coefficient of variation of counts,
// or 0 when the mean is zero.
func PopulationCV(counts []float64) float64 {
	mean, std := stat.PopMeanStdDev(counts, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
