package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population counts at window end
	PreyCount int `csv:"prey"`
	PredCount int `csv:"pred"`

	// Events during window
	PreyBirths   int `csv:"prey_births"`
	PredBirths   int `csv:"pred_births"`
	PreyStarved  int `csv:"prey_starved"`
	PredStarved  int `csv:"pred_starved"`
	PreyDiedOld  int `csv:"prey_died_old"`
	PredDiedOld  int `csv:"pred_died_old"`
	Eaten        int `csv:"eaten"`
	Decomposed   int `csv:"decomposed"`
	Moves        int `csv:"moves"`
	Spreads      int `csv:"spreads"`
	VegetationQt int `csv:"vegetation"`

	// Satiety distribution as a ratio of max (sampled at window end)
	PreySatietyMean float64 `csv:"prey_satiety_mean"`
	PreySatietyStd  float64 `csv:"prey_satiety_std"`
	PreySatietyP10  float64 `csv:"prey_satiety_p10"`
	PreySatietyP50  float64 `csv:"prey_satiety_p50"`
	PreySatietyP90  float64 `csv:"prey_satiety_p90"`

	PredSatietyMean float64 `csv:"pred_satiety_mean"`
	PredSatietyStd  float64 `csv:"pred_satiety_std"`
	PredSatietyP10  float64 `csv:"pred_satiety_p10"`
	PredSatietyP50  float64 `csv:"pred_satiety_p50"`
	PredSatietyP90  float64 `csv:"pred_satiety_p90"`
}

// DistributionStats summarises a sample.
type DistributionStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, standard deviation and percentiles.
// Returns zeros for an empty sample.
func ComputeDistribution(values []float64) DistributionStats {
	if len(values) == 0 {
		return DistributionStats{}
	}

	var d DistributionStats
	if len(values) == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	// Sort for percentiles
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)
	return d
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"prey", s.PreyCount,
		"pred", s.PredCount,
		"prey_births", s.PreyBirths,
		"pred_births", s.PredBirths,
		"prey_starved", s.PreyStarved,
		"pred_starved", s.PredStarved,
		"prey_died_old", s.PreyDiedOld,
		"pred_died_old", s.PredDiedOld,
		"eaten", s.Eaten,
		"decomposed", s.Decomposed,
		"moves", s.Moves,
		"spreads", s.Spreads,
		"vegetation", s.VegetationQt,
		"prey_satiety_mean", s.PreySatietyMean,
		"prey_satiety_p50", s.PreySatietyP50,
		"pred_satiety_mean", s.PredSatietyMean,
		"pred_satiety_p50", s.PredSatietyP50,
	)
}
