// Package main provides CMA-ES optimization for finding species tables
// that keep rabbits and foxes alive together.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/integrii/flaggy"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/warren/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// evalRow is one line of optimize_log.csv. Parameter values follow in
// Specs order.
type evalRow struct {
	Eval    int     `csv:"eval"`
	Fitness float64 `csv:"fitness"`
	Quality float64 `csv:"quality"`
	Params  string  `csv:"params"`
}

func main() {
	var (
		configPath = ""
		maxTicks   = 2000
		seeds      = 3
		maxEvals   = 200
		population = 0
		outputDir  = ""
	)
	flaggy.SetName("optimize")
	flaggy.SetDescription("Searches species tables for long-lived rabbit and fox populations")
	flaggy.String(&configPath, "c", "config", "Base config YAML file (empty = use defaults)")
	flaggy.Int(&maxTicks, "t", "max-ticks", "Maximum simulation duration in ticks (cap)")
	flaggy.Int(&seeds, "s", "seeds", "Number of seeds per evaluation")
	flaggy.Int(&maxEvals, "e", "max-evals", "Maximum number of evaluations")
	flaggy.Int(&population, "p", "population", "CMA-ES population size (0 = auto)")
	flaggy.String(&outputDir, "o", "output", "Output directory for results")
	flaggy.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if outputDir == "" {
		flaggy.ShowHelpAndExit("--output is required")
	}
	if err := run(configPath, int32(maxTicks), seeds, maxEvals, population, outputDir); err != nil {
		fmt.Fprintln(os.Stderr, "optimize:", err)
		os.Exit(1)
	}
}

func run(configPath string, maxTicks int32, seeds, maxEvals, population int, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	baseCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	params := NewParamVector()

	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, maxTicks, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}

	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logFile, err := os.Create(filepath.Join(outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 0.0
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fit := evaluator.Evaluate(raw)
			evalCount++

			clamped := params.Clamp(raw)
			if bestParams == nil || fit < bestFitness {
				bestFitness = fit
				bestParams = clamped
			}

			row := evalRow{Eval: evalCount, Fitness: fit, Quality: evaluator.LastQuality(), Params: formatParams(clamped)}
			var werr error
			if evalCount == 1 {
				werr = gocsv.Marshal([]evalRow{row}, logFile)
			} else {
				werr = gocsv.MarshalWithoutHeaders([]evalRow{row}, logFile)
			}
			if werr != nil {
				slog.Warn("writing eval log", "error", werr)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Printf("Eval %d/%d: fitness=%.0f quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
				evalCount, maxEvals, fit, evaluator.LastQuality(), bestFitness,
				formatDuration(elapsed), formatDuration(remaining))
			return fit
		},
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", seeds, maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluation completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.0f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.4f\n", spec.Name, spec.Path, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)
	out := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return err
	}
	fmt.Printf("\nBest config saved to: %s\n", out)
	return nil
}

func formatParams(v []float64) string {
	var b []byte
	for i, x := range v {
		if i > 0 {
			b = append(b, ' ')
		}
		b = strconv.AppendFloat(b, x, 'f', 4, 64)
	}
	return string(b)
}
