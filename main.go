package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/integrii/flaggy"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/renderer"
	"github.com/pthm-cable/warren/telemetry"
	"github.com/pthm-cable/warren/view"
)

const (
	modeHeadless = "headless"
	modeWindow   = "window"
	modeTerminal = "terminal"
)

var modes = []string{modeHeadless, modeWindow, modeTerminal}

type options struct {
	configPath     string
	mode           string
	seed           int64
	maxTicks       int
	interval       time.Duration
	statsWindow    int
	outputDir      string
	snapshotDir    string
	settingsDir    string
	logEvents      bool
	logStats       bool
	startPaused    bool
	debug          bool
	noColor        bool
	exportSettings bool
}

func main() {
	opts := options{mode: modeWindow}

	flaggy.SetName("warren")
	flaggy.SetDescription("Rabbits and foxes on a grid of grass, thickets and shelters")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&opts.configPath, "c", "config", "Path to a YAML config merged over the defaults")
	flaggy.String(&opts.mode, "m", "mode", "Viewer ["+strings.Join(modes, "|")+"]")
	flaggy.Int64(&opts.seed, "s", "seed", "RNG seed (0 = config value, then time-based)")
	flaggy.Int(&opts.maxTicks, "t", "max-ticks", "Stop after N ticks (0 = config value)")
	flaggy.Duration(&opts.interval, "i", "interval", "Pause between ticks in viewer modes, for example 150ms")
	flaggy.Int(&opts.statsWindow, "w", "stats-window", "Ticks per stats window (0 = config value)")
	flaggy.String(&opts.outputDir, "o", "output-dir", "Directory for CSV logs and a config snapshot")
	flaggy.String(&opts.snapshotDir, "", "snapshot-dir", "Directory for bookmark snapshots")
	flaggy.String(&opts.settingsDir, "", "settings-dir", "Directory for exported settings")
	flaggy.Bool(&opts.exportSettings, "e", "export-settings", "Write the effective settings to a timestamped file and exit")
	flaggy.Bool(&opts.logEvents, "", "log-events", "Log every simulation event")
	flaggy.Bool(&opts.logStats, "", "log-stats", "Log window statistics")
	flaggy.Bool(&opts.startPaused, "p", "paused", "Start viewers paused")
	flaggy.Bool(&opts.debug, "d", "debug", "Enable debug logging")
	flaggy.Bool(&opts.noColor, "", "no-color", "Disable colors in the terminal viewer")
	flaggy.Parse()

	if !validMode(opts.mode) {
		flaggy.ShowHelpAndExit("unknown mode " + opts.mode)
	}

	if err := run(opts); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func validMode(m string) bool {
	for _, v := range modes {
		if v == m {
			return true
		}
	}
	return false
}

func setupLogging(opts options) {
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	// The terminal viewer owns stdout
	out := os.Stdout
	if opts.mode == modeTerminal {
		out = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func run(opts options) error {
	setupLogging(opts)

	if err := config.Init(opts.configPath); err != nil {
		return err
	}
	cfg := config.Cfg()
	applyOverrides(cfg, opts)

	if opts.exportSettings {
		dir := opts.settingsDir
		if dir == "" {
			dir = "."
		}
		path, err := cfg.ExportSettings(dir, time.Now())
		if err != nil {
			return err
		}
		slog.Info("settings exported", "path", path)
		return nil
	}

	g, err := game.New(cfg, rand.New(rand.NewSource(cfg.Run.Seed)))
	if err != nil {
		return err
	}

	output, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	g.SetPerfCollector(telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow))
	g.EnableTelemetry(game.TelemetryOptions{
		StatsWindow: cfg.Telemetry.StatsWindow,
		Output:      output,
		LogStats:    opts.logStats,
		SnapshotDir: opts.snapshotDir,
		Seed:        cfg.Run.Seed,
	})
	if opts.logEvents {
		g.AddObserver(telemetry.NewEventLogger(nil))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting simulation",
		"mode", opts.mode,
		"seed", cfg.Run.Seed,
		"size", cfg.World.Size,
		"max_ticks", cfg.Run.MaxTicks,
		"output_dir", output.Dir(),
	)

	switch opts.mode {
	case modeHeadless:
		err = runHeadless(ctx, g, cfg)
	case modeTerminal:
		err = runViewer(ctx, g, cfg, opts, func(r *game.Runner) error {
			return view.NewTerminal(r, !opts.noColor).Run(ctx)
		})
	default:
		err = runViewer(ctx, g, cfg, opts, func(r *game.Runner) error {
			renderer.NewWindow(r, windowOptions(cfg)).Run(ctx)
			return nil
		})
	}
	if err != nil {
		return err
	}
	return output.Err()
}

// applyOverrides copies command line values over the loaded config.
func applyOverrides(cfg *config.Config, opts options) {
	if opts.seed != 0 {
		cfg.Run.Seed = opts.seed
	}
	if cfg.Run.Seed == 0 {
		cfg.Run.Seed = time.Now().UnixNano()
	}
	if opts.maxTicks > 0 {
		cfg.Run.MaxTicks = opts.maxTicks
	}
	if opts.interval > 0 {
		cfg.Run.Interval = opts.interval
	}
	if opts.statsWindow > 0 {
		cfg.Telemetry.StatsWindow = opts.statsWindow
	}
	if opts.outputDir != "" {
		cfg.Telemetry.OutputDir = opts.outputDir
	}
}

func windowOptions(cfg *config.Config) renderer.WindowOptions {
	wo := renderer.WindowOptions{
		Title:     "Warren",
		Width:     cfg.Screen.Width,
		Height:    cfg.Screen.Height,
		TargetFPS: cfg.Screen.TargetFPS,
	}
	for s := components.Species(0); s < components.NumSpecies; s++ {
		wo.Vision[s] = cfg.Table(s).VisionRange
	}
	return wo
}

// runHeadless ticks as fast as possible and only reads counts.
func runHeadless(ctx context.Context, g *game.Game, cfg *config.Config) error {
	r := game.NewRunner(g, game.RunnerOptions{MaxTicks: cfg.Run.MaxTicks, NoSnapshots: true})
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()

	var last game.Status
	for st := range r.Status() {
		last = st
	}
	err := <-errc

	slog.Info("simulation ended",
		"tick", last.Tick,
		"rabbits", last.Prey,
		"foxes", last.Predators,
		"vegetation", last.Vegetation,
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runViewer runs the game on its own goroutine while show owns the caller's.
func runViewer(ctx context.Context, g *game.Game, cfg *config.Config, opts options, show func(*game.Runner) error) error {
	r := game.NewRunner(g, game.RunnerOptions{
		MaxTicks:    cfg.Run.MaxTicks,
		Interval:    cfg.Run.Interval,
		StartPaused: opts.startPaused,
	})
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()

	if err := show(r); err != nil {
		return err
	}
	// Unblock a final publish nobody reads anymore
	go func() {
		for range r.Status() {
		}
	}()
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
