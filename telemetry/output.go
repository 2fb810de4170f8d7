package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/warren/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	perfFile      *os.File
	eventsFile    *os.File

	// Track if headers have been written
	telemetryHeaderWritten bool
	perfHeaderWritten      bool
	eventsHeaderWritten    bool

	// First write error from Observe, which cannot return one
	observeErr error
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	// Create output directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	files := []struct {
		name string
		dst  **os.File
	}{
		{"telemetry.csv", &om.telemetryFile},
		{"perf.csv", &om.perfFile},
		{"events.csv", &om.eventsFile},
	}
	for _, f := range files {
		h, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.dst = h
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// writeRecords marshals records, with headers on the first write only.
func writeRecords(f *os.File, headerWritten *bool, records any) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.telemetryFile, &om.telemetryHeaderWritten, []WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.perfFile, &om.perfHeaderWritten, []PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// EventRow is the flat CSV form of an Event.
type EventRow struct {
	Tick    int32  `csv:"tick"`
	Type    string `csv:"event"`
	Entity  uint32 `csv:"entity"`
	Species string `csv:"species"`
	Age     string `csv:"age"`
	Other   uint32 `csv:"other"`
	From    int    `csv:"from"`
	To      int    `csv:"to"`
}

// Row converts the event for CSV export. Spread events carry no animal.
func (ev Event) Row() EventRow {
	row := EventRow{
		Tick: ev.Tick,
		Type: ev.Type.String(),
		From: int(ev.From),
		To:   int(ev.To),
	}
	if ev.Type != EventSpread {
		row.Entity = ev.Entity.ID()
		row.Species = ev.Species.String()
		row.Age = ev.Age.String()
		row.Other = ev.Other.ID()
	}
	return row
}

// WriteEvents appends the events of one tick to events.csv.
func (om *OutputManager) WriteEvents(events []Event) error {
	if om == nil || len(events) == 0 {
		return nil
	}
	rows := make([]EventRow, len(events))
	for i := range events {
		rows[i] = events[i].Row()
	}
	if err := writeRecords(om.eventsFile, &om.eventsHeaderWritten, rows); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	return nil
}

// Observe writes tick events. The first error is kept for Err.
func (om *OutputManager) Observe(_ int32, events []Event) {
	if om == nil || om.observeErr != nil {
		return
	}
	om.observeErr = om.WriteEvents(events)
}

// Err returns the first error hit while observing.
func (om *OutputManager) Err() error {
	if om == nil {
		return nil
	}
	return om.observeErr
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.telemetryFile, om.perfFile, om.eventsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
