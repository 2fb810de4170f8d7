package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Tick       int32
	Rabbits    int
	Foxes      int
	Vegetation int
	State      string
	FPS        int32
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Rabbits: %d | Foxes: %d | Vegetation: %d", data.Rabbits, data.Foxes, data.Vegetation),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(fmt.Sprintf("Tick: %d | FPS: %d", data.Tick, data.FPS), 10, 55, 16, rl.LightGray)
	rl.DrawText(data.State, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timings.
type PerfPanel struct {
	x, y     int32
	registry *systems.SystemRegistry
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32, registry *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{x: x, y: y, registry: registry}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg tick: %s p95 %s (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond),
		stats.P95TickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, ph := range p.registry.Phases() {
		st := stats.Phases[ph]
		color := rl.LightGray
		if st.Pct > 50 {
			color = rl.Red
		} else if st.Pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", p.registry.GetName(ph), st.Avg.Round(time.Microsecond), st.Pct),
			x, y, 12, color,
		)
		y += 14
	}

	y += 4
	for sp := components.Species(0); sp < components.NumSpecies; sp++ {
		rl.DrawText(
			fmt.Sprintf("%-10s %6.0f x %s", speciesName(sp), stats.Acted[sp], stats.PerAnimal[sp]),
			x, y, 12, rl.LightGray,
		)
		y += 14
	}
}
