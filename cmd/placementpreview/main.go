// Placement preview tool - shows the initial world for the current config
// with sliders for the vegetation placement parameters.
//
// Usage: go run ./cmd/placementpreview -c sim.yaml
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/integrii/flaggy"

	"github.com/pthm-cable/warren/camera"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/renderer"
	"github.com/pthm-cable/warren/ui"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

// previewParams holds the values the sliders control.
type previewParams struct {
	Clustered  bool
	NoiseScale float32
	Grass      int
	Thick      int
	Seed       int64
}

func main() {
	configPath := ""
	flaggy.SetName("placementpreview")
	flaggy.String(&configPath, "c", "config", "Base config YAML file (empty = use defaults)")
	flaggy.Parse()

	base, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "placementpreview:", err)
		os.Exit(1)
	}

	params := previewParams{
		Clustered:  base.World.Placement == config.PlacementClustered,
		NoiseScale: float32(base.World.NoiseScale),
		Grass:      base.World.Grass,
		Thick:      base.World.ThickVegetation,
		Seed:       1,
	}

	rl.InitWindow(windowWidth, windowHeight, "Placement Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cam := camera.New(previewSize, previewSize, base.World.Size, 32)
	grid := renderer.NewGridRenderer()
	overlays := ui.NewOverlayRegistry()
	overlays.SetEnabled(ui.OverlayGridLines, true)

	var snap *game.Snapshot
	var buildErr error
	needsRegen := true
	maxVeg := float32(base.Derived.Cells)

	for !rl.WindowShouldClose() {
		if needsRegen {
			snap, buildErr = build(base, params)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// The camera viewport sits at the window origin
		rl.BeginScissorMode(0, 0, previewSize, previewSize)
		rl.DrawRectangle(0, 0, previewSize, previewSize, rl.Black)
		if snap != nil {
			grid.Draw(snap, cam, overlays)
		}
		rl.EndScissorMode()
		rl.DrawRectangleLines(0, 0, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		if buildErr != nil {
			rl.DrawText(buildErr.Error(), 15, statsY, 16, rl.Red)
		} else if snap != nil {
			rl.DrawText(fmt.Sprintf("Vegetation: %d  Rabbits: %d  Foxes: %d", snap.Vegetation, snap.Prey, snap.Predators), 15, statsY, 16, rl.DarkGray)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Vegetation Placement", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		clustered := gui.CheckBox(rl.Rectangle{X: panelX, Y: panelY, Width: 20, Height: 20}, "Clustered (simplex noise)", params.Clustered)
		if clustered != params.Clustered {
			params.Clustered = clustered
			needsRegen = true
		}
		panelY += 35

		// Noise scale slider
		rl.DrawText("Noise scale (patch size in cells)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		if !params.Clustered {
			gui.Disable()
		}
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "20",
			params.NoiseScale, 1, 20,
		)
		gui.Enable()
		rl.DrawText(fmt.Sprintf("%.1f", params.NoiseScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.NoiseScale {
			params.NoiseScale = newScale
			needsRegen = true
		}
		panelY += 35

		// Grass slider
		rl.DrawText("Grass cells", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newGrass := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", fmt.Sprint(int(maxVeg)),
			float32(params.Grass), 0, maxVeg,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Grass), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newGrass) != params.Grass {
			params.Grass = int(newGrass)
			needsRegen = true
		}
		panelY += 35

		// Thick vegetation slider
		rl.DrawText("Thick vegetation cells", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newThick := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", fmt.Sprint(int(maxVeg)),
			float32(params.Thick), 0, maxVeg,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Thick), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newThick) != params.Thick {
			params.Thick = int(newThick)
			needsRegen = true
		}
		panelY += 35

		// Separator
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		rl.DrawText(fmt.Sprintf("Seed: %d", params.Seed), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "New seed") {
			params.Seed++
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Export") {
			cfg := apply(base, params)
			if path, err := cfg.ExportSettings(".", time.Now()); err != nil {
				buildErr = err
			} else {
				fmt.Println("settings written to", path)
			}
		}

		rl.EndDrawing()
	}
}

// apply copies the slider values over the base config.
func apply(base *config.Config, p previewParams) *config.Config {
	cfg := base.Clone()
	cfg.World.Placement = config.PlacementUniform
	if p.Clustered {
		cfg.World.Placement = config.PlacementClustered
	}
	cfg.World.NoiseScale = float64(p.NoiseScale)
	cfg.World.Grass = p.Grass
	cfg.World.ThickVegetation = p.Thick
	return cfg
}

// build creates the initial world for the slider values.
func build(base *config.Config, p previewParams) (*game.Snapshot, error) {
	g, err := game.New(apply(base, p), rand.New(rand.NewSource(p.Seed)))
	if err != nil {
		return nil, err
	}
	return g.Snapshot(), nil
}
