package renderer

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warren/camera"
	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/ui"
)

const controlsHelp = "SPACE run/pause | N step | arrows/right drag pan | wheel zoom | HOME fit | TAB panel | P phases"

// WindowOptions configures the window viewer.
type WindowOptions struct {
	Title     string
	Width     int
	Height    int
	TargetFPS int
	CellSize  float32
	Vision    [components.NumSpecies]int // vision range per species for the overlay
}

// Window shows the snapshots a Runner publishes and forwards the user's
// run controls to it. It must run on the main goroutine.
type Window struct {
	runner *game.Runner
	opts   WindowOptions

	camera    *camera.Camera
	grid      *GridRenderer
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	perf      *ui.PerfPanel
	inspector *ui.Inspector

	status   game.Status
	hasFrame bool
	showPerf bool
}

// NewWindow creates a viewer for r.
func NewWindow(r *game.Runner, opts WindowOptions) *Window {
	if opts.CellSize <= 0 {
		opts.CellSize = 32
	}
	return &Window{
		runner:    r,
		opts:      opts,
		grid:      NewGridRenderer(),
		overlays:  ui.NewOverlayRegistry(),
		hud:       ui.NewHUD(),
		controls:  ui.NewControlsPanel(10, 100, 240),
		perf:      ui.NewPerfPanel(int32(opts.Width)-260, 10, systems.NewSystemRegistry()),
		inspector: ui.NewInspector(int32(opts.Width)-250, 160, 240),
	}
}

// Run opens the window and draws until it is closed or ctx is done. The
// runner is closed on return.
func (w *Window) Run(ctx context.Context) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w.opts.Width), int32(w.opts.Height), w.opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(w.opts.TargetFPS))
	defer w.runner.Close()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		w.pollStatus()
		if !w.hasFrame {
			rl.BeginDrawing()
			rl.ClearBackground(rl.Black)
			rl.DrawText("waiting for the first tick...", 10, 10, 20, rl.LightGray)
			rl.EndDrawing()
			continue
		}
		w.handleInput()
		w.draw()
	}
}

// pollStatus takes the newest published status without blocking.
func (w *Window) pollStatus() {
	for {
		select {
		case st, ok := <-w.runner.Status():
			if !ok {
				return
			}
			if st.Snapshot == nil {
				continue
			}
			w.status = st
			if !w.hasFrame {
				w.camera = camera.New(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()), st.Snapshot.Size, w.opts.CellSize)
				w.hasFrame = true
			}
		default:
			return
		}
	}
}

func (w *Window) running() bool {
	return w.status.RunningMode == game.RunningStateRun
}

func (w *Window) finished() bool {
	return w.status.RunningMode == game.RunningStateFinished
}

func (w *Window) toggleRun() {
	if w.finished() {
		return
	}
	if w.running() {
		w.runner.Pause()
	} else {
		w.runner.Resume()
	}
}

// handleInput processes keyboard and mouse input.
func (w *Window) handleInput() {
	if rl.IsWindowResized() {
		sw, sh := rl.GetScreenWidth(), rl.GetScreenHeight()
		w.camera.Resize(float32(sw), float32(sh))
		w.perf.SetPosition(int32(sw)-260, 10)
		w.inspector.SetPosition(int32(sw)-250, 160)
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		w.toggleRun()
	}
	if rl.IsKeyPressed(rl.KeyN) && !w.running() && !w.finished() {
		w.runner.Step()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		w.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		w.showPerf = !w.showPerf
	}
	w.overlays.HandleKeys()

	w.handleCameraInput()
}

// handleCameraInput processes camera pan/zoom controls.
func (w *Window) handleCameraInput() {
	cam := w.camera
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		cam.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}

// draw renders one frame.
func (w *Window) draw() {
	snap := w.status.Snapshot

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 18, G: 18, B: 22, A: 255})

	w.grid.Draw(snap, w.camera, w.overlays)

	mouse := rl.GetMousePosition()
	hx, hy, hovered := w.camera.CellAt(mouse.X, mouse.Y)
	if w.controls.Contains(mouse.X, mouse.Y) {
		hovered = false
	}
	if hovered {
		v := snap.At(hx, hy)
		if v.HasAnimal && v.Alive && w.overlays.IsEnabled(ui.OverlayVision) {
			w.grid.DrawVision(w.camera, hx, hy, w.opts.Vision[v.Species])
		}
	}

	w.hud.Draw(ui.HUDData{
		Title:      w.opts.Title,
		Tick:       snap.Tick,
		Rabbits:    snap.Prey,
		Foxes:      snap.Predators,
		Vegetation: snap.Vegetation,
		State:      w.status.RunningMode.String(),
		FPS:        rl.GetFPS(),
	})

	switch w.controls.Draw(w.running(), w.finished(), w.overlays) {
	case ui.ActionToggleRun:
		w.toggleRun()
	case ui.ActionStep:
		if !w.running() {
			w.runner.Step()
		}
	case ui.ActionResetView:
		w.camera.Reset()
	}

	if w.showPerf && w.status.Perf != nil {
		w.perf.Draw(*w.status.Perf)
	}
	if hovered {
		w.inspector.Draw(hx, hy, snap.At(hx, hy))
	}
	w.hud.DrawControls(int32(rl.GetScreenHeight()), controlsHelp)

	rl.EndDrawing()
}
