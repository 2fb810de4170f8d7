// Package renderer draws world snapshots in a raylib window.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warren/camera"
	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/ui"
)

// Palette holds the colors of the grid.
type Palette struct {
	Ground       rl.Color
	GrassLow     rl.Color
	GrassHigh    rl.Color
	ThickLow     rl.Color
	ThickHigh    rl.Color
	Burrow       rl.Color
	Den          rl.Color
	Rabbit       rl.Color
	Fox          rl.Color
	Corpse       rl.Color
	GridLine     rl.Color
	Vision       rl.Color
	OverlayLabel rl.Color
}

// DefaultPalette returns the standard grid colors.
func DefaultPalette() Palette {
	return Palette{
		Ground:       rl.Color{R: 92, G: 74, B: 52, A: 255},
		GrassLow:     rl.Color{R: 140, G: 170, B: 80, A: 255},
		GrassHigh:    rl.Color{R: 90, G: 180, B: 60, A: 255},
		ThickLow:     rl.Color{R: 40, G: 130, B: 40, A: 255},
		ThickHigh:    rl.Color{R: 15, G: 80, B: 25, A: 255},
		Burrow:       rl.Color{R: 170, G: 140, B: 100, A: 255},
		Den:          rl.Color{R: 120, G: 60, B: 40, A: 255},
		Rabbit:       rl.Color{R: 235, G: 235, B: 225, A: 255},
		Fox:          rl.Color{R: 230, G: 120, B: 30, A: 255},
		Corpse:       rl.Color{R: 60, G: 60, B: 60, A: 255},
		GridLine:     rl.Color{R: 0, G: 0, B: 0, A: 60},
		Vision:       rl.Color{R: 255, G: 255, B: 120, A: 50},
		OverlayLabel: rl.White,
	}
}

// GridRenderer draws a snapshot through a camera.
type GridRenderer struct {
	Palette Palette
}

// NewGridRenderer creates a renderer with the default palette.
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{Palette: DefaultPalette()}
}

// Draw renders the visible part of snap.
func (r *GridRenderer) Draw(snap *game.Snapshot, cam *camera.Camera, overlays *ui.OverlayRegistry) {
	p := r.Palette
	x0, y0, x1, y1 := cam.VisibleCells()

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			v := snap.At(x, y)
			sx, sy, size := cam.CellRect(x, y)
			rect := rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}
			rl.DrawRectangleRec(rect, r.cellColor(v))

			if v.HasAnimal {
				r.drawAnimal(v, sx+size/2, sy+size/2, size)
			}
			if overlays.IsEnabled(ui.OverlayGridLines) {
				rl.DrawRectangleLinesEx(rect, 1, p.GridLine)
			}
			if size >= 16 {
				r.drawLabels(v, sx, sy, size, overlays)
			}
		}
	}
}

func (r *GridRenderer) cellColor(v game.CellView) rl.Color {
	p := r.Palette
	switch v.Kind {
	case game.CellGrass:
		return lerpColor(p.GrassLow, p.GrassHigh, float32(v.Quantity)/systems.LightMax)
	case game.CellThick:
		t := float32(v.Quantity-systems.ThickMin) / (systems.ThickMax - systems.ThickMin)
		return lerpColor(p.ThickLow, p.ThickHigh, t)
	case game.CellShelter:
		if v.ShelterSpecies == components.SpeciesPredator {
			return p.Den
		}
		return p.Burrow
	}
	return p.Ground
}

func (r *GridRenderer) drawAnimal(v game.CellView, cx, cy, size float32) {
	color := r.Palette.Rabbit
	if v.Species == components.SpeciesPredator {
		color = r.Palette.Fox
	}
	if !v.Alive {
		color = r.Palette.Corpse
	}

	radius := size * 0.35
	if v.Age == components.AgeChild {
		radius = size * 0.22
	}
	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, radius, color)
	if v.Age == components.AgeSenior {
		rl.DrawCircleLines(int32(cx), int32(cy), radius, rl.Black)
	}
}

func (r *GridRenderer) drawLabels(v game.CellView, sx, sy, size float32, overlays *ui.OverlayRegistry) {
	fontSize := int32(size / 3)
	switch {
	case v.Kind == game.CellShelter && overlays.IsEnabled(ui.OverlayShelters):
		rl.DrawText(fmt.Sprintf("%d/%d", v.ShelterLive, v.ShelterCapacity), int32(sx)+2, int32(sy)+2, fontSize, r.Palette.OverlayLabel)
	case (v.Kind == game.CellGrass || v.Kind == game.CellThick) && overlays.IsEnabled(ui.OverlayQuantities):
		rl.DrawText(fmt.Sprint(v.Quantity), int32(sx)+2, int32(sy)+2, fontSize, r.Palette.OverlayLabel)
	}
}

// DrawVision highlights the cells within radius of zero-based cell (x, y).
func (r *GridRenderer) DrawVision(cam *camera.Camera, x, y, radius int) {
	origin := components.Coord{X: x + 1, Y: y + 1}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			c := components.Coord{X: origin.X + dx, Y: origin.Y + dy}
			if c.X < 1 || c.Y < 1 || c.X > cam.Cells || c.Y > cam.Cells || c == origin {
				continue
			}
			if !systems.InRange(origin, c, radius) {
				continue
			}
			sx, sy, size := cam.CellRect(c.X-1, c.Y-1)
			rl.DrawRectangleRec(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, r.Palette.Vision)
		}
	}
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 { return uint8(float32(x) + (float32(y)-float32(x))*t) }
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
