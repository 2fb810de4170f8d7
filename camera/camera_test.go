package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

// 20x20 grid of 40px cells on an 800x600 screen: the grid fits at zoom 0.75.
func newTestCamera() *Camera {
	return New(800, 600, 20, 40)
}

func TestNew(t *testing.T) {
	cam := newTestCamera()

	if cam.X != 400 || cam.Y != 400 {
		t.Errorf("expected camera at (400, 400), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 0.75 || cam.MinZoom != 0.75 {
		t.Errorf("expected zoom 0.75, got %f (min %f)", cam.Zoom, cam.MinZoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := newTestCamera()

	sx, sy := cam.WorldToScreen(400, 400)
	if !near(sx, 400) || !near(sy, 300) {
		t.Errorf("expected screen center (400, 300), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{400, 300}, // center
		{10, 10},   // top-left
		{790, 590}, // bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestCellAt(t *testing.T) {
	cam := newTestCamera()

	tests := []struct {
		name   string
		sx, sy float32
		x, y   int
		ok     bool
	}{
		{"center", 400, 300, 10, 10, true},
		{"grid corner", 100, 0, 0, 0, true},
		{"left margin", 50, 300, 0, 0, false},
		{"right margin", 750, 300, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := cam.CellAt(tt.sx, tt.sy)
			if ok != tt.ok || (ok && (x != tt.x || y != tt.y)) {
				t.Errorf("CellAt(%v, %v) = (%d, %d, %v), want (%d, %d, %v)", tt.sx, tt.sy, x, y, ok, tt.x, tt.y, tt.ok)
			}
		})
	}
}

func TestPanStaysOnGrid(t *testing.T) {
	cam := newTestCamera()

	// The whole grid is visible, so panning keeps it centered
	cam.Pan(-500, 500)
	if cam.X != 400 || cam.Y != 400 {
		t.Errorf("pan at fit zoom moved the camera to (%f, %f)", cam.X, cam.Y)
	}

	cam.SetZoom(2)
	cam.Pan(-10000, 0)
	if !near(cam.X, 200) {
		t.Errorf("expected X clamped to 200, got %f", cam.X)
	}
	cam.Pan(0, 100000)
	if !near(cam.Y, 650) {
		t.Errorf("expected Y clamped to 650, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()

	cam.SetZoom(0.1) // Below min
	if cam.Zoom != 0.75 {
		t.Errorf("expected zoom clamped to 0.75, got %f", cam.Zoom)
	}

	cam.SetZoom(100) // Above max
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestVisibleCells(t *testing.T) {
	cam := newTestCamera()

	if x0, y0, x1, y1 := cam.VisibleCells(); x0 != 0 || y0 != 0 || x1 != 20 || y1 != 20 {
		t.Errorf("at fit zoom visible cells = [%d,%d)x[%d,%d), want the whole grid", x0, x1, y0, y1)
	}

	cam.SetZoom(2)
	// Visible world area is [200,600] x [250,550]
	if x0, y0, x1, y1 := cam.VisibleCells(); x0 != 5 || x1 != 16 || y0 != 6 || y1 != 14 {
		t.Errorf("at zoom 2 visible cells = [%d,%d)x[%d,%d), want [5,16)x[6,14)", x0, x1, y0, y1)
	}
}

func TestResize(t *testing.T) {
	cam := newTestCamera()
	cam.Resize(400, 300)

	if !near(cam.MinZoom, 0.375) {
		t.Errorf("expected MinZoom 0.375, got %f", cam.MinZoom)
	}
	if cam.Zoom != 0.75 {
		t.Errorf("resize changed a valid zoom to %f", cam.Zoom)
	}
}

func TestReset(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(3)
	cam.Pan(300, 300)

	cam.Reset()

	if cam.X != 400 || cam.Y != 400 {
		t.Errorf("expected position (400, 400), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom %f, got %f", cam.MinZoom, cam.Zoom)
	}
}
