// Package camera provides a 2D camera system for viewport control.
package camera

// Camera controls the viewport onto a bounded grid drawn with square cells.
// Supports pan and zoom; the view never leaves the grid.
type Camera struct {
	// Position is the camera center in world pixels
	X, Y float32

	// Zoom level (1.0 = one world pixel per screen pixel)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid layout in world pixels
	CellSize float32
	Cells    int

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole grid of cells×cells squares.
func New(viewportW, viewportH float32, cells int, cellSize float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		CellSize:  cellSize,
		Cells:     cells,
		MaxZoom:   8.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// WorldSize returns the side length of the grid in world pixels.
func (c *Camera) WorldSize() float32 {
	return float32(c.Cells) * c.CellSize
}

// fitZoom is the zoom at which the whole grid fits the viewport.
func (c *Camera) fitZoom() float32 {
	w := c.WorldSize()
	if w <= 0 {
		return 1
	}
	z := c.ViewportW / w
	if zy := c.ViewportH / w; zy < z {
		z = zy
	}
	return z
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// CellAt returns the zero-based column and row under a screen position.
func (c *Camera) CellAt(sx, sy float32) (x, y int, ok bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	if wx < 0 || wy < 0 {
		return 0, 0, false
	}
	x, y = int(wx/c.CellSize), int(wy/c.CellSize)
	if x >= c.Cells || y >= c.Cells {
		return 0, 0, false
	}
	return x, y, true
}

// CellRect returns the screen rectangle of a zero-based cell.
func (c *Camera) CellRect(x, y int) (sx, sy, size float32) {
	sx, sy = c.WorldToScreen(float32(x)*c.CellSize, float32(y)*c.CellSize)
	return sx, sy, c.CellSize * c.Zoom
}

// VisibleCells returns the half-open range of columns and rows on screen.
func (c *Camera) VisibleCells() (x0, y0, x1, y1 int) {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	x0 = clampInt(int(minX/c.CellSize), 0, c.Cells)
	y0 = clampInt(int(minY/c.CellSize), 0, c.Cells)
	x1 = clampInt(int(maxX/c.CellSize)+1, 0, c.Cells)
	y1 = clampInt(int(maxY/c.CellSize)+1, 0, c.Cells)
	return
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the grid and fits it to the viewport.
func (c *Camera) Reset() {
	c.X = c.WorldSize() / 2
	c.Y = c.WorldSize() / 2
	c.Zoom = c.MinZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// clampCenter keeps the grid on screen. An axis on which the whole grid
// fits stays centered.
func (c *Camera) clampCenter() {
	w := c.WorldSize()
	c.X = clampAxis(c.X, c.ViewportW/(2*c.Zoom), w)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*c.Zoom), w)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

func clampInt(x, min, max int) int {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
