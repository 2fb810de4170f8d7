package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlAction is what the user asked for in the controls panel this frame.
type ControlAction int

const (
	ActionNone ControlAction = iota
	ActionToggleRun
	ActionStep
	ActionResetView
)

// ControlsPanel renders run controls and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32 // as of the last Draw
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies on the panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	return c.visible && x >= float32(c.x) && x < float32(c.x+c.width) && y >= float32(c.y) && y < float32(c.y+c.height)
}

// Draw renders the panel and returns the requested action. Overlay
// checkboxes update overlays directly.
func (c *ControlsPanel) Draw(running, finished bool, overlays *OverlayRegistry) ControlAction {
	if !c.visible {
		return ActionNone
	}

	r := c.renderer
	padding := r.Theme.Padding
	c.height = padding*3 + r.Theme.LineHeight*2 + 28 + int32(len(overlays.All()))*(r.Theme.LineHeight+4)
	r.DrawPanel(c.x, c.y, c.width, c.height)

	y := c.y + padding
	y = r.DrawSectionHeader(c.x+padding, y, "Controls")

	action := ActionNone
	bw := float32(c.width-padding*4) / 3
	bx := float32(c.x + padding)
	runLabel := "Pause"
	if !running {
		runLabel = "Run"
	}

	if finished {
		gui.Disable()
	}
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: bw, Height: 24}, runLabel) {
		action = ActionToggleRun
	}
	if gui.Button(rl.Rectangle{X: bx + bw + float32(padding), Y: float32(y), Width: bw, Height: 24}, "Step") {
		action = ActionStep
	}
	gui.Enable()
	if gui.Button(rl.Rectangle{X: bx + 2*(bw+float32(padding)), Y: float32(y), Width: bw, Height: 24}, "Fit") {
		action = ActionResetView
	}
	y += 28 + padding

	y = r.DrawSectionHeader(c.x+padding, y, "Overlays")
	for _, desc := range overlays.All() {
		label := desc.Name
		if desc.KeyLabel != "" {
			label = fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
		}
		checked := gui.CheckBox(rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: 12, Height: 12}, label, overlays.IsEnabled(desc.ID))
		overlays.SetEnabled(desc.ID, checked)
		y += r.Theme.LineHeight + 4
	}
	return action
}
