package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is what the controls panel shows.
type ControlState struct {
	Paused         bool
	StepsPerUpdate int
	MaxSteps       int
	GrowthProb     float64
	BranchProb     float64
}

// ControlActions reports what the user did with the controls this frame.
type ControlActions struct {
	TogglePause    bool
	Step           bool
	Reset          bool
	StepsPerUpdate int
	GrowthProb     float64
	BranchProb     float64
}

// ControlsPanel renders the left-side controls: run buttons, sliders and
// overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32 // as last drawn
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

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies over the panel.
func (c *ControlsPanel) Contains(px, py float32) bool {
	if !c.visible {
		return false
	}
	return px >= float32(c.x) && px <= float32(c.x+c.width) &&
		py >= float32(c.y) && py <= float32(c.y+c.height)
}

// layoutHeight returns the panel height for the given overlay set.
func (c *ControlsPanel) layoutHeight(overlays *OverlayRegistry) int32 {
	lh := c.renderer.Theme.LineHeight
	h := c.renderer.Theme.Padding*2 + lh + 4 + 64 + 3*lh + 78
	if overlays != nil {
		h += int32(overlays.Len()+len(overlays.Categories())) * lh
	}
	return h
}

// Draw renders the panel and returns the user's actions.
func (c *ControlsPanel) Draw(state ControlState, overlays *OverlayRegistry) ControlActions {
	actions := ControlActions{
		StepsPerUpdate: state.StepsPerUpdate,
		GrowthProb:     state.GrowthProb,
		BranchProb:     state.BranchProb,
	}
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	c.height = c.layoutHeight(overlays)
	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	inner := float32(c.width - padding*2)

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += float32(lineHeight + 4)

	btnW := (inner - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: btnW, Height: 24}, toggleText(state.Paused, "Start", "Stop")) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + btnW + 10, Y: y, Width: btnW, Height: 24}, "Step") {
		actions.Step = true
	}
	y += 30
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: 24}, "Reset") {
		actions.Reset = true
	}
	y += 34

	sliderW := inner - 60
	rl.DrawText("Steps per update", int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += float32(lineHeight)
	speed := gui.SliderBar(rl.Rectangle{X: x + 20, Y: y, Width: sliderW, Height: 16},
		"1", fmt.Sprintf("%d", state.MaxSteps),
		float32(state.StepsPerUpdate), 1, float32(state.MaxSteps))
	actions.StepsPerUpdate = int(speed + 0.5)
	y += 24

	rl.DrawText(fmt.Sprintf("Growth prob %.2f", state.GrowthProb), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += float32(lineHeight)
	actions.GrowthProb = float64(gui.SliderBar(rl.Rectangle{X: x + 20, Y: y, Width: sliderW, Height: 16},
		"0", "1", float32(state.GrowthProb), 0, 1))
	y += 24

	rl.DrawText(fmt.Sprintf("Branch prob %.2f", state.BranchProb), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += float32(lineHeight)
	actions.BranchProb = float64(gui.SliderBar(rl.Rectangle{X: x + 20, Y: y, Width: sliderW, Height: 16},
		"0", "1", float32(state.BranchProb), 0, 1))
	y += 30

	c.drawOverlays(int32(x), int32(y), int32(inner), overlays)
	return actions
}

func (c *ControlsPanel) drawOverlays(x, y, width int32, overlays *OverlayRegistry) {
	if overlays == nil {
		return
	}
	r := c.renderer
	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += r.Theme.LineHeight
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(x, y, desc, overlays.IsEnabled(desc.ID), width)
			y += r.Theme.LineHeight
		}
	}
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer
	r.DrawStatusDot(x, y, enabled)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "field":
		return "Field"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
