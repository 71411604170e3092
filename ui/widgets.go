package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sprout/components"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar filled to fraction in [0, 1] with text to its right.
func (r *Renderer) DrawBar(x, y int32, label string, fraction float32, text string, width int32) int32 {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	barColor := r.Theme.BarFillHigh
	if fraction < 0.3 {
		barColor = r.Theme.BarFillLow
	} else if fraction < 0.6 {
		barColor = r.Theme.BarFillMedium
	}
	fillWidth := int32(float32(barWidth) * fraction)
	rl.DrawRectangle(barX, y+2, fillWidth, r.Theme.BarHeight, barColor)

	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawSpacer adds vertical space and returns new Y.
func (r *Renderer) DrawSpacer(y int32, amount int32) int32 {
	return y + amount
}

// DrawField renders one node field as a bar or a label/value line.
func (r *Renderer) DrawField(x, y int32, fd components.FieldDescriptor, n *components.PlantNode, width int32) int32 {
	if fd.IsBar {
		return r.DrawBar(x, y, fd.Label, float32(fd.Fraction(n)), fd.FormatField(n), width)
	}
	return r.DrawLabelValue(x, y, fd.Label, fd.FormatField(n))
}

// DrawFields renders a field list under a section header.
func (r *Renderer) DrawFields(x, y int32, title string, fields []components.FieldDescriptor, n *components.PlantNode, width int32) int32 {
	if title != "" {
		y = r.DrawSectionHeader(x, y, title)
	}
	for _, fd := range fields {
		y = r.DrawField(x, y, fd, n, width)
	}
	return y + 4
}

// DrawStatusDot draws a small on/off indicator.
func (r *Renderer) DrawStatusDot(x, y int32, on bool) {
	color := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if on {
		color = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, color)
}

func formatCount(n, max int) string {
	if max <= 0 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%d/%d", n, max)
}
