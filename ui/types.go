// Package ui provides the raylib viewer for the growth simulation.
// Panels take their layout from small descriptor sets so new node fields or
// overlays show up without touching the drawing code.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sprout/components"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// World palette.
var (
	Background    = rl.Color{R: 12, G: 16, B: 14, A: 255}
	DomainBorder  = rl.Color{R: 50, G: 60, B: 55, A: 255}
	LightColor    = rl.Color{R: 255, G: 230, B: 140, A: 255}
	WaterColor    = rl.Color{R: 90, G: 150, B: 255, A: 255}
	EdgeColor     = rl.Color{R: 110, G: 160, B: 90, A: 200}
	SelectColor   = rl.White
	LineageColor  = rl.Color{R: 255, G: 200, B: 80, A: 255}
	AttentionTint = rl.Color{R: 120, G: 220, B: 255, A: 220}
)

// StateColor maps a node's display class to its colour.
func StateColor(s components.NodeState) rl.Color {
	switch s {
	case components.StateIncoherent:
		return rl.Red
	case components.StateDistorted:
		return rl.Purple
	default:
		return rl.Green
	}
}

// ResourceColor returns the glow colour of a resource kind.
func ResourceColor(k components.ResourceKind) rl.Color {
	if k == components.KindWater {
		return WaterColor
	}
	return LightColor
}
