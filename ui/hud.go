package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sprout/sim"
	"github.com/pthm-cable/sprout/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Tick       int
	Population int
	MaxNodes   int
	Depth      int
	Born       int
	Resets     int
	Speed      int
	FPS        int32
	Paused     bool
	Seed       int64
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD at the top-right corner.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	x := screenWidth - 300
	rl.DrawText(data.Title, x, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Nodes: %s | Depth: %d", formatCount(data.Population, data.MaxNodes), data.Depth),
		x, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		x, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Born: %d | Resets: %d | Seed: %d", data.Born, data.Resets, data.Seed),
		x, 75, 14, rl.Gray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, x, 95, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the step phase breakdown.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Step: %s (%.0f ticks/s)", stats.AvgStepDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 80 {
			color = rl.Red
		} else if pct > 50 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// LogPanel renders the most recent simulation log lines.
type LogPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	lines    int
}

// NewLogPanel creates a log panel showing up to lines entries.
func NewLogPanel(x, y, width int32, lines int) *LogPanel {
	return &LogPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		lines:    lines,
	}
}

// SetPosition updates the panel position.
func (l *LogPanel) SetPosition(x, y int32) {
	l.x = x
	l.y = y
}

// Draw renders the newest entries, oldest at the top.
func (l *LogPanel) Draw(entries []sim.LogEntry) {
	r := l.renderer
	lh := int32(14)
	height := int32(l.lines)*lh + r.Theme.Padding*2 + lh
	r.DrawPanel(l.x, l.y, l.width, height)

	y := l.y + r.Theme.Padding
	rl.DrawText("Log", l.x+r.Theme.Padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += lh + 2

	if len(entries) > l.lines {
		entries = entries[len(entries)-l.lines:]
	}
	for _, e := range entries {
		rl.DrawText(e.String(), l.x+r.Theme.Padding, y, 12, r.Theme.ValueColor)
		y += lh
	}
}
