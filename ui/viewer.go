package ui

import (
	"fmt"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sprout/camera"
	"github.com/pthm-cable/sprout/components"
	"github.com/pthm-cable/sprout/sim"
	"github.com/pthm-cable/sprout/systems"
)

const (
	controlsWidth = 240
	fieldCells    = 48 // energy field columns
	pickRadius    = 8  // screen pixels
	legend        = "SPACE start/stop | N step | R reset | ,/. speed | arrows pan | wheel zoom | HOME fit | TAB controls | P perf | click select"
)

// Viewer draws a running Sim with raylib and feeds user input back into it.
// It must be driven from the goroutine that owns the raylib window.
type Viewer struct {
	sim *sim.Sim
	cam *camera.Camera

	hud       *HUD
	controls  *ControlsPanel
	inspector *Inspector
	perfPanel *PerfPanel
	logPanel  *LogPanel
	overlays  *OverlayRegistry

	selected    components.NodeID
	hasSelected bool
	showPerf    bool

	field      systems.EnergyGrid
	fieldValid bool

	screenW, screenH float32
}

// NewViewer creates a viewer for s on a screenW x screenH window.
func NewViewer(s *sim.Sim, screenW, screenH int32) *Viewer {
	dom := s.Snapshot().Domain
	w, h := float32(screenW), float32(screenH)
	return &Viewer{
		sim:       s,
		cam:       camera.New(w, h, float32(dom.Width), float32(dom.Height)),
		hud:       NewHUD(),
		controls:  NewControlsPanel(10, 10, controlsWidth),
		inspector: NewInspector(screenW-290, 130, 280),
		perfPanel: NewPerfPanel(screenW-290, screenH-110),
		logPanel:  NewLogPanel(10, screenH-170, 420, 8),
		overlays:  NewOverlayRegistry(),
		screenW:   w,
		screenH:   h,
	}
}

// Update handles input, then advances the simulation unless paused.
func (v *Viewer) Update() {
	v.handleInput()
	v.sim.Update()
	v.sim.RecordFrame()
}

func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.sim.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		v.sim.Step()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.reset()
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		v.sim.SetStepsPerUpdate(v.sim.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.sim.SetStepsPerUpdate(v.sim.StepsPerUpdate() + 1)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}
	v.overlays.PollKeys()

	v.handleCameraInput()
	v.handleSelection()
}

func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h
	v.cam.Resize(w, h)
	v.inspector.SetPosition(int32(w)-290, 130)
	v.perfPanel.SetPosition(int32(w)-290, int32(h)-110)
	v.logPanel.SetPosition(10, int32(h)-170)
}

func (v *Viewer) handleCameraInput() {
	panSpeed := float32(8.0)
	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		v.cam.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// handleSelection picks the node under a left click, or clears the selection.
func (v *Viewer) handleSelection() {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if v.controls.Contains(mouse.X, mouse.Y) {
		return
	}
	wx, wy := v.cam.ScreenToWorld(mouse.X, mouse.Y)
	radius := float64(pickRadius / v.cam.Zoom)
	n, ok := v.sim.Snapshot().NodeAt(components.Vec(float64(wx), float64(wy)), radius)
	v.selected, v.hasSelected = n.ID, ok
}

func (v *Viewer) reset() {
	if err := v.sim.Reset(); err != nil {
		slog.Error("reset failed", "error", err)
		return
	}
	v.hasSelected = false
	v.fieldValid = false
}

// Draw renders the world and the UI.
func (v *Viewer) Draw() {
	snap := v.sim.Snapshot()

	rl.BeginDrawing()
	rl.ClearBackground(Background)

	v.drawWorld(snap)
	v.drawUI(snap)

	rl.EndDrawing()
}

func (v *Viewer) drawWorld(snap *systems.Snapshot) {
	if v.overlays.IsEnabled(OverlayEnergyField) {
		v.drawEnergyField(snap)
	}

	x0, y0 := v.cam.WorldToScreen(0, 0)
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X: x0, Y: y0,
		Width:  v.cam.Scale(float32(snap.Domain.Width)),
		Height: v.cam.Scale(float32(snap.Domain.Height)),
	}, 1, DomainBorder)

	if v.overlays.IsEnabled(OverlayLights) {
		v.drawResources(snap)
	}
	if v.overlays.IsEnabled(OverlayEdges) {
		v.drawEdges(snap)
	}
	v.drawNodes(snap)
	if v.overlays.IsEnabled(OverlayAttention) {
		v.drawAttention(snap)
	}
	if v.hasSelected {
		v.drawSelection(snap)
	}
}

func (v *Viewer) drawEnergyField(snap *systems.Snapshot) {
	if !v.fieldValid {
		rows := int(float64(fieldCells) * snap.Domain.Height / snap.Domain.Width)
		v.field = systems.SampleEnergy(snap.Resources, snap.Params.MaxEnergyDistance, snap.Domain, fieldCells, rows)
		v.fieldValid = true
	}
	g := v.field
	cw := v.cam.Scale(float32(g.CellW)) + 1
	ch := v.cam.Scale(float32(g.CellH)) + 1
	minX, minY, maxX, maxY := v.cam.VisibleWorldBounds()
	for row := 0; row < g.Rows; row++ {
		y0 := float64(row) * g.CellH
		if y0+g.CellH < float64(minY) || y0 > float64(maxY) {
			continue
		}
		for col := 0; col < g.Cols; col++ {
			x0 := float64(col) * g.CellW
			if x0+g.CellW < float64(minX) || x0 > float64(maxX) {
				continue
			}
			sx, sy := v.cam.WorldToScreen(float32(x0), float32(y0))
			f := systems.Fraction(g.At(col, row))
			rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: cw, Y: ch},
				rl.Color{R: uint8(60 * f), G: uint8(50 * f), B: 10, A: uint8(40 + 140*f)})
		}
	}
}

func (v *Viewer) drawResources(snap *systems.Snapshot) {
	for _, r := range snap.Resources {
		sx, sy := v.cam.WorldToScreen(float32(r.Position.X), float32(r.Position.Y))
		color := ResourceColor(r.Kind)
		radius := v.cam.Scale(float32(6 + 10*r.Intensity))
		rl.DrawCircleGradient(int32(sx), int32(sy), radius*3, rl.ColorAlpha(color, 0.25), rl.ColorAlpha(color, 0))
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, v.cam.Scale(3), color)
	}
}

func (v *Viewer) drawEdges(snap *systems.Snapshot) {
	for parentID, children := range snap.Paths {
		parent, ok := snap.Node(parentID)
		if !ok {
			continue
		}
		px, py := v.cam.WorldToScreen(float32(parent.Position.X), float32(parent.Position.Y))
		for _, child := range children {
			cx, cy := v.cam.WorldToScreen(float32(child.Position.X), float32(child.Position.Y))
			width := v.cam.Scale(float32(0.5 + 1.5*child.Energy))
			rl.DrawLineEx(rl.Vector2{X: px, Y: py}, rl.Vector2{X: cx, Y: cy}, width, EdgeColor)
		}
	}
}

func (v *Viewer) drawNodes(snap *systems.Snapshot) {
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		x, y := float32(n.Position.X), float32(n.Position.Y)
		radius := float32(1.5 + 1.5*n.Energy)
		if !v.cam.IsVisible(x, y, radius) {
			continue
		}
		sx, sy := v.cam.WorldToScreen(x, y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, v.cam.Scale(radius), StateColor(n.State()))
	}
}

func (v *Viewer) drawAttention(snap *systems.Snapshot) {
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		a := systems.ComputeAttention(n, snap.Resources, &snap.Params)
		if a.Magnitude() < 1e-6 {
			continue
		}
		tip := n.Position.Add(a.Scale(snap.Params.GrowthRate * 3))
		sx, sy := v.cam.WorldToScreen(float32(n.Position.X), float32(n.Position.Y))
		tx, ty := v.cam.WorldToScreen(float32(tip.X), float32(tip.Y))
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: tx, Y: ty}, AttentionTint)
	}
}

func (v *Viewer) drawSelection(snap *systems.Snapshot) {
	n, ok := snap.Node(v.selected)
	if !ok {
		return
	}
	if v.overlays.IsEnabled(OverlayLineage) {
		prev := n.Position
		for _, id := range snap.Lineage(n.ID)[1:] {
			anc, _ := snap.Node(id)
			ax, ay := v.cam.WorldToScreen(float32(prev.X), float32(prev.Y))
			bx, by := v.cam.WorldToScreen(float32(anc.Position.X), float32(anc.Position.Y))
			rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, 2, LineageColor)
			prev = anc.Position
		}
	}

	sx, sy := v.cam.WorldToScreen(float32(n.Position.X), float32(n.Position.Y))
	pulse := float32(0.5 + 0.5*math.Sin(rl.GetTime()*6))
	alpha := uint8(150 + 105*pulse)
	radius := v.cam.Scale(float32(3+1.5*n.Energy)) + 3
	rl.DrawCircleLines(int32(sx), int32(sy), radius, rl.Color{R: SelectColor.R, G: SelectColor.G, B: SelectColor.B, A: alpha})
}

func (v *Viewer) drawUI(snap *systems.Snapshot) {
	params := v.sim.Params()
	actions := v.controls.Draw(ControlState{
		Paused:         v.sim.Paused(),
		StepsPerUpdate: v.sim.StepsPerUpdate(),
		MaxSteps:       sim.MaxStepsPerUpdate,
		GrowthProb:     params.GrowthProb,
		BranchProb:     params.BranchProb,
	}, v.overlays)
	v.apply(actions, params)

	v.hud.Draw(HUDData{
		Title:      "Sprout",
		Tick:       snap.Tick,
		Population: len(snap.Nodes),
		MaxNodes:   snap.Params.MaxNodes,
		Depth:      snap.Depth(),
		Born:       snap.Report.Born(),
		Resets:     snap.Report.Resets,
		Speed:      v.sim.StepsPerUpdate(),
		FPS:        rl.GetFPS(),
		Paused:     v.sim.Paused(),
		Seed:       v.sim.Seed(),
	}, int32(v.screenW))

	if v.hasSelected {
		if data, ok := NewInspectorData(snap, v.selected); ok {
			v.inspector.Draw(data)
		}
	}
	if v.showPerf {
		v.perfPanel.Draw(v.sim.Perf())
	}
	v.logPanel.Draw(v.sim.Logs())
	v.drawCursorEnergy(snap)
	v.hud.DrawControls(int32(v.screenH), legend)
}

// drawCursorEnergy labels the cursor with the energy a node would get there.
func (v *Viewer) drawCursorEnergy(snap *systems.Snapshot) {
	mouse := rl.GetMousePosition()
	if v.controls.Contains(mouse.X, mouse.Y) {
		return
	}
	wx, wy := v.cam.ScreenToWorld(mouse.X, mouse.Y)
	if wx < 0 || wy < 0 || float64(wx) > snap.Domain.Width || float64(wy) > snap.Domain.Height {
		return
	}
	e := v.sim.EnergyAt(components.Vec(float64(wx), float64(wy)))
	rl.DrawText(fmt.Sprintf("E %.2f", e), int32(mouse.X)+12, int32(mouse.Y)+12, 12, rl.LightGray)
}

// apply forwards control panel actions to the simulation.
func (v *Viewer) apply(a ControlActions, params systems.EngineParams) {
	if a.TogglePause {
		v.sim.TogglePause()
	}
	if a.Step {
		v.sim.Step()
	}
	if a.Reset {
		v.reset()
	}
	if a.StepsPerUpdate != v.sim.StepsPerUpdate() {
		v.sim.SetStepsPerUpdate(a.StepsPerUpdate)
	}
	// Sliders round through float32.
	if math.Abs(a.GrowthProb-params.GrowthProb) > 1e-4 || math.Abs(a.BranchProb-params.BranchProb) > 1e-4 {
		params.GrowthProb = a.GrowthProb
		params.BranchProb = a.BranchProb
		v.sim.UpdateParams(params)
	}
}
