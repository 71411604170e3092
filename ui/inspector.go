package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sprout/components"
	"github.com/pthm-cable/sprout/systems"
)

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	Node      components.PlantNode
	Lineage   []components.NodeID
	Children  int
	Attention components.Vector2D
	DCritical float64
}

// NewInspectorData gathers inspector data for node id from snap.
func NewInspectorData(snap *systems.Snapshot, id components.NodeID) (InspectorData, bool) {
	n, ok := snap.Node(id)
	if !ok {
		return InspectorData{}, false
	}
	return InspectorData{
		Node:      n,
		Lineage:   snap.Lineage(id),
		Children:  len(snap.Paths[id]),
		Attention: systems.ComputeAttention(&n, snap.Resources, &snap.Params),
		DCritical: snap.Params.DCritical,
	}, true
}

// Inspector renders the node inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel and returns the bottom Y.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	fields := components.NodeFields(data.DCritical)

	panelHeight := padding*2 + r.Theme.LineHeight*int32(len(fields)+10) + 16
	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)

	x := ins.x + padding
	y := ins.y + padding
	contentWidth := ins.width - padding*2
	n := &data.Node

	y = ins.drawHeader(x, y, data)
	y = r.DrawSpacer(y, 4)
	y = r.DrawFields(x, y, "State", fields, n, contentWidth)

	y = r.DrawSectionHeader(x, y, "Growth")
	y = r.DrawLabelValue(x, y, "Extend", toggleText(systems.CanExtend(n), "ready", "gated"))
	y = r.DrawLabelValue(x, y, "Branch", toggleText(systems.CanBranch(n), "ready", "gated"))
	y = r.DrawLabelValue(x, y, "Attention", fmt.Sprintf("(%+.2f, %+.2f) |%.2f|",
		data.Attention.X, data.Attention.Y, data.Attention.Magnitude()))
	return y
}

func (ins *Inspector) drawHeader(x, y int32, data InspectorData) int32 {
	r := ins.renderer
	n := &data.Node
	state := n.State()

	rl.DrawRectangle(x, y+2, 12, 12, StateColor(state))
	rl.DrawText(fmt.Sprintf("Node #%d (%s)", n.ID, state), x+18, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	parent := "seed"
	if id, ok := n.ParentID(); ok {
		parent = fmt.Sprintf("#%d", id)
	}
	y = r.DrawLabelValue(x, y, "Parent", parent)
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("(%.1f, %.1f)", n.Position.X, n.Position.Y))
	y = r.DrawLabelValue(x, y, "Depth", fmt.Sprintf("%d", len(data.Lineage)-1))
	y = r.DrawLabelValue(x, y, "Children", fmt.Sprintf("%d", data.Children))
	return y
}
