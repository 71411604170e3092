package systems

import (
	"math"

	"github.com/pthm-cable/sprout/components"
)

// Domain is the rectangle nodes are confined to: [0,Width]x[0,Height].
type Domain struct {
	Width, Height float64
}

// CanExtend reports whether node is still young and coherent enough to
// extend.
func CanExtend(node *components.PlantNode) bool {
	return node.Coherence > extendMinCoherence && node.Age < extendMaxAge
}

// CanBranch reports whether node is still young and coherent enough to
// branch.
func CanBranch(node *components.PlantNode) bool {
	return node.Coherence > branchMinCoherence && node.Age < branchMaxAge
}

// Extend grows a child from node along the attention direction.
// Returns false when node is past its extension gate.
func Extend(node *components.PlantNode, field *ResourceField, p *EngineParams, dom Domain, id components.NodeID) (components.PlantNode, bool) {
	if !CanExtend(node) {
		return components.PlantNode{}, false
	}

	direction := ComputeAttention(node, field.points, p)
	growth := p.GrowthRate * (0.5 + node.Energy)
	pos := node.Position.Add(direction.Scale(growth)).Clamp(dom.Width, dom.Height)

	return components.PlantNode{
		ID:                 id,
		Position:           pos,
		Energy:             field.Energy(pos, p.MaxEnergyDistance),
		Coherence:          math.Max(node.Coherence*0.9, 0.5),
		Distortion:         node.Distortion * 0.5,
		TemporalComplexity: 0,
		SpatialComplexity:  0.5,
		Parent:             node.ID,
		HasParent:          true,
		Age:                0,
		CT:                 node.CT.Add(node.Position),
	}, true
}

// Branch grows an exploratory child from node at the given angle (radians).
// Returns false when node is past its branching gate.
func Branch(node *components.PlantNode, angle float64, field *ResourceField, p *EngineParams, dom Domain, id components.NodeID) (components.PlantNode, bool) {
	if !CanBranch(node) {
		return components.PlantNode{}, false
	}

	direction := components.Vec(math.Cos(angle), math.Sin(angle))
	growth := p.GrowthRate * (0.3 + 0.7*node.Energy)
	pos := node.Position.Add(direction.Scale(growth)).Clamp(dom.Width, dom.Height)

	return components.PlantNode{
		ID:                 id,
		Position:           pos,
		Energy:             clampEnergy(field.Energy(pos, p.MaxEnergyDistance) * 0.8),
		Coherence:          node.Coherence * 0.8,
		Distortion:         node.Distortion * 0.8,
		TemporalComplexity: node.TemporalComplexity + 0.1,
		SpatialComplexity:  node.SpatialComplexity + 0.2,
		Parent:             node.ID,
		HasParent:          true,
		Age:                0,
		CT:                 node.CT.Add(node.Position),
	}, true
}
