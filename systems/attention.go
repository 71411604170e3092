package systems

import (
	"math"

	"github.com/pthm-cable/sprout/components"
)

// ComputeAttention returns the attention-weighted direction from node toward
// the resources. Every resource counts regardless of kind.
//
// Each resource gets weight exp(-λ·d/E²)·H/max(D,ε) and contributes its unit
// direction scaled by weight/Σweight. The result is a convex combination of
// unit vectors and is not renormalised: its length (≤1) is the confidence.
func ComputeAttention(node *components.PlantNode, resources []components.ResourcePoint, p *EngineParams) components.Vector2D {
	if len(resources) == 0 {
		return components.Vector2D{}
	}

	g11 := 1 / (node.Energy * node.Energy)
	stateWeight := node.Coherence / math.Max(node.Distortion, p.Epsilon)

	var total float64
	weights := make([]float64, len(resources))
	for i := range resources {
		d := node.Position.Distance(resources[i].Position)
		w := math.Exp(-p.Lambda*d*g11) * stateWeight
		weights[i] = w
		total += w
	}
	total = math.Max(total, p.Epsilon)

	var dir components.Vector2D
	for i := range resources {
		toward := resources[i].Position.Sub(node.Position).Normalize()
		dir = dir.Add(toward.Scale(weights[i] / total))
	}
	return dir
}
