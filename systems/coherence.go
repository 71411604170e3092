package systems

import (
	"math"

	"github.com/pthm-cable/sprout/components"
)

const (
	defaultSpatialComplexity = 0.5
	resetCoherence           = 0.1
)

// UpdateNodeProperties advances one node's coherence dynamics by one tick.
// node.Energy must already hold this tick's energy.
// Returns true when the node went through a singularity reset.
func UpdateNodeProperties(node *components.PlantNode, field *ResourceField, p *EngineParams) bool {
	spatial := defaultSpatialComplexity
	if d, ok := field.NearestLight(node.Position); ok {
		spatial = math.Min(d/p.MaxEnergyDistance, 1.0)
	}

	dH := -p.Alpha * (node.Distortion/(node.Coherence+p.Epsilon) + spatial)
	stress := math.Abs(dH) * node.Energy
	node.Distortion += p.Beta * math.Log(1+stress)
	node.TemporalComplexity += p.Beta * math.Tanh(stress) * signum(node.Coherence)
	node.Coherence += dH

	node.Coherence = clamp(node.Coherence, 0, 1)
	node.Distortion = math.Max(node.Distortion, 0)
	node.TemporalComplexity = math.Max(node.TemporalComplexity, 0)
	node.SpatialComplexity = spatial

	if node.Distortion > p.DCritical {
		singularityReset(node, p)
		return true
	}
	return false
}

// singularityReset collapses a node into its pure time state. T is derived
// from the accumulated ancestor trace and floored at zero.
func singularityReset(node *components.PlantNode, p *EngineParams) {
	node.Coherence = resetCoherence
	node.Distortion = 0
	node.TemporalComplexity = math.Max(node.Energy*math.Log(node.CT.Magnitude()+p.Epsilon), 0)
}

// signum returns -1, 0 or +1. Coherence is clamped to [0,1] so this only
// ever yields 0 or +1 here; the formula is kept literal.
func signum(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
