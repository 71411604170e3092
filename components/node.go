package components

// NodeID identifies a plant node for the lifetime of an engine.
type NodeID uint64

// PlantNode is one vertex of the growth graph.
type PlantNode struct {
	ID       NodeID
	Position Vector2D

	Energy             float64 // [0.1, 1.5], recomputed every tick
	Coherence          float64 // H in [0, 1]
	Distortion         float64 // D >= 0
	TemporalComplexity float64 // T >= 0
	SpatialComplexity  float64 // S >= 0

	Parent    NodeID
	HasParent bool // false only for the seed
	Age       int

	// CT is the running sum of ancestor positions.
	CT Vector2D
}

// ParentID returns the parent id and whether the node has one.
func (n *PlantNode) ParentID() (NodeID, bool) {
	return n.Parent, n.HasParent
}

// IsSeed reports whether n is a lineage root.
func (n *PlantNode) IsSeed() bool {
	return !n.HasParent
}
