package components

// Display thresholds shared by the viewers.
const (
	LowCoherence   = 0.2
	HighDistortion = 10.5
)

// NodeState is the display class of a node.
type NodeState uint8

const (
	StateHealthy NodeState = iota
	StateIncoherent
	StateDistorted
)

func (s NodeState) String() string {
	switch s {
	case StateIncoherent:
		return "incoherent"
	case StateDistorted:
		return "distorted"
	default:
		return "healthy"
	}
}

// State classifies n. Low coherence wins over high distortion.
func (n *PlantNode) State() NodeState {
	switch {
	case n.Coherence < LowCoherence:
		return StateIncoherent
	case n.Distortion > HighDistortion:
		return StateDistorted
	default:
		return StateHealthy
	}
}
