package systems

import (
	"github.com/pthm-cable/sprout/components"
)

// Snapshot is a read-only copy of engine state taken after a tick.
// It shares nothing with the engine, so it can be handed to other goroutines.
type Snapshot struct {
	Tick      int
	Domain    Domain
	Params    EngineParams
	Nodes     []components.PlantNode
	Resources []components.ResourcePoint
	Paths     map[components.NodeID][]components.PlantNode
	Report    TickReport

	byID map[components.NodeID]int
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{
		Tick:      e.time,
		Domain:    e.dom,
		Params:    e.params,
		Nodes:     e.Nodes(),
		Resources: e.Resources(),
		Paths:     e.Paths(),
		Report:    e.last,
	}
	s.byID = make(map[components.NodeID]int, len(s.Nodes))
	for i := range s.Nodes {
		s.byID[s.Nodes[i].ID] = i
	}
	return s
}

// Node looks up a node by id.
func (s *Snapshot) Node(id components.NodeID) (components.PlantNode, bool) {
	i, ok := s.byID[id]
	if !ok {
		return components.PlantNode{}, false
	}
	return s.Nodes[i], true
}

// Lineage returns the ids from id back to its root, id first.
// Returns nil if id is not in the snapshot.
func (s *Snapshot) Lineage(id components.NodeID) []components.NodeID {
	n, ok := s.Node(id)
	if !ok {
		return nil
	}
	chain := []components.NodeID{n.ID}
	for n.HasParent {
		parent, ok := s.Node(n.Parent)
		if !ok {
			break
		}
		chain = append(chain, parent.ID)
		n = parent
	}
	return chain
}

// Depths returns each node's distance from its root, indexed like Nodes.
func (s *Snapshot) Depths() []int {
	depth := make([]int, len(s.Nodes))
	done := make([]bool, len(s.Nodes))

	var resolve func(i int) int
	resolve = func(i int) int {
		if done[i] {
			return depth[i]
		}
		n := &s.Nodes[i]
		d := 0
		if n.HasParent {
			if pi, ok := s.byID[n.Parent]; ok && pi != i {
				d = resolve(pi) + 1
			}
		}
		depth[i] = d
		done[i] = true
		return d
	}

	for i := range s.Nodes {
		resolve(i)
	}
	return depth
}

// Depth returns the longest root-to-node chain length in edges.
func (s *Snapshot) Depth() int {
	max := 0
	for _, d := range s.Depths() {
		if d > max {
			max = d
		}
	}
	return max
}

// NodeAt returns the node nearest to pos within radius.
func (s *Snapshot) NodeAt(pos components.Vector2D, radius float64) (components.PlantNode, bool) {
	best := -1
	bestDist := radius
	for i := range s.Nodes {
		if d := s.Nodes[i].Position.Distance(pos); d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return components.PlantNode{}, false
	}
	return s.Nodes[best], true
}
