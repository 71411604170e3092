package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/sprout/components"
)

// DefaultSeed seeds engines created without WithSeed or WithRand.
const DefaultSeed = 42

// TickReport summarises what happened during one Update.
type TickReport struct {
	Tick       int
	Population int
	Extended   int // extend children created
	Branched   int // branch children created
	Resets     int // singularity resets
	CapBlocked int // gate draws that passed but hit MaxNodes
}

// Born returns the number of nodes created during the tick.
func (r TickReport) Born() int { return r.Extended + r.Branched }

// Engine owns the plant graph, the resource field and the RNG, and advances
// them one discrete tick per Update call. It is not safe for concurrent use;
// readers on other goroutines should consume Snapshot values instead.
type Engine struct {
	dom    Domain
	params EngineParams
	field  *ResourceField
	rng    *rand.Rand

	nodes  []components.PlantNode
	paths  map[components.NodeID][]components.PlantNode
	time   int
	nextID components.NodeID
	last   TickReport
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the engine's RNG. Equal seeds replay identical populations.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand hands the engine an existing RNG. The engine becomes its only user.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// NewEngine creates an engine over a width x height domain with default params.
func NewEngine(width, height float64, opts ...Option) *Engine {
	return NewEngineWithParams(width, height, DefaultParams(), opts...)
}

// NewEngineWithParams creates an engine with the given params.
func NewEngineWithParams(width, height float64, params EngineParams, opts ...Option) *Engine {
	e := &Engine{
		dom:    Domain{Width: width, Height: height},
		params: params,
		field:  NewResourceField(),
		paths:  make(map[components.NodeID][]components.PlantNode),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(DefaultSeed))
	}
	return e
}

// InitializePlant replaces the population with a single seed node and clears
// the parent index. The seed's energy is clamped into the energy range.
// Ids keep counting from where they were.
func (e *Engine) InitializePlant(pos components.Vector2D, initialEnergy float64) {
	seed := components.PlantNode{
		ID:                e.allocID(),
		Position:          pos.Clamp(e.dom.Width, e.dom.Height),
		Energy:            clampEnergy(initialEnergy),
		Coherence:         1.0,
		SpatialComplexity: defaultSpatialComplexity,
	}
	e.nodes = []components.PlantNode{seed}
	e.paths = make(map[components.NodeID][]components.PlantNode)
}

// AddResource appends a resource point to the field.
func (e *Engine) AddResource(pos components.Vector2D, intensity float64, kind components.ResourceKind) {
	e.field.Add(components.ResourcePoint{Position: pos, Intensity: intensity, Kind: kind})
}

// UpdateParams replaces the params used from the next tick on.
func (e *Engine) UpdateParams(p EngineParams) {
	e.params = p
}

// Params returns the current params.
func (e *Engine) Params() EngineParams { return e.params }

// Domain returns the growth bounds.
func (e *Engine) Domain() Domain { return e.dom }

// Update advances the simulation by exactly one tick.
//
// Every node of the pre-tick population is carried into the next generation
// with refreshed energy, age+1 and updated dynamics. Independently, the
// extend and branch gates are rolled against the unmodified node and any
// children are appended. Both Bernoulli draws happen for every node so the
// RNG stream does not depend on which gates pass.
func (e *Engine) Update() {
	e.time++
	p := e.params
	report := TickReport{Tick: e.time}

	prev := e.nodes
	next := make([]components.PlantNode, 0, len(prev)+len(prev)/2+1)
	born := 0

	for i := range prev {
		node := &prev[i]

		updated := *node
		updated.Energy = e.field.Energy(node.Position, p.MaxEnergyDistance)
		updated.Age++
		if UpdateNodeProperties(&updated, e.field, &p) {
			report.Resets++
		}
		next = append(next, updated)

		if e.rng.Float64() < p.GrowthProb {
			if e.underCap(len(prev), born, &p) {
				if CanExtend(node) {
					child, _ := Extend(node, e.field, &p, e.dom, e.allocID())
					next = append(next, child)
					born++
					report.Extended++
				}
			} else {
				report.CapBlocked++
			}
		}

		if e.rng.Float64() < p.BranchProb {
			if e.underCap(len(prev), born, &p) {
				if CanBranch(node) {
					angle := e.rng.Float64() * 2 * math.Pi
					child, _ := Branch(node, angle, e.field, &p, e.dom, e.allocID())
					next = append(next, child)
					born++
					report.Branched++
				}
			} else {
				report.CapBlocked++
			}
		}
	}

	e.nodes = next
	e.rebuildPaths()

	report.Population = len(next)
	e.last = report
}

// underCap reports whether one more child may be created this tick.
func (e *Engine) underCap(prevLen, born int, p *EngineParams) bool {
	if p.CapMode == CapSoft {
		return prevLen < p.MaxNodes
	}
	return prevLen+born < p.MaxNodes
}

// allocID returns the next node id.
func (e *Engine) allocID() components.NodeID {
	id := e.nextID
	e.nextID++
	return id
}

// rebuildPaths regroups the population by parent id.
func (e *Engine) rebuildPaths() {
	paths := make(map[components.NodeID][]components.PlantNode)
	for _, n := range e.nodes {
		if n.HasParent {
			paths[n.Parent] = append(paths[n.Parent], n)
		}
	}
	e.paths = paths
}

// Nodes returns a copy of the current population.
func (e *Engine) Nodes() []components.PlantNode {
	out := make([]components.PlantNode, len(e.nodes))
	copy(out, e.nodes)
	return out
}

// Resources returns a copy of the resource points.
func (e *Engine) Resources() []components.ResourcePoint {
	return e.field.Points()
}

// Paths returns a copy of the parent -> children index.
func (e *Engine) Paths() map[components.NodeID][]components.PlantNode {
	return copyPaths(e.paths)
}

// Time returns the number of ticks run so far.
func (e *Engine) Time() int { return e.time }

// LastTick returns the report of the most recent Update.
func (e *Engine) LastTick() TickReport { return e.last }

// EnergyAt evaluates the resource field at pos with the current params.
func (e *Engine) EnergyAt(pos components.Vector2D) float64 {
	return e.field.Energy(pos, e.params.MaxEnergyDistance)
}

func copyPaths(src map[components.NodeID][]components.PlantNode) map[components.NodeID][]components.PlantNode {
	out := make(map[components.NodeID][]components.PlantNode, len(src))
	for id, children := range src {
		cp := make([]components.PlantNode, len(children))
		copy(cp, children)
		out[id] = cp
	}
	return out
}
