package systems

import (
	"reflect"
	"testing"

	"github.com/pthm-cable/sprout/components"
)

func newTestEngine(p EngineParams, seed int64) *Engine {
	e := NewEngineWithParams(800, 600, p, WithSeed(seed))
	e.AddResource(components.Vec(200, 100), 1.0, components.KindLight)
	e.AddResource(components.Vec(420, 430), 1.0, components.KindLight)
	e.AddResource(components.Vec(650, 150), 0.8, components.KindLight)
	e.AddResource(components.Vec(380, 560), 1.0, components.KindWater)
	e.InitializePlant(components.Vec(400, 500), p.InitialEnergy)
	return e
}

func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()
	dom := e.Domain()
	seen := make(map[components.NodeID]bool)
	roots := 0
	for _, n := range e.Nodes() {
		if seen[n.ID] {
			t.Fatalf("tick %d: duplicate id %d", e.Time(), n.ID)
		}
		seen[n.ID] = true
		if !n.HasParent {
			roots++
		}
		if n.Energy < MinEnergy || n.Energy > MaxEnergy {
			t.Fatalf("tick %d: node %d energy %v", e.Time(), n.ID, n.Energy)
		}
		if n.Coherence < 0 || n.Coherence > 1 {
			t.Fatalf("tick %d: node %d coherence %v", e.Time(), n.ID, n.Coherence)
		}
		if n.Distortion < 0 || n.TemporalComplexity < 0 || n.SpatialComplexity < 0 {
			t.Fatalf("tick %d: node %d D/T/S = %v/%v/%v", e.Time(), n.ID, n.Distortion, n.TemporalComplexity, n.SpatialComplexity)
		}
		if n.Position.X < 0 || n.Position.X > dom.Width || n.Position.Y < 0 || n.Position.Y > dom.Height {
			t.Fatalf("tick %d: node %d outside domain at %+v", e.Time(), n.ID, n.Position)
		}
	}
	if len(seen) > 0 && roots != 1 {
		t.Fatalf("tick %d: %d parentless nodes, want 1", e.Time(), roots)
	}
}

// ---------- construction ----------

func TestNewEngine_Empty(t *testing.T) {
	e := NewEngine(800, 600)
	if len(e.Nodes()) != 0 || len(e.Resources()) != 0 || e.Time() != 0 {
		t.Error("new engine should be empty at time 0")
	}
	if e.Params() != DefaultParams() {
		t.Error("NewEngine should use default params")
	}

	e.Update()
	if e.Time() != 1 || len(e.Nodes()) != 0 {
		t.Errorf("update of empty engine: time=%d nodes=%d", e.Time(), len(e.Nodes()))
	}
}

func TestInitializePlant(t *testing.T) {
	e := NewEngine(800, 600)
	e.InitializePlant(components.Vec(400, 500), 5.0)

	nodes := e.Nodes()
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	seed := nodes[0]
	if !seed.IsSeed() {
		t.Error("seed should have no parent")
	}
	if seed.Energy != MaxEnergy {
		t.Errorf("seed energy = %v, want clamped to %v", seed.Energy, MaxEnergy)
	}
	if seed.Coherence != 1 || seed.Distortion != 0 || seed.SpatialComplexity != 0.5 || seed.Age != 0 {
		t.Errorf("unexpected seed state %+v", seed)
	}
}

func TestInitializePlant_KeepsCountingIDs(t *testing.T) {
	e := newTestEngine(DefaultParams(), 1)
	for i := 0; i < 10; i++ {
		e.Update()
	}
	var maxID components.NodeID
	for _, n := range e.Nodes() {
		if n.ID > maxID {
			maxID = n.ID
		}
	}

	e.InitializePlant(components.Vec(100, 100), 1)
	nodes := e.Nodes()
	if len(nodes) != 1 || nodes[0].ID <= maxID {
		t.Errorf("re-seeded plant should get a fresh id above %d, got %+v", maxID, nodes)
	}
	if len(e.Paths()) != 0 {
		t.Error("paths should be cleared")
	}
}

// ---------- tick ----------

func TestUpdate_FirstTickExtendsTowardLight(t *testing.T) {
	p := DefaultParams()
	p.GrowthProb = 1
	p.BranchProb = 0
	e := NewEngineWithParams(800, 600, p, WithSeed(9))
	e.AddResource(components.Vec(400, 470), 1.0, components.KindLight)
	e.InitializePlant(components.Vec(400, 500), 1.0)

	e.Update()

	nodes := e.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	seed, child := nodes[0], nodes[1]
	if seed.Age != 1 {
		t.Errorf("seed age = %d, want 1", seed.Age)
	}
	if child.Parent != seed.ID || child.Age != 0 {
		t.Errorf("child parent=%d age=%d", child.Parent, child.Age)
	}
	if child.Position != components.Vec(400, 492.5) {
		t.Errorf("child position = %+v, want (400, 492.5)", child.Position)
	}
	if r := e.LastTick(); r.Extended != 1 || r.Branched != 0 || r.Population != 2 || r.Tick != 1 {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestUpdate_InvariantsHold(t *testing.T) {
	e := newTestEngine(DefaultParams(), 11)
	prevPop := 1
	for i := 0; i < 300; i++ {
		e.Update()
		checkInvariants(t, e)

		pop := len(e.Nodes())
		if pop < prevPop {
			t.Fatalf("tick %d: population shrank %d -> %d", e.Time(), prevPop, pop)
		}
		if pop > e.Params().MaxNodes {
			t.Fatalf("tick %d: population %d above cap", e.Time(), pop)
		}
		prevPop = pop
	}
}

func TestUpdate_Deterministic(t *testing.T) {
	a := newTestEngine(DefaultParams(), 2024)
	b := newTestEngine(DefaultParams(), 2024)

	for i := 0; i < 100; i++ {
		a.Update()
		b.Update()
		if !reflect.DeepEqual(a.Nodes(), b.Nodes()) {
			t.Fatalf("tick %d: engines with equal seeds diverged", i+1)
		}
	}
}

func TestUpdate_ParamsTakeEffect(t *testing.T) {
	e := newTestEngine(DefaultParams(), 5)
	for i := 0; i < 5; i++ {
		e.Update()
	}

	p := e.Params()
	p.GrowthProb = 0
	p.BranchProb = 0
	e.UpdateParams(p)

	pop := len(e.Nodes())
	for i := 0; i < 20; i++ {
		e.Update()
	}
	if len(e.Nodes()) != pop {
		t.Errorf("population changed with zero probabilities: %d -> %d", pop, len(e.Nodes()))
	}
}

// ---------- population cap ----------

func TestUpdate_HardCap(t *testing.T) {
	p := DefaultParams()
	p.GrowthProb = 1
	p.BranchProb = 1
	p.MaxNodes = 2
	e := newTestEngine(p, 1)

	e.Update()
	if n := len(e.Nodes()); n != 2 {
		t.Fatalf("population = %d, want 2", n)
	}
	if e.LastTick().CapBlocked != 1 {
		t.Errorf("CapBlocked = %d, want 1", e.LastTick().CapBlocked)
	}

	for i := 0; i < 30; i++ {
		e.Update()
		if n := len(e.Nodes()); n > p.MaxNodes {
			t.Fatalf("tick %d: population %d above cap", e.Time(), n)
		}
	}
}

func TestUpdate_SoftCapOvershoots(t *testing.T) {
	p := DefaultParams()
	p.GrowthProb = 1
	p.BranchProb = 1
	p.MaxNodes = 2
	p.CapMode = CapSoft
	e := newTestEngine(p, 1)

	e.Update()
	if n := len(e.Nodes()); n != 3 {
		t.Errorf("population = %d, want soft cap overshoot to 3", n)
	}

	e.Update()
	if e.LastTick().Born() != 0 {
		t.Errorf("soft cap should stop growth once reached, born %d", e.LastTick().Born())
	}
}

// ---------- topology ----------

func TestPaths_MatchParents(t *testing.T) {
	e := newTestEngine(DefaultParams(), 77)
	for i := 0; i < 40; i++ {
		e.Update()
	}

	nodes := e.Nodes()
	paths := e.Paths()
	total := 0
	for _, children := range paths {
		total += len(children)
	}
	if total != len(nodes)-1 {
		t.Errorf("paths hold %d children, want %d", total, len(nodes)-1)
	}

	for _, n := range nodes {
		if !n.HasParent {
			continue
		}
		found := false
		for _, c := range paths[n.Parent] {
			if c.ID == n.ID {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("node %d missing from paths[%d]", n.ID, n.Parent)
		}
	}
}

func TestEndToEnd_LineageReachesSeed(t *testing.T) {
	p := DefaultParams()
	p.GrowthProb = 1
	e := NewEngineWithParams(800, 600, p, WithSeed(42))
	e.AddResource(components.Vec(400, 0), 1.0, components.KindLight)
	e.InitializePlant(components.Vec(400, 500), p.InitialEnergy)
	seedID := e.Nodes()[0].ID

	for i := 0; i < 20; i++ {
		e.Update()
	}

	snap := e.Snapshot()
	if len(snap.Nodes) <= 1 || len(snap.Nodes) > p.MaxNodes {
		t.Fatalf("population = %d", len(snap.Nodes))
	}
	for _, n := range snap.Nodes {
		chain := snap.Lineage(n.ID)
		if chain[len(chain)-1] != seedID {
			t.Fatalf("lineage of %d ends at %d, want seed %d", n.ID, chain[len(chain)-1], seedID)
		}
	}
	if snap.Depth() < 1 {
		t.Errorf("depth = %d, want >= 1", snap.Depth())
	}
	if snap.Tick != 20 {
		t.Errorf("snapshot tick = %d, want 20", snap.Tick)
	}
}

// ---------- snapshot ----------

func TestSnapshot_Isolated(t *testing.T) {
	e := newTestEngine(DefaultParams(), 3)
	e.Update()

	snap := e.Snapshot()
	snap.Nodes[0].Energy = -1
	for id := range snap.Paths {
		snap.Paths[id][0].Energy = -1
	}

	checkInvariants(t, e)
	if _, ok := snap.Node(snap.Nodes[0].ID); !ok {
		t.Error("snapshot lookup failed")
	}
	if _, ok := snap.Node(1 << 40); ok {
		t.Error("lookup of unknown id should fail")
	}
	if snap.Lineage(1<<40) != nil {
		t.Error("lineage of unknown id should be nil")
	}
}

func TestSnapshot_Depths(t *testing.T) {
	p := DefaultParams()
	p.GrowthProb = 1
	p.BranchProb = 0
	e := NewEngineWithParams(800, 600, p, WithSeed(1))
	e.InitializePlant(components.Vec(400, 300), 1)

	// Every node extends each tick: seed, two children, one grandchild.
	e.Update()
	e.Update()

	snap := e.Snapshot()
	if len(snap.Nodes) != 4 {
		t.Fatalf("population = %d, want 4", len(snap.Nodes))
	}
	if d := snap.Depth(); d != 2 {
		t.Errorf("depth = %d, want 2", d)
	}
}
