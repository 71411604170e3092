package telemetry

import (
	"testing"

	"github.com/pthm-cable/sprout/components"
	"github.com/pthm-cable/sprout/systems"
)

func grownSnapshot(t *testing.T, ticks int, c *Collector) *systems.Snapshot {
	t.Helper()
	p := systems.DefaultParams()
	p.GrowthProb = 1
	e := systems.NewEngineWithParams(800, 600, p, systems.WithSeed(5))
	e.AddResource(components.Vec(400, 400), 1.0, components.KindLight)
	e.InitializePlant(components.Vec(400, 500), 1.0)
	for i := 0; i < ticks; i++ {
		e.Update()
		if c != nil {
			c.Record(e.LastTick())
		}
	}
	return e.Snapshot()
}

func TestCollector_ShouldFlush(t *testing.T) {
	c := NewCollector(10)
	if c.ShouldFlush(9) {
		t.Error("should not flush before window ends")
	}
	if !c.ShouldFlush(10) {
		t.Error("should flush at window end")
	}
	if NewCollector(0).WindowTicks() != 1 {
		t.Error("window shorter than one tick should be raised to 1")
	}
}

func TestCollector_FlushAggregates(t *testing.T) {
	c := NewCollector(10)
	snap := grownSnapshot(t, 10, c)

	stats := c.Flush(snap)

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 10 {
		t.Errorf("window = [%d,%d], want [0,10]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.Population != len(snap.Nodes) {
		t.Errorf("population = %d, want %d", stats.Population, len(snap.Nodes))
	}
	if born := stats.Extended + stats.Branched; born != len(snap.Nodes)-1 {
		t.Errorf("births = %d, want %d", born, len(snap.Nodes)-1)
	}
	if stats.EnergyMean < systems.MinEnergy || stats.EnergyMean > systems.MaxEnergy {
		t.Errorf("energy mean %v out of range", stats.EnergyMean)
	}
	if stats.EnergyP10 > stats.EnergyP50 || stats.EnergyP50 > stats.EnergyP90 {
		t.Errorf("energy percentiles out of order: %v %v %v", stats.EnergyP10, stats.EnergyP50, stats.EnergyP90)
	}
	if stats.MaxDepth < 1 {
		t.Errorf("max depth = %d, want >= 1", stats.MaxDepth)
	}
	if stats.Reach <= 0 {
		t.Errorf("reach = %v, plant should have grown toward the light", stats.Reach)
	}
	if stats.Capacity != 500 {
		t.Errorf("capacity = %d, want 500", stats.Capacity)
	}

	// Counters reset and the next window starts where this one ended.
	next := c.Flush(snap)
	if next.Extended != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollector_EmptySnapshot(t *testing.T) {
	c := NewCollector(5)
	e := systems.NewEngine(100, 100)
	e.Update()

	stats := c.Flush(e.Snapshot())
	if stats.Population != 0 || stats.MaxDepth != 0 || stats.LightCapture != 0 {
		t.Errorf("empty plant should produce zero stats, got %+v", stats)
	}
}
