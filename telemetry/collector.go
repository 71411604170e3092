package telemetry

import (
	"github.com/pthm-cable/sprout/systems"
)

// Collector accumulates tick reports within windows and produces WindowStats.
type Collector struct {
	windowTicks     int
	windowStartTick int

	// Event counters for current window
	extended   int
	branched   int
	resets     int
	capBlocked int
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// Record adds one tick's events to the current window.
func (c *Collector) Record(r systems.TickReport) {
	c.extended += r.Extended
	c.branched += r.Branched
	c.resets += r.Resets
	c.capBlocked += r.CapBlocked
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the counters and the snapshot taken at
// window end, then resets counters for the next window.
func (c *Collector) Flush(snap *systems.Snapshot) WindowStats {
	n := len(snap.Nodes)
	energy := make([]float64, n)
	coherence := make([]float64, n)
	distortion := make([]float64, n)
	temporal := make([]float64, n)
	spatial := make([]float64, n)

	active := 0
	var seedY, topY float64
	for i := range snap.Nodes {
		node := &snap.Nodes[i]
		energy[i] = node.Energy
		coherence[i] = node.Coherence
		distortion[i] = node.Distortion
		temporal[i] = node.TemporalComplexity
		spatial[i] = node.SpatialComplexity
		if systems.CanExtend(node) {
			active++
		}
		if node.IsSeed() {
			seedY = node.Position.Y
		}
		if i == 0 || node.Position.Y < topY {
			topY = node.Position.Y
		}
	}

	e := Describe(energy)
	h := Describe(coherence)
	d := Describe(distortion)

	capacity := snap.Params.MaxNodes
	var fill float64
	if capacity > 0 {
		fill = float64(n) / float64(capacity)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   snap.Tick,

		Population: n,
		Capacity:   capacity,
		Fill:       fill,
		Active:     active,

		Extended:   c.extended,
		Branched:   c.branched,
		Resets:     c.resets,
		CapBlocked: c.capBlocked,

		EnergyMean: e.Mean,
		EnergyStd:  e.Std,
		EnergyP10:  e.P10,
		EnergyP50:  e.P50,
		EnergyP90:  e.P90,

		CoherenceMean: h.Mean,
		CoherenceP10:  h.P10,
		CoherenceP50:  h.P50,
		CoherenceP90:  h.P90,

		DistortionMean: d.Mean,
		DistortionMax:  d.Max,
		TemporalMean:   Describe(temporal).Mean,
		SpatialMean:    Describe(spatial).Mean,

		LightCapture: LightCapture(energy, capacity),
	}
	if n > 0 {
		stats.MaxDepth = snap.Depth()
		stats.Reach = seedY - topY
	}

	// Reset for next window
	c.windowStartTick = snap.Tick
	c.extended = 0
	c.branched = 0
	c.resets = 0
	c.capBlocked = 0

	return stats
}

// Reset clears counters and restarts windows from tick 0.
func (c *Collector) Reset() {
	*c = Collector{windowTicks: c.windowTicks}
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
