// Package sim runs a growth engine with telemetry, output and controls
// around it, and publishes snapshots for viewers.
package sim

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/pthm-cable/sprout/components"
	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/systems"
	"github.com/pthm-cable/sprout/telemetry"
)

// MaxStepsPerUpdate bounds the speed control.
const MaxStepsPerUpdate = 50

// bookmarkHistory is the number of stats windows bookmarks compare against.
const bookmarkHistory = 10

// Options configures a Sim.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string // empty disables CSV output
	StepsPerUpdate int    // 0 = config
	StatsWindow    int    // ticks, 0 = config
	StartPaused    bool

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Sim owns one engine and everything that observes it.
// Only Snapshot and Logs may be called from other goroutines.
type Sim struct {
	cfg    *config.Config
	opts   Options
	params systems.EngineParams

	engine    *systems.Engine
	resources []components.ResourcePoint

	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logs      *LogRing

	snapshot atomic.Pointer[systems.Snapshot]

	stepsPerUpdate int
	paused         bool
}

// New creates a simulation from cfg. The plant is seeded and the lights are
// placed before New returns.
func New(cfg *config.Config, opts Options) (*Sim, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps == 0 {
		steps = cfg.Runner.StepsPerUpdate
	}
	if opts.StatsWindow == 0 {
		opts.StatsWindow = cfg.Telemetry.StatsWindow
	}

	s := &Sim{
		cfg:       cfg,
		opts:      opts,
		params:    systems.ParamsFromConfig(cfg),
		bookmarks: telemetry.NewBookmarkDetector(bookmarkHistory),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:    output,
		logs:      NewLogRing(cfg.Runner.LogRingSize),
		paused:    opts.StartPaused,
	}
	s.SetStepsPerUpdate(steps)

	if err := s.build(); err != nil {
		output.Close()
		return nil, err
	}
	s.logs.Logf(0, "Simulation created (seed %d, %d resources)", opts.Seed, len(s.resources))
	if dir := output.Dir(); dir != "" {
		slog.Info("writing run output", "dir", dir)
	}
	return s, nil
}

// build creates a fresh engine from the config, the current params and the seed.
func (s *Sim) build() error {
	rng := newRand(s.opts.Seed)
	resources, err := PlaceLights(rng, s.cfg)
	if err != nil {
		return err
	}

	engine := systems.NewEngineWithParams(s.cfg.World.Width, s.cfg.World.Height, s.params,
		systems.WithRand(rng))
	for _, r := range resources {
		engine.AddResource(r.Position, r.Intensity, r.Kind)
	}
	env := s.cfg.Environment
	engine.InitializePlant(components.Vec(env.SeedX, env.SeedY), s.params.InitialEnergy)

	s.engine = engine
	s.resources = resources
	s.collector = telemetry.NewCollector(s.opts.StatsWindow)
	s.bookmarks.Reset()
	s.publish()
	return nil
}

// Update runs one step unless paused. Viewers call it once per frame.
func (s *Sim) Update() {
	if s.paused {
		return
	}
	s.Step()
}

// Step advances StepsPerUpdate ticks regardless of pause state and
// publishes a new snapshot.
func (s *Sim) Step() {
	s.perf.StartStep(s.stepsPerUpdate)
	for i := 0; i < s.stepsPerUpdate; i++ {
		s.perf.StartPhase(telemetry.PhaseEngine)
		s.engine.Update()

		s.perf.StartPhase(telemetry.PhaseTelemetry)
		report := s.engine.LastTick()
		s.collector.Record(report)
		if report.Resets > 0 {
			s.logs.Logf(report.Tick, "%d singularity resets", report.Resets)
		}
		s.flushTelemetry()
	}
	s.perf.StartPhase(telemetry.PhasePublish)
	s.publish()
	s.perf.EndStep()
}

func (s *Sim) publish() {
	s.snapshot.Store(s.engine.Snapshot())
}

// flushTelemetry closes the stats window when due and fans the result out
// to logs, CSV and bookmarks.
func (s *Sim) flushTelemetry() {
	tick := s.engine.Time()
	if !s.collector.ShouldFlush(tick) {
		return
	}

	stats := s.collector.Flush(s.engine.Snapshot())
	perfStats := s.perf.Stats()

	if s.opts.StatsCallback != nil {
		s.opts.StatsCallback(stats)
	}

	if s.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		s.logs.Logf(bm.Tick, "%s: %s", bm.Type, bm.Description)
		if s.opts.LogStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// Reset rebuilds the plant and lights from the config and the original
// seed, keeping the current params, and pauses the simulation.
func (s *Sim) Reset() error {
	if err := s.build(); err != nil {
		return err
	}
	s.paused = true
	s.logs.Logf(0, "Simulation reset.")
	return nil
}

// Snapshot returns the most recently published state. Safe for concurrent use.
func (s *Sim) Snapshot() *systems.Snapshot {
	return s.snapshot.Load()
}

// Logs returns the retained event log, oldest first. Safe for concurrent use.
func (s *Sim) Logs() []LogEntry {
	return s.logs.Entries()
}

// Paused reports whether Update is a no-op.
func (s *Sim) Paused() bool { return s.paused }

// SetPaused starts or stops the simulation.
func (s *Sim) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	if paused {
		s.logs.Logf(s.Tick(), "Simulation stopped.")
	} else {
		s.logs.Logf(s.Tick(), "Simulation started.")
	}
}

// TogglePause flips the pause state.
func (s *Sim) TogglePause() { s.SetPaused(!s.paused) }

// StepsPerUpdate returns the ticks run per step.
func (s *Sim) StepsPerUpdate() int { return s.stepsPerUpdate }

// SetStepsPerUpdate sets the ticks per step, clamped to [1, MaxStepsPerUpdate].
func (s *Sim) SetStepsPerUpdate(n int) {
	s.stepsPerUpdate = max(1, min(n, MaxStepsPerUpdate))
}

// Params returns the params in effect.
func (s *Sim) Params() systems.EngineParams { return s.params }

// UpdateParams changes the engine params from the next tick on. The change
// survives Reset.
func (s *Sim) UpdateParams(p systems.EngineParams) {
	s.params = p
	s.engine.UpdateParams(p)
}

// Tick returns the engine time.
func (s *Sim) Tick() int { return s.engine.Time() }

// Seed returns the seed the simulation was created with.
func (s *Sim) Seed() int64 { return s.opts.Seed }

// Config returns the configuration the simulation was built from.
func (s *Sim) Config() *config.Config { return s.cfg }

// Perf returns step timing over the perf window.
func (s *Sim) Perf() telemetry.PerfStats { return s.perf.Stats() }

// RecordFrame feeds frame timing from a viewer into the perf stats.
func (s *Sim) RecordFrame() { s.perf.RecordFrame() }

// EnergyAt evaluates the resource field at pos.
func (s *Sim) EnergyAt(pos components.Vector2D) float64 { return s.engine.EnergyAt(pos) }

// Close flushes and closes output files.
func (s *Sim) Close() error {
	return s.output.Close()
}
