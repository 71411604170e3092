package sim

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/sprout/components"
	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/telemetry"
)

func init() {
	config.MustInit("")
}

func newTestSim(t *testing.T, opts Options) *Sim {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	s, err := New(config.Cfg(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ---------- log ring ----------

func TestLogRing_KeepsNewest(t *testing.T) {
	r := NewLogRing(3)
	for i := 1; i <= 5; i++ {
		r.Logf(i, "event %d", i)
	}

	entries := r.Entries()
	if len(entries) != 3 || r.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"event 3", "event 4", "event 5"} {
		if entries[i].Message != want {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Message, want)
		}
	}
}

func TestLogRing_PartiallyFilled(t *testing.T) {
	r := NewLogRing(10)
	r.Logf(0, "only")

	entries := r.Entries()
	if len(entries) != 1 || entries[0].Message != "only" {
		t.Errorf("unexpected entries %+v", entries)
	}
	if !strings.Contains(entries[0].String(), "only") {
		t.Errorf("String() = %q", entries[0].String())
	}
}

// ---------- light placement ----------

func TestPlaceLights(t *testing.T) {
	cfg := config.Defaults()
	cfg.Environment.NumLightSources = 20
	cfg.Resources = []config.ResourceConfig{
		{X: 10, Y: 590, Intensity: 0.5, Kind: "water"},
	}

	points, err := PlaceLights(newRand(1), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 21 {
		t.Fatalf("got %d points, want 21", len(points))
	}

	band := cfg.World.Height * cfg.Environment.LightBand
	for _, p := range points[:20] {
		if p.Kind != components.KindLight || p.Intensity != cfg.Environment.LightIntensity {
			t.Errorf("generated point %+v is not a default light", p)
		}
		if p.Position.X < 0 || p.Position.X >= cfg.World.Width || p.Position.Y < 0 || p.Position.Y >= band {
			t.Errorf("light %+v outside top band", p.Position)
		}
	}
	if last := points[20]; last.Kind != components.KindWater || last.Position != components.Vec(10, 590) {
		t.Errorf("explicit resource not appended: %+v", last)
	}
}

func TestPlaceLights_BadKind(t *testing.T) {
	cfg := config.Defaults()
	cfg.Resources = []config.ResourceConfig{{Kind: "lava"}}

	if _, err := PlaceLights(newRand(1), cfg); err == nil {
		t.Error("expected error for unknown kind")
	}
}

// ---------- sim ----------

func TestNew_PublishesSeed(t *testing.T) {
	s := newTestSim(t, Options{})

	snap := s.Snapshot()
	if snap == nil {
		t.Fatal("no snapshot published")
	}
	if len(snap.Nodes) != 1 || snap.Tick != 0 {
		t.Fatalf("expected seed only at tick 0, got %d nodes at tick %d", len(snap.Nodes), snap.Tick)
	}
	cfg := config.Cfg()
	if snap.Nodes[0].Position != components.Vec(cfg.Environment.SeedX, cfg.Environment.SeedY) {
		t.Errorf("seed at %+v", snap.Nodes[0].Position)
	}
	if len(snap.Resources) != cfg.Environment.NumLightSources+len(cfg.Resources) {
		t.Errorf("got %d resources", len(snap.Resources))
	}
}

func TestStep_RunsStepsPerUpdate(t *testing.T) {
	s := newTestSim(t, Options{StepsPerUpdate: 4})

	s.Step()
	if s.Tick() != 4 || s.Snapshot().Tick != 4 {
		t.Errorf("tick = %d, snapshot tick = %d, want 4", s.Tick(), s.Snapshot().Tick)
	}

	s.SetStepsPerUpdate(1000)
	if s.StepsPerUpdate() != MaxStepsPerUpdate {
		t.Errorf("steps per update = %d, want clamp to %d", s.StepsPerUpdate(), MaxStepsPerUpdate)
	}
	s.SetStepsPerUpdate(0)
	if s.StepsPerUpdate() != 1 {
		t.Errorf("steps per update = %d, want clamp to 1", s.StepsPerUpdate())
	}
}

func TestUpdate_RespectsPause(t *testing.T) {
	s := newTestSim(t, Options{StartPaused: true})

	s.Update()
	if s.Tick() != 0 {
		t.Fatal("paused sim advanced")
	}

	s.TogglePause()
	s.Update()
	if s.Tick() != 1 {
		t.Errorf("tick = %d, want 1", s.Tick())
	}
}

func TestSim_SameSeedSameRun(t *testing.T) {
	a := newTestSim(t, Options{Seed: 99})
	b := newTestSim(t, Options{Seed: 99})

	for i := 0; i < 30; i++ {
		a.Step()
		b.Step()
	}
	if !reflect.DeepEqual(a.Snapshot().Nodes, b.Snapshot().Nodes) {
		t.Error("equal seeds produced different plants")
	}
}

func TestReset_ReplaysFromStart(t *testing.T) {
	s := newTestSim(t, Options{Seed: 7})
	for i := 0; i < 10; i++ {
		s.Step()
	}
	first := s.Snapshot()

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if !s.Paused() {
		t.Error("reset should stop the simulation")
	}
	if s.Tick() != 0 || len(s.Snapshot().Nodes) != 1 {
		t.Fatalf("reset left tick %d with %d nodes", s.Tick(), len(s.Snapshot().Nodes))
	}

	for i := 0; i < 10; i++ {
		s.Step()
	}
	again := s.Snapshot()
	if !reflect.DeepEqual(first.Resources, again.Resources) {
		t.Error("lights moved across reset")
	}
	if len(first.Nodes) != len(again.Nodes) {
		t.Errorf("replay diverged: %d vs %d nodes", len(first.Nodes), len(again.Nodes))
	}
}

func TestUpdateParams_SurvivesReset(t *testing.T) {
	s := newTestSim(t, Options{})
	p := s.Params()
	p.GrowthProb = 0
	p.BranchProb = 0
	s.UpdateParams(p)
	s.Reset()

	for i := 0; i < 20; i++ {
		s.Step()
	}
	if n := len(s.Snapshot().Nodes); n != 1 {
		t.Errorf("plant grew to %d nodes with zero probabilities", n)
	}
}

func TestSim_TelemetryOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	var windows []telemetry.WindowStats
	s := newTestSim(t, Options{
		OutputDir:     dir,
		StatsWindow:   5,
		StatsCallback: func(w telemetry.WindowStats) { windows = append(windows, w) },
	})

	for i := 0; i < 20; i++ {
		s.Step()
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if len(windows) != 4 {
		t.Fatalf("got %d stats windows, want 4", len(windows))
	}
	if windows[3].WindowEndTick != 20 {
		t.Errorf("last window ends at %d, want 20", windows[3].WindowEndTick)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1; lines != 5 {
		t.Errorf("telemetry.csv has %d lines, want header + 4", lines)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
