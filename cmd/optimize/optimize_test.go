package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/telemetry"
)

// ---------- params ----------

func TestParamVector_NormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: roundtrip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVector_DefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	fromCfg := pv.FromConfig(config.Defaults())
	for i, spec := range pv.Specs {
		if fromCfg[i] != spec.Default {
			t.Errorf("%s: config default %v, spec default %v", spec.Name, fromCfg[i], spec.Default)
		}
	}
}

func TestParamVector_ApplyClampsAndValidates(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	values := make([]float64, pv.Dim())
	for i := range values {
		values[i] = -100
	}
	pv.ApplyToConfig(cfg, values)

	got := pv.FromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Min {
			t.Errorf("%s = %v, want clamped to %v", spec.Name, got[i], spec.Min)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config with clamped params is invalid: %v", err)
	}
}

// ---------- fitness ----------

func TestComputeFitness_PrefersCapture(t *testing.T) {
	if computeFitness(0.5, 0) >= computeFitness(0.2, 1) {
		t.Error("higher capture should give lower fitness")
	}
	if computeFitness(0.5, 1) >= computeFitness(0.5, 0) {
		t.Error("quality should break ties")
	}
}

func TestMeanCapture_SkipsWarmup(t *testing.T) {
	windows := []telemetry.WindowStats{
		{LightCapture: 100}, {LightCapture: 100},
		{LightCapture: 0.2}, {LightCapture: 0.4},
	}
	if got := meanCapture(windows); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("meanCapture = %v, want 0.3", got)
	}
	if got := meanCapture(windows[:2]); got != 0 {
		t.Errorf("meanCapture over warmup only = %v, want 0", got)
	}
}

func TestComputeQuality(t *testing.T) {
	calm := []telemetry.WindowStats{{Population: 10, Reach: 600}}
	if got := computeQuality(calm, 600); math.Abs(got-1) > 1e-12 {
		t.Errorf("calm full-height plant quality = %v, want 1", got)
	}

	stormy := []telemetry.WindowStats{{Population: 10, Resets: 50, Reach: 0}}
	if got := computeQuality(stormy, 600); got > 0.01 {
		t.Errorf("stormy flat plant quality = %v, want ~0", got)
	}

	if got := computeQuality(nil, 600); got != 0 {
		t.Errorf("no windows quality = %v, want 0", got)
	}
}

func TestFitnessEvaluator_Evaluate(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 60, []int64{42, 1042}, config.Defaults())

	f := fe.Evaluate(pv.DefaultVector())
	if math.IsInf(f, 0) || math.IsNaN(f) {
		t.Fatalf("Evaluate = %v", f)
	}
	if f >= 0 {
		t.Errorf("fitness = %v, want negative (some light captured)", f)
	}
	if fe.LastCapture() <= 0 {
		t.Errorf("LastCapture = %v, want > 0", fe.LastCapture())
	}

	// Deterministic for fixed seeds.
	if again := fe.Evaluate(pv.DefaultVector()); again != f {
		t.Errorf("repeat Evaluate = %v, want %v", again, f)
	}
}
