package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/sim"
	"github.com/pthm-cable/sprout/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu          sync.Mutex
	lastCapture float64 // mean light capture from the most recent Evaluate call
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	window := maxTicks / 20
	if window < 1 {
		window = 1
	}
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: window,
	}
}

// LastCapture returns the light capture from the most recent evaluation.
func (fe *FitnessEvaluator) LastCapture() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastCapture
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	capture float64
	quality float64
	err     error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// A run that fails to start scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Seeds share the config read-only.
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows, err := fe.runSimulation(cfg, s)
			results[idx] = seedResult{
				capture: meanCapture(windows),
				quality: computeQuality(windows, cfg.World.Height),
				err:     err,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalCapture, totalQuality float64
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("evaluation failed: %v\n", r.err)
			return math.Inf(1)
		}
		totalFitness += computeFitness(r.capture, r.quality)
		totalCapture += r.capture
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastCapture = totalCapture / n
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run to maxTicks and returns the
// stats windows it produced.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) ([]telemetry.WindowStats, error) {
	var windows []telemetry.WindowStats
	s, err := sim.New(cfg, sim.Options{
		Seed:           seed,
		StepsPerUpdate: 1,
		StatsWindow:    fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer s.Close()

	for s.Tick() < fe.maxTicks {
		s.Step()
	}
	return windows, nil
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Resources = append([]config.ResourceConfig(nil), fe.baseConfig.Resources...)
	return &cfg
}

// Quality component weights.
const (
	qualityWeightCalm  = 0.5
	qualityWeightReach = 0.5

	captureWarmupWindows = 2 // skip first N windows while the plant establishes
)

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(capture × (1.0 + 0.2 × quality))
// Capture dominates; quality adds up to 20% on top.
func computeFitness(capture, quality float64) float64 {
	return -(capture * (1.0 + 0.2*quality))
}

// meanCapture averages light capture over the windows past warmup.
func meanCapture(windows []telemetry.WindowStats) float64 {
	if len(windows) <= captureWarmupWindows {
		return 0
	}
	valid := windows[captureWarmupWindows:]
	captures := make([]float64, len(valid))
	for i, w := range valid {
		captures[i] = w.LightCapture
	}
	return stat.Mean(captures, nil)
}

// computeQuality scores a run in [0, 1]: few singularity resets per node and
// a plant that climbs towards the lights.
func computeQuality(windows []telemetry.WindowStats, worldHeight float64) float64 {
	if len(windows) == 0 || worldHeight <= 0 {
		return 0
	}

	var resets, nodes int
	for _, w := range windows {
		resets += w.Resets
		nodes += w.Population
	}
	calm := 1.0
	if nodes > 0 {
		calm = math.Exp(-float64(resets) / float64(nodes))
	}

	last := windows[len(windows)-1]
	reach := clamp01(last.Reach / worldHeight)

	return clamp01(qualityWeightCalm*calm + qualityWeightReach*reach)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
