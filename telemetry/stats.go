// Package telemetry provides growth statistics, bookmarks, perf timing and CSV output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int `csv:"-"`
	WindowEndTick   int `csv:"window_end"`

	// Population at window end
	Population int     `csv:"population"`
	Capacity   int     `csv:"capacity"`
	Fill       float64 `csv:"fill"`
	Active     int     `csv:"active"` // nodes still able to extend

	// Events during window
	Extended   int `csv:"extended"`
	Branched   int `csv:"branched"`
	Resets     int `csv:"resets"`
	CapBlocked int `csv:"cap_blocked"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Coherence distribution
	CoherenceMean float64 `csv:"coherence_mean"`
	CoherenceP10  float64 `csv:"coherence_p10"`
	CoherenceP50  float64 `csv:"coherence_p50"`
	CoherenceP90  float64 `csv:"coherence_p90"`

	DistortionMean float64 `csv:"distortion_mean"`
	DistortionMax  float64 `csv:"distortion_max"`
	TemporalMean   float64 `csv:"temporal_mean"`
	SpatialMean    float64 `csv:"spatial_mean"`

	// Shape
	MaxDepth int     `csv:"max_depth"`
	Reach    float64 `csv:"reach"` // highest point above the seed, in world units

	LightCapture float64 `csv:"light_capture"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// Describe computes mean, population std, max and percentiles of values.
// values is not modified.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
		Max:  floats.Max(sorted),
	}
}

// LightCapture scores a plant by how much of its node budget it filled and
// how well fed those nodes are: mean energy times population/capacity.
func LightCapture(energies []float64, capacity int) float64 {
	if len(energies) == 0 || capacity <= 0 {
		return 0
	}
	fill := float64(len(energies)) / float64(capacity)
	if fill > 1 {
		fill = 1
	}
	return stat.Mean(energies, nil) * fill
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("capacity", s.Capacity),
		slog.Float64("fill", s.Fill),
		slog.Int("active", s.Active),
		slog.Int("extended", s.Extended),
		slog.Int("branched", s.Branched),
		slog.Int("resets", s.Resets),
		slog.Int("cap_blocked", s.CapBlocked),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("coherence_mean", s.CoherenceMean),
		slog.Float64("coherence_p10", s.CoherenceP10),
		slog.Float64("coherence_p50", s.CoherenceP50),
		slog.Float64("coherence_p90", s.CoherenceP90),
		slog.Float64("distortion_mean", s.DistortionMean),
		slog.Float64("distortion_max", s.DistortionMax),
		slog.Float64("temporal_mean", s.TemporalMean),
		slog.Float64("spatial_mean", s.SpatialMean),
		slog.Int("max_depth", s.MaxDepth),
		slog.Float64("reach", s.Reach),
		slog.Float64("light_capture", s.LightCapture),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"population", s.Population,
		"fill", s.Fill,
		"active", s.Active,
		"extended", s.Extended,
		"branched", s.Branched,
		"resets", s.Resets,
		"cap_blocked", s.CapBlocked,
		"energy_mean", s.EnergyMean,
		"energy_p10", s.EnergyP10,
		"energy_p90", s.EnergyP90,
		"coherence_mean", s.CoherenceMean,
		"distortion_max", s.DistortionMax,
		"max_depth", s.MaxDepth,
		"reach", s.Reach,
		"light_capture", s.LightCapture,
	)
}
