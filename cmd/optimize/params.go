// Package main provides CMA-ES optimization for sprout growth parameters.
package main

import (
	"github.com/pthm-cable/sprout/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Growth policy
			{Name: "growth_rate", Path: "growth.rate", Min: 1.0, Max: 15.0, Default: 5.0},
			{Name: "growth_prob", Path: "growth.prob", Min: 0.05, Max: 0.9, Default: 0.3},
			{Name: "branch_prob", Path: "growth.branch_prob", Min: 0.01, Max: 0.5, Default: 0.1},
			// Dynamics (epsilon and d_critical locked)
			{Name: "lambda", Path: "dynamics.lambda", Min: 0.05, Max: 2.0, Default: 0.5},
			{Name: "alpha", Path: "dynamics.alpha", Min: 0.05, Max: 1.0, Default: 0.2},
			{Name: "beta", Path: "dynamics.beta", Min: 0.05, Max: 1.0, Default: 0.3},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// FromConfig reads the current parameter values out of cfg, clamped to bounds.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	return pv.Clamp([]float64{
		cfg.Growth.Rate,
		cfg.Growth.Prob,
		cfg.Growth.BranchProb,
		cfg.Dynamics.Lambda,
		cfg.Dynamics.Alpha,
		cfg.Dynamics.Beta,
	})
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Growth.Rate = clamped[0]
	cfg.Growth.Prob = clamped[1]
	cfg.Growth.BranchProb = clamped[2]
	cfg.Dynamics.Lambda = clamped[3]
	cfg.Dynamics.Alpha = clamped[4]
	cfg.Dynamics.Beta = clamped[5]
}
