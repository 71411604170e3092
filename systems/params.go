package systems

import "github.com/pthm-cable/sprout/config"

// Energy bounds for any node.
const (
	MinEnergy      = 0.1
	MaxEnergy      = 1.5
	baselineEnergy = 0.3
)

// Growth gates.
const (
	extendMinCoherence = 0.1
	extendMaxAge       = 20
	branchMinCoherence = 0.2
	branchMaxAge       = 5
)

// CapMode selects how MaxNodes is enforced within a tick.
type CapMode uint8

const (
	// CapHard counts children already produced this tick, so a tick never
	// ends above MaxNodes.
	CapHard CapMode = iota
	// CapSoft checks only the pre-tick population. A tick can overshoot
	// MaxNodes when many nodes pass their gates at once.
	CapSoft
)

// EngineParams is the configuration bundle read by every tick.
type EngineParams struct {
	// Coherence dynamics
	Alpha     float64 // coherence decay
	Beta      float64 // distortion growth
	Epsilon   float64 // denominator floor
	DCritical float64 // singularity threshold
	Lambda    float64 // attention decay

	// Growth policy
	GrowthRate    float64
	GrowthProb    float64
	BranchProb    float64
	MaxNodes      int
	InitialEnergy float64
	CapMode       CapMode

	// Resource field
	MaxEnergyDistance float64
}

// DefaultParams returns the documented default parameter set.
func DefaultParams() EngineParams {
	return EngineParams{
		Alpha:             0.2,
		Beta:              0.3,
		Epsilon:           1e-9,
		DCritical:         15.0,
		Lambda:            0.5,
		GrowthRate:        5.0,
		GrowthProb:        0.3,
		BranchProb:        0.1,
		MaxNodes:          500,
		InitialEnergy:     1.0,
		CapMode:           CapHard,
		MaxEnergyDistance: 200.0,
	}
}

// ParamsFromConfig builds EngineParams from a loaded config.
func ParamsFromConfig(cfg *config.Config) EngineParams {
	mode := CapSoft
	if cfg.Derived.HardCap {
		mode = CapHard
	}
	return EngineParams{
		Alpha:             cfg.Dynamics.Alpha,
		Beta:              cfg.Dynamics.Beta,
		Epsilon:           cfg.Dynamics.Epsilon,
		DCritical:         cfg.Dynamics.DCritical,
		Lambda:            cfg.Dynamics.Lambda,
		GrowthRate:        cfg.Growth.Rate,
		GrowthProb:        cfg.Growth.Prob,
		BranchProb:        cfg.Growth.BranchProb,
		MaxNodes:          cfg.Growth.MaxNodes,
		InitialEnergy:     cfg.Growth.InitialEnergy,
		CapMode:           mode,
		MaxEnergyDistance: cfg.Environment.MaxEnergyDistance,
	}
}

// clampEnergy limits e to [MinEnergy, MaxEnergy].
func clampEnergy(e float64) float64 {
	return clamp(e, MinEnergy, MaxEnergy)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
