// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sprout/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvPrefix is prepended to every environment override (e.g. SPROUT_MAX_NODES).
const EnvPrefix = "SPROUT_"

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Dynamics    DynamicsConfig    `yaml:"dynamics"`
	Growth      GrowthConfig      `yaml:"growth"`
	Environment EnvironmentConfig `yaml:"environment"`
	Runner      RunnerConfig      `yaml:"runner"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Explicitly placed resources, added after the generated lights.
	Resources []ResourceConfig `yaml:"resources"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width" env:"SCREEN_WIDTH"`
	Height    int `yaml:"height" env:"SCREEN_HEIGHT"`
	TargetFPS int `yaml:"target_fps" env:"TARGET_FPS"`
}

// WorldConfig holds the growth domain dimensions.
type WorldConfig struct {
	Width  float64 `yaml:"width" env:"WORLD_WIDTH"`
	Height float64 `yaml:"height" env:"WORLD_HEIGHT"`
}

// DynamicsConfig holds the per-node coherence/distortion parameters.
type DynamicsConfig struct {
	Alpha     float64 `yaml:"alpha" env:"ALPHA"`           // coherence decay
	Beta      float64 `yaml:"beta" env:"BETA"`             // distortion growth
	Epsilon   float64 `yaml:"epsilon" env:"EPSILON"`       // singularity avoidance
	DCritical float64 `yaml:"d_critical" env:"D_CRITICAL"` // singularity threshold
	Lambda    float64 `yaml:"lambda" env:"LAMBDA"`         // attention decay
}

// GrowthConfig holds the expansion and branching policy parameters.
type GrowthConfig struct {
	Rate          float64 `yaml:"rate" env:"GROWTH_RATE"` // segment length scale
	Prob          float64 `yaml:"prob" env:"GROWTH_PROB"`
	BranchProb    float64 `yaml:"branch_prob" env:"BRANCH_PROB"`
	MaxNodes      int     `yaml:"max_nodes" env:"MAX_NODES"`
	InitialEnergy float64 `yaml:"initial_energy" env:"INITIAL_ENERGY"`
	CapMode       string  `yaml:"cap_mode" env:"CAP_MODE"` // "hard" or "soft"
}

// EnvironmentConfig holds the resource field setup.
type EnvironmentConfig struct {
	MaxEnergyDistance float64 `yaml:"max_energy_distance" env:"MAX_ENERGY_DISTANCE"`
	NumLightSources   int     `yaml:"num_light_sources" env:"NUM_LIGHT_SOURCES"`
	LightIntensity    float64 `yaml:"light_intensity" env:"LIGHT_INTENSITY"`
	LightBand         float64 `yaml:"light_band" env:"LIGHT_BAND"` // fraction of height lights are placed in
	SeedX             float64 `yaml:"seed_x" env:"SEED_X"`
	SeedY             float64 `yaml:"seed_y" env:"SEED_Y"`
}

// ResourceConfig is an explicitly placed resource.
type ResourceConfig struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Intensity float64 `yaml:"intensity"`
	Kind      string  `yaml:"kind"`
}

// RunnerConfig holds driving-loop parameters.
type RunnerConfig struct {
	TickIntervalMs int `yaml:"tick_interval_ms" env:"TICK_INTERVAL_MS"`
	StepsPerUpdate int `yaml:"steps_per_update" env:"STEPS_PER_UPDATE"`
	LogRingSize    int `yaml:"log_ring_size" env:"LOG_RING_SIZE"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window" env:"STATS_WINDOW"` // ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window" env:"PERF_WINDOW"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HardCap bool // Growth.CapMode == "hard"
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// then applies SPROUT_* environment overrides.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := loadYAML(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()
	return cfg, nil
}

// Defaults returns the embedded defaults, ignoring the environment.
func Defaults() *Config {
	cfg, err := loadYAML("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	cfg.computeDerived()
	return cfg
}

// applyEnv overlays SPROUT_* variables on the scalar sections.
// Resources are YAML-only.
func (c *Config) applyEnv() error {
	sections := []any{&c.Screen, &c.World, &c.Dynamics, &c.Growth, &c.Environment, &c.Runner, &c.Telemetry}
	for _, section := range sections {
		if err := env.ParseWithOptions(section, env.Options{Prefix: EnvPrefix}); err != nil {
			return fmt.Errorf("parsing environment overrides: %w", err)
		}
	}
	return nil
}

func loadYAML(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return cfg, nil
}

// Validate checks every parameter against its allowed range and reports all
// violations at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	d := c.Dynamics
	check(d.Alpha > 0, "dynamics.alpha must be > 0, got %v", d.Alpha)
	check(d.Beta > 0, "dynamics.beta must be > 0, got %v", d.Beta)
	check(d.Epsilon > 0, "dynamics.epsilon must be > 0, got %v", d.Epsilon)
	check(d.DCritical > 0, "dynamics.d_critical must be > 0, got %v", d.DCritical)
	check(d.Lambda >= 0, "dynamics.lambda must be >= 0, got %v", d.Lambda)

	g := c.Growth
	check(g.Rate > 0, "growth.rate must be > 0, got %v", g.Rate)
	check(g.Prob >= 0 && g.Prob <= 1, "growth.prob must be in [0,1], got %v", g.Prob)
	check(g.BranchProb >= 0 && g.BranchProb <= 1, "growth.branch_prob must be in [0,1], got %v", g.BranchProb)
	check(g.MaxNodes > 0, "growth.max_nodes must be > 0, got %d", g.MaxNodes)
	check(g.InitialEnergy > 0, "growth.initial_energy must be > 0, got %v", g.InitialEnergy)
	check(g.CapMode == "hard" || g.CapMode == "soft", "growth.cap_mode must be hard or soft, got %q", g.CapMode)

	check(c.World.Width > 0, "world.width must be > 0, got %v", c.World.Width)
	check(c.World.Height > 0, "world.height must be > 0, got %v", c.World.Height)

	e := c.Environment
	check(e.MaxEnergyDistance > 0, "environment.max_energy_distance must be > 0, got %v", e.MaxEnergyDistance)
	check(e.NumLightSources >= 0, "environment.num_light_sources must be >= 0, got %d", e.NumLightSources)
	check(e.LightBand > 0 && e.LightBand <= 1, "environment.light_band must be in (0,1], got %v", e.LightBand)
	for i, r := range c.Resources {
		_, err := components.ParseResourceKind(r.Kind)
		check(err == nil, "resources[%d]: %v", i, err)
		check(r.Intensity >= 0, "resources[%d].intensity must be >= 0, got %v", i, r.Intensity)
	}

	check(c.Runner.StepsPerUpdate >= 1, "runner.steps_per_update must be >= 1, got %d", c.Runner.StepsPerUpdate)

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.HardCap = c.Growth.CapMode != "soft"

	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
	if c.Runner.LogRingSize < 1 {
		c.Runner.LogRingSize = 100
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
