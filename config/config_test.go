package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	if cfg.Dynamics.Alpha != 0.2 || cfg.Dynamics.Beta != 0.3 || cfg.Dynamics.DCritical != 15 {
		t.Errorf("unexpected dynamics defaults: %+v", cfg.Dynamics)
	}
	if cfg.Dynamics.Epsilon != 1e-9 {
		t.Errorf("epsilon = %v, want 1e-9", cfg.Dynamics.Epsilon)
	}
	if cfg.Growth.MaxNodes != 500 {
		t.Errorf("max_nodes = %d, want 500", cfg.Growth.MaxNodes)
	}
	if !cfg.Derived.HardCap {
		t.Error("expected hard cap by default")
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := `
growth:
  max_nodes: 42
  cap_mode: soft
resources:
  - {x: 10, y: 20, intensity: 0.5, kind: water}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Growth.MaxNodes != 42 {
		t.Errorf("max_nodes = %d, want 42", cfg.Growth.MaxNodes)
	}
	// Untouched keys keep their defaults
	if cfg.Growth.Rate != 5.0 {
		t.Errorf("growth.rate = %v, want default 5.0", cfg.Growth.Rate)
	}
	if cfg.Derived.HardCap {
		t.Error("expected soft cap")
	}
	if len(cfg.Resources) != 1 || cfg.Resources[0].Kind != "water" {
		t.Errorf("resources = %+v", cfg.Resources)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SPROUT_MAX_NODES", "77")
	t.Setenv("SPROUT_LAMBDA", "1.25")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Growth.MaxNodes != 77 {
		t.Errorf("max_nodes = %d, want 77", cfg.Growth.MaxNodes)
	}
	if cfg.Dynamics.Lambda != 1.25 {
		t.Errorf("lambda = %v, want 1.25", cfg.Dynamics.Lambda)
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Dynamics.Alpha = 0
	cfg.Growth.Prob = 1.5
	cfg.Resources = []ResourceConfig{{Kind: "lihgt"}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"dynamics.alpha", "growth.prob", "resources[0]"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Growth.BranchProb = 0.25

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Growth.BranchProb != 0.25 {
		t.Errorf("branch_prob = %v, want 0.25", loaded.Growth.BranchProb)
	}
}
