package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sim.yaml")

	content := `grid_size: 6
wumpuses: 2
pit_probability: 0.15
seed: 99
dpll_budget: 50000
risk_exploration: false
max_turns: 300
snapshot_db: episodes.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GridSize != 6 {
		t.Errorf("Expected grid_size 6, got %d", cfg.GridSize)
	}
	if cfg.Wumpuses != 2 {
		t.Errorf("Expected 2 wumpuses, got %d", cfg.Wumpuses)
	}
	if cfg.PitProbability != 0.15 {
		t.Errorf("Expected pit_probability 0.15, got %v", cfg.PitProbability)
	}
	if cfg.Seed != 99 {
		t.Errorf("Expected seed 99, got %d", cfg.Seed)
	}
	if cfg.DPLLBudget != 50000 {
		t.Errorf("Expected dpll_budget 50000, got %d", cfg.DPLLBudget)
	}
	if cfg.RiskExploration {
		t.Error("Expected risk_exploration false")
	}
	if cfg.MaxTurns != 300 {
		t.Errorf("Expected max_turns 300, got %d", cfg.MaxTurns)
	}
	if cfg.SnapshotDB != "episodes.db" {
		t.Errorf("Unexpected snapshot_db: %s", cfg.SnapshotDB)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sim.yaml")

	// only the seed is set; everything else comes from Default
	if err := os.WriteFile(path, []byte("seed: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	def := Default()
	if cfg.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", cfg.Seed)
	}
	if cfg.GridSize != def.GridSize {
		t.Errorf("Expected default grid_size %d, got %d", def.GridSize, cfg.GridSize)
	}
	if cfg.MaxTurns != def.MaxTurns {
		t.Errorf("Expected default max_turns %d, got %d", def.MaxTurns, cfg.MaxTurns)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny grid", func(c *Config) { c.GridSize = 1 }},
		{"negative wumpuses", func(c *Config) { c.Wumpuses = -1 }},
		{"pit probability one", func(c *Config) { c.PitProbability = 1 }},
		{"negative pit probability", func(c *Config) { c.PitProbability = -0.5 }},
		{"negative budget", func(c *Config) { c.DPLLBudget = -1 }},
		{"zero max turns", func(c *Config) { c.MaxTurns = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default config must validate, got %v", err)
	}
}
