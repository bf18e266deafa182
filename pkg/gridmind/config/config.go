// Package config loads simulation settings from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
)

// Config holds the settings for a simulation run
type Config struct {
	// GridSize is the cave dimension n of the n×n grid
	GridSize int `yaml:"grid_size"`
	// Wumpuses is the number of wumpuses placed
	Wumpuses int `yaml:"wumpuses"`
	// PitProbability is the per-cell pit chance outside the protected zone
	PitProbability float64 `yaml:"pit_probability"`
	// Seed drives world generation; runs with the same seed are identical
	Seed int64 `yaml:"seed"`
	// DPLLBudget caps inference steps per query; 0 means the engine default
	DPLLBudget int `yaml:"dpll_budget"`
	// RiskExploration lets the agent enter Unknown cells when no safe
	// frontier remains
	RiskExploration bool `yaml:"risk_exploration"`
	// MaxTurns aborts an episode that has not ended on its own
	MaxTurns int `yaml:"max_turns"`
	// SnapshotDB is an optional sqlite path for episode persistence
	SnapshotDB string `yaml:"snapshot_db"`
}

// Default returns the classic 4×4 single-wumpus setup
func Default() Config {
	return Config{
		GridSize:        4,
		Wumpuses:        1,
		PitProbability:  0.2,
		Seed:            1,
		RiskExploration: true,
		MaxTurns:        200,
	}
}

// Load reads a config from a YAML file, filling unset fields from Default
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field ranges
func (c Config) Validate() error {
	if c.GridSize < 2 {
		return fmt.Errorf("%w: grid_size %d, need at least 2", internalerr.ErrInvalidConfig, c.GridSize)
	}
	if c.Wumpuses < 0 {
		return fmt.Errorf("%w: wumpuses %d", internalerr.ErrInvalidConfig, c.Wumpuses)
	}
	if c.PitProbability < 0 || c.PitProbability >= 1 {
		return fmt.Errorf("%w: pit_probability %v outside [0,1)", internalerr.ErrInvalidConfig, c.PitProbability)
	}
	if c.DPLLBudget < 0 {
		return fmt.Errorf("%w: dpll_budget %d", internalerr.ErrInvalidConfig, c.DPLLBudget)
	}
	if c.MaxTurns < 1 {
		return fmt.Errorf("%w: max_turns %d", internalerr.ErrInvalidConfig, c.MaxTurns)
	}
	return nil
}
