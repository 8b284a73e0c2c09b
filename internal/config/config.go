// Package config provides YAML-based configuration loading for the engine,
// rollouts, score storage and logging.
package config

import (
	"fmt"

	"github.com/vovakirdan/tetris-gym/internal/engine"
	"github.com/vovakirdan/tetris-gym/internal/registry"
)

// Config is the top-level configuration file.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Rollout RolloutConfig `yaml:"rollout"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// EngineConfig selects the environment. Variant takes precedence over the
// explicit dimensions; zero counts mean the library defaults.
type EngineConfig struct {
	Variant     string `yaml:"variant"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	PieceSize   int    `yaml:"piece_size"`
	PieceCount  int    `yaml:"piece_count"`
	ActionCount int    `yaml:"action_count"`
}

// RolloutConfig defines how episodes are collected.
type RolloutConfig struct {
	Envs     int    `yaml:"envs"`      // Engines stepped in lockstep
	Episodes int    `yaml:"episodes"`  // Episodes per evaluation
	MaxSteps int    `yaml:"max_steps"` // Step cap per episode, 0 = none
	Agent    string `yaml:"agent"`     // "random" or "greedy"
	Seed     int64  `yaml:"seed"`      // 0 = time based
}

// StorageConfig defines where final scores are persisted.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, logfmt, json; empty = auto
}

// Resolve turns the engine section into an engine.Config.
func (c EngineConfig) Resolve() (engine.Config, error) {
	if c.Variant != "" {
		cfg, err := registry.Config(c.Variant)
		if err != nil {
			return engine.Config{}, fmt.Errorf("config: %w", err)
		}
		cfg.PieceCount = c.PieceCount
		cfg.ActionCount = c.ActionCount
		return cfg, nil
	}

	return engine.Config{
		Width:       c.Width,
		Height:      c.Height,
		PieceSize:   c.PieceSize,
		PieceCount:  c.PieceCount,
		ActionCount: c.ActionCount,
	}, nil
}

// Validate checks the rollout and log sections. Engine parameters are
// validated by engine.New.
func (c Config) Validate() error {
	if c.Rollout.Envs < 1 {
		return fmt.Errorf("config: rollout.envs must be positive, got %d", c.Rollout.Envs)
	}
	if c.Rollout.Episodes < 1 {
		return fmt.Errorf("config: rollout.episodes must be positive, got %d", c.Rollout.Episodes)
	}
	if c.Rollout.MaxSteps < 0 {
		return fmt.Errorf("config: rollout.max_steps must not be negative, got %d", c.Rollout.MaxSteps)
	}
	switch c.Rollout.Agent {
	case "random", "greedy":
	default:
		return fmt.Errorf("config: unknown agent %q", c.Rollout.Agent)
	}
	switch c.Log.Format {
	case "", "text", "logfmt", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}
