package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded default configuration. It mirrors
// defaults/tetris.yaml.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			Variant: "simplifiedtetris-binary-20x10-4-v0",
		},
		Rollout: RolloutConfig{
			Envs:     4,
			Episodes: 10,
			MaxSteps: 100000,
			Agent:    "random",
		},
		Storage: StorageConfig{
			DBPath: "~/.tetris-gym/scores.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

