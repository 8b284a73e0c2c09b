package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	if got, want := Default(), DefaultConfig(); got != want {
		t.Errorf("embedded defaults differ from DefaultConfig():\n got %+v\nwant %+v", got, want)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("engine:\n  variant: \"\"\n  width: 6\n  height: 12\n  piece_size: 3\nrollout:\n  agent: greedy\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Rollout.Agent != "greedy" {
		t.Errorf("agent = %q, want greedy", cfg.Rollout.Agent)
	}
	if cfg.Rollout.Episodes != 10 {
		t.Errorf("episodes = %d, want default 10", cfg.Rollout.Episodes)
	}

	ec, err := cfg.Engine.Resolve()
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if ec.Width != 6 || ec.Height != 12 || ec.PieceSize != 3 {
		t.Errorf("unexpected engine config %+v", ec)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing custom path")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rollout: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail for malformed YAML")
	}
}

func TestResolveVariant(t *testing.T) {
	ec := EngineConfig{Variant: "simplifiedtetris-binary-10x10-2-v0", ActionCount: 12}
	cfg, err := ec.Resolve()
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 10 || cfg.PieceSize != 2 || cfg.ActionCount != 12 {
		t.Errorf("unexpected engine config %+v", cfg)
	}

	if _, err := (EngineConfig{Variant: "bogus"}).Resolve(); err == nil {
		t.Error("Resolve() should fail for a malformed variant")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero envs", func(c *Config) { c.Rollout.Envs = 0 }, true},
		{"zero episodes", func(c *Config) { c.Rollout.Episodes = 0 }, true},
		{"negative max steps", func(c *Config) { c.Rollout.MaxSteps = -1 }, true},
		{"unknown agent", func(c *Config) { c.Rollout.Agent = "ppo" }, true},
		{"greedy agent", func(c *Config) { c.Rollout.Agent = "greedy" }, false},
		{"json logs", func(c *Config) { c.Log.Format = "json" }, false},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
