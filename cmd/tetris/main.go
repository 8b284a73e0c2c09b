// tetris is a command-line harness for the simplified falling-block
// environment.
//
// Usage:
//
//	tetris list              - List registered variants
//	tetris actions <id>      - Show the action table of a variant
//	tetris play <id>         - Play one episode with an agent
//	tetris eval <id>         - Evaluate an agent over many episodes
//	tetris scores <id>       - Show recorded scores for a variant
//
// Global flags:
//
//	--seed <value>       - RNG seed (0 = config seed, then time based)
//	--db <path>          - Database path (default: from config)
//	--config <path>      - Custom config YAML
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tetris-gym/internal/config"
	"github.com/vovakirdan/tetris-gym/internal/engine"
	"github.com/vovakirdan/tetris-gym/internal/registry"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Simplified Tetris - a deterministic falling-block environment",
	Long: `Simplified Tetris is a deterministic falling-block environment for
reinforcement learning. Each step places the current piece with one
(translation, rotation) action and hard-drops it; the reward is the
number of rows cleared.

Available commands:
  list     - Show all registered variants
  actions  - Show the action table of a variant
  play     - Play one episode with an agent
  eval     - Evaluate an agent over many episodes
  scores   - View recorded scores

Examples:
  tetris list
  tetris actions simplifiedtetris-binary-10x10-2-v0
  tetris play simplifiedtetris-binary-20x10-4-v0 --agent greedy --render
  tetris eval simplifiedtetris-binary-20x10-4-v0 --episodes 100 --envs 8
  tetris scores simplifiedtetris-binary-20x10-4-v0`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config seed, then time based)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default: from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig loads the config file and applies the global flags over it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagSeed != 0 {
		cfg.Rollout.Seed = flagSeed
	}
	if cfg.Rollout.Seed == 0 {
		cfg.Rollout.Seed = time.Now().UnixNano()
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// newLogger builds the CLI logger. An empty format picks text on a
// terminal and logfmt otherwise.
func newLogger(lc config.LogConfig) (*log.Logger, error) {
	level := log.InfoLevel
	if lc.Level != "" {
		l, err := log.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
		}
		level = l
	}

	formatter := log.TextFormatter
	switch lc.Format {
	case "logfmt":
		formatter = log.LogfmtFormatter
	case "json":
		formatter = log.JSONFormatter
	case "":
		if !term.IsTerminal(int(os.Stderr.Fd())) {
			formatter = log.LogfmtFormatter
		}
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetris",
		Level:           level,
		Formatter:       formatter,
	}), nil
}

// resolveVariant picks the engine configuration: the variant argument if
// given, otherwise the config file's engine section.
func resolveVariant(args []string, cfg config.Config) (string, engine.Config, error) {
	ec := cfg.Engine
	if len(args) > 0 {
		ec.Variant = args[0]
	}

	ecfg, err := ec.Resolve()
	if err != nil {
		return "", engine.Config{}, err
	}
	return registry.ID(ecfg.Height, ecfg.Width, ecfg.PieceSize), ecfg, nil
}

// makeEngine creates an engine for the variant, going through the registry
// unless the config overrides piece or action counts.
func makeEngine(id string, ecfg engine.Config, seed int64) (*engine.Engine, error) {
	rng := rand.New(rand.NewSource(seed))
	if ecfg.PieceCount == 0 && ecfg.ActionCount == 0 {
		return registry.Make(id, rng)
	}
	return engine.New(ecfg, rng)
}

// setup loads config and logger, exiting on failure.
func setup() (config.Config, *log.Logger) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger
}
