package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-gym/internal/agent"
	"github.com/vovakirdan/tetris-gym/internal/registry"
	"github.com/vovakirdan/tetris-gym/internal/rollout"
	"github.com/vovakirdan/tetris-gym/internal/storage"
)

var (
	flagEvalAgent string
	flagEpisodes  int
	flagEnvs      int
	flagPlot      string
	flagNoSave    bool
)

var evalCmd = &cobra.Command{
	Use:   "eval [id]",
	Short: "Evaluate an agent over many episodes",
	Long: `Run an agent on several engines in lockstep until the requested number
of episodes has finished, then report the mean and standard deviation of
the episode scores. Results are recorded in the scores database.

Examples:
  tetris eval simplifiedtetris-binary-20x10-4-v0
  tetris eval simplifiedtetris-binary-10x10-3-v0 --agent greedy --episodes 50
  tetris eval simplifiedtetris-binary-20x10-4-v0 --envs 8 --plot ./scores.png`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEval,
}

func init() {
	evalCmd.Flags().StringVar(&flagEvalAgent, "agent", "", "Agent: random, greedy (default: from config)")
	evalCmd.Flags().IntVar(&flagEpisodes, "episodes", 0, "Episodes to run (default: from config)")
	evalCmd.Flags().IntVar(&flagEnvs, "envs", 0, "Engines stepped in lockstep (default: from config)")
	evalCmd.Flags().StringVar(&flagPlot, "plot", "", "Save a PNG plot of episode scores to this path")
	evalCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run in the database")
}

func runEval(cmd *cobra.Command, args []string) {
	cfg, logger := setup()
	if flagEvalAgent != "" {
		cfg.Rollout.Agent = flagEvalAgent
	}
	if flagEpisodes > 0 {
		cfg.Rollout.Episodes = flagEpisodes
	}
	if flagEnvs > 0 {
		cfg.Rollout.Envs = flagEnvs
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	id, ecfg, err := resolveVariant(args, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := cfg.Rollout.Seed
	vec, err := rollout.NewVecEnv(ecfg, cfg.Rollout.Envs, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating environments: %v\n", err)
		os.Exit(1)
	}

	agents := make([]agent.Agent, vec.Len())
	for i := range agents {
		agents[i], err = agent.New(cfg.Rollout.Agent, seed+int64(i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !registry.Exists(id) {
		logger.Debug("variant not registered, using dimensions from its id", "variant", id)
	}
	logger.Info("evaluating",
		"variant", id,
		"agent", cfg.Rollout.Agent,
		"episodes", cfg.Rollout.Episodes,
		"envs", vec.Len(),
		"seed", seed,
	)

	summary, err := rollout.Collect(ctx, vec, agents, rollout.Options{
		Episodes: cfg.Rollout.Episodes,
		MaxSteps: cfg.Rollout.MaxSteps,
		Logger:   logger,
	})
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if summary.Truncated > 0 {
		logger.Warn("episodes hit the step cap", "count", summary.Truncated, "max_steps", cfg.Rollout.MaxSteps)
	}

	fmt.Println(titleStyle.Render("Evaluation - " + id))
	fmt.Println(field("Agent", cfg.Rollout.Agent))
	fmt.Println(field("Episodes", len(summary.Scores)))
	fmt.Println(field("Steps", summary.Steps))
	fmt.Println(field("Mean score", fmt.Sprintf("%.2f", summary.Mean)))
	fmt.Println(field("Std", fmt.Sprintf("%.2f", summary.Std)))
	fmt.Println(field("Min / Max", fmt.Sprintf("%.0f / %.0f", summary.Min, summary.Max)))

	if flagPlot != "" {
		err := rollout.PlotScores(flagPlot, id, map[string][]int{cfg.Rollout.Agent: summary.Scores})
		if err != nil {
			logger.Warn("could not save plot", "error", err)
		} else {
			logger.Info("plot saved", "path", flagPlot)
		}
	}

	if flagNoSave {
		return
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		return
	}
	defer store.Close()

	runID, err := store.SaveRun(storage.Run{
		VariantID: id,
		Agent:     cfg.Rollout.Agent,
		Seed:      seed,
		Mean:      summary.Mean,
		Std:       summary.Std,
	}, summary.Scores)
	if err != nil {
		logger.Warn("could not save run", "error", err)
		return
	}
	logger.Info("run saved", "run", runID)
}
