package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-gym/internal/agent"
	"github.com/vovakirdan/tetris-gym/internal/engine"
	"github.com/vovakirdan/tetris-gym/internal/registry"
	"github.com/vovakirdan/tetris-gym/internal/storage"
)

var (
	flagAgent  string
	flagRender bool
	flagSave   bool
)

var playCmd = &cobra.Command{
	Use:   "play [id]",
	Short: "Play one episode with an agent",
	Long: `Play a single episode of the variant with the chosen agent and print
the final score. With --render the grid is drawn after every placement.

Agents:
  random  - Uniformly random legal action
  greedy  - One-step lookahead: avoid lock-out, clear rows, stay low

Examples:
  tetris play simplifiedtetris-binary-10x10-2-v0 --render
  tetris play simplifiedtetris-binary-20x10-4-v0 --agent greedy --seed 7
  tetris play --config ./my-tetris.yaml --save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagAgent, "agent", "", "Agent: random, greedy (default: from config)")
	playCmd.Flags().BoolVar(&flagRender, "render", false, "Draw the grid after every placement")
	playCmd.Flags().BoolVar(&flagSave, "save", false, "Record the final score in the database")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, logger := setup()
	if flagAgent != "" {
		cfg.Rollout.Agent = flagAgent
	}

	id, ecfg, err := resolveVariant(args, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	e, err := makeEngine(id, ecfg, cfg.Rollout.Seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating environment: %v\n", err)
		os.Exit(1)
	}

	ag, err := agent.New(cfg.Rollout.Agent, cfg.Rollout.Seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !registry.Exists(id) {
		logger.Debug("variant not registered, using dimensions from its id", "variant", id)
	}
	logger.Info("playing", "variant", id, "agent", cfg.Rollout.Agent, "seed", cfg.Rollout.Seed)

	steps := 0
	obs := e.Observation()
	for cfg.Rollout.MaxSteps == 0 || steps < cfg.Rollout.MaxSteps {
		piece := e.PieceName()
		res, err := e.Step(ag.Act(e))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		steps++
		obs = res.Observation

		if flagRender {
			fmt.Printf("step %d: %s, %d rows cleared, observed piece %d\n", steps, piece, res.Info.RowsCleared, obs.PieceID())
			fmt.Println(boardStyle.Render(e.Grid().String()))
		}
		if res.Done {
			break
		}
	}

	score := e.Score()

	fmt.Println(titleStyle.Render("Episode finished - " + id))
	fmt.Println(field("Agent", cfg.Rollout.Agent))
	fmt.Println(field("Steps", steps))
	fmt.Println(field("Score", score))
	fmt.Println(field("Filled cells", filledCells(obs)))

	if !flagSave {
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
		Seed:      cfg.Rollout.Seed,
		Mean:      float64(score),
	}, []int{score})
	if err != nil {
		logger.Warn("could not save score", "error", err)
		return
	}
	logger.Info("score saved", "run", runID)

	if best, err := store.HighScore(id); err == nil {
		fmt.Println(field("Best", best))
	}
}

// filledCells counts occupied cells in an observation.
func filledCells(obs engine.Observation) int {
	n := 0
	for _, v := range obs.Occupancy() {
		n += v
	}
	return n
}
