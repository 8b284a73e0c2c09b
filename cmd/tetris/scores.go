package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-gym/internal/registry"
	"github.com/vovakirdan/tetris-gym/internal/storage"
)

var (
	flagLimit int
	flagClear bool
	flagAll   bool
	flagRun   string
)

var scoresCmd = &cobra.Command{
	Use:   "scores [id]",
	Short: "Show recorded scores for a variant",
	Long: `Display the best episode scores and the most recent evaluation runs
for the specified variant.

Examples:
  tetris scores simplifiedtetris-binary-20x10-4-v0
  tetris scores simplifiedtetris-binary-10x10-2-v0 --limit 20
  tetris scores simplifiedtetris-binary-10x10-2-v0 --clear
  tetris scores --all
  tetris scores --run 3f2b9c1e-6a0d-4c57-9f0e-2d1a7b8c4e55`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores and runs to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded scores for the variant")
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "Summarize every variant with recorded scores")
	scoresCmd.Flags().StringVar(&flagRun, "run", "", "Show the episodes of a single run")
}

func runScores(cmd *cobra.Command, args []string) {
	cfg, _ := setup()

	if flagAll {
		runAllScores(cfg.Storage.DBPath)
		return
	}
	if flagRun != "" {
		runRunScores(cfg.Storage.DBPath, flagRun)
		return
	}

	id, _, err := resolveVariant(args, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'tetris list' to see registered variants.")
		os.Exit(1)
	}

	title := id
	for _, v := range registry.List() {
		if v.ID == id {
			title = v.Title
		}
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(id); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared scores for %s\n", id)
		return
	}

	scores, err := store.TopScores(id, flagLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render("High Scores - " + title))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println(hintStyle.Render(fmt.Sprintf("Run 'tetris eval %s' to record the first run.", id)))
		return
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %s\n", "Rank", "Score", "Run", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %s\n", "----", "-----", "---", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-8s  %s\n", i+1, entry.Score, shortID(entry.RunID), dateStr)
	}

	runs, err := store.RecentRuns(id, flagLimit)
	if err == nil && len(runs) > 0 {
		fmt.Println()
		fmt.Println(titleStyle.Render("Recent runs"))
		fmt.Printf("  %-8s  %-7s  %-8s  %-8s  %-8s  %s\n", "Run", "Agent", "Episodes", "Mean", "Std", "Date")
		fmt.Printf("  %-8s  %-7s  %-8s  %-8s  %-8s  %s\n", "---", "-----", "--------", "----", "---", "----")
		for _, r := range runs {
			fmt.Printf("  %-8s  %-7s  %-8d  %-8.2f  %-8.2f  %s\n",
				shortID(r.ID), r.Agent, r.Episodes, r.Mean, r.Std, r.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	fmt.Println()
	if stats, err := store.GetVariantStats(id); err == nil {
		fmt.Println(field("Best", stats.HighScore))
		fmt.Println(field("Episodes", stats.EpisodeCount))
		fmt.Println(field("Average", fmt.Sprintf("%.2f", stats.AvgScore)))
	}
}

func runAllScores(dbPath string) {
	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	stats, err := store.GetAllVariantStats()
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println(titleStyle.Render("Recorded variants"))
	fmt.Println()
	fmt.Printf("  %-36s  %-5s  %-8s  %-5s  %-8s  %s\n", "ID", "Runs", "Episodes", "Best", "Average", "Last")
	fmt.Printf("  %-36s  %-5s  %-8s  %-5s  %-8s  %s\n", "--", "----", "--------", "----", "-------", "----")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-36s  %-5d  %-8d  %-5d  %-8.2f  %s\n",
			id, s.RunsCount, s.EpisodeCount, s.HighScore, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
}

func runRunScores(dbPath, runID string) {
	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	run, err := store.RunByID(runID)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: unknown run %q\n", runID)
		os.Exit(1)
	}

	scores, err := store.RunScores(runID)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render("Run " + run.ID))
	fmt.Println(field("Variant", run.VariantID))
	fmt.Println(field("Agent", run.Agent))
	fmt.Println(field("Seed", run.Seed))
	fmt.Println(field("Mean / Std", fmt.Sprintf("%.2f / %.2f", run.Mean, run.Std)))
	fmt.Println(field("Date", run.CreatedAt.Format("2006-01-02 15:04")))
	fmt.Println()

	fmt.Printf("  %-7s  %s\n", "Episode", "Score")
	fmt.Printf("  %-7s  %s\n", "-------", "-----")
	for i, entry := range scores {
		fmt.Printf("  %-7d  %d\n", i+1, entry.Score)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
