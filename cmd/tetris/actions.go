package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-gym/internal/pieces"
)

var actionsCmd = &cobra.Command{
	Use:   "actions [id]",
	Short: "Show the action table of a variant",
	Long: `Lists, for every piece in play, the action indices and the
(translation, rotation) placement each one selects.

Examples:
  tetris actions simplifiedtetris-binary-10x10-2-v0
  tetris actions --config ./my-tetris.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runActions,
}

func runActions(cmd *cobra.Command, args []string) {
	cfg, _ := setup()

	id, ecfg, err := resolveVariant(args, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	e, err := makeEngine(id, ecfg, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lib, err := pieces.ForSize(ecfg.PieceSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	table := e.Actions()
	fmt.Println(titleStyle.Render("Action table - " + id))
	fmt.Println(field("Actions per step", table.Cap()))
	fmt.Println()

	for _, shape := range lib.Shapes(e.Config().PieceCount) {
		entries := table.Entries(shape.ID)
		fmt.Printf("%s (id %d, %d actions)\n", shape.Name, shape.ID, len(entries))
		fmt.Printf("  %-6s  %-11s  %s\n", "Action", "Translation", "Rotation")
		fmt.Printf("  %-6s  %-11s  %s\n", "------", "-----------", "--------")
		for i, entry := range entries {
			fmt.Printf("  %-6d  %-11d  %d\n", i, entry.Translation, entry.Rotation)
		}
		fmt.Println()
	}
}
