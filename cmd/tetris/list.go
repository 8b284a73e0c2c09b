package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-gym/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered variants",
	Long: `Shows every registered variant. Any well-formed id of the form
simplifiedtetris-binary-{H}x{W}-{S}-v0 is also accepted by other commands.`,
	Run: runList,
}

func runList(cmd *cobra.Command, args []string) {
	variants := registry.List()

	if len(variants) == 0 {
		fmt.Println("No variants registered.")
		return
	}

	fmt.Println(titleStyle.Render("Available variants:"))
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, v := range variants {
		if len(v.ID) > maxIDLen {
			maxIDLen = len(v.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, v := range variants {
		fmt.Printf("  %-*s  %s\n", maxIDLen, v.ID, v.Title)
	}

	fmt.Println()
	fmt.Println(hintStyle.Render("Run 'tetris eval <id>' to evaluate an agent."))
}
