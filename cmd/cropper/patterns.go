package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cropper/internal/registry"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List built-in patterns",
	Long:  `Shows the procedurally generated images that can be cropped without a file.`,
	Run:   runPatterns,
}

func runPatterns(_ *cobra.Command, _ []string) {
	patterns := registry.List()

	if len(patterns) == 0 {
		fmt.Println("No patterns available.")
		return
	}

	fmt.Println("Available patterns:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range patterns {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, p := range patterns {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, p.Title)
	}

	fmt.Println()
	fmt.Println("Run 'cropper crop --pattern <id>' to crop one.")
}
