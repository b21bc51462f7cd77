package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-cropper/internal/platform/tui"
	"github.com/vovakirdan/tui-cropper/internal/storage"
)

var (
	flagLimit  int
	flagSource string
	flagBrowse bool
	flagStats  bool
	flagClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show saved crops",
	Long: `Display the most recent crops, newest first.

Examples:
  cropper history
  cropper history --limit 50
  cropper history --source photo.jpg
  cropper history --stats
  cropper history --browse
  cropper history --clear --source photo.jpg`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of crops to show")
	historyCmd.Flags().StringVar(&flagSource, "source", "", "Only show crops of this source")
	historyCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse history in a scrollable table")
	historyCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-source statistics")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the crops of --source")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if flagSource == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear requires --source")
			os.Exit(1)
		}
		if err := store.ClearCrops(flagSource); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared crops of %s\n", flagSource)
		return
	}

	if flagBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flagStats {
		printStats(store)
		return
	}

	var entries []storage.CropEntry
	if flagSource != "" {
		entries, err = store.CropsBySource(flagSource, flagLimit)
	} else {
		entries, err = store.RecentCrops(flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving crops: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No crops recorded yet.")
		fmt.Println()
		fmt.Println("Run 'cropper crop' and press C to save one.")
		return
	}

	fmt.Printf("  %-5s  %-16s  %-22s  %-6s  %s\n", "ID", "Date", "Rect", "Zoom", "Source -> Output")
	fmt.Printf("  %-5s  %-16s  %-22s  %-6s  %s\n", "--", "----", "----", "----", "----------------")

	for _, e := range entries {
		rect := fmt.Sprintf("%d,%d %dx%d", e.Rect.Min.X, e.Rect.Min.Y, e.Rect.Dx(), e.Rect.Dy())
		target := e.Source
		if e.Output != "" {
			target += " -> " + e.Output
		}
		fmt.Printf("  %-5d  %-16s  %-22s  %-6s  %s\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04"), rect, fmt.Sprintf("%.2fx", e.Scale), target)
	}
}

func printStats(store *storage.Store) {
	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}
	if len(stats) == 0 {
		fmt.Println("No crops recorded yet.")
		return
	}

	sources := make([]string, 0, len(stats))
	for s := range stats {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	fmt.Printf("  %-6s  %-8s  %-16s  %s\n", "Crops", "Avg zoom", "Last", "Source")
	fmt.Printf("  %-6s  %-8s  %-16s  %s\n", "-----", "--------", "----", "------")
	for _, s := range sources {
		st := stats[s]
		fmt.Printf("  %-6d  %-8s  %-16s  %s\n",
			st.Crops, fmt.Sprintf("%.2fx", st.AvgScale), st.LastCrop.Format("2006-01-02 15:04"), st.Source)
	}
}
