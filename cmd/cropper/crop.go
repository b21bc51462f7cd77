package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-cropper/internal/core"
	"github.com/vovakirdan/tui-cropper/internal/crop"
	"github.com/vovakirdan/tui-cropper/internal/platform/tui"
	"github.com/vovakirdan/tui-cropper/internal/registry"
	"github.com/vovakirdan/tui-cropper/internal/storage"
)

// Pixel size a pattern is rendered at when cropped locally.
const (
	patternW = 1600
	patternH = 1000
)

var (
	flagImage   string
	flagPattern string
	flagOut     string
	flagOutDir  string
)

var cropCmd = &cobra.Command{
	Use:   "crop",
	Short: "Crop an image interactively",
	Long: `Open an image (or a built-in pattern) under the crop frame.

Controls:
  Mouse drag        - Move the image, release to fling
  Mouse wheel       - Zoom
  Arrows/hjkl       - Nudge
  Shift+Arrows/HJKL - Fling
  +/-               - Zoom in/out
  C/Enter           - Crop and save
  R                 - Reset
  ?                 - Toggle help
  Q/Ctrl+C          - Quit

The frame border turns red while the image does not cover it.

Examples:
  cropper crop --image photo.jpg
  cropper crop --image photo.jpg --out square.png
  cropper crop --pattern checker --preset snappy
  cropper crop --image photo.jpg --config ./my-cropper.yaml`,
	Args: cobra.NoArgs,
	Run:  runCrop,
}

func init() {
	cropCmd.Flags().StringVar(&flagImage, "image", "", "Path to the image to crop")
	cropCmd.Flags().StringVar(&flagPattern, "pattern", "", "Built-in pattern to crop when no image is given (default: checker)")
	cropCmd.Flags().StringVar(&flagOut, "out", "", "Output file for the crop (format from extension)")
	cropCmd.Flags().StringVar(&flagOutDir, "out-dir", "~/.cropper/crops", "Directory for timestamped crops when --out is not set")
	cropCmd.MarkFlagsMutuallyExclusive("image", "pattern")
}

func runCrop(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	src, err := loadSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so only --debug logs anywhere
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open crop history
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		// Continue without storage - cropping still works
		store = nil
	}

	opts := tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
		},
		Store:   store,
		OutDir:  expandHome(flagOutDir),
		OutPath: flagOut,
		Logger:  logger,
	}

	runErr := tui.Run(src, opts)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running cropper: %v\n", runErr)
		os.Exit(1)
	}
}

// loadSource opens --image, or renders --pattern.
func loadSource() (tui.Source, error) {
	if flagImage != "" {
		img, err := crop.Open(flagImage)
		if err != nil {
			return tui.Source{}, err
		}
		return tui.Source{Name: flagImage, Image: img}, nil
	}

	id := flagPattern
	if id == "" {
		id = "checker"
	}
	if !registry.Exists(id) {
		return tui.Source{}, fmt.Errorf("unknown pattern %q (run 'cropper patterns' to list them)", id)
	}
	p, err := registry.Create(id)
	if err != nil {
		return tui.Source{}, err
	}
	return tui.Source{Name: "pattern:" + id, Image: p.Image(patternW, patternH)}, nil
}
