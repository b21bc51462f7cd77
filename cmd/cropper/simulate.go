package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cropper/internal/motion"
)

var (
	flagVelocity float64
	flagAxis     string
	flagStart    float64
	flagSize     float64
	flagScale    float64
	flagMaxTicks int
	flagEvery    int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Print a fling trajectory on one axis",
	Long: `Fling an element along one axis of the crop frame and print where the
motion takes it, tick by tick, until it comes to rest.

The element starts at --start (its layout top/left edge, in cells) with the
given size and zoom. Whenever it stops covering the frame the fling hands its
velocity over to a spring that pulls it back.

Examples:
  cropper simulate --velocity 120
  cropper simulate --velocity -300 --axis y --start -4
  cropper simulate --velocity 0 --start 6              # Spring back only
  cropper simulate --velocity 80 --scale 2 --preset bouncy`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&flagVelocity, "velocity", 100, "Release velocity in cells per second")
	simulateCmd.Flags().StringVar(&flagAxis, "axis", "x", "Axis to simulate: x or y")
	simulateCmd.Flags().Float64Var(&flagStart, "start", 0, "Start position of the element's layout edge")
	simulateCmd.Flags().Float64Var(&flagSize, "size", 0, "Element layout size (default: 1.5x the frame)")
	simulateCmd.Flags().Float64Var(&flagScale, "scale", 1, "Element zoom factor")
	simulateCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 1200, "Stop after this many ticks")
	simulateCmd.Flags().IntVar(&flagEvery, "every", 1, "Print every n-th tick")
}

// simElement is a free-standing element for headless runs.
type simElement struct {
	pos, size, scale float64
}

func (e *simElement) Position() float64     { return e.pos }
func (e *simElement) SetPosition(p float64) { e.pos = p }
func (e *simElement) Size() float64         { return e.size }
func (e *simElement) Scale() float64        { return e.scale }

func runSimulate(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	var upper float64
	switch flagAxis {
	case "x":
		upper = cfg.Frame.Width
	case "y":
		upper = cfg.Frame.Height
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown axis %q (want x or y)\n", flagAxis)
		os.Exit(1)
	}

	size := flagSize
	if size <= 0 {
		size = upper * 1.5
	}
	if flagScale <= 0 {
		fmt.Fprintf(os.Stderr, "Error: --scale must be positive, got %v\n", flagScale)
		os.Exit(1)
	}
	every := max(flagEvery, 1)

	el := &simElement{pos: flagStart, size: size, scale: flagScale}
	axis := motion.NewAxis(el, motion.AxisConfig{
		Name:     flagAxis,
		Bounds:   motion.Bounds{Lower: 0, Upper: upper},
		MaxScale: cfg.Zoom.MaxScale,
		Motion:   cfg.Motion,
		TickRate: flagFPS,
		Logger:   logger,
	})

	fmt.Printf("Frame [0, %g], element size %g at %gx, %d ticks/s\n", upper, size, flagScale, flagFPS)
	fmt.Println()
	fmt.Printf("  %-6s  %-8s  %-10s  %-10s  %-7s  %s\n", "Tick", "Time", "Position", "Velocity", "Kind", "Covered")
	fmt.Printf("  %-6s  %-8s  %-10s  %-10s  %-7s  %s\n", "----", "----", "--------", "--------", "----", "-------")

	printRow := func(tick int) {
		fmt.Printf("  %-6d  %-8.3f  %-10.3f  %-10.3f  %-7s  %v\n",
			tick, float64(tick)/float64(flagFPS), axis.Position(), axis.Velocity(), axis.Kind(), axis.InBounds())
	}

	axis.Fling(flagVelocity)
	printRow(0)

	tick := 0
	for axis.Animating() && tick < flagMaxTicks {
		tick++
		axis.Step()
		if tick%every == 0 || !axis.Animating() {
			printRow(tick)
		}
	}

	fmt.Println()
	if axis.Animating() {
		fmt.Printf("Still moving after %d ticks.\n", tick)
		return
	}
	fmt.Printf("At rest after %d ticks (%.2fs) at %.3f.\n", tick, float64(tick)/float64(flagFPS), axis.Position())
}
