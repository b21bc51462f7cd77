// cropper is a terminal image cropper with kinetic pan and zoom.
//
// Usage:
//
//	cropper crop               - Crop an image or pattern interactively
//	cropper simulate           - Print a headless fling trajectory on one axis
//	cropper history            - Show saved crops
//	cropper patterns           - List built-in patterns
//	cropper serve              - Start SSH server for remote cropping
//	cropper config             - Print the motion configuration
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--db <path>       - Set database path (default: ~/.cropper/history.db)
//	--config <path>   - Use a custom config YAML
//	--preset <name>   - Motion feel: smooth, snappy, bouncy, stiff
//	--debug           - Write debug logs to ~/.cropper/debug.log
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cropper/internal/config"

	// Import patterns to register them
	_ "github.com/vovakirdan/tui-cropper/internal/patterns"
)

var (
	// Global flags
	flagFPS    int
	flagDBPath string
	flagConfig string
	flagPreset string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cropper",
	Short: "Cropper - Pan, fling and zoom images in your terminal",
	Long: `Cropper lays an image under a fixed crop frame. Drag it with the mouse,
fling it, zoom with the wheel: it always springs back to cover the frame.

Available commands:
  crop      - Crop an image or built-in pattern
  simulate  - Print a fling trajectory without a terminal UI
  history   - View saved crops
  patterns  - List built-in patterns
  serve     - Start SSH server for remote cropping
  config    - Print the motion configuration

Examples:
  cropper crop --image photo.jpg
  cropper crop --pattern rings --preset bouncy
  cropper simulate --velocity 120 --axis x
  cropper history --limit 5
  cropper serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.cropper/history.db", "Path to crop history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Motion feel preset: smooth, snappy, bouncy, stiff")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Write debug logs to ~/.cropper/debug.log")

	// Add subcommands
	rootCmd.AddCommand(cropCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves --config and --preset into a validated config.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagFPS <= 0 {
		return cfg, fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	return cfg, cfg.Validate()
}

// newLogger returns the logger for a command. With --debug everything down to
// debug level goes to ~/.cropper/debug.log; otherwise fallback receives
// warnings and errors. The returned closer releases the log file.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	if !flagDebug {
		logger := log.NewWithOptions(fallback, log.Options{Level: log.WarnLevel})
		return logger, func() {}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	path := filepath.Join(home, ".cropper", "debug.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open debug log: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		Prefix:          "cropper",
	})
	return logger, func() { f.Close() }, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
