// beatstep is a 2D platformer played by programming a drum pattern.
//
// Usage:
//
//	beatstep levels             - List the level pack
//	beatstep play [level]       - Play a level
//	beatstep menu               - Pick levels interactively
//	beatstep simulate <level>   - Run a level's preset without a terminal UI
//	beatstep results [level]    - Show stored run results
//	beatstep serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Frame rate of the terminal UI (default: 60)
//	--db <path>          - Results database (default: ~/.beatstep/results.db)
//	--config <path>      - Tuning config YAML
//	--levels <dir>       - Directory of level YAML files
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Log destination while a terminal UI is running
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/level"
	"github.com/vovakirdan/beatstep/internal/logging"
)

var (
	// Global flags
	flagFPS       int
	flagDBPath    string
	flagConfig    string
	flagLevelsDir string
	flagLogLevel  string
	flagLogFile   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "beatstep",
	Short: "beatstep - a platformer you play with a step sequencer",
	Long: `beatstep is a terminal platformer. You do not steer the hero directly:
you program a drum pattern and the beats move the player.

  Kick     - jump
  Snare    - dash
  Hi-Hat   - walk right
  Open Hat - walk left
  Crash    - wakes the saws

Available commands:
  levels    - Show the level pack
  play      - Play a level directly
  menu      - Interactive level picker
  simulate  - Run a level's preset pattern headless
  results   - View stored run results
  serve     - Start SSH server for remote play

Examples:
  beatstep levels
  beatstep play 3
  beatstep menu
  beatstep simulate first-steps
  beatstep serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate of the terminal UI")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.beatstep/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory of level YAML files")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file used while the terminal UI runs")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadTuning loads the tuning config or exits.
func loadTuning() config.GameConfig {
	tuning, err := config.LoadGame(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	return tuning
}

// loadPack loads the level pack or exits.
func loadPack() *level.Pack {
	pack, err := level.Load(flagLevelsDir)
	if err != nil {
		fail("%v", err)
	}
	return pack
}

// logLevel prefers the flag over the config file.
func logLevel(tuning config.GameConfig) string {
	if flagLogLevel != "" {
		return flagLogLevel
	}
	return tuning.Log.Level
}

// stderrLogger is used by commands that do not take over the terminal.
func stderrLogger(tuning config.GameConfig) *log.Logger {
	return logging.New(os.Stderr, logLevel(tuning))
}

// fileLogger is used while Bubble Tea owns the terminal. The returned
// close function is never nil.
func fileLogger(tuning config.GameConfig) (*log.Logger, func()) {
	path := flagLogFile
	if path == "" {
		path = tuning.Log.File
	}
	if path == "" {
		dir := config.DataDir()
		if dir == "" {
			return logging.Discard(), func() {}
		}
		path = filepath.Join(dir, "beatstep.log")
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(filepath.Dir(path), 0o755)

	logger, f, err := logging.OpenFile(path, logLevel(tuning))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return logging.Discard(), func() {}
	}
	return logger, func() { f.Close() }
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	return cfg
}

// resolveLevel accepts a level id or a 1-based level number.
func resolveLevel(pack *level.Pack, arg string) (int, error) {
	if i, ok := pack.Find(arg); ok {
		return i, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("unknown level %q", arg)
	}
	if _, err := pack.Get(n - 1); err != nil {
		return 0, err
	}
	return n - 1, nil
}
