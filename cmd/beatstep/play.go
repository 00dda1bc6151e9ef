package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/level"
	"github.com/vovakirdan/beatstep/internal/platform/tui"
	"github.com/vovakirdan/beatstep/internal/session"
	"github.com/vovakirdan/beatstep/internal/storage"
)

var flagPreset bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing a level, by id or by number (default: the first level).

While the sequencer is idle you can walk the level by hand; the hero is
invulnerable outside a run. Program the pattern, then press Enter to play it.

Controls:
  A/D          - Walk left/right (manual mode)
  W/Space      - Jump (manual mode)
  F            - Dash in the air (manual mode)
  Arrows/hjkl  - Move the pattern cursor
  X            - Toggle the beat under the cursor
  C            - Clear the pattern
  P            - Load the level's preset pattern
  Enter        - Start/stop the sequencer
  R            - Reset the level
  Tab/S-Tab    - Next/previous level
  ?            - More keys
  Q/Ctrl+C     - Quit

Examples:
  beatstep play
  beatstep play 4
  beatstep play snails --preset
  beatstep play --fps 30`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagPreset, "preset", false, "Load each level's preset pattern")
}

func runPlay(_ *cobra.Command, args []string) {
	tuning := loadTuning()
	pack := loadPack()

	start := 0
	if len(args) == 1 {
		idx, err := resolveLevel(pack, args[0])
		if err != nil {
			fail("%v", err)
		}
		start = idx
	}

	logger, closeLog := fileLogger(tuning)
	defer closeLog()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	sess, err := newSession(pack, tuning, logger, store, start, flagPreset)
	if err != nil {
		fail("%v", err)
	}
	defer sess.Close()

	if err := tui.RunPlay(sess, runtimeConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the results database; results are optional so a failure
// is only a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		return nil
	}
	return store
}

// newSession wires a session to the optional results store.
func newSession(pack *level.Pack, tuning config.GameConfig, logger *log.Logger, store *storage.Store, start int, preset bool) (*session.Session, error) {
	opts := session.Options{
		Pack:       pack,
		Tuning:     tuning,
		Logger:     logger,
		StartLevel: start,
		UsePreset:  preset,
	}
	if store != nil {
		opts.Results = store
	}
	return session.New(opts)
}
