package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beatstep/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick levels from an interactive menu",
	Long: `Start beatstep in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play a level, Tab for results.
Leaving a level with Esc returns you to the menu.

Examples:
  beatstep menu
  beatstep menu --fps 30
  beatstep menu --db ./results.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	tuning := loadTuning()
	pack := loadPack()

	logger, closeLog := fileLogger(tuning)
	defer closeLog()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(pack, store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsResults {
			goBack, rErr := tui.RunResults(pack, store, cfg.ScreenW, cfg.ScreenH)
			if rErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", rErr)
			}
			if goBack {
				continue
			}
			return
		}

		sess, err := newSession(pack, tuning, logger, store, menuResult.LevelIndex, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
			continue
		}
		back, err := tui.RunPlayFromMenu(sess, cfg)
		sess.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if !back {
			return
		}
	}
}
