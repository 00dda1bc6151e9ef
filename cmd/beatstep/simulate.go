package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beatstep/internal/sequencer"
	"github.com/vovakirdan/beatstep/internal/session"
	"github.com/vovakirdan/beatstep/internal/storage"
)

var (
	flagSimLimit time.Duration
	flagSimSteps bool
	flagSimSave  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <level>",
	Short: "Run a level's preset pattern without a terminal UI",
	Long: `Load a level, program its preset pattern and play it at a fixed frame
rate on a simulated clock. The outcome of the run is printed.

Examples:
  beatstep simulate first-steps
  beatstep simulate 7 --steps
  beatstep simulate 10 --save --log-level debug`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().DurationVar(&flagSimLimit, "limit", 5*time.Minute, "Simulated time before giving up")
	simulateCmd.Flags().BoolVar(&flagSimSteps, "steps", false, "Print every sequencer step")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Store the run in the results database")
}

func runSimulate(_ *cobra.Command, args []string) {
	tuning := loadTuning()
	pack := loadPack()
	logger := stderrLogger(tuning)

	index, err := resolveLevel(pack, args[0])
	if err != nil {
		fail("%v", err)
	}

	var (
		result *session.RunResult
		store  *storage.Store
	)
	if flagSimSave {
		store = openStore()
		if store != nil {
			defer store.Close()
		}
	}

	opts := session.Options{
		Pack:       pack,
		Tuning:     tuning,
		Logger:     logger,
		StartLevel: index,
		Callbacks: session.Callbacks{
			OnRunEnded: func(r session.RunResult) { result = &r },
		},
	}
	if flagSimSteps {
		opts.Callbacks.OnStep = printStep
	}
	if store != nil {
		opts.Results = store
	}

	sess, err := session.New(opts)
	if err != nil {
		fail("%v", err)
	}
	defer sess.Close()

	info := sess.LevelInfo()
	if err := sess.LoadPreset(); err != nil {
		if errors.Is(err, session.ErrNoPreset) {
			fail("level %q has no preset pattern", info.Descriptor.ID)
		}
		fail("preset: %v", err)
	}
	if err := sess.Start(); err != nil {
		fail("start: %v", err)
	}

	fmt.Printf("Simulating %d. %s (%d steps x %d loops)\n",
		info.Index+1, info.Descriptor.Title(), sess.Sequencer().Steps(), info.Config.MaxLoops)
	fmt.Println(sess.Sequencer().Pattern().String())

	dt := tuning.Session.FrameDuration()
	var elapsed time.Duration
	for result == nil && elapsed < flagSimLimit {
		sess.Frame(dt)
		elapsed += dt
	}

	if result == nil {
		fail("no outcome after %s of simulated time", flagSimLimit)
	}
	fmt.Println()
	fmt.Printf("Outcome:  %s\n", result.Outcome)
	fmt.Printf("Position: loop %d/%d, step %d\n", result.Loop+1, result.MaxLoops, result.Step+1)
	fmt.Printf("Beats:    %d\n", result.BeatsUsed)
	fmt.Printf("Time:     %.2fs\n", result.Elapsed.Seconds())
}

func printStep(ev sequencer.StepEvent) {
	var active []string
	for _, inst := range sequencer.Canonical {
		if ev.ActiveBeats[inst] {
			active = append(active, string(inst))
		}
	}
	fmt.Printf("  loop %d step %2d  %s\n", ev.CurrentLoop+1, ev.CurrentStep+1, strings.Join(active, " "))
}
