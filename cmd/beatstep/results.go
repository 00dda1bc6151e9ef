package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beatstep/internal/storage"
)

var (
	flagResultsLimit  int
	flagResultsRecent bool
	flagResultsClear  bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [level]",
	Short: "Show stored run results",
	Long: `Without a level, shows attempts, wins and best runs for every level.
With a level (id or number), lists its best winning runs: fewest beats
first, then fastest.

Examples:
  beatstep results
  beatstep results snails
  beatstep results --recent
  beatstep results 3 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagResultsLimit, "limit", 10, "Number of runs to show")
	resultsCmd.Flags().BoolVar(&flagResultsRecent, "recent", false, "Show the most recent runs of any outcome")
	resultsCmd.Flags().BoolVar(&flagResultsClear, "clear", false, "Delete stored runs (of the level, or all)")
}

func runResults(_ *cobra.Command, args []string) {
	pack := loadPack()

	levelID := ""
	if len(args) == 1 {
		idx, err := resolveLevel(pack, args[0])
		if err != nil {
			fail("%v", err)
		}
		d, _ := pack.Get(idx)
		levelID = d.ID
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagResultsClear:
		if err := store.ClearRuns(levelID); err != nil {
			fail("%v", err)
		}
		if levelID == "" {
			fmt.Println("All runs deleted.")
		} else {
			fmt.Printf("Runs of %s deleted.\n", levelID)
		}
	case flagResultsRecent:
		printRecent(store)
	case levelID != "":
		printBest(store, levelID)
	default:
		printStats(store)
	}
}

func printStats(store *storage.Store) {
	stats, err := store.Stats()
	if err != nil {
		fail("%v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'beatstep play' to record the first run!")
		return
	}

	fmt.Println("Level results")
	fmt.Println()
	fmt.Printf("  %-16s  %8s  %4s  %10s  %9s  %s\n", "Level", "Attempts", "Wins", "Best beats", "Best time", "Last played")
	fmt.Printf("  %-16s  %8s  %4s  %10s  %9s  %s\n", "-----", "--------", "----", "----------", "---------", "-----------")
	for _, st := range stats {
		best, bestTime := "-", "-"
		if st.Wins > 0 {
			best = fmt.Sprintf("%d", st.BestBeats)
			bestTime = fmt.Sprintf("%.2fs", st.BestDuration.Seconds())
		}
		fmt.Printf("  %-16s  %8d  %4d  %10s  %9s  %s\n",
			st.LevelID, st.Attempts, st.Wins, best, bestTime, st.LastPlayed.Format("2006-01-02 15:04"))
	}
}

func printBest(store *storage.Store, levelID string) {
	runs, err := store.BestRuns(levelID, flagResultsLimit)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Best runs - %s\n", levelID)
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No winning runs yet.")
		fmt.Println()
		fmt.Printf("Play 'beatstep play %s' to record one!\n", levelID)
		return
	}

	fmt.Printf("  %-4s  %5s  %8s  %6s  %s\n", "Rank", "Beats", "Time", "Loop", "Date")
	fmt.Printf("  %-4s  %5s  %8s  %6s  %s\n", "----", "-----", "----", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %5d  %7.2fs  %6s  %s\n",
			i+1, r.BeatsUsed, r.Duration.Seconds(), fmt.Sprintf("%d/%d", r.Loop+1, r.MaxLoops),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println("Pattern of the best run:")
	fmt.Println(runs[0].Pattern)
}

func printRecent(store *storage.Store) {
	runs, err := store.RecentRuns(flagResultsLimit)
	if err != nil {
		fail("%v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Println("Recent runs")
	fmt.Println()
	fmt.Printf("  %-16s  %-9s  %6s  %5s  %5s  %s\n", "Level", "Outcome", "Loop", "Step", "Beats", "Date")
	fmt.Printf("  %-16s  %-9s  %6s  %5s  %5s  %s\n", "-----", "-------", "----", "----", "-----", "----")
	for _, r := range runs {
		fmt.Printf("  %-16s  %-9s  %6s  %5d  %5d  %s\n",
			r.LevelID, r.Outcome, fmt.Sprintf("%d/%d", r.Loop+1, r.MaxLoops), r.Step+1, r.BeatsUsed,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
