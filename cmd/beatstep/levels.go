package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level pack",
	Long:  `Shows every level with its sequencer length, loop count and instruments.`,
	Run:   runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	pack := loadPack()

	if pack.Len() == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Levels:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, d := range pack.All() {
		if len(d.ID) > maxIDLen {
			maxIDLen = len(d.ID)
		}
	}

	fmt.Printf("  %3s  %-*s  %-22s  %5s  %5s  %s\n", "#", maxIDLen, "ID", "Name", "Steps", "Loops", "Instruments")
	fmt.Printf("  %3s  %-*s  %-22s  %5s  %5s  %s\n", "-", maxIDLen, "--", "----", "-----", "-----", "-----------")

	for i, d := range pack.All() {
		cfg, err := d.SequencerConfig()
		if err != nil {
			fmt.Printf("  %3d  %-*s  %-22s  invalid: %v\n", i+1, maxIDLen, d.ID, d.Title(), err)
			continue
		}
		names := make([]string, len(cfg.Instruments))
		for j, inst := range cfg.Instruments {
			names[j] = string(inst)
		}
		fmt.Printf("  %3d  %-*s  %-22s  %5d  %5d  %s\n",
			i+1, maxIDLen, d.ID, d.Title(), cfg.Steps(), cfg.MaxLoops, strings.Join(names, ", "))
	}

	fmt.Println()
	fmt.Println("Run 'beatstep play <id or number>' to play a level.")
}
