package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula"
	"github.com/vovakirdan/nebula-arcade/internal/storage"
)

var (
	flagLimit     int
	flagScoreMode string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the best runs across all players.

Examples:
  nebula scores
  nebula scores --limit 25
  nebula scores --mode level`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().StringVar(&flagScoreMode, "mode", storage.ModeInfinite, "Leaderboard: infinite or level")
}

func runScores(_ *cobra.Command, _ []string) {
	if flagScoreMode != storage.ModeInfinite && flagScoreMode != storage.ModeLevel {
		fatal("unknown mode %q (use infinite or level)", flagScoreMode)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening progress database: %v", err)
	}
	defer store.Close()

	runs, err := store.TopRuns(flagScoreMode, flagLimit)
	if err != nil {
		store.Close()
		fatal("retrieving scores: %v", err)
	}

	if flagScoreMode == storage.ModeInfinite {
		fmt.Println("Leaderboard - Infinite")
	} else {
		fmt.Println("Leaderboard - Campaign")
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'nebula play infinite' to set the first high score!")
		return
	}

	if flagScoreMode == storage.ModeInfinite {
		fmt.Printf("  %-4s  %-16s  %-10s  %-4s  %s\n", "Rank", "Player", "Score", "Wave", "When")
		fmt.Printf("  %-4s  %-16s  %-10s  %-4s  %s\n", "----", "------", "-----", "----", "----")
		for i, r := range runs {
			fmt.Printf("  %-4d  %-16s  %-10s  %-4d  %s\n",
				i+1, r.PlayerName, humanize.Comma(int64(r.Score)), r.Wave, humanize.Time(r.Created()))
		}
		return
	}

	fmt.Printf("  %-4s  %-16s  %-5s  %-10s  %-5s  %s\n", "Rank", "Player", "Level", "Score", "Stars", "When")
	fmt.Printf("  %-4s  %-16s  %-5s  %-10s  %-5s  %s\n", "----", "------", "-----", "-----", "-----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-16s  %-5d  %-10s  %-5s  %s\n",
			i+1, r.PlayerName, r.Level, humanize.Comma(int64(r.Score)), nebula.StarString(r.Stars), humanize.Time(r.Created()))
	}
}
