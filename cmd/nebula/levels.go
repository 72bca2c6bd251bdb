package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the campaign levels",
	Long: `Shows all campaign levels with the current player's stars, best
score and lock state.

Examples:
  nebula levels
  nebula levels --player vega`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	store := openStore()
	if store != nil {
		defer store.Close()
	}
	tracker := openTracker(store)

	fmt.Println("Campaign levels:")
	fmt.Println()
	fmt.Printf("  %-3s  %-6s  %-20s  %-9s  %-5s  %-10s  %s\n", "ID", "Stars", "Theme", "Tier", "Shots", "Best", "Elements")
	fmt.Printf("  %-3s  %-6s  %-20s  %-9s  %-5s  %-10s  %s\n", "--", "-----", "-----", "----", "-----", "----", "--------")

	for _, lvl := range levels.Catalog() {
		stars, best := "", ""
		if tracker != nil {
			lp := tracker.Level(lvl.ID)
			switch {
			case !lp.Unlocked:
				stars = "locked"
			default:
				stars = nebula.StarString(lp.Stars)
			}
			if lp.BestScore > 0 {
				best = humanize.Comma(int64(lp.BestScore))
			}
		}

		names := make([]string, len(lvl.Elements))
		for i, e := range lvl.Elements {
			names[i] = e.String()
		}
		fmt.Printf("  %-3d  %-6s  %-20s  %-9s  %-5d  %-10s  %s\n",
			lvl.ID, stars, lvl.Theme, lvl.Difficulty, lvl.MaxShots, best, strings.Join(names, ","))
	}

	fmt.Println()
	fmt.Println("Run 'nebula play --level <id>' to play a level.")
}
