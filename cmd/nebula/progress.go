package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/nebula-arcade/internal/achievements"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
	"github.com/vovakirdan/nebula-arcade/internal/storage"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show player totals and achievements",
	Long: `Display the current player's totals, infinite records and
achievement progress.

Examples:
  nebula progress
  nebula progress --player vega`,
	Args: cobra.NoArgs,
	Run:  runProgress,
}

func runProgress(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening progress database: %v", err)
	}
	defer store.Close()

	tracker := openTracker(store)
	if tracker == nil {
		store.Close()
		fatal("cannot load player %q", flagPlayer)
	}

	p := tracker.Player()
	stats := tracker.Stats()

	fmt.Printf("Player %s\n", p.Name)
	fmt.Println()
	fmt.Printf("  Levels completed  %d/%d\n", stats.LevelsCompleted, levels.Count())
	fmt.Printf("  Current level     %d\n", p.CurrentLevel)
	fmt.Printf("  Total score       %s\n", humanize.Comma(int64(p.TotalScore)))
	fmt.Printf("  Total stars       %d\n", p.TotalStars)
	fmt.Printf("  Bubbles popped    %s\n", humanize.Comma(int64(p.BubblesPopped)))
	fmt.Printf("  Infinite best     %s (wave %d)\n", humanize.Comma(int64(p.InfiniteHighScore)), p.InfiniteHighWave)
	fmt.Printf("  Playing since     %s\n", humanize.Time(time.Unix(p.CreatedAt, 0)))
	fmt.Println()

	have, err := tracker.Achievements()
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Achievements %d/%d\n", len(have), len(achievements.All()))
	fmt.Println()
	for _, d := range achievements.All() {
		if at, ok := have[d.ID]; ok {
			fmt.Printf("  [x] %-22s %s (%s)\n", d.Name, d.Description, humanize.Time(at))
			continue
		}
		fmt.Printf("  [ ] %-22s %s (%s/%s)\n", d.Name, d.Description,
			humanize.Comma(int64(d.Progress(stats))), humanize.Comma(int64(d.Target)))
	}
}
