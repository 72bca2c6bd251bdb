package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
	"github.com/vovakirdan/nebula-arcade/internal/platform/tui"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play [level|infinite]",
	Short: "Play a game",
	Long: `Start playing Nebula directly, skipping the menu.

Modes:
  level     - The campaign (default). Starts at --level, or at your
              current level when --level is not given.
  infinite  - Endless waves. A new row descends on a timer; survive as
              long as you can.

Controls:
  Left/Right   - Rotate aim
  A/D          - Rotate aim faster
  Mouse        - Aim at the pointer, click to shoot
  Space/Enter  - Shoot
  P            - Pause
  R            - Restart (after the game ends)
  Esc/B        - Pause, then back
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - 25% more shots, slower row drops
  normal - The stock tuning
  hard   - 20% fewer shots, faster row drops

Examples:
  nebula play
  nebula play --level 12
  nebula play infinite --difficulty hard
  nebula play --config ./my-nebula.yaml`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"level", "infinite"},
	Run:       runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start (1-50)")
}

func runPlay(_ *cobra.Command, args []string) {
	mode := "level"
	if len(args) == 1 {
		mode = args[0]
	}

	var gameID string
	switch mode {
	case "level":
		gameID = nebula.IDLevel
	case "infinite":
		gameID = nebula.IDInfinite
	default:
		fatal("unknown mode %q (use level or infinite)", mode)
	}

	if flagLevel != 0 && (flagLevel < 1 || flagLevel > levels.Count()) {
		fatal("level must be between 1 and %d", levels.Count())
	}

	store := openStore()
	tracker := openTracker(store)

	level := flagLevel
	if gameID == nebula.IDLevel && level == 0 {
		level = 1
		if tracker != nil {
			level = min(max(tracker.Player().CurrentLevel, 1), levels.Count())
		}
	}
	if gameID == nebula.IDLevel && tracker != nil && !tracker.Unlocked(level) {
		if store != nil {
			store.Close()
		}
		fatal("level %d is locked for %s; clear level %d first", level, flagPlayer, level-1)
	}

	game, err := tui.NewGame(tui.MenuSelection{Choice: tui.ChoicePlay, GameID: gameID, Level: level})
	if err != nil {
		fatal("%v", err)
	}

	runErr := tui.Run(game, tui.NewRecorder(tracker, nil, logger), runtimeConfig())

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fatal("running game: %v", runErr)
	}
}
