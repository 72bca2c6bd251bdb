// nebula is an elemental bubble shooter for the terminal.
//
// Usage:
//
//	nebula                   - Start the menu (campaign, infinite, leaderboard)
//	nebula play [mode]       - Play level or infinite mode directly
//	nebula levels            - List the campaign with your progress
//	nebula scores            - Show the infinite leaderboard
//	nebula progress          - Show your totals and achievements
//	nebula serve             - Start the SSH server and live feed
//	nebula generate          - Write a generated level as YAML
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.nebula/nebula.db)
//	--player <name>     - Player profile to load (default: $USER)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/nebula-arcade/internal/config"
	"github.com/vovakirdan/nebula-arcade/internal/core"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
	"github.com/vovakirdan/nebula-arcade/internal/platform/tui"
	"github.com/vovakirdan/nebula-arcade/internal/progress"
	"github.com/vovakirdan/nebula-arcade/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagPlayer     string
	flagLogLevel   string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nebula",
	Short: "Nebula - an elemental bubble shooter for your terminal",
	Long: `Nebula is a bubble shooter played in the terminal. Aim, bounce off
the walls and match three or more elements to clear the board.

Available commands:
  play      - Play the campaign or infinite mode directly
  levels    - Show the campaign and your progress
  scores    - View the leaderboard
  progress  - View totals and achievements
  serve     - Start the SSH server for remote play
  generate  - Write a generated level file

Run without a command to open the menu.

Examples:
  nebula
  nebula play --level 7
  nebula play infinite --difficulty hard
  nebula serve --ssh :2222 --feed :8080`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run:               runMenu,
}

func init() {
	defaultPlayer := os.Getenv("USER")
	if defaultPlayer == "" {
		defaultPlayer = "player"
	}

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.nebula/nebula.db", "Path to progress database")
	pf.StringVar(&flagPlayer, "player", defaultPlayer, "Player profile name")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.StringVar(&flagLevelsDir, "levels-dir", "", "Directory of level YAML files overriding the campaign")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
}

// setup builds the logger and applies game-wide settings before any command.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q", flagLogLevel)
	}
	// The server is the one command whose routine output is its log.
	if cmd == serveCmd && !cmd.Flags().Changed("log-level") {
		level = log.InfoLevel
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "nebula",
		Level:           level,
	})
	log.SetDefault(logger)

	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		return fmt.Errorf("unknown difficulty %q (use easy, normal or hard)", flagDifficulty)
	}
	if _, err := config.LoadNebula(flagConfig); err != nil {
		return err
	}
	nebula.SetConfigPath(flagConfig)
	nebula.SetDifficultyPreset(preset)

	if flagLevelsDir != "" {
		custom, err := levels.LoadDir(flagLevelsDir)
		if err != nil {
			return fmt.Errorf("cannot load levels: %w", err)
		}
		logger.Debug("loaded custom levels", "dir", flagLevelsDir, "count", len(custom))
		nebula.SetCustomLevels(custom)
	}
	return nil
}

// fatal prints an error and exits, the way every command reports failure.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed,
	}
}

// openStore opens the progress database. On failure play continues unsaved.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open progress database, playing unsaved", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// openTracker loads the --player profile. It returns nil without a store.
func openTracker(store *storage.Store) *progress.Tracker {
	if store == nil {
		return nil
	}
	tracker, err := progress.Open(store, flagPlayer, progress.WithLogger(logger.With("player", flagPlayer)))
	if err != nil {
		logger.Warn("could not load player, playing unsaved", "player", flagPlayer, "error", err)
		return nil
	}
	return tracker
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	recorder := tui.NewRecorder(openTracker(store), nil, logger)

	runErr := tui.RunSession(store, recorder, runtimeConfig())

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fatal("%v", runErr)
	}
}
