// Package nebula adapts the bubble shooting engine to the arcade game
// interface: it turns input frames into aim and shoot commands, drives the
// session clock and draws the board into a character screen.
package nebula

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/nebula-arcade/internal/config"
	"github.com/vovakirdan/nebula-arcade/internal/core"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
	"github.com/vovakirdan/nebula-arcade/internal/registry"
)

// Registry ids for the two modes.
const (
	IDLevel    = "nebula"
	IDInfinite = "nebula_infinite"
)

// Minimum terminal size for the board, HUD and footer.
const (
	MinScreenW = 40
	MinScreenH = 24
)

// bannerTicks is how long a transient banner stays on screen.
const bannerTicks = 120

// Package-level settings applied to every new game, set from CLI flags.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	customLevels     []levels.Level
)

// SetConfigPath sets a custom config file path for new games.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset for new games.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// SetCustomLevels makes levels loaded from disk take precedence over the
// built-in campaign with the same id.
func SetCustomLevels(custom []levels.Level) {
	customLevels = custom
}

// Game is a Nebula session wrapped for the platform loop.
type Game struct {
	mode    engine.Mode
	runtime core.RuntimeConfig
	cfg     config.NebulaConfig

	levelID int
	level   levels.Level
	records engine.WaveRules

	session *engine.Session
	events  []engine.Event

	banner      string
	bannerColor core.Color
	bannerLeft  int

	screenTooSmall bool
}

// New creates a level mode game starting at level 1.
func New() *Game {
	return &Game{mode: engine.ModeLevel, levelID: 1}
}

// NewInfinite creates an endless wave mode game.
func NewInfinite() *Game {
	return &Game{mode: engine.ModeWave}
}

// ID returns the registry id for the game's mode.
func (g *Game) ID() string {
	if g.mode == engine.ModeWave {
		return IDInfinite
	}
	return IDLevel
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == engine.ModeWave {
		return "Nebula (Infinite)"
	}
	return "Nebula"
}

// SetLevel selects the level played by the next Reset. Unknown ids fall
// back to level 1 on Reset.
func (g *Game) SetLevel(id int) {
	g.levelID = id
}

// SetWaveRecords supplies the stored infinite records so a wave session
// can flag new highs.
func (g *Game) SetWaveRecords(highScore, highWave int) {
	g.records = engine.WaveRules{HighScore: highScore, HighWave: highWave}
}

// Mode returns the engine mode.
func (g *Game) Mode() engine.Mode { return g.mode }

// LevelID returns the level currently loaded. It is 0 in wave mode.
func (g *Game) LevelID() int {
	if g.mode == engine.ModeWave {
		return 0
	}
	return g.level.ID
}

// Reset builds a fresh session from config, the selected level and the
// runtime seed.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if g.runtime.TickRate <= 0 {
		g.runtime.TickRate = 60
	}
	g.screenTooSmall = runtime.ScreenW < MinScreenW || runtime.ScreenH < MinScreenH

	cfg, err := config.LoadNebula(configPath)
	if err != nil {
		cfg = config.DefaultNebulaConfig()
	}
	if difficultyPreset != "" {
		config.ApplyNebulaPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	if g.session != nil {
		g.session.Cancel()
	}

	rng := engine.NewRNG(runtime.Seed)
	settings := cfg.Settings()

	var rules engine.Rules
	if g.mode == engine.ModeWave {
		rules = g.records
	} else {
		lvl, err := levels.Find(customLevels, g.levelID)
		if err != nil {
			lvl, _ = levels.Get(1)
		}
		g.level = lvl
		g.levelID = lvl.ID

		lr := lvl.Rules()
		if difficultyPreset != "" {
			lr.MaxShots = config.ScaleShots(lr.MaxShots, difficultyPreset)
		}
		rules = lr
	}

	g.session = engine.NewSession(settings, rules, rng)
	g.events = nil
	g.banner = ""
	g.bannerLeft = 0
}

// Resize adapts to a new terminal size without restarting the session.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.screenTooSmall = w < MinScreenW || h < MinScreenH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = g.events[:0]
	if g.screenTooSmall || g.session == nil {
		return core.StepResult{State: g.State()}
	}

	if g.session.State().Terminal() {
		switch {
		case in.Has(core.ActionRestart):
			g.Reset(g.runtime)
		case in.Has(core.ActionShoot) && g.canAdvance():
			g.levelID++
			g.Reset(g.runtime)
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		if g.session.Paused() {
			g.session.Resume()
		} else {
			g.session.Pause()
		}
	}
	if g.session.Paused() {
		return core.StepResult{State: g.State()}
	}

	// The clock runs before the shot so a projectile launched this frame
	// starts flying on the next one.
	g.applyAim(in)
	dt := time.Second / time.Duration(g.runtime.TickRate)
	g.events = append(g.events, g.session.Tick(dt)...)
	if in.Has(core.ActionShoot) {
		g.events = append(g.events, g.session.Shoot()...)
	}

	if g.bannerLeft > 0 {
		g.bannerLeft--
	}
	finished := false
	for _, ev := range g.events {
		g.onEvent(ev)
		if _, ok := ev.(engine.Outcome); ok {
			finished = true
		}
	}

	return core.StepResult{State: g.State(), Finished: finished}
}

// applyAim rotates the aim from keys, or points it at the mouse.
func (g *Game) applyAim(in core.InputFrame) {
	angle := g.session.Angle()
	step := g.cfg.Controls.AimStep
	fast := g.cfg.Controls.FastAimStep

	switch {
	case in.Has(core.ActionAimLeftFast):
		g.session.Aim(angle - fast)
	case in.Has(core.ActionAimRightFast):
		g.session.Aim(angle + fast)
	case in.Has(core.ActionAimLeft):
		g.session.Aim(angle - step)
	case in.Has(core.ActionAimRight):
		g.session.Aim(angle + step)
	}

	// Only a pointer over the playfield aims; the HUD and footer do not.
	if p := in.Pointer; p != nil {
		view := g.viewport(g.runtime.ScreenW, g.runtime.ScreenH)
		shooter := view.toScreen(g.session.Settings().ShooterOrigin)
		if view.field(shooter).Contains(p.X, p.Y) {
			g.session.AimAt(view.toWorld(*p))
		}
	}
}

// onEvent turns notable events into banners.
func (g *Game) onEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.ClusterPoppedEvent:
		if len(e.Cells) >= 5 {
			g.showBanner(fmt.Sprintf("COMBO x%d  +%d", len(e.Cells), e.Points), core.ColorBrightYellow)
		}
	case engine.BubblesDroppedEvent:
		g.showBanner(fmt.Sprintf("%d DROPPED  +%d", len(e.Cells), e.Points), core.ColorBrightCyan)
	case engine.WaveClearedEvent:
		g.showBanner(fmt.Sprintf("WAVE %d  +%d  x%.1f", e.Wave, e.Bonus, e.SpeedMultiplier), core.ColorBrightGreen)
	case engine.RowInjectedEvent:
		g.showBanner("A NEW ROW DESCENDS", core.ColorBrightRed)
	}
}

func (g *Game) showBanner(text string, c core.Color) {
	g.banner = text
	g.bannerColor = c
	g.bannerLeft = bannerTicks
}

// canAdvance reports whether a won level has a successor to move on to.
func (g *Game) canAdvance() bool {
	return g.mode == engine.ModeLevel &&
		g.session.State() == engine.StateWon &&
		g.level.ID < levels.Count()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	st := g.session.State()
	return core.GameState{
		Score:    g.session.Score(),
		GameOver: st.Terminal(),
		Won:      st == engine.StateWon,
		Paused:   g.session.Paused(),
	}
}

// Outcome returns the terminal event once the session has ended.
func (g *Game) Outcome() (engine.Outcome, bool) {
	if g.session == nil {
		return nil, false
	}
	return g.session.Outcome()
}

// Events returns the events produced by the last Step.
func (g *Game) Events() []engine.Event {
	return g.events
}

// Session exposes the running engine session.
func (g *Game) Session() *engine.Session {
	return g.session
}

// Close cancels the session so no timer fires after the player leaves.
func (g *Game) Close() {
	if g.session != nil {
		g.session.Cancel()
	}
}

// aimDegrees converts the engine angle into degrees from vertical, with
// negative values to the left.
func aimDegrees(angle float64) int {
	return int(math.Round((angle + math.Pi/2) * 180 / math.Pi))
}

func init() {
	registry.Register(IDLevel, func() registry.Game {
		return New()
	})
	registry.Register(IDInfinite, func() registry.Game {
		return NewInfinite()
	})
}
