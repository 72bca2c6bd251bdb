package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/nebula-arcade/internal/core"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
	"github.com/vovakirdan/nebula-arcade/internal/progress"
	"github.com/vovakirdan/nebula-arcade/internal/registry"
)

// toastSeconds is how long the unlock notice stays on screen.
const toastSeconds = 4

// outcomer is implemented by games that report a terminal event.
type outcomer interface {
	Outcome() (engine.Outcome, bool)
}

// resizer is implemented by games that can follow the terminal size
// without a restart.
type resizer interface {
	Resize(w, h int)
}

// closer is implemented by games holding timers.
type closer interface {
	Close()
}

// Model is the Bubble Tea model for one running game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	keys       *KeyMapper
	recorder   *Recorder
	inputFrame core.InputFrame
	gameState  core.GameState

	embedded bool // Back returns to a parent instead of quitting
	quitting bool
	back     bool

	lastResult progress.Result
	toast      string
	toastLeft  int
}

// NewModel creates a new Bubble Tea model for the given game.
// recorder may be nil.
func NewModel(game registry.Game, recorder *Recorder, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		keys:       NewKeyMapper(),
		recorder:   recorder,
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.reset()
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keys.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.close()
		m.quitting = true
		return m, tea.Quit
	}

	// On a live board Back pauses first; leaving takes a second press.
	if m.inputFrame.Has(core.ActionBack) {
		if !m.gameState.GameOver && !m.gameState.Paused {
			m.inputFrame.Set(core.ActionPause)
			return m, nil
		}
		m.close()
		m.back = true
		if !m.embedded {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.reset()
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.back || m.quitting {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.reset()
		m.gameState = m.game.State()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if result.Finished {
		m.recordOutcome()
	}
	if m.toastLeft > 0 {
		m.toastLeft--
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// reset restarts the game, refreshing the wave records first so a new
// infinite run compares against the latest highs.
func (m *Model) reset() {
	if g, ok := m.game.(*nebula.Game); ok {
		if t := m.recorder.Tracker(); t != nil {
			g.SetWaveRecords(t.WaveRecords())
		}
	}
	m.game.Reset(m.config)
}

func (m *Model) recordOutcome() {
	oc, ok := m.game.(outcomer)
	if !ok {
		return
	}
	o, ok := oc.Outcome()
	if !ok {
		return
	}

	m.lastResult = m.recorder.Record(o)
	if text := resultToast(m.lastResult); text != "" {
		m.toast = text
		m.toastLeft = toastSeconds * m.config.TickRate
	}
}

// resultToast summarizes unlocks from a recorded result.
func resultToast(res progress.Result) string {
	var parts []string
	if res.LevelUnlock > 0 {
		parts = append(parts, fmt.Sprintf("Level %d unlocked", res.LevelUnlock))
	}
	for _, def := range res.Unlocked {
		parts = append(parts, fmt.Sprintf("%s %s", def.Icon, def.Name))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) close() {
	if c, ok := m.game.(closer); ok {
		c.Close()
	}
}

// LastResult returns what recording the latest outcome changed.
func (m Model) LastResult() progress.Result {
	return m.lastResult
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".nebula", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.toastLeft > 0 && m.screen.Height() > 0 {
		m.screen.DrawTextCentered(m.screen.Height()-1, " "+m.toast+" ", core.ColorBrightYellow)
	}

	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, recorder *Recorder, cfg core.RuntimeConfig) error {
	model := NewModel(game, recorder, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Pointer aiming
	)

	_, err := p.Run()
	return err
}
