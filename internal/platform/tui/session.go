package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/nebula-arcade/internal/core"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula"
	"github.com/vovakirdan/nebula-arcade/internal/registry"
	"github.com/vovakirdan/nebula-arcade/internal/storage"
)

// NewGame creates the game for a menu selection.
func NewGame(sel MenuSelection) (registry.Game, error) {
	game, err := registry.Create(sel.GameID)
	if err != nil {
		return nil, fmt.Errorf("cannot start game: %w", err)
	}
	if g, ok := game.(*nebula.Game); ok && sel.Level > 0 {
		g.SetLevel(sel.Level)
	}
	return game, nil
}

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewScoreboard
	viewProgress
)

// SessionModel manages the full session flow: menu -> game, leaderboard
// or progress -> menu. It is the top-level model for SSH sessions and for
// local play without a preselected mode.
type SessionModel struct {
	store    *storage.Store
	recorder *Recorder
	config   core.RuntimeConfig

	view        sessionView
	menu        MenuModel
	game        Model
	gameStarted time.Time
	scoreboard  ScoreboardModel
	progress    ProgressModel
	quitting    bool
}

// NewSessionModel creates a new session model. store and recorder may be nil.
func NewSessionModel(store *storage.Store, recorder *Recorder, cfg core.RuntimeConfig) SessionModel {
	m := SessionModel{
		store:    store,
		recorder: recorder,
		config:   cfg,
	}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	menu := NewMenuModel(m.recorder.Tracker(), m.config)
	menu.embedded = true
	return menu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScoreboard:
		return m.updateScoreboard(msg)
	case viewProgress:
		return m.updateProgress(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	sel := m.menu.Selected()
	if sel == nil {
		return m, cmd
	}

	switch sel.Choice {
	case ChoicePlay:
		game, err := NewGame(*sel)
		if err != nil {
			// Shouldn't happen since the menu only offers registered games
			m.menu = m.newMenu()
			return m, nil
		}
		m.game = NewModel(game, m.recorder, m.config)
		m.game.embedded = true
		m.gameStarted = time.Now()
		m.view = viewGame
		return m, m.game.Init()

	case ChoiceLeaderboard:
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard.embedded = true
		m.view = viewScoreboard
		return m, m.scoreboard.Init()

	case ChoiceProgress:
		m.progress = NewProgressModel(m.recorder.Tracker(), m.config.ScreenW, m.config.ScreenH)
		m.progress.embedded = true
		m.view = viewProgress
		return m, m.progress.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A tick scheduled by a previous game must not start a second loop.
	if tick, ok := msg.(TickMsg); ok && time.Time(tick).Before(m.gameStarted) {
		return m, nil
	}

	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.back {
		return m.backToMenu()
	}
	if m.game.quitting {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.progress.Update(msg)
	if pm, ok := newModel.(ProgressModel); ok {
		m.progress = pm
	}

	if m.progress.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.progress.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

// backToMenu rebuilds the menu so unlocks from the last game show up.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScoreboard:
		return m.scoreboard.View()
	case viewProgress:
		return m.progress.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(store *storage.Store, recorder *Recorder, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(store, recorder, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
