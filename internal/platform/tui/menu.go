package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/nebula-arcade/internal/core"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
	"github.com/vovakirdan/nebula-arcade/internal/progress"
	"github.com/vovakirdan/nebula-arcade/internal/storage"
)

// MenuChoice is what the player picked from the main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceLeaderboard
	ChoiceProgress
)

// MenuSelection holds the player's pick.
type MenuSelection struct {
	Choice MenuChoice
	GameID string // Set for ChoicePlay
	Level  int    // Campaign level for ChoicePlay in level mode
}

// Main menu entries, in display order.
const (
	itemCampaign = iota
	itemInfinite
	itemSelectLevel
	itemLeaderboard
	itemProgress
	itemQuit
	itemCount
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("93"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuLockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	menuHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// MenuModel is the Bubble Tea model for the Nebula main menu and level picker.
type MenuModel struct {
	tracker       *progress.Tracker
	levels        []progress.LevelStatus
	cursor        int
	levelCursor   int
	inLevelSelect bool
	width         int
	height        int
	config        core.RuntimeConfig
	keyMapper     *KeyMapper
	notice        string
	selection     *MenuSelection
	embedded      bool // Selecting hands control to a parent instead of quitting
	quitting      bool
}

// NewMenuModel creates a new menu model. tracker may be nil, in which case
// every level is open and nothing is remembered.
func NewMenuModel(tracker *progress.Tracker, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		tracker:   tracker,
		levels:    levelStatuses(tracker),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// levelStatuses returns the campaign with the player's progress attached.
func levelStatuses(tracker *progress.Tracker) []progress.LevelStatus {
	if tracker != nil {
		return tracker.Levels()
	}
	catalog := levels.Catalog()
	out := make([]progress.LevelStatus, 0, len(catalog))
	for _, lvl := range catalog {
		out = append(out, progress.LevelStatus{
			Level:    lvl,
			Progress: storage.LevelProgress{LevelID: lvl.ID, Unlocked: true},
		})
	}
	return out
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	m.notice = ""

	if action == MenuActionQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action == MenuActionScoreboard {
		return m.choose(MenuSelection{Choice: ChoiceLeaderboard})
	}

	if m.inLevelSelect {
		return m.handleLevelSelectKey(action)
	}
	return m.handleMainKey(action)
}

func (m MenuModel) handleMainKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < itemCount-1 {
			m.cursor++
		}
	case MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionSelect:
		switch m.cursor {
		case itemCampaign:
			return m.choose(MenuSelection{Choice: ChoicePlay, GameID: nebula.IDLevel, Level: m.continueLevel()})
		case itemInfinite:
			return m.choose(MenuSelection{Choice: ChoicePlay, GameID: nebula.IDInfinite})
		case itemSelectLevel:
			m.inLevelSelect = true
			m.levelCursor = max(m.continueLevel()-1, 0)
		case itemLeaderboard:
			return m.choose(MenuSelection{Choice: ChoiceLeaderboard})
		case itemProgress:
			return m.choose(MenuSelection{Choice: ChoiceProgress})
		case itemQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m MenuModel) handleLevelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	page := m.pageSize()

	switch action {
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}
	case MenuActionLeft:
		m.levelCursor = max(m.levelCursor-page, 0)
	case MenuActionRight:
		m.levelCursor = min(m.levelCursor+page, len(m.levels)-1)
	case MenuActionBack:
		m.inLevelSelect = false
	case MenuActionSelect:
		if len(m.levels) == 0 {
			return m, nil
		}
		st := m.levels[m.levelCursor]
		if !st.Progress.Unlocked {
			m.notice = fmt.Sprintf("Level %d is locked. Clear level %d first.", st.Level.ID, st.Level.ID-1)
			return m, nil
		}
		return m.choose(MenuSelection{Choice: ChoicePlay, GameID: nebula.IDLevel, Level: st.Level.ID})
	}
	return m, nil
}

func (m MenuModel) choose(sel MenuSelection) (tea.Model, tea.Cmd) {
	m.selection = &sel
	if m.embedded {
		return m, nil
	}
	return m, tea.Quit
}

// continueLevel is where the campaign entry resumes: the player's current
// level when it is open, otherwise level 1.
func (m MenuModel) continueLevel() int {
	if m.tracker == nil {
		return 1
	}
	current := min(m.tracker.Player().CurrentLevel, levels.Count())
	if current < 1 || !m.tracker.Unlocked(current) {
		return 1
	}
	return current
}

// pageSize is how many levels fit on screen at once.
func (m MenuModel) pageSize() int {
	return max(m.height-9, 5)
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}
	return m.viewMain()
}

func (m MenuModel) viewMain() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("N E B U L A"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.subtitle(), m.width))
	b.WriteString("\n\n")

	items := [itemCount]string{
		fmt.Sprintf("Campaign (level %d)", m.continueLevel()),
		m.infiniteLabel(),
		"Select Level...",
		"Leaderboard",
		"Progress & Achievements",
		"Quit",
	}

	for i, item := range items {
		line := "  " + item
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + item)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuHintStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) subtitle() string {
	if m.tracker == nil {
		return "Match three elements to clear the nebula"
	}
	p := m.tracker.Player()
	return fmt.Sprintf("Welcome, %s  |  %s stars  |  %s points", p.Name,
		humanize.Comma(int64(p.TotalStars)), humanize.Comma(int64(p.TotalScore)))
}

func (m MenuModel) infiniteLabel() string {
	if m.tracker == nil {
		return "Infinite Mode"
	}
	score, wave := m.tracker.WaveRecords()
	if score == 0 {
		return "Infinite Mode"
	}
	return fmt.Sprintf("Infinite Mode (best %s, wave %d)", humanize.Comma(int64(score)), wave)
}

func (m MenuModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("SELECT LEVEL"), m.width))
	b.WriteString("\n\n")

	page := m.pageSize()
	start := (m.levelCursor / page) * page
	end := min(start+page, len(m.levels))

	for i := start; i < end; i++ {
		line := levelLine(m.levels[i])
		switch {
		case i == m.levelCursor:
			line = menuCursorStyle.Render("> " + line)
		case !m.levels[i].Progress.Unlocked:
			line = menuLockedStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.levels) > 0 {
		sel := m.levels[m.levelCursor].Level
		b.WriteString(centerText(sel.Description, m.width))
		b.WriteString("\n")
		b.WriteString(centerText(elementSwatch(sel.Elements), m.width))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(centerText(menuCursorStyle.Render(m.notice), m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText(menuHintStyle.Render(
		fmt.Sprintf("Page %d/%d  |  Left/Right: Page  |  Enter: Play  |  Esc: Back", start/page+1, (len(m.levels)+page-1)/page)), m.width))

	return b.String()
}

// levelLine formats one level row: number, stars, theme and tier.
func levelLine(st progress.LevelStatus) string {
	stars := nebula.StarString(st.Progress.Stars)
	if !st.Progress.Unlocked {
		stars = "locked"
	}
	best := ""
	if st.Progress.BestScore > 0 {
		best = "  best " + humanize.Comma(int64(st.Progress.BestScore))
	}
	return fmt.Sprintf("%2d. %-6s %-18s %-9s%s", st.Level.ID, stars, st.Level.Theme, st.Level.Difficulty, best)
}

// Selected returns the selection, or nil if none was made.
func (m MenuModel) Selected() *MenuSelection {
	return m.selection
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width. Width is measured on screen so
// styled text is centered by its visible length.
func centerText(text string, width int) string {
	if strings.Contains(text, "\n") {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
	}
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Selection MenuSelection
	Config    core.RuntimeConfig
	Quit      bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(tracker *progress.Tracker, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(tracker, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	if m.IsQuitting() || m.Selected() == nil {
		result.Quit = true
		return result, nil
	}
	result.Selection = *m.Selected()
	return result, nil
}
