package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/nebula-arcade/internal/achievements"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
	"github.com/vovakirdan/nebula-arcade/internal/progress"
)

// ProgressKeyMap defines the key bindings for the progress screen.
type ProgressKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ProgressKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ProgressKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultProgressKeyMap returns default key bindings.
func DefaultProgressKeyMap() ProgressKeyMap {
	return ProgressKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ProgressModel shows the player's totals and achievement progress.
type ProgressModel struct {
	tracker   *progress.Tracker
	stats     achievements.Stats
	unlocked  int
	loadErr   error
	table     table.Model
	bar       progressbar.Model
	help      help.Model
	keys      ProgressKeyMap
	width     int
	height    int
	embedded  bool
	quitting  bool
	goingBack bool
}

// NewProgressModel creates the progress screen. tracker may be nil.
func NewProgressModel(tracker *progress.Tracker, width, height int) ProgressModel {
	m := ProgressModel{
		tracker: tracker,
		bar:     progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithoutPercentage()),
		help:    help.New(),
		keys:    DefaultProgressKeyMap(),
		width:   width,
		height:  height,
	}
	m.bar.Width = min(max(width-30, 10), 50)
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ProgressModel) createTable() table.Model {
	descWidth := min(max(m.width-50, 20), 40)
	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Achievement", Width: 20},
		{Title: "Goal", Width: descWidth},
		{Title: "Progress", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load refreshes stats and rows from the tracker.
func (m *ProgressModel) load() {
	if m.tracker == nil {
		m.table.SetRows(nil)
		return
	}

	m.stats = m.tracker.Stats()
	have, err := m.tracker.Achievements()
	if err != nil {
		m.loadErr = err
	}

	defs := achievements.All()
	rows := make([]table.Row, 0, len(defs))
	m.unlocked = 0
	for _, d := range defs {
		icon := " "
		status := fmt.Sprintf("%s / %s", humanize.Comma(int64(d.Progress(m.stats))), humanize.Comma(int64(d.Target)))
		if at, ok := have[d.ID]; ok {
			m.unlocked++
			icon = d.Icon
			status = "done " + humanize.Time(at)
		}
		rows = append(rows, table.Row{icon, d.Name, d.Description, status})
	}
	m.table.SetRows(rows)
}

// Init initializes the model.
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(max(m.width-30, 10), 50)
		m.table = m.createTable()
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the progress screen.
func (m ProgressModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("PROGRESS"), m.width))
	b.WriteString("\n\n")

	if m.tracker == nil {
		b.WriteString(centerText(dim.Render("Progress is not saved in this session."), m.width))
		b.WriteString("\n\n")
		b.WriteString(dim.Render(m.help.View(m.keys)))
		return b.String()
	}

	p := m.tracker.Player()
	total := levels.Count()
	completed := m.stats.LevelsCompleted
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total)
	}

	b.WriteString(centerText(fmt.Sprintf("%s  |  %s points  |  %d stars  |  %s bubbles popped",
		p.Name, humanize.Comma(int64(p.TotalScore)), p.TotalStars, humanize.Comma(int64(p.BubblesPopped))), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Campaign %s %d/%d", m.bar.ViewAs(pct), completed, total), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Infinite best %s at wave %d",
		humanize.Comma(int64(p.InfiniteHighScore)), p.InfiniteHighWave), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(fmt.Sprintf("Achievements %d/%d", m.unlocked, len(achievements.All())), m.width))
	b.WriteString("\n")
	if m.loadErr != nil {
		b.WriteString(centerText(dim.Render("Could not load achievements: "+m.loadErr.Error()), m.width))
		b.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.table.View()), m.width))
	b.WriteString("\n")
	b.WriteString(dim.Render(m.help.View(m.keys)))

	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ProgressModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ProgressModel) IsQuitting() bool {
	return m.quitting
}

// RunProgress runs the progress screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunProgress(tracker *progress.Tracker, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewProgressModel(tracker, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ProgressModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
