package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/nebula-arcade/internal/achievements"
	"github.com/vovakirdan/nebula-arcade/internal/core"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
	"github.com/vovakirdan/nebula-arcade/internal/progress"
	"github.com/vovakirdan/nebula-arcade/internal/storage"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: 11}
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "nebula.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func openTestTracker(t *testing.T, store *storage.Store, name string) *progress.Tracker {
	t.Helper()
	tr, err := progress.Open(store, name, progress.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("progress.Open() failed: %v", err)
	}
	return tr
}

// oneShotLevel replaces level 1 with a board that a single shot cannot clear.
func oneShotLevel(t *testing.T) {
	t.Helper()
	pattern, err := levels.ParsePattern([]string{"FF"})
	if err != nil {
		t.Fatalf("ParsePattern() error: %v", err)
	}
	nebula.SetCustomLevels([]levels.Level{{
		ID:         1,
		Difficulty: levels.Easy,
		MaxShots:   1,
		Elements:   []engine.Element{engine.ElementFire},
		Authored:   pattern,
	}})
	t.Cleanup(func() { nebula.SetCustomLevels(nil) })
}

type fakePublisher struct {
	players  []string
	outcomes []engine.Outcome
}

func (f *fakePublisher) Publish(player string, o engine.Outcome) error {
	f.players = append(f.players, player)
	f.outcomes = append(f.outcomes, o)
	return nil
}

// update feeds one message and unwraps the model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return model, cmd
}

func TestModelRecordsLostLevel(t *testing.T) {
	oneShotLevel(t)
	store := openTestStore(t)
	tracker := openTestTracker(t, store, "vega")
	pub := &fakePublisher{}
	rec := NewRecorder(tracker, nil, log.New(io.Discard))
	rec.feed = pub

	m := NewModel(nebula.New(), rec, testConfig())
	m.Init()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	for range 600 {
		m, _ = update(t, m, TickMsg(time.Now()))
	}

	if !m.gameState.GameOver || m.gameState.Won {
		t.Fatalf("gameState = %+v, expected a lost game", m.gameState)
	}
	n, err := store.RunCount(tracker.Player().ID, storage.ModeLevel)
	if err != nil {
		t.Fatalf("RunCount() error: %v", err)
	}
	if n != 1 {
		t.Errorf("RunCount() = %d, expected 1", n)
	}
	if len(pub.outcomes) != 1 || pub.players[0] != "vega" {
		t.Errorf("published %v for %v, expected one outcome for vega", pub.outcomes, pub.players)
	}
	if _, ok := pub.outcomes[0].(engine.GameOverEvent); !ok {
		t.Errorf("published %T, expected GameOverEvent", pub.outcomes[0])
	}
}

func TestModelBackPausesFirst(t *testing.T) {
	m := NewModel(nebula.New(), nil, testConfig())
	m.Init()
	m, _ = update(t, m, TickMsg(time.Now()))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.back || cmd != nil {
		t.Fatal("Back on a live board should not leave")
	}
	m, _ = update(t, m, TickMsg(time.Now()))
	if !m.gameState.Paused {
		t.Fatal("Back on a live board should pause")
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.back || cmd == nil {
		t.Error("Back while paused should leave the game")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(nebula.New(), nil, testConfig())
	m.Init()

	m, cmd := update(t, m, runeKey('q'))
	if !m.quitting || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModelResizeKeepsSession(t *testing.T) {
	game := nebula.New()
	m := NewModel(game, nil, testConfig())
	m.Init()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, TickMsg(time.Now()))
	session := game.Session()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if game.Session() != session {
		t.Error("resize should not restart the session")
	}
	if m.screen.Width() != 100 || m.screen.Height() != 40 {
		t.Errorf("screen = %dx%d, expected 100x40", m.screen.Width(), m.screen.Height())
	}
}

func TestModelViewShowsBoard(t *testing.T) {
	m := NewModel(nebula.New(), nil, testConfig())
	m.Init()

	out := m.View()
	if !strings.Contains(out, "Score") || !strings.Contains(out, "Shots") {
		t.Errorf("View() missing HUD:\n%s", out)
	}
}

func TestResultToast(t *testing.T) {
	first, _ := achievements.Lookup(achievements.FirstSteps)

	tests := []struct {
		name string
		res  progress.Result
		want string
	}{
		{"nothing", progress.Result{}, ""},
		{"unlock", progress.Result{LevelUnlock: 4}, "Level 4 unlocked"},
		{"achievement", progress.Result{LevelUnlock: 2, Unlocked: []achievements.Definition{first}}, "Level 2 unlocked  " + first.Icon + " First Steps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resultToast(tt.res); got != tt.want {
				t.Errorf("resultToast() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestRecorderWithoutTracker(t *testing.T) {
	var nilRec *Recorder
	if nilRec.Player() != GuestName || nilRec.Tracker() != nil {
		t.Error("nil recorder should report a guest")
	}
	if got := nilRec.Record(engine.GameOverEvent{Level: 1}); got.RunID != 0 {
		t.Errorf("nil Record() = %+v", got)
	}

	pub := &fakePublisher{}
	rec := NewRecorder(nil, nil, nil)
	rec.feed = pub
	rec.Record(engine.InfiniteGameOverEvent{Score: 900, Wave: 2})
	if len(pub.players) != 1 || pub.players[0] != GuestName {
		t.Errorf("published for %v, expected guest", pub.players)
	}
}
