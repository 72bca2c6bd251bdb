package engine_test

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

func levelSession(maxShots int, rng engine.RNG, pattern ...[]engine.Element) *engine.Session {
	rules := engine.LevelRules{Level: 1, MaxShots: maxShots, Pattern: pattern}
	return engine.NewSession(engine.DefaultSettings(), rules, rng)
}

func aimAtCell(s *engine.Session, c engine.Cell) {
	s.AimAt(s.Settings().Layout.CellToWorld(c))
}

func TestSessionMatchScores(t *testing.T) {
	s := levelSession(10, &scriptedRNG{}, row("FFWFWFWFWF"))
	if s.Current() != engine.ElementFire {
		t.Fatalf("Current() = %v, expected fire", s.Current())
	}

	aimAtCell(s, engine.At(1, 0))
	want := s.Preview().Target(s.Settings().Layout)

	if _, ok := firstEvent[engine.ShotLaunchedEvent](s.Shoot()); !ok {
		t.Fatal("Shoot() did not launch")
	}
	events := s.Tick(2 * time.Second)

	placed, ok := firstEvent[engine.BubblePlacedEvent](events)
	if !ok {
		t.Fatalf("no BubblePlacedEvent in %v", events)
	}
	if placed.Cell != want || placed.Cell != engine.At(1, 0) {
		t.Errorf("placed at %v, expected %v", placed.Cell, engine.At(1, 0))
	}

	popped, ok := firstEvent[engine.ClusterPoppedEvent](events)
	if !ok {
		t.Fatalf("no ClusterPoppedEvent in %v", events)
	}
	if len(popped.Cells) != 3 || popped.Points != 300 {
		t.Errorf("popped %d cells for %d points, expected 3 for 300", len(popped.Cells), popped.Points)
	}
	if s.Score() != 300 {
		t.Errorf("Score() = %d, expected 300", s.Score())
	}
	if s.State() != engine.StateActive {
		t.Errorf("State() = %v, expected Active", s.State())
	}
	if s.ShotsLeft() != 9 {
		t.Errorf("ShotsLeft() = %d, expected 9", s.ShotsLeft())
	}
}

func TestSessionLevelWin(t *testing.T) {
	s := levelSession(10, &scriptedRNG{}, row("FF"))
	aimAtCell(s, engine.At(1, 0))
	s.Shoot()
	events := s.Resolve()

	if s.State() != engine.StateWon {
		t.Fatalf("State() = %v, expected Won", s.State())
	}
	done, ok := firstEvent[engine.LevelCompleteEvent](events)
	if !ok {
		t.Fatalf("no LevelCompleteEvent in %v", events)
	}
	want := engine.LevelCompleteEvent{Level: 1, Score: 300, Stars: 3, ShotsUsed: 1, Popped: 3}
	if done != want {
		t.Errorf("LevelCompleteEvent = %+v, expected %+v", done, want)
	}

	outcome, ok := s.Outcome()
	if !ok || outcome.FinalScore() != 300 {
		t.Errorf("Outcome() = (%v, %v), expected final score 300", outcome, ok)
	}
	if got := s.Shoot(); got != nil {
		t.Errorf("Shoot() after win = %v, expected nil", got)
	}
}

func TestSessionLevelLossOnShots(t *testing.T) {
	s := levelSession(1, &scriptedRNG{}, row(".....W"))
	s.Aim(-math.Pi / 2)
	s.Shoot()
	events := s.Resolve()

	placed, ok := firstEvent[engine.BubblePlacedEvent](events)
	if !ok || placed.Cell != engine.At(1, 4) {
		t.Errorf("BubblePlacedEvent = %+v, expected cell (1,4)", placed)
	}
	if _, ok := firstEvent[engine.GameOverEvent](events); !ok {
		t.Fatalf("no GameOverEvent in %v", events)
	}
	if s.State() != engine.StateLost {
		t.Errorf("State() = %v, expected Lost", s.State())
	}
}

func TestSessionFloatingOnlyAfterMatch(t *testing.T) {
	pattern := [][]engine.Element{
		row(".....W"),
		nil,
		nil,
		nil,
		row("F"),
	}
	s := levelSession(5, &scriptedRNG{ints: []int{1}}, pattern...)
	if s.Current() != engine.ElementWater {
		t.Fatalf("Current() = %v, expected water", s.Current())
	}

	s.Aim(-math.Pi / 2)
	s.Shoot()
	events := s.Resolve()

	if _, ok := firstEvent[engine.BubblesDroppedEvent](events); ok {
		t.Error("unsupported bubbles must only drop after a match")
	}
	if s.Grid().Get(engine.At(4, 0)) != engine.ElementFire {
		t.Error("the floating bubble should still be on the grid")
	}
}

func TestSessionMatchDropsFloating(t *testing.T) {
	s := levelSession(10, &scriptedRNG{}, row("FF"), row(".W"))
	aimAtCell(s, engine.At(1, 0))
	s.Shoot()
	events := s.Resolve()

	dropped, ok := firstEvent[engine.BubblesDroppedEvent](events)
	if !ok {
		t.Fatalf("no BubblesDroppedEvent in %v", events)
	}
	if len(dropped.Cells) != 1 || dropped.Cells[0] != engine.At(1, 1) || dropped.Points != 50 {
		t.Errorf("BubblesDroppedEvent = %+v, expected (1,1) for 50", dropped)
	}
	if s.Score() != 350 {
		t.Errorf("Score() = %d, expected 350", s.Score())
	}
	if s.State() != engine.StateWon {
		t.Errorf("State() = %v, expected Won", s.State())
	}
}

func TestSessionDiscardedShotCosts(t *testing.T) {
	s := levelSession(5, &scriptedRNG{}, row("F"))
	s.Aim(-0.3)
	s.Shoot()
	events := s.Resolve()

	discarded, ok := firstEvent[engine.ShotDiscardedEvent](events)
	if !ok {
		t.Fatalf("no ShotDiscardedEvent in %v", events)
	}
	if discarded.Reason != engine.EndBounceLimit {
		t.Errorf("Reason = %v, expected %v", discarded.Reason, engine.EndBounceLimit)
	}
	if s.ShotsUsed() != 1 {
		t.Errorf("ShotsUsed() = %d, expected 1", s.ShotsUsed())
	}
	if s.Grid().Count() != 1 {
		t.Errorf("Grid().Count() = %d, expected 1", s.Grid().Count())
	}
}

func TestSessionBottomLossOnFirstTick(t *testing.T) {
	pattern := make([][]engine.Element, 10)
	pattern[9] = row("F")
	s := levelSession(5, &scriptedRNG{}, pattern...)

	events := s.Tick(time.Millisecond)
	if _, ok := firstEvent[engine.GameOverEvent](events); !ok {
		t.Fatalf("no GameOverEvent in %v", events)
	}
	if s.State() != engine.StateLost {
		t.Errorf("State() = %v, expected Lost", s.State())
	}
}

func TestSessionPauseAndFlight(t *testing.T) {
	s := levelSession(5, &scriptedRNG{}, row("FWE"))

	s.Pause()
	if got := s.Shoot(); got != nil {
		t.Errorf("Shoot() while paused = %v, expected nil", got)
	}
	if got := s.Tick(time.Second); got != nil {
		t.Errorf("Tick() while paused = %v, expected nil", got)
	}

	s.Resume()
	if got := s.Shoot(); len(got) != 1 {
		t.Fatalf("Shoot() = %v, expected one event", got)
	}
	if _, _, ok := s.InFlight(); !ok {
		t.Error("InFlight() should report the projectile")
	}
	if got := s.Shoot(); got != nil {
		t.Errorf("second Shoot() in flight = %v, expected nil", got)
	}

	s.Resolve()
	if _, _, ok := s.InFlight(); ok {
		t.Error("InFlight() should be false after Resolve")
	}
	if s.ShotsUsed() != 1 {
		t.Errorf("ShotsUsed() = %d, expected 1", s.ShotsUsed())
	}
}

// waveRNG seeds row 0 of the first wave from floats/ints and leaves the
// other seeded rows empty.
func waveRNG(top string) *scriptedRNG {
	rng := &scriptedRNG{}
	for _, r := range top {
		if r == '.' {
			rng.floats = append(rng.floats, 0.99)
			continue
		}
		rng.floats = append(rng.floats, 0)
		e, _ := engine.ParseElement(string(r))
		rng.ints = append(rng.ints, int(e)-1)
	}
	return rng
}

func TestWaveSessionInjectsRows(t *testing.T) {
	s := engine.NewSession(engine.DefaultSettings(), engine.WaveRules{}, waveRNG("FFFFFFFFFF"))

	events := s.Tick(30 * time.Second)
	if _, ok := firstEvent[engine.DropWarningEvent](events); !ok {
		t.Fatalf("no DropWarningEvent in %v", events)
	}
	if pending, _ := s.DropWarning(); !pending {
		t.Error("DropWarning() should be pending")
	}

	events = s.Tick(3 * time.Second)
	if _, ok := firstEvent[engine.RowInjectedEvent](events); !ok {
		t.Fatalf("no RowInjectedEvent in %v", events)
	}
	g := s.Grid()
	for c := 0; c < g.Cols; c++ {
		if g.Get(engine.At(1, c)) != engine.ElementFire {
			t.Errorf("Get(1,%d) = %v, expected fire", c, g.Get(engine.At(1, c)))
		}
	}
}

func TestWaveSessionInjectionDuringFlight(t *testing.T) {
	settings := engine.DefaultSettings()
	settings.Wave.BaseInterval = 2 * time.Second
	settings.Wave.MinInterval = 2 * time.Second
	settings.Wave.Grace = 50 * time.Millisecond

	// Row 0 is seeded, rows 1-3 stay empty, and the injected row is full.
	rng := waveRNG("FFFFFFFFFW")
	for i := 0; i < 30; i++ {
		rng.floats = append(rng.floats, 0.99)
	}
	for i := 0; i < 10; i++ {
		rng.floats = append(rng.floats, 0)
	}
	s := engine.NewSession(settings, engine.WaveRules{}, rng)

	const frame = time.Second / 60
	for i := 0; i < 117; i++ {
		s.Tick(frame)
	}
	s.Aim(-math.Pi / 2)
	s.Shoot()

	var placed engine.BubblePlacedEvent
	injected, found := false, false
	for i := 0; i < 300 && !found; i++ {
		for _, ev := range s.Tick(frame) {
			switch e := ev.(type) {
			case engine.RowInjectedEvent:
				if _, _, flying := s.InFlight(); !flying {
					t.Fatal("row injected after the shot landed")
				}
				injected = true
			case engine.BubblePlacedEvent:
				placed, found = e, true
			}
		}
	}

	if !injected {
		t.Fatal("no RowInjectedEvent during the flight")
	}
	if !found {
		t.Fatal("no BubblePlacedEvent")
	}
	// The shifted row now sits in row 1, so the shot settles under it.
	if placed.Cell != engine.At(2, 5) {
		t.Errorf("BubblePlacedEvent.Cell = %v, expected %v", placed.Cell, engine.At(2, 5))
	}
}

func TestWaveSessionLosesWhenRowsReachBottom(t *testing.T) {
	s := engine.NewSession(engine.DefaultSettings(), engine.WaveRules{HighScore: 0, HighWave: 0}, waveRNG("FFFFFFFFFF"))

	elapsed := 0
	for s.State() == engine.StateActive && elapsed < 600 {
		s.Tick(time.Second)
		elapsed++
	}

	if s.State() != engine.StateLost {
		t.Fatalf("State() = %v, expected Lost", s.State())
	}
	if elapsed != 273 {
		t.Errorf("lost after %ds, expected 273s", elapsed)
	}
	outcome, _ := s.Outcome()
	over, ok := outcome.(engine.InfiniteGameOverEvent)
	if !ok {
		t.Fatalf("Outcome() = %T, expected InfiniteGameOverEvent", outcome)
	}
	if over.Wave != 1 || !over.IsNewHighWave || over.IsNewHighScore {
		t.Errorf("InfiniteGameOverEvent = %+v", over)
	}
}

func TestWaveSessionMatchMatchesPreview(t *testing.T) {
	s := engine.NewSession(engine.DefaultSettings(), engine.WaveRules{}, waveRNG("FFWFWFWFWF"))
	aimAtCell(s, engine.At(1, 0))
	want := s.Preview().Target(s.Settings().Layout)

	s.Shoot()
	events := s.Resolve()

	placed, ok := firstEvent[engine.BubblePlacedEvent](events)
	if !ok || placed.Cell != want {
		t.Errorf("BubblePlacedEvent = %+v, expected cell %v", placed, want)
	}
	expected := int(math.Round(300 * s.SpeedMultiplier()))
	if s.Score() != expected {
		t.Errorf("Score() = %d, expected %d", s.Score(), expected)
	}
	if s.ShotsLeft() != -1 {
		t.Errorf("ShotsLeft() = %d, expected -1", s.ShotsLeft())
	}
}

func TestWaveSessionClearAdvancesWave(t *testing.T) {
	s := engine.NewSession(engine.DefaultSettings(), engine.WaveRules{}, waveRNG("FF"))
	aimAtCell(s, engine.At(1, 0))
	s.Shoot()
	events := s.Resolve()

	cleared, ok := firstEvent[engine.WaveClearedEvent](events)
	if !ok {
		t.Fatalf("no WaveClearedEvent in %v", events)
	}
	if cleared.Wave != 2 || cleared.Bonus != 2000 {
		t.Errorf("WaveClearedEvent = %+v, expected wave 2 with bonus 2000", cleared)
	}
	if s.Wave() != 2 {
		t.Errorf("Wave() = %d, expected 2", s.Wave())
	}
	if s.Score() != 2300 {
		t.Errorf("Score() = %d, expected 2300", s.Score())
	}
	if math.Abs(s.SpeedMultiplier()-1.1) > 1e-9 {
		t.Errorf("SpeedMultiplier() = %v, expected 1.1", s.SpeedMultiplier())
	}
	if s.NextDrop() != 29*time.Second {
		t.Errorf("NextDrop() = %v, expected 29s", s.NextDrop())
	}
	if s.State() != engine.StateActive {
		t.Errorf("State() = %v, expected Active", s.State())
	}
}

func TestWaveSessionCancel(t *testing.T) {
	s := engine.NewSession(engine.DefaultSettings(), engine.WaveRules{}, waveRNG("FFFF"))
	s.Cancel()

	if got := s.Tick(time.Minute); got != nil {
		t.Errorf("Tick() after Cancel = %v, expected nil", got)
	}
	if got := s.Shoot(); got != nil {
		t.Errorf("Shoot() after Cancel = %v, expected nil", got)
	}
}
