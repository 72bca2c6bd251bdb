package engine

import (
	"math"
	"time"
)

// Projectile is the bubble currently in flight. It follows a path traced
// at launch, advancing at the projectile speed. The rest of the path is
// traced again whenever the board shifts under it.
type Projectile struct {
	Element   Element
	Path      Path
	travelled float64 // World units covered so far
}

// Position returns the projectile's current world position.
func (p *Projectile) Position(spacing float64) Vec2 {
	if len(p.Path.Points) == 0 {
		return p.Path.Origin
	}
	return p.Path.Points[p.index(spacing)]
}

func (p *Projectile) index(spacing float64) int {
	return min(int(p.travelled/spacing), len(p.Path.Points)-1)
}

// Session owns one game from start to outcome. All mutation happens inside
// Shoot and Tick; nothing runs in the background.
type Session struct {
	settings Settings
	rules    Rules
	grid     *Grid
	rng      RNG
	timer    *WaveTimer

	state     State
	score     int
	shotsUsed int
	wave      int
	speed     float64
	popped    int

	angle   float64
	current Element
	next    Element
	flight  *Projectile

	paused    bool
	cancelled bool
	evaluated bool
	outcome   Outcome
}

// NewSession builds a session for the given rules. Level rules seed the
// grid from their pattern; wave rules generate the first wave and arm the
// injection timer.
func NewSession(settings Settings, rules Rules, rng RNG) *Session {
	s := &Session{
		settings: settings,
		rules:    rules,
		grid:     NewGrid(settings.Layout.Rows, settings.Layout.Cols),
		rng:      rng,
		state:    StateActive,
		wave:     1,
		speed:    1,
		angle:    -math.Pi / 2,
	}

	switch r := rules.(type) {
	case LevelRules:
		s.grid = NewGridFromPattern(settings.Layout.Rows, settings.Layout.Cols, r.Pattern)
	case WaveRules:
		s.speed = settings.Wave.SpeedFor(s.wave)
		s.generateWave()
		s.timer = NewWaveTimer(settings.Wave.IntervalFor(s.wave), settings.Wave.Grace)
	}

	s.current = s.pickElement()
	s.next = s.pickElement()
	return s
}

// Aim sets the firing angle, clamped to the forward cone.
func (s *Session) Aim(angle float64) {
	s.angle = s.settings.Trajectory.ClampAngle(angle)
}

// AimAt points the shooter toward a world position.
func (s *Session) AimAt(target Vec2) {
	s.angle = s.settings.Trajectory.AngleTo(s.settings.ShooterOrigin, target)
}

// Preview traces the current aim without touching the grid.
func (s *Session) Preview() Path {
	return Trace(s.grid, s.settings.Layout, s.settings.Trajectory, s.settings.ShooterOrigin, s.angle)
}

// Guide returns the sparsely sampled aim guide for the current angle.
func (s *Session) Guide() []Vec2 {
	return s.Preview().Sample(s.settings.GuideEvery)
}

// Shoot launches the current bubble. It is ignored while paused, after the
// session ended, or while another projectile is in flight.
func (s *Session) Shoot() []Event {
	if s.state.Terminal() || s.paused || s.cancelled || s.flight != nil {
		return nil
	}

	path := s.Preview()
	s.flight = &Projectile{Element: s.current, Path: path}
	if s.rules.Mode() == ModeLevel {
		s.shotsUsed++
	}

	launched := ShotLaunchedEvent{Element: s.current, Angle: path.Angle}
	s.current = s.next
	s.next = s.pickElement()
	return []Event{launched}
}

// Tick advances simulated time: the projectile in flight first, then the
// injection timer.
func (s *Session) Tick(dt time.Duration) []Event {
	if s.state.Terminal() || s.paused || s.cancelled {
		return nil
	}

	var events []Event
	if !s.evaluated {
		s.evaluated = true
		if ev := s.evaluate(); ev != nil {
			return append(events, ev)
		}
	}

	if s.flight != nil {
		s.flight.travelled += s.settings.ProjectileSpeed * dt.Seconds()
		if int(s.flight.travelled/s.pointSpacing()) >= len(s.flight.Path.Points) {
			events = append(events, s.resolveFlight()...)
			if s.state.Terminal() {
				return events
			}
		}
	}

	if s.timer != nil {
		for _, sig := range s.timer.Tick(dt) {
			switch sig {
			case SignalWarning:
				events = append(events, DropWarningEvent{GraceSeconds: s.settings.Wave.Grace.Seconds()})
			case SignalDrop:
				events = append(events, s.injectRow())
				s.retraceFlight()
				if ev := s.evaluate(); ev != nil {
					return append(events, ev)
				}
			}
		}
	}
	return events
}

// Resolve lands the projectile in flight immediately.
func (s *Session) Resolve() []Event {
	if s.flight == nil || s.state.Terminal() || s.cancelled {
		return nil
	}
	return s.resolveFlight()
}

// Pause suspends gameplay and the injection timer.
func (s *Session) Pause() {
	s.paused = true
	if s.timer != nil {
		s.timer.Pause()
	}
}

// Resume continues from where Pause stopped.
func (s *Session) Resume() {
	s.paused = false
	if s.timer != nil {
		s.timer.Resume()
	}
}

// Cancel tears the session down. Pending injections never fire afterwards.
func (s *Session) Cancel() {
	s.cancelled = true
	s.flight = nil
	if s.timer != nil {
		s.timer.Cancel()
	}
}

// retraceFlight re-resolves the projectile in flight against the current
// board, continuing from where it is now.
func (s *Session) retraceFlight() {
	if s.flight == nil || len(s.flight.Path.Points) == 0 {
		return
	}
	from := s.flight.index(s.pointSpacing())
	s.flight.Path = s.flight.Path.Retrace(s.grid, s.settings.Layout, s.settings.Trajectory, from)
}

func (s *Session) pointSpacing() float64 {
	return s.settings.Trajectory.Speed * s.settings.Trajectory.Step
}

// resolveFlight places the projectile and runs the removal cascade.
func (s *Session) resolveFlight() []Event {
	proj := s.flight
	s.flight = nil

	var events []Event
	landed := false
	if proj.Path.Landable() {
		target := proj.Path.Target(s.settings.Layout)
		if cell, ok := ResolvePlacement(s.grid, target, s.settings.PlacementRadius); ok {
			s.grid.Set(cell, proj.Element)
			events = append(events, BubblePlacedEvent{Cell: cell, Element: proj.Element})
			events = append(events, s.cascade(cell)...)
			landed = true
		}
	}
	if !landed {
		reason := proj.Path.End
		events = append(events, ShotDiscardedEvent{Element: proj.Element, Reason: reason})
	}

	if s.rules.Mode() == ModeWave && s.grid.IsEmpty() {
		events = append(events, s.nextWave())
	}

	if ev := s.evaluate(); ev != nil {
		return append(events, ev)
	}

	s.refreshShooter()
	return events
}

// cascade removes the match at cell, then anything left unsupported.
// Floating removal only follows a successful match.
func (s *Session) cascade(cell Cell) []Event {
	element := s.grid.Get(cell)
	matches := FindMatches(s.grid, cell, MinMatchSize)
	if len(matches) == 0 {
		return nil
	}

	s.grid.Remove(matches)
	points := s.award(len(matches) * s.settings.Scoring.MatchPoints)
	s.popped += len(matches)
	events := []Event{ClusterPoppedEvent{Cells: matches, Element: element, Points: points}}

	floating := FindFloating(s.grid)
	if len(floating) > 0 {
		s.grid.Remove(floating)
		points = s.award(len(floating) * s.settings.Scoring.FloatingPoints)
		s.popped += len(floating)
		events = append(events, BubblesDroppedEvent{Cells: floating, Points: points})
	}
	return events
}

// award adds base points scaled by the wave speed and returns the amount.
func (s *Session) award(base int) int {
	points := base
	if s.rules.Mode() == ModeWave {
		points = int(math.Round(float64(base) * s.speed))
	}
	s.score += points
	return points
}

// nextWave advances the difficulty curve and seeds a fresh board.
func (s *Session) nextWave() Event {
	tuning := s.settings.Wave
	s.wave++
	s.speed = tuning.SpeedFor(s.wave)
	bonus := tuning.BonusPerWave * s.wave
	s.score += bonus

	s.generateWave()
	if s.timer != nil {
		s.timer.Restart(tuning.IntervalFor(s.wave))
	}
	return WaveClearedEvent{Wave: s.wave, Bonus: bonus, SpeedMultiplier: s.speed}
}

// generateWave replaces the grid with a procedural pattern whose density
// thins out row by row.
func (s *Session) generateWave() {
	tuning := s.settings.Wave
	palette := tuning.PaletteFor(s.wave)
	s.grid.Clear()
	if len(palette) == 0 {
		return
	}

	rows := min(tuning.RowsFor(s.wave), s.grid.Rows)
	for r := 0; r < rows; r++ {
		density := tuning.BaseDensity - float64(r)*tuning.DensityFalloff
		for c := 0; c < s.grid.Cols; c++ {
			if s.rng.Float64() < density {
				s.grid.Set(At(r, c), pick(s.rng, palette))
			}
		}
	}
}

// injectRow pushes the board down and fills a new top row.
func (s *Session) injectRow() Event {
	palette := s.palette()
	s.grid.ShiftDown()

	added := 0
	for c := 0; c < s.grid.Cols; c++ {
		if s.rng.Float64() < s.settings.Wave.InjectDensity {
			s.grid.Set(At(0, c), pick(s.rng, palette))
			added++
		}
	}
	return RowInjectedEvent{Added: added}
}

// evaluate checks terminal conditions and records the outcome.
func (s *Session) evaluate() Outcome {
	if s.state.Terminal() {
		return nil
	}

	bottom := s.grid.ReachedBottom(s.settings.BottomRows)
	switch r := s.rules.(type) {
	case LevelRules:
		switch {
		case s.grid.IsEmpty():
			s.finish(StateWon, LevelCompleteEvent{
				Level:     r.Level,
				Score:     s.score,
				Stars:     Stars(s.shotsUsed, r.MaxShots),
				ShotsUsed: s.shotsUsed,
				Popped:    s.popped,
			})
		case s.shotsUsed >= r.MaxShots, bottom:
			s.finish(StateLost, GameOverEvent{Level: r.Level, Score: s.score, Popped: s.popped})
		}
	case WaveRules:
		if bottom {
			s.finish(StateLost, InfiniteGameOverEvent{
				Score:          s.score,
				Wave:           s.wave,
				IsNewHighScore: s.score > r.HighScore,
				IsNewHighWave:  s.wave > r.HighWave,
				Popped:         s.popped,
			})
		}
	}
	return s.outcome
}

func (s *Session) finish(state State, outcome Outcome) {
	s.state = state
	s.outcome = outcome
	s.flight = nil
	if s.timer != nil {
		s.timer.Cancel()
	}
}

// palette returns the elements this session may generate.
func (s *Session) palette() []Element {
	switch r := s.rules.(type) {
	case LevelRules:
		if len(r.Palette) > 0 {
			return r.Palette
		}
	case WaveRules:
		if p := s.settings.Wave.PaletteFor(s.wave); len(p) > 0 {
			return p
		}
	}
	return AllElements
}

// pickElement chooses the next shooter bubble from the types on the grid,
// falling back to the session palette when the grid is empty.
func (s *Session) pickElement() Element {
	if present := s.grid.Present(); len(present) > 0 {
		return pick(s.rng, present)
	}
	return pick(s.rng, s.palette())
}

// refreshShooter rerolls queued bubbles whose type left the grid.
func (s *Session) refreshShooter() {
	if s.grid.IsEmpty() {
		return
	}
	if !s.grid.Contains(s.current) {
		s.current = s.pickElement()
	}
	if !s.grid.Contains(s.next) {
		s.next = s.pickElement()
	}
}

// Settings returns the session's tuning.
func (s *Session) Settings() Settings { return s.settings }

// Mode returns the rule set in effect.
func (s *Session) Mode() Mode { return s.rules.Mode() }

// Grid returns a copy of the current board.
func (s *Session) Grid() *Grid { return s.grid.Clone() }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Outcome returns the terminal event once the session has ended.
func (s *Session) Outcome() (Outcome, bool) { return s.outcome, s.outcome != nil }

// Score returns the accumulated score.
func (s *Session) Score() int { return s.score }

// ShotsUsed returns the number of shots fired in level mode.
func (s *Session) ShotsUsed() int { return s.shotsUsed }

// ShotsLeft returns the remaining level-mode shots, or -1 in wave mode.
func (s *Session) ShotsLeft() int {
	if r, ok := s.rules.(LevelRules); ok {
		return max(r.MaxShots-s.shotsUsed, 0)
	}
	return -1
}

// Level returns the level number, or 0 in wave mode.
func (s *Session) Level() int {
	if r, ok := s.rules.(LevelRules); ok {
		return r.Level
	}
	return 0
}

// Wave returns the current wave number.
func (s *Session) Wave() int { return s.wave }

// SpeedMultiplier returns the wave score multiplier.
func (s *Session) SpeedMultiplier() float64 { return s.speed }

// Popped returns the number of bubbles removed so far.
func (s *Session) Popped() int { return s.popped }

// Angle returns the clamped aim angle.
func (s *Session) Angle() float64 { return s.angle }

// Current returns the bubble that fires next.
func (s *Session) Current() Element { return s.current }

// Next returns the bubble on deck.
func (s *Session) Next() Element { return s.next }

// Paused reports whether the session is paused.
func (s *Session) Paused() bool { return s.paused }

// InFlight returns the projectile position and element, if one is flying.
func (s *Session) InFlight() (Vec2, Element, bool) {
	if s.flight == nil {
		return Vec2{}, ElementNone, false
	}
	return s.flight.Position(s.pointSpacing()), s.flight.Element, true
}

// DropWarning reports whether a row injection is pending and when it lands.
func (s *Session) DropWarning() (bool, time.Duration) {
	if s.timer == nil {
		return false, 0
	}
	return s.timer.Warning()
}

// NextDrop returns the time until the next injection warning.
func (s *Session) NextDrop() time.Duration {
	if s.timer == nil {
		return 0
	}
	return s.timer.Remaining()
}
