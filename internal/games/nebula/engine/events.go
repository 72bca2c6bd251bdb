package engine

// Event is anything a session reports from Shoot or Tick.
// The interface is sealed so callers can switch exhaustively.
type Event interface {
	event()
}

// Outcome is a terminal event. Exactly one is emitted per session.
type Outcome interface {
	Event
	FinalScore() int
}

// ShotLaunchedEvent is emitted when a projectile leaves the shooter.
type ShotLaunchedEvent struct {
	Element Element
	Angle   float64
}

// ShotDiscardedEvent is emitted when a projectile found nowhere to land.
type ShotDiscardedEvent struct {
	Element Element
	Reason  PathEnd
}

// BubblePlacedEvent is emitted when a projectile settles into the grid.
type BubblePlacedEvent struct {
	Cell    Cell
	Element Element
}

// ClusterPoppedEvent is emitted when a match of three or more is removed.
type ClusterPoppedEvent struct {
	Cells   []Cell
	Element Element
	Points  int
}

// BubblesDroppedEvent is emitted when unsupported bubbles fall away.
type BubblesDroppedEvent struct {
	Cells  []Cell
	Points int
}

// DropWarningEvent is emitted when a row injection is incoming.
type DropWarningEvent struct {
	GraceSeconds float64
}

// RowInjectedEvent is emitted after the grid shifted down by one row.
type RowInjectedEvent struct {
	Added int // Bubbles in the new top row
}

// WaveClearedEvent is emitted when the grid empties in wave mode.
type WaveClearedEvent struct {
	Wave            int // The wave now starting
	Bonus           int
	SpeedMultiplier float64
}

// LevelCompleteEvent is emitted when a level's grid is cleared.
type LevelCompleteEvent struct {
	Level     int
	Score     int
	Stars     int
	ShotsUsed int
	Popped    int
}

// GameOverEvent is emitted when a level is lost.
type GameOverEvent struct {
	Level  int
	Score  int
	Popped int
}

// InfiniteGameOverEvent is emitted when a wave session is lost.
type InfiniteGameOverEvent struct {
	Score          int
	Wave           int
	IsNewHighScore bool
	IsNewHighWave  bool
	Popped         int
}

func (ShotLaunchedEvent) event()     {}
func (ShotDiscardedEvent) event()    {}
func (BubblePlacedEvent) event()     {}
func (ClusterPoppedEvent) event()    {}
func (BubblesDroppedEvent) event()   {}
func (DropWarningEvent) event()      {}
func (RowInjectedEvent) event()      {}
func (WaveClearedEvent) event()      {}
func (LevelCompleteEvent) event()    {}
func (GameOverEvent) event()         {}
func (InfiniteGameOverEvent) event() {}

// FinalScore implements Outcome.
func (e LevelCompleteEvent) FinalScore() int { return e.Score }

// FinalScore implements Outcome.
func (e GameOverEvent) FinalScore() int { return e.Score }

// FinalScore implements Outcome.
func (e InfiniteGameOverEvent) FinalScore() int { return e.Score }
