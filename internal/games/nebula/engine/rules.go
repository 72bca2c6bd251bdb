package engine

import (
	"math"
	"time"
)

// Mode identifies the rule set a session runs under.
type Mode uint8

const (
	ModeLevel Mode = iota // Finite shots, fixed pattern
	ModeWave              // Endless survival with row injection
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeLevel:
		return "level"
	case ModeWave:
		return "infinite"
	default:
		return "unknown"
	}
}

// State is the session lifecycle state.
type State uint8

const (
	StateActive State = iota
	StateWon
	StateLost
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateWon:
		return "Won"
	case StateLost:
		return "Lost"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the session has ended.
func (s State) Terminal() bool {
	return s != StateActive
}

// Rules parameterizes a session. It is a closed set: LevelRules or WaveRules.
type Rules interface {
	Mode() Mode
}

// LevelRules configures a finite level.
type LevelRules struct {
	Level    int
	MaxShots int
	Pattern  [][]Element
	Palette  []Element // Fallback for next-element picks on an empty grid
}

// Mode implements Rules.
func (LevelRules) Mode() Mode { return ModeLevel }

// WaveRules configures an endless session. The persisted records are
// supplied by the caller so the engine stays free of I/O.
type WaveRules struct {
	HighScore int
	HighWave  int
}

// Mode implements Rules.
func (WaveRules) Mode() Mode { return ModeWave }

// Scoring holds removal point values.
type Scoring struct {
	MatchPoints    int
	FloatingPoints int
}

// Unlock adds an element to the wave palette once the wave number
// exceeds AfterWave.
type Unlock struct {
	AfterWave int
	Element   Element
}

// WaveTuning holds the endless mode difficulty curve.
type WaveTuning struct {
	BaseInterval   time.Duration
	IntervalStep   time.Duration // Subtracted per wave
	MinInterval    time.Duration
	Grace          time.Duration // Warning to injection delay
	SpeedStep      float64
	MaxSpeed       float64
	BonusPerWave   int
	BaseRows       int
	WavesPerRow    int // One extra seeded row every this many waves
	MaxRows        int
	BaseDensity    float64 // Occupancy probability of row 0
	DensityFalloff float64 // Subtracted per row
	InjectDensity  float64 // Occupancy probability of an injected row
	BasePalette    []Element
	Unlocks        []Unlock
}

// SpeedFor returns the score multiplier for a wave.
func (w WaveTuning) SpeedFor(wave int) float64 {
	return math.Min(1+float64(wave-1)*w.SpeedStep, w.MaxSpeed)
}

// IntervalFor returns the injection interval for a wave.
func (w WaveTuning) IntervalFor(wave int) time.Duration {
	return max(w.MinInterval, w.BaseInterval-time.Duration(wave-1)*w.IntervalStep)
}

// RowsFor returns how many rows are seeded for a wave.
func (w WaveTuning) RowsFor(wave int) int {
	per := max(w.WavesPerRow, 1)
	return min(w.BaseRows+wave/per, w.MaxRows)
}

// PaletteFor returns the elements unlocked at a wave. The palette only
// grows with the wave number.
func (w WaveTuning) PaletteFor(wave int) []Element {
	palette := make([]Element, 0, len(w.BasePalette)+len(w.Unlocks))
	palette = append(palette, w.BasePalette...)
	for _, u := range w.Unlocks {
		if wave > u.AfterWave {
			palette = append(palette, u.Element)
		}
	}
	return palette
}

// Settings bundles every tunable the engine needs.
type Settings struct {
	Layout          Layout
	Trajectory      TrajectoryConfig
	ShooterOrigin   Vec2
	ProjectileSpeed float64 // World units per second for the live projectile
	GuideEvery      int     // Aim guide samples every n-th traced point
	PlacementRadius int
	BottomRows      int // Depth of the losing zone
	Scoring         Scoring
	Wave            WaveTuning
}

// DefaultSettings returns the stock 12x10 board on a 375x667 field.
func DefaultSettings() Settings {
	const (
		width  = 375.0
		height = 667.0
	)
	return Settings{
		Layout: Layout{
			Rows:       12,
			Cols:       10,
			BubbleSize: 30,
			OriginX:    37.5,
			OriginY:    100,
		},
		Trajectory: TrajectoryConfig{
			Speed:      300,
			Step:       1.0 / 60.0,
			MaxSteps:   300,
			MaxBounces: 3,
			WallMargin: 15,
			TopY:       100,
			Width:      width,
			MinAngle:   -2.8,
			MaxAngle:   -0.3,
		},
		ShooterOrigin:   Vec2{X: width / 2, Y: height - 80 - 35},
		ProjectileSpeed: 400,
		GuideEvery:      15,
		PlacementRadius: DefaultPlacementRadius,
		BottomRows:      3,
		Scoring: Scoring{
			MatchPoints:    100,
			FloatingPoints: 50,
		},
		Wave: WaveTuning{
			BaseInterval:   30 * time.Second,
			IntervalStep:   time.Second,
			MinInterval:    10 * time.Second,
			Grace:          3 * time.Second,
			SpeedStep:      0.1,
			MaxSpeed:       3.0,
			BonusPerWave:   1000,
			BaseRows:       4,
			WavesPerRow:    3,
			MaxRows:        8,
			BaseDensity:    0.7,
			DensityFalloff: 0.1,
			InjectDensity:  0.8,
			BasePalette:    []Element{ElementFire, ElementWater, ElementEarth, ElementAir},
			Unlocks: []Unlock{
				{AfterWave: 5, Element: ElementLight},
				{AfterWave: 10, Element: ElementDark},
			},
		},
	}
}

// Stars rates a cleared level by the share of shots left unused.
func Stars(shotsUsed, maxShots int) int {
	if maxShots <= 0 {
		return 1
	}
	efficiency := float64(maxShots-shotsUsed) / float64(maxShots)
	switch {
	case efficiency > 0.8:
		return 3
	case efficiency > 0.5:
		return 2
	default:
		return 1
	}
}
