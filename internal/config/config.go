// Package config provides YAML-based game configuration loading and
// difficulty presets for Nebula.
package config

import (
	"time"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

// NebulaConfig contains every tunable of the Nebula engine and front end.
type NebulaConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`
	Shooter    ShooterConfig    `yaml:"shooter"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Wave       WaveConfig       `yaml:"wave"`
	Controls   ControlsConfig   `yaml:"controls"`
}

// BoardConfig defines the grid and the playfield it is drawn on.
type BoardConfig struct {
	Rows            int     `yaml:"rows"`
	Cols            int     `yaml:"cols"`
	BubbleSize      float64 `yaml:"bubble_size"`
	Width           float64 `yaml:"width"`  // Playfield width in world units
	Height          float64 `yaml:"height"` // Playfield height in world units
	OriginX         float64 `yaml:"origin_x"`
	OriginY         float64 `yaml:"origin_y"`
	BottomRows      int     `yaml:"bottom_rows"` // Losing zone depth
	PlacementRadius int     `yaml:"placement_radius"`
}

// TrajectoryConfig defines the traced path of a shot.
type TrajectoryConfig struct {
	Speed      float64 `yaml:"speed"`
	StepRate   float64 `yaml:"step_rate"` // Trace steps per simulated second
	MaxSteps   int     `yaml:"max_steps"`
	MaxBounces int     `yaml:"max_bounces"`
	WallMargin float64 `yaml:"wall_margin"`
	TopY       float64 `yaml:"top_y"`
	MinAngle   float64 `yaml:"min_angle"`
	MaxAngle   float64 `yaml:"max_angle"`
}

// ShooterConfig defines the launcher.
type ShooterConfig struct {
	BottomOffset    float64 `yaml:"bottom_offset"` // Distance from the playfield bottom
	ProjectileSpeed float64 `yaml:"projectile_speed"`
	GuideEvery      int     `yaml:"guide_every"`
}

// ScoringConfig defines removal points.
type ScoringConfig struct {
	Match    int `yaml:"match"`
	Floating int `yaml:"floating"`
}

// WaveConfig defines the infinite mode difficulty curve.
type WaveConfig struct {
	BaseInterval   time.Duration    `yaml:"base_interval"`
	IntervalStep   time.Duration    `yaml:"interval_step"`
	MinInterval    time.Duration    `yaml:"min_interval"`
	Grace          time.Duration    `yaml:"grace"`
	SpeedStep      float64          `yaml:"speed_step"`
	MaxSpeed       float64          `yaml:"max_speed"`
	BonusPerWave   int              `yaml:"bonus_per_wave"`
	BaseRows       int              `yaml:"base_rows"`
	WavesPerRow    int              `yaml:"waves_per_row"`
	MaxRows        int              `yaml:"max_rows"`
	BaseDensity    float64          `yaml:"base_density"`
	DensityFalloff float64          `yaml:"density_falloff"`
	InjectDensity  float64          `yaml:"inject_density"`
	Palette        []engine.Element `yaml:"palette,flow"`
	Unlocks        []UnlockConfig   `yaml:"unlocks"`
}

// UnlockConfig adds an element once the wave exceeds AfterWave.
type UnlockConfig struct {
	AfterWave int            `yaml:"after_wave"`
	Element   engine.Element `yaml:"element"`
}

// ControlsConfig defines keyboard aiming.
type ControlsConfig struct {
	AimStep     float64 `yaml:"aim_step"`      // Radians per arrow key press
	FastAimStep float64 `yaml:"fast_aim_step"` // Radians per A/D press
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch DifficultyPreset(name) {
	case "", DifficultyNormal:
		return DifficultyNormal, true
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}
