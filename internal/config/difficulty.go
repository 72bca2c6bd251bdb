package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

// ShotScale returns the level shot multiplier for a preset.
func ShotScale(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 1.25
	case DifficultyHard:
		return 0.8
	default:
		return 1.0
	}
}

// IntervalScale returns the wave interval multiplier for a preset.
func IntervalScale(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 1.5
	case DifficultyHard:
		return 0.75
	default:
		return 1.0
	}
}

// ScaleShots applies a preset to a level's shot allowance. At least one
// shot is always granted.
func ScaleShots(maxShots int, preset DifficultyPreset) int {
	scaled := int(math.Round(float64(maxShots) * ShotScale(preset)))
	return max(scaled, 1)
}

// ApplyNebulaPreset modifies the config based on a difficulty preset.
// The wave base interval scales but never drops below the minimum interval.
func ApplyNebulaPreset(cfg *NebulaConfig, preset DifficultyPreset) {
	scaled := time.Duration(float64(cfg.Wave.BaseInterval) * IntervalScale(preset))
	cfg.Wave.BaseInterval = max(scaled, cfg.Wave.MinInterval)
}

// Validate rejects configurations the engine cannot run.
func (c NebulaConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Board.Rows > 0 && c.Board.Cols > 0, "board: rows and cols must be positive")
	check(c.Board.BubbleSize > 0, "board: bubble_size must be positive")
	check(c.Board.Width > 0 && c.Board.Height > 0, "board: width and height must be positive")
	check(c.Board.BottomRows > 0 && c.Board.BottomRows < c.Board.Rows, "board: bottom_rows must be within the grid")
	check(c.Board.PlacementRadius > 0, "board: placement_radius must be positive")
	check(c.Trajectory.Speed > 0, "trajectory: speed must be positive")
	check(c.Trajectory.StepRate > 0, "trajectory: step_rate must be positive")
	check(c.Trajectory.MaxSteps > 0, "trajectory: max_steps must be positive")
	check(c.Trajectory.MaxBounces > 0, "trajectory: max_bounces must be positive")
	check(c.Trajectory.MinAngle < c.Trajectory.MaxAngle, "trajectory: min_angle must be below max_angle")
	check(c.Shooter.ProjectileSpeed > 0, "shooter: projectile_speed must be positive")
	check(c.Wave.BaseInterval > 0 && c.Wave.MinInterval > 0, "wave: intervals must be positive")
	check(c.Wave.Grace >= 0, "wave: grace must not be negative")
	check(c.Wave.MaxSpeed >= 1, "wave: max_speed must be at least 1")
	check(len(c.Wave.Palette) > 0, "wave: palette must not be empty")
	for _, e := range c.Wave.Palette {
		check(e.Valid(), "wave: invalid palette element %v", e)
	}
	for _, u := range c.Wave.Unlocks {
		check(u.Element.Valid(), "wave: invalid unlock element %v", u.Element)
	}

	return errors.Join(errs...)
}

// Settings converts the configuration into engine settings.
func (c NebulaConfig) Settings() engine.Settings {
	unlocks := make([]engine.Unlock, len(c.Wave.Unlocks))
	for i, u := range c.Wave.Unlocks {
		unlocks[i] = engine.Unlock{AfterWave: u.AfterWave, Element: u.Element}
	}
	palette := make([]engine.Element, len(c.Wave.Palette))
	copy(palette, c.Wave.Palette)

	return engine.Settings{
		Layout: engine.Layout{
			Rows:       c.Board.Rows,
			Cols:       c.Board.Cols,
			BubbleSize: c.Board.BubbleSize,
			OriginX:    c.Board.OriginX,
			OriginY:    c.Board.OriginY,
		},
		Trajectory: engine.TrajectoryConfig{
			Speed:      c.Trajectory.Speed,
			Step:       1 / c.Trajectory.StepRate,
			MaxSteps:   c.Trajectory.MaxSteps,
			MaxBounces: c.Trajectory.MaxBounces,
			WallMargin: c.Trajectory.WallMargin,
			TopY:       c.Trajectory.TopY,
			Width:      c.Board.Width,
			MinAngle:   c.Trajectory.MinAngle,
			MaxAngle:   c.Trajectory.MaxAngle,
		},
		ShooterOrigin:   engine.Vec2{X: c.Board.Width / 2, Y: c.Board.Height - c.Shooter.BottomOffset},
		ProjectileSpeed: c.Shooter.ProjectileSpeed,
		GuideEvery:      c.Shooter.GuideEvery,
		PlacementRadius: c.Board.PlacementRadius,
		BottomRows:      c.Board.BottomRows,
		Scoring: engine.Scoring{
			MatchPoints:    c.Scoring.Match,
			FloatingPoints: c.Scoring.Floating,
		},
		Wave: engine.WaveTuning{
			BaseInterval:   c.Wave.BaseInterval,
			IntervalStep:   c.Wave.IntervalStep,
			MinInterval:    c.Wave.MinInterval,
			Grace:          c.Wave.Grace,
			SpeedStep:      c.Wave.SpeedStep,
			MaxSpeed:       c.Wave.MaxSpeed,
			BonusPerWave:   c.Wave.BonusPerWave,
			BaseRows:       c.Wave.BaseRows,
			WavesPerRow:    c.Wave.WavesPerRow,
			MaxRows:        c.Wave.MaxRows,
			BaseDensity:    c.Wave.BaseDensity,
			DensityFalloff: c.Wave.DensityFalloff,
			InjectDensity:  c.Wave.InjectDensity,
			BasePalette:    palette,
			Unlocks:        unlocks,
		},
	}
}
