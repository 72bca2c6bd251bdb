package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

//go:embed defaults/nebula.yaml
var defaultNebulaYAML []byte

// DefaultNebulaConfig returns the default Nebula configuration.
func DefaultNebulaConfig() NebulaConfig {
	return NebulaConfig{
		Board: BoardConfig{
			Rows:            12,
			Cols:            10,
			BubbleSize:      30,
			Width:           375,
			Height:          667,
			OriginX:         37.5,
			OriginY:         100,
			BottomRows:      3,
			PlacementRadius: engine.DefaultPlacementRadius,
		},
		Trajectory: TrajectoryConfig{
			Speed:      300,
			StepRate:   60,
			MaxSteps:   300,
			MaxBounces: 3,
			WallMargin: 15,
			TopY:       100,
			MinAngle:   -2.8,
			MaxAngle:   -0.3,
		},
		Shooter: ShooterConfig{
			BottomOffset:    115,
			ProjectileSpeed: 400,
			GuideEvery:      15,
		},
		Scoring: ScoringConfig{
			Match:    100,
			Floating: 50,
		},
		Wave: WaveConfig{
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
			Palette:        []engine.Element{engine.ElementFire, engine.ElementWater, engine.ElementEarth, engine.ElementAir},
			Unlocks: []UnlockConfig{
				{AfterWave: 5, Element: engine.ElementLight},
				{AfterWave: 10, Element: engine.ElementDark},
			},
		},
		Controls: ControlsConfig{
			AimStep:     0.05,
			FastAimStep: 0.15,
		},
	}
}
