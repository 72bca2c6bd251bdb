package levels

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

// GenParams configures pattern generation.
type GenParams struct {
	Seed        int64
	Rows        int
	Cols        int
	Palette     []engine.Element
	Frequency   float64 // Noise scale; lower values give larger same-element patches
	Octaves     int
	Persistence float64
	Density     float64 // Share of cells below row 0 that hold a bubble
}

// DefaultGenParams returns the settings used for campaign boards.
func DefaultGenParams() GenParams {
	return GenParams{
		Rows:        4,
		Cols:        10,
		Palette:     []engine.Element{engine.ElementFire, engine.ElementWater, engine.ElementEarth, engine.ElementAir},
		Frequency:   0.35,
		Octaves:     2,
		Persistence: 0.5,
		Density:     0.85,
	}
}

// Generate builds a deterministic board from opensimplex noise.
// Row 0 is always full so the board hangs from the ceiling, and cells that
// would start unsupported are removed.
func Generate(params GenParams) Pattern {
	if params.Rows <= 0 || params.Cols <= 0 {
		return Pattern{}
	}
	palette := params.Palette
	if len(palette) == 0 {
		palette = engine.AllElements
	}

	elemNoise := opensimplex.NewNormalized(params.Seed)
	fillNoise := opensimplex.NewNormalized(params.Seed + 1)

	g := engine.NewGrid(params.Rows, params.Cols)
	for r := 0; r < params.Rows; r++ {
		for c := 0; c < params.Cols; c++ {
			x, y := float64(c), float64(r)
			if r > 0 && octaveNoise(fillNoise, x, y, params.Octaves, params.Frequency*2, params.Persistence) > params.Density {
				continue
			}
			v := octaveNoise(elemNoise, x, y, params.Octaves, params.Frequency, params.Persistence)
			idx := int(v * float64(len(palette)))
			if idx >= len(palette) {
				idx = len(palette) - 1
			}
			if idx < 0 {
				idx = 0
			}
			g.Set(engine.At(r, c), palette[idx])
		}
	}
	g.Remove(engine.FindFloating(g))

	p := make(Pattern, params.Rows)
	for r := range p {
		p[r] = make([]engine.Element, params.Cols)
		for c := range p[r] {
			p[r][c] = g.Get(engine.At(r, c))
		}
	}
	return p
}

// octaveNoise sums several noise layers. The result stays in [0, 1) for
// normalized noise.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
