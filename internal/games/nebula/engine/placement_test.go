package engine_test

import (
	"testing"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

func fillBox(g *engine.Grid, r0, r1, c0, c1 int) {
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			g.Set(engine.At(r, c), engine.ElementDark)
		}
	}
}

func TestResolvePlacement(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(g *engine.Grid)
		target    engine.Cell
		radius    int
		want      engine.Cell
		wantFound bool
	}{
		{
			name:      "empty target",
			setup:     func(g *engine.Grid) {},
			target:    engine.At(3, 3),
			radius:    engine.DefaultPlacementRadius,
			want:      engine.At(3, 3),
			wantFound: true,
		},
		{
			name: "corner falls to right neighbour",
			setup: func(g *engine.Grid) {
				g.Set(engine.At(0, 0), engine.ElementFire)
			},
			target:    engine.At(0, 0),
			radius:    engine.DefaultPlacementRadius,
			want:      engine.At(0, 1),
			wantFound: true,
		},
		{
			name: "row-major order within ring",
			setup: func(g *engine.Grid) {
				fillBox(g, 4, 6, 4, 6)
				g.Set(engine.At(6, 4), engine.ElementNone)
				g.Set(engine.At(6, 6), engine.ElementNone)
			},
			target:    engine.At(5, 5),
			radius:    engine.DefaultPlacementRadius,
			want:      engine.At(6, 4),
			wantFound: true,
		},
		{
			name: "second ring",
			setup: func(g *engine.Grid) {
				fillBox(g, 4, 6, 4, 6)
			},
			target:    engine.At(5, 5),
			radius:    3,
			want:      engine.At(3, 3),
			wantFound: true,
		},
		{
			name: "radius exhausted",
			setup: func(g *engine.Grid) {
				fillBox(g, 4, 6, 4, 6)
			},
			target:    engine.At(5, 5),
			radius:    2,
			wantFound: false,
		},
		{
			name: "full grid",
			setup: func(g *engine.Grid) {
				fillBox(g, 0, 11, 0, 9)
			},
			target:    engine.At(0, 0),
			radius:    engine.DefaultPlacementRadius,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := engine.NewGrid(12, 10)
			tt.setup(g)
			got, ok := engine.ResolvePlacement(g, tt.target, tt.radius)
			if ok != tt.wantFound {
				t.Fatalf("ResolvePlacement() ok = %v, expected %v", ok, tt.wantFound)
			}
			if ok && got != tt.want {
				t.Errorf("ResolvePlacement() = %v, expected %v", got, tt.want)
			}
		})
	}
}
