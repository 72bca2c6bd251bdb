package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/nebula-arcade/internal/core"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextWithColor(0, 0, "NEBULA", core.ColorPurple)
	s.DrawTextWithColor(0, 1, "score", core.ColorBrown)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() produced %d lines, expected 2", len(lines))
	}
	if !strings.Contains(lines[0], "NEBULA") || !strings.Contains(lines[1], "score") {
		t.Errorf("RenderScreen() = %q", out)
	}
}

func TestStyleForFallsBack(t *testing.T) {
	if got := styleFor(core.Color(250)).Render("x"); !strings.Contains(got, "x") {
		t.Errorf("styleFor(unknown).Render() = %q", got)
	}
}

func TestElementSwatch(t *testing.T) {
	got := elementSwatch([]engine.Element{engine.ElementFire, engine.ElementWater, engine.ElementDark})
	if n := strings.Count(got, "●"); n != 3 {
		t.Errorf("elementSwatch() has %d glyphs, expected 3", n)
	}
	if elementSwatch(nil) != "" {
		t.Error("elementSwatch(nil) should be empty")
	}
}
