package nebula

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/nebula-arcade/internal/core"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
)

// Glyphs for the board.
const (
	BubbleGlyph  = '●'
	ShooterGlyph = '◉'
	GuideGlyph   = '·'
	DangerGlyph  = '┄'
)

// ElementColor maps an element to its screen colour.
func ElementColor(e engine.Element) core.Color {
	switch e {
	case engine.ElementFire:
		return core.ColorRed
	case engine.ElementWater:
		return core.ColorBlue
	case engine.ElementEarth:
		return core.ColorBrown
	case engine.ElementAir:
		return core.ColorBrightCyan
	case engine.ElementLight:
		return core.ColorBrightYellow
	case engine.ElementDark:
		return core.ColorPurple
	default:
		return core.ColorDefault
	}
}

// viewport projects world coordinates onto screen cells. One grid row is
// one screen row and a bubble is two columns wide, so odd rows land one
// column to the right of even rows.
type viewport struct {
	layout  engine.Layout
	left    int // Screen column of the left wall's inner edge
	top     int // Screen row of grid row 0
	half    float64
	pitch   float64
	originY float64 // World y of grid row 0 centres
}

func (g *Game) viewport(screenW, screenH int) viewport {
	layout := g.cfg.Settings().Layout
	boardW := 2*layout.Cols + 1
	extra := max(0, (screenH-MinScreenH)/2)
	return viewport{
		layout:  layout,
		left:    (screenW - boardW) / 2,
		top:     3 + extra,
		half:    layout.BubbleSize / 2,
		pitch:   layout.BubbleSize * math.Sqrt(3) / 2,
		originY: layout.OriginY + layout.BubbleSize/2,
	}
}

func (v viewport) width() int { return 2*v.layout.Cols + 1 }

// field is the framed playfield, walls included, down to the row below
// the shooter.
func (v viewport) field(shooter core.Point) core.Rect {
	top := v.top - 1
	return core.NewRect(v.left-1, top, v.width()+2, shooter.Y-top+2)
}

func (v viewport) cell(c engine.Cell) core.Point {
	return core.Point{X: v.left + 1 + 2*c.Col + c.Row%2, Y: v.top + c.Row}
}

func (v viewport) toScreen(p engine.Vec2) core.Point {
	return core.Point{
		X: v.left + int(math.Round((p.X-v.layout.OriginX)/v.half)),
		Y: v.top + int(math.Round((p.Y-v.originY)/v.pitch)),
	}
}

func (v viewport) toWorld(p core.Point) engine.Vec2 {
	return engine.Vec2{
		X: v.layout.OriginX + float64(p.X-v.left)*v.half,
		Y: v.originY + float64(p.Y-v.top)*v.pitch,
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorBrightRed)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH), core.ColorGray)
		return
	}
	if g.session == nil {
		return
	}

	view := g.viewport(dst.Width(), dst.Height())
	shooter := view.toScreen(g.session.Settings().ShooterOrigin)

	g.renderHUD(dst)
	g.renderFrame(dst, view, shooter)
	g.renderBubbles(dst, view)
	g.renderGuide(dst, view)
	g.renderShooter(dst, shooter)
	g.renderFooter(dst, shooter.Y+2)
	g.renderOverlay(dst)
}

// renderHUD draws the score, the shot or wave counter and the banner row.
func (g *Game) renderHUD(dst *core.Screen) {
	s := g.session
	dst.DrawTextWithColor(1, 0, "Score "+humanize.Comma(int64(s.Score())), core.ColorBrightWhite)

	var center, right string
	if s.Mode() == engine.ModeWave {
		center = fmt.Sprintf("Wave %d  x%.1f", s.Wave(), s.SpeedMultiplier())
		right = "Best " + humanize.Comma(int64(g.records.HighScore))
	} else {
		center = fmt.Sprintf("Shots %d/%d", s.ShotsLeft(), s.ShotsUsed()+s.ShotsLeft())
		right = fmt.Sprintf("Level %d/%d", g.level.ID, levels.Count())
	}
	dst.DrawTextCentered(0, center, core.ColorBrightWhite)
	dst.DrawTextWithColor(dst.Width()-utf8.RuneCountInString(right)-1, 0, right, core.ColorGray)

	dst.DrawHLine(0, 1, dst.Width(), '─', core.ColorGray)
	if warn, left := s.DropWarning(); warn {
		dst.DrawTextCentered(1, fmt.Sprintf(" !! INCOMING ROW %.1fs !! ", left.Seconds()), core.ColorBrightRed)
	} else if g.bannerLeft > 0 && g.banner != "" {
		dst.DrawTextCentered(1, " "+g.banner+" ", g.bannerColor)
	}
}

// renderFrame draws the walls and the losing line.
func (g *Game) renderFrame(dst *core.Screen, view viewport, shooter core.Point) {
	dst.DrawBox(view.field(shooter), core.ColorGray)

	danger := view.top + view.layout.Rows - g.cfg.Board.BottomRows
	dst.DrawHLine(view.left, danger, view.width(), DangerGlyph, core.ColorRed)
}

func (g *Game) renderBubbles(dst *core.Screen, view viewport) {
	grid := g.session.Grid()
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			cell := engine.At(r, c)
			if e := grid.Get(cell); e.Valid() {
				p := view.cell(cell)
				dst.SetWithColor(p.X, p.Y, BubbleGlyph, ElementColor(e))
			}
		}
	}

	if pos, e, ok := g.session.InFlight(); ok {
		p := view.toScreen(pos)
		dst.SetWithColor(p.X, p.Y, BubbleGlyph, ElementColor(e))
	}
}

// renderGuide dots the sampled aim path while the shooter is idle.
func (g *Game) renderGuide(dst *core.Screen, view viewport) {
	if _, _, flying := g.session.InFlight(); flying || g.session.State().Terminal() {
		return
	}
	for i, pt := range g.session.Guide() {
		if i == 0 {
			continue
		}
		p := view.toScreen(pt)
		if dst.Get(p.X, p.Y) == ' ' {
			dst.SetWithColor(p.X, p.Y, GuideGlyph, core.ColorWhite)
		}
	}
}

func (g *Game) renderShooter(dst *core.Screen, shooter core.Point) {
	dst.SetWithColor(shooter.X, shooter.Y, ShooterGlyph, ElementColor(g.session.Current()))

	deg := aimDegrees(g.session.Angle())
	switch {
	case deg < -20:
		dst.SetWithColor(shooter.X-1, shooter.Y-1, '╲', core.ColorBrightWhite)
	case deg > 20:
		dst.SetWithColor(shooter.X+1, shooter.Y-1, '╱', core.ColorBrightWhite)
	default:
		dst.SetWithColor(shooter.X, shooter.Y-1, '│', core.ColorBrightWhite)
	}
}

// renderFooter shows the current and next elements and a key hint.
func (g *Game) renderFooter(dst *core.Screen, y int) {
	s := g.session
	parts := []struct {
		text  string
		color core.Color
	}{
		{"Now ", core.ColorGray},
		{string(BubbleGlyph) + " " + s.Current().String(), ElementColor(s.Current())},
		{"   Next ", core.ColorGray},
		{string(BubbleGlyph) + " " + s.Next().String(), ElementColor(s.Next())},
	}
	width := 0
	for _, p := range parts {
		width += utf8.RuneCountInString(p.text)
	}
	x := (dst.Width() - width) / 2
	for _, p := range parts {
		dst.DrawTextWithColor(x, y, p.text, p.color)
		x += utf8.RuneCountInString(p.text)
	}

	hint := "←/→ aim  A/D fast  SPACE shoot  P pause"
	if s.Mode() == engine.ModeWave {
		if warn, _ := s.DropWarning(); !warn {
			hint = fmt.Sprintf("Next row in %ds  |  %s", int(math.Ceil(s.NextDrop().Seconds())), "SPACE shoot")
		}
	}
	dst.DrawTextCentered(y+1, hint, core.ColorGray)
}

// renderOverlay draws pause and end-of-session panels.
func (g *Game) renderOverlay(dst *core.Screen) {
	s := g.session
	if s.Paused() {
		g.drawPanel(dst, core.ColorBrightYellow, "PAUSED", "Press P to resume  |  ESC for menu")
		return
	}

	outcome, ok := s.Outcome()
	if !ok {
		return
	}
	switch e := outcome.(type) {
	case engine.LevelCompleteEvent:
		hint := "R replay  |  ESC menu"
		if g.canAdvance() {
			hint = "SPACE next level  |  R replay  |  ESC menu"
		}
		g.drawPanel(dst, core.ColorBrightGreen,
			fmt.Sprintf("LEVEL %d COMPLETE", e.Level),
			StarString(e.Stars)+"  Score "+humanize.Comma(int64(e.Score)),
			fmt.Sprintf("%d shots  |  %d popped", e.ShotsUsed, e.Popped),
			hint)
	case engine.GameOverEvent:
		g.drawPanel(dst, core.ColorBrightRed,
			"GAME OVER",
			fmt.Sprintf("Level %d  |  Score %s", e.Level, humanize.Comma(int64(e.Score))),
			"R retry  |  ESC menu")
	case engine.InfiniteGameOverEvent:
		lines := []string{
			"GAME OVER",
			fmt.Sprintf("Wave %d  |  Score %s", e.Wave, humanize.Comma(int64(e.Score))),
		}
		switch {
		case e.IsNewHighScore && e.IsNewHighWave:
			lines = append(lines, "NEW HIGH SCORE AND WAVE!")
		case e.IsNewHighScore:
			lines = append(lines, "NEW HIGH SCORE!")
		case e.IsNewHighWave:
			lines = append(lines, "NEW HIGH WAVE!")
		}
		lines = append(lines, "R retry  |  ESC menu")
		g.drawPanel(dst, core.ColorBrightRed, lines...)
	}
}

// drawPanel draws a centered box with a coloured title and plain lines.
func (g *Game) drawPanel(dst *core.Screen, titleColor core.Color, lines ...string) {
	if len(lines) == 0 {
		return
	}
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}
	boxW := width + 4
	boxH := len(lines) + 4
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	for y := box.Y; y < box.Bottom(); y++ {
		dst.DrawHLine(box.X, y, box.W, ' ', core.ColorDefault)
	}
	dst.DrawBox(box, core.ColorBrightWhite)

	for i, l := range lines {
		y := box.Y + 1 + i
		if i > 0 {
			y++
		}
		c := core.ColorDefault
		if i == 0 {
			c = titleColor
		}
		x := box.X + (box.W-utf8.RuneCountInString(l))/2
		dst.DrawTextWithColor(x, y, l, c)
	}
}

// StarString renders a 0-3 star rating.
func StarString(stars int) string {
	stars = core.Clamp(stars, 0, 3)
	return strings.Repeat("★", stars) + strings.Repeat("☆", 3-stars)
}
