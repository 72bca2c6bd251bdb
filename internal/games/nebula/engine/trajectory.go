package engine

import "math"

// TrajectoryConfig holds the discretized ballistic parameters.
type TrajectoryConfig struct {
	Speed      float64 // World units per second while tracing
	Step       float64 // Simulated seconds per trace step
	MaxSteps   int     // Hard cap on traced steps
	MaxBounces int     // Wall reflections allowed before the path aborts
	WallMargin float64 // Distance from each side wall that triggers a bounce
	TopY       float64 // Path exits once y reaches this line
	Width      float64 // Playfield width in world units
	MinAngle   float64 // Clamp bounds in radians (screen space, -pi/2 is up)
	MaxAngle   float64
}

// PathEnd describes why a traced path stopped.
type PathEnd uint8

const (
	EndHitBubble   PathEnd = iota // Next step overlapped an occupied cell
	EndReachedTop                 // Crossed the top boundary
	EndBounceLimit                // Exceeded the bounce budget
	EndExhausted                  // Ran out of steps
)

// String returns a human-readable name for the path end.
func (e PathEnd) String() string {
	switch e {
	case EndHitBubble:
		return "HitBubble"
	case EndReachedTop:
		return "ReachedTop"
	case EndBounceLimit:
		return "BounceLimit"
	case EndExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// Path is the result of tracing a shot.
type Path struct {
	Origin  Vec2
	Angle   float64 // Clamped firing angle
	Points  []Vec2  // Every free position visited, in order
	Stop    Vec2    // Position of the step that ended the trace
	Bounces int
	End     PathEnd

	states []tracer // Stepping state after each point, for Retrace
}

// tracer is the moving state of a trace between steps.
type tracer struct {
	pos     Vec2
	vx, vy  float64
	bounces int
}

// Landable reports whether the path ends somewhere a bubble can settle.
func (p Path) Landable() bool {
	return p.End == EndHitBubble || p.End == EndReachedTop
}

// Target returns the cell the projectile aims to occupy: the cell of the
// last free point, or the stopping point when the first step collided.
func (p Path) Target(l Layout) Cell {
	if len(p.Points) > 0 {
		return l.WorldToCell(p.Points[len(p.Points)-1])
	}
	return l.WorldToCell(p.Stop)
}

// Sample returns every n-th point, starting at the first, for aim guides.
func (p Path) Sample(every int) []Vec2 {
	if every <= 1 {
		out := make([]Vec2, len(p.Points))
		copy(out, p.Points)
		return out
	}
	out := make([]Vec2, 0, len(p.Points)/every+1)
	for i := 0; i < len(p.Points); i += every {
		out = append(out, p.Points[i])
	}
	return out
}

// ClampAngle restricts an angle to the forward-facing cone. Angles that
// point below the horizon snap to the cone edge on their own side.
func (cfg TrajectoryConfig) ClampAngle(angle float64) float64 {
	if angle > 0 {
		if angle > math.Pi/2 {
			return cfg.MinAngle
		}
		return cfg.MaxAngle
	}
	if angle < cfg.MinAngle {
		return cfg.MinAngle
	}
	if angle > cfg.MaxAngle {
		return cfg.MaxAngle
	}
	return angle
}

// AngleTo returns the clamped angle from origin toward a pointer position.
func (cfg TrajectoryConfig) AngleTo(origin, target Vec2) float64 {
	return cfg.ClampAngle(math.Atan2(target.Y-origin.Y, target.X-origin.X))
}

// Trace steps a shot from origin at angle through the grid without
// mutating it. The same function backs the aim guide and real shots, so
// the preview always matches the outcome.
func Trace(g *Grid, l Layout, cfg TrajectoryConfig, origin Vec2, angle float64) Path {
	angle = cfg.ClampAngle(angle)
	path := Path{
		Origin: origin,
		Angle:  angle,
		Stop:   origin,
		End:    EndExhausted,
	}
	t := tracer{
		pos: origin,
		vx:  math.Cos(angle) * cfg.Speed,
		vy:  math.Sin(angle) * cfg.Speed,
	}
	return cfg.run(g, l, path, t)
}

// Retrace keeps the first from+1 points of p and traces the rest again
// against g, continuing with the position, velocity and bounces the path
// had at that point. It is used when the board changes under a shot.
func (p Path) Retrace(g *Grid, l Layout, cfg TrajectoryConfig, from int) Path {
	if from < 0 || from >= len(p.states) {
		return p
	}
	t := p.states[from]
	out := Path{
		Origin:  p.Origin,
		Angle:   p.Angle,
		Points:  append([]Vec2(nil), p.Points[:from]...),
		states:  append([]tracer(nil), p.states[:from]...),
		Stop:    t.pos,
		Bounces: t.bounces,
		End:     EndExhausted,
	}
	if g.Occupied(l.WorldToCell(t.pos)) {
		out.End = EndHitBubble
		return out
	}
	out.Points = append(out.Points, t.pos)
	out.states = append(out.states, t)
	return cfg.run(g, l, out, t)
}

// run steps t until the path stops or the step budget is spent.
func (cfg TrajectoryConfig) run(g *Grid, l Layout, path Path, t tracer) Path {
	for step := len(path.Points); step < cfg.MaxSteps; step++ {
		t.pos.X += t.vx * cfg.Step
		t.pos.Y += t.vy * cfg.Step
		path.Stop = t.pos

		if t.pos.X <= cfg.WallMargin || t.pos.X >= cfg.Width-cfg.WallMargin {
			t.vx = -t.vx
			t.bounces++
			path.Bounces = t.bounces
			if t.bounces > cfg.MaxBounces {
				path.Bounces = cfg.MaxBounces
				path.End = EndBounceLimit
				return path
			}
		}

		if g.Occupied(l.WorldToCell(t.pos)) {
			path.End = EndHitBubble
			return path
		}

		if t.pos.Y <= cfg.TopY {
			path.End = EndReachedTop
			return path
		}

		path.Points = append(path.Points, t.pos)
		path.states = append(path.states, t)
	}
	return path
}
