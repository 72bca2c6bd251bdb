package engine

import "math"

// Cell addresses a grid slot in offset coordinates.
// Odd rows are shifted half a bubble to the right.
type Cell struct {
	Row int
	Col int
}

// At is a shorthand constructor for Cell.
func At(row, col int) Cell {
	return Cell{Row: row, Col: col}
}

// Vec2 is a point or direction in world units.
type Vec2 struct {
	X float64
	Y float64
}

// Layout maps between grid cells and world coordinates.
// It holds no grid state, so the same layout serves rendering hints
// and trajectory occupancy tests.
type Layout struct {
	Rows       int
	Cols       int
	BubbleSize float64 // Diameter of one bubble in world units
	OriginX    float64 // Horizontal inset of column 0
	OriginY    float64 // Vertical inset of row 0 (the HUD band)
}

// rowPitch is the vertical distance between row centers.
func (l Layout) rowPitch() float64 {
	return l.BubbleSize * 0.866
}

// rowOffset is the horizontal shift applied to odd rows.
func (l Layout) rowOffset(row int) float64 {
	if row%2 != 0 {
		return l.BubbleSize / 2
	}
	return 0
}

// CellToWorld returns the world-space center of a cell.
func (l Layout) CellToWorld(c Cell) Vec2 {
	half := l.BubbleSize / 2
	return Vec2{
		X: float64(c.Col)*l.BubbleSize + half + l.rowOffset(c.Row) + l.OriginX,
		Y: float64(c.Row)*l.rowPitch() + half + l.OriginY,
	}
}

// WorldToCell returns the cell nearest to a world point, clamped into bounds.
// The row is resolved first; its parity then decides the column offset.
func (l Layout) WorldToCell(p Vec2) Cell {
	half := l.BubbleSize / 2
	row := int(math.Round((p.Y - l.OriginY - half) / l.rowPitch()))
	col := int(math.Round((p.X - l.OriginX - half - l.rowOffset(row)) / l.BubbleSize))
	return Cell{
		Row: clampInt(row, 0, l.Rows-1),
		Col: clampInt(col, 0, l.Cols-1),
	}
}

// Neighbor offsets as (dRow, dCol) for even and odd rows.
var (
	evenRowOffsets = [6][2]int{{-1, -1}, {-1, 0}, {0, -1}, {0, 1}, {1, -1}, {1, 0}}
	oddRowOffsets  = [6][2]int{{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, 0}, {1, 1}}
)

// Grid is the hex lattice of bubbles.
// Cells are stored in row-major order: index = row*Cols + col.
type Grid struct {
	Rows  int
	Cols  int
	Cells []Element
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Element, rows*cols),
	}
}

// NewGridFromPattern creates a grid and fills it row by row from a pattern.
// Pattern rows or columns beyond the grid are ignored.
func NewGridFromPattern(rows, cols int, pattern [][]Element) *Grid {
	g := NewGrid(rows, cols)
	for r, line := range pattern {
		for c, e := range line {
			g.Set(At(r, c), e)
		}
	}
	return g
}

func (g *Grid) index(c Cell) int {
	return c.Row*g.Cols + c.Col
}

// InBounds returns true if the cell lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// Get returns the element at c, or ElementNone when out of bounds.
func (g *Grid) Get(c Cell) Element {
	if !g.InBounds(c) {
		return ElementNone
	}
	return g.Cells[g.index(c)]
}

// Occupied returns true if c holds a bubble.
func (g *Grid) Occupied(c Cell) bool {
	return g.Get(c) != ElementNone
}

// Set stores e at c. Out-of-bounds writes are dropped.
func (g *Grid) Set(c Cell, e Element) {
	if g.InBounds(c) {
		g.Cells[g.index(c)] = e
	}
}

// Remove clears every listed cell.
func (g *Grid) Remove(cells []Cell) {
	for _, c := range cells {
		g.Set(c, ElementNone)
	}
}

// Clear empties the whole grid.
func (g *Grid) Clear() {
	for i := range g.Cells {
		g.Cells[i] = ElementNone
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Element, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Rows: g.Rows, Cols: g.Cols, Cells: cells}
}

// Neighbors returns the in-bounds hex neighbors of c.
func (g *Grid) Neighbors(c Cell) []Cell {
	offsets := evenRowOffsets
	if c.Row%2 != 0 {
		offsets = oddRowOffsets
	}

	result := make([]Cell, 0, 6)
	for _, d := range offsets {
		n := Cell{Row: c.Row + d[0], Col: c.Col + d[1]}
		if g.InBounds(n) {
			result = append(result, n)
		}
	}
	return result
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, e := range g.Cells {
		if e != ElementNone {
			n++
		}
	}
	return n
}

// IsEmpty returns true when no bubble remains.
func (g *Grid) IsEmpty() bool {
	for _, e := range g.Cells {
		if e != ElementNone {
			return false
		}
	}
	return true
}

// ReachedBottom reports whether any bubble sits in the last depth rows.
func (g *Grid) ReachedBottom(depth int) bool {
	start := g.Rows - depth
	if start < 0 {
		start = 0
	}
	for r := start; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.Occupied(At(r, c)) {
				return true
			}
		}
	}
	return false
}

// Present returns the distinct elements on the grid in canonical order.
func (g *Grid) Present() []Element {
	var seen [ElementDark + 1]bool
	for _, e := range g.Cells {
		if e.Valid() {
			seen[e] = true
		}
	}

	result := make([]Element, 0, len(AllElements))
	for _, e := range AllElements {
		if seen[e] {
			result = append(result, e)
		}
	}
	return result
}

// Contains reports whether at least one bubble of type e is on the grid.
func (g *Grid) Contains(e Element) bool {
	for _, v := range g.Cells {
		if v == e {
			return true
		}
	}
	return false
}

// ShiftDown moves every row down by one. The last row is discarded and
// row 0 is left empty for the caller to fill.
func (g *Grid) ShiftDown() {
	if g.Rows == 0 {
		return
	}
	copy(g.Cells[g.Cols:], g.Cells[:len(g.Cells)-g.Cols])
	for c := 0; c < g.Cols; c++ {
		g.Cells[c] = ElementNone
	}
}

// String renders the grid using element symbols, odd rows indented.
func (g *Grid) String() string {
	buf := make([]rune, 0, g.Rows*(g.Cols*2+2))
	for r := 0; r < g.Rows; r++ {
		if r > 0 {
			buf = append(buf, '\n')
		}
		if r%2 != 0 {
			buf = append(buf, ' ')
		}
		for c := 0; c < g.Cols; c++ {
			if c > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, g.Get(At(r, c)).Symbol())
		}
	}
	return string(buf)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
