package engine

// DefaultPlacementRadius bounds the nearest-empty search (exclusive).
const DefaultPlacementRadius = 5

// ResolvePlacement finds where an incoming bubble aimed at target settles.
// The target itself wins when empty. Otherwise boxes of growing radius
// around the target, clamped to the grid, are scanned in row-major order
// and the first empty cell is returned. ok is false when no empty cell
// lies within maxRadius; the shot is then discarded.
func ResolvePlacement(g *Grid, target Cell, maxRadius int) (cell Cell, ok bool) {
	for radius := 0; radius < maxRadius; radius++ {
		rowLo := max(0, target.Row-radius)
		rowHi := min(g.Rows-1, target.Row+radius)
		colLo := max(0, target.Col-radius)
		colHi := min(g.Cols-1, target.Col+radius)

		for r := rowLo; r <= rowHi; r++ {
			for c := colLo; c <= colHi; c++ {
				if !g.Occupied(At(r, c)) {
					return At(r, c), true
				}
			}
		}
	}
	return Cell{}, false
}
