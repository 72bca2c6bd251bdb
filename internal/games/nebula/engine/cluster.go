package engine

// MinMatchSize is the smallest same-element component that pops.
const MinMatchSize = 3

// FindMatches returns the same-element component containing start when it
// has at least minSize cells, or nil otherwise. The result is a set; its
// order is breadth-first from start.
func FindMatches(g *Grid, start Cell, minSize int) []Cell {
	target := g.Get(start)
	if target == ElementNone {
		return nil
	}

	component := flood(g, []Cell{start}, func(e Element) bool { return e == target })
	if len(component) < minSize {
		return nil
	}
	return component
}

// FindFloating returns every occupied cell with no path through occupied
// cells to an occupied cell in row 0. Results are in row-major order.
func FindFloating(g *Grid) []Cell {
	var anchors []Cell
	for c := 0; c < g.Cols; c++ {
		if g.Occupied(At(0, c)) {
			anchors = append(anchors, At(0, c))
		}
	}

	supported := make([]bool, len(g.Cells))
	for _, c := range flood(g, anchors, func(e Element) bool { return e != ElementNone }) {
		supported[g.index(c)] = true
	}

	var floating []Cell
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := At(r, c)
			if g.Occupied(cell) && !supported[g.index(cell)] {
				floating = append(floating, cell)
			}
		}
	}
	return floating
}

// flood performs a breadth-first search from seeds over cells accepted by
// match. Visited tracking bounds the search to the grid size.
func flood(g *Grid, seeds []Cell, match func(Element) bool) []Cell {
	visited := make([]bool, len(g.Cells))
	queue := make([]Cell, 0, len(seeds))

	for _, s := range seeds {
		if !g.InBounds(s) || visited[g.index(s)] || !match(g.Get(s)) {
			continue
		}
		visited[g.index(s)] = true
		queue = append(queue, s)
	}

	for i := 0; i < len(queue); i++ {
		for _, n := range g.Neighbors(queue[i]) {
			idx := g.index(n)
			if visited[idx] || !match(g.Cells[idx]) {
				continue
			}
			visited[idx] = true
			queue = append(queue, n)
		}
	}
	return queue
}
