package engine_test

import (
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

// scriptedRNG replays fixed sequences. Once a queue runs dry Intn returns 0
// and Float64 returns 0.99, which leaves procedural cells empty.
type scriptedRNG struct {
	ints   []int
	floats []float64
}

func (r *scriptedRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// firstEvent returns the first event of type T.
func firstEvent[T engine.Event](events []engine.Event) (T, bool) {
	for _, ev := range events {
		if typed, ok := ev.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// row builds a pattern row from element symbols, e.g. "FFW.".
func row(symbols string) []engine.Element {
	out := make([]engine.Element, 0, len(symbols))
	for _, r := range symbols {
		e, err := engine.ParseElement(string(r))
		if err != nil {
			panic(err)
		}
		out = append(out, e)
	}
	return out
}

// sameCells compares two cell lists as sets.
func sameCells(a, b []engine.Cell) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[engine.Cell]int, len(a))
	for _, c := range a {
		seen[c]++
	}
	for _, c := range b {
		if seen[c] == 0 {
			return false
		}
		seen[c]--
	}
	return true
}
