package engine

import "math/rand"

// RNG is the random source used for procedural rows and element picks.
// *rand.Rand satisfies it; tests supply scripted sequences.
type RNG interface {
	Intn(n int) int
	Float64() float64
}

// NewRNG returns a seeded math/rand source.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// pick returns a uniformly chosen element from choices.
// Callers guarantee choices is non-empty.
func pick(rng RNG, choices []Element) Element {
	return choices[rng.Intn(len(choices))]
}
