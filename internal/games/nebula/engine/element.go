// Package engine provides the core game logic for Nebula bubble shooting.
// This package is UI-agnostic and deterministic: all randomness comes from
// an injected RNG and all timing from caller-supplied tick deltas.
package engine

import (
	"fmt"
	"strings"
)

// Element identifies a bubble type. Equality defines match compatibility.
// The zero value means "no bubble".
type Element uint8

const (
	ElementNone Element = iota
	ElementFire
	ElementWater
	ElementEarth
	ElementAir
	ElementLight
	ElementDark
)

// AllElements lists every playable element in canonical order.
var AllElements = []Element{
	ElementFire,
	ElementWater,
	ElementEarth,
	ElementAir,
	ElementLight,
	ElementDark,
}

// String returns the lowercase name used in level files and events.
func (e Element) String() string {
	switch e {
	case ElementNone:
		return "none"
	case ElementFire:
		return "fire"
	case ElementWater:
		return "water"
	case ElementEarth:
		return "earth"
	case ElementAir:
		return "air"
	case ElementLight:
		return "light"
	case ElementDark:
		return "dark"
	default:
		return "unknown"
	}
}

// Symbol returns a single-character code for compact pattern notation.
func (e Element) Symbol() rune {
	switch e {
	case ElementFire:
		return 'F'
	case ElementWater:
		return 'W'
	case ElementEarth:
		return 'E'
	case ElementAir:
		return 'A'
	case ElementLight:
		return 'L'
	case ElementDark:
		return 'D'
	default:
		return '.'
	}
}

// Valid reports whether e is one of the six playable elements.
func (e Element) Valid() bool {
	return e >= ElementFire && e <= ElementDark
}

// ParseElement converts a name ("fire") or symbol ("F") to an Element.
// Empty strings, "." and "-" decode to ElementNone.
func ParseElement(s string) (Element, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ".", "-", "none":
		return ElementNone, nil
	case "fire", "f":
		return ElementFire, nil
	case "water", "w":
		return ElementWater, nil
	case "earth", "e":
		return ElementEarth, nil
	case "air", "a":
		return ElementAir, nil
	case "light", "l":
		return ElementLight, nil
	case "dark", "d":
		return ElementDark, nil
	}
	return ElementNone, fmt.Errorf("engine: unknown element %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Element) UnmarshalText(text []byte) error {
	parsed, err := ParseElement(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
