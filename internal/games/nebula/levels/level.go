// Package levels provides the Nebula campaign catalog, level file loading
// and deterministic pattern generation.
// This package depends on engine but engine does not depend on levels.
package levels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

// ErrLevelNotFound is returned when a level id is unknown.
var ErrLevelNotFound = errors.New("level not found")

// Difficulty is the campaign tier of a level.
type Difficulty string

const (
	Easy      Difficulty = "Easy"
	Medium    Difficulty = "Medium"
	Hard      Difficulty = "Hard"
	Expert    Difficulty = "Expert"
	Legendary Difficulty = "Legendary"
)

// Rows returns how many rows a generated board has at this tier.
func (d Difficulty) Rows() int {
	switch d {
	case Easy:
		return 4
	case Medium:
		return 5
	case Hard:
		return 6
	case Expert, Legendary:
		return 7
	default:
		return 4
	}
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard, Expert, Legendary:
		return true
	}
	return false
}

// Pattern is a starting board, one slice per row from the top.
type Pattern [][]engine.Element

// ParsePattern decodes rows of element symbols such as "FW.E".
func ParsePattern(rows []string) (Pattern, error) {
	p := make(Pattern, 0, len(rows))
	for i, line := range rows {
		out := make([]engine.Element, 0, len(line))
		for _, r := range strings.TrimSpace(line) {
			if r == ' ' {
				continue
			}
			e, err := engine.ParseElement(string(r))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out = append(out, e)
		}
		p = append(p, out)
	}
	return p, nil
}

// Strings encodes the pattern back into symbol rows.
func (p Pattern) Strings() []string {
	rows := make([]string, len(p))
	for i, line := range p {
		var b strings.Builder
		for _, e := range line {
			b.WriteRune(e.Symbol())
		}
		rows[i] = b.String()
	}
	return rows
}

// Count returns the number of bubbles in the pattern.
func (p Pattern) Count() int {
	n := 0
	for _, line := range p {
		for _, e := range line {
			if e != engine.ElementNone {
				n++
			}
		}
	}
	return n
}

// Level is one campaign entry.
type Level struct {
	ID          int
	Theme       string
	Difficulty  Difficulty
	MaxShots    int
	TargetScore int
	Description string
	Elements    []engine.Element
	Authored    Pattern // Nil when the board is generated
	FilePath    string  // Source file for levels loaded from disk
}

// Pattern returns the starting board: the authored one when present,
// otherwise a board generated from the level id.
func (l Level) Pattern() Pattern {
	if len(l.Authored) > 0 {
		return l.Authored
	}
	return Generate(l.GenParams())
}

// GenParams returns the generator settings for this level.
func (l Level) GenParams() GenParams {
	params := DefaultGenParams()
	params.Seed = int64(l.ID)
	params.Rows = l.Difficulty.Rows()
	params.Palette = l.Elements
	return params
}

// Rules returns engine rules for the level.
func (l Level) Rules() engine.LevelRules {
	return engine.LevelRules{
		Level:    l.ID,
		MaxShots: l.MaxShots,
		Pattern:  l.Pattern(),
		Palette:  l.Elements,
	}
}

// Validate checks the level against a board layout. Patterns must stay
// clear of the bottom rows of the board.
func (l Level) Validate(layout engine.Layout, bottomRows int) error {
	if l.ID <= 0 {
		return fmt.Errorf("level id must be positive, got %d", l.ID)
	}
	if l.MaxShots <= 0 {
		return fmt.Errorf("level %d: max_shots must be positive", l.ID)
	}
	if !l.Difficulty.Valid() {
		return fmt.Errorf("level %d: unknown difficulty %q", l.ID, l.Difficulty)
	}
	if len(l.Elements) == 0 {
		return fmt.Errorf("level %d: no elements", l.ID)
	}
	for _, e := range l.Elements {
		if !e.Valid() {
			return fmt.Errorf("level %d: invalid element %v", l.ID, e)
		}
	}
	if limit := layout.Rows - bottomRows; len(l.Authored) > limit {
		return fmt.Errorf("level %d: pattern has %d rows, limit is %d", l.ID, len(l.Authored), limit)
	}
	for i, line := range l.Authored {
		if len(line) > layout.Cols {
			return fmt.Errorf("level %d: pattern row %d is %d wide, limit is %d", l.ID, i, len(line), layout.Cols)
		}
	}
	return nil
}
