package levels

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
	"gopkg.in/yaml.v3"
)

// YAMLLevel is the on-disk representation of a level.
type YAMLLevel struct {
	ID          int              `yaml:"id"`
	Theme       string           `yaml:"theme"`
	Difficulty  string           `yaml:"difficulty"`
	MaxShots    int              `yaml:"max_shots"`
	TargetScore int              `yaml:"target_score,omitempty"`
	Description string           `yaml:"description,omitempty"`
	Elements    []engine.Element `yaml:"elements,flow"`
	Pattern     []string         `yaml:"pattern,omitempty"`
}

// YAMLFile holds either a list of levels or a single inline level.
type YAMLFile struct {
	Levels    []YAMLLevel `yaml:"levels,omitempty"`
	YAMLLevel `yaml:",inline"`
}

// ParseYAML parses a level file and returns its levels sorted by id.
func ParseYAML(data []byte) ([]Level, error) {
	var file YAMLFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	docs := file.Levels
	if len(docs) == 0 && file.ID != 0 {
		docs = []YAMLLevel{file.YAMLLevel}
	}

	out := make([]Level, 0, len(docs))
	for _, doc := range docs {
		lvl, err := doc.toLevel()
		if err != nil {
			return nil, err
		}
		out = append(out, lvl)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (y YAMLLevel) toLevel() (Level, error) {
	lvl := Level{
		ID:          y.ID,
		Theme:       y.Theme,
		Difficulty:  Difficulty(y.Difficulty),
		MaxShots:    y.MaxShots,
		TargetScore: y.TargetScore,
		Description: y.Description,
		Elements:    y.Elements,
	}
	if lvl.Difficulty == "" {
		lvl.Difficulty = Easy
	}
	if len(y.Pattern) > 0 {
		p, err := ParsePattern(y.Pattern)
		if err != nil {
			return Level{}, fmt.Errorf("level %d: %w", y.ID, err)
		}
		lvl.Authored = p
	}
	return lvl, nil
}

// EncodeYAML writes a single level document with its pattern spelled out.
func EncodeYAML(l Level, p Pattern) ([]byte, error) {
	doc := YAMLLevel{
		ID:          l.ID,
		Theme:       l.Theme,
		Difficulty:  string(l.Difficulty),
		MaxShots:    l.MaxShots,
		TargetScore: l.TargetScore,
		Description: l.Description,
		Elements:    l.Elements,
		Pattern:     p.Strings(),
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
