package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

// LoadDir recursively scans root for level files.
// Files that fail to parse or validate against the default board are
// skipped. Returns levels sorted by id; a later file wins on duplicate ids.
func LoadDir(root string) ([]Level, error) {
	settings := engine.DefaultSettings()
	byID := make(map[int]Level)

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(FormatExtensions(), strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		loaded, err := LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}
		for _, lvl := range loaded {
			if lvl.Validate(settings.Layout, settings.BottomRows) != nil {
				continue
			}
			byID[lvl.ID] = lvl
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking directory %s: %w", root, err)
	}

	out := make([]Level, 0, len(byID))
	for _, lvl := range byID {
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// LoadFile loads every level in a single file.
func LoadFile(path string) ([]Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: reading file %s: %w", path, err)
	}

	parsed, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("levels: parsing file %s: %w", path, err)
	}
	for i := range parsed {
		parsed[i].FilePath = path
	}
	return parsed, nil
}
