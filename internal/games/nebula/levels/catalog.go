package levels

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed catalog.yaml
var catalogYAML []byte

var (
	catalogOnce sync.Once
	catalog     []Level
)

func loadCatalog() []Level {
	catalogOnce.Do(func() {
		parsed, err := ParseYAML(catalogYAML)
		if err != nil {
			panic(fmt.Sprintf("levels: embedded catalog: %v", err))
		}
		catalog = parsed
	})
	return catalog
}

// Catalog returns the built-in campaign in id order.
func Catalog() []Level {
	src := loadCatalog()
	out := make([]Level, len(src))
	copy(out, src)
	return out
}

// Count returns the number of campaign levels.
func Count() int {
	return len(loadCatalog())
}

// Get returns the campaign level with the given id.
func Get(id int) (Level, error) {
	for _, lvl := range loadCatalog() {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("levels: %d: %w", id, ErrLevelNotFound)
}

// Find looks id up in a custom set first, then in the campaign.
func Find(custom []Level, id int) (Level, error) {
	for _, lvl := range custom {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Get(id)
}
