// Package registry keeps the set of playable Nebula modes.
// Each mode registers a factory from an init() function so the front end
// can list and start modes without importing them directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/nebula-arcade/internal/core"
)

// Game is a fixed-tick simulation driven by the terminal front end.
// Implementations hold pure game logic; the platform owns timing, input
// decoding and drawing to the terminal.
type Game interface {
	// ID is the stable identifier used by the CLI and the runs table
	// (e.g. "nebula", "nebula_infinite").
	ID() string

	// Title is the name shown in menus.
	Title() string

	// Reset starts a fresh session. It is called on start and on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one tick of 1/TickRate seconds.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a cleared screen buffer.
	Render(dst *core.Screen)

	// State reports score and lifecycle flags.
	State() core.GameState
}

// Info describes a registered game.
type Info struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a factory. It panics on a duplicate id.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns every registered game sorted by id.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Info, 0, len(factories))
	for id := range factories {
		out = append(out, Info{ID: id, Title: titles[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create instantiates the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[id]
	return ok
}

// Title returns the display title for id, or id itself when unknown.
func Title(id string) string {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := titles[id]; ok {
		return t
	}
	return id
}
