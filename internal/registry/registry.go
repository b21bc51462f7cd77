// Package registry provides a global registry for synthetic source images.
// Patterns register themselves in init() functions, allowing the CLI and the
// SSH server to offer an image to crop without a file on disk.
package registry

import (
	"fmt"
	"image"
	"sort"
	"sync"
)

// Pattern generates a source image procedurally.
type Pattern interface {
	// ID returns a unique identifier for this pattern (e.g., "checker").
	// Used for CLI flags and crop history.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Image renders the pattern at w x h pixels.
	Image(w, h int) image.Image
}

// PatternInfo contains metadata about a registered pattern.
type PatternInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a pattern.
type Factory func() Pattern

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a pattern factory to the registry.
// Typically called from an init() function.
// Panics if a pattern with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: pattern %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered patterns, sorted by ID.
func List() []PatternInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PatternInfo, 0, len(factories))
	for id := range factories {
		result = append(result, PatternInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a pattern by its ID.
// Returns an error if the pattern ID is not registered.
func Create(id string) (Pattern, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown pattern %q", id)
	}

	return f(), nil
}

// Exists checks if a pattern with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
