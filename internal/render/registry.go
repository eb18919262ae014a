package render

import (
	"fmt"
	"slices"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]Backend)
)

// Register adds a back-end to the registry.
func Register(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	meta := b.Metadata()
	if _, exists := registry[meta.Name]; exists {
		panic(fmt.Sprintf("backend %q already registered", meta.Name))
	}
	registry[meta.Name] = b
}

// Get returns a back-end by name.
func Get(name string) (Backend, bool) {
	mu.RLock()
	defer mu.RUnlock()
	b, ok := registry[name]
	return b, ok
}

// List returns all registered back-end names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Reset clears the registry (for testing).
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Backend)
}
