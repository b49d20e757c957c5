package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps command names and aliases to commands.
// Lookups are case-insensitive.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	primary []Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Command),
	}
}

// Register adds c under its name and aliases. Nothing is added if any of
// them is taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for i, key := range keys {
		key = strings.ToLower(key)
		if _, exists := r.byName[key]; exists {
			if i == 0 {
				return fmt.Errorf("command already registered: %s", key)
			}
			return fmt.Errorf("command alias already registered: %s", key)
		}
		keys[i] = key
	}

	for _, key := range keys {
		r.byName[key] = c
	}
	r.primary = append(r.primary, c)
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[strings.ToLower(name)]
	return cmd, ok
}

// All returns every registered command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, len(r.primary))
	copy(result, r.primary)
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// DefaultRegistry holds the commands registered by this package's init functions.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry and panics on a clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
