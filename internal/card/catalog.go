package card

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog resolves card names to definitions. The game core reads
// definitions through this interface only; it is populated before a game
// starts and never written to at resolution time.
type Catalog interface {
	// Get returns the definition for an exact card name.
	Get(name string) (*Definition, bool)
}

// Memory is an in-memory catalog keyed by card name. Safe for concurrent
// readers once populated.
type Memory struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{defs: make(map[string]*Definition)}
}

// NewBuiltin creates a memory catalog preloaded with the built-in card
// pool (every card the template tier knows about).
func NewBuiltin() *Memory {
	m := NewMemory()
	for _, def := range builtinDefinitions() {
		m.Put(def)
	}
	return m
}

// Get returns the definition for an exact name.
func (m *Memory) Get(name string) (*Definition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	def, ok := m.defs[name]
	return def, ok
}

// Put stores a definition, replacing any previous entry for the name.
func (m *Memory) Put(def *Definition) {
	if def == nil || def.Name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defs[def.Name] = def
}

// Names returns all stored card names in sorted order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.defs))
	for name := range m.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored definitions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.defs)
}

// Resolve looks up every name in the list and reports the ones that are
// missing. Used to validate decklists before a match starts.
func Resolve(catalog Catalog, names []string) (map[string]*Definition, []string) {
	found := make(map[string]*Definition, len(names))
	var missing []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if def, ok := catalog.Get(name); ok {
			found[name] = def
		} else {
			missing = append(missing, name)
		}
	}
	return found, missing
}

// MustResolve is Resolve that fails on any missing name.
func MustResolve(catalog Catalog, names []string) (map[string]*Definition, error) {
	found, missing := Resolve(catalog, names)
	if len(missing) > 0 {
		return nil, fmt.Errorf("catalog missing %d card(s): %s", len(missing), strings.Join(missing, ", "))
	}
	return found, nil
}
