// Package target implements a small registry of named build targets. Targets
// marked optional exist in the build graph but are excluded from the default
// "build all" set and run only when explicitly requested.
package target

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// RunFunc executes a target's work.
type RunFunc func(ctx context.Context) error

// Target is a named build action.
type Target struct {
	Name        string
	Description string
	Optional    bool     // excluded from the default set; explicit invocation only
	Requires    []string // prerequisite target names, run first
	Run         RunFunc
}

// Registry holds registered targets in registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	targets map[string]*Target
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]*Target)}
}

// Register adds a target. Duplicate names are an error so wiring mistakes
// surface at startup rather than at run time.
func (r *Registry) Register(t *Target) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("target must have a name")
	}
	if t.Run == nil {
		return fmt.Errorf("target %s has no run function", t.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.targets[t.Name]; exists {
		return fmt.Errorf("target %s already registered", t.Name)
	}
	r.targets[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Get retrieves a target by name.
func (r *Registry) Get(name string) (*Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targets[name]
	return t, ok
}

// All returns every target in registration order.
func (r *Registry) All() []*Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Target, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.targets[n])
	}
	return out
}

// DefaultSet returns the non-optional targets in registration order.
func (r *Registry) DefaultSet() []*Target {
	var out []*Target
	for _, t := range r.All() {
		if !t.Optional {
			out = append(out, t)
		}
	}
	return out
}

// Names returns all target names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}
