package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNoGenerators is returned when resolving against an empty registry.
	ErrNoGenerators = errors.New("render: no generators registered")
	// ErrUnknownGenerator is returned for an explicit name nobody registered.
	ErrUnknownGenerator = errors.New("render: unknown generator")
)

// Registry maps target languages to their generators. Explicit lookups are
// strict; an empty name falls back to a preferred generator and then to the
// first one by name, so a single registered backend always resolves.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Generator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Generator)}
}

// Register adds generator under its Name. A name can only be taken once.
func (r *Registry) Register(generator Generator) error {
	if generator == nil {
		return errors.New("render: register nil generator")
	}
	name := generator.Name()
	if name == "" {
		return errors.New("render: generator has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("render: generator %q registered twice", name)
	}
	r.byName[name] = generator
	return nil
}

// MustRegister is Register for wiring code that cannot recover.
func (r *Registry) MustRegister(generator Generator) {
	if err := r.Register(generator); err != nil {
		panic(err)
	}
}

// Resolve picks the generator for a request. A non-empty name must be
// registered. An empty name selects preferred when registered, otherwise the
// alphabetically first generator.
func (r *Registry) Resolve(name, preferred string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name != "" {
		if generator, ok := r.byName[name]; ok {
			return generator, nil
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownGenerator, name)
	}
	if generator, ok := r.byName[preferred]; ok {
		return generator, nil
	}
	names := r.sortedNames()
	if len(names) == 0 {
		return nil, ErrNoGenerators
	}
	return r.byName[names[0]], nil
}

// Names lists the registered generators in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
