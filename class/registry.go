package class

import (
	"sort"
	"sync"
)

// Registry maps class names to declared classes.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// DefaultRegistry is the process-wide registry used by Define, Lookup and
// Names.
var DefaultRegistry = NewRegistry()

// Define declares a class under name. The first definition wins: later
// calls with the same name return the existing class and ignore members.
func (r *Registry) Define(name string, members ...Member) *Class {
	r.mu.RLock()
	c, ok := r.classes[name]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.classes[name]; ok {
		return c
	}
	c = New(name, members...)
	r.classes[name] = c
	return c
}

// Lookup returns the class declared under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Names returns the declared class names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Define declares a class in DefaultRegistry.
func Define(name string, members ...Member) *Class {
	return DefaultRegistry.Define(name, members...)
}

// Lookup finds a class in DefaultRegistry.
func Lookup(name string) (*Class, bool) {
	return DefaultRegistry.Lookup(name)
}

// Names lists the classes in DefaultRegistry.
func Names() []string {
	return DefaultRegistry.Names()
}
