package resource

import (
	"sort"
	"sync"
)

// Registry maps resource names to declarations. Registration happens at
// startup; lookups are concurrent afterwards.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]*Resource
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{resources: make(map[string]*Resource)}
}

// Register adds a resource declaration, replacing any previous one with
// the same name.
func (r *Registry) Register(res *Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[res.Name] = res
}

// Get returns the resource by name.
func (r *Registry) Get(name string) (*Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resources[name]
	return res, ok
}

// Names lists registered resource names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.resources))
	for name := range r.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
