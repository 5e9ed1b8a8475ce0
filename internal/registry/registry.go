// Package registry is the explicit module registry: the mapping from module
// identifiers to their loaded namespaces, plus the pending-set of loads that
// are currently in flight. A Registry is constructor-injected into a loader
// rather than living in package-level state, so independent loaders (one per
// test, for instance) never share entries.
package registry

import (
	"sort"
	"sync"

	"github.com/vk/hclmod/internal/modid"
	"github.com/vk/hclmod/internal/namespace"
)

// Registry holds the loaded modules of a single loader instance. At most one
// namespace exists per identifier; entries are created on first successful
// load and never evicted, and a reload replaces an entry's bindings in place
// rather than the entry itself.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*namespace.Namespace
	pending map[string]struct{}
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		modules: make(map[string]*namespace.Namespace),
		pending: make(map[string]struct{}),
	}
}

// Lookup returns the namespace registered for id, if any. A namespace whose
// load is still in flight is returned as-is; Pending distinguishes it.
func (r *Registry) Lookup(id modid.ID) (*namespace.Namespace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.modules[id.String()]
	return ns, ok
}

// Bind registers ns under id, replacing any previous entry.
func (r *Registry) Bind(id modid.ID, ns *namespace.Namespace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[id.String()] = ns
}

// Forget removes id's entry and pending mark. Used to roll back a failed load.
func (r *Registry) Forget(id modid.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modules, id.String())
	delete(r.pending, id.String())
}

// Pending reports whether id's load is currently in flight.
func (r *Registry) Pending(id modid.ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pending[id.String()]
	return ok
}

// MarkPending records that id's load has started.
func (r *Registry) MarkPending(id modid.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[id.String()] = struct{}{}
}

// ClearPending records that id's load has finished.
func (r *Registry) ClearPending(id modid.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id.String())
}

// Names returns the identifiers of all registered modules, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}
