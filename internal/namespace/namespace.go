// Package namespace holds the name-to-value bindings produced by loading a
// module. Exactly one Namespace exists per registered module; importers all
// hold a reference to the same instance, so a reload is observed everywhere
// without re-resolving.
package namespace

import (
	"sort"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Namespace is the mutable set of bindings for one module. Plain values and
// imported-module references are tracked separately: an import must stay a
// live reference so that circular loads observe the partially populated
// namespace rather than a stale snapshot.
type Namespace struct {
	mu      sync.RWMutex
	values  map[string]cty.Value
	imports map[string]*Namespace
}

// New creates an empty Namespace.
func New() *Namespace {
	return &Namespace{
		values:  make(map[string]cty.Value),
		imports: make(map[string]*Namespace),
	}
}

// Bind sets a value binding, replacing any previous binding of the name.
func (n *Namespace) Bind(name string, val cty.Value) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.values[name] = val
	delete(n.imports, name)
}

// BindImport binds an imported module's namespace under name.
func (n *Namespace) BindImport(name string, imported *Namespace) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.imports[name] = imported
	delete(n.values, name)
}

// Value returns the value bound to name, if any.
func (n *Namespace) Value(name string) (cty.Value, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	val, ok := n.values[name]
	return val, ok
}

// Import returns the namespace imported under name, if any.
func (n *Namespace) Import(name string) (*Namespace, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	imp, ok := n.imports[name]
	return imp, ok
}

// Names returns every bound name, value and import bindings alike, sorted
// lexicographically and deduplicated.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	seen := make(map[string]struct{}, len(n.values)+len(n.imports))
	for name := range n.values {
		seen[name] = struct{}{}
	}
	for name := range n.imports {
		seen[name] = struct{}{}
	}
	n.mu.RUnlock()

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound names.
func (n *Namespace) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.values) + len(n.imports)
}

// Variables renders the namespace as an HCL evaluation variable table: every
// value binding as-is, and every imported namespace as an object built from
// its current bindings. The render is live, so an import that is still
// mid-load contributes only the names it has bound so far.
func (n *Namespace) Variables() map[string]cty.Value {
	return n.variables(map[*Namespace]struct{}{n: {}})
}

// Object renders the whole namespace as a single cty object value.
func (n *Namespace) Object() cty.Value {
	return n.object(make(map[*Namespace]struct{}))
}

func (n *Namespace) object(seen map[*Namespace]struct{}) cty.Value {
	if _, ok := seen[n]; ok {
		// Import cycle: render only the value bindings to terminate.
		n.mu.RLock()
		attrs := make(map[string]cty.Value, len(n.values))
		for name, val := range n.values {
			attrs[name] = val
		}
		n.mu.RUnlock()
		return cty.ObjectVal(attrs)
	}
	seen[n] = struct{}{}
	defer delete(seen, n)
	return cty.ObjectVal(n.variables(seen))
}

func (n *Namespace) variables(seen map[*Namespace]struct{}) map[string]cty.Value {
	n.mu.RLock()
	vars := make(map[string]cty.Value, len(n.values)+len(n.imports))
	imports := make(map[string]*Namespace, len(n.imports))
	for name, val := range n.values {
		vars[name] = val
	}
	for name, imp := range n.imports {
		imports[name] = imp
	}
	n.mu.RUnlock()

	// Render imports outside the lock; a circular import chain would
	// otherwise re-enter this namespace while it is held.
	for name, imp := range imports {
		vars[name] = imp.object(seen)
	}
	return vars
}
