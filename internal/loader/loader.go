// Package loader implements module resolution: mapping a dotted identifier
// to a source artifact on the search path, executing the artifact's
// top-level operations exactly once into a namespace, and registering that
// namespace so every importer shares the same instance. A compiled program
// cache keyed by identifier leaf and runtime version skips re-parsing on
// subsequent runs; the cache is an accelerator only and never a source of
// truth.
package loader

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/vk/hclmod/internal/artifact"
	"github.com/vk/hclmod/internal/cache"
	"github.com/vk/hclmod/internal/ctxlog"
	"github.com/vk/hclmod/internal/modid"
	"github.com/vk/hclmod/internal/namespace"
	"github.com/vk/hclmod/internal/program"
	"github.com/vk/hclmod/internal/registry"
	"github.com/zclconf/go-cty/cty/function"
)

// Options configures a Loader.
type Options struct {
	// SearchPath is the ordered list of directories consulted during
	// resolution. First match wins.
	SearchPath []string
	// Registry holds the loaded modules. A fresh one is created when nil,
	// so independent loaders never share state.
	Registry *registry.Registry
	// DisableCache skips both reading and writing the compiled cache.
	DisableCache bool
	// Functions overrides the expression function table. The default cty
	// stdlib subset is used when nil.
	Functions map[string]function.Function
}

// Loader resolves module identifiers to namespaces.
//
// A single mutex guards the whole resolve-or-return sequence, so two
// goroutines can never execute the same module's top-level operations
// concurrently or observe a half-registered namespace. Imports encountered
// during execution re-enter through resolveLocked rather than Resolve; the
// lock is held across the entire load tree.
type Loader struct {
	mu           sync.Mutex
	reg          *registry.Registry
	searchPath   []string
	disableCache bool
	funcs        map[string]function.Function
}

// New creates a Loader from opts.
func New(opts Options) *Loader {
	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}
	funcs := opts.Functions
	if funcs == nil {
		funcs = defaultFunctions()
	}
	return &Loader{
		reg:          reg,
		searchPath:   append([]string(nil), opts.SearchPath...),
		disableCache: opts.DisableCache,
		funcs:        funcs,
	}
}

// Registry returns the loader's registry for introspection.
func (l *Loader) Registry() *registry.Registry { return l.reg }

// SearchPath returns a copy of the loader's search path.
func (l *Loader) SearchPath() []string {
	return append([]string(nil), l.searchPath...)
}

// Resolve returns the namespace for id, loading it on first use. Subsequent
// calls return the identical namespace instance without re-executing the
// module. A failed load rolls the registry back exactly, so resolving again
// after fixing the cause is safe.
func (l *Loader) Resolve(ctx context.Context, id modid.ID) (*namespace.Namespace, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resolveLocked(ctx, id)
}

// resolveLocked implements resolution. The loader mutex must be held; import
// evaluation recurses through here so the lock is never re-acquired.
func (l *Loader) resolveLocked(ctx context.Context, id modid.ID) (*namespace.Namespace, error) {
	logger := ctxlog.FromContext(ctx)

	if ns, ok := l.reg.Lookup(id); ok {
		if l.reg.Pending(id) {
			// Circular import: hand back the partially populated namespace.
			// References to names the module has not bound yet fail at the
			// caller's evaluation site, not here.
			logger.Debug("Returning partially populated namespace for in-flight module.", "module", id.String())
		}
		return ns, nil
	}

	art, ok := artifact.Find(l.searchPath, id)
	if !ok {
		return nil, &ResolutionError{ID: id, SearchPath: l.SearchPath()}
	}
	logger.Debug("Source artifact located.", "module", id.String(), "source", art.SourcePath, "package", art.IsPackage)

	prog, err := l.loadProgram(ctx, art)
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}

	// Register the empty namespace before executing so circular references
	// observe a partial namespace instead of recursing forever.
	ns := namespace.New()
	l.reg.Bind(id, ns)
	l.reg.MarkPending(id)

	if err := l.execute(ctx, prog, ns); err != nil {
		l.reg.Forget(id)
		logger.Debug("Module load failed, registry entry rolled back.", "module", id.String(), "error", err)
		return nil, &LoadError{ID: id, Err: err}
	}

	l.reg.ClearPending(id)
	logger.Info("Module loaded.", "module", id.String(), "names", ns.Len())
	return ns, nil
}

// Reload re-executes id's source artifact into the existing namespace
// instance, so every holder of the namespace observes the updated bindings.
// Names absent from the new source keep their previous values; that is the
// documented reload semantics, not an oversight. Reloading a module that was
// never loaded fails with a StateError.
func (l *Loader) Reload(ctx context.Context, id modid.ID) (*namespace.Namespace, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	logger := ctxlog.FromContext(ctx)

	ns, ok := l.reg.Lookup(id)
	if !ok {
		return nil, &StateError{ID: id, Op: "reload"}
	}

	art, ok := artifact.Find(l.searchPath, id)
	if !ok {
		return nil, &ResolutionError{ID: id, SearchPath: l.SearchPath()}
	}

	prog, err := l.loadProgram(ctx, art)
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}

	// The module stays registered even if re-execution fails partway: the
	// previous bindings are already published and rolling them back is not
	// possible without breaking the shared-instance guarantee.
	l.reg.MarkPending(id)
	execErr := l.execute(ctx, prog, ns)
	l.reg.ClearPending(id)
	if execErr != nil {
		return nil, &LoadError{ID: id, Err: execErr}
	}

	logger.Info("Module reloaded.", "module", id.String(), "names", ns.Len())
	return ns, nil
}

// loadProgram returns art's compiled program, consulting the compiled cache
// unless disabled. Cache writes are best-effort.
func (l *Loader) loadProgram(ctx context.Context, art artifact.Artifact) (*program.Program, error) {
	if !l.disableCache {
		if prog, ok := cache.Lookup(ctx, art, program.Version); ok {
			return prog, nil
		}
	}

	src, err := os.ReadFile(art.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading source artifact: %w", err)
	}
	prog, diags := program.Compile(src, art.SourcePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("compiling %s: %w", art.SourcePath, diags)
	}

	// Reject calls to functions outside the table now, rather than partway
	// through execution with earlier bindings already published.
	analysis, diags := prog.Analyze()
	if diags.HasErrors() {
		return nil, fmt.Errorf("analyzing %s: %w", art.SourcePath, diags)
	}
	for _, fn := range analysis.CalledFunctions {
		if _, ok := l.funcs[fn]; !ok {
			return nil, fmt.Errorf("%s: call to unknown function %q", art.SourcePath, fn)
		}
	}

	if !l.disableCache {
		cache.Write(ctx, art, program.Version, prog)
	}
	return prog, nil
}
