package loader

import (
	"fmt"
	"strings"

	"github.com/vk/hclmod/internal/modid"
)

// ResolutionError reports that no search-path location contained a source
// artifact for the requested identifier.
type ResolutionError struct {
	ID         modid.ID
	SearchPath []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("module %q not found in search path [%s]", e.ID, strings.Join(e.SearchPath, ", "))
}

// LoadError reports that a module's source artifact could not be compiled or
// that evaluating its top-level operations failed. The partial namespace has
// already been rolled back when a LoadError is returned from Resolve.
type LoadError struct {
	ID  modid.ID
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading module %q: %v", e.ID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// StateError reports an operation that requires a module to be in a state it
// is not in, such as reloading a module that was never loaded.
type StateError struct {
	ID modid.ID
	Op string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s module %q: module is not loaded", e.Op, e.ID)
}
