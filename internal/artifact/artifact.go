// Package artifact maps module identifiers to source artifacts on disk. An
// artifact is either a single HCL file or a package: a directory containing
// the designated initializer file. A directory without the initializer is
// not an artifact at all and stays invisible to resolution.
package artifact

import (
	"os"
	"path/filepath"

	"github.com/vk/hclmod/internal/modid"
)

// Extension is the file extension of module source files.
const Extension = ".hcl"

// InitializerName is the file that marks a directory as a loadable package.
const InitializerName = "init" + Extension

// Artifact describes a located source artifact.
type Artifact struct {
	// SourcePath is the file to compile: the module file itself, or the
	// package's initializer file.
	SourcePath string
	// Leaf is the identifier segment the artifact was matched under. Cache
	// entries are keyed by it.
	Leaf string
	// IsPackage reports whether the artifact is a directory package.
	IsPackage bool
}

// Locate probes dir for an artifact named leaf. A plain file match
// (<leaf>.hcl) takes precedence over a package match (<leaf>/init.hcl).
func Locate(dir, leaf string) (Artifact, bool) {
	file := filepath.Join(dir, leaf+Extension)
	if isRegularFile(file) {
		return Artifact{SourcePath: file, Leaf: leaf}, true
	}
	init := filepath.Join(dir, leaf, InitializerName)
	if isRegularFile(init) {
		return Artifact{SourcePath: init, Leaf: leaf, IsPackage: true}, true
	}
	return Artifact{}, false
}

// IsPackageDir reports whether dir is a valid package directory, i.e. a
// directory containing the initializer file.
func IsPackageDir(dir string) bool {
	return isRegularFile(filepath.Join(dir, InitializerName))
}

// Find walks searchPath in order and returns the first artifact matching id.
// Non-leaf segments must correspond to package directories; a path entry
// where any intermediate directory lacks the initializer simply does not
// match, and the search continues.
func Find(searchPath []string, id modid.ID) (Artifact, bool) {
	segments := id.Segments()
	for _, root := range searchPath {
		dir := root
		valid := true
		for _, seg := range segments[:len(segments)-1] {
			dir = filepath.Join(dir, seg)
			if !IsPackageDir(dir) {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		if art, ok := Locate(dir, id.Leaf()); ok {
			return art, true
		}
	}
	return Artifact{}, false
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
