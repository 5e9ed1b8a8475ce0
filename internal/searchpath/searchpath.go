// Package searchpath assembles the ordered list of directories the loader
// consults when resolving a module identifier. Order is significant: the
// first location containing a matching artifact wins.
package searchpath

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvVar names the environment variable holding extra search-path entries,
// separated by the platform's path-list separator.
const EnvVar = "HCLMOD_PATH"

// Assemble builds the search path from, in precedence order: the directory
// of the entry script, the entries of envValue (split on the native path
// list separator), and the built-in default locations. Empty entries are
// dropped and duplicates keep their first position.
func Assemble(entryDir string, envValue string, defaults []string) []string {
	var path []string
	seen := make(map[string]struct{})

	add := func(dir string) {
		if dir == "" {
			return
		}
		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		path = append(path, dir)
	}

	add(entryDir)
	for _, dir := range strings.Split(envValue, string(filepath.ListSeparator)) {
		add(dir)
	}
	for _, dir := range defaults {
		add(dir)
	}
	return path
}

// Defaults returns the built-in fallback locations: a per-user module
// directory when the home directory is known, then the system-wide one.
func Defaults() []string {
	var defaults []string
	if home, err := os.UserHomeDir(); err == nil {
		defaults = append(defaults, filepath.Join(home, ".hclmod", "modules"))
	}
	defaults = append(defaults, filepath.Join(string(filepath.Separator), "usr", "local", "share", "hclmod", "modules"))
	return defaults
}
