// Package cache persists compiled programs next to their source artifacts.
// The cache is purely an accelerator: a missing, stale, or unreadable entry
// always falls back to a fresh compile, and a failed write is logged and
// otherwise ignored.
package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vk/hclmod/internal/artifact"
	"github.com/vk/hclmod/internal/ctxlog"
	"github.com/vk/hclmod/internal/program"
)

// DirName is the reserved cache subdirectory created alongside each source
// artifact.
const DirName = ".hclmod-cache"

// entryExtension is the file extension of cache entries.
const entryExtension = ".mpk"

// Path returns the cache entry location for an artifact under the given
// runtime version tag. Entries are keyed by identifier leaf and version, so
// caches for incompatible runtimes coexist in the same directory.
func Path(art artifact.Artifact, version string) string {
	dir := filepath.Join(filepath.Dir(art.SourcePath), DirName)
	return filepath.Join(dir, art.Leaf+"."+version+entryExtension)
}

// Lookup returns the cached program for art, or ok=false when the entry is
// missing, stale, or unreadable. An entry is stale when the source artifact
// was modified after the entry was written.
func Lookup(ctx context.Context, art artifact.Artifact, version string) (*program.Program, bool) {
	logger := ctxlog.FromContext(ctx)
	entryPath := Path(art, version)

	entryInfo, err := os.Stat(entryPath)
	if err != nil {
		return nil, false
	}
	srcInfo, err := os.Stat(art.SourcePath)
	if err != nil {
		return nil, false
	}
	if srcInfo.ModTime().After(entryInfo.ModTime()) {
		logger.Debug("Compiled cache entry is stale.", "entry", entryPath, "source", art.SourcePath)
		return nil, false
	}

	data, err := os.ReadFile(entryPath)
	if err != nil {
		logger.Debug("Compiled cache entry is unreadable.", "entry", entryPath, "error", err)
		return nil, false
	}
	prog, err := program.Decode(data)
	if err != nil {
		logger.Debug("Compiled cache entry is corrupted, recompiling.", "entry", entryPath, "error", err)
		return nil, false
	}

	logger.Debug("Compiled cache hit.", "entry", entryPath)
	return prog, true
}

// Write persists prog as the cache entry for art. Failures are logged at
// Warn and never propagated: the caller already holds the freshly compiled
// program and the load proceeds with it.
func Write(ctx context.Context, art artifact.Artifact, version string, prog *program.Program) {
	logger := ctxlog.FromContext(ctx)
	entryPath := Path(art, version)

	data, err := prog.Encode()
	if err != nil {
		logger.Warn("Failed to encode compiled cache entry.", "entry", entryPath, "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		logger.Warn("Failed to create compiled cache directory.", "entry", entryPath, "error", err)
		return
	}
	if err := os.WriteFile(entryPath, data, 0o644); err != nil {
		logger.Warn("Failed to write compiled cache entry.", "entry", entryPath, "error", err)
		return
	}
	logger.Debug("Compiled cache entry written.", "entry", entryPath)
}
