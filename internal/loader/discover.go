package loader

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/hclmod/internal/artifact"
	"github.com/vk/hclmod/internal/cache"
	"github.com/vk/hclmod/internal/ctxlog"
	"github.com/vk/hclmod/internal/fsutil"
	"github.com/vk/hclmod/internal/modid"
)

// Discover walks every search-path location and returns the sorted, deduped
// identifiers of all resolvable modules. A source file only counts when each
// directory between the search root and the file is a valid package
// directory, mirroring what Resolve would accept.
func (l *Loader) Discover(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	found := make(map[string]struct{})

	for _, root := range l.searchPath {
		files, err := fsutil.FindFilesByExtension(root, artifact.Extension, cache.DirName)
		if err != nil {
			// A missing or unreadable search-path entry is not fatal to
			// discovery; resolution would skip it the same way.
			logger.Debug("Skipping unreadable search path entry.", "path", root, "error", err)
			continue
		}
		for _, file := range files {
			if id, ok := identifierForFile(root, file); ok {
				found[id.String()] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	logger.Debug("Discovery finished.", "modules", len(ids))
	return ids, nil
}

// identifierForFile maps a source file under root back to the identifier
// that would resolve to it, or ok=false when the file is not reachable
// through valid package directories.
func identifierForFile(root, file string) (modid.ID, bool) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return modid.ID{}, false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	leafFile := parts[len(parts)-1]
	dirs := parts[:len(parts)-1]

	// Every directory on the way down must be a package directory.
	dir := root
	for _, seg := range dirs {
		dir = filepath.Join(dir, seg)
		if !artifact.IsPackageDir(dir) {
			return modid.ID{}, false
		}
	}

	var segments []string
	segments = append(segments, dirs...)
	if leafFile != artifact.InitializerName {
		segments = append(segments, strings.TrimSuffix(leafFile, artifact.Extension))
	}
	if len(segments) == 0 {
		return modid.ID{}, false
	}
	for _, seg := range segments {
		// A dot inside a file or directory name would change the segment
		// structure once joined, so such artifacts are unreachable.
		if strings.Contains(seg, modid.Separator) {
			return modid.ID{}, false
		}
	}

	id, err := modid.Parse(strings.Join(segments, modid.Separator))
	if err != nil {
		return modid.ID{}, false
	}
	return id, true
}
