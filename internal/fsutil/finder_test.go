package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/hclmod/internal/fsutil"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, filepath.Join(root, "a.hcl"))
	touch(t, filepath.Join(root, "sub", "b.hcl"))
	touch(t, filepath.Join(root, "sub", "ignored.txt"))

	files, err := fsutil.FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "sub", "b.hcl"),
	}, files)
}

func TestFindFilesByExtension_SkipsNamedDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, filepath.Join(root, "a.hcl"))
	touch(t, filepath.Join(root, ".hclmod-cache", "b.hcl"))

	files, err := fsutil.FindFilesByExtension(root, ".hcl", ".hclmod-cache")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "a.hcl")}, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := fsutil.FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".hcl")
	require.Error(t, err)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_, _ = fsutil.FindFilesByExtension(t.TempDir(), "")
	})
}
