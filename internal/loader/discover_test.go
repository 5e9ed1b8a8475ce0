package loader_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/hclmod/internal/loader"
	"github.com/vk/hclmod/internal/modid"
)

func TestDiscover_ListsResolvableModules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeModule(t, root, "vals.hcl", "x = 1\n")
	writeModule(t, root, "geo/init.hcl", "name = \"geo\"\n")
	writeModule(t, root, "geo/points.hcl", "x = 1\n")
	// Not reachable: the directory has no initializer.
	writeModule(t, root, "orphan/data.hcl", "x = 1\n")

	ids, err := newLoader(root).Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"geo", "geo.points", "vals"}, ids)
}

func TestDiscover_MergesAndDeduplicatesAcrossPaths(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	writeModule(t, first, "m.hcl", "x = 1\n")
	writeModule(t, second, "m.hcl", "x = 2\n")
	writeModule(t, second, "other.hcl", "x = 3\n")

	ids, err := newLoader(first, second).Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"m", "other"}, ids)
}

func TestDiscover_IgnoresCacheDirectories(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	root := t.TempDir()
	writeModule(t, root, "m.hcl", "x = 1\n")

	ld := newLoader(root)
	// Populate the compiled cache, then make sure discovery does not list
	// anything from under it.
	_, err := ld.Resolve(ctx, modid.MustParse("m"))
	require.NoError(t, err)

	ids, err := ld.Discover(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"m"}, ids)
}

func TestDiscover_SkipsMissingSearchPathEntries(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeModule(t, root, "m.hcl", "x = 1\n")

	ld := loader.New(loader.Options{SearchPath: []string{"/does/not/exist", root}})
	ids, err := ld.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"m"}, ids)
}
