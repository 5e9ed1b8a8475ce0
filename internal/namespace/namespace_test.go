package namespace_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/hclmod/internal/namespace"
	"github.com/zclconf/go-cty/cty"
)

func TestNames_SortedAndDeduplicated(t *testing.T) {
	t.Parallel()

	ns := namespace.New()
	ns.Bind("zeta", cty.NumberIntVal(1))
	ns.Bind("alpha", cty.NumberIntVal(2))
	ns.BindImport("midway", namespace.New())

	require.Equal(t, []string{"alpha", "midway", "zeta"}, ns.Names())
}

func TestBind_ReplacesImportOfSameName(t *testing.T) {
	t.Parallel()

	ns := namespace.New()
	ns.BindImport("geo", namespace.New())
	ns.Bind("geo", cty.StringVal("shadowed"))

	require.Equal(t, []string{"geo"}, ns.Names())
	val, ok := ns.Value("geo")
	require.True(t, ok)
	require.Equal(t, cty.StringVal("shadowed"), val)
	_, ok = ns.Import("geo")
	require.False(t, ok)
}

func TestVariables_RendersImportsLive(t *testing.T) {
	t.Parallel()

	imported := namespace.New()
	ns := namespace.New()
	ns.BindImport("dep", imported)

	vars := ns.Variables()
	require.Equal(t, cty.EmptyObjectVal, vars["dep"])

	// A name bound in the import after the fact shows up on re-render.
	imported.Bind("origin", cty.StringVal("0,0"))
	vars = ns.Variables()
	require.Equal(t, cty.ObjectVal(map[string]cty.Value{"origin": cty.StringVal("0,0")}), vars["dep"])
}

func TestObject_TerminatesOnImportCycle(t *testing.T) {
	t.Parallel()

	a := namespace.New()
	b := namespace.New()
	a.Bind("from_a", cty.True)
	b.Bind("from_b", cty.False)
	a.BindImport("b", b)
	b.BindImport("a", a)

	obj := a.Object()
	require.True(t, obj.Type().IsObjectType())

	// The cycle is cut at the repeated namespace: b's view of a carries only
	// a's value bindings.
	bView := obj.GetAttr("b")
	aView := bView.GetAttr("a")
	require.Equal(t, cty.ObjectVal(map[string]cty.Value{"from_a": cty.True}), aView)
}

func TestLen(t *testing.T) {
	t.Parallel()

	ns := namespace.New()
	require.Equal(t, 0, ns.Len())
	ns.Bind("x", cty.Zero)
	ns.BindImport("y", namespace.New())
	require.Equal(t, 2, ns.Len())
}
