package program_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/require"
	"github.com/vk/hclmod/internal/program"
	"github.com/zclconf/go-cty/cty"
)

func compile(t *testing.T, src string) *program.Program {
	t.Helper()
	prog, diags := program.Compile([]byte(src), "test.hcl")
	require.False(t, diags.HasErrors(), "compile failed: %s", diags.Error())
	return prog
}

func TestCompile_OpsInSourceOrder(t *testing.T) {
	t.Parallel()

	prog := compile(t, `
first = 1

import "geo.points" {}

second = 2

import "geo.shapes" { as = "sh" }

third = 3
`)

	type step struct {
		Kind   program.OpKind
		Name   string
		Module string
	}
	var got []step
	for _, op := range prog.Ops {
		got = append(got, step{Kind: op.Kind, Name: op.Name, Module: op.Module})
	}

	want := []step{
		{Kind: program.OpBind, Name: "first"},
		{Kind: program.OpImport, Module: "geo.points"},
		{Kind: program.OpBind, Name: "second"},
		{Kind: program.OpImport, Name: "sh", Module: "geo.shapes"},
		{Kind: program.OpBind, Name: "third"},
	}
	require.Empty(t, cmp.Diff(want, got))
}

func TestCompile_RejectsUnknownBlockType(t *testing.T) {
	t.Parallel()

	_, diags := program.Compile([]byte(`resource "x" {}`+"\n"), "test.hcl")
	require.True(t, diags.HasErrors())
	require.Contains(t, diags.Error(), "Unsupported block type")
}

func TestCompile_RejectsImportWithExtraArguments(t *testing.T) {
	t.Parallel()

	_, diags := program.Compile([]byte(`
import "geo" {
  frobnicate = true
}
`), "test.hcl")
	require.True(t, diags.HasErrors())
	require.Contains(t, diags.Error(), `Unsupported argument "frobnicate"`)
}

func TestCompile_RejectsImportWithoutLabel(t *testing.T) {
	t.Parallel()

	_, diags := program.Compile([]byte("import {}\n"), "test.hcl")
	require.True(t, diags.HasErrors())
}

func TestCompile_RejectsSyntaxError(t *testing.T) {
	t.Parallel()

	_, diags := program.Compile([]byte("x = (((\n"), "test.hcl")
	require.True(t, diags.HasErrors())
}

func TestOp_ExpressionEvaluates(t *testing.T) {
	t.Parallel()

	prog := compile(t, "doubled = base * 2\n")
	require.Len(t, prog.Ops, 1)

	expr, diags := prog.Ops[0].Expression()
	require.False(t, diags.HasErrors())

	val, evalDiags := expr.Value(&hcl.EvalContext{
		Variables: map[string]cty.Value{"base": cty.NumberIntVal(21)},
	})
	require.False(t, evalDiags.HasErrors())
	require.True(t, val.RawEquals(cty.NumberIntVal(42)))
}

func TestEncodeDecode_PreservesOps(t *testing.T) {
	t.Parallel()

	prog := compile(t, `
import "dep" { as = "d" }
value = d.origin
`)

	data, err := prog.Encode()
	require.NoError(t, err)

	decoded, err := program.Decode(data)
	require.NoError(t, err)
	require.Equal(t, prog.SourcePath, decoded.SourcePath)
	require.Len(t, decoded.Ops, len(prog.Ops))
	for i := range prog.Ops {
		require.Equal(t, prog.Ops[i].Kind, decoded.Ops[i].Kind)
		require.Equal(t, prog.Ops[i].Name, decoded.Ops[i].Name)
		require.Equal(t, prog.Ops[i].Module, decoded.Ops[i].Module)
		require.Equal(t, prog.Ops[i].Src, decoded.Ops[i].Src)
		require.Equal(t, prog.Ops[i].Line, decoded.Ops[i].Line)
	}

	// A decoded binding must still parse and evaluate.
	var bind *program.Op
	for i := range decoded.Ops {
		if decoded.Ops[i].Kind == program.OpBind {
			bind = &decoded.Ops[i]
		}
	}
	require.NotNil(t, bind)
	_, diags := bind.Expression()
	require.False(t, diags.HasErrors())
}

func TestDecode_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := program.Decode([]byte("definitely not msgpack"))
	require.Error(t, err)
}

func TestAnalyze_CollectsReferencesAndFunctions(t *testing.T) {
	t.Parallel()

	prog := compile(t, `
import "dep" {}
a = upper("hello")
b = lower(dep.name)
c = dep.name
d = a
`)

	analysis, diags := prog.Analyze()
	require.False(t, diags.HasErrors())
	require.Equal(t, []string{"lower", "upper"}, analysis.CalledFunctions)
	require.Equal(t, []string{"a", "dep"}, analysis.ReferencedNames)
}
