// Package program is the compiled representation of a source artifact: the
// ordered list of top-level operations (value bindings and imports) that the
// loader executes into a namespace. Programs serialize to msgpack so the
// compiled cache can skip the full-file parse and structural checks on
// subsequent runs.
package program

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zclconf/go-cty/cty"
)

// Version tags the compiled program format together with the runtime it was
// produced by. Cache entries embed it in their file names, so caches written
// by incompatible releases coexist without collision.
const Version = "hclmod1"

// OpKind discriminates the operation variants.
type OpKind uint8

const (
	// OpBind evaluates an expression and binds the result to a name.
	OpBind OpKind = iota + 1
	// OpImport resolves another module and binds its namespace.
	OpImport
)

// Op is one top-level operation of a module.
type Op struct {
	Kind OpKind `msgpack:"kind"`
	// Name is the binding name. For imports it is the alias, or empty to
	// bind under the imported module's leaf segment.
	Name string `msgpack:"name"`
	// Module is the dotted identifier of the imported module (OpImport).
	Module string `msgpack:"module,omitempty"`
	// Src holds the expression source text (OpBind).
	Src []byte `msgpack:"src,omitempty"`
	// File, Line and Column locate the operation for diagnostics.
	File   string `msgpack:"file"`
	Line   int    `msgpack:"line"`
	Column int    `msgpack:"column"`

	byteOffset int
}

// Program is a compiled source artifact. Ops appear in source order, which
// is also execution order.
type Program struct {
	SourcePath string `msgpack:"source_path"`
	Ops        []Op   `msgpack:"ops"`
}

// Compile parses src as HCL native syntax and lowers it to a Program.
// Top-level attributes become bind operations; import blocks become import
// operations. Any other block type is a diagnostic error.
func Compile(src []byte, filename string) (*Program, hcl.Diagnostics) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		// ParseConfig always yields a native-syntax body; this is a safeguard.
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported source body",
			Detail:   "Module sources must use HCL native syntax.",
		})
		return nil, diags
	}

	prog := &Program{SourcePath: filename}

	for _, attr := range body.Attributes {
		rng := attr.Expr.Range()
		prog.Ops = append(prog.Ops, Op{
			Kind:       OpBind,
			Name:       attr.Name,
			Src:        rng.SliceBytes(src),
			File:       filename,
			Line:       rng.Start.Line,
			Column:     rng.Start.Column,
			byteOffset: attr.SrcRange.Start.Byte,
		})
	}

	for _, block := range body.Blocks {
		if block.Type != "import" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Unsupported block type %q", block.Type),
				Detail:   "Only \"import\" blocks may appear at the top level of a module.",
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}
		op, importDiags := compileImport(block)
		diags = append(diags, importDiags...)
		if importDiags.HasErrors() {
			continue
		}
		prog.Ops = append(prog.Ops, op)
	}

	if diags.HasErrors() {
		return nil, diags
	}

	// hclsyntax keeps attributes in a map; restore source order so bindings
	// and imports execute exactly as written.
	sort.SliceStable(prog.Ops, func(i, j int) bool {
		return prog.Ops[i].byteOffset < prog.Ops[j].byteOffset
	})

	return prog, diags
}

func compileImport(block *hclsyntax.Block) (Op, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	if len(block.Labels) != 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid import block",
			Detail:   "An import block takes exactly one label: the dotted module identifier.",
			Subject:  block.DefRange().Ptr(),
		})
		return Op{}, diags
	}

	op := Op{
		Kind:       OpImport,
		Module:     block.Labels[0],
		File:       block.DefRange().Filename,
		Line:       block.DefRange().Start.Line,
		Column:     block.DefRange().Start.Column,
		byteOffset: block.DefRange().Start.Byte,
	}

	for name, attr := range block.Body.Attributes {
		if name != "as" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Unsupported argument %q", name),
				Detail:   "An import block accepts only the optional \"as\" argument.",
				Subject:  attr.SrcRange.Ptr(),
			})
			continue
		}
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		if val.Type() != cty.String || val.IsNull() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid import alias",
				Detail:   "The \"as\" argument must be a constant string.",
				Subject:  attr.SrcRange.Ptr(),
			})
			continue
		}
		op.Name = val.AsString()
	}

	if len(block.Body.Blocks) > 0 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid import block",
			Detail:   "An import block must not contain nested blocks.",
			Subject:  block.Body.Blocks[0].DefRange().Ptr(),
		})
	}

	return op, diags
}

// Expression re-parses a bind operation's expression source. The recorded
// position keeps diagnostics pointing at the original file even when the
// expression came from a cache entry.
func (op *Op) Expression() (hcl.Expression, hcl.Diagnostics) {
	if op.Kind != OpBind {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Not a binding operation",
			Detail:   fmt.Sprintf("Operation %q carries no expression.", op.Name),
		}}
	}
	return hclsyntax.ParseExpression(op.Src, op.File, hcl.Pos{Line: op.Line, Column: op.Column})
}

// Encode serializes the program for the compiled cache.
func (p *Program) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding compiled program: %w", err)
	}
	return data, nil
}

// Decode deserializes a cache entry previously produced by Encode.
func Decode(data []byte) (*Program, error) {
	var p Program
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding compiled program: %w", err)
	}
	return &p, nil
}
