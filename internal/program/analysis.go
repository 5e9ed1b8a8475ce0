package program

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Analysis summarizes what a compiled program's expressions refer to.
type Analysis struct {
	// ReferencedNames are the root names of every variable reference,
	// sorted and deduplicated.
	ReferencedNames []string
	// CalledFunctions are the names of every function call, sorted and
	// deduplicated.
	CalledFunctions []string
}

// Analyze walks every binding expression and collects the variable roots and
// function calls. The loader uses the function list to reject a program that
// calls a function missing from its table before evaluating anything.
func (p *Program) Analyze() (Analysis, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	names := make(map[string]struct{})
	functions := make(map[string]struct{})

	for i := range p.Ops {
		op := &p.Ops[i]
		if op.Kind != OpBind {
			continue
		}
		expr, exprDiags := op.Expression()
		diags = append(diags, exprDiags...)
		if exprDiags.HasErrors() {
			continue
		}
		for _, traversal := range expr.Variables() {
			names[traversal.RootName()] = struct{}{}
		}
		if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
			walkForFunctions(syntaxExpr, functions)
		}
	}

	return Analysis{
		ReferencedNames: sortedKeys(names),
		CalledFunctions: sortedKeys(functions),
	}, diags
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// walkForFunctions recursively walks the AST, looking only for function calls.
func walkForFunctions(expr hclsyntax.Expression, functions map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		functions[e.Name] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, functions)
		walkForFunctions(e.RHS, functions)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, functions)
		walkForFunctions(e.TrueResult, functions)
		walkForFunctions(e.FalseResult, functions)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, functions)
	case *hclsyntax.TemplateExpr:
		for _, part := range e.Parts {
			walkForFunctions(part, functions)
		}
	case *hclsyntax.TemplateWrapExpr:
		walkForFunctions(e.Wrapped, functions)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForFunctions(item, functions)
		}
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			walkForFunctions(item.KeyExpr, functions)
			walkForFunctions(item.ValueExpr, functions)
		}
	case *hclsyntax.ForExpr:
		walkForFunctions(e.CollExpr, functions)
		walkForFunctions(e.KeyExpr, functions)
		walkForFunctions(e.ValExpr, functions)
		walkForFunctions(e.CondExpr, functions)
	case *hclsyntax.IndexExpr:
		walkForFunctions(e.Collection, functions)
		walkForFunctions(e.Key, functions)
	case *hclsyntax.SplatExpr:
		walkForFunctions(e.Source, functions)
		walkForFunctions(e.Each, functions)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, functions)
	}
}
