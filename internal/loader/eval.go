package loader

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/hclmod/internal/ctxlog"
	"github.com/vk/hclmod/internal/modid"
	"github.com/vk/hclmod/internal/namespace"
	"github.com/vk/hclmod/internal/program"
)

// execute runs prog's operations into ns, in source order. Imports resolve
// recursively under the already-held loader lock; binding expressions see
// the namespace's own earlier bindings plus every imported namespace as an
// object rendered from its current (possibly still partial) contents.
func (l *Loader) execute(ctx context.Context, prog *program.Program, ns *namespace.Namespace) error {
	logger := ctxlog.FromContext(ctx)

	for i := range prog.Ops {
		op := &prog.Ops[i]
		switch op.Kind {
		case program.OpImport:
			dep, err := modid.Parse(op.Module)
			if err != nil {
				return fmt.Errorf("%s:%d: %w", op.File, op.Line, err)
			}
			imported, err := l.resolveLocked(ctx, dep)
			if err != nil {
				return fmt.Errorf("%s:%d: %w", op.File, op.Line, err)
			}
			name := op.Name
			if name == "" {
				name = dep.Leaf()
			}
			ns.BindImport(name, imported)
			logger.Debug("Import bound.", "module", op.Module, "as", name)

		case program.OpBind:
			expr, diags := op.Expression()
			if diags.HasErrors() {
				return fmt.Errorf("%s:%d: %w", op.File, op.Line, diags)
			}
			val, diags := expr.Value(&hcl.EvalContext{
				Variables: ns.Variables(),
				Functions: l.funcs,
			})
			if diags.HasErrors() {
				return fmt.Errorf("%s:%d: evaluating %q: %w", op.File, op.Line, op.Name, diags)
			}
			ns.Bind(op.Name, val)

		default:
			return fmt.Errorf("%s:%d: unknown operation kind %d", op.File, op.Line, op.Kind)
		}
	}
	return nil
}
