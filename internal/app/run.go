package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vk/hclmod/internal/ctxlog"
	"github.com/vk/hclmod/internal/modid"
	"github.com/vk/hclmod/internal/namespace"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Discover {
		return a.runDiscover(ctx)
	}
	return a.runResolve(ctx)
}

func (a *App) runDiscover(ctx context.Context) error {
	ids, err := a.loader.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discovering modules: %w", err)
	}

	if a.config.Output == "json" {
		return writeJSON(a.outW, map[string]any{"modules": ids})
	}
	for _, id := range ids {
		fmt.Fprintln(a.outW, id)
	}
	return nil
}

func (a *App) runResolve(ctx context.Context) error {
	id, err := modid.Parse(a.config.ModuleID)
	if err != nil {
		return err
	}

	ns, err := a.loader.Resolve(ctx, id)
	if err != nil {
		return err
	}
	a.logger.Debug("Module resolved, printing namespace listing.", "module", id.String())

	if a.config.Output == "json" {
		return a.printJSON(id, ns)
	}
	return a.printText(ns)
}

// printText writes one "name = value" line per binding, names sorted.
func (a *App) printText(ns *namespace.Namespace) error {
	vars := ns.Variables()
	for _, name := range ns.Names() {
		rendered, err := renderValue(vars[name])
		if err != nil {
			return fmt.Errorf("rendering %q: %w", name, err)
		}
		fmt.Fprintf(a.outW, "%s = %s\n", name, rendered)
	}
	return nil
}

func (a *App) printJSON(id modid.ID, ns *namespace.Namespace) error {
	vars := ns.Variables()
	names := make(map[string]json.RawMessage, len(vars))
	for _, name := range ns.Names() {
		rendered, err := renderValue(vars[name])
		if err != nil {
			return fmt.Errorf("rendering %q: %w", name, err)
		}
		names[name] = json.RawMessage(rendered)
	}
	return writeJSON(a.outW, map[string]any{
		"module": id.String(),
		"names":  names,
	})
}

// renderValue serializes a cty value as compact JSON, which doubles as the
// human-readable form in text output.
func renderValue(val cty.Value) ([]byte, error) {
	return ctyjson.Marshal(val, val.Type())
}

func writeJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
