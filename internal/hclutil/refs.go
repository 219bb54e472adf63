package hclutil

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// References walks expressions to find all unique variable traversals and
// function calls. Both results are sorted so callers get a deterministic
// order.
func References(exprs ...hcl.Expression) ([]hcl.Traversal, []string) {
	traversals := make(map[string]hcl.Traversal)
	functions := make(map[string]struct{})

	for _, expr := range exprs {
		if expr == nil {
			continue
		}
		for _, t := range expr.Variables() {
			traversals[TraversalKey(t)] = t
		}
		// Variables() doesn't report function calls; walk the syntax tree for those.
		if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
			hclsyntax.VisitAll(syntaxExpr, func(n hclsyntax.Node) hcl.Diagnostics {
				if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
					functions[call.Name] = struct{}{}
				}
				return nil
			})
		}
	}

	refs := make([]hcl.Traversal, 0, len(traversals))
	for _, k := range slices.Sorted(maps.Keys(traversals)) {
		refs = append(refs, traversals[k])
	}
	return refs, slices.Sorted(maps.Keys(functions))
}

// CheckExpression reports references to root variables or functions that
// manifest expressions do not provide.
func CheckExpression(expr hcl.Expression) hcl.Diagnostics {
	var diags hcl.Diagnostics
	if expr == nil {
		return nil
	}

	refs, _ := References(expr)
	for _, ref := range refs {
		if slices.Contains(Variables, ref.RootName()) {
			continue
		}
		if ref.RootName() == "env" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported flag reference",
				Detail:   fmt.Sprintf("Flags cannot be read as %q because unset flags have no attribute. Use flag(\"name\") for a boolean or flag_string(\"name\") for a string; both read an unset flag as false or \"\".", TraversalKey(ref)),
				Subject:  ref.SourceRange().Ptr(),
			})
			continue
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown variable",
			Detail:   fmt.Sprintf("There is no variable named %q in %q. Available variables are: %v.", ref.RootName(), TraversalKey(ref), Variables),
			Subject:  ref.SourceRange().Ptr(),
		})
	}

	known := FunctionNames()
	if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
		hclsyntax.VisitAll(syntaxExpr, func(n hclsyntax.Node) hcl.Diagnostics {
			call, ok := n.(*hclsyntax.FunctionCallExpr)
			if !ok || slices.Contains(known, call.Name) {
				return nil
			}
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Call to unknown function",
				Detail:   fmt.Sprintf("There is no function named %q. Available functions are: %v.", call.Name, known),
				Subject:  call.NameRange.Ptr(),
			})
			return nil
		})
	}
	return diags
}
