package hclutil

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/zclconf/go-cty/cty"
)

// OptionType converts the expression of an option's `type` attribute into
// an option kind. Supported forms are the keywords `bool` and `string` and
// the call `enum(["a", "b"])`, which also yields the enum's choices.
func OptionType(expr hcl.Expression) (option.Kind, []string, hcl.Diagnostics) {
	if call, callDiags := hcl.ExprCall(expr); !callDiags.HasErrors() {
		return enumType(call, expr)
	}

	// We expect a simple keyword like `bool`, not a complex expression.
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() || len(traversal) != 1 {
		return 0, nil, hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   "The 'type' attribute must be 'bool', 'string', or 'enum([...])'.",
			Subject:  expr.Range().Ptr(),
		}}
	}

	switch name := traversal.RootName(); name {
	case "bool":
		return option.KindBool, nil, nil
	case "string":
		return option.KindString, nil, nil
	case "enum":
		return 0, nil, hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing enum choices",
			Detail:   "Write enum types as enum([\"a\", \"b\"]).",
			Subject:  expr.Range().Ptr(),
		}}
	default:
		return 0, nil, hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported type",
			Detail:   fmt.Sprintf("The keyword '%s' is not a valid option type. Supported types are: bool, string, enum.", name),
			Subject:  expr.Range().Ptr(),
		}}
	}
}

func enumType(call *hcl.StaticCall, expr hcl.Expression) (option.Kind, []string, hcl.Diagnostics) {
	invalid := func(detail string) (option.Kind, []string, hcl.Diagnostics) {
		return 0, nil, hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid enum type",
			Detail:   detail,
			Subject:  expr.Range().Ptr(),
		}}
	}

	if call.Name != "enum" {
		return invalid(fmt.Sprintf("'%s' is not a type constructor; only enum([...]) is supported.", call.Name))
	}
	if len(call.Arguments) != 1 {
		return invalid("enum takes exactly one argument, the list of choices.")
	}
	list, diags := call.Arguments[0].Value(nil)
	if diags.HasErrors() {
		return 0, nil, diags
	}
	if !list.IsKnown() || list.IsNull() || !(list.Type().IsTupleType() || list.Type().IsListType()) {
		return invalid("The enum argument must be a list of strings.")
	}

	var choices []string
	seen := make(map[string]struct{})
	for it := list.ElementIterator(); it.Next(); {
		_, v := it.Element()
		if v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
			return invalid("Every enum choice must be a string.")
		}
		s := v.AsString()
		if _, dup := seen[s]; dup {
			return invalid(fmt.Sprintf("Choice %q is listed more than once.", s))
		}
		seen[s] = struct{}{}
		choices = append(choices, s)
	}
	if len(choices) == 0 {
		return invalid("An enum needs at least one choice.")
	}
	return option.KindEnum, choices, nil
}
