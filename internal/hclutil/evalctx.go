package hclutil

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Root variables available to manifest expressions.
const (
	VarPlatform = "platform"
	VarHost     = "host"
)

// Variables lists every root variable manifest expressions may reference.
// Flags are read through flag() and flag_string(), which treat an unset
// flag as false or "".
var Variables = []string{VarHost, VarPlatform}

// Functions returns the function table for expressions evaluated against r.
func Functions(r env.Reader) map[string]function.Function {
	return map[string]function.Function{
		"flag": function.New(&function.Spec{
			Description: "Reports whether the named flag is set to a true value.",
			Params:      []function.Parameter{{Name: "name", Type: cty.String}},
			Type:        function.StaticReturnType(cty.Bool),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				return cty.BoolVal(r.Bool(args[0].AsString())), nil
			},
		}),
		"flag_string": function.New(&function.Spec{
			Description: "Returns the named flag as a string, or \"\" when unset.",
			Params:      []function.Parameter{{Name: "name", Type: cty.String}},
			Type:        function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				return cty.StringVal(r.String(args[0].AsString())), nil
			},
		}),
		"contains": stdlib.ContainsFunc,
		"lower":    stdlib.LowerFunc,
		"upper":    stdlib.UpperFunc,
	}
}

// FunctionNames lists the functions manifest expressions may call, sorted.
func FunctionNames() []string {
	return slices.Sorted(maps.Keys(Functions(nil)))
}

// EvalContext builds the context manifest expressions are evaluated in.
func EvalContext(r env.Reader) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			VarPlatform: cty.StringVal(string(r.Platform())),
			VarHost:     cty.StringVal(r.Host()),
		},
		Functions: Functions(r),
	}
}

// EvalBool evaluates a predicate expression against r.
func EvalBool(expr hcl.Expression, r env.Reader) (bool, error) {
	v, diags := expr.Value(EvalContext(r))
	if diags.HasErrors() {
		return false, diags
	}
	v, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("%s: predicate must evaluate to a bool: %w", expr.Range(), err)
	}
	if v.IsNull() || !v.IsKnown() {
		return false, fmt.Errorf("%s: predicate evaluated to null", expr.Range())
	}
	return v.True(), nil
}

// EvalFlagValue evaluates a flag value expression against r. Bools and
// strings are kept as they are; numbers become their string form.
func EvalFlagValue(expr hcl.Expression, r env.Reader) (cty.Value, error) {
	v, diags := expr.Value(EvalContext(r))
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal, errors.New(expr.Range().String() + ": value must not be null")
	}
	if v.Type() == cty.Bool || v.Type() == cty.String {
		return v, nil
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%s: value must be a bool or a string: %w", expr.Range(), err)
	}
	return s, nil
}
