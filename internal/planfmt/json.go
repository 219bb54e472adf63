package planfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/specialistvlad/modresolve/internal/resolver"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// RenderJSON writes the plan as an indented JSON document. The document is
// built as a cty value so option and flag values keep their bool or string
// types.
func RenderJSON(w io.Writer, plan *resolver.Plan) error {
	v := planValue(plan)
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("indent plan: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

func planValue(plan *resolver.Plan) cty.Value {
	skipped := make([]cty.Value, 0, len(plan.Skipped))
	for _, s := range plan.Skipped {
		skipped = append(skipped, cty.ObjectVal(map[string]cty.Value{
			"module": cty.StringVal(s.Module),
			"reason": cty.StringVal(s.Reason),
		}))
	}

	var options []cty.Value
	if plan.Options != nil {
		for _, entry := range plan.Options.All() {
			value := entry.Default
			if v, ok := plan.Flags[entry.Name]; ok {
				value = v
			}
			options = append(options, cty.ObjectVal(map[string]cty.Value{
				"name":        cty.StringVal(entry.Name),
				"module":      cty.StringVal(entry.Module),
				"type":        cty.StringVal(entry.Kind.String()),
				"description": cty.StringVal(entry.Description),
				"choices":     stringList(entry.Choices),
				"default":     entry.Default,
				"value":       value,
			}))
		}
	}

	var docs []cty.Value
	if plan.Docs != nil {
		for _, b := range plan.Docs.Bindings() {
			docs = append(docs, cty.ObjectVal(map[string]cty.Value{
				"module":  cty.StringVal(b.Module),
				"classes": stringList(b.Classes),
				"path":    cty.StringVal(b.Path),
			}))
		}
	}

	faults := make([]cty.Value, 0, len(plan.Faults))
	for _, f := range plan.Faults {
		faults = append(faults, cty.ObjectVal(map[string]cty.Value{
			"module": cty.StringVal(f.Module),
			"cause":  cty.StringVal(f.Cause()),
		}))
	}

	return cty.ObjectVal(map[string]cty.Value{
		"platform": cty.StringVal(string(plan.Platform)),
		"selected": stringList(plan.Selected),
		"skipped":  tupleOf(skipped),
		"options":  tupleOf(options),
		"docs":     tupleOf(docs),
		"faults":   tupleOf(faults),
		"flags":    flagsObject(plan.Flags),
	})
}

// tupleOf keeps heterogeneous element types (choices lists may be empty
// for some options and not for others).
func tupleOf(vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(vals)
}
