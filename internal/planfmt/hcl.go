package planfmt

import (
	"io"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/modresolve/internal/resolver"
	"github.com/zclconf/go-cty/cty"
)

// RenderHCL writes the plan as an HCL document:
//
//	platform = "linuxbsd"
//	selected = ["camera", "gridmap"]
//	skipped "webrtc" { reason = "..." }
//	option "minimp3_extra_formats" { module = "minimp3" ... }
//	doc "gridmap" { classes = [...] path = "doc_classes" }
//	fault "broken" { cause = "..." }
//	flags = { ... }
func RenderHCL(w io.Writer, plan *resolver.Plan) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("platform", cty.StringVal(string(plan.Platform)))
	body.SetAttributeValue("selected", stringList(plan.Selected))

	for _, s := range plan.Skipped {
		body.AppendNewline()
		b := body.AppendNewBlock("skipped", []string{s.Module}).Body()
		b.SetAttributeValue("reason", cty.StringVal(s.Reason))
	}

	if plan.Options != nil {
		for _, entry := range plan.Options.All() {
			body.AppendNewline()
			b := body.AppendNewBlock("option", []string{entry.Name}).Body()
			b.SetAttributeValue("module", cty.StringVal(entry.Module))
			b.SetAttributeValue("type", cty.StringVal(entry.Kind.String()))
			if entry.Description != "" {
				b.SetAttributeValue("description", cty.StringVal(entry.Description))
			}
			if len(entry.Choices) > 0 {
				b.SetAttributeValue("choices", stringList(entry.Choices))
			}
			b.SetAttributeValue("default", entry.Default)
			if v, ok := plan.Flags[entry.Name]; ok {
				b.SetAttributeValue("value", v)
			}
		}
	}

	if plan.Docs != nil {
		for _, binding := range plan.Docs.Bindings() {
			body.AppendNewline()
			b := body.AppendNewBlock("doc", []string{binding.Module}).Body()
			b.SetAttributeValue("classes", stringList(binding.Classes))
			b.SetAttributeValue("path", cty.StringVal(binding.Path))
		}
	}

	for _, fault := range plan.Faults {
		body.AppendNewline()
		b := body.AppendNewBlock("fault", []string{fault.Module}).Body()
		b.SetAttributeValue("cause", cty.StringVal(fault.Cause()))
	}

	body.AppendNewline()
	body.SetAttributeValue("flags", flagsObject(plan.Flags))

	_, err := w.Write(hclwrite.Format(f.Bytes()))
	return err
}

func stringList(ss []string) cty.Value {
	if len(ss) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(ss))
	for i, s := range ss {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

// flagsObject returns flags as an object with sorted attributes.
func flagsObject(flags map[string]cty.Value) cty.Value {
	if len(flags) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(flags))
	for _, k := range slices.Sorted(maps.Keys(flags)) {
		attrs[k] = flags[k]
	}
	return cty.ObjectVal(attrs)
}
