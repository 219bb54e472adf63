package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/modresolve/internal/config"
	"github.com/specialistvlad/modresolve/internal/ctxlog"
	"github.com/specialistvlad/modresolve/internal/hclutil"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// isExprDefined checks if an HCL expression was actually present in the
// source. gohcl fills omitted optional expression fields with a zero-width
// placeholder, so a nil check is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

// translateModule converts a decoded module block into the agnostic model.
func (l *Loader) translateModule(ctx context.Context, b *moduleBlock, file string) (*config.ModuleDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("module", b.Name)
	var diags hcl.Diagnostics

	def := &config.ModuleDefinition{
		Name:        b.Name,
		Description: b.Description,
		Configure:   b.Configure,
		Source:      file,
		DeclRange:   b.DeclRange,
	}

	if isExprDefined(b.CanBuild) {
		diags = append(diags, hclutil.CheckExpression(b.CanBuild)...)
		def.CanBuild = b.CanBuild
	} else {
		logger.Debug("Module declares no can_build; it is buildable everywhere.")
	}

	seenOptions := make(map[string]hcl.Range)
	for _, o := range b.Options {
		if first, dup := seenOptions[o.Name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate option definition",
				Detail:   fmt.Sprintf("Option %q was already defined at %s.", o.Name, first),
				Subject:  o.DeclRange.Ptr(),
			})
			continue
		}
		seenOptions[o.Name] = o.DeclRange

		decl, optDiags, err := translateOption(o)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", b.Name, err)
		}
		diags = append(diags, optDiags...)
		if !optDiags.HasErrors() {
			def.Options = append(def.Options, decl)
		}
	}

	seenDefines := make(map[string]hcl.Range)
	for _, d := range b.Defines {
		if first, dup := seenDefines[d.Name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate define definition",
				Detail:   fmt.Sprintf("Define %q was already defined at %s.", d.Name, first),
				Subject:  d.DeclRange.Ptr(),
			})
			continue
		}
		seenDefines[d.Name] = d.DeclRange
		diags = append(diags, hclutil.CheckExpression(d.Value)...)
		def.Defines = append(def.Defines, &config.DefineDefinition{Name: d.Name, Value: d.Value})
	}

	doc, docDiags := translateDoc(b.Remain)
	diags = append(diags, docDiags...)
	def.Doc = doc

	if diags.HasErrors() {
		return nil, diags
	}
	logger.Debug("Translated module definition.", "options", len(def.Options), "defines", len(def.Defines), "has_doc", def.Doc != nil)
	return def, nil
}

// translateOption converts an option block into a declaration. Structural
// problems come back as diagnostics; an unknown platform name comes back
// as a typed error so callers can match it.
func translateOption(o *optionBlock) (option.Declaration, hcl.Diagnostics, error) {
	kind, choices, diags := hclutil.OptionType(o.Type)
	if diags.HasErrors() {
		return option.Declaration{}, diags, nil
	}

	decl := option.Declaration{
		Name:        o.Name,
		Description: o.Description,
		Kind:        kind,
		Choices:     choices,
		Default:     zeroDefault(kind, choices),
	}

	if isExprDefined(o.Default) {
		v, valDiags := o.Default.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return decl, diags, nil
		}
		v, err := convert.Convert(v, kind.CtyType())
		if err != nil || v.IsNull() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default value type",
				Detail:   fmt.Sprintf("The default for option %q must be a %s.", o.Name, kind),
				Subject:  o.Default.Range().Ptr(),
			})
			return decl, diags, nil
		}
		decl.Default = v
	}

	for _, name := range o.Platforms {
		id, err := platform.Parse(name)
		if err != nil {
			return decl, diags, fmt.Errorf("option %q: %w", o.Name, err)
		}
		decl.Platforms = append(decl.Platforms, id)
	}

	if err := decl.Validate(); err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid option",
			Detail:   err.Error(),
			Subject:  o.DeclRange.Ptr(),
		})
	}
	return decl, diags, nil
}

// zeroDefault is the default of an option that declares none: false, the
// empty string, or the first enum choice.
func zeroDefault(kind option.Kind, choices []string) cty.Value {
	switch kind {
	case option.KindBool:
		return cty.False
	case option.KindEnum:
		return cty.StringVal(choices[0])
	default:
		return cty.StringVal("")
	}
}

// translateDoc decodes the optional, unique `doc` block from the remaining
// module body.
func translateDoc(body hcl.Body) (*config.DocDefinition, hcl.Diagnostics) {
	if body == nil {
		return nil, nil
	}
	content, diags := body.Content(remainSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	block, blockDiags := hclutil.FindUniqueBlock(content.Blocks, "doc")
	diags = append(diags, blockDiags...)
	if block == nil || blockDiags.HasErrors() {
		return nil, diags
	}

	var doc docBlock
	decodeDiags := gohcl.DecodeBody(block.Body, nil, &doc)
	diags = append(diags, decodeDiags...)
	if decodeDiags.HasErrors() {
		return nil, diags
	}
	return &config.DocDefinition{Classes: doc.Classes, Path: doc.Path}, diags
}
