package planfmt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/module"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/planfmt"
	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/specialistvlad/modresolve/internal/resolver"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func samplePlan(t *testing.T) *resolver.Plan {
	t.Helper()
	mods := []module.Descriptor{
		&module.Spec{
			ID: "minimp3",
			OptionsFn: func(platform.ID) []option.Declaration {
				return []option.Declaration{option.Bool("minimp3_extra_formats", "Build minimp3 with MP1/MP2 decoding support", false)}
			},
			ConfigureFn: func(_ context.Context, w *env.Window) error {
				return w.SetString("MINIMP3_BACKEND", "builtin")
			},
			Classes: []string{"AudioStreamMP3", "ResourceImporterMP3"},
			Path:    "doc_classes",
		},
		&module.Spec{ID: "camera", CanBuildFn: module.ExcludePlatform(platform.LinuxBSD)},
		&module.Spec{ID: "broken", CanBuildFn: func(env.Reader) bool { panic("boom") }},
	}
	e, err := env.New("linuxbsd", "linux", map[string]cty.Value{"pixel_engine": cty.False})
	require.NoError(t, err)
	plan, err := resolver.Resolve(context.Background(), mods, e)
	require.NoError(t, err)
	return plan
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	for _, f := range planfmt.Formats {
		got, err := planfmt.ParseFormat(" " + string(f) + " ")
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	got, err := planfmt.ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, planfmt.FormatJSON, got)

	_, err = planfmt.ParseFormat("yaml")
	require.ErrorContains(t, err, `invalid format "yaml"`)
}

func TestRenderHCL(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, planfmt.Render(&buf, samplePlan(t), planfmt.FormatHCL))

	out := buf.String()
	require.Contains(t, out, `platform = "linuxbsd"`)
	require.Contains(t, out, `selected = ["minimp3"]`)
	require.Contains(t, out, `skipped "camera" {`)
	require.Contains(t, out, `option "minimp3_extra_formats" {`)
	require.Contains(t, out, `doc "minimp3" {`)
	require.Contains(t, out, `fault "broken" {`)

	// The rendered document is itself valid HCL.
	file, diags := hclsyntax.ParseConfig(buf.Bytes(), "plan.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), diags.Error())
	attrs, diags := file.Body.(*hclsyntax.Body).Attributes["flags"].Expr.Value(nil)
	require.False(t, diags.HasErrors())
	require.Equal(t, "builtin", attrs.GetAttr("MINIMP3_BACKEND").AsString())
	require.True(t, attrs.GetAttr("minimp3_extra_formats").False())
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, planfmt.Render(&buf, samplePlan(t), planfmt.FormatJSON))

	var doc struct {
		Platform string   `json:"platform"`
		Selected []string `json:"selected"`
		Skipped  []struct {
			Module string `json:"module"`
			Reason string `json:"reason"`
		} `json:"skipped"`
		Options []struct {
			Name   string `json:"name"`
			Module string `json:"module"`
			Value  any    `json:"value"`
		} `json:"options"`
		Docs []struct {
			Module  string   `json:"module"`
			Classes []string `json:"classes"`
			Path    string   `json:"path"`
		} `json:"docs"`
		Faults []struct {
			Module string `json:"module"`
			Cause  string `json:"cause"`
		} `json:"faults"`
		Flags map[string]any `json:"flags"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Equal(t, "linuxbsd", doc.Platform)
	require.Equal(t, []string{"minimp3"}, doc.Selected)
	require.Len(t, doc.Skipped, 2)
	require.Equal(t, "camera", doc.Skipped[0].Module)
	require.Equal(t, resolver.ReasonFault, doc.Skipped[1].Reason)
	require.Len(t, doc.Options, 1)
	require.Equal(t, false, doc.Options[0].Value)
	require.Equal(t, []string{"AudioStreamMP3", "ResourceImporterMP3"}, doc.Docs[0].Classes)
	require.Equal(t, "boom", doc.Faults[0].Cause)
	require.Equal(t, "builtin", doc.Flags["MINIMP3_BACKEND"])
	require.Equal(t, false, doc.Flags["pixel_engine"])
}

func TestRenderText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, planfmt.Render(&buf, samplePlan(t), planfmt.FormatText))

	out := buf.String()
	require.Contains(t, out, "Build plan for linuxbsd")
	require.Contains(t, out, "Modules (1 selected, 2 skipped):")
	require.Contains(t, out, "✓ minimp3")
	require.Contains(t, out, "✗ camera (can_build returned false)")
	require.Contains(t, out, "minimp3_extra_formats = false  [bool, from minimp3]")
	require.Contains(t, out, "minimp3: AudioStreamMP3, ResourceImporterMP3 (doc_classes)")
	require.Contains(t, out, "broken: boom")
	require.Contains(t, out, `MINIMP3_BACKEND = "builtin"`)
	require.NotContains(t, out, "\x1b[", "no escape codes when not writing to a terminal")
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()
	require.Error(t, planfmt.Render(&bytes.Buffer{}, samplePlan(t), planfmt.Format("xml")))
}
