package planfmt

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/modresolve/internal/resolver"
	"github.com/zclconf/go-cty/cty"
)

type textStyles struct {
	header   lipgloss.Style
	selected lipgloss.Style
	skipped  lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	warn     lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		selected: r.NewStyle().Foreground(lipgloss.Color("42")),
		skipped:  r.NewStyle().Foreground(lipgloss.Color("245")),
		label:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		value:    r.NewStyle().Foreground(lipgloss.Color("252")),
		warn:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

// RenderText writes a styled, human-readable summary of the plan. Colors
// are only emitted when w is a terminal.
func RenderText(w io.Writer, plan *resolver.Plan) error {
	st := newTextStyles(w)
	var sb strings.Builder

	sb.WriteString(st.header.Render("Build plan for " + string(plan.Platform)))
	sb.WriteString("\n\n")

	sb.WriteString(st.label.Render(fmt.Sprintf("Modules (%d selected, %d skipped):", len(plan.Selected), len(plan.Skipped))))
	sb.WriteString("\n")
	for _, name := range plan.Selected {
		sb.WriteString(st.selected.Render("  ✓ " + name))
		sb.WriteString("\n")
	}
	for _, s := range plan.Skipped {
		sb.WriteString(st.skipped.Render(fmt.Sprintf("  ✗ %s (%s)", s.Module, s.Reason)))
		sb.WriteString("\n")
	}

	if plan.Options != nil && plan.Options.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(st.label.Render("Options:"))
		sb.WriteString("\n")
		for _, entry := range plan.Options.All() {
			value := entry.Default
			if v, ok := plan.Flags[entry.Name]; ok {
				value = v
			}
			line := fmt.Sprintf("  • %s = %s  [%s, from %s]", entry.Name, literal(value), entry.Kind, entry.Module)
			if entry.Description != "" {
				line += " - " + entry.Description
			}
			sb.WriteString(st.value.Render(line))
			sb.WriteString("\n")
		}
	}

	if plan.Docs != nil && plan.Docs.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(st.label.Render("Documentation:"))
		sb.WriteString("\n")
		for _, b := range plan.Docs.Bindings() {
			path := b.Path
			if path == "" {
				path = "<no path>"
			}
			sb.WriteString(st.value.Render(fmt.Sprintf("  • %s: %s (%s)", b.Module, strings.Join(b.Classes, ", "), path)))
			sb.WriteString("\n")
		}
	}

	if len(plan.Faults) > 0 {
		sb.WriteString("\n")
		sb.WriteString(st.warn.Render("Predicate faults:"))
		sb.WriteString("\n")
		for _, f := range plan.Faults {
			sb.WriteString(st.value.Render(fmt.Sprintf("  • %s: %s", f.Module, f.Cause())))
			sb.WriteString("\n")
		}
	}

	if len(plan.Flags) > 0 {
		sb.WriteString("\n")
		sb.WriteString(st.label.Render("Flags:"))
		sb.WriteString("\n")
		for _, k := range slices.Sorted(maps.Keys(plan.Flags)) {
			sb.WriteString(st.value.Render(fmt.Sprintf("  %s = %s", k, literal(plan.Flags[k]))))
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// literal renders v the way it would be written in a manifest.
func literal(v cty.Value) string {
	return string(hclwrite.TokensForValue(v).Bytes())
}
