// Package planfmt renders a resolved build plan for humans and for the
// tools downstream of the resolver: styled text for terminals, HCL for the
// compiler driver, JSON for everything else.
package planfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/modresolve/internal/resolver"
)

// Format selects a plan rendering.
type Format string

const (
	FormatText Format = "text"
	FormatHCL  Format = "hcl"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatHCL, FormatJSON}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatHCL, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: must be one of text, hcl, json", s)
}

// Render writes plan to w in format f.
func Render(w io.Writer, plan *resolver.Plan, f Format) error {
	switch f {
	case FormatText:
		return RenderText(w, plan)
	case FormatHCL:
		return RenderHCL(w, plan)
	case FormatJSON:
		return RenderJSON(w, plan)
	default:
		return fmt.Errorf("invalid format %q", f)
	}
}
