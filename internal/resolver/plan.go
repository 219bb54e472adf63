package resolver

import (
	"github.com/specialistvlad/modresolve/internal/docs"
	"github.com/specialistvlad/modresolve/internal/module"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/zclconf/go-cty/cty"
)

// Skip records a module left out of the build.
type Skip struct {
	Module string
	Reason string
}

// Skip reasons.
const (
	ReasonPredicate = "can_build returned false"
	ReasonFault     = "can_build faulted"
)

// Plan is the resolved build plan.
type Plan struct {
	Platform platform.ID
	// Selected lists module names in registration order.
	Selected []string
	Skipped  []Skip
	Options  *option.Schema
	Docs     *docs.Table
	// Flags is the frozen flag state after every module was configured.
	Flags  map[string]cty.Value
	Faults []*module.PredicateFault
}

// IsSelected reports whether name is part of the build.
func (p *Plan) IsSelected(name string) bool {
	for _, s := range p.Selected {
		if s == name {
			return true
		}
	}
	return false
}
