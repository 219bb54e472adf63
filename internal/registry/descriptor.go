package registry

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/modresolve/internal/config"
	"github.com/specialistvlad/modresolve/internal/ctxlog"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/hclutil"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/platform"
)

// PredicateError is returned when a manifest's can_build expression cannot
// be evaluated to a bool. The resolver records it as a predicate fault.
type PredicateError struct {
	Module string
	Err    error
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("module %q: can_build: %v", e.Module, e.Err)
}

func (e *PredicateError) Unwrap() error { return e.Err }

// Descriptor is a module descriptor backed by a manifest definition and an
// optional Go hook.
type Descriptor struct {
	def  *config.ModuleDefinition
	hook Hook
}

// Name implements module.Descriptor.
func (d *Descriptor) Name() string { return d.def.Name }

// Description returns the manifest's description.
func (d *Descriptor) Description() string { return d.def.Description }

// Source returns the manifest file the descriptor was loaded from.
func (d *Descriptor) Source() string { return d.def.Source }

// CanBuild implements module.Descriptor. An expression that fails to
// evaluate reads as false; CheckBuild reports why.
func (d *Descriptor) CanBuild(e env.Reader) bool {
	ok, _ := d.CheckBuild(e)
	return ok
}

// CheckBuild implements module.Checker. Evaluation failures are returned
// as a *PredicateError.
func (d *Descriptor) CheckBuild(e env.Reader) (bool, error) {
	if d.def.CanBuild == nil {
		return true, nil
	}
	ok, err := hclutil.EvalBool(d.def.CanBuild, e)
	if err != nil {
		return false, &PredicateError{Module: d.def.Name, Err: err}
	}
	return ok, nil
}

// Options implements module.OptionProvider. Platform filtering is left to
// the caller.
func (d *Descriptor) Options(platform.ID) []option.Declaration {
	return slices.Clone(d.def.Options)
}

// Configure implements module.Configurer: manifest defines are written in
// order, then the Go hook runs.
func (d *Descriptor) Configure(ctx context.Context, w *env.Window) error {
	logger := ctxlog.FromContext(ctx)
	for _, def := range d.def.Defines {
		v, err := hclutil.EvalFlagValue(def.Value, w)
		if err != nil {
			return fmt.Errorf("define %q: %w", def.Name, err)
		}
		if err := w.Set(def.Name, v); err != nil {
			return fmt.Errorf("define %q: %w", def.Name, err)
		}
		logger.Debug("Define written.", "define", def.Name)
	}
	if d.hook == nil {
		return nil
	}
	logger.Debug("Running configure hook.", "hook", d.def.Configure)
	return d.hook(ctx, w)
}

// DocClasses implements module.DocProvider.
func (d *Descriptor) DocClasses() []string {
	if d.def.Doc == nil {
		return nil
	}
	return slices.Clone(d.def.Doc.Classes)
}

// DocPath implements module.DocProvider.
func (d *Descriptor) DocPath() string {
	if d.def.Doc == nil {
		return ""
	}
	return d.def.Doc.Path
}
