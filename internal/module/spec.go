package module

import (
	"context"
	"slices"

	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/platform"
)

// Spec is a descriptor assembled from optional function values, for
// modules written directly in Go. A nil CanBuildFn always builds.
type Spec struct {
	ID          string
	CanBuildFn  func(e env.Reader) bool
	OptionsFn   func(p platform.ID) []option.Declaration
	ConfigureFn func(ctx context.Context, w *env.Window) error
	Classes     []string
	Path        string
}

// Name implements Descriptor.
func (s *Spec) Name() string { return s.ID }

// CanBuild implements Descriptor.
func (s *Spec) CanBuild(e env.Reader) bool {
	if s.CanBuildFn == nil {
		return true
	}
	return s.CanBuildFn(e)
}

// Options implements OptionProvider.
func (s *Spec) Options(p platform.ID) []option.Declaration {
	if s.OptionsFn == nil {
		return nil
	}
	return s.OptionsFn(p)
}

// Configure implements Configurer.
func (s *Spec) Configure(ctx context.Context, w *env.Window) error {
	if s.ConfigureFn == nil {
		return nil
	}
	return s.ConfigureFn(ctx, w)
}

// DocClasses implements DocProvider.
func (s *Spec) DocClasses() []string { return slices.Clone(s.Classes) }

// DocPath implements DocProvider.
func (s *Spec) DocPath() string { return s.Path }

var (
	_ Descriptor     = (*Spec)(nil)
	_ OptionProvider = (*Spec)(nil)
	_ Configurer     = (*Spec)(nil)
	_ DocProvider    = (*Spec)(nil)
)
