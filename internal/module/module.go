// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package module defines the contract every build module descriptor
// satisfies.
//
// Only Name and CanBuild are required. Everything else is an optional
// capability a descriptor opts into by implementing the matching
// interface; callers go through OptionsOf, Configure and DocsOf, which
// apply the empty / no-op defaults for descriptors that do not.
package module

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/platform"
)

// Descriptor is the required part of a module descriptor.
type Descriptor interface {
	Name() string
	// CanBuild decides whether the module participates in a build. It must
	// be pure: the same Reader state always yields the same answer.
	CanBuild(e env.Reader) bool
}

// OptionProvider is implemented by descriptors that contribute build-time
// options.
type OptionProvider interface {
	Options(p platform.ID) []option.Declaration
}

// Configurer is implemented by descriptors with a configure hook. The hook
// may write to the Environment through w and nothing else.
type Configurer interface {
	Configure(ctx context.Context, w *env.Window) error
}

// DocProvider is implemented by descriptors that own documentation.
type DocProvider interface {
	DocClasses() []string
	DocPath() string
}

// OptionsOf returns d's declarations for p, or nil.
func OptionsOf(d Descriptor, p platform.ID) []option.Declaration {
	if op, ok := d.(OptionProvider); ok {
		return op.Options(p)
	}
	return nil
}

// Configure runs d's configure hook, if any.
func Configure(ctx context.Context, d Descriptor, w *env.Window) error {
	if c, ok := d.(Configurer); ok {
		return c.Configure(ctx, w)
	}
	return nil
}

// DocsOf returns d's documented classes and documentation root.
func DocsOf(d Descriptor) (classes []string, path string) {
	if dp, ok := d.(DocProvider); ok {
		return dp.DocClasses(), dp.DocPath()
	}
	return nil, ""
}

// Checker is implemented by descriptors whose predicate can fail to
// evaluate, such as manifest expressions. CheckBuild reports the failure
// as an error; CanBuild of the same descriptor returns false for it.
type Checker interface {
	CheckBuild(e env.Reader) (bool, error)
}

// PredicateFault describes a predicate that failed to evaluate or
// panicked. It is a defect in the descriptor, reported but never surfaced
// as a resolution error.
type PredicateFault struct {
	Module string
	// Err is set when a Checker reported an evaluation error.
	Err error
	// Panic and Stack are set when the predicate panicked.
	Panic any
	Stack []byte
}

func (f *PredicateFault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("module %q: can_build failed: %v", f.Module, f.Err)
	}
	return fmt.Sprintf("module %q: can_build predicate panicked: %v", f.Module, f.Panic)
}

func (f *PredicateFault) Unwrap() error { return f.Err }

// Cause returns the evaluation error or the panic value as text.
func (f *PredicateFault) Cause() string {
	if f.Err != nil {
		return f.Err.Error()
	}
	return fmt.Sprint(f.Panic)
}

// SafeCanBuild evaluates d's predicate. An error from a Checker or a panic
// becomes false plus a fault.
func SafeCanBuild(d Descriptor, e env.Reader) (ok bool, fault *PredicateFault) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			fault = &PredicateFault{Module: d.Name(), Panic: r, Stack: debug.Stack()}
		}
	}()
	if c, isChecker := d.(Checker); isChecker {
		built, err := c.CheckBuild(e)
		if err != nil {
			return false, &PredicateFault{Module: d.Name(), Err: err}
		}
		return built, nil
	}
	return d.CanBuild(e), nil
}

// Validate checks d's static contract for target p.
func Validate(d Descriptor, p platform.ID) error {
	name := d.Name()
	if !hclsyntax.ValidIdentifier(name) {
		return fmt.Errorf("module %q: name must be a valid identifier", name)
	}
	seen := make(map[string]struct{})
	for _, decl := range OptionsOf(d, p) {
		if err := decl.Validate(); err != nil {
			return fmt.Errorf("module %q: %w", name, err)
		}
		if _, dup := seen[decl.Name]; dup {
			return fmt.Errorf("module %q: %w", name, &option.DuplicateOptionNameError{Name: decl.Name, First: name, Second: name})
		}
		seen[decl.Name] = struct{}{}
	}
	return nil
}
