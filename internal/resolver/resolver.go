package resolver

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/specialistvlad/modresolve/internal/ctxlog"
	"github.com/specialistvlad/modresolve/internal/docs"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/module"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/zclconf/go-cty/cty"
)

// OverrideSource supplies user overrides once the merged option schema is
// known, before any module is configured.
type OverrideSource interface {
	Overrides(ctx context.Context, schema *option.Schema) (map[string]cty.Value, error)
}

// OverrideFunc adapts a function to OverrideSource.
type OverrideFunc func(ctx context.Context, schema *option.Schema) (map[string]cty.Value, error)

// Overrides implements OverrideSource.
func (f OverrideFunc) Overrides(ctx context.Context, schema *option.Schema) (map[string]cty.Value, error) {
	return f(ctx, schema)
}

type config struct {
	overrides OverrideSource
}

// Option customises Resolve.
type Option func(*config)

// WithOverrides sets the source of user option overrides.
func WithOverrides(src OverrideSource) Option {
	return func(c *config) { c.overrides = src }
}

// Resolve builds the plan for descriptors under e. On success e is frozen.
// The context is checked between modules in every pass. On failure the
// plan is nil and e may already hold seeded defaults, overrides or writes
// of earlier configure hooks; it must not be reused for another Resolve.
func Resolve(ctx context.Context, descriptors []module.Descriptor, e *env.Environment, opts ...Option) (*Plan, error) {
	if e == nil {
		return nil, errors.New("resolve: nil environment")
	}
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	ctx = ctxlog.With(ctx, "platform", e.Platform())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolution started.", "descriptors", len(descriptors))

	if err := precheck(descriptors, e); err != nil {
		return nil, err
	}

	plan := &Plan{Platform: e.Platform()}

	selected, err := selectModules(ctx, descriptors, e.Snapshot(), plan)
	if err != nil {
		return nil, err
	}

	schema, err := mergeOptions(ctx, descriptors, selected, e.Platform())
	if err != nil {
		return nil, err
	}
	plan.Options = schema
	if err := applyOptionValues(ctx, schema, e, cfg.overrides); err != nil {
		return nil, err
	}

	if err := configureModules(ctx, selected, e); err != nil {
		return nil, err
	}
	plan.Flags = e.Flags()

	plan.Docs = collectDocs(selected)

	logger.Info("Resolution finished.", "selected", len(plan.Selected), "skipped", len(plan.Skipped), "options", schema.Len(), "doc_bindings", plan.Docs.Len())
	return plan, nil
}

func precheck(descriptors []module.Descriptor, e *env.Environment) error {
	if !platform.IsKnown(e.Platform()) {
		return &platform.UnknownPlatformError{Platform: string(e.Platform())}
	}
	if e.Frozen() {
		return fmt.Errorf("resolve: %w", env.ErrFrozen)
	}
	seen := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		if d == nil {
			return errors.New("resolve: nil descriptor")
		}
		if _, dup := seen[d.Name()]; dup {
			return &DuplicateModuleError{Name: d.Name()}
		}
		seen[d.Name()] = struct{}{}
		if err := module.Validate(d, e.Platform()); err != nil {
			return err
		}
	}
	return nil
}

// selectModules is pass 1.
func selectModules(ctx context.Context, descriptors []module.Descriptor, snap *env.Snapshot, plan *Plan) ([]module.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)
	var selected []module.Descriptor
	for _, d := range descriptors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, fault := module.SafeCanBuild(d, snap)
		switch {
		case fault != nil:
			logger.Warn("Module predicate faulted; treating as not buildable.", "module", d.Name(), "cause", fault.Cause())
			plan.Faults = append(plan.Faults, fault)
			plan.Skipped = append(plan.Skipped, Skip{Module: d.Name(), Reason: ReasonFault})
		case ok:
			logger.Debug("Module selected.", "module", d.Name())
			selected = append(selected, d)
			plan.Selected = append(plan.Selected, d.Name())
		default:
			logger.Debug("Module skipped.", "module", d.Name())
			plan.Skipped = append(plan.Skipped, Skip{Module: d.Name(), Reason: ReasonPredicate})
		}
	}
	return selected, nil
}

// mergeOptions is pass 2. Declarations of selected modules for p form the
// schema. Every other declaration of every descriptor is recorded as
// dormant, so an override for it is ignored instead of rejected.
func mergeOptions(ctx context.Context, descriptors, selected []module.Descriptor, p platform.ID) (*option.Schema, error) {
	schema := option.NewSchema()
	for _, d := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, decl := range module.OptionsOf(d, p) {
			if !decl.AppliesTo(p) {
				continue
			}
			if err := schema.Add(d.Name(), decl); err != nil {
				return nil, err
			}
		}
	}
	for _, d := range descriptors {
		for _, decl := range module.OptionsOf(d, p) {
			schema.AddDormant(d.Name(), decl.Name)
		}
	}
	return schema, nil
}

// applyOptionValues seeds defaults, checks values already present in the
// Environment against their declarations and applies user overrides.
func applyOptionValues(ctx context.Context, schema *option.Schema, e *env.Environment, src OverrideSource) error {
	logger := ctxlog.FromContext(ctx)
	for _, entry := range schema.All() {
		if cur, ok := e.Flag(entry.Name); ok {
			v, err := coerce(entry.Declaration, cur)
			if err != nil {
				return err
			}
			if err := e.Override(entry.Name, v); err != nil {
				return err
			}
			continue
		}
		if _, err := e.Seed(entry.Name, entry.Default); err != nil {
			return err
		}
	}

	if src == nil {
		return nil
	}
	overrides, err := src.Overrides(ctx, schema)
	if err != nil {
		return fmt.Errorf("read option overrides: %w", err)
	}
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		entry, ok := schema.Lookup(name)
		if !ok {
			if owner, dormant := schema.Dormant(name); dormant {
				logger.Debug("Override ignored; its module is not part of the build.", "option", name, "module", owner)
				continue
			}
			return &option.UnknownOptionError{Name: name}
		}
		v, err := coerce(entry.Declaration, overrides[name])
		if err != nil {
			return err
		}
		if err := e.Override(name, v); err != nil {
			return err
		}
		logger.Debug("Option overridden.", "option", name, "module", entry.Module)
	}
	return nil
}

// coerce converts raw flag text into the declared type. Command-line and
// profile values arrive untyped, so "yes" may be a bool and "true" a string.
func coerce(d option.Declaration, v cty.Value) (cty.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal, d.Check(v)
	}
	switch {
	case d.Kind == option.KindBool && v.Type() == cty.String:
		return d.Parse(v.AsString())
	case d.Kind != option.KindBool && v.Type() == cty.Bool:
		return d.Parse(strconv.FormatBool(v.True()))
	}
	if err := d.Check(v); err != nil {
		return cty.NilVal, err
	}
	return v, nil
}

// configureModules is pass 3. The Environment is frozen whatever the
// outcome: a failed configure pass abandons the build.
func configureModules(ctx context.Context, selected []module.Descriptor, e *env.Environment) error {
	defer e.Freeze()
	logger := ctxlog.FromContext(ctx)
	for _, d := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		w, err := e.Open(d.Name())
		if err != nil {
			return err
		}
		err = module.Configure(ctxlog.With(ctx, "module", d.Name()), d, w)
		w.Close()
		if err != nil {
			logger.Error("Configure hook failed.", "module", d.Name(), "error", err)
			return &ConfigureHookError{Module: d.Name(), Err: err}
		}
		logger.Debug("Module configured.", "module", d.Name())
	}
	return nil
}

// collectDocs is pass 4.
func collectDocs(selected []module.Descriptor) *docs.Table {
	table := docs.NewTable()
	for _, d := range selected {
		classes, path := module.DocsOf(d)
		table.Add(d.Name(), classes, path)
	}
	return table
}
