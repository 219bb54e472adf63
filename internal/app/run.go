package app

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/specialistvlad/modresolve/internal/ctxlog"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/module"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/planfmt"
	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/specialistvlad/modresolve/internal/resolver"
	"github.com/zclconf/go-cty/cty"
)

// Resolve builds a fresh Environment from the settings and resolves the
// bound descriptors. Option values from the profile are applied first;
// values parsed from args (`name=value` or `--name=value`) take precedence.
func (a *App) Resolve(ctx context.Context, args []string) (*resolver.Plan, error) {
	ctx = a.Context(ctx)

	flags, err := a.settings.FlagValues()
	if err != nil {
		return nil, err
	}
	profileOptions, err := a.settings.OptionValues()
	if err != nil {
		return nil, err
	}
	e, err := env.New(a.settings.Platform, a.settings.Host, flags)
	if err != nil {
		return nil, err
	}

	overrides := resolver.OverrideFunc(func(_ context.Context, schema *option.Schema) (map[string]cty.Value, error) {
		merged := make(map[string]cty.Value, len(profileOptions))
		maps.Copy(merged, profileOptions)
		cli, err := schema.ParseArgs(args)
		if err != nil {
			return nil, err
		}
		maps.Copy(merged, cli)
		return merged, nil
	})

	return resolver.Resolve(ctx, a.descriptors, e, resolver.WithOverrides(overrides))
}

// Plan resolves and renders the plan in the configured format.
func (a *App) Plan(ctx context.Context, args []string) error {
	plan, err := a.Resolve(ctx, args)
	if err != nil {
		return err
	}
	f, err := planfmt.ParseFormat(a.settings.Format)
	if err != nil {
		return err
	}
	return planfmt.Render(a.outW, plan, f)
}

// Options resolves without overrides and prints the switches the selected
// modules contribute.
func (a *App) Options(ctx context.Context) error {
	plan, err := a.Resolve(ctx, nil)
	if err != nil {
		return err
	}
	if plan.Options.Len() == 0 {
		_, err := fmt.Fprintln(a.outW, "No options for the selected modules.")
		return err
	}
	_, err = fmt.Fprint(a.outW, plan.Options.FlagSet("plan").FlagUsages())
	return err
}

// Docs resolves and prints each documented class with the file holding its
// documentation. A selected module with classes but no path fails with
// *docs.MissingDocPathError.
func (a *App) Docs(ctx context.Context, args []string) error {
	plan, err := a.Resolve(ctx, args)
	if err != nil {
		return err
	}
	if err := plan.Docs.Validate(); err != nil {
		return err
	}
	files, err := plan.Docs.Files(a.settings.ModulesPath)
	if err != nil {
		return err
	}
	for _, b := range plan.Docs.Bindings() {
		for _, class := range b.Classes {
			if _, err := fmt.Fprintf(a.outW, "%s\t%s\t%s\n", b.Module, class, files[class]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks every bound descriptor's static contract for every
// known platform, so a bad declaration on a platform nobody builds for
// today is still caught.
func (a *App) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(a.Context(ctx))
	var errs []error
	for _, p := range platform.All() {
		for _, d := range a.descriptors {
			if err := module.Validate(d, p); err != nil {
				logger.Debug("Descriptor failed validation.", "module", d.Name(), "platform", p, "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", p, err))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.outW, "%d modules valid for %d platforms.\n", len(a.descriptors), len(platform.All()))
	return err
}
