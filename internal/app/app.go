package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/modresolve/internal/config"
	"github.com/specialistvlad/modresolve/internal/ctxlog"
	"github.com/specialistvlad/modresolve/internal/module"
	"github.com/specialistvlad/modresolve/internal/registry"
	"github.com/specialistvlad/modresolve/internal/settings"
)

// App encapsulates the application's dependencies, settings and the bound
// module descriptors.
type App struct {
	outW        io.Writer
	logger      *slog.Logger
	settings    *settings.Settings
	registry    *registry.Registry
	model       *config.Model
	descriptors []module.Descriptor
}

// NewApp loads the manifests under the configured modules path, registers
// the Go modules (the built-in set when none are given) and binds the two.
// Rendered output goes to outW, logs to logW.
func NewApp(ctx context.Context, outW, logW io.Writer, s *settings.Settings, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(s.LogLevel, s.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, s.ModulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load module manifests: %w", err)
	}
	if len(model.Modules) == 0 {
		logger.Warn("No module manifests found.", "path", s.ModulesPath)
	}
	logger.Debug("Manifests loaded into unified model.", "modules", len(model.Modules))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	descriptors, err := reg.Bind(ctx, model)
	if err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:        outW,
		logger:      logger,
		settings:    s,
		registry:    reg,
		model:       model,
		descriptors: descriptors,
	}, nil
}

// Context returns ctx carrying the app's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Descriptors returns the bound descriptors in registration order.
func (a *App) Descriptors() []module.Descriptor {
	return a.descriptors
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Settings returns the settings the app was built with.
func (a *App) Settings() *settings.Settings {
	return a.settings
}
