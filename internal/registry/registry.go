package registry

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/modresolve/internal/env"
)

// Hook is a Go configure hook. It runs during the configure pass, after the
// manifest's own defines, and may only write through w.
type Hook func(ctx context.Context, w *env.Window) error

// Module is the interface that all Go module packages implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered configure hooks for a single application
// instance.
type Registry struct {
	hooks map[string]Hook
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{hooks: make(map[string]Hook)}
}

// RegisterHook registers a Go configure hook under name. Registering a name
// twice is a programming error and panics.
func (r *Registry) RegisterHook(name string, hook Hook) {
	if hook == nil {
		panic(fmt.Sprintf("configure hook '%s' is nil", name))
	}
	if _, exists := r.hooks[name]; exists {
		panic(fmt.Sprintf("configure hook with name '%s' already registered", name))
	}
	slog.Debug("Registering configure hook.", "name", name)
	r.hooks[name] = hook
}

// Hook returns the hook registered under name.
func (r *Registry) Hook(name string) (Hook, bool) {
	h, ok := r.hooks[name]
	return h, ok
}

// HookNames returns the registered hook names, sorted.
func (r *Registry) HookNames() []string {
	return slices.Sorted(maps.Keys(r.hooks))
}
