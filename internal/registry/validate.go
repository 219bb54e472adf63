package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/modresolve/internal/config"
	"github.com/specialistvlad/modresolve/internal/ctxlog"
)

// ValidateRegistry performs a parity check between manifests and Go code.
// A manifest naming an unregistered hook is an error; a registered hook no
// manifest uses only draws a warning.
func (r *Registry) ValidateRegistry(ctx context.Context, model *config.Model) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	used := make(map[string]string)
	for _, def := range model.Modules {
		if def.Configure == "" {
			continue
		}
		if _, ok := r.hooks[def.Configure]; !ok {
			errs = append(errs, fmt.Sprintf("module '%s': manifest names configure hook '%s', but no Go hook is registered under that name", def.Name, def.Configure))
			continue
		}
		if other, shared := used[def.Configure]; shared {
			logger.Warn("Configure hook is shared by several modules.", "hook", def.Configure, "modules", []string{other, def.Name})
		}
		used[def.Configure] = def.Name
	}

	for _, name := range r.HookNames() {
		if _, ok := used[name]; !ok {
			logger.Warn("Registered configure hook is not referenced by any manifest.", "hook", name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
