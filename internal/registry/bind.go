package registry

import (
	"context"

	"github.com/specialistvlad/modresolve/internal/config"
	"github.com/specialistvlad/modresolve/internal/ctxlog"
	"github.com/specialistvlad/modresolve/internal/module"
)

// Bind validates the registry against model and returns one descriptor per
// manifest definition, in manifest order.
func (r *Registry) Bind(ctx context.Context, model *config.Model) ([]module.Descriptor, error) {
	if err := r.ValidateRegistry(ctx, model); err != nil {
		return nil, err
	}

	descriptors := make([]module.Descriptor, 0, len(model.Modules))
	for _, def := range model.Modules {
		d := &Descriptor{def: def}
		if def.Configure != "" {
			d.hook = r.hooks[def.Configure]
		}
		descriptors = append(descriptors, d)
	}
	ctxlog.FromContext(ctx).Debug("Manifests bound to descriptors.", "count", len(descriptors))
	return descriptors, nil
}

var (
	_ module.Descriptor     = (*Descriptor)(nil)
	_ module.Checker        = (*Descriptor)(nil)
	_ module.OptionProvider = (*Descriptor)(nil)
	_ module.Configurer     = (*Descriptor)(nil)
	_ module.DocProvider    = (*Descriptor)(nil)
)
