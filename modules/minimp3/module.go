// Package minimp3 holds the Go side of the minimp3 module: the configure
// hook that turns the minimp3_extra_formats option into compile defines.
package minimp3

import (
	"context"

	"github.com/specialistvlad/modresolve/internal/ctxlog"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Flag names written by OnConfigureMinimp3.
const (
	DefineExtraFormats = "MINIMP3_EXTRA_FORMATS"
	DefineOnlyMP3      = "MINIMP3_ONLY_MP3"
)

// OnConfigureMinimp3 selects the decoder build: MP1/MP2 support when
// minimp3_extra_formats is on, MP3 only otherwise.
func OnConfigureMinimp3(ctx context.Context, w *env.Window) error {
	extra := w.Bool("minimp3_extra_formats")
	ctxlog.FromContext(ctx).Debug("Configuring minimp3.", "extra_formats", extra)
	if extra {
		return w.SetBool(DefineExtraFormats, true)
	}
	return w.SetBool(DefineOnlyMP3, true)
}

// Register registers the hook with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHook("OnConfigureMinimp3", OnConfigureMinimp3)
}
