package app

import (
	"github.com/specialistvlad/modresolve/internal/registry"
	"github.com/specialistvlad/modresolve/modules/minimp3"
)

// coreModules is the definitive list of Go modules compiled into the
// modresolve binary. Modules whose manifests need no Go hook are absent.
var coreModules = []registry.Module{
	&minimp3.Module{},
}
