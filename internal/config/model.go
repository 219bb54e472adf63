package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/modresolve/internal/option"
)

// Model is the unified, format-agnostic representation of every loaded
// module manifest.
type Model struct {
	// Modules keeps manifest order: files in lexical path order, blocks in
	// source order.
	Modules []*ModuleDefinition
}

// Lookup returns the definition named name.
func (m *Model) Lookup(name string) (*ModuleDefinition, bool) {
	for _, def := range m.Modules {
		if def.Name == name {
			return def, true
		}
	}
	return nil, false
}

// Names returns module names in manifest order.
func (m *Model) Names() []string {
	names := make([]string, len(m.Modules))
	for i, def := range m.Modules {
		names[i] = def.Name
	}
	return names
}

// ModuleDefinition is the format-agnostic representation of a `module`
// manifest block.
type ModuleDefinition struct {
	Name        string
	Description string
	// CanBuild is nil when the manifest omits it; the module is then
	// buildable everywhere.
	CanBuild hcl.Expression
	// Configure names a Go hook registered with the registry, or "".
	Configure string
	Options   []option.Declaration
	Defines   []*DefineDefinition
	Doc       *DocDefinition
	// Source is the manifest file the definition came from.
	Source    string
	DeclRange hcl.Range
}

// DefineDefinition is a flag the module writes during the configure pass.
type DefineDefinition struct {
	Name  string
	Value hcl.Expression
}

// DocDefinition lists the classes a module documents and where their
// sources live, relative to the module directory.
type DocDefinition struct {
	Classes []string
	Path    string
}
