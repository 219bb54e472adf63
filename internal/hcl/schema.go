package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all top-level blocks of a manifest.
type fileRoot struct {
	Modules []*moduleBlock `hcl:"module,block"`
}

// moduleBlock maps a `module "<name>" { ... }` block.
type moduleBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	CanBuild    hcl.Expression `hcl:"can_build,optional"`
	Configure   string         `hcl:"configure,optional"`
	Options     []*optionBlock `hcl:"option,block"`
	Defines     []*defineBlock `hcl:"define,block"`
	// Remain holds the `doc` block, which may appear at most once.
	Remain    hcl.Body  `hcl:",remain"`
	DeclRange hcl.Range `hcl:",def_range"`
}

// optionBlock maps an `option "<name>" { ... }` block.
type optionBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Platforms   []string       `hcl:"platforms,optional"`
	DeclRange   hcl.Range      `hcl:",def_range"`
}

// defineBlock maps a `define "<name>" { value = ... }` block.
type defineBlock struct {
	Name      string         `hcl:"name,label"`
	Value     hcl.Expression `hcl:"value"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

// docBlock maps the `doc { ... }` block.
type docBlock struct {
	Classes []string `hcl:"classes,optional"`
	Path    string   `hcl:"path,optional"`
}

var remainSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "doc"}},
}
