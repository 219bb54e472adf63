// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package docs collects the documentation bindings of selected modules:
// which classes a module documents and where their sources live.
package docs

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

// Binding is one module's documentation contribution.
type Binding struct {
	Module  string
	Classes []string
	Path    string
}

// MissingDocPathError is returned for a module that declares documented
// classes but no documentation root. It only blocks documentation output.
type MissingDocPathError struct {
	Module  string
	Classes []string
}

func (e *MissingDocPathError) Error() string {
	return fmt.Sprintf("module %q declares %d documented classes but no documentation path", e.Module, len(e.Classes))
}

// Table is the merged, ordered set of bindings.
type Table struct {
	bindings []Binding
}

// NewTable returns an empty table.
func NewTable() *Table { return &Table{} }

// Add records a module's contribution. A module with neither classes nor a
// path contributes nothing.
func (t *Table) Add(module string, classes []string, path string) {
	if len(classes) == 0 && path == "" {
		return
	}
	t.bindings = append(t.bindings, Binding{Module: module, Classes: dedupe(classes), Path: path})
}

// Bindings returns every binding in module selection order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	for i, b := range t.bindings {
		out[i] = Binding{Module: b.Module, Classes: slices.Clone(b.Classes), Path: b.Path}
	}
	return out
}

// Lookup returns the binding of module.
func (t *Table) Lookup(module string) (Binding, bool) {
	for _, b := range t.bindings {
		if b.Module == module {
			return b, true
		}
	}
	return Binding{}, false
}

// Len returns the number of bindings.
func (t *Table) Len() int { return len(t.bindings) }

// Validate reports every module with classes but no path.
func (t *Table) Validate() error {
	var errs []error
	for _, b := range t.bindings {
		if len(b.Classes) > 0 && b.Path == "" {
			errs = append(errs, &MissingDocPathError{Module: b.Module, Classes: slices.Clone(b.Classes)})
		}
	}
	return errors.Join(errs...)
}

// Files maps every documented class to its source file under
// modulesRoot/<module>/<path>/<Class>.xml. A class documented by two
// modules is an error since the generator could not pick one.
func (t *Table) Files(modulesRoot string) (map[string]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	files := make(map[string]string)
	owner := make(map[string]string)
	for _, b := range t.bindings {
		for _, class := range b.Classes {
			if prev, ok := owner[class]; ok {
				return nil, fmt.Errorf("class %q documented by both module %q and module %q", class, prev, b.Module)
			}
			owner[class] = b.Module
			files[class] = filepath.Join(modulesRoot, b.Module, b.Path, class+".xml")
		}
	}
	return files, nil
}

func dedupe(classes []string) []string {
	seen := make(map[string]struct{}, len(classes))
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
