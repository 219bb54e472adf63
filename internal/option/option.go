// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package option defines build-time option declarations and the merged
// schema built from every selected module's declarations.
//
// A Declaration is a plain value: name, description, typed default, and for
// enums the allowed choices. Names are global; the Schema refuses a second
// declaration of a name already contributed by another module instead of
// letting the later one win.
package option

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the value type of an option.
type Kind int

const (
	KindBool Kind = iota + 1
	KindString
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// CtyType returns the cty type values of this kind are stored as.
func (k Kind) CtyType() cty.Type {
	if k == KindBool {
		return cty.Bool
	}
	return cty.String
}

// Declaration is one build-time option contributed by a module.
type Declaration struct {
	Name        string
	Description string
	Kind        Kind
	Default     cty.Value
	// Choices lists the allowed values of an enum option.
	Choices []string
	// Platforms restricts the declaration to some targets. Empty means all.
	Platforms []platform.ID
}

// Bool declares a boolean option.
func Bool(name, description string, def bool) Declaration {
	return Declaration{Name: name, Description: description, Kind: KindBool, Default: cty.BoolVal(def)}
}

// String declares a free-form string option.
func String(name, description, def string) Declaration {
	return Declaration{Name: name, Description: description, Kind: KindString, Default: cty.StringVal(def)}
}

// Enum declares a string option restricted to choices.
func Enum(name, description, def string, choices ...string) Declaration {
	return Declaration{
		Name:        name,
		Description: description,
		Kind:        KindEnum,
		Default:     cty.StringVal(def),
		Choices:     slices.Clone(choices),
	}
}

// On returns a copy of d restricted to the given platforms.
func (d Declaration) On(platforms ...platform.ID) Declaration {
	d.Platforms = slices.Clone(platforms)
	return d
}

// AppliesTo reports whether d is declared for target p.
func (d Declaration) AppliesTo(p platform.ID) bool {
	return len(d.Platforms) == 0 || slices.Contains(d.Platforms, p)
}

// Validate checks the declaration is self-consistent.
func (d Declaration) Validate() error {
	if !hclsyntax.ValidIdentifier(d.Name) {
		return fmt.Errorf("option %q: name must be a valid identifier", d.Name)
	}
	switch d.Kind {
	case KindBool, KindString:
	case KindEnum:
		if len(d.Choices) == 0 {
			return fmt.Errorf("option %q: enum declares no choices", d.Name)
		}
	default:
		return fmt.Errorf("option %q: unsupported kind %s", d.Name, d.Kind)
	}
	if err := d.Check(d.Default); err != nil {
		return fmt.Errorf("option %q: invalid default: %w", d.Name, err)
	}
	for _, p := range d.Platforms {
		if !platform.IsKnown(p) {
			return &platform.UnknownPlatformError{Platform: string(p)}
		}
	}
	return nil
}

// Check reports whether v is an acceptable value for d.
func (d Declaration) Check(v cty.Value) error {
	if v.IsNull() || !v.IsKnown() {
		return &InvalidValueError{Option: d.Name, Reason: "value must be known and non-null"}
	}
	if !v.Type().Equals(d.Kind.CtyType()) {
		return &InvalidValueError{
			Option: d.Name,
			Reason: fmt.Sprintf("got %s, want %s", v.Type().FriendlyName(), d.Kind),
		}
	}
	if d.Kind == KindEnum && !slices.Contains(d.Choices, v.AsString()) {
		return &InvalidValueError{
			Option: d.Name,
			Value:  v.AsString(),
			Reason: "must be one of " + strings.Join(d.Choices, ", "),
		}
	}
	return nil
}

// Parse converts a raw user-supplied value into a typed value for d.
func (d Declaration) Parse(raw string) (cty.Value, error) {
	switch d.Kind {
	case KindBool:
		b, ok := env.ParseBool(raw)
		if !ok {
			return cty.NilVal, &InvalidValueError{Option: d.Name, Value: raw, Reason: "not a boolean"}
		}
		return cty.BoolVal(b), nil
	default:
		v := cty.StringVal(raw)
		if err := d.Check(v); err != nil {
			return cty.NilVal, err
		}
		return v, nil
	}
}

// InvalidValueError is returned when a value does not fit a declaration.
type InvalidValueError struct {
	Option string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("option %q: invalid value %q: %s", e.Option, e.Value, e.Reason)
	}
	return fmt.Sprintf("option %q: %s", e.Option, e.Reason)
}

// UnknownOptionError is returned for an override naming no declared option.
type UnknownOptionError struct {
	Name string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q", e.Name)
}
