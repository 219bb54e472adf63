// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package env holds the build Environment: the target platform, the host
// the build runs on, and the open-ended set of feature flags that drive
// module inclusion and configuration.
//
// Reads are always allowed. Writes go through a Window, which the resolver
// opens for exactly one module at a time while that module's configure hook
// runs. Once every selected module is configured the Environment is frozen
// and no further window can be opened.
package env

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrFrozen is returned when a write window is requested after the
	// configure pass has finished.
	ErrFrozen = errors.New("environment is frozen")
	// ErrWindowBusy is returned when a second write window is requested
	// while another module still holds one.
	ErrWindowBusy = errors.New("environment write window already open")
	// ErrWindowClosed is returned by writes through a window whose module
	// has finished configuring.
	ErrWindowClosed = errors.New("environment write window is closed")
)

// Reader is the read-only view every descriptor receives.
type Reader interface {
	Platform() platform.ID
	Host() string
	// Flag returns the raw flag value and whether it is set.
	Flag(name string) (cty.Value, bool)
	// Bool reads a flag as a boolean. Unset flags read as false.
	Bool(name string) bool
	// String reads a flag as a string. Unset flags read as "".
	String(name string) string
	// Flags returns a copy of every set flag.
	Flags() map[string]cty.Value
}

// Environment is the single mutable build environment of one resolution.
type Environment struct {
	platform platform.ID
	host     string
	flags    map[string]cty.Value

	window *Window
	frozen bool
}

// New validates the platform and flag values and returns a fresh
// Environment.
func New(target, host string, flags map[string]cty.Value) (*Environment, error) {
	id, err := platform.Parse(target)
	if err != nil {
		return nil, err
	}
	e := &Environment{
		platform: id,
		host:     strings.ToLower(host),
		flags:    make(map[string]cty.Value, len(flags)),
	}
	for _, name := range slices.Sorted(maps.Keys(flags)) {
		v, err := normalize(name, flags[name])
		if err != nil {
			return nil, err
		}
		e.flags[name] = v
	}
	return e, nil
}

// Platform implements Reader.
func (e *Environment) Platform() platform.ID { return e.platform }

// Host implements Reader.
func (e *Environment) Host() string { return e.host }

// Flag implements Reader.
func (e *Environment) Flag(name string) (cty.Value, bool) {
	v, ok := e.flags[name]
	return v, ok
}

// Bool implements Reader.
func (e *Environment) Bool(name string) bool { return asBool(e.flags[name]) }

// String implements Reader.
func (e *Environment) String(name string) string { return asString(e.flags[name]) }

// Flags implements Reader.
func (e *Environment) Flags() map[string]cty.Value { return maps.Clone(e.flags) }

// Names returns the names of all set flags, sorted.
func (e *Environment) Names() []string { return slices.Sorted(maps.Keys(e.flags)) }

// Frozen reports whether the configure pass has finished.
func (e *Environment) Frozen() bool { return e.frozen }

// Freeze makes the Environment read-only for good.
func (e *Environment) Freeze() {
	if e.window != nil {
		e.window.Close()
	}
	e.frozen = true
}

// Snapshot returns an immutable copy of the current state. The selection
// pass evaluates every predicate against the same snapshot.
func (e *Environment) Snapshot() *Snapshot {
	return &Snapshot{platform: e.platform, host: e.host, flags: maps.Clone(e.flags)}
}

// Open grants owner exclusive write access until the returned window is
// closed.
func (e *Environment) Open(owner string) (*Window, error) {
	if e.frozen {
		return nil, ErrFrozen
	}
	if e.window != nil {
		return nil, fmt.Errorf("%w (held by %q)", ErrWindowBusy, e.window.owner)
	}
	e.window = &Window{env: e, owner: owner}
	return e.window, nil
}

// Seed sets name to v only when the flag is not already set. It is used to
// apply option defaults before any module is configured.
func (e *Environment) Seed(name string, v cty.Value) (bool, error) {
	if e.frozen {
		return false, ErrFrozen
	}
	if _, ok := e.flags[name]; ok {
		return false, nil
	}
	nv, err := normalize(name, v)
	if err != nil {
		return false, err
	}
	e.flags[name] = nv
	return true, nil
}

// Override sets name to v regardless of its current value. It is only
// valid before the configure pass begins.
func (e *Environment) Override(name string, v cty.Value) error {
	if e.frozen {
		return ErrFrozen
	}
	if e.window != nil {
		return fmt.Errorf("%w (held by %q)", ErrWindowBusy, e.window.owner)
	}
	nv, err := normalize(name, v)
	if err != nil {
		return err
	}
	e.flags[name] = nv
	return nil
}

// Snapshot is an immutable Reader.
type Snapshot struct {
	platform platform.ID
	host     string
	flags    map[string]cty.Value
}

// Platform implements Reader.
func (s *Snapshot) Platform() platform.ID { return s.platform }

// Host implements Reader.
func (s *Snapshot) Host() string { return s.host }

// Flag implements Reader.
func (s *Snapshot) Flag(name string) (cty.Value, bool) {
	v, ok := s.flags[name]
	return v, ok
}

// Bool implements Reader.
func (s *Snapshot) Bool(name string) bool { return asBool(s.flags[name]) }

// String implements Reader.
func (s *Snapshot) String(name string) string { return asString(s.flags[name]) }

// Flags implements Reader.
func (s *Snapshot) Flags() map[string]cty.Value { return maps.Clone(s.flags) }

// Window is a module's temporary write access to the Environment. It also
// reads through to the live Environment, so a module sees what earlier
// modules wrote.
type Window struct {
	env    *Environment
	owner  string
	closed bool
}

// Owner returns the name of the module holding the window.
func (w *Window) Owner() string { return w.owner }

// Set writes a flag.
func (w *Window) Set(name string, v cty.Value) error {
	if w.closed {
		return ErrWindowClosed
	}
	nv, err := normalize(name, v)
	if err != nil {
		return err
	}
	w.env.flags[name] = nv
	return nil
}

// SetBool is shorthand for Set with a bool value.
func (w *Window) SetBool(name string, b bool) error { return w.Set(name, cty.BoolVal(b)) }

// SetString is shorthand for Set with a string value.
func (w *Window) SetString(name, s string) error { return w.Set(name, cty.StringVal(s)) }

// Unset removes a flag.
func (w *Window) Unset(name string) error {
	if w.closed {
		return ErrWindowClosed
	}
	delete(w.env.flags, name)
	return nil
}

// Close ends the window. It is safe to call more than once.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	if w.env.window == w {
		w.env.window = nil
	}
}

// Platform implements Reader.
func (w *Window) Platform() platform.ID { return w.env.Platform() }

// Host implements Reader.
func (w *Window) Host() string { return w.env.Host() }

// Flag implements Reader.
func (w *Window) Flag(name string) (cty.Value, bool) { return w.env.Flag(name) }

// Bool implements Reader.
func (w *Window) Bool(name string) bool { return w.env.Bool(name) }

// String implements Reader.
func (w *Window) String(name string) string { return w.env.String(name) }

// Flags implements Reader.
func (w *Window) Flags() map[string]cty.Value { return w.env.Flags() }

var (
	_ Reader = (*Environment)(nil)
	_ Reader = (*Snapshot)(nil)
	_ Reader = (*Window)(nil)
)
