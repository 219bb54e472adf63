package module

import (
	"slices"

	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/platform"
)

// Predicate is a CanBuild policy.
type Predicate func(e env.Reader) bool

// ExcludePlatform builds everywhere except on p.
func ExcludePlatform(p platform.ID) Predicate {
	return func(e env.Reader) bool { return e.Platform() != p }
}

// OnlyPlatforms builds only on the listed platforms.
func OnlyPlatforms(ps ...platform.ID) Predicate {
	ps = slices.Clone(ps)
	return func(e env.Reader) bool { return slices.Contains(ps, e.Platform()) }
}

// ExcludeHost refuses to build when the host OS is one of hosts.
func ExcludeHost(hosts ...string) Predicate {
	hosts = slices.Clone(hosts)
	return func(e env.Reader) bool { return !slices.Contains(hosts, e.Host()) }
}

// NotFlag builds only while flag is false or unset.
func NotFlag(flag string) Predicate {
	return func(e env.Reader) bool { return !e.Bool(flag) }
}

// NoneOf builds only while every listed flag is false or unset.
func NoneOf(flags ...string) Predicate {
	flags = slices.Clone(flags)
	return func(e env.Reader) bool {
		for _, f := range flags {
			if e.Bool(f) {
				return false
			}
		}
		return true
	}
}

// All combines predicates with logical and.
func All(preds ...Predicate) Predicate {
	preds = slices.Clone(preds)
	return func(e env.Reader) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}
