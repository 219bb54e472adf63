// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package platform defines the closed set of target platforms a build can
// be resolved for.
package platform

import (
	"fmt"
	"slices"
	"strings"
)

// ID identifies a build target platform.
type ID string

// Known target platforms.
const (
	LinuxBSD ID = "linuxbsd"
	Linux    ID = "linux"
	FreeBSD  ID = "freebsd"
	MacOS    ID = "macos"
	Windows  ID = "windows"
	Android  ID = "android"
	IOS      ID = "ios"
	Web      ID = "web"
)

var known = []ID{Android, FreeBSD, IOS, Linux, LinuxBSD, MacOS, Web, Windows}

// UnknownPlatformError is returned when a platform identifier is not part
// of the known set.
type UnknownPlatformError struct {
	Platform string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform %q (known: %s)", e.Platform, strings.Join(Names(), ", "))
}

// Parse validates s against the known set. Matching is case-insensitive
// and the returned ID is always lower case.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if !IsKnown(id) {
		return "", &UnknownPlatformError{Platform: s}
	}
	return id, nil
}

// IsKnown reports whether id belongs to the known set.
func IsKnown(id ID) bool {
	return slices.Contains(known, id)
}

// All returns the known platforms, sorted.
func All() []ID {
	return slices.Clone(known)
}

// Names returns the known platform names, sorted.
func Names() []string {
	names := make([]string, len(known))
	for i, id := range known {
		names[i] = string(id)
	}
	return names
}

// Host maps a runtime.GOOS value onto a platform ID. The second return is
// false when the host OS has no matching target.
func Host(goos string) (ID, bool) {
	switch goos {
	case "linux":
		return LinuxBSD, true
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return FreeBSD, true
	case "darwin":
		return MacOS, true
	case "windows":
		return Windows, true
	case "android":
		return Android, true
	case "ios":
		return IOS, true
	case "js", "wasip1":
		return Web, true
	default:
		return "", false
	}
}
