// Package registry provides the glue between module manifests and Go code.
//
// The Registry stores mappings between the hook names used in manifests
// (e.g., "OnConfigureMinimp3") and the compiled Go functions that implement
// them. Bind turns the loaded, format-agnostic manifest definitions into
// module descriptors the resolver can work with.
//
// During application startup the registry is populated and then validated
// against the manifests, so a manifest naming a hook nobody registered is
// caught before any build is planned.
package registry
