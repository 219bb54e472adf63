// Package config defines the format-agnostic model of module manifests,
// along with the Loader interface that reads manifests from some source.
//
// The `config.Model` is what the registry binds into module descriptors.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
