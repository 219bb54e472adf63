// Package app contains the core application logic. It wires manifests,
// registered Go hooks and the build profile into a resolvable set of module
// descriptors, decoupled from any specific entrypoint like a CLI.
package app
