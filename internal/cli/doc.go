// Package cli is the command-line layer: cobra commands that load the build
// profile, construct the app and map failures onto exit codes.
package cli
