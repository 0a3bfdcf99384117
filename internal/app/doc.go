// Package app wires application dependencies for the CLI.
//
// It loads the YAML Config, builds the concrete stores, codec and services
// from it, and exposes them via the Wire struct for commands to use.
package app
