// Package cli defines the Cobra command tree for the cdkinit CLI. The root
// command creates a project; config and version are the only subcommands.
// Commands parse flags, wire the internal packages together and format
// output. They are the only place that writes errors to stderr.
package cli
