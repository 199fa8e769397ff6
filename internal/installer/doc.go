// Package installer runs the project's package manager after scaffolding.
// The Runner interface isolates subprocess execution so the workflow can be
// tested without spawning real processes.
package installer
