// Package pipeline runs the project creation workflow: validate the name,
// load templates, write the project tree and optionally install
// dependencies. Every failure comes back as a *StageError naming the step
// that failed.
package pipeline
