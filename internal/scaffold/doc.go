// Package scaffold turns a validated project name into a CDK project on
// disk. The Loader resolves every embedded and remote template into a
// FileSet; Materialize creates the directory Layout and writes the set.
package scaffold
