// Package assets holds the template bundle compiled into the binary and the
// Provider abstraction the loader reads it through. The bundle manifest lists
// every embedded asset with its destination path and is validated against an
// embedded JSON schema on load.
package assets
