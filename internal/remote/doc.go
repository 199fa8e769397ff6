// Package remote fetches the configuration documents that are not bundled
// with the binary. Fetches run concurrently and are joined; a failure is
// never retried.
package remote
