// Package config manages user-level settings stored at ~/.cdkinit/config.yaml
// and CDKINIT_* environment variables. It provides the remote document URLs,
// the package manager used for dependency installation and the HTTP timeout.
package config
