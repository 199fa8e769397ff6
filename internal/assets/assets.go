package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

// ErrPackaging matches every *PackagingError.
var ErrPackaging = errors.New("corrupted installation")

// The all: prefix keeps dotfiles such as .gitignore in the bundle.
//
//go:embed all:templates
var bundle embed.FS

// Provider is a read-only store of named template assets.
type Provider interface {
	// Get returns the raw content of the named asset.
	Get(name string) ([]byte, error)
}

// PackagingError reports an asset the bundle should contain but does not,
// or bundle metadata that cannot be used. It indicates a broken build,
// never a user mistake.
type PackagingError struct {
	Asset string
	Err   error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("installation corrupted: template %q unusable: %v", e.Asset, e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }

func (e *PackagingError) Is(target error) bool { return target == ErrPackaging }

// FSProvider serves assets from an fs.FS. In production the FS comes from
// go:embed; in tests use testing/fstest.MapFS.
type FSProvider struct {
	FS fs.FS
}

// Get reads name from the underlying filesystem.
func (p FSProvider) Get(name string) ([]byte, error) {
	data, err := fs.ReadFile(p.FS, name)
	if err != nil {
		return nil, &PackagingError{Asset: name, Err: err}
	}
	return data, nil
}

// Read fetches name from p and reports any failure as a *PackagingError,
// whatever the provider returned.
func Read(p Provider, name string) ([]byte, error) {
	data, err := p.Get(name)
	if err != nil {
		if errors.Is(err, ErrPackaging) {
			return nil, err
		}
		return nil, &PackagingError{Asset: name, Err: err}
	}
	return data, nil
}

// Embedded returns the provider backed by the templates compiled into the
// binary.
func Embedded() Provider {
	sub, err := fs.Sub(bundle, "templates")
	if err != nil {
		// fs.Sub only fails on an invalid directory name.
		panic(err)
	}
	return FSProvider{FS: sub}
}
