package scaffold

import (
	"context"
	"fmt"
	"strings"

	"github.com/cdkinit/cdkinit/internal/assets"
	"github.com/cdkinit/cdkinit/internal/naming"
)

// Placeholder tokens replaced verbatim in templates and destination paths.
const (
	TokenLower  = "lowercase-name"
	TokenPascal = "pascalcase-name"
)

// Destinations of the remotely fetched documents.
const (
	TSConfigFile = "tsconfig.json"
	BiomeFile    = "biome.json"
)

// Fetcher retrieves remote documents concurrently, all or nothing.
type Fetcher interface {
	FetchAll(ctx context.Context, urls ...string) ([][]byte, error)
}

// Loader resolves the complete project file set.
type Loader struct {
	Assets      assets.Provider
	Fetcher     Fetcher
	TSConfigURL string
	BiomeURL    string
}

// Load reads every embedded asset listed in the bundle manifest, applies
// placeholder substitution and fetches the TypeScript and Biome
// configurations. Nothing touches the filesystem.
func (l *Loader) Load(ctx context.Context, names naming.AppNameSet) (*FileSet, error) {
	manifest, err := assets.LoadManifest(l.Assets)
	if err != nil {
		return nil, err
	}

	files := NewFileSet()
	for _, a := range manifest.Assets {
		content, err := assets.Read(l.Assets, a.Name)
		if err != nil {
			return nil, err
		}
		if a.Substitute {
			content = Substitute(content, names)
		}
		dest := string(Substitute([]byte(a.Dest), names))
		if err := files.Add(dest, content); err != nil {
			return nil, &assets.PackagingError{Asset: a.Name, Err: err}
		}
	}

	docs, err := l.Fetcher.FetchAll(ctx, l.TSConfigURL, l.BiomeURL)
	if err != nil {
		return nil, err
	}
	for i, dest := range []string{TSConfigFile, BiomeFile} {
		if err := files.Add(dest, docs[i]); err != nil {
			return nil, fmt.Errorf("adding remote document: %w", err)
		}
	}

	return files, nil
}

// Substitute replaces both placeholder tokens in a single pass. Replaced
// text is never scanned again.
func Substitute(content []byte, names naming.AppNameSet) []byte {
	r := strings.NewReplacer(TokenLower, names.Lower, TokenPascal, names.Pascal)
	return []byte(r.Replace(string(content)))
}
