package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the longest accepted normalized name, in characters.
const MaxLength = 100

var (
	// ErrInvalidName matches every *InvalidNameError.
	ErrInvalidName = errors.New("invalid name")
	// ErrAlreadyExists matches every *AlreadyExistsError.
	ErrAlreadyExists = errors.New("already exists")
)

// AppNameSet holds every spelling of the project name used by the templates.
type AppNameSet struct {
	Raw        string // as typed by the user
	Normalized string // e.g., "my-cdk-app"; names the project directory
	Lower      string // e.g., "mycdkapp"; file names and package name
	Pascal     string // e.g., "MyCdkApp"; TypeScript class names
}

// InvalidNameError reports a name that fails validation.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid app name %q: %s", e.Name, e.Reason)
}

func (e *InvalidNameError) Is(target error) bool { return target == ErrInvalidName }

// AlreadyExistsError reports a destination directory collision.
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("directory %q already exists", e.Path)
}

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// Normalize validates raw and returns its normalized form: trimmed, with each
// space replaced by a hyphen. It does not touch the filesystem.
func Normalize(raw string) (string, error) {
	name := strings.TrimSpace(norm.NFC.String(raw))
	if name == "" {
		return "", &InvalidNameError{Name: raw, Reason: "cannot be empty"}
	}

	name = strings.ReplaceAll(name, " ", "-")

	if n := utf8.RuneCountInString(name); n > MaxLength {
		return "", &InvalidNameError{
			Name:   raw,
			Reason: fmt.Sprintf("too long (%d characters, max %d)", n, MaxLength),
		}
	}

	for _, r := range name {
		if !allowed(r) {
			return "", &InvalidNameError{
				Name:   raw,
				Reason: fmt.Sprintf("character %q not allowed; use letters, numbers, spaces, hyphens and underscores", r),
			}
		}
	}
	if lowerName(name) == "" {
		return "", &InvalidNameError{Name: raw, Reason: "must contain at least one letter or number"}
	}
	return name, nil
}

func allowed(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_'
}

// Derive builds the full name set from an already normalized name.
func Derive(normalized string) AppNameSet {
	return AppNameSet{
		Raw:        normalized,
		Normalized: normalized,
		Lower:      lowerName(normalized),
		Pascal:     pascalName(normalized),
	}
}

// Resolve normalizes raw, derives its variants and verifies that
// <root>/<normalized> does not exist yet. The check is not atomic with the
// later directory creation.
func Resolve(root, raw string) (*AppNameSet, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(root, normalized)
	if _, err := os.Lstat(target); err == nil {
		return nil, &AlreadyExistsError{Path: target}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", target, err)
	}

	names := Derive(normalized)
	names.Raw = raw
	return &names, nil
}

func lowerName(name string) string {
	stripped := strings.NewReplacer("-", "", "_", "").Replace(name)
	return cases.Lower(language.Und).String(stripped)
}

// pascalName upper-cases the first character of every hyphen-separated
// segment. Full case mapping applies, so "ß" becomes "SS".
func pascalName(name string) string {
	upper := cases.Upper(language.Und)
	var b strings.Builder
	for _, part := range strings.Split(name, "-") {
		if part == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(part)
		b.WriteString(upper.String(part[:size]))
		b.WriteString(part[size:])
	}
	return b.String()
}
