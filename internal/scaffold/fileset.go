package scaffold

import (
	"fmt"
	"io/fs"
	"sort"
)

// FileSet maps destination paths, relative to the project root and
// slash-separated, to final file content. Entries cannot be replaced or
// removed once added.
type FileSet struct {
	files map[string][]byte
}

// NewFileSet returns an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{files: make(map[string][]byte)}
}

// Add records content for path. Adding a path twice, or a path that is not
// a clean relative path, is an error.
func (s *FileSet) Add(path string, content []byte) error {
	if !fs.ValidPath(path) || path == "." {
		return fmt.Errorf("invalid destination path %q", path)
	}
	if _, ok := s.files[path]; ok {
		return fmt.Errorf("duplicate destination path %q", path)
	}
	s.files[path] = content
	return nil
}

// Get returns the content recorded for path.
func (s *FileSet) Get(path string) ([]byte, bool) {
	content, ok := s.files[path]
	return content, ok
}

// Len returns the number of files in the set.
func (s *FileSet) Len() int { return len(s.files) }

// Paths returns every destination path in lexical order.
func (s *FileSet) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
