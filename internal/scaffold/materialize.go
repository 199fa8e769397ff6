package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrFilesystem matches every *FilesystemError.
var ErrFilesystem = errors.New("filesystem error")

// Operations reported by FilesystemError.
const (
	OpCreateDir = "create directory"
	OpWriteFile = "write file"
)

// FilesystemError reports a directory creation or file write that failed.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("could not %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

func (e *FilesystemError) Is(target error) bool { return target == ErrFilesystem }

// Result holds the outcome of materializing a project.
type Result struct {
	BaseDir string
	Files   []string
}

// Materialize creates every layout directory, then writes every file in the
// set below layout.Base. The first failure aborts; whatever was already
// written stays on disk.
func Materialize(layout Layout, files *FileSet) (*Result, error) {
	for _, dir := range layout.Dirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &FilesystemError{Op: OpCreateDir, Path: dir, Err: err}
		}
	}

	result := &Result{BaseDir: layout.Base}
	for _, rel := range files.Paths() {
		content, _ := files.Get(rel)
		outPath := filepath.Join(layout.Base, filepath.FromSlash(rel))

		// Destinations outside the fixed skeleton get their parent created.
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return nil, &FilesystemError{Op: OpCreateDir, Path: filepath.Dir(outPath), Err: err}
		}
		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return nil, &FilesystemError{Op: OpWriteFile, Path: outPath, Err: err}
		}
		result.Files = append(result.Files, rel)
	}
	return result, nil
}
