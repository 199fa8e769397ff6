package scaffold

import "path/filepath"

// Layout is the fixed directory skeleton of a generated project.
type Layout struct {
	Base   string
	Bin    string
	Lib    string
	Test   string
	Src    string
	Events string
}

// NewLayout roots the skeleton at <root>/<normalized>.
func NewLayout(root, normalized string) Layout {
	base := filepath.Join(root, normalized)
	return Layout{
		Base:   base,
		Bin:    filepath.Join(base, "bin"),
		Lib:    filepath.Join(base, "lib"),
		Test:   filepath.Join(base, "test"),
		Src:    filepath.Join(base, "src"),
		Events: filepath.Join(base, "events"),
	}
}

// Dirs returns every directory in creation order, base first.
func (l Layout) Dirs() []string {
	return []string{l.Base, l.Bin, l.Lib, l.Test, l.Src, l.Events}
}
