// Package naming validates the user-supplied project name and derives the
// spellings the templates need: the hyphenated directory name, the flat
// lower-case name and the PascalCase class name.
package naming
