// Package symbols extracts the per-file symbol record the index is built from:
// variables, mixins, functions and import edges of one SCSS document.
package symbols

import "fmt"

// Kind names the three kinds of declarations the index tracks.
type Kind string

const (
	KindVariable Kind = "variable"
	KindMixin    Kind = "mixin"
	KindFunction Kind = "function"
)

// Position is a 0-based line and character (rune) offset.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Variable is a `$name: value` declaration.
type Variable struct {
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Offset   int      `json:"offset"`
	Position Position `json:"position"`
}

// Parameter is a declared mixin or function parameter. Default is empty when
// the parameter has none.
type Parameter struct {
	Name    string `json:"name"`
	Default string `json:"default,omitempty"`
}

// Mixin is a `@mixin` declaration.
type Mixin struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	Offset     int         `json:"offset"`
	Position   Position    `json:"position"`
}

// Function is a `@function` declaration. It shares the shape of Mixin.
type Function Mixin

// Import is one import edge. Filepath is absolute unless the import is CSS
// pointing at a URL or dynamic.
type Import struct {
	Filepath  string `json:"filepath"`
	CSS       bool   `json:"css"`
	Dynamic   bool   `json:"dynamic"`
	Reference bool   `json:"reference"`
}

// Followable reports whether the import points at a concrete stylesheet.
func (i Import) Followable() bool {
	return !i.CSS && !i.Dynamic
}

// Document is the symbol record of one file. A stored Document is never
// mutated; rescanning a file replaces it.
type Document struct {
	Path      string     `json:"path"`
	Variables []Variable `json:"variables"`
	Mixins    []Mixin    `json:"mixins"`
	Functions []Function `json:"functions"`
	Imports   []Import   `json:"imports"`
}

// ParseError reports a document that could not be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
