// Package scss parses SCSS source into a coarse statement tree. It does not
// evaluate expressions; it only recognizes statement boundaries, blocks and the
// declarations the symbol index cares about (variables, mixins, functions,
// imports and includes). Offsets are byte offsets into the parsed source.
package scss

import "fmt"

// Kind identifies the statement a Node represents.
type Kind int

const (
	KindStylesheet Kind = iota
	KindVariable
	KindMixin
	KindFunction
	KindImport
	KindInclude
	KindAtRule
	KindRuleset
	KindDeclaration
)

var kindNames = map[Kind]string{
	KindStylesheet:  "stylesheet",
	KindVariable:    "variable",
	KindMixin:       "mixin",
	KindFunction:    "function",
	KindImport:      "import",
	KindInclude:     "include",
	KindAtRule:      "at_rule",
	KindRuleset:     "rule_set",
	KindDeclaration: "declaration",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is one statement of a stylesheet. Nodes are never mutated after Parse
// returns.
type Node struct {
	Kind Kind

	// Start is the offset of the first byte of the statement, End the offset
	// just past its terminator (';' or the closing '}').
	Start int
	End   int

	// Name holds the declared name: "$var" for variables, the mixin or
	// function name, the include target, or the at-rule keyword ("media").
	Name      string
	NameStart int

	// Value is the variable value with flags stripped, or the raw prelude for
	// other statements.
	Value string
	Flags []string

	Params  []Param
	Imports []ImportPath

	// Block reports whether the statement owns a { } body. BodyStart is the
	// offset just past the opening brace.
	Block     bool
	BodyStart int
	Children  []*Node
}

// Param is a declared mixin or function parameter.
type Param struct {
	Name    string
	Default string
	Offset  int
}

// ImportPath is one target of an @import, @use or @forward statement.
type ImportPath struct {
	Path   string
	Offset int
	URL    bool // written as url(...)
}

// Contains reports whether offset falls inside the node's body.
func (n *Node) Contains(offset int) bool {
	return n.Block && offset >= n.BodyStart && offset < n.End
}

// SyntaxError reports malformed source.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("scss: offset %d: %s", e.Offset, e.Msg)
}
