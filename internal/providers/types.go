// Package providers answers editor-style queries (completion, hover,
// signature help, definition and workspace symbol search) against the
// symbols visible from a document.
package providers

import (
	"github.com/M7MD889/vscode-scss/internal/symbols"
)

// Document is an editor buffer. Text may differ from what is on disk.
type Document struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Range is a half-open span of positions.
type Range struct {
	Start symbols.Position `json:"start"`
	End   symbols.Position `json:"end"`
}

// Location points at a range inside a file.
type Location struct {
	Path  string `json:"path"`
	Range Range  `json:"range"`
}

// CompletionItem is one suggestion.
type CompletionItem struct {
	Label         string       `json:"label"`
	Kind          symbols.Kind `json:"kind"`
	Detail        string       `json:"detail,omitempty"`
	Documentation string       `json:"documentation,omitempty"`
	Document      string       `json:"document"`
	Depth         int          `json:"depth"`
}

// CompletionList is the result of Completion.
type CompletionList struct {
	Items []CompletionItem `json:"items"`
}

// HoverResult is the result of Hover. Contents is markdown.
type HoverResult struct {
	Contents   string   `json:"contents"`
	Range      Range    `json:"range"`
	Definition Location `json:"definition"`
}

// ParameterInformation is one parameter of a signature.
type ParameterInformation struct {
	Label string `json:"label"`
}

// SignatureInformation describes one callable.
type SignatureInformation struct {
	Label      string                 `json:"label"`
	Parameters []ParameterInformation `json:"parameters"`
}

// SignatureHelpResult is the result of SignatureHelp.
type SignatureHelpResult struct {
	Signatures      []SignatureInformation `json:"signatures"`
	ActiveSignature int                    `json:"activeSignature"`
	ActiveParameter int                    `json:"activeParameter"`
}

// SymbolInformation is one workspace symbol search hit.
type SymbolInformation struct {
	Name     string       `json:"name"`
	Kind     symbols.Kind `json:"kind"`
	Location Location     `json:"location"`
}
