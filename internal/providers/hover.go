package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/M7MD889/vscode-scss/internal/resolver"
	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
)

// Hover describes the symbol under offset. It returns nil when the cursor is
// not on a symbol or the symbol is not visible from doc.
func Hover(doc Document, offset int, store storage.Reader) (*HoverResult, error) {
	r, err := newRequest(doc, offset, store, false)
	if err != nil {
		return nil, err
	}

	sym, tok, ok := r.resolveToken()
	if !ok {
		return nil, nil
	}

	return &HoverResult{
		Contents:   renderSymbol(sym),
		Range:      r.rangeOfToken(tok),
		Definition: locationOf(sym),
	}, nil
}

// Definition returns where the symbol under offset is declared, or nil.
func Definition(doc Document, offset int, store storage.Reader) (*Location, error) {
	r, err := newRequest(doc, offset, store, false)
	if err != nil {
		return nil, err
	}

	sym, _, ok := r.resolveToken()
	if !ok {
		return nil, nil
	}
	loc := locationOf(sym)
	return &loc, nil
}

func (r *request) resolveToken() (resolver.Symbol, token, bool) {
	tok, ok := r.tokenAt()
	if !ok {
		return resolver.Symbol{}, token{}, false
	}
	sym, ok := r.visible.Lookup(tok.name, tok.kind)
	return sym, tok, ok
}

func locationOf(sym resolver.Symbol) Location {
	return Location{Path: sym.Document, Range: rangeOf(sym.Position, sym.Name)}
}

// renderSymbol formats a declaration summary as markdown.
func renderSymbol(sym resolver.Symbol) string {
	var decl string
	switch sym.Kind {
	case symbols.KindVariable:
		decl = fmt.Sprintf("%s: %s;", sym.Name, sym.Value)
	case symbols.KindMixin:
		decl = fmt.Sprintf("@mixin %s {…}", signatureLabel(sym.Name, sym.Parameters))
	case symbols.KindFunction:
		decl = fmt.Sprintf("@function %s {…}", signatureLabel(sym.Name, sym.Parameters))
	}

	var b strings.Builder
	b.WriteString("```scss\n")
	b.WriteString(decl)
	b.WriteString("\n```\n")
	fmt.Fprintf(&b, "Declared in %s:%d:%d", filepath.Base(sym.Document), sym.Position.Line+1, sym.Position.Character+1)
	return b.String()
}
