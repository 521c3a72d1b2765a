// Package resolver computes the symbols a document can see by walking its
// import graph through the Store.
package resolver

import (
	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
)

// Entry is one visible symbol together with where it was found.
type Entry[T any] struct {
	Symbol   T      `json:"symbol"`
	Document string `json:"document"`
	Depth    int    `json:"depth"` // 0 = the start document
}

// VisibleSet is the result of a resolution. Entries of each kind are ordered
// by depth, then by BFS discovery order, then by declaration order.
type VisibleSet struct {
	Variables []Entry[symbols.Variable]
	Mixins    []Entry[symbols.Mixin]
	Functions []Entry[symbols.Function]

	// Documents lists the visited documents in BFS order, start first.
	Documents []string
}

// VisibleSymbols resolves the stored record of path. It returns nil when path
// has not been scanned.
func VisibleSymbols(path string, store storage.Reader) *VisibleSet {
	doc, ok := store.Get(path)
	if !ok {
		return nil
	}
	return Resolve(doc, store)
}

type queued struct {
	doc   *symbols.Document
	depth int
}

// Resolve walks the imports of start breadth-first. start need not be stored;
// providers pass a record freshly extracted from an editor buffer. Every
// document is visited at most once, so import cycles terminate.
func Resolve(start *symbols.Document, store storage.Reader) *VisibleSet {
	set := &VisibleSet{}
	seen := newShadowing()

	visited := map[string]bool{storage.NormalizePath(start.Path): true}
	queue := []queued{{doc: start}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		set.Documents = append(set.Documents, item.doc.Path)

		set.merge(item.doc, item.depth, seen)

		for _, imp := range item.doc.Imports {
			if !imp.Followable() {
				continue
			}
			target, ok := lookupImport(imp.Filepath, store)
			if !ok {
				continue
			}
			key := storage.NormalizePath(target.Path)
			if visited[key] {
				continue
			}
			visited[key] = true
			queue = append(queue, queued{doc: target, depth: item.depth + 1})
		}
	}

	return set
}

// lookupImport finds the stored record an import target refers to.
func lookupImport(target string, store storage.Reader) (*symbols.Document, bool) {
	for _, candidate := range symbols.ImportCandidates(target) {
		if doc, ok := store.Get(candidate); ok {
			return doc, true
		}
	}
	return nil, false
}

// shadowing tracks the names already claimed by earlier documents.
type shadowing struct {
	variables map[string]bool
	mixins    map[string]bool
	functions map[string]bool
}

func newShadowing() *shadowing {
	return &shadowing{
		variables: make(map[string]bool),
		mixins:    make(map[string]bool),
		functions: make(map[string]bool),
	}
}

// merge adds the symbols of doc that no earlier document shadows. Names are
// claimed only after the whole document is merged, so a document never
// shadows its own symbols.
func (s *VisibleSet) merge(doc *symbols.Document, depth int, seen *shadowing) {
	s.Variables = appendVisible(s.Variables, doc.Variables, doc.Path, depth, seen.variables,
		func(v symbols.Variable) string { return v.Name })
	s.Mixins = appendVisible(s.Mixins, doc.Mixins, doc.Path, depth, seen.mixins,
		func(m symbols.Mixin) string { return m.Name })
	s.Functions = appendVisible(s.Functions, doc.Functions, doc.Path, depth, seen.functions,
		func(f symbols.Function) string { return f.Name })
}

func appendVisible[T any](dst []Entry[T], src []T, path string, depth int, seen map[string]bool, name func(T) string) []Entry[T] {
	var claimed []string
	for _, sym := range src {
		n := name(sym)
		if seen[n] {
			continue
		}
		dst = append(dst, Entry[T]{Symbol: sym, Document: path, Depth: depth})
		claimed = append(claimed, n)
	}
	for _, n := range claimed {
		seen[n] = true
	}
	return dst
}

// Variable returns the winning entry for a variable name, with or without
// the leading '$'.
func (s *VisibleSet) Variable(name string) (Entry[symbols.Variable], bool) {
	if len(name) > 0 && name[0] != '$' {
		name = "$" + name
	}
	return find(s.Variables, name, func(v symbols.Variable) string { return v.Name })
}

func (s *VisibleSet) Mixin(name string) (Entry[symbols.Mixin], bool) {
	return find(s.Mixins, name, func(m symbols.Mixin) string { return m.Name })
}

func (s *VisibleSet) Function(name string) (Entry[symbols.Function], bool) {
	return find(s.Functions, name, func(f symbols.Function) string { return f.Name })
}

func find[T any](entries []Entry[T], name string, nameOf func(T) string) (Entry[T], bool) {
	for _, e := range entries {
		if nameOf(e.Symbol) == name {
			return e, true
		}
	}
	var zero Entry[T]
	return zero, false
}

// Symbol is a kind-independent view of a visible entry.
type Symbol struct {
	Name       string
	Kind       symbols.Kind
	Value      string // variables only
	Parameters []symbols.Parameter
	Offset     int
	Position   symbols.Position
	Document   string
	Depth      int
}

// Lookup resolves name as the given kind.
func (s *VisibleSet) Lookup(name string, kind symbols.Kind) (Symbol, bool) {
	switch kind {
	case symbols.KindVariable:
		if e, ok := s.Variable(name); ok {
			return Symbol{
				Name: e.Symbol.Name, Kind: kind, Value: e.Symbol.Value,
				Offset: e.Symbol.Offset, Position: e.Symbol.Position,
				Document: e.Document, Depth: e.Depth,
			}, true
		}
	case symbols.KindMixin:
		if e, ok := s.Mixin(name); ok {
			return callable(symbols.Function(e.Symbol), kind, e.Document, e.Depth), true
		}
	case symbols.KindFunction:
		if e, ok := s.Function(name); ok {
			return callable(e.Symbol, kind, e.Document, e.Depth), true
		}
	}
	return Symbol{}, false
}

func callable(f symbols.Function, kind symbols.Kind, doc string, depth int) Symbol {
	return Symbol{
		Name: f.Name, Kind: kind, Parameters: f.Parameters,
		Offset: f.Offset, Position: f.Position,
		Document: doc, Depth: depth,
	}
}
