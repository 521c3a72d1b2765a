package symbols

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/M7MD889/vscode-scss/internal/scss"
)

// NoOffset disables scoped extraction.
const NoOffset = -1

var reReferenceComment = regexp.MustCompile(`//\s*<reference\s*path=["'](.*)['"]\s*/?>`)

// ExtractOptions controls Extract.
type ExtractOptions struct {
	// Offset, when not NoOffset, adds the symbols scoped to the blocks that
	// enclose it.
	Offset int

	// Strict makes parse failures return a *ParseError instead of an empty
	// record.
	Strict bool
}

// Extract parses text and returns the symbol record for the document at path.
// path should already be normalized; import targets are resolved against its
// directory.
func Extract(path, text string, opts ExtractOptions) (*Document, error) {
	doc := &Document{Path: path}

	root, err := scss.Parse(text)
	if err != nil {
		if opts.Strict {
			return nil, &ParseError{Path: path, Err: err}
		}
		root = nil
	}

	if root != nil {
		collectTopLevel(doc, root)
		if opts.Offset != NoOffset {
			collectScoped(doc, root, opts.Offset)
		}
	}

	for _, m := range reReferenceComment.FindAllStringSubmatch(text, -1) {
		imp := newImport(m[1])
		imp.Reference = true
		doc.Imports = append(doc.Imports, imp)
	}
	resolveImports(doc)
	assignPositions(doc, NewLineIndex(text))

	return doc, nil
}

func collectTopLevel(doc *Document, root *scss.Node) {
	for _, n := range root.Children {
		switch n.Kind {
		case scss.KindVariable:
			doc.Variables = append(doc.Variables, variableOf(n))
		case scss.KindMixin:
			if n.Name != "" {
				doc.Mixins = append(doc.Mixins, mixinOf(n))
			}
		case scss.KindFunction:
			if n.Name != "" {
				doc.Functions = append(doc.Functions, Function(mixinOf(n)))
			}
		case scss.KindImport:
			for _, p := range n.Imports {
				if n.Name != "import" && strings.HasPrefix(p.Path, "sass:") {
					continue
				}
				imp := newImport(p.Path)
				imp.CSS = imp.CSS || p.URL
				doc.Imports = append(doc.Imports, imp)
			}
		}
	}
}

// collectScoped walks down the blocks enclosing offset and prepends what each
// of them declares before offset, innermost scope first.
func collectScoped(doc *Document, root *scss.Node, offset int) {
	var (
		vars   []Variable
		mixins []Mixin
		funcs  []Function
	)

	block := root
	for {
		var inner *scss.Node
		for _, n := range block.Children {
			if n.Contains(offset) {
				inner = n
				break
			}
		}
		if inner == nil {
			break
		}

		if inner.Kind == scss.KindMixin || inner.Kind == scss.KindFunction {
			for _, p := range inner.Params {
				vars = append(vars, Variable{Name: p.Name, Value: p.Default, Offset: p.Offset})
			}
		}
		for _, n := range inner.Children {
			if n.Start >= offset {
				break
			}
			switch n.Kind {
			case scss.KindVariable:
				vars = append(vars, variableOf(n))
			case scss.KindMixin:
				if n.Name != "" {
					mixins = append(mixins, mixinOf(n))
				}
			case scss.KindFunction:
				if n.Name != "" {
					funcs = append(funcs, Function(mixinOf(n)))
				}
			}
		}
		block = inner
	}

	reverse(vars)
	reverse(mixins)
	reverse(funcs)
	doc.Variables = append(vars, doc.Variables...)
	doc.Mixins = append(mixins, doc.Mixins...)
	doc.Functions = append(funcs, doc.Functions...)
}

func variableOf(n *scss.Node) Variable {
	return Variable{Name: n.Name, Value: n.Value, Offset: n.NameStart}
}

func mixinOf(n *scss.Node) Mixin {
	params := make([]Parameter, 0, len(n.Params))
	for _, p := range n.Params {
		params = append(params, Parameter{Name: p.Name, Default: p.Default})
	}
	return Mixin{Name: n.Name, Parameters: params, Offset: n.NameStart}
}

func newImport(raw string) Import {
	lower := strings.ToLower(raw)
	return Import{
		Filepath: raw,
		CSS: strings.HasSuffix(lower, ".css") ||
			strings.HasPrefix(lower, "http://") ||
			strings.HasPrefix(lower, "https://") ||
			strings.HasPrefix(raw, "//"),
		Dynamic: strings.Contains(raw, "#{") || strings.Contains(raw, "*"),
	}
}

// resolveImports makes local import targets absolute relative to the
// document's directory and appends the .scss extension where it is missing.
func resolveImports(doc *Document) {
	dir := filepath.Dir(doc.Path)
	for i := range doc.Imports {
		imp := &doc.Imports[i]
		if imp.Dynamic || isRemote(imp.Filepath) {
			continue
		}
		target := filepath.FromSlash(imp.Filepath)
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		if !imp.CSS {
			if ext := strings.ToLower(filepath.Ext(target)); ext != ".scss" && ext != ".sass" {
				target += ".scss"
			}
		}
		imp.Filepath = target
	}
}

func isRemote(p string) bool {
	return strings.HasPrefix(p, "//") || strings.Contains(p, "://")
}

func assignPositions(doc *Document, lines *LineIndex) {
	for i := range doc.Variables {
		doc.Variables[i].Position = lines.PositionAt(doc.Variables[i].Offset)
	}
	for i := range doc.Mixins {
		doc.Mixins[i].Position = lines.PositionAt(doc.Mixins[i].Offset)
	}
	for i := range doc.Functions {
		doc.Functions[i].Position = lines.PositionAt(doc.Functions[i].Offset)
	}
}

// ImportCandidates lists the files an import target may refer to, in lookup
// order: the file itself, its partial, then the directory index forms.
func ImportCandidates(target string) []string {
	dir, base := filepath.Split(target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidates := []string{target}
	if !strings.HasPrefix(base, "_") {
		candidates = append(candidates, filepath.Join(dir, "_"+base))
	}
	return append(candidates,
		filepath.Join(dir, stem, "_index"+ext),
		filepath.Join(dir, stem, "index"+ext),
	)
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
