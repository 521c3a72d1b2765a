package providers

import (
	"strings"
	"unicode/utf8"

	"github.com/M7MD889/vscode-scss/internal/resolver"
	"github.com/M7MD889/vscode-scss/internal/scss"
	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
)

// request is the state every provider starts from: the buffer, the record
// extracted at the cursor and the symbols visible from it.
type request struct {
	path    string
	text    string
	offset  int
	lines   *symbols.LineIndex
	visible *resolver.VisibleSet
}

// newRequest extracts doc with scoped symbols at offset and resolves its
// visible set. A buffer that does not parse, usually because a call or block
// is still being typed, is recovered by recoverRecord. With strict set the
// parse error is returned instead.
func newRequest(doc Document, offset int, store storage.Reader, strict bool) (*request, error) {
	path := storage.NormalizePath(doc.Path)
	offset = max(0, min(offset, len(doc.Text)))

	record, err := symbols.Extract(path, doc.Text, symbols.ExtractOptions{Offset: offset, Strict: true})
	if err != nil {
		if strict {
			return nil, err
		}
		record = recoverRecord(path, doc.Text, offset, store)
	}

	return &request{
		path:    path,
		text:    doc.Text,
		offset:  offset,
		lines:   symbols.NewLineIndex(doc.Text),
		visible: resolver.Resolve(record, store),
	}, nil
}

// recoverRecord extracts the text before offset with its open constructs
// closed, keeping the scoped symbols at the cursor. Imports of the stored
// record that the prefix does not repeat are added. When the prefix does not
// parse either, the stored record of the same path is used as is.
func recoverRecord(path, text string, offset int, store storage.Reader) *symbols.Document {
	stored, ok := store.Get(path)
	if !ok {
		stored = &symbols.Document{Path: path}
	}

	record, err := symbols.Extract(path, scss.CloseOpen(text[:offset]), symbols.ExtractOptions{Offset: offset, Strict: true})
	if err != nil {
		return stored
	}

	seen := make(map[string]bool, len(record.Imports))
	for _, imp := range record.Imports {
		seen[imp.Filepath] = true
	}
	for _, imp := range stored.Imports {
		if !seen[imp.Filepath] {
			seen[imp.Filepath] = true
			record.Imports = append(record.Imports, imp)
		}
	}
	return record
}

// token is the symbol reference under the cursor.
type token struct {
	name       string
	kind       symbols.Kind
	start, end int
}

// tokenAt finds the variable, mixin or function name around offset. Plain
// identifiers such as property names are not tokens.
func (r *request) tokenAt() (token, bool) {
	text := r.text
	start, end := r.offset, r.offset
	// Cursor on the '$' of a variable.
	if start < len(text) && text[start] == '$' && (start == 0 || !scss.IsNameByte(text[start-1])) {
		start, end = start+1, start+1
	}
	for start > 0 && scss.IsNameByte(text[start-1]) {
		start--
	}
	for end < len(text) && scss.IsNameByte(text[end]) {
		end++
	}

	if start > 0 && text[start-1] == '$' {
		if start == end {
			return token{}, false
		}
		return token{name: text[start-1 : end], kind: symbols.KindVariable, start: start - 1, end: end}, true
	}
	if start == end {
		return token{}, false
	}

	name := text[start:end]
	switch keyword := precedingKeyword(text, start); keyword {
	case "include", "mixin":
		return token{name: name, kind: symbols.KindMixin, start: start, end: end}, true
	case "function":
		return token{name: name, kind: symbols.KindFunction, start: start, end: end}, true
	}

	if next := skipSpacesForward(text, end); next < len(text) && text[next] == '(' {
		return token{name: name, kind: symbols.KindFunction, start: start, end: end}, true
	}
	return token{}, false
}

// precedingKeyword returns the at-rule keyword directly before the name at
// start, skipping a module namespace ("@include ns.name").
func precedingKeyword(text string, start int) string {
	i := start
	if i > 0 && text[i-1] == '.' {
		i--
		for i > 0 && scss.IsNameByte(text[i-1]) {
			i--
		}
	}
	j := i
	for j > 0 && isBlank(text[j-1]) {
		j--
	}
	if j == i {
		return ""
	}
	k := j
	for k > 0 && scss.IsNameByte(text[k-1]) {
		k--
	}
	if k == 0 || text[k-1] != '@' {
		return ""
	}
	return strings.ToLower(text[k:j])
}

func skipSpacesForward(text string, i int) int {
	for i < len(text) && isBlank(text[i]) {
		i++
	}
	return i
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// rangeOf spans the name of a symbol declared at pos.
func rangeOf(pos symbols.Position, name string) Range {
	return Range{
		Start: pos,
		End:   symbols.Position{Line: pos.Line, Character: pos.Character + utf8.RuneCountInString(name)},
	}
}

func (r *request) rangeOfToken(tok token) Range {
	return Range{Start: r.lines.PositionAt(tok.start), End: r.lines.PositionAt(tok.end)}
}

// signatureLabel renders "name($a, $b: 1)".
func signatureLabel(name string, params []symbols.Parameter) string {
	return name + "(" + strings.Join(parameterLabels(params), ", ") + ")"
}

func parameterLabels(params []symbols.Parameter) []string {
	labels := make([]string, 0, len(params))
	for _, p := range params {
		label := p.Name
		if p.Default != "" {
			label += ": " + p.Default
		}
		labels = append(labels, label)
	}
	return labels
}
