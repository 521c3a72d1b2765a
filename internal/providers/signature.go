package providers

import (
	"strings"

	"github.com/M7MD889/vscode-scss/internal/scss"
	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
)

// SignatureHelp describes the mixin or function call enclosing offset. It
// returns nil outside a call, inside a declaration's parameter list, or when
// the callee is not visible.
func SignatureHelp(doc Document, offset int, store storage.Reader) (*SignatureHelpResult, error) {
	r, err := newRequest(doc, offset, store, false)
	if err != nil {
		return nil, err
	}

	call, ok := findCall(r.text, r.offset)
	if !ok {
		return nil, nil
	}
	sym, ok := r.visible.Lookup(call.name, call.kind)
	if !ok {
		return nil, nil
	}

	active := scss.CountTopLevel(r.text[call.open+1:r.offset], ',')
	if n := len(sym.Parameters); n > 0 && active >= n && strings.HasSuffix(sym.Parameters[n-1].Name, "...") {
		active = n - 1
	}

	params := make([]ParameterInformation, 0, len(sym.Parameters))
	for _, label := range parameterLabels(sym.Parameters) {
		params = append(params, ParameterInformation{Label: label})
	}

	return &SignatureHelpResult{
		Signatures: []SignatureInformation{{
			Label:      signatureLabel(sym.Name, sym.Parameters),
			Parameters: params,
		}},
		ActiveParameter: active,
	}, nil
}

type call struct {
	name string
	kind symbols.Kind
	open int // offset of the opening parenthesis
}

type frame struct {
	open   int
	interp bool // #{...} rather than (...)
}

// findCall locates the innermost unclosed parenthesis before offset within
// the current statement and names the callee in front of it.
func findCall(text string, offset int) (call, bool) {
	var stack []frame
	for i := 0; i < offset; i++ {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			i = skipQuoted(text, i, offset)
		case c == '/' && i+1 < offset && text[i+1] == '*':
			end := strings.Index(text[i+2:offset], "*/")
			if end < 0 {
				return call{}, false
			}
			i += end + 3
		case c == '/' && i+1 < offset && text[i+1] == '/' && !inParens(stack):
			nl := strings.IndexByte(text[i:offset], '\n')
			if nl < 0 {
				return call{}, false
			}
			i += nl
		case c == '#' && i+1 < offset && text[i+1] == '{':
			stack = append(stack, frame{open: i + 1, interp: true})
			i++
		case c == '(':
			stack = append(stack, frame{open: i})
		case c == ')':
			if n := len(stack); n > 0 && !stack[n-1].interp {
				stack = stack[:n-1]
			}
		case c == '}':
			if n := len(stack); n > 0 && stack[n-1].interp {
				stack = stack[:n-1]
			} else {
				stack = stack[:0]
			}
		case c == ';' || c == '{':
			stack = stack[:0]
		}
	}

	for n := len(stack) - 1; n >= 0; n-- {
		if stack[n].interp {
			continue
		}
		return callee(text, stack[n].open)
	}
	return call{}, false
}

// callee reads the name before the parenthesis at open.
func callee(text string, open int) (call, bool) {
	end := open
	for end > 0 && isBlank(text[end-1]) {
		end--
	}
	start := end
	for start > 0 && scss.IsNameByte(text[start-1]) {
		start--
	}
	if start == end || (start > 0 && text[start-1] == '$') {
		return call{}, false
	}

	c := call{name: text[start:end], kind: symbols.KindFunction, open: open}
	switch precedingKeyword(text, start) {
	case "include":
		c.kind = symbols.KindMixin
	case "mixin", "function":
		return call{}, false
	}
	return c, true
}

// skipQuoted returns the offset of the quote closing the string opened at i,
// or limit when the string is still open there.
func skipQuoted(text string, i, limit int) int {
	quote := text[i]
	for j := i + 1; j < limit; j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return limit
}

func inParens(stack []frame) bool {
	for _, f := range stack {
		if !f.interp {
			return true
		}
	}
	return false
}
