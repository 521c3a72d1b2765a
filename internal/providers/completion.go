package providers

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/M7MD889/vscode-scss/internal/scss"
	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
)

var (
	reImportLine = regexp.MustCompile(`^\s*@(import|use|forward)\b`)
	reInclude    = regexp.MustCompile(`@include\s+(?:[\w-]+\.)?[\w-]*$`)
)

// completionContext says which kinds of symbols fit at the cursor.
type completionContext struct {
	variables bool
	mixins    bool
	functions bool
}

// Completion suggests the variables, mixins and functions visible at offset.
// Symbols declared in enclosing blocks shadow those of the whole file, which
// shadow imported ones. Imported suggestions carry the implicitly label in
// their detail unless the label is disabled.
func Completion(doc Document, offset int, settings *config.Settings, store storage.Reader) (*CompletionList, error) {
	r, err := newRequest(doc, offset, store, settings.ShowErrors)
	if err != nil {
		return nil, err
	}

	want := detectContext(r.text, r.offset, settings)
	want.variables = want.variables && settings.SuggestVariables
	want.mixins = want.mixins && settings.SuggestMixins
	want.functions = want.functions && settings.SuggestFunctions

	label, labeled := settings.Implicitly()
	list := &CompletionList{Items: []CompletionItem{}}
	seen := make(map[string]bool)

	add := func(item CompletionItem, detail string) {
		key := string(item.Kind) + ":" + item.Label
		if seen[key] {
			return
		}
		seen[key] = true
		if item.Depth > 0 && labeled {
			detail = strings.TrimSpace(label + " " + detail)
		}
		item.Detail = detail
		item.Documentation = "Declared in " + filepath.Base(item.Document)
		list.Items = append(list.Items, item)
	}

	if want.variables {
		for _, e := range r.visible.Variables {
			add(CompletionItem{Label: e.Symbol.Name, Kind: symbols.KindVariable, Document: e.Document, Depth: e.Depth}, e.Symbol.Value)
		}
	}
	if want.mixins {
		for _, e := range r.visible.Mixins {
			add(CompletionItem{Label: e.Symbol.Name, Kind: symbols.KindMixin, Document: e.Document, Depth: e.Depth},
				signatureLabel(e.Symbol.Name, e.Symbol.Parameters))
		}
	}
	if want.functions {
		for _, e := range r.visible.Functions {
			add(CompletionItem{Label: e.Symbol.Name, Kind: symbols.KindFunction, Document: e.Document, Depth: e.Depth},
				signatureLabel(e.Symbol.Name, e.Symbol.Parameters))
		}
	}

	return list, nil
}

// detectContext inspects the current line up to offset.
func detectContext(text string, offset int, settings *config.Settings) completionContext {
	lineStart := strings.LastIndexAny(text[:offset], "\r\n") + 1
	line := text[lineStart:offset]

	if reImportLine.MatchString(line) || inComment(text, lineStart, offset) {
		return completionContext{}
	}

	wordStart := offset
	for wordStart > lineStart && scss.IsNameByte(text[wordStart-1]) {
		wordStart--
	}
	variable := wordStart > lineStart && text[wordStart-1] == '$'
	if variable {
		wordStart--
	}

	if quote, open := openString(line); open {
		interp := strings.LastIndex(line[quote:], "#{")
		if interp < 0 || strings.Contains(line[quote+interp:], "}") {
			return completionContext{}
		}
		if variable {
			return completionContext{variables: true}
		}
		before := byte(0)
		if wordStart > lineStart {
			before = text[wordStart-1]
		}
		return completionContext{
			variables: true,
			functions: before != 0 && strings.IndexByte(settings.SuggestFunctionsInStringContextAfterSymbols, before) >= 0,
		}
	}

	if reInclude.MatchString(line) {
		return completionContext{mixins: true}
	}
	if variable {
		return completionContext{variables: true}
	}
	if strings.Contains(line[:wordStart-lineStart], ":") {
		return completionContext{variables: true, functions: true}
	}
	return completionContext{variables: true, mixins: true, functions: true}
}

// openString returns the offset in line of the quote opening a string that
// is still open at the end of line.
func openString(line string) (int, bool) {
	var quote byte
	start := -1
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote == 0 && (c == '"' || c == '\''):
			quote = c
			start = i
		}
	}
	return start, quote != 0
}

// inComment reports whether offset is inside a line or block comment.
func inComment(text string, lineStart, offset int) bool {
	if strings.LastIndex(text[:offset], "/*") > strings.LastIndex(text[:offset], "*/") {
		return true
	}
	line := text[lineStart:offset]
	for i := 0; i+1 < len(line); i++ {
		if line[i] == '"' || line[i] == '\'' {
			if end := strings.IndexByte(line[i+1:], line[i]); end >= 0 {
				i += end + 1
				continue
			}
			return false
		}
		if line[i] == '/' && line[i+1] == '/' {
			return true
		}
	}
	return false
}
