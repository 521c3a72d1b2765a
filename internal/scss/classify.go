package scss

import (
	"strings"
)

var valueFlags = []string{"!default", "!global"}

// classify turns the prelude src[start:end] into a typed node.
func classify(src string, start, end int, block bool) *Node {
	prelude := strings.TrimRight(src[start:end], " \t\r\n\f")
	n := &Node{
		Start: start,
		End:   end,
		Value: prelude,
		Block: block,
	}

	switch {
	case strings.HasPrefix(prelude, "$") && !block:
		if classifyVariable(n, prelude) {
			return n
		}
	case strings.HasPrefix(prelude, "@"):
		classifyAtRule(n, prelude)
		return n
	}

	if block {
		n.Kind = KindRuleset
	} else {
		n.Kind = KindDeclaration
	}
	return n
}

func classifyVariable(n *Node, prelude string) bool {
	nameEnd := 1 + scanName(prelude, 1)
	if nameEnd == 1 {
		return false
	}
	rest := strings.TrimLeft(prelude[nameEnd:], " \t\r\n\f")
	if !strings.HasPrefix(rest, ":") {
		return false
	}

	n.Kind = KindVariable
	n.Name = prelude[:nameEnd]
	n.NameStart = n.Start

	value := strings.TrimSpace(rest[1:])
	for stripped := true; stripped; {
		stripped = false
		for _, flag := range valueFlags {
			if len(value) >= len(flag) && strings.EqualFold(value[len(value)-len(flag):], flag) {
				n.Flags = append(n.Flags, flag)
				value = strings.TrimSpace(value[:len(value)-len(flag)])
				stripped = true
			}
		}
	}
	n.Value = value
	return true
}

func classifyAtRule(n *Node, prelude string) {
	kwEnd := 1 + scanName(prelude, 1)
	keyword := strings.ToLower(prelude[1:kwEnd])
	i := skipSpaces(prelude, kwEnd)

	switch keyword {
	case "mixin", "function":
		n.Kind = KindMixin
		if keyword == "function" {
			n.Kind = KindFunction
		}
		nameEnd := i + scanName(prelude, i)
		n.Name = prelude[i:nameEnd]
		n.NameStart = n.Start + i
		j := skipSpaces(prelude, nameEnd)
		if j < len(prelude) && prelude[j] == '(' {
			if closeAt := matchParen(prelude, j); closeAt > j {
				n.Params = parseParams(prelude[j+1:closeAt], n.Start+j+1)
			}
		}
	case "include":
		n.Kind = KindInclude
		nameEnd := i
		for nameEnd < len(prelude) && (IsNameByte(prelude[nameEnd]) || prelude[nameEnd] == '.') {
			nameEnd++
		}
		name := prelude[i:nameEnd]
		n.NameStart = n.Start + i
		if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
			n.NameStart += dot + 1
			name = name[dot+1:]
		}
		n.Name = name
	case "import", "use", "forward":
		n.Kind = KindImport
		n.Name = keyword
		n.Imports = parseImportPaths(prelude[i:], n.Start+i, keyword == "import")
	default:
		n.Kind = KindAtRule
		n.Name = keyword
	}
}

// parseParams splits a declared parameter list. base is the offset of list
// within the source.
func parseParams(list string, base int) []Param {
	var params []Param
	for _, part := range splitTopLevel(list, ',') {
		text := list[part.start:part.end]
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		offset := base + part.start + strings.Index(text, trimmed)
		p := Param{Name: trimmed, Offset: offset}
		if colon := indexTopLevel(trimmed, ':'); colon >= 0 {
			p.Name = strings.TrimSpace(trimmed[:colon])
			p.Default = strings.TrimSpace(trimmed[colon+1:])
		}
		params = append(params, p)
	}
	return params
}

// parseImportPaths extracts the targets of an import statement. Only @import
// accepts a comma separated list.
func parseImportPaths(text string, base int, multi bool) []ImportPath {
	var paths []ImportPath
	for _, part := range splitTopLevel(text, ',') {
		item := text[part.start:part.end]
		lead := len(item) - len(strings.TrimLeft(item, " \t\r\n\f"))
		item = item[lead:]
		offset := base + part.start + lead

		switch {
		case item == "":
		case item[0] == '"' || item[0] == '\'':
			if end := strings.IndexByte(item[1:], item[0]); end >= 0 {
				paths = append(paths, ImportPath{Path: item[1 : end+1], Offset: offset + 1})
			}
		case strings.HasPrefix(strings.ToLower(item), "url("):
			if closeAt := matchParen(item, 3); closeAt > 3 {
				inner := strings.TrimSpace(item[4:closeAt])
				inner = strings.Trim(inner, `"'`)
				paths = append(paths, ImportPath{Path: inner, Offset: offset + 4, URL: true})
			}
		default:
			if fields := strings.Fields(item); len(fields) > 0 {
				paths = append(paths, ImportPath{Path: fields[0], Offset: offset})
			}
		}
		if !multi {
			break
		}
	}
	return paths
}

type span struct{ start, end int }

// splitTopLevel splits s on sep, ignoring separators nested in parentheses,
// brackets, strings or interpolations.
func splitTopLevel(s string, sep byte) []span {
	var parts []span
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"' || c == '\'':
			if end := strings.IndexByte(s[i+1:], c); end >= 0 {
				i += end + 1
			}
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, span{start, i})
			start = i + 1
		}
	}
	return append(parts, span{start, len(s)})
}

// CountTopLevel counts occurrences of sep in s that are not nested in
// parentheses, brackets, strings or interpolations.
func CountTopLevel(s string, sep byte) int {
	return len(splitTopLevel(s, sep)) - 1
}

func indexTopLevel(s string, sep byte) int {
	parts := splitTopLevel(s, sep)
	if len(parts) < 2 {
		return -1
	}
	return parts[0].end
}

// matchParen returns the offset of the parenthesis closing the one at open,
// or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'':
			if end := strings.IndexByte(s[i+1:], c); end >= 0 {
				i += end + 1
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func scanName(s string, i int) int {
	n := 0
	for i+n < len(s) && IsNameByte(s[i+n]) {
		n++
	}
	return n
}

func skipSpaces(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}
