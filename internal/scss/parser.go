package scss

import (
	"strings"
)

// Parse builds the statement tree for src. It fails on unbalanced braces or
// parentheses, unterminated strings, comments and interpolations.
func Parse(src string) (*Node, error) {
	p := &parser{src: src}
	root := &Node{Kind: KindStylesheet, Block: true, End: len(src)}
	if err := p.parseBlock(root, 0); err != nil {
		return nil, err
	}
	root.End = len(src)
	return root, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(offset int, msg string) error {
	return &SyntaxError{Offset: offset, Msg: msg}
}

func (p *parser) parseBlock(parent *Node, depth int) error {
	for {
		if err := p.skipTrivia(); err != nil {
			return err
		}
		if p.pos >= len(p.src) {
			if depth > 0 {
				return p.errorf(parent.Start, "unclosed block")
			}
			return nil
		}

		switch p.src[p.pos] {
		case '}':
			if depth == 0 {
				return p.errorf(p.pos, "unexpected '}'")
			}
			p.pos++
			parent.End = p.pos
			return nil
		case ';':
			p.pos++
			continue
		}

		start := p.pos
		end, term, err := p.scanPrelude(start)
		if err != nil {
			return err
		}

		node := classify(p.src, start, end, term == '{')
		switch term {
		case '{':
			p.pos = end + 1
			node.BodyStart = p.pos
			if err := p.parseBlock(node, depth+1); err != nil {
				return err
			}
		case ';':
			p.pos = end + 1
			node.End = p.pos
		default:
			// Last statement of a block or file without a trailing ';'.
			p.pos = end
			node.End = end
		}
		parent.Children = append(parent.Children, node)
	}
}

// skipTrivia advances past whitespace and comments.
func (p *parser) skipTrivia() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case isSpace(c):
			p.pos++
		case strings.HasPrefix(p.src[p.pos:], "//"):
			p.pos = skipLine(p.src, p.pos)
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			end, err := p.skipBlockComment(p.pos)
			if err != nil {
				return err
			}
			p.pos = end
		default:
			return nil
		}
	}
	return nil
}

// scanPrelude finds the end of the statement starting at start. It returns the
// offset of the terminator and the terminator itself: '{', ';', '}' or 0 at
// end of input.
func (p *parser) scanPrelude(start int) (int, byte, error) {
	depth := 0
	i := start
	for i < len(p.src) {
		c := p.src[i]
		switch {
		case c == '"' || c == '\'':
			end, err := p.skipString(i)
			if err != nil {
				return 0, 0, err
			}
			i = end
			continue
		case c == '#' && i+1 < len(p.src) && p.src[i+1] == '{':
			end, err := p.skipInterpolation(i)
			if err != nil {
				return 0, 0, err
			}
			i = end
			continue
		case c == '/' && i+1 < len(p.src) && p.src[i+1] == '*':
			end, err := p.skipBlockComment(i)
			if err != nil {
				return 0, 0, err
			}
			i = end
			continue
		case c == '/' && i+1 < len(p.src) && p.src[i+1] == '/' && depth == 0:
			i = skipLine(p.src, i)
			continue
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth == 0 {
				return 0, 0, p.errorf(i, "unexpected '"+string(c)+"'")
			}
			depth--
		case depth == 0 && (c == ';' || c == '{' || c == '}'):
			return i, c, nil
		}
		i++
	}
	if depth > 0 {
		return 0, 0, p.errorf(start, "unclosed parenthesis")
	}
	return len(p.src), 0, nil
}

// skipString returns the offset just past the string literal opened at i.
func (p *parser) skipString(i int) (int, error) {
	quote := p.src[i]
	for j := i + 1; j < len(p.src); j++ {
		switch p.src[j] {
		case '\\':
			j++
		case '\n':
			return 0, p.errorf(i, "unterminated string")
		case quote:
			return j + 1, nil
		}
	}
	return 0, p.errorf(i, "unterminated string")
}

// skipInterpolation returns the offset just past the #{...} opened at i.
func (p *parser) skipInterpolation(i int) (int, error) {
	depth := 0
	for j := i + 1; j < len(p.src); j++ {
		switch p.src[j] {
		case '"', '\'':
			end, err := p.skipString(j)
			if err != nil {
				return 0, err
			}
			j = end - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1, nil
			}
		}
	}
	return 0, p.errorf(i, "unterminated interpolation")
}

func (p *parser) skipBlockComment(i int) (int, error) {
	end := strings.Index(p.src[i+2:], "*/")
	if end < 0 {
		return 0, p.errorf(i, "unterminated comment")
	}
	return i + 2 + end + 2, nil
}

func skipLine(src string, i int) int {
	if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
		return i + nl + 1
	}
	return len(src)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// IsNameByte reports whether c can appear in an SCSS identifier.
func IsNameByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c >= 0x80
}
