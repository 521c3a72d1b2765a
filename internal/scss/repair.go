package scss

// CloseOpen returns src followed by whatever closes its open constructs: a
// block comment, a string, then parentheses, brackets, interpolations and
// blocks innermost first. A trailing line comment is ended with a newline.
// This turns the text before a cursor into something Parse accepts.
func CloseOpen(src string) string {
	var (
		stack       []byte
		quote       byte
		inComment   bool
		lineComment bool
	)

	for i := 0; i < len(src); i++ {
		c := src[i]
		next := byte(0)
		if i+1 < len(src) {
			next = src[i+1]
		}

		switch {
		case lineComment:
			if c == '\n' {
				lineComment = false
			}
		case inComment:
			if c == '*' && next == '/' {
				inComment = false
				i++
			}
		case quote != 0:
			switch c {
			case '\\':
				i++
			case quote, '\n':
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && next == '*':
			inComment = true
			i++
		case c == '/' && next == '/' && (len(stack) == 0 || stack[len(stack)-1] == '{'):
			lineComment = true
			i++
		case c == '#' && next == '{':
			stack = append(stack, '{')
			i++
		case c == '(' || c == '[' || c == '{':
			stack = append(stack, c)
		case c == ')' || c == ']' || c == '}':
			if len(stack) > 0 && closerOf(stack[len(stack)-1]) == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	suffix := make([]byte, 0, len(stack)+3)
	switch {
	case lineComment:
		suffix = append(suffix, '\n')
	case inComment:
		suffix = append(suffix, '*', '/')
	case quote != 0:
		suffix = append(suffix, quote)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		suffix = append(suffix, closerOf(stack[i]))
	}
	return src + string(suffix)
}

func closerOf(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return '}'
}
