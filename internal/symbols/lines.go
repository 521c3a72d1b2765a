package symbols

import (
	"sort"
	"unicode/utf8"
)

// LineIndex converts between byte offsets and positions of one text buffer.
type LineIndex struct {
	text   string
	starts []int // byte offset of each line start
}

// NewLineIndex builds the line table for text. "\n", "\r\n" and "\r" all end
// a line.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// PositionAt returns the position of offset, clamped to the buffer.
func (l *LineIndex) PositionAt(offset int) Position {
	offset = max(0, min(offset, len(l.text)))
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return Position{
		Line:      line,
		Character: utf8.RuneCountInString(l.text[l.starts[line]:offset]),
	}
}

// OffsetAt returns the byte offset of pos, clamped to its line.
func (l *LineIndex) OffsetAt(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(l.starts) {
		return len(l.text)
	}
	offset := l.starts[pos.Line]
	end := l.lineEnd(pos.Line)
	for n := 0; n < pos.Character && offset < end; n++ {
		_, size := utf8.DecodeRuneInString(l.text[offset:])
		offset += size
	}
	return offset
}

// LineCount returns the number of lines in the buffer.
func (l *LineIndex) LineCount() int {
	return len(l.starts)
}

// lineEnd is the offset of the line break ending line (or the buffer end).
func (l *LineIndex) lineEnd(line int) int {
	if line+1 >= len(l.starts) {
		return len(l.text)
	}
	end := l.starts[line+1] - 1
	if end > l.starts[line] && l.text[end] == '\n' && l.text[end-1] == '\r' {
		end--
	}
	return end
}
