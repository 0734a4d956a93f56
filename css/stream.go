package css

import (
	"strings"
	"unicode/utf8"
)

// Stream is a positioned character source. Lengths and offsets are counted
// in characters (runes), not bytes.
type Stream interface {
	// Peek returns up to n characters starting offset characters ahead of
	// the cursor without advancing it. Fewer characters are returned near
	// the end of input.
	Peek(n, offset int) string
	// Consume advances the cursor by up to n characters and returns them.
	Consume(n int) string
	// Comes reports whether the upcoming text starts with literal.
	Comes(literal string, caseInsensitive bool) bool
	// CurrentLine returns the 1-based line of the cursor.
	CurrentLine() int
}

// ParserState is an in-memory Stream.
type ParserState struct {
	text []rune
	pos  int // rune offset of the cursor
	off  int // byte offset of the cursor
	line int
}

// NewParserState returns a stream positioned at the start of text on line 1.
func NewParserState(text string) *ParserState {
	return NewParserStateAt(text, 1)
}

// NewParserStateAt returns a stream positioned at the start of text, which
// itself starts at the given line of some larger source.
func NewParserStateAt(text string, line int) *ParserState {
	if line < 1 {
		line = 1
	}
	return &ParserState{text: []rune(text), line: line}
}

func (s *ParserState) Peek(n, offset int) string {
	start := min(s.pos+max(offset, 0), len(s.text))
	end := min(start+max(n, 0), len(s.text))
	return string(s.text[start:end])
}

func (s *ParserState) Consume(n int) string {
	end := min(s.pos+max(n, 0), len(s.text))
	consumed := s.text[s.pos:end]
	for _, r := range consumed {
		if r == '\n' {
			s.line++
		}
		s.off += utf8.RuneLen(r)
	}
	s.pos = end
	return string(consumed)
}

func (s *ParserState) Comes(literal string, caseInsensitive bool) bool {
	next := s.Peek(utf8.RuneCountInString(literal), 0)
	if caseInsensitive {
		return strings.EqualFold(next, literal)
	}
	return next == literal
}

func (s *ParserState) CurrentLine() int {
	return s.line
}

// ConsumeLiteral consumes literal if it comes next and returns it, otherwise
// it returns an empty string and leaves the cursor alone.
func (s *ParserState) ConsumeLiteral(literal string) string {
	if !s.Comes(literal, false) {
		return ""
	}
	return s.Consume(utf8.RuneCountInString(literal))
}

// AtEnd reports whether all input has been consumed.
func (s *ParserState) AtEnd() bool {
	return s.pos >= len(s.text)
}

// Offset returns the number of bytes consumed so far.
func (s *ParserState) Offset() int {
	return s.off
}
