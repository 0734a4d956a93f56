package css

import (
	"strconv"
	"strings"
)

// ParseSize scans a size literal at the current position of s: an optional
// '-', digits with optional '.' and exponent, then the longest known unit.
// It never fails. No digits yields 0 and an unknown unit yields a unitless
// size, leaving the unit characters in the stream; whether that is
// acceptable is up to the caller.
func ParseSize(s Stream, isColorComponent bool) *Size {
	var sb strings.Builder
	if s.Comes("-", false) {
		sb.WriteString(s.Consume(1))
	}
	for {
		c := s.Peek(1, 0)
		if c == "" {
			break
		}
		if c == "." || isDigit(c[0]) {
			sb.WriteString(s.Consume(1))
			continue
		}
		if c == "e" || c == "E" {
			// "1e3" is an exponent, "1em" is a unit
			if la := s.Peek(1, 1); la != "" && (isDigit(la[0]) || la == "+" || la == "-") {
				sb.WriteString(s.Consume(2))
				continue
			}
		}
		break
	}

	size := parseLeadingFloat(sb.String())

	unit := UnitNone
	for _, b := range unitTable {
		key := strings.ToLower(s.Peek(b.length, 0))
		if u, ok := b.units[key]; ok {
			s.Consume(b.length)
			unit = u
			break
		}
	}
	return NewSize(size, unit, isColorComponent, s.CurrentLine())
}

// ParseSizeString scans a size literal from the start of text and returns it
// together with the number of bytes consumed.
func ParseSizeString(text string, isColorComponent bool) (*Size, int) {
	s := NewParserState(text)
	size := ParseSize(s, isColorComponent)
	return size, s.Offset()
}

// parseLeadingFloat converts the longest prefix of text that is a valid
// decimal literal, -?digits[.digits][(e|E)[+-]digits], with at least one
// mantissa digit. Anything after that prefix is ignored, and text without
// such a prefix converts to 0. Exponent overflow gives an infinity.
func parseLeadingFloat(text string) float64 {
	i := 0
	if i < len(text) && text[i] == '-' {
		i++
	}
	digits := 0
	for i < len(text) && isDigit(text[i]) {
		i++
		digits++
	}
	end := i
	if i < len(text) && text[i] == '.' {
		i++
		for i < len(text) && isDigit(text[i]) {
			i++
			digits++
		}
		end = i
	}
	if digits == 0 {
		return 0
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		j := i + 1
		if j < len(text) && (text[j] == '+' || text[j] == '-') {
			j++
		}
		expStart := j
		for j < len(text) && isDigit(text[j]) {
			j++
		}
		if j > expStart {
			end = j
		}
	}

	// ErrRange still carries the correctly signed infinity or zero
	f, _ := strconv.ParseFloat(text[:end], 64)
	return f
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
